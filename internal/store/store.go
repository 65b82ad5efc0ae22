// Package store persists the contact list as a single JSON entry in a
// key-value backend and keeps the in-memory copy in step with it.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/smileynet/clientele/internal/contact"
)

// DefaultKey is the entry name the contact list is stored under.
const DefaultKey = "contacts"

// Store holds the contact list in memory and writes every replacement
// through to its backend. It is not safe for concurrent use; callers confine
// it to one goroutine (the Bubble Tea update loop or a single CLI command).
type Store struct {
	backend  Backend
	key      string
	log      *zap.Logger
	contacts []contact.Contact
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the entry name (default DefaultKey).
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger used for persistence events.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a Store over backend. Call Load before reading.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend:  backend,
		key:      DefaultKey,
		log:      zap.NewNop(),
		contacts: []contact.Contact{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load reads the persisted list. A missing entry yields an empty list;
// a malformed one is an error and leaves the in-memory list unchanged.
func (s *Store) Load(ctx context.Context) ([]contact.Contact, error) {
	data, found, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("store: loading %q: %w", s.key, err)
	}
	if !found || len(data) == 0 {
		s.log.Info("no stored contacts, starting empty", zap.String("key", s.key))
		s.contacts = []contact.Contact{}
		return s.Contacts(), nil
	}

	var list []contact.Contact
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("store: parsing %q: %w", s.key, err)
	}
	if list == nil {
		list = []contact.Contact{}
	}
	s.contacts = list
	s.log.Info("loaded contacts", zap.String("key", s.key), zap.Int("count", len(list)))
	return s.Contacts(), nil
}

// Replace persists list in full and then publishes it as the in-memory state.
// On a write failure the in-memory state is left as it was.
func (s *Store) Replace(ctx context.Context, list []contact.Contact) error {
	if list == nil {
		list = []contact.Contact{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("store: marshaling: %w", err)
	}
	if err := s.backend.Set(ctx, s.key, data); err != nil {
		s.log.Error("persisting contacts failed", zap.String("key", s.key), zap.Error(err))
		return fmt.Errorf("store: saving %q: %w", s.key, err)
	}
	s.contacts = slices.Clone(list)
	s.log.Debug("persisted contacts",
		zap.String("key", s.key),
		zap.Int("count", len(list)),
		zap.Int("bytes", len(data)),
	)
	return nil
}

// Contacts returns a copy of the in-memory list.
func (s *Store) Contacts() []contact.Contact {
	return slices.Clone(s.contacts)
}
