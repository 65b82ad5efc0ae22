package contact

import (
	"sync"
	"time"
)

// IDSource issues creation timestamps used as entity IDs.
type IDSource interface {
	NextID() int64
}

// Clock issues Unix-millisecond timestamps. Two calls within the same
// millisecond get distinct IDs: the second is bumped past the first.
type Clock struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewClock returns a Clock reading the wall clock.
func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// NextID returns the current time in milliseconds, strictly greater than
// any ID this Clock has issued before.
func (c *Clock) NextID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.now().UnixMilli()
	if id <= c.last {
		id = c.last + 1
	}
	c.last = id
	return id
}

// Timestamp converts an ID back to the time it was issued.
func Timestamp(id int64) time.Time {
	return time.UnixMilli(id)
}
