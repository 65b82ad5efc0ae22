// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/smileynet/clientele/internal/contact"
)

// Config holds all clientele configuration.
type Config struct {
	Storage Storage `yaml:"storage"`
	Redis   Redis   `yaml:"redis"`
	Log     Log     `yaml:"log"`
	UI      UI      `yaml:"ui"`
}

// Storage selects where the contact list is persisted.
type Storage struct {
	Backend string `yaml:"backend"` // "file" | "redis" | "memory"
	Dir     string `yaml:"dir"`     // Base directory for the file backend.
	Key     string `yaml:"key"`     // Entry name holding the contact list.
}

// Redis holds connection settings for the redis backend.
type Redis struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Log holds logger settings.
type Log struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Path   string `yaml:"path"`   // Log file; "stderr" logs to standard error.
	Format string `yaml:"format"` // json | console
}

// UI holds dashboard defaults.
type UI struct {
	PhoneType string `yaml:"phone_type"`
	EmailType string `yaml:"email_type"`
}

// Storage backend names.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Storage: Storage{
			Backend: BackendFile,
			Dir:     ".clientele/data",
			Key:     "contacts",
		},
		Redis: Redis{
			Addr:    "localhost:6379",
			Prefix:  "clientele",
			Timeout: 3 * time.Second,
		},
		Log: Log{
			Level:  "info",
			Path:   ".clientele/clientele.log",
			Format: "json",
		},
		UI: UI{
			PhoneType: string(contact.PhoneCell),
			EmailType: string(contact.EmailPersonal),
		},
	}
}

// Load reads one config file over the defaults and validates the result.
// A missing or comment-only file yields the defaults. Invalid YAML, unknown
// fields, and unusable values are errors.
func Load(path string) (*Config, error) {
	cfg, err := LoadLayered(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w in %s", err, path)
	}
	return cfg, nil
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.Dir == "" {
			return errors.New("config: storage.dir cannot be empty for the file backend")
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return errors.New("config: redis.addr cannot be empty for the redis backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("config: storage.backend must be \"file\", \"redis\" or \"memory\", got %q", c.Storage.Backend)
	}
	if c.Storage.Key == "" {
		return errors.New("config: storage.key cannot be empty")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("config: redis.db must be non-negative, got %d", c.Redis.DB)
	}
	if c.Redis.Timeout < 0 {
		return fmt.Errorf("config: redis.timeout must be non-negative, got %v", c.Redis.Timeout)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format must be \"json\" or \"console\", got %q", c.Log.Format)
	}
	if _, err := contact.ParsePhoneType(c.UI.PhoneType); err != nil {
		return fmt.Errorf("config: ui.phone_type: %w", err)
	}
	if _, err := contact.ParseEmailType(c.UI.EmailType); err != nil {
		return fmt.Errorf("config: ui.email_type: %w", err)
	}
	return nil
}

// envOverrides lists the supported environment variables. Empty values
// leave the config untouched.
type envOverrides struct {
	Backend       string        `env:"CLIENTELE_STORAGE_BACKEND"`
	Dir           string        `env:"CLIENTELE_DATA_DIR"`
	Key           string        `env:"CLIENTELE_STORAGE_KEY"`
	RedisAddr     string        `env:"CLIENTELE_REDIS_ADDR"`
	RedisPassword string        `env:"CLIENTELE_REDIS_PASSWORD"`
	RedisDB       *int          `env:"CLIENTELE_REDIS_DB"`
	RedisTimeout  time.Duration `env:"CLIENTELE_REDIS_TIMEOUT"`
	LogLevel      string        `env:"CLIENTELE_LOG_LEVEL"`
	LogPath       string        `env:"CLIENTELE_LOG_PATH"`
}

// LoadDotEnv loads variables from a dotenv file into the process
// environment. Variables already set take precedence. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv applies CLIENTELE_* environment variable overrides to the config.
func (c *Config) ApplyEnv() error {
	var ov envOverrides
	if err := env.Parse(&ov); err != nil {
		return fmt.Errorf("config: parsing environment: %w", err)
	}
	if ov.Backend != "" {
		c.Storage.Backend = ov.Backend
	}
	if ov.Dir != "" {
		c.Storage.Dir = ov.Dir
	}
	if ov.Key != "" {
		c.Storage.Key = ov.Key
	}
	if ov.RedisAddr != "" {
		c.Redis.Addr = ov.RedisAddr
	}
	if ov.RedisPassword != "" {
		c.Redis.Password = ov.RedisPassword
	}
	if ov.RedisDB != nil {
		c.Redis.DB = *ov.RedisDB
	}
	if ov.RedisTimeout != 0 {
		c.Redis.Timeout = ov.RedisTimeout
	}
	if ov.LogLevel != "" {
		c.Log.Level = ov.LogLevel
	}
	if ov.LogPath != "" {
		c.Log.Path = ov.LogPath
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Storage *rawStorage `yaml:"storage"`
	Redis   *rawRedis   `yaml:"redis"`
	Log     *rawLog     `yaml:"log"`
	UI      *rawUI      `yaml:"ui"`
}

type rawStorage struct {
	Backend *string `yaml:"backend"`
	Dir     *string `yaml:"dir"`
	Key     *string `yaml:"key"`
}

type rawRedis struct {
	Addr     *string        `yaml:"addr"`
	Password *string        `yaml:"password"`
	DB       *int           `yaml:"db"`
	Prefix   *string        `yaml:"prefix"`
	Timeout  *time.Duration `yaml:"timeout"`
}

type rawLog struct {
	Level  *string `yaml:"level"`
	Path   *string `yaml:"path"`
	Format *string `yaml:"format"`
}

type rawUI struct {
	PhoneType *string `yaml:"phone_type"`
	EmailType *string `yaml:"email_type"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if s := layer.Storage; s != nil {
		setIf(&c.Storage.Backend, s.Backend)
		setIf(&c.Storage.Dir, s.Dir)
		setIf(&c.Storage.Key, s.Key)
	}
	if r := layer.Redis; r != nil {
		setIf(&c.Redis.Addr, r.Addr)
		setIf(&c.Redis.Password, r.Password)
		setIf(&c.Redis.DB, r.DB)
		setIf(&c.Redis.Prefix, r.Prefix)
		setIf(&c.Redis.Timeout, r.Timeout)
	}
	if l := layer.Log; l != nil {
		setIf(&c.Log.Level, l.Level)
		setIf(&c.Log.Path, l.Path)
		setIf(&c.Log.Format, l.Format)
	}
	if u := layer.UI; u != nil {
		setIf(&c.UI.PhoneType, u.PhoneType)
		setIf(&c.UI.EmailType, u.EmailType)
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
