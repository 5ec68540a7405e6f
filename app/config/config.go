package config

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/mandelsoft/vfs/pkg/vfs"

	"go.hackfix.me/purr/web/server/types"
	"go.hackfix.me/purr/xtime"
)

// Config represents the application configuration, backed by a filesystem for
// persistence.
type Config struct {
	Server Server
	Store  Store

	fs     vfs.FileSystem
	path   string
	stored bool
}

// NewConfig creates a new Config instance with the specified filesystem
// and configuration file path.
func NewConfig(fs vfs.FileSystem, path string) *Config {
	return &Config{fs: fs, path: path}
}

// Load reads and parses the configuration file from the filesystem.
// If the file doesn't exist, it initializes with an empty configuration.
func (c *Config) Load() error {
	configJSON, err := vfs.ReadFile(c.fs, c.path)
	if err != nil && !vfs.IsErrNotExist(err) {
		return fmt.Errorf("failed reading configuration file: %w", err)
	}
	c.stored = err == nil

	// Ensure that unmarshalling JSON doesn't fail if the file doesn't exist or is empty.
	if len(configJSON) == 0 {
		configJSON = []byte("{}")
	}

	if err = json.Unmarshal(configJSON, c); err != nil {
		return fmt.Errorf("failed parsing configuration file: %w", err)
	}

	return nil
}

// Path returns the filesystem path where the configuration is stored.
func (c *Config) Path() string {
	return c.path
}

// Stored returns true if the configuration was loaded from or saved to the
// filesystem.
func (c *Config) Stored() bool {
	return c.stored
}

// Save writes the current configuration to the filesystem as JSON.
func (c *Config) Save() error {
	if err := c.fs.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed creating configuration directory: %w", err)
	}
	configJSON, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed serializing configuration data: %w", err)
	}
	if err = vfs.WriteFile(c.fs, c.path, configJSON, 0o644); err != nil {
		return fmt.Errorf("failed writing configuration file: %w", err)
	}
	c.stored = true

	return nil
}

// Server defines configuration options specific to the HTTP server.
type Server struct {
	// Address is the network address in [host]:port format the server will listen on.
	Address sql.Null[string] `json:"address"`
	// ErrorLevel is the detail level of server error messages returned to
	// clients.
	ErrorLevel sql.Null[types.ErrorLevel] `json:"error_level"`
	// ReadTimeout is the maximum duration for reading an entire request.
	// It serializes from/to xtime.Duration string values.
	ReadTimeout sql.Null[time.Duration] `json:"read_timeout"`
	// WriteTimeout is the maximum duration before timing out writes of a
	// response. It serializes from/to xtime.Duration string values.
	WriteTimeout sql.Null[time.Duration] `json:"write_timeout"`
}

// StoreBackend is the storage backend of cats.
type StoreBackend string

// Supported store backends.
const (
	StoreSQLite StoreBackend = "sqlite"
	StoreRedis  StoreBackend = "redis"
)

// StoreBackendFromString parses a StoreBackend.
func StoreBackendFromString(s string) (StoreBackend, error) {
	switch sb := StoreBackend(s); sb {
	case StoreSQLite, StoreRedis:
		return sb, nil
	default:
		return "", fmt.Errorf("invalid store backend '%s'", s)
	}
}

// Store defines configuration options of the cat store.
type Store struct {
	Backend sql.Null[StoreBackend] `json:"backend"`
	// RedisAddress is the host:port of the Redis server.
	RedisAddress sql.Null[string] `json:"redis_address"`
	RedisDB      sql.Null[int]    `json:"redis_db"`
	// KeyPrefix is prepended to all Redis keys.
	KeyPrefix sql.Null[string] `json:"key_prefix"`
}

type cfgWrapper struct {
	Server srvCfgWrapper   `json:"server"`
	Store  storeCfgWrapper `json:"store"`
}
type srvCfgWrapper struct {
	Address      string `json:"address,omitempty"`
	ErrorLevel   string `json:"error_level,omitempty"`
	ReadTimeout  string `json:"read_timeout,omitempty"`
	WriteTimeout string `json:"write_timeout,omitempty"`
}
type storeCfgWrapper struct {
	Backend      string `json:"backend,omitempty"`
	RedisAddress string `json:"redis_address,omitempty"`
	RedisDB      *int   `json:"redis_db,omitempty"`
	KeyPrefix    string `json:"key_prefix,omitempty"`
}

// MarshalJSON implements custom JSON marshaling to convert sql.Null values
// to their underlying types, omitting invalid/null fields from the output.
func (c Config) MarshalJSON() ([]byte, error) {
	w := cfgWrapper{}

	if c.Server.Address.Valid {
		w.Server.Address = c.Server.Address.V
	}
	if c.Server.ErrorLevel.Valid {
		w.Server.ErrorLevel = string(c.Server.ErrorLevel.V)
	}
	if c.Server.ReadTimeout.Valid {
		w.Server.ReadTimeout = xtime.FormatDuration(c.Server.ReadTimeout.V, time.Second)
	}
	if c.Server.WriteTimeout.Valid {
		w.Server.WriteTimeout = xtime.FormatDuration(c.Server.WriteTimeout.V, time.Second)
	}

	if c.Store.Backend.Valid {
		w.Store.Backend = string(c.Store.Backend.V)
	}
	if c.Store.RedisAddress.Valid {
		w.Store.RedisAddress = c.Store.RedisAddress.V
	}
	if c.Store.RedisDB.Valid {
		w.Store.RedisDB = &c.Store.RedisDB.V
	}
	if c.Store.KeyPrefix.Valid {
		w.Store.KeyPrefix = c.Store.KeyPrefix.V
	}

	//nolint:wrapcheck // This is fine.
	return json.Marshal(w)
}

// UnmarshalJSON implements custom JSON unmarshaling to convert plain values
// into sql.Null types and parse duration strings into time.Duration values.
func (c *Config) UnmarshalJSON(data []byte) error {
	var w cfgWrapper
	if err := json.Unmarshal(data, &w); err != nil {
		//nolint:wrapcheck // This is fine.
		return err
	}

	if w.Server.Address != "" {
		c.Server.Address = sql.Null[string]{V: w.Server.Address, Valid: true}
	}
	if w.Server.ErrorLevel != "" {
		lvl, err := types.ErrorLevelFromString(w.Server.ErrorLevel)
		if err != nil {
			return err
		}
		c.Server.ErrorLevel = sql.Null[types.ErrorLevel]{V: lvl, Valid: true}
	}
	if w.Server.ReadTimeout != "" {
		dur, err := xtime.ParseDuration(w.Server.ReadTimeout)
		if err != nil {
			return fmt.Errorf("failed parsing server read timeout: %w", err)
		}
		c.Server.ReadTimeout = sql.Null[time.Duration]{V: dur, Valid: true}
	}
	if w.Server.WriteTimeout != "" {
		dur, err := xtime.ParseDuration(w.Server.WriteTimeout)
		if err != nil {
			return fmt.Errorf("failed parsing server write timeout: %w", err)
		}
		c.Server.WriteTimeout = sql.Null[time.Duration]{V: dur, Valid: true}
	}

	if w.Store.Backend != "" {
		sb, err := StoreBackendFromString(w.Store.Backend)
		if err != nil {
			return err
		}
		c.Store.Backend = sql.Null[StoreBackend]{V: sb, Valid: true}
	}
	if w.Store.RedisAddress != "" {
		c.Store.RedisAddress = sql.Null[string]{V: w.Store.RedisAddress, Valid: true}
	}
	if w.Store.RedisDB != nil {
		c.Store.RedisDB = sql.Null[int]{V: *w.Store.RedisDB, Valid: true}
	}
	if w.Store.KeyPrefix != "" {
		c.Store.KeyPrefix = sql.Null[string]{V: w.Store.KeyPrefix, Valid: true}
	}

	return nil
}

// SetDefaults sets default configuration values if they weren't set already.
func (c *Config) SetDefaults() {
	if !c.Server.ErrorLevel.Valid {
		c.Server.ErrorLevel = sql.Null[types.ErrorLevel]{V: types.ErrorLevelFull, Valid: true}
	}
	if !c.Server.ReadTimeout.Valid {
		c.Server.ReadTimeout = sql.Null[time.Duration]{V: 30 * time.Second, Valid: true}
	}
	if !c.Server.WriteTimeout.Valid {
		c.Server.WriteTimeout = sql.Null[time.Duration]{V: time.Minute, Valid: true}
	}
	if !c.Store.Backend.Valid {
		c.Store.Backend = sql.Null[StoreBackend]{V: StoreSQLite, Valid: true}
	}
	if !c.Store.RedisAddress.Valid {
		c.Store.RedisAddress = sql.Null[string]{V: "localhost:6379", Valid: true}
	}
	if !c.Store.RedisDB.Valid {
		c.Store.RedisDB = sql.Null[int]{V: 0, Valid: true}
	}
	if !c.Store.KeyPrefix.Valid {
		c.Store.KeyPrefix = sql.Null[string]{V: "purr:", Valid: true}
	}
}
