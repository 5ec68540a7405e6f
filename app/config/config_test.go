package config

import (
	"database/sql"
	"testing"
	"time"

	"github.com/mandelsoft/vfs/pkg/memoryfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.hackfix.me/purr/web/server/types"
)

func TestConfigLoadSave(t *testing.T) {
	t.Parallel()

	fs := memoryfs.New()
	cfg := NewConfig(fs, "/etc/purr/config.json")

	// A missing file is an empty configuration.
	require.NoError(t, cfg.Load())
	assert.False(t, cfg.Server.Address.Valid)
	assert.False(t, cfg.Stored())

	cfg.SetDefaults()
	cfg.Server.Address = sql.Null[string]{V: ":8080", Valid: true}
	require.NoError(t, cfg.Save())
	assert.True(t, cfg.Stored())

	data, err := vfs.ReadFile(fs, cfg.Path())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"server": {
			"address": ":8080",
			"error_level": "full",
			"read_timeout": "30s",
			"write_timeout": "1m"
		},
		"store": {
			"backend": "sqlite",
			"redis_address": "localhost:6379",
			"redis_db": 0,
			"key_prefix": "purr:"
		}
	}`, string(data))

	loaded := NewConfig(fs, cfg.Path())
	require.NoError(t, loaded.Load())
	assert.True(t, loaded.Stored())
	assert.Equal(t, cfg.Server, loaded.Server)
	assert.Equal(t, cfg.Store, loaded.Store)
}

func TestConfigLoad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		expErr  string
		checkFn func(*testing.T, *Config)
	}{
		{
			name: "ok/partial",
			data: `{"server": {"error_level": "minimal", "read_timeout": "1m30s"}, "store": {"backend": "redis", "redis_db": 2}}`,
			checkFn: func(t *testing.T, cfg *Config) {
				assert.Equal(t, sql.Null[types.ErrorLevel]{V: types.ErrorLevelMinimal, Valid: true}, cfg.Server.ErrorLevel)
				assert.Equal(t, sql.Null[time.Duration]{V: 90 * time.Second, Valid: true}, cfg.Server.ReadTimeout)
				assert.False(t, cfg.Server.WriteTimeout.Valid)
				assert.Equal(t, sql.Null[StoreBackend]{V: StoreRedis, Valid: true}, cfg.Store.Backend)
				assert.Equal(t, sql.Null[int]{V: 2, Valid: true}, cfg.Store.RedisDB)
			},
		},
		{
			name:   "err/error_level",
			data:   `{"server": {"error_level": "verbose"}}`,
			expErr: "failed parsing configuration file: invalid error level 'verbose'",
		},
		{
			name:   "err/backend",
			data:   `{"store": {"backend": "postgres"}}`,
			expErr: "failed parsing configuration file: invalid store backend 'postgres'",
		},
		{
			name:   "err/timeout",
			data:   `{"server": {"write_timeout": "soon"}}`,
			expErr: "failed parsing configuration file: failed parsing server write timeout: invalid duration 'soon'",
		},
		{
			name:   "err/syntax",
			data:   `{"server": `,
			expErr: "failed parsing configuration file: unexpected end of JSON input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := memoryfs.New()
			require.NoError(t, vfs.WriteFile(fs, "/config.json", []byte(tt.data), 0o644))

			cfg := NewConfig(fs, "/config.json")
			err := cfg.Load()
			if tt.expErr != "" {
				assert.EqualError(t, err, tt.expErr)
				return
			}
			require.NoError(t, err)
			tt.checkFn(t, cfg)
		})
	}
}
