package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	v.SetDefault("env", EnvDevelopment)
	v.SetDefault("db.driver", "sqlite3")
	v.SetDefault("db.dsn", "file:movies.db")
	v.SetDefault("session.store", "db")
	v.SetDefault("session.lifetime", "720h")
	v.SetDefault("session.idle_timeout", "24h")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("log.level", "info")
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.False(t, cfg.Session.Secure)
	assert.Equal(t, 24*time.Hour, cfg.Session.IdleTimeout)
	assert.Equal(t, 720*time.Hour, cfg.Session.Lifetime)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestFromViper_ProductionEnablesSecureCookies(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{"env": "production"}))
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.Session.Secure)

	cfg, err = fromViper(newViper(map[string]any{"env": "production", "session.secure": false}))
	require.NoError(t, err)
	assert.False(t, cfg.Session.Secure)
}

func TestFromViper_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
	}{
		{"unknown env", map[string]any{"env": "staging"}},
		{"unknown driver", map[string]any{"db.driver": "oracle"}},
		{"missing dsn", map[string]any{"db.dsn": ""}},
		{"bad lifetime", map[string]any{"session.lifetime": "forever"}},
		{"bad idle timeout", map[string]any{"session.idle_timeout": "soon"}},
		{"bad log level", map[string]any{"log.level": "loud"}},
		{"unknown session store", map[string]any{"session.store": "file"}},
		{"db sessions with mongodb", map[string]any{"db.driver": "mongodb", "db.dsn": "mongodb://localhost:27017"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fromViper(newViper(tt.values))
			assert.Error(t, err)
		})
	}
}

func TestFromViper_MongoWithRedisSessions(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{
		"db.driver":     "mongodb",
		"db.dsn":        "mongodb://localhost:27017",
		"session.store": "redis",
	}))
	require.NoError(t, err)
	assert.Equal(t, "mongodb", cfg.DB.Driver)
	assert.Equal(t, "redis", cfg.Session.Store)
}
