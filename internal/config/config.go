package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env  string
	HTTP struct {
		Addr string
	}
	DB struct {
		Driver string
		DSN    string
		Name   string // MongoDB database name
	}
	Session struct {
		Store       string // "db", "redis" or "memory"
		Lifetime    time.Duration
		IdleTimeout time.Duration
		Secure      bool
	}
	Redis struct {
		Addr     string
		Password string
	}
	LogLevel slog.Level
}

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Load reads config from an optional .env file, the environment (MOVIES_ prefix)
// and an optional movies.yaml.
func Load() (*Config, error) {
	_ = godotenv.Load() // optional .env

	v := viper.New()
	v.SetEnvPrefix("MOVIES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("movies")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	v.SetDefault("env", EnvDevelopment)
	v.SetDefault("http.addr", ":3000")
	v.SetDefault("db.driver", "sqlite3")
	v.SetDefault("db.dsn", "file:movies.db")
	v.SetDefault("db.name", "movies-app")
	v.SetDefault("session.store", "db")
	v.SetDefault("session.lifetime", "720h")
	v.SetDefault("session.idle_timeout", "24h")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("log.level", "info")

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	cfg.Env = strings.ToLower(v.GetString("env"))
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.DB.Name = v.GetString("db.name")
	cfg.Session.Store = v.GetString("session.store")
	cfg.Redis.Addr = v.GetString("redis.addr")
	cfg.Redis.Password = v.GetString("redis.password")

	// Secure cookies follow the environment unless set explicitly.
	cfg.Session.Secure = cfg.IsProduction()
	if v.IsSet("session.secure") {
		cfg.Session.Secure = v.GetBool("session.secure")
	}

	lifetime, err := time.ParseDuration(v.GetString("session.lifetime"))
	if err != nil {
		return nil, fmt.Errorf("invalid MOVIES_SESSION_LIFETIME: %w", err)
	}
	cfg.Session.Lifetime = lifetime

	idle, err := time.ParseDuration(v.GetString("session.idle_timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid MOVIES_SESSION_IDLE_TIMEOUT: %w", err)
	}
	cfg.Session.IdleTimeout = idle

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("log.level"))); err != nil {
		return nil, fmt.Errorf("invalid MOVIES_LOG_LEVEL: %w", err)
	}

	switch cfg.Env {
	case EnvDevelopment, EnvProduction:
	default:
		return nil, fmt.Errorf("MOVIES_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, cfg.Env)
	}

	switch cfg.DB.Driver {
	case "sqlite3", "postgres", "mysql", "mongodb":
	case "":
		return nil, fmt.Errorf("MOVIES_DB_DRIVER is required (sqlite3, postgres, mysql, mongodb)")
	default:
		return nil, fmt.Errorf("unsupported MOVIES_DB_DRIVER %q", cfg.DB.Driver)
	}
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("MOVIES_DB_DSN is required")
	}

	switch cfg.Session.Store {
	case "db":
		if cfg.DB.Driver == "mongodb" {
			return nil, fmt.Errorf("MOVIES_SESSION_STORE=db needs a SQL driver; use redis or memory with mongodb")
		}
	case "redis":
		if cfg.Redis.Addr == "" {
			return nil, fmt.Errorf("MOVIES_REDIS_ADDR is required for the redis session store")
		}
	case "memory":
	default:
		return nil, fmt.Errorf("unsupported MOVIES_SESSION_STORE %q (db, redis, memory)", cfg.Session.Store)
	}

	return cfg, nil
}
