// Package settings provides Viper-based configuration loading for the game server.
package settings

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerSettings holds HTTP server settings.
type ServerSettings struct {
	// Addr is the listen address in "host:port" form.
	Addr string `mapstructure:"addr"`
	// ConfigDir is the directory holding board files.
	ConfigDir string `mapstructure:"config_dir"`
	// DefaultBoard is the config ID used when a session names none.
	DefaultBoard string `mapstructure:"default_board"`
	// RequireAck gates each roll on acknowledgement of the previous outcome.
	RequireAck bool `mapstructure:"require_ack"`
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// SessionSettings holds session storage settings.
type SessionSettings struct {
	// Store is the persistence backend: "file", "redis" or "memory".
	Store string `mapstructure:"store"`
	// Dir is the directory used by the file store.
	Dir string `mapstructure:"dir"`
	// MaxAge is how long an idle session is kept in memory.
	MaxAge time.Duration `mapstructure:"max_age"`
	// CleanupInterval is how often idle sessions are pruned.
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RedisSettings holds Redis connection settings for the redis session store.
type RedisSettings struct {
	Addr      string        `mapstructure:"addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	KeyPrefix string        `mapstructure:"key_prefix"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// LoggingSettings holds structured logging settings.
type LoggingSettings struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// NgrokSettings holds optional public tunnel settings.
type NgrokSettings struct {
	Enabled   bool   `mapstructure:"enabled"`
	AuthToken string `mapstructure:"authtoken"`
	Domain    string `mapstructure:"domain"`
}

// Settings is the top-level server configuration.
type Settings struct {
	Server   ServerSettings  `mapstructure:"server"`
	Sessions SessionSettings `mapstructure:"sessions"`
	Redis    RedisSettings   `mapstructure:"redis"`
	Logging  LoggingSettings `mapstructure:"logging"`
	Ngrok    NgrokSettings   `mapstructure:"ngrok"`
}

// Validate checks all settings and reports every violation at once.
func (s Settings) Validate() error {
	var errs []string

	if s.Server.Addr == "" {
		errs = append(errs, "server.addr must not be empty")
	}
	if s.Server.ConfigDir == "" {
		errs = append(errs, "server.config_dir must not be empty")
	}
	if s.Server.ShutdownTimeout < 0 {
		errs = append(errs, "server.shutdown_timeout must not be negative")
	}
	if err := validateSessions(s.Sessions, s.Redis); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(s.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("settings validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateSessions(s SessionSettings, r RedisSettings) error {
	var errs []string
	switch s.Store {
	case "file":
		if s.Dir == "" {
			errs = append(errs, "sessions.dir must not be empty for the file store")
		}
	case "redis":
		if r.Addr == "" {
			errs = append(errs, "redis.addr must not be empty for the redis store")
		}
		if r.DB < 0 {
			errs = append(errs, fmt.Sprintf("redis.db must be >= 0, got %d", r.DB))
		}
	case "memory":
	default:
		errs = append(errs, fmt.Sprintf("sessions.store must be one of [file, redis, memory], got %q", s.Store))
	}
	if s.MaxAge <= 0 {
		errs = append(errs, "sessions.max_age must be positive")
	}
	if s.CleanupInterval <= 0 {
		errs = append(errs, "sessions.cleanup_interval must be positive")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingSettings) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads settings from an optional YAML file, applies SNAKES_* environment
// overrides and validates the result. An empty path uses defaults and env only.
func Load(path string) (Settings, error) {
	v := New()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("reading settings file: %w", err)
		}
	}

	return FromViper(v)
}

// New returns a Viper instance with defaults and environment binding applied.
func New() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix("SNAKES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v
}

// FromViper builds Settings from an already-configured Viper instance.
func FromViper(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("unmarshalling settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "localhost:8080")
	v.SetDefault("server.config_dir", "configs")
	v.SetDefault("server.default_board", "classic")
	v.SetDefault("server.require_ack", true)
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("sessions.store", "file")
	v.SetDefault("sessions.dir", "sessions")
	v.SetDefault("sessions.max_age", "24h")
	v.SetDefault("sessions.cleanup_interval", "1h")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "snakes:session:")
	v.SetDefault("redis.ttl", "24h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("ngrok.enabled", false)
	v.SetDefault("ngrok.authtoken", "")
	v.SetDefault("ngrok.domain", "")
}
