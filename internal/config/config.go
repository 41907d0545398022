// Package config loads server configuration from YAML via Viper, with
// KQ_-prefixed environment overrides and validated defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds the PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN renders the settings as a postgres:// connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// TelnetConfig holds the listener settings for the Telnet frontend.
// The timeouts apply per read and per write on each client connection.
type TelnetConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr renders the settings as a "host:port" listen address.
func (t TelnetConfig) Addr() string {
	return fmt.Sprintf("%s:%d", t.Host, t.Port)
}

// LoggingConfig selects the log level ("debug", "info", "warn",
// "error") and output format ("json" or "console").
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GameConfig points at the world content file and sets the level new
// creatures are rolled at.
type GameConfig struct {
	WorldFile     string `mapstructure:"world_file"`
	StartingLevel int    `mapstructure:"starting_level"`
}

// Config is the top-level server configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Telnet   TelnetConfig   `mapstructure:"telnet"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Game     GameConfig     `mapstructure:"game"`
}

// Validate checks every configuration invariant, collecting all
// violations into a single error.
func (c Config) Validate() error {
	var problems []string
	complain := func(format string, args ...interface{}) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	d := c.Database
	if d.Host == "" {
		complain("database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		complain("database.port must be 1-65535, got %d", d.Port)
	}
	if d.User == "" {
		complain("database.user must not be empty")
	}
	if d.Name == "" {
		complain("database.name must not be empty")
	}
	switch d.SSLMode {
	case "disable", "require", "verify-ca", "verify-full":
	default:
		complain("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode)
	}
	if d.MaxConns < 1 {
		complain("database.max_conns must be >= 1, got %d", d.MaxConns)
	}
	if d.MinConns < 0 {
		complain("database.min_conns must be >= 0, got %d", d.MinConns)
	}
	if d.MinConns > d.MaxConns {
		complain("database.min_conns must not exceed database.max_conns")
	}

	tn := c.Telnet
	if tn.Port < 1 || tn.Port > 65535 {
		complain("telnet.port must be 1-65535, got %d", tn.Port)
	}
	if tn.ReadTimeout < 0 {
		complain("telnet.read_timeout must not be negative")
	}
	if tn.WriteTimeout < 0 {
		complain("telnet.write_timeout must not be negative")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		complain("logging.level must be one of [debug, info, warn, error], got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		complain("logging.format must be one of [json, console], got %q", c.Logging.Format)
	}

	if c.Game.WorldFile == "" {
		complain("game.world_file must not be empty")
	}
	if c.Game.StartingLevel < 1 {
		complain("game.starting_level must be >= 1, got %d", c.Game.StartingLevel)
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Load reads the YAML file at path, applies KQ_-prefixed environment
// overrides and defaults, and validates the result.
//
// Postcondition: Returns a Config that passed Validate, or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetEnvPrefix("KQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "kaizo")
	v.SetDefault("database.password", "kaizo")
	v.SetDefault("database.name", "kaizo")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("telnet.host", "0.0.0.0")
	v.SetDefault("telnet.port", 4000)
	v.SetDefault("telnet.read_timeout", "5m")
	v.SetDefault("telnet.write_timeout", "30s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("game.world_file", "content/world.yaml")
	v.SetDefault("game.starting_level", 5)
}
