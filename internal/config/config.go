// Package config loads server configuration from a YAML file and FREECELL_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. FREECELL_LOGGING_LEVEL.
const EnvPrefix = "FREECELL"

// Config is the complete server configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Game    GameConfig    `mapstructure:"game"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig covers the process-level server settings.
type ServerConfig struct {
	WebSocket       WebSocketConfig `mapstructure:"websocket"`
	MaxSessions     int             `mapstructure:"max_sessions"`
	SessionIdleTTL  time.Duration   `mapstructure:"session_idle_ttl"`
	ShutdownTimeout time.Duration   `mapstructure:"shutdown_timeout"`
}

// WebSocketConfig configures the websocket bridge.
type WebSocketConfig struct {
	Address         string        `mapstructure:"address"`
	Path            string        `mapstructure:"path"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ReadBufferSize  int           `mapstructure:"read_buffer_size"`
	WriteBufferSize int           `mapstructure:"write_buffer_size"`
	MaxMessageSize  int64         `mapstructure:"max_message_size"`
	PingInterval    time.Duration `mapstructure:"ping_interval"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
}

// GameConfig configures new engines.
type GameConfig struct {
	// Seed fixes the shuffle for every new game. Zero shuffles randomly.
	Seed uint64 `mapstructure:"seed"`
	// AutoSettle sends uncovered aces home after every accepted command.
	AutoSettle bool          `mapstructure:"auto_settle"`
	Scoring    ScoringConfig `mapstructure:"scoring"`
}

// ScoringConfig mirrors the engine's score deltas.
type ScoringConfig struct {
	FoundationMove      int `mapstructure:"foundation_move"`
	Exposure            int `mapstructure:"exposure"`
	WasteToTableau      int `mapstructure:"waste_to_tableau"`
	FoundationToTableau int `mapstructure:"foundation_to_tableau"`
	Undo                int `mapstructure:"undo"`
}

// LoggingConfig selects the zap level and encoder.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads the file at path, applies environment overrides and validates
// the result. An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.websocket.address", ":8080")
	v.SetDefault("server.websocket.path", "/ws")
	v.SetDefault("server.websocket.allowed_origins", []string{})
	v.SetDefault("server.websocket.read_buffer_size", 1024)
	v.SetDefault("server.websocket.write_buffer_size", 1024)
	v.SetDefault("server.websocket.max_message_size", 4096)
	v.SetDefault("server.websocket.ping_interval", 30*time.Second)
	v.SetDefault("server.websocket.write_timeout", 10*time.Second)
	v.SetDefault("server.max_sessions", 1000)
	v.SetDefault("server.session_idle_ttl", 30*time.Minute)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("game.seed", 0)
	v.SetDefault("game.auto_settle", false)
	v.SetDefault("game.scoring.foundation_move", 10)
	v.SetDefault("game.scoring.exposure", 5)
	v.SetDefault("game.scoring.waste_to_tableau", 5)
	v.SetDefault("game.scoring.foundation_to_tableau", -15)
	v.SetDefault("game.scoring.undo", -5)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	ws := c.Server.WebSocket
	if ws.Address == "" {
		return errors.New("server.websocket.address is required")
	}
	if !strings.HasPrefix(ws.Path, "/") {
		return fmt.Errorf("server.websocket.path %q must start with /", ws.Path)
	}
	if ws.MaxMessageSize <= 0 {
		return fmt.Errorf("server.websocket.max_message_size must be positive, got %d", ws.MaxMessageSize)
	}
	if ws.PingInterval <= 0 || ws.WriteTimeout <= 0 {
		return errors.New("server.websocket ping_interval and write_timeout must be positive")
	}
	if c.Server.MaxSessions < 0 {
		return fmt.Errorf("server.max_sessions must not be negative, got %d", c.Server.MaxSessions)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format %q is not json or console", c.Logging.Format)
	}
	return nil
}
