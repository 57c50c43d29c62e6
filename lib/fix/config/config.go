// Package config loads a session's parameters from YAML/environment via
// github.com/spf13/viper, per spec.md §6's configuration table plus the
// store/log/monitor/dictionary knobs SPEC_FULL.md §6 adds. Grounded on
// _examples/Aidin1998-finalex/internal/infrastructure/config/config.go's
// default-then-override shape: defaults are set on the struct first, then
// a config file (if present) overrides via viper.Unmarshal.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is everything one FIX session (or one acceptor listening for
// many) needs to start: identity, transport endpoint, timing, and the
// ambient store/log/monitor backends spec.md §6 leaves to deployment.
type Config struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	SenderCompID string `mapstructure:"sender_comp_id"`
	TargetCompID string `mapstructure:"target_comp_id"`
	BeginString  string `mapstructure:"begin_string"`

	Role string `mapstructure:"role"` // "initiator" or "acceptor"

	LogonTimeout        time.Duration `mapstructure:"logon_timeout"`
	HeartbeatTimeout    time.Duration `mapstructure:"heartbeat_timeout"`
	ShutdownTimeout     time.Duration `mapstructure:"shutdown_timeout"`
	SendingTimeAccuracy time.Duration `mapstructure:"sending_time_accuracy"`
	ResetSeqNumFlag     bool          `mapstructure:"reset_seq_num_flag"`

	Store      StoreConfig      `mapstructure:"store"`
	Log        LogConfig        `mapstructure:"log"`
	Monitor    MonitorConfig    `mapstructure:"monitor"`
	Dictionary DictionaryConfig `mapstructure:"dictionary"`
}

// StoreConfig selects and configures a fix/store backend.
type StoreConfig struct {
	Backend string `mapstructure:"backend"` // "badger" or "sql"
	DSN     string `mapstructure:"dsn"`
	Path    string `mapstructure:"path"`
}

// LogConfig configures the zap logger every package in this module
// builds through, mirroring _examples/Aidin1998-finalex's zap setup.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format"` // "json" or "console"
}

// MonitorConfig configures fix/monitor's WebSocket+Prometheus server.
// A blank ListenAddr disables the monitor entirely.
type MonitorConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

// DictionaryConfig locates the protocol dictionary this session encodes
// and decodes against. A blank Path falls back to dict.Builtin(BeginString).
type DictionaryConfig struct {
	Path string `mapstructure:"path"`
}

func defaults() Config {
	return Config{
		Port:                0,
		BeginString:         "FIX.4.2",
		Role:                "initiator",
		LogonTimeout:        10 * time.Second,
		HeartbeatTimeout:    30 * time.Second,
		ShutdownTimeout:     5 * time.Second,
		SendingTimeAccuracy: 120 * time.Second,
		Store: StoreConfig{
			Backend: "badger",
			Path:    "./fix-store",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads configuration from the named file (YAML, TOML or JSON, per
// viper's format sniffing) layered over the built-in defaults, with
// FIX_-prefixed environment variables taking precedence over the file
// (e.g. FIX_HOST, FIX_STORE_BACKEND).
func Load(path string) (*Config, error) {
	cfg := defaults()

	v := viper.New()
	v.SetEnvPrefix("fix")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Unmarshal only consults keys viper already knows; binding every key
	// lets a variable such as FIX_STORE_BACKEND apply even when the file
	// does not mention store.backend.
	for _, key := range []string{"host", "port", "sender_comp_id", "target_comp_id", "begin_string", "role",
		"logon_timeout", "heartbeat_timeout", "shutdown_timeout", "sending_time_accuracy", "reset_seq_num_flag",
		"store.backend", "store.dsn", "store.path", "log.level", "log.format", "monitor.listen_addr", "dictionary.path"} {
		_ = v.BindEnv(key)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the fields every session needs are actually set;
// it does not second-guess timing values viper already defaulted.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("config: host is required")
	}
	if c.Port <= 0 {
		return fmt.Errorf("config: port must be positive")
	}
	if c.SenderCompID == "" || c.TargetCompID == "" {
		return fmt.Errorf("config: sender_comp_id and target_comp_id are required")
	}
	switch c.Role {
	case "initiator", "acceptor":
	default:
		return fmt.Errorf("config: role must be \"initiator\" or \"acceptor\", got %q", c.Role)
	}
	switch c.Store.Backend {
	case "badger":
		if c.Store.Path == "" {
			return fmt.Errorf("config: store.path is required for the badger backend")
		}
	case "sql":
		if c.Store.DSN == "" {
			return fmt.Errorf("config: store.dsn is required for the sql backend")
		}
	default:
		return fmt.Errorf("config: store.backend must be \"badger\" or \"sql\", got %q", c.Store.Backend)
	}
	return nil
}

// Addr formats Host/Port for transport/tcp.Dialer.Dial and tcp.Listen.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

