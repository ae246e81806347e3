// Package config loads the weel YAML configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mj1618/weel/internal/audio"
	"github.com/mj1618/weel/internal/notify"
)

// Config is the top-level YAML configuration. Defaults and validation live
// here so the rest of the code can assume a well-formed config.
type Config struct {
	// DataDir holds weel-profiles.json.
	DataDir string `yaml:"data_dir"`

	Trigger  TriggerConfig  `yaml:"trigger"`
	AppWatch AppWatchConfig `yaml:"app_watch"`
	Timers   TimersConfig   `yaml:"timers"`
	Audio    audio.Config   `yaml:"audio"`
	Notify   notify.Config  `yaml:"notify"`
	StateWS  StateWSConfig  `yaml:"state_ws"`
	MCP      MCPConfig      `yaml:"mcp"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// TriggerConfig is the serial link to the physical pad.
type TriggerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Device  string `yaml:"device"`
	Baud    int    `yaml:"baud"`
}

// AppWatchConfig controls polling of the frontmost application.
type AppWatchConfig struct {
	Enabled    bool `yaml:"enabled"`
	IntervalMS int  `yaml:"interval_ms"`
}

type TimersConfig struct {
	TickMS int `yaml:"tick_ms"`
}

// StateWSConfig serves deck state to UIs over a websocket.
type StateWSConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
	Path    string `yaml:"path"`
}

// MCP transports.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "streamable-http"
	TransportNone  = "none"
)

type MCPConfig struct {
	Transport string `yaml:"transport"`
	Port      int    `yaml:"port"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a fully-populated Config with defaults.
func DefaultConfig() Config {
	return Config{
		DataDir: defaultDataDir(),
		Trigger: TriggerConfig{
			Baud: 115200,
		},
		AppWatch: AppWatchConfig{
			Enabled:    true,
			IntervalMS: 1000,
		},
		Timers: TimersConfig{
			TickMS: 1000,
		},
		Audio:  audio.DefaultConfig(),
		Notify: notify.DefaultConfig(),
		StateWS: StateWSConfig{
			Enabled: true,
			Listen:  "127.0.0.1:8765",
			Path:    "/ws",
		},
		MCP: MCPConfig{
			Transport: TransportNone,
			Port:      8080,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "~/.weel"
	}
	return filepath.Join(dir, "weel")
}

// DefaultPath is where Load looks when no config file is named.
func DefaultPath() string {
	return filepath.Join(defaultDataDir(), "config.yaml")
}

// LoadFile reads and parses a YAML config file on top of the defaults.
// Unknown fields are rejected to catch typos.
func LoadFile(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config path is empty")
	}
	b, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config yaml: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err == nil {
		return Config{}, fmt.Errorf("decode config yaml: unexpected trailing document")
	}
	return cfg, nil
}

// Load reads path, or the default location when path is empty. A missing
// default file yields the defaults; a missing named file is an error.
func Load(path string) (Config, error) {
	if path != "" {
		return LoadFile(path)
	}
	if _, err := os.Stat(DefaultPath()); err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(DefaultPath())
}

// FlagOverrides carries command-line overrides. Nil pointers are ignored;
// non-nil values are applied even when zero.
type FlagOverrides struct {
	DataDir       *string
	TriggerDevice *string
	AppWatch      *bool
	StateWSListen *string
	MCPTransport  *string
	MCPPort       *int
	LogLevel      *string
}

// Apply merges the overrides into cfg.
func (o FlagOverrides) Apply(cfg *Config) {
	if cfg == nil {
		return
	}
	if o.DataDir != nil {
		cfg.DataDir = *o.DataDir
	}
	if o.TriggerDevice != nil {
		cfg.Trigger.Device = *o.TriggerDevice
		cfg.Trigger.Enabled = *o.TriggerDevice != ""
	}
	if o.AppWatch != nil {
		cfg.AppWatch.Enabled = *o.AppWatch
	}
	if o.StateWSListen != nil {
		cfg.StateWS.Listen = *o.StateWSListen
		cfg.StateWS.Enabled = *o.StateWSListen != ""
	}
	if o.MCPTransport != nil {
		cfg.MCP.Transport = *o.MCPTransport
	}
	if o.MCPPort != nil {
		cfg.MCP.Port = *o.MCPPort
	}
	if o.LogLevel != nil {
		cfg.Logging.Level = *o.LogLevel
	}
}

// Validate checks the config after defaults, file and overrides
// are applied.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("data_dir must not be empty")
	}
	c.DataDir = ExpandPath(c.DataDir)

	if c.Trigger.Enabled {
		if c.Trigger.Device == "" {
			return errors.New("trigger.enabled is true but trigger.device is empty")
		}
		if c.Trigger.Baud <= 0 {
			return errors.New("trigger.baud must be > 0")
		}
	}
	if c.AppWatch.IntervalMS < 100 {
		return errors.New("app_watch.interval_ms must be >= 100")
	}
	if c.Timers.TickMS <= 0 {
		return errors.New("timers.tick_ms must be > 0")
	}
	if c.Audio.SampleRate < 0 || c.Audio.BufferMs < 0 {
		return errors.New("audio.sample_rate and audio.buffer_ms must be >= 0")
	}
	if c.StateWS.Enabled {
		if c.StateWS.Listen == "" {
			return errors.New("state_ws.enabled is true but state_ws.listen is empty")
		}
		if c.StateWS.Path == "" || c.StateWS.Path[0] != '/' {
			return errors.New("state_ws.path must start with /")
		}
	}
	switch c.MCP.Transport {
	case TransportStdio, TransportNone:
	case TransportHTTP:
		if c.MCP.Port <= 0 || c.MCP.Port > 65535 {
			return errors.New("mcp.port must be between 1 and 65535")
		}
	default:
		return fmt.Errorf("mcp.transport must be %q, %q or %q", TransportStdio, TransportHTTP, TransportNone)
	}
	if _, err := ParseLogLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) string {
	if p == "" || p[0] != '~' {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	if len(p) >= 2 && (p[1] == '/' || p[1] == '\\') {
		return filepath.Join(home, p[2:])
	}
	return p
}
