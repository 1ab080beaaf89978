// Package config loads the daemon's YAML configuration file into typed
// structs, matching the teacher's pkg/config.LoadFile shape: strict decode
// with unknown-field rejection, defaults pre-populated on the zero value
// before decode, and a Validate() method per section.
package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level daemon configuration, corresponding to spec.md
// §6's recognized options.
type Config struct {
	Logger Logger `yaml:"Logger"`
	P2P    P2P    `yaml:"P2P"`
	TLS    TLS    `yaml:"TLS"`
	Tunnel Tunnel `yaml:"Tunnel"`
}

// Validate checks every section of Config.
func (c Config) Validate() error {
	if err := c.Logger.Validate(); err != nil {
		return fmt.Errorf("Logger: %w", err)
	}
	if err := c.P2P.Validate(); err != nil {
		return fmt.Errorf("P2P: %w", err)
	}
	if err := c.TLS.Validate(); err != nil {
		return fmt.Errorf("TLS: %w", err)
	}
	if err := c.Tunnel.Validate(); err != nil {
		return fmt.Errorf("Tunnel: %w", err)
	}
	return nil
}

// defaultConfig returns a Config pre-populated with the defaults spec.md §6
// names (heartbeat 50ms, ping timeout/keepalive/retry timings).
func defaultConfig() Config {
	return Config{
		Logger: Logger{
			LogEncoding: "console",
			LogLevel:    "info",
		},
		P2P: P2P{
			Heartbeat:              50 * time.Millisecond,
			Timeout:                90 * time.Second,
			Keepalive:              30 * time.Second,
			Retry:                  10 * time.Second,
			MTU:                    1500,
			MaxWaitingDataPackets:  256,
			MaxWaitingProtoPackets: 64,
			MaxRemoteRoutes:        4096,
			RouteDiffThreshold:     64,
		},
	}
}

// LoadFile reads and decodes the YAML config at path, applying defaults
// before decode and rejecting unrecognized keys (gopkg.in/yaml.v3's
// KnownFields, the same strictness the teacher's loader uses).
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := defaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
