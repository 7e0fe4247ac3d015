package config

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config contains all configuration parameters for the application.
// It is built once by Load and passed by value; nothing mutates it afterwards.
type Config struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	Root            string        `envconfig:"CREDENTIALS_ROOT" default:"."`
	Network         string        `envconfig:"NETWORK" default:"solana-devnet"`
	NetworksFile    string        `envconfig:"NETWORKS_FILE"`
	Group           string        `envconfig:"GROUP" default:"default"`
	SecretFile      string        `envconfig:"SECRET_FILE"`
	BuildDir        string        `envconfig:"BUILD_DIR" default:"build/contracts"`
	ProverURL       string        `envconfig:"PROVER_URL" default:"http://localhost:9090"`
	FaucetCooldown  time.Duration `envconfig:"FAUCET_COOLDOWN" default:"11m"`
	ConfirmTimeout  time.Duration `envconfig:"CONFIRM_TIMEOUT" default:"30m"`
	RequestInterval time.Duration `envconfig:"POLL_REQUEST_INTERVAL" default:"20s"`
	RenderInterval  time.Duration `envconfig:"POLL_RENDER_INTERVAL" default:"250ms"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	DocsURL         string        `envconfig:"DOCS_URL" default:"https://github.com/AlexZinkM/devnet-accounts#readme"`

	// Profile is the resolved entry of Network
	Profile Network `ignored:"true"`
}

// Load reads configuration from environment variables and resolves the network profile.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process config: %w", err)
	}
	return cfg.resolve()
}

// WithNetwork returns a copy of c switched to another network profile
func (c Config) WithNetwork(name string) (Config, error) {
	c.Network = name
	return c.resolve()
}

// WithGroup returns a copy of c using another group name
func (c Config) WithGroup(group string) Config {
	c.Group = group
	return c
}

func (c Config) resolve() (Config, error) {
	networks, err := LoadNetworks(c.NetworksFile)
	if err != nil {
		return Config{}, err
	}
	profile, ok := networks[c.Network]
	if !ok {
		return Config{}, fmt.Errorf("unknown network %q (known: %s)", c.Network, strings.Join(Names(networks), ", "))
	}
	c.Profile = profile
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	if c.Root == "" {
		return errors.New("CREDENTIALS_ROOT must not be empty")
	}
	if c.RequestInterval <= 0 {
		return errors.New("POLL_REQUEST_INTERVAL must be positive")
	}
	if c.RenderInterval <= 0 {
		return errors.New("POLL_RENDER_INTERVAL must be positive")
	}
	if c.FaucetCooldown < 0 || c.ConfirmTimeout < 0 {
		return errors.New("durations must not be negative")
	}
	return nil
}

// CredentialsDir returns <root>/credentials
func (c Config) CredentialsDir() string {
	return filepath.Join(c.Root, "credentials")
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
