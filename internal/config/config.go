// Package config loads and validates the daemon configuration from a
// YAML file, with environment overrides for deployment secrets.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/svitlogrid/svitlogrid/internal/schedule"
)

// Config represents the application configuration.
type Config struct {
	// Listen is the HTTP listen address for the admin/snapshot API.
	Listen string `yaml:"listen"`

	// Timezone is the IANA zone the midnight rollover is computed in.
	Timezone string `yaml:"timezone"`

	// StorePath is the SQLite database path; ":memory:" is accepted.
	StorePath string `yaml:"store_path"`

	// NATS configures the fetch-pipeline boundary. Nil disables it:
	// refresh requests then only flip the loading flag.
	NATS *NATSConfig `yaml:"nats,omitempty"`

	// Widgets declares the on-screen instances to register at startup.
	// More can be added at runtime through the API.
	Widgets []WidgetConfig `yaml:"widgets"`

	// Metrics toggles the Prometheus recorder and /metrics endpoint.
	Metrics bool `yaml:"metrics"`
}

// NATSConfig describes the connection to the external fetch pipeline.
type NATSConfig struct {
	URL            string `yaml:"url"`
	RefreshSubject string `yaml:"refresh_subject,omitempty"`
	UpdateSubject  string `yaml:"update_subject,omitempty"`
}

// WidgetConfig declares widget instances for one group.
type WidgetConfig struct {
	Group string `yaml:"group"`
	// Instances is how many on-screen instances of this group to
	// register; defaults to 1.
	Instances int `yaml:"instances,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:    "127.0.0.1:8090",
		Timezone:  "Europe/Kyiv",
		StorePath: "svitlogrid.db",
		Widgets: []WidgetConfig{
			{Group: string(schedule.Group11), Instances: 1},
		},
		Metrics: true,
	}
}

// Normalize fills in missing values so partially-filled configs still
// behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8090"
	}
	if c.Timezone == "" {
		c.Timezone = "Europe/Kyiv"
	}
	if c.StorePath == "" {
		c.StorePath = "svitlogrid.db"
	}
	for i := range c.Widgets {
		if c.Widgets[i].Instances <= 0 {
			c.Widgets[i].Instances = 1
		}
	}
}

// Validate rejects configs the daemon cannot run with.
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	for _, w := range c.Widgets {
		if _, ok := schedule.ParseGroup(w.Group); !ok {
			return fmt.Errorf("unknown widget group %q", w.Group)
		}
	}
	if c.NATS != nil && c.NATS.URL == "" {
		return fmt.Errorf("nats section present but url is empty")
	}
	return nil
}

// Location returns the configured timezone. Call Validate first.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Load reads configuration from path, applies .env and environment
// overrides, normalizes defaults, and validates.
func Load(path string) (*Config, error) {
	// .env values never override the real environment.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnvOverrides lets deployments override connection settings
// without editing the config file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SVITLOGRID_LISTEN"); v != "" {
		c.Listen = v
	}
	if v := os.Getenv("SVITLOGRID_NATS_URL"); v != "" {
		if c.NATS == nil {
			c.NATS = &NATSConfig{}
		}
		c.NATS.URL = v
	}
	if v := os.Getenv("SVITLOGRID_STORE_PATH"); v != "" {
		c.StorePath = v
	}
}

// Init writes a default configuration file. Refuses to overwrite an
// existing file unless force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
