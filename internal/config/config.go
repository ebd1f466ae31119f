// Package config loads the daemon's YAML configuration.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/disquisitioner/LEDControl/sequence"
)

// SPICfg names the SPI port carrying the strip data.
type SPICfg struct {
	Dev string `yaml:"dev"` // e.g. /dev/spidev0.0; empty picks the first port
}

// Config describes one strip daemon.
type Config struct {
	Pixels  int    `yaml:"pixels"`
	FPS     int    `yaml:"fps"`
	Addr    string `yaml:"addr"`
	SimOnly bool   `yaml:"sim_only"`

	SPI SPICfg `yaml:"spi,omitempty"`

	// Start is the mode applied at boot; its Ticks field is ignored.
	Start sequence.Step `yaml:"start,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Pixels: 30,
		FPS:    30,
		Addr:   ":8080",
		Start:  sequence.Step{Mode: "rainbow-forward"},
	}
}

// Validate checks the fields the daemon cannot run without.
func (c *Config) Validate() error {
	if c.Pixels <= 0 {
		return errors.Errorf("pixels must be positive, got %d", c.Pixels)
	}
	if c.FPS <= 0 {
		return errors.Errorf("fps must be positive, got %d", c.FPS)
	}
	if c.Addr == "" {
		return errors.New("addr must be set")
	}
	return nil
}

// Load reads and validates a config file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return c, nil
}

// Save writes the configuration back out.
func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	return errors.Wrap(os.WriteFile(path, b, 0644), "write config")
}
