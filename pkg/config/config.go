// Package config loads the controller's settings.
//
// Settings start from DefaultConfig and are overridden by an optional YAML
// file. The server port is resolved separately by ResolvePort so that the
// command line and the PORT environment variable take precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPort is used when no flag, environment variable or file sets one.
const DefaultPort = 8080

// Config holds every setting the server and client read.
type Config struct {
	// Port is the loopback port the server listens on
	Port int `yaml:"port"`

	// Debug enables debug logging
	Debug bool `yaml:"debug"`

	// Headless runs the browser without a window
	Headless bool `yaml:"headless"`

	// URL is the game's address
	URL string `yaml:"url"`

	// RemoteDebuggingPort is the CDP port of launched browsers
	RemoteDebuggingPort int `yaml:"remote_debugging_port"`

	Viewport ViewportConfig `yaml:"viewport"`

	// SettleDelay is the pause after each click before the page is re-read
	SettleDelay time.Duration `yaml:"settle_delay"`

	// OverlayTimeout bounds every wait for the page to react
	OverlayTimeout time.Duration `yaml:"overlay_timeout"`

	// NavigationTimeout bounds page loads and browser connections
	NavigationTimeout time.Duration `yaml:"navigation_timeout"`

	// StateDir holds logs and the session descriptor. A leading ~ expands to
	// the home directory.
	StateDir string `yaml:"state_dir"`
}

// ViewportConfig is the size of new browser tabs.
type ViewportConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Port:                DefaultPort,
		Headless:            true,
		URL:                 "https://cluesbysam.com",
		RemoteDebuggingPort: 9223,
		Viewport:            ViewportConfig{Width: 1280, Height: 800},
		SettleDelay:         100 * time.Millisecond,
		OverlayTimeout:      10 * time.Second,
		NavigationTimeout:   30 * time.Second,
		StateDir:            "~/.clues",
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults.
func Load(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validatePort("port", c.Port); err != nil {
		return err
	}
	if err := validatePort("remote_debugging_port", c.RemoteDebuggingPort); err != nil {
		return err
	}

	if c.URL == "" {
		return fmt.Errorf("url is required")
	}
	if !strings.HasPrefix(c.URL, "http://") && !strings.HasPrefix(c.URL, "https://") {
		return fmt.Errorf("invalid url: %s (must start with http:// or https://)", c.URL)
	}

	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("viewport dimensions must be positive")
	}

	if c.SettleDelay < 0 {
		return fmt.Errorf("settle_delay cannot be negative")
	}
	if c.OverlayTimeout <= 0 {
		return fmt.Errorf("overlay_timeout must be positive")
	}
	if c.OverlayTimeout < c.SettleDelay {
		return fmt.Errorf("overlay_timeout must not be shorter than settle_delay")
	}
	if c.NavigationTimeout <= 0 {
		return fmt.Errorf("navigation_timeout must be positive")
	}

	if c.StateDir == "" {
		return fmt.Errorf("state_dir is required")
	}
	return nil
}

func validatePort(name string, port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid %s: %d (must be between 1 and 65535)", name, port)
	}
	return nil
}

// StatePath returns StateDir with a leading ~ expanded.
func (c *Config) StatePath() (string, error) {
	dir := c.StateDir
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}
	return dir, nil
}

// SessionPath returns the location of the session descriptor.
func (c *Config) SessionPath() (string, error) {
	dir, err := c.StatePath()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.yaml"), nil
}

// ResolvePort picks the server port. A port given on the command line wins,
// then the PORT environment variable, then the config file.
func (c *Config) ResolvePort(flagPort int, flagSet bool) (int, error) {
	if flagSet {
		if err := validatePort("port", flagPort); err != nil {
			return 0, err
		}
		return flagPort, nil
	}

	if env := os.Getenv("PORT"); env != "" {
		port, err := strconv.Atoi(env)
		if err != nil {
			return 0, fmt.Errorf("invalid PORT environment variable: %q", env)
		}
		if err := validatePort("PORT", port); err != nil {
			return 0, err
		}
		return port, nil
	}

	return c.Port, nil
}
