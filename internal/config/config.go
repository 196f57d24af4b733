package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultDirectoryURL = "https://www.ucalgary.ca/pubs/calendar/archives/2020/course-desc-main.html"
	DefaultUserAgent    = "calendar-prereqs/1.0 (github.com/pfrederiksen/calendar-prereqs)"
	DefaultWorkers      = 10
	DefaultFetchTimeout = "30s"
	DefaultServerAddr   = ":8080"
)

// DefaultExcludedSubjects are directory-page link labels that point at
// institutional sections rather than subject listings.
var DefaultExcludedSubjects = []string{
	"",
	"A Message from the President",
	"About the University of Calgary",
	"Academic Regulations",
	"Academic Schedule",
	"Admissions",
	"Archives",
	"Awards and Financial Assistance",
	"Calendar Home",
	"Co-operative Education/Internship",
	"Contact Us",
	"Continuing Education",
	"Cumming School of Medicine",
	"Faculty of Graduate Studies",
	"Glossary of Terms",
	"Haskayne School of Business",
	"Important Notice and Disclaimer",
	"Print",
	"Student and Campus Services",
	"Summary of Changes for 2020/21 Calendar",
	"Tuition and General Fees",
	"Undergraduate Degrees with a Minor",
	"Welcome",
	"Werklund School of Education",
}

// Config holds all runtime settings
type Config struct {
	DirectoryURL     string       `toml:"directory_url"`
	Workers          int          `toml:"workers"`
	FetchTimeout     string       `toml:"fetch_timeout"`
	UserAgent        string       `toml:"user_agent"`
	LogLevel         string       `toml:"log_level"`
	ExcludedSubjects []string     `toml:"excluded_subjects"`
	Server           ServerConfig `toml:"server"`
}

// ServerConfig holds settings for the HTTP API
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration
func Default() *Config {
	excluded := make([]string, len(DefaultExcludedSubjects))
	copy(excluded, DefaultExcludedSubjects)

	return &Config{
		DirectoryURL:     DefaultDirectoryURL,
		Workers:          DefaultWorkers,
		FetchTimeout:     DefaultFetchTimeout,
		UserAgent:        DefaultUserAgent,
		LogLevel:         "info",
		ExcludedSubjects: excluded,
		Server: ServerConfig{
			Addr: DefaultServerAddr,
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := Parse(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Parse decodes TOML data into cfg and validates the result.
// Keys absent from data leave cfg unchanged.
func Parse(data []byte, cfg *Config) error {
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config TOML: %w", err)
	}
	return cfg.Validate()
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DirectoryURL) == "" {
		return errors.New("directory_url must not be empty")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	return nil
}

// Timeout returns the parsed per-fetch timeout. Zero disables it.
func (c *Config) Timeout() (time.Duration, error) {
	if c.FetchTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.FetchTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid fetch_timeout %q: %w", c.FetchTimeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("fetch_timeout must not be negative, got %s", d)
	}
	return d, nil
}

// Marshal encodes the configuration as TOML
func (c *Config) Marshal() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding config TOML: %w", err)
	}
	return data, nil
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}
