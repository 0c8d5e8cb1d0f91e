package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration. Everything has a working
// default; a config file is optional and flags override whatever it sets.
type Config struct {
	// Roots are the directories (or files) to scan when none are given on
	// the command line.
	Roots []string `yaml:"roots,omitempty"`

	// ShowExternalLinks lists external link targets in the report.
	ShowExternalLinks bool `yaml:"show_external_links"`

	// RaspiBackupDoc enables the asymmetric source/output layout rule.
	RaspiBackupDoc bool `yaml:"raspi_backup_doc"`

	// LanguageDirs are the per-language subdirectories recognized in
	// asymmetric mode.
	LanguageDirs []string `yaml:"language_dirs,omitempty"`

	// Format selects the report format ("text" or "json").
	Format string `yaml:"format,omitempty"`

	Verify VerifyConfig `yaml:"verify,omitempty"`
	Notify NotifyConfig `yaml:"notify,omitempty"`
	Watch  WatchConfig  `yaml:"watch,omitempty"`
}

// VerifyConfig controls optional external-link HTTP verification.
// Durations are strings ("10s", "24h") parsed with time.ParseDuration.
type VerifyConfig struct {
	Enabled        bool   `yaml:"enabled"`
	RequestTimeout string `yaml:"request_timeout,omitempty"`
	MaxConcurrent  int    `yaml:"max_concurrent,omitempty"`
	MaxRedirects   int    `yaml:"max_redirects,omitempty"`
	CachePath      string `yaml:"cache_path,omitempty"`
	CacheTTL       string `yaml:"cache_ttl,omitempty"`
}

// Timeout returns the parsed request timeout.
func (v VerifyConfig) Timeout() time.Duration {
	return parseDuration(v.RequestTimeout, 10*time.Second)
}

// TTL returns the parsed cache entry lifetime.
func (v VerifyConfig) TTL() time.Duration {
	return parseDuration(v.CacheTTL, 24*time.Hour)
}

// NotifyConfig controls publishing of broken-link events to NATS.
type NotifyConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	Debounce       string `yaml:"debounce,omitempty"`
	RescanInterval string `yaml:"rescan_interval,omitempty"`
	MetricsListen  string `yaml:"metrics_listen,omitempty"`
}

// DebounceDuration returns the parsed event debounce window.
func (w WatchConfig) DebounceDuration() time.Duration {
	return parseDuration(w.Debounce, 2*time.Second)
}

// RescanDuration returns the parsed periodic full-rescan interval.
func (w WatchConfig) RescanDuration() time.Duration {
	return parseDuration(w.RescanInterval, 15*time.Minute)
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Roots:        []string{"."},
		LanguageDirs: []string{"de"},
		Format:       "text",
		Verify: VerifyConfig{
			RequestTimeout: "10s",
			MaxConcurrent:  10,
			MaxRedirects:   10,
			CacheTTL:       "24h",
		},
		Notify: NotifyConfig{
			Subject: "mdlinkcheck.broken-links",
		},
		Watch: WatchConfig{
			Debounce:       "2s",
			RescanInterval: "15m",
		},
	}
}

// Load reads the configuration file at path and merges it over the defaults.
// A missing file is not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.normalize()
	return cfg, nil
}

// normalize re-applies defaults for fields the file cleared or never set.
func (c *Config) normalize() {
	def := Default()
	if len(c.Roots) == 0 {
		c.Roots = def.Roots
	}
	if len(c.LanguageDirs) == 0 {
		c.LanguageDirs = def.LanguageDirs
	}
	if c.Format == "" {
		c.Format = def.Format
	}
	if c.Verify.MaxConcurrent <= 0 {
		c.Verify.MaxConcurrent = def.Verify.MaxConcurrent
	}
	if c.Verify.MaxRedirects <= 0 {
		c.Verify.MaxRedirects = def.Verify.MaxRedirects
	}
	if c.Notify.Subject == "" {
		c.Notify.Subject = def.Notify.Subject
	}
}

// parseDuration parses a duration string, falling back to a default when the
// value is empty or malformed.
func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
