package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultBackendURL     = "http://localhost:3000"
	DefaultPollInterval   = 2 * time.Second
	DefaultRequestTimeout = 10 * time.Second
	DefaultLocale         = "en_GB"
	DefaultDashboardAddr  = ":8080"

	// PendingKeep leaves a detected card in place until it is registered.
	PendingKeep = "keep"
	// PendingClear drops the detected card as soon as a poll stops reporting it.
	PendingClear = "clear"
)

type Config struct {
	WorkspacePath  string `json:"workspace_path"`
	BackendURL     string `json:"backend_url,omitempty"`
	PollInterval   string `json:"poll_interval,omitempty"`
	RequestTimeout string `json:"request_timeout,omitempty"`
	PendingPolicy  string `json:"pending_policy,omitempty"`
	Locale         string `json:"locale,omitempty"`
	Timezone       string `json:"timezone,omitempty"`
	DashboardAddr  string `json:"dashboard_addr,omitempty"`
}

// Default returns a config pointing at a backend on localhost with the
// original two second poll.
func Default() *Config {
	cfg := &Config{}
	cfg.fillDefaults()
	return cfg
}

func (c *Config) fillDefaults() {
	if c.BackendURL == "" {
		c.BackendURL = DefaultBackendURL
	}
	if c.PollInterval == "" {
		c.PollInterval = DefaultPollInterval.String()
	}
	if c.RequestTimeout == "" {
		c.RequestTimeout = DefaultRequestTimeout.String()
	}
	if c.PendingPolicy == "" {
		c.PendingPolicy = PendingKeep
	}
	if c.Locale == "" {
		c.Locale = DefaultLocale
	}
	if c.DashboardAddr == "" {
		c.DashboardAddr = DefaultDashboardAddr
	}
}

func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	checkpointDir := filepath.Join(configDir, "checkpoint")
	if err := os.MkdirAll(checkpointDir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(checkpointDir, "config.json"), nil
}

// LoadConfig reads the saved config. It returns nil, nil when the workspace
// has not been initialized yet.
func LoadConfig() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // Not initialized
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.fillDefaults()

	return &cfg, nil
}

func SaveConfig(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyEnv loads .env if present and lets CHECKPOINT_* variables override
// the file values.
func (c *Config) ApplyEnv() {
	_ = godotenv.Load()

	overrides := map[string]*string{
		"CHECKPOINT_WORKSPACE":       &c.WorkspacePath,
		"CHECKPOINT_BACKEND_URL":     &c.BackendURL,
		"CHECKPOINT_POLL_INTERVAL":   &c.PollInterval,
		"CHECKPOINT_REQUEST_TIMEOUT": &c.RequestTimeout,
		"CHECKPOINT_PENDING_POLICY":  &c.PendingPolicy,
		"CHECKPOINT_LOCALE":          &c.Locale,
		"CHECKPOINT_TIMEZONE":        &c.Timezone,
		"CHECKPOINT_DASHBOARD_ADDR":  &c.DashboardAddr,
	}
	for key, field := range overrides {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*field = v
		}
	}
	c.BackendURL = strings.TrimRight(c.BackendURL, "/")
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend_url %q is not an absolute URL", c.BackendURL)
	}
	if d, err := time.ParseDuration(c.PollInterval); err != nil || d <= 0 {
		return fmt.Errorf("poll_interval %q must be a positive duration", c.PollInterval)
	}
	if d, err := time.ParseDuration(c.RequestTimeout); err != nil || d <= 0 {
		return fmt.Errorf("request_timeout %q must be a positive duration", c.RequestTimeout)
	}
	if c.PendingPolicy != PendingKeep && c.PendingPolicy != PendingClear {
		return fmt.Errorf("pending_policy must be %q or %q, got %q", PendingKeep, PendingClear, c.PendingPolicy)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

func (c *Config) Interval() time.Duration {
	d, err := time.ParseDuration(c.PollInterval)
	if err != nil || d <= 0 {
		return DefaultPollInterval
	}
	return d
}

func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil || d <= 0 {
		return DefaultRequestTimeout
	}
	return d
}

// Location resolves Timezone; empty means the viewer's local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) root() string {
	return filepath.Join(c.WorkspacePath, "checkpoint")
}

func (c *Config) ReportsDir() string {
	return filepath.Join(c.root(), "reports")
}

func (c *Config) LogsDir() string {
	return filepath.Join(c.root(), "logs")
}

func (c *Config) JournalDir() string {
	return filepath.Join(c.root(), "journal")
}

func InitializeStructure(basePath string) error {
	// Root checkpoint folder
	root := filepath.Join(basePath, "checkpoint")
	folders := []string{
		root,
		filepath.Join(root, "logs"),
		filepath.Join(root, "reports"),
		filepath.Join(root, "journal"),
	}

	for _, folder := range folders {
		if err := os.MkdirAll(folder, 0755); err != nil {
			return fmt.Errorf("failed to create folder %s: %w", folder, err)
		}
	}

	return nil
}
