package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	errs "campaignscraper/pkg/errors"
)

// Config holds all configuration options for the campaign scraper pipeline
type Config struct {
	// Scraping behavior
	Scrape ScrapeConfig `yaml:"scrape" json:"scrape"`

	// Ingestion API settings
	API APIConfig `yaml:"api" json:"api"`

	// Browser session settings
	Browser BrowserConfig `yaml:"browser" json:"browser"`

	// Export artifact settings
	Export ExportConfig `yaml:"export" json:"export"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// AccountCooldown is the pause between accounts in multi-account runs
	AccountCooldown time.Duration `yaml:"account_cooldown" json:"account_cooldown"`
}

// ScrapeConfig holds per-run scraping parameters. Immutable once a run starts.
type ScrapeConfig struct {
	MaxPosts          int           `yaml:"max_posts" json:"max_posts"`
	MaxScrollAttempts int           `yaml:"max_scroll_attempts" json:"max_scroll_attempts"`
	ScrollDelay       time.Duration `yaml:"scroll_delay" json:"scroll_delay"`
	LoadDelay         time.Duration `yaml:"load_delay" json:"load_delay"`
	IncludeReplies    bool          `yaml:"include_replies" json:"include_replies"`
	IncludeRetweets   bool          `yaml:"include_retweets" json:"include_retweets"`
	// DateLimitDays drops posts older than N days; 0 disables the window.
	DateLimitDays int `yaml:"date_limit_days" json:"date_limit_days"`
}

// APIConfig holds ingestion API client configuration
type APIConfig struct {
	BaseURL           string        `yaml:"base_url" json:"base_url"`
	PartyID           int           `yaml:"party_id" json:"party_id"`
	BatchSize         int           `yaml:"batch_size" json:"batch_size"`
	MaxAttempts       int           `yaml:"max_attempts" json:"max_attempts"`
	RetryDelay        time.Duration `yaml:"retry_delay" json:"retry_delay"`
	RequestsPerMinute int           `yaml:"requests_per_minute" json:"requests_per_minute"`
	Timeout           time.Duration `yaml:"timeout" json:"timeout"`
	Token             string        `yaml:"token" json:"-"`
}

// BrowserConfig holds browser session configuration
type BrowserConfig struct {
	Headless          bool          `yaml:"headless" json:"headless"`
	UserAgent         string        `yaml:"user_agent" json:"user_agent"`
	ViewportWidth     int           `yaml:"viewport_width" json:"viewport_width"`
	ViewportHeight    int           `yaml:"viewport_height" json:"viewport_height"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout" json:"navigation_timeout"`
	// ExecPath overrides the browser binary location; empty uses the default lookup.
	ExecPath string `yaml:"exec_path" json:"exec_path"`
}

// ExportConfig holds export artifact configuration
type ExportConfig struct {
	Directory string `yaml:"directory" json:"directory"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Scrape: ScrapeConfig{
			MaxPosts:          100,
			MaxScrollAttempts: 10,
			ScrollDelay:       2 * time.Second,
			LoadDelay:         3 * time.Second,
			IncludeReplies:    false,
			IncludeRetweets:   true,
			DateLimitDays:     0,
		},
		API: APIConfig{
			BaseURL:           "http://localhost:8000",
			BatchSize:         25,
			MaxAttempts:       3,
			RetryDelay:        5 * time.Second,
			RequestsPerMinute: 60,
			Timeout:           30 * time.Second,
		},
		Browser: BrowserConfig{
			Headless:          true,
			UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			ViewportWidth:     1920,
			ViewportHeight:    1080,
			NavigationTimeout: 30 * time.Second,
		},
		Export: ExportConfig{
			Directory: "./exports",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
		AccountCooldown: 30 * time.Second,
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if baseURL := os.Getenv("CAMPAIGNSCRAPER_API_URL"); baseURL != "" {
		c.API.BaseURL = baseURL
	}
	if token := os.Getenv("CAMPAIGNSCRAPER_API_TOKEN"); token != "" {
		c.API.Token = token
	}
	if partyID := os.Getenv("CAMPAIGNSCRAPER_PARTY_ID"); partyID != "" {
		var val int
		fmt.Sscanf(partyID, "%d", &val)
		if val > 0 {
			c.API.PartyID = val
		}
	}
	if rpm := os.Getenv("CAMPAIGNSCRAPER_REQUESTS_PER_MINUTE"); rpm != "" {
		var val int
		fmt.Sscanf(rpm, "%d", &val)
		if val > 0 {
			c.API.RequestsPerMinute = val
		}
	}
	if maxPosts := os.Getenv("CAMPAIGNSCRAPER_MAX_POSTS"); maxPosts != "" {
		var val int
		fmt.Sscanf(maxPosts, "%d", &val)
		if val > 0 {
			c.Scrape.MaxPosts = val
		}
	}
	if headless := os.Getenv("CAMPAIGNSCRAPER_HEADLESS"); headless != "" {
		c.Browser.Headless = strings.ToLower(headless) != "false"
	}
	if userAgent := os.Getenv("CAMPAIGNSCRAPER_USER_AGENT"); userAgent != "" {
		c.Browser.UserAgent = userAgent
	}
	if execPath := os.Getenv("CAMPAIGNSCRAPER_BROWSER_PATH"); execPath != "" {
		c.Browser.ExecPath = execPath
	}
	if exportDir := os.Getenv("CAMPAIGNSCRAPER_EXPORT_DIR"); exportDir != "" {
		c.Export.Directory = exportDir
	}
	if logLevel := os.Getenv("CAMPAIGNSCRAPER_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return errs.Newf(errs.ErrorTypeConfig, "failed to parse config file %s: %v", path, err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".campaignscraper.yaml",
		".campaignscraper.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "campaignscraper", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "campaignscraper", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".campaignscraper.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errList []error

	if c.Scrape.MaxPosts <= 0 {
		errList = append(errList, errors.New("max posts must be positive"))
	}
	if c.Scrape.MaxScrollAttempts <= 0 {
		errList = append(errList, errors.New("max scroll attempts must be positive"))
	}
	if c.Scrape.ScrollDelay < 0 {
		errList = append(errList, errors.New("scroll delay cannot be negative"))
	}
	if c.Scrape.DateLimitDays < 0 {
		errList = append(errList, errors.New("date limit days cannot be negative"))
	}

	if c.API.BaseURL == "" {
		errList = append(errList, errors.New("API base URL is required"))
	}
	if c.API.BatchSize <= 0 {
		errList = append(errList, errors.New("batch size must be positive"))
	}
	if c.API.MaxAttempts <= 0 {
		errList = append(errList, errors.New("max attempts must be positive"))
	}
	if c.API.RequestsPerMinute <= 0 {
		errList = append(errList, errors.New("requests per minute must be positive"))
	}

	if c.Browser.ViewportWidth <= 0 || c.Browser.ViewportHeight <= 0 {
		errList = append(errList, errors.New("viewport dimensions must be positive"))
	}
	if c.Browser.NavigationTimeout <= 0 {
		errList = append(errList, errors.New("navigation timeout must be positive"))
	}

	if c.Export.Directory == "" {
		errList = append(errList, errors.New("export directory is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errList = append(errList, errors.New("invalid log level"))
	}

	if len(errList) > 0 {
		return errs.Newf(errs.ErrorTypeConfig, "configuration invalid: %v", errors.Join(errList...))
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if apiURL, ok := flags["api-url"].(string); ok && apiURL != "" {
		c.API.BaseURL = apiURL
	}
	if partyID, ok := flags["party-id"].(int); ok && partyID > 0 {
		c.API.PartyID = partyID
	}
	if maxPosts, ok := flags["max-tweets"].(int); ok && maxPosts > 0 {
		c.Scrape.MaxPosts = maxPosts
	}
	if exportDir, ok := flags["export-dir"].(string); ok && exportDir != "" {
		c.Export.Directory = exportDir
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".env"))
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".campaignscraper.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
