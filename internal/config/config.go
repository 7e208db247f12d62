package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// ValidProviders are the scoring backends the filter stage knows how to call.
var ValidProviders = []string{"openrouter", "claude", "openai"}

type OutputConfig struct {
	SiteTitle string `yaml:"site_title"`
	DataDir   string `yaml:"data_dir"`
	HTMLDir   string `yaml:"html_dir"`
}

type AIConfig struct {
	Provider    string `yaml:"provider"` // "openrouter", "claude" or "openai"
	APIKey      string `yaml:"api_key,omitempty"`
	Model       string `yaml:"model,omitempty"`
	TranslateTo string `yaml:"translate_to,omitempty"`
}

type Config struct {
	Lag                int          `yaml:"lag_days"`
	EarliestDate       string       `yaml:"earliest_date,omitempty"`
	Categories         []string     `yaml:"categories"`
	Topics             []string     `yaml:"topics"`
	RelevanceThreshold float64      `yaml:"relevance_threshold,omitempty"`
	Output             OutputConfig `yaml:"output"`
	AI                 *AIConfig    `yaml:"ai,omitempty"`
}

// AIEnabled returns true if an API key is available for the scoring endpoint.
func (c *Config) AIEnabled() bool {
	return c.AIKey() != ""
}

// AIKey returns the resolved API key (config or env var).
func (c *Config) AIKey() string {
	if c.AI != nil && c.AI.APIKey != "" {
		return c.AI.APIKey
	}
	return os.Getenv("PAPERDAILY_AI_KEY")
}

// LagDays returns how many days behind the base date the pipeline targets.
func (c *Config) LagDays() int {
	if c.Lag < 0 {
		return 0
	}
	if c.Lag == 0 {
		return 2
	}
	return c.Lag
}

// Earliest returns the earliest target date the pipeline will process.
// The second return is false when no limit is configured.
func (c *Config) Earliest() (time.Time, bool) {
	if c.EarliestDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", c.EarliestDate)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// Threshold returns the relevance score cutoff, defaulting to 6.
func (c *Config) Threshold() float64 {
	if c.RelevanceThreshold <= 0 {
		return 6
	}
	return c.RelevanceThreshold
}

// TopicPhrase joins the configured topics for use inside prompts.
func (c *Config) TopicPhrase() string {
	return strings.Join(c.Topics, ", ")
}

// TranslateTo returns the target language for abstract translation, or "".
func (c *Config) TranslateTo() string {
	if c.AI == nil {
		return ""
	}
	return c.AI.TranslateTo
}

// DataDir returns the dataset directory, defaulting under the XDG data home.
func (c *Config) DataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return filepath.Join(xdg.DataHome, "paperdaily", "daily_json")
}

// HTMLDir returns the rendered-page directory, defaulting under the XDG data home.
func (c *Config) HTMLDir() string {
	if c.Output.HTMLDir != "" {
		return c.Output.HTMLDir
	}
	return filepath.Join(xdg.DataHome, "paperdaily", "daily_html")
}

// SiteTitle returns the page title, with a fallback.
func (c *Config) SiteTitle() string {
	if c.Output.SiteTitle == "" {
		return "Robotics Paper Daily"
	}
	return c.Output.SiteTitle
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "paperdaily", "config.yaml")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to config path on first run
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults
				return defaults, nil
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

// arXiv category codes look like "cs.RO" or "stat.ML".
var categoryRe = regexp.MustCompile(`^[a-z-]+(\.[A-Za-z-]+)?$`)

func validate(cfg *Config) error {
	if len(cfg.Categories) == 0 {
		return fmt.Errorf("at least one arXiv category is required")
	}
	for _, c := range cfg.Categories {
		if !categoryRe.MatchString(c) {
			return fmt.Errorf("invalid arXiv category %q", c)
		}
	}
	if len(cfg.Topics) == 0 {
		return fmt.Errorf("at least one topic is required")
	}
	if cfg.EarliestDate != "" {
		if _, err := time.Parse("2006-01-02", cfg.EarliestDate); err != nil {
			return fmt.Errorf("invalid earliest_date %q (want YYYY-MM-DD): %w", cfg.EarliestDate, err)
		}
	}
	if cfg.RelevanceThreshold < 0 || cfg.RelevanceThreshold > 10 {
		return fmt.Errorf("relevance_threshold must be between 0 and 10, got %v", cfg.RelevanceThreshold)
	}
	if cfg.AI != nil && cfg.AI.Provider != "" {
		valid := false
		for _, p := range ValidProviders {
			if cfg.AI.Provider == p {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("unknown AI provider %q (valid: %s)", cfg.AI.Provider, strings.Join(ValidProviders, ", "))
		}
	}
	return nil
}
