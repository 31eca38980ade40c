package model

import "time"

// Default source settings
const (
	DefaultSourceName = "Ethical Consumer"
	DefaultSourceURL  = "https://www.ethicalconsumer.org/ethicalcampaigns/boycotts"
	DefaultUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Config is the complete runtime configuration
type Config struct {
	Source  SourceConfig  `yaml:"source" mapstructure:"source"`
	HTTP    HTTPConfig    `yaml:"http" mapstructure:"http"`
	Robots  RobotsConfig  `yaml:"robots" mapstructure:"robots"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Extract ExtractConfig `yaml:"extract" mapstructure:"extract"`
}

// SourceConfig identifies the page being scraped
type SourceConfig struct {
	Name string `yaml:"name" mapstructure:"name"`
	URL  string `yaml:"url" mapstructure:"url"`
}

// HTTPConfig controls the page fetch
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
	// RequestsPerSecond is the per-host rate; a robots.txt Crawl-delay overrides it
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// RobotsConfig controls robots.txt handling
type RobotsConfig struct {
	Check   bool `yaml:"check" mapstructure:"check"`
	Enforce bool `yaml:"enforce" mapstructure:"enforce"` // Abort when disallowed instead of warning
}

// CacheConfig controls the fetched-page cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
	Refresh   bool          `yaml:"refresh" mapstructure:"refresh"` // Skip cached reads but store the fresh page
}

// OutputConfig controls where results are written
type OutputConfig struct {
	Dir               string `yaml:"dir" mapstructure:"dir"`
	BoycottsFile      string `yaml:"boycotts_file" mapstructure:"boycotts_file"`
	EvilCompaniesFile string `yaml:"evil_companies_file" mapstructure:"evil_companies_file"`
	SampleSize        int    `yaml:"sample_size" mapstructure:"sample_size"`
	Verbose           bool   `yaml:"verbose" mapstructure:"verbose"`
}

// ExtractConfig holds the extractor's tuning windows.
// These were fitted to the page's current layout and break when its markup changes.
type ExtractConfig struct {
	ValueLookahead  int `yaml:"value_lookahead" mapstructure:"value_lookahead"`
	CompanyLookback int `yaml:"company_lookback" mapstructure:"company_lookback"`
	FieldScan       int `yaml:"field_scan" mapstructure:"field_scan"`
	GuidesLookahead int `yaml:"guides_lookahead" mapstructure:"guides_lookahead"`
	MinReasonLength int `yaml:"min_reason_length" mapstructure:"min_reason_length"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Name: DefaultSourceName,
			URL:  DefaultSourceURL,
		},
		HTTP: HTTPConfig{
			Timeout:           30 * time.Second,
			UserAgent:         DefaultUserAgent,
			MaxBodyBytes:      5_000_000,
			RequestsPerSecond: 1,
			Burst:             1,
		},
		Robots: RobotsConfig{
			Check:   true,
			Enforce: false,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".boycotts-cache",
			MemoryTTL: 10 * time.Minute,
			DiskTTL:   time.Hour,
		},
		Output: OutputConfig{
			Dir:               ".",
			BoycottsFile:      "ethical-consumer-boycotts.json",
			EvilCompaniesFile: "ethical-consumer-evil-companies.json",
			SampleSize:        5,
		},
		Extract: ExtractConfig{
			ValueLookahead:  9,
			CompanyLookback: 15,
			FieldScan:       80,
			GuidesLookahead: 14,
			MinReasonLength: 50,
		},
	}
}
