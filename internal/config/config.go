package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the discovery service configuration.
type Config struct {
	HTTP      HTTPConfig    `yaml:"http"`
	Auth      AuthConfig    `yaml:"auth"`
	Logging   LoggingConfig `yaml:"logging"`
	Index     IndexConfig   `yaml:"index"`
	Searches  SearchConfig  `yaml:"searches"`
	Authority SearchConfig  `yaml:"authority"`
	Specs     SpecsConfig   `yaml:"specs"`
	Cache     CacheConfig   `yaml:"cache"`
	Proxy     ProxyConfig   `yaml:"proxy"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// IndexConfig locates the index engine. Cores are appended to URL.
type IndexConfig struct {
	URL        string `yaml:"url"`
	TimeoutSec int    `yaml:"timeout"` // 0 = connector default
}

// SearchConfig configures one search backend: the biblio catalog or the authority index.
// Every section is optional; a missing section disables the feature.
type SearchConfig struct {
	General          GeneralConfig     `yaml:"general"`
	HiddenFilters    map[string]string `yaml:"hidden_filters"`     // field -> value, sent as field:"value"
	RawHiddenFilters []string          `yaml:"raw_hidden_filters"` // sent verbatim
	Spelling         SpellingConfig    `yaml:"spelling"`
	Recommendations  []string          `yaml:"recommendations"` // "Module:settings"
}

// GeneralConfig holds result display switches that change the index query.
type GeneralConfig struct {
	Highlighting bool `yaml:"highlighting"`
	Snippets     bool `yaml:"snippets"`
}

// SpellingConfig holds spelling suggestion settings.
type SpellingConfig struct {
	Enabled      bool     `yaml:"enabled"`
	Dictionaries []string `yaml:"dictionaries"`
}

// SpecsConfig locates the search spec files.
type SpecsConfig struct {
	Dir       string `yaml:"dir"`
	CacheSize int    `yaml:"cache_size"`
}

// CacheConfig holds the index response cache settings. No addrs = no cache.
type CacheConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	TTLSec           int      `yaml:"ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Enabled reports whether a cache is configured.
func (c CacheConfig) Enabled() bool { return len(c.Addrs) > 0 }

// ProxyConfig holds the outgoing proxy used for index requests.
type ProxyConfig struct {
	URL string `yaml:"url"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	c.Index.URL = strings.TrimRight(c.Index.URL, "/")
	if c.Specs.Dir == "" {
		c.Specs.Dir = filepath.Join("config", "searchspecs")
	}
	if c.Specs.CacheSize <= 0 {
		c.Specs.CacheSize = 16
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 300
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Index.URL == "" {
		return fmt.Errorf("index.url is required")
	}
	if err := validateHTTPURL(c.Index.URL); err != nil {
		return fmt.Errorf("index.url: %w", err)
	}
	if c.Index.TimeoutSec < 0 {
		return fmt.Errorf("index.timeout must not be negative, got %d", c.Index.TimeoutSec)
	}
	if c.Proxy.URL != "" {
		if err := validateHTTPURL(c.Proxy.URL); err != nil {
			return fmt.Errorf("proxy.url: %w", err)
		}
	}
	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("must be an absolute http(s) url, got %q", raw)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
