package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	rderrors "git.home.luguber.info/inful/remotedocs/internal/errors"
)

// TreeSource selects how repository trees are listed.
type TreeSource string

const (
	TreeSourceAPI TreeSource = "api" // GitHub git/trees endpoint
	TreeSourceGit TreeSource = "git" // shallow in-memory clone
)

// Config represents the application configuration
type Config struct {
	GitHub          GitHubConfig   `yaml:"github"`
	Resolver        ResolverConfig `yaml:"resolver"`
	DescriptorsFile string         `yaml:"descriptors_file,omitempty"`
	Descriptors     []Descriptor   `yaml:"descriptors,omitempty"`
	Output          OutputConfig   `yaml:"output"`
	Serve           ServeConfig    `yaml:"serve"`
	Site            SiteConfig     `yaml:"site"`
}

// GitHubConfig holds the forge endpoints and credentials used to list trees.
type GitHubConfig struct {
	APIURL          string     `yaml:"api_url"`
	RawURL          string     `yaml:"raw_url"`
	GitURL          string     `yaml:"git_url"`
	Token           string     `yaml:"token,omitempty"`
	Source          TreeSource `yaml:"source"`
	CloneDepth      int        `yaml:"clone_depth"`
	FailOnTruncated bool       `yaml:"fail_on_truncated"`
}

// ResolverConfig bounds the per-repository fan-out.
type ResolverConfig struct {
	Concurrency int         `yaml:"concurrency"`
	Timeout     string      `yaml:"timeout"`
	Retry       RetryConfig `yaml:"retry"`
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Path   string `yaml:"path"`
	Strict bool   `yaml:"strict"` // fail when any repository could not be resolved
}

// ServeConfig configures the long-running regeneration mode.
type ServeConfig struct {
	Addr     string `yaml:"addr"`
	Interval string `yaml:"interval"`
	Watch    bool   `yaml:"watch"`
}

const (
	DefaultAPIURL      = "https://api.github.com"
	DefaultRawURL      = "https://raw.githubusercontent.com"
	DefaultGitURL      = "https://github.com"
	DefaultBranch      = "main"
	DefaultConcurrency = 4
	DefaultTimeout     = 30 * time.Second
	DefaultOutputPath  = "./site-config.json"
	DefaultServeAddr   = ":8080"
	DefaultInterval    = time.Hour

	DefaultDescriptorsFile = "remoteContent.json"
)

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, rderrors.ConfigNotFound(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	// Descriptor files are addressed relative to the configuration file.
	if cfg.DescriptorsFile != "" && !filepath.IsAbs(cfg.DescriptorsFile) {
		cfg.DescriptorsFile = filepath.Join(filepath.Dir(configPath), cfg.DescriptorsFile)
	}
	return cfg, nil
}

// Parse decodes YAML configuration content, expanding ${VAR} references from the
// environment, and applies defaults and validation.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, rderrors.Wrap(err, rderrors.CategoryConfig, rderrors.SeverityFatal, "failed to unmarshal config")
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.ApplyDefaults()
	return &cfg
}

// ApplyDefaults fills zero values with their defaults.
func (c *Config) ApplyDefaults() {
	if c.GitHub.APIURL == "" {
		c.GitHub.APIURL = DefaultAPIURL
	}
	if c.GitHub.RawURL == "" {
		c.GitHub.RawURL = DefaultRawURL
	}
	if c.GitHub.GitURL == "" {
		c.GitHub.GitURL = DefaultGitURL
	}
	if c.GitHub.Source == "" {
		c.GitHub.Source = TreeSourceAPI
	}
	if c.GitHub.Token == "" {
		c.GitHub.Token = os.Getenv("GITHUB_TOKEN")
	}
	if c.GitHub.CloneDepth == 0 {
		c.GitHub.CloneDepth = 1
	}
	if c.Resolver.Concurrency <= 0 {
		c.Resolver.Concurrency = DefaultConcurrency
	}
	if c.Resolver.Timeout == "" {
		c.Resolver.Timeout = DefaultTimeout.String()
	}
	if c.Resolver.Retry.Backoff == "" {
		c.Resolver.Retry.Backoff = RetryBackoffLinear
	} else if m := NormalizeRetryBackoff(string(c.Resolver.Retry.Backoff)); m != "" {
		c.Resolver.Retry.Backoff = m
	}
	if c.Output.Path == "" {
		c.Output.Path = DefaultOutputPath
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = DefaultServeAddr
	}
	if c.Serve.Interval == "" {
		c.Serve.Interval = DefaultInterval.String()
	}
	for i := range c.Descriptors {
		c.Descriptors[i].normalize()
	}
	c.Site.applyDefaults()
}

// TimeoutDuration returns the per-repository resolve timeout.
func (r ResolverConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(r.Timeout)
	if err != nil || d <= 0 {
		return DefaultTimeout
	}
	return d
}

// IntervalDuration returns the regeneration interval for serve mode.
func (s ServeConfig) IntervalDuration() time.Duration {
	d, err := time.ParseDuration(s.Interval)
	if err != nil || d <= 0 {
		return DefaultInterval
	}
	return d
}
