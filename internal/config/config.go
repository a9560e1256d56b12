package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/bytegrep/internal/logger"
	"github.com/harrison/bytegrep/internal/search"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable that points at a config file
const EnvConfigPath = "BYTEGREP_CONFIG"

// Config represents bytegrep configuration options
type Config struct {
	// Mode selects the scheduling strategy (sequential, parallel)
	Mode string `yaml:"mode"`

	// MaxConcurrency is the maximum number of concurrent file scans in parallel mode (0 = unlimited)
	MaxConcurrency int `yaml:"max_concurrency"`

	// BufferSize is the minimum read buffer per file scan in bytes
	BufferSize int `yaml:"buffer_size"`

	// Strict turns per-file read failures into a non-zero exit
	Strict bool `yaml:"strict"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir enables a per-run log file in this directory when non-empty
	LogDir string `yaml:"log_dir"`

	// ExcludeDirs lists directory names skipped during traversal
	ExcludeDirs []string `yaml:"exclude_dirs"`

	// MaxDepth limits traversal depth (0 = unlimited, 1 = root directory only)
	MaxDepth int `yaml:"max_depth"`

	// Progress renders a progress bar on stderr
	Progress bool `yaml:"progress"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Mode:           search.ModeParallel,
		MaxConcurrency: 0, // Unlimited
		BufferSize:     search.DefaultMinBufferSize,
		Strict:         false,
		LogLevel:       "warn",
		LogDir:         "",
		ExcludeDirs:    nil,
		MaxDepth:       0,
		Progress:       false,
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Pointer fields distinguish "absent" from an explicit zero value
	type yamlConfig struct {
		Mode           *string  `yaml:"mode"`
		MaxConcurrency *int     `yaml:"max_concurrency"`
		BufferSize     *int     `yaml:"buffer_size"`
		Strict         *bool    `yaml:"strict"`
		LogLevel       *string  `yaml:"log_level"`
		LogDir         *string  `yaml:"log_dir"`
		ExcludeDirs    []string `yaml:"exclude_dirs"`
		MaxDepth       *int     `yaml:"max_depth"`
		Progress       *bool    `yaml:"progress"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.Mode != nil {
		cfg.Mode = strings.ToLower(strings.TrimSpace(*yamlCfg.Mode))
	}
	if yamlCfg.MaxConcurrency != nil {
		cfg.MaxConcurrency = *yamlCfg.MaxConcurrency
	}
	if yamlCfg.BufferSize != nil {
		cfg.BufferSize = *yamlCfg.BufferSize
	}
	if yamlCfg.Strict != nil {
		cfg.Strict = *yamlCfg.Strict
	}
	if yamlCfg.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*yamlCfg.LogLevel))
	}
	if yamlCfg.LogDir != nil {
		cfg.LogDir = *yamlCfg.LogDir
	}
	if yamlCfg.ExcludeDirs != nil {
		cfg.ExcludeDirs = yamlCfg.ExcludeDirs
	}
	if yamlCfg.MaxDepth != nil {
		cfg.MaxDepth = *yamlCfg.MaxDepth
	}
	if yamlCfg.Progress != nil {
		cfg.Progress = *yamlCfg.Progress
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .bytegrep/config.yaml in the specified directory
// If the directory or file doesn't exist, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, ".bytegrep", "config.yaml"))
}

// Load resolves the config file to use and loads it.
// Priority order:
//  1. explicit path (the --config flag), which must exist
//  2. BYTEGREP_CONFIG environment variable, which must exist
//  3. .bytegrep/config.yaml in the working directory (optional)
func Load(explicitPath string) (*Config, error) {
	path := explicitPath
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		return LoadConfig(path)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	return LoadConfigFromDir(cwd)
}

// FlagOverrides carries CLI flag values; nil fields were not set on the command line
type FlagOverrides struct {
	Mode           *string
	MaxConcurrency *int
	BufferSize     *int
	Strict         *bool
	LogLevel       *string
	LogDir         *string
	ExcludeDirs    []string
	MaxDepth       *int
	Progress       *bool
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
// This allows CLI flags to take precedence over config file settings
func (c *Config) MergeWithFlags(f FlagOverrides) {
	if f.Mode != nil {
		c.Mode = strings.ToLower(strings.TrimSpace(*f.Mode))
	}
	if f.MaxConcurrency != nil {
		c.MaxConcurrency = *f.MaxConcurrency
	}
	if f.BufferSize != nil {
		c.BufferSize = *f.BufferSize
	}
	if f.Strict != nil {
		c.Strict = *f.Strict
	}
	if f.LogLevel != nil {
		c.LogLevel = strings.ToLower(strings.TrimSpace(*f.LogLevel))
	}
	if f.LogDir != nil {
		c.LogDir = *f.LogDir
	}
	if f.ExcludeDirs != nil {
		c.ExcludeDirs = f.ExcludeDirs
	}
	if f.MaxDepth != nil {
		c.MaxDepth = *f.MaxDepth
	}
	if f.Progress != nil {
		c.Progress = *f.Progress
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	if c.Mode != search.ModeSequential && c.Mode != search.ModeParallel {
		return fmt.Errorf("invalid mode %q, must be one of: %s, %s", c.Mode, search.ModeSequential, search.ModeParallel)
	}

	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must be >= 0, got %d", c.MaxConcurrency)
	}

	if c.BufferSize < search.DefaultMinBufferSize {
		return fmt.Errorf("buffer_size must be >= %d, got %d", search.DefaultMinBufferSize, c.BufferSize)
	}

	if !logger.IsValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level %q, must be one of: %s", c.LogLevel, strings.Join(logger.ValidLevels, ", "))
	}

	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must be >= 0, got %d", c.MaxDepth)
	}

	for _, dir := range c.ExcludeDirs {
		if dir == "" || strings.ContainsRune(dir, filepath.Separator) {
			return fmt.Errorf("exclude_dirs entries must be plain directory names, got %q", dir)
		}
	}

	return nil
}
