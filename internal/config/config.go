package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/NicabarNimble/go-gitproject/internal/workspace"
)

// Environment variables read by ApplyEnv.
const (
	EnvConfig  = "GITPROJECT_CONFIG"
	EnvRoot    = "GITPROJECT_ROOT"
	EnvWorkers = "GITPROJECT_WORKERS"
)

// Log formats.
const (
	FormatPlain   = "plain"
	FormatVerbose = "verbose"
	FormatJSON    = "json"
)

// Config is the effective configuration of one gitproject invocation.
type Config struct {
	Root    string        `yaml:"root"`
	Workers int           `yaml:"workers"`
	Logging LoggingConfig `yaml:"logging"`
	Tmux    TmuxConfig    `yaml:"tmux"`
	GitHub  GitHubConfig  `yaml:"github"`
}

// LoggingConfig defines where and how log lines are written
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Syslog bool   `yaml:"syslog"`
	File   string `yaml:"file,omitempty"`
}

// TmuxConfig defines the tmux binary used by engage
type TmuxConfig struct {
	Binary string `yaml:"binary"`
}

// GitHubConfig defines access to the GitHub API
type GitHubConfig struct {
	Token string `yaml:"token,omitempty"`
	// APIURL points at a GitHub Enterprise API root.
	APIURL string `yaml:"api_url,omitempty"`
}

// DefaultConfig provides default configuration values
func DefaultConfig() *Config {
	return &Config{
		Root:    filepath.Join(append([]string{"~"}, workspace.DefaultRootSegments...)...),
		Workers: 0, // one per CPU
		Logging: LoggingConfig{
			Level:  "info",
			Format: FormatPlain,
		},
		Tmux: TmuxConfig{
			Binary: "tmux",
		},
	}
}

// DefaultPath returns the config file used when none is given on the
// command line.
func DefaultPath() (string, error) {
	if path := os.Getenv(EnvConfig); path != "" {
		return path, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "gitproject", "config.yaml"), nil
}

// LoadConfig loads configuration from a file. A missing file yields the
// defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.MergeDefaults()
	return cfg, nil
}

// Encode writes the configuration as YAML with secrets redacted.
func (c *Config) Encode(w io.Writer) error {
	out := *c
	if out.GitHub.Token != "" {
		out.GitHub.Token = "<redacted>"
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&out); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return enc.Close()
}

// MergeDefaults merges default values for unset fields
func (c *Config) MergeDefaults() {
	defaults := DefaultConfig()
	if c.Root == "" {
		c.Root = defaults.Root
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = defaults.Logging.Format
	}
	if c.Tmux.Binary == "" {
		c.Tmux.Binary = defaults.Tmux.Binary
	}
}

// ApplyEnv overrides file values with environment variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if root, ok := lookup(EnvRoot); ok && root != "" {
		c.Root = root
	}
	if raw, ok := lookup(EnvWorkers); ok && raw != "" {
		workers, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvWorkers, raw, err)
		}
		c.Workers = workers
	}
	return nil
}

// ExpandPaths replaces a leading ~ in path settings with home.
func (c *Config) ExpandPaths(home string) {
	c.Root = expandHome(c.Root, home)
	c.Logging.File = expandHome(c.Logging.File, home)
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("root cannot be empty")
	}
	if !filepath.IsAbs(c.Root) {
		return fmt.Errorf("root must be an absolute path, got %q", c.Root)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers cannot be negative")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case FormatPlain, FormatVerbose, FormatJSON:
	default:
		return fmt.Errorf("invalid log format %q, expected one of plain, verbose, json", c.Logging.Format)
	}
	if c.Tmux.Binary == "" {
		return fmt.Errorf("tmux binary cannot be empty")
	}
	return nil
}
