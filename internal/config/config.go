// Package config provides configuration management with CLI > env > file precedence.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the davinci CLI.
type Config struct {
	APIKey    string        `yaml:"api-key"`
	APIBase   string        `yaml:"api-base"`
	Context   string        `yaml:"context"`
	MaxTokens int           `yaml:"max-tokens"`
	Timeout   time.Duration `yaml:"timeout"`
}

// DefaultConfig returns a Config with sensible defaults.
// Context defaults to empty so the persona loader can fill it.
func DefaultConfig() *Config {
	return &Config{
		APIBase:   "https://api.openai.com",
		MaxTokens: 100,
		Timeout:   30 * time.Second,
	}
}

// Load builds a Config by merging CLI flags, environment variables, and config files.
// Precedence: CLI args > env vars > config files (cwd then $HOME).
func Load(args []string) (*Config, error) {
	cfg := DefaultConfig()

	// Load config files (lowest precedence first, then overwrite).
	if home, err := os.UserHomeDir(); err == nil {
		_ = cfg.loadYAML(filepath.Join(home, ".davinci.conf.yml"))
	}
	_ = cfg.loadYAML(".davinci.conf.yml")

	// Load .env files.
	_ = godotenv.Load()

	// Apply env vars.
	cfg.applyEnv()

	// Parse CLI flags (highest precedence).
	if err := cfg.parseFlags(args); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) applyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_BASE"); v != "" {
		c.APIBase = v
	}
	if v := os.Getenv("DAVINCI_CONTEXT"); v != "" {
		c.Context = v
	}
	if v := os.Getenv("DAVINCI_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxTokens = n
		}
	}
}

func (c *Config) parseFlags(args []string) error {
	fs := flag.NewFlagSet("davinci", flag.ContinueOnError)
	fs.StringVar(&c.APIKey, "api-key", c.APIKey, "API key")
	fs.StringVar(&c.APIBase, "api-base", c.APIBase, "API base URL")
	fs.StringVar(&c.Context, "context", c.Context, "Persona context prepended to every question")
	fs.IntVar(&c.MaxTokens, "max-tokens", c.MaxTokens, "Maximum tokens to generate")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "Request timeout")
	return fs.Parse(args)
}
