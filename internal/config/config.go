// Package config provides layered configuration for the daily goals
// backend: defaults, an optional YAML file, then environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Environment is the deployment environment name.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

// Config is the full application configuration.
type Config struct {
	Environment   Environment `yaml:"environment"`
	ServerAddress string      `yaml:"server_address"`

	Supabase SupabaseConfig `yaml:"supabase"`
	Agent    AgentConfig    `yaml:"agent"`
}

// SupabaseConfig locates the row store.
type SupabaseConfig struct {
	URL        string `yaml:"url"`
	ServiceKey string `yaml:"service_key"`
	Table      string `yaml:"table"`
}

// AgentConfig carries the generation defaults passed to the reasoning
// service when a request does not override them.
type AgentConfig struct {
	Endpoint    string  `yaml:"endpoint"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// Load builds the configuration from defaults, the optional file named by
// CONFIG_FILE, and environment variables, in increasing priority.
func Load() (*Config, error) {
	cfg := &Config{
		Environment:   Development,
		ServerAddress: ":8080",
		Supabase: SupabaseConfig{
			Table: "daily_goals",
		},
		Agent: AgentConfig{
			Temperature: 0.7,
			MaxTokens:   500,
		},
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnvironment()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvironment() {
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		c.Environment = Environment(v)
	}
	if v := os.Getenv("SERVER_ADDRESS"); v != "" {
		c.ServerAddress = v
	}
	if v := os.Getenv("SUPABASE_URL"); v != "" {
		c.Supabase.URL = v
	}
	if v := os.Getenv("SUPABASE_SERVICE_ROLE_KEY"); v != "" {
		c.Supabase.ServiceKey = v
	}
	if v := os.Getenv("SUPABASE_TABLE"); v != "" {
		c.Supabase.Table = v
	}
	if v := os.Getenv("AGENT_ENDPOINT"); v != "" {
		c.Agent.Endpoint = v
	}
	if v := os.Getenv("AGENT_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Agent.Temperature = f
		}
	}
	if v := os.Getenv("AGENT_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Agent.MaxTokens = n
		}
	}
}

// Validate checks the assembled configuration. The Supabase settings are
// only required outside development, where the in-memory store is an
// acceptable fallback.
func (c *Config) Validate() error {
	switch c.Environment {
	case Development, Production:
	default:
		return fmt.Errorf("unknown environment %q", c.Environment)
	}
	if c.Environment == Production {
		if c.Supabase.URL == "" || c.Supabase.ServiceKey == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY must be set in production")
		}
	}
	if c.Supabase.Table == "" {
		return fmt.Errorf("supabase table name must not be empty")
	}
	return nil
}

// UseSupabase reports whether a Supabase row store can be constructed.
func (c *Config) UseSupabase() bool {
	return c.Supabase.URL != "" && c.Supabase.ServiceKey != ""
}
