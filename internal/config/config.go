package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Manual    ManualConfig    `yaml:"manual"`
	Cache     CacheConfig     `yaml:"cache"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// ManualConfig locates the questionnaire/profile SQLite store.
type ManualConfig struct {
	Dir string `yaml:"dir"`
}

// CacheConfig bounds the fetch-result cache lifetime.
type CacheConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

// UnmarshalYAML accepts Go duration strings ("2m", "90s") for the TTL.
func (c *CacheConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		TTL string `yaml:"ttl"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.TTL == "" {
		return nil
	}
	ttl, err := time.ParseDuration(raw.TTL)
	if err != nil {
		return fmt.Errorf("cache.ttl: %w", err)
	}
	c.TTL = ttl
	return nil
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix AMPED_ and underscore-separated paths:
//
//	AMPED_SERVER_HOST, AMPED_SERVER_PORT,
//	AMPED_DB_HOST, AMPED_DB_PORT, AMPED_DB_NAME,
//	AMPED_DB_USER, AMPED_DB_PASSWORD, AMPED_DB_SSLMODE,
//	AMPED_MANUAL_DIR, AMPED_CACHE_TTL, AMPED_AUTH_API_KEY
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 5 * time.Minute
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("AMPED_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("AMPED_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("AMPED_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("AMPED_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("AMPED_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("AMPED_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("AMPED_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("AMPED_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("AMPED_MANUAL_DIR"); v != "" {
		cfg.Manual.Dir = v
	}
	if v := os.Getenv("AMPED_CACHE_TTL"); v != "" {
		if ttl, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = ttl
		}
	}
	if v := os.Getenv("AMPED_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Manual.Dir == "" {
		return fmt.Errorf("manual.dir is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	return nil
}
