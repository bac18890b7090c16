package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variable names recognized by the loader.
const (
	EnvConfigPath     = "CONFIG_PATH"
	EnvDBConnection   = "DB_CONNECTION"
	EnvPort           = "PORT"
	EnvEnvironment    = "ENVIRONMENT"
	EnvProviderAPIKey = "PROVIDER_API_KEY"
	EnvTokenSecret    = "PREMIUM_TOKEN_SECRET"
)

// Environment values for ServerConfig.Environment.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Defaults applied when the config file omits a value.
const (
	defaultPort            = 8080
	defaultDailyLimit      = 50
	defaultCacheTTL        = 5 * time.Minute
	defaultFreshnessWindow = 5 * time.Minute
	defaultSweepInterval   = time.Hour
	defaultProviderTimeout = 60 * time.Second
	defaultModel           = "gpt-4o-mini"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int    `yaml:"port"`
	Environment string `yaml:"environment"`
}

// DatabaseConfig holds the relational store connection settings.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// ProviderConfig holds the generation provider settings.
type ProviderConfig struct {
	APIKey  string        `yaml:"api-key"`
	BaseURL string        `yaml:"base-url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// PremiumConfig holds premium gating settings.
type PremiumConfig struct {
	CacheTTL        time.Duration `yaml:"cache-ttl"`
	FreshnessWindow time.Duration `yaml:"freshness-window"`
	TokenSecret     string        `yaml:"token-secret"`
	AllowDevBypass  bool          `yaml:"allow-dev-bypass"`
}

// QuotaConfig holds daily rate limit settings.
type QuotaConfig struct {
	DailyLimit    int           `yaml:"daily-limit"`
	SweepInterval time.Duration `yaml:"sweep-interval"`
}

// CORSConfig holds the web origin allow-list.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed-origins"`
}

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Provider ProviderConfig `yaml:"provider"`
	Premium  PremiumConfig  `yaml:"premium"`
	Quota    QuotaConfig    `yaml:"quota"`
	CORS     CORSConfig     `yaml:"cors"`
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return strings.TrimSpace(c.Server.Environment) != EnvProduction
}

// ResolveConfigPath normalizes the config path and applies defaults.
func ResolveConfigPath(p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		trimmed = strings.TrimSpace(os.Getenv(EnvConfigPath))
	}
	if trimmed == "" {
		trimmed = "./config.yaml"
	}
	if abs, err := filepath.Abs(trimmed); err == nil {
		return abs
	}
	return trimmed
}

// Load reads the YAML config file, applies environment overrides and defaults.
// A missing file is tolerated; environment variables alone can configure the
// service.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, errRead := os.ReadFile(path)
	if errRead == nil {
		if errUnmarshal := yaml.Unmarshal(data, cfg); errUnmarshal != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, errUnmarshal)
		}
	} else if !os.IsNotExist(errRead) {
		return nil, fmt.Errorf("config: read %s: %w", path, errRead)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if errValidate := cfg.validate(); errValidate != nil {
		return nil, errValidate
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if dsn := strings.TrimSpace(os.Getenv(EnvDBConnection)); dsn != "" {
		cfg.Database.DSN = dsn
	}
	if rawPort := strings.TrimSpace(os.Getenv(EnvPort)); rawPort != "" {
		if port, errParse := strconv.Atoi(rawPort); errParse == nil && port > 0 && port <= 65535 {
			cfg.Server.Port = port
		}
	}
	if env := strings.TrimSpace(os.Getenv(EnvEnvironment)); env != "" {
		cfg.Server.Environment = env
	}
	if key := strings.TrimSpace(os.Getenv(EnvProviderAPIKey)); key != "" {
		cfg.Provider.APIKey = key
	}
	if secret := strings.TrimSpace(os.Getenv(EnvTokenSecret)); secret != "" {
		cfg.Premium.TokenSecret = secret
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		cfg.Server.Port = defaultPort
	}
	if strings.TrimSpace(cfg.Server.Environment) == "" {
		cfg.Server.Environment = EnvDevelopment
	}
	if cfg.Quota.DailyLimit <= 0 {
		cfg.Quota.DailyLimit = defaultDailyLimit
	}
	if cfg.Quota.SweepInterval <= 0 {
		cfg.Quota.SweepInterval = defaultSweepInterval
	}
	if cfg.Premium.CacheTTL <= 0 {
		cfg.Premium.CacheTTL = defaultCacheTTL
	}
	if cfg.Premium.FreshnessWindow <= 0 {
		cfg.Premium.FreshnessWindow = defaultFreshnessWindow
	}
	if cfg.Provider.Timeout <= 0 {
		cfg.Provider.Timeout = defaultProviderTimeout
	}
	if strings.TrimSpace(cfg.Provider.Model) == "" {
		cfg.Provider.Model = defaultModel
	}
}

// validate rejects configurations that cannot serve production traffic.
func (c *Config) validate() error {
	if c.IsDevelopment() {
		return nil
	}
	if strings.TrimSpace(c.Provider.APIKey) == "" {
		return fmt.Errorf("config: provider api key is required in production (set %s)", EnvProviderAPIKey)
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("config: database dsn is required in production (set %s)", EnvDBConnection)
	}
	return nil
}
