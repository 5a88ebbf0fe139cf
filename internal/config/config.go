package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Concierge/internal/scoring"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Hermes     HermesConfig     `yaml:"hermes"`
	Tenant     TenantConfig     `yaml:"tenant"`
	Allocation AllocationConfig `yaml:"allocation"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port" validate:"min=1,max=65535"`
	MetricsPort int    `yaml:"metrics_port" validate:"min=1,max=65535,nefield=Port"`
	AdminToken  string `yaml:"admin_token"`
	// RateLimitPerMinute caps requests per tenant; 0 disables limiting.
	RateLimitPerMinute int `yaml:"rate_limit_per_minute" validate:"min=0"`
	// CORSAllowedOrigins enables CORS for the API when non-empty.
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

// DatabaseConfig selects the record source. An empty URL runs against the
// in-memory store seeded from InventoryPath, or the built-in sample hotel.
type DatabaseConfig struct {
	URL           string `yaml:"url" validate:"omitempty,url"`
	InventoryPath string `yaml:"inventory_path"`
}

// HermesConfig configures NATS. An empty URL disables events.
type HermesConfig struct {
	URL             string        `yaml:"url" validate:"omitempty,url"`
	BreakerFailures uint32        `yaml:"breaker_failures" validate:"min=1"`
	BreakerTimeout  time.Duration `yaml:"breaker_timeout" validate:"min=1s"`
}

type TenantConfig struct {
	Default       string `yaml:"default" validate:"required"`
	RequireHeader bool   `yaml:"require_header"`
	// ConstraintsPath is an optional YAML file of tenant constraint bindings
	// loaded into the store at startup.
	ConstraintsPath string `yaml:"constraints_path"`
}

type AllocationConfig struct {
	DefaultMethod string `yaml:"default_method" validate:"required,oneof=rule-based ml-based constraint-based"`
	BatchMethod   string `yaml:"batch_method" validate:"required,oneof=rule-based ml-based constraint-based"`
	MaxBatchSize  int    `yaml:"max_batch_size" validate:"min=1"`
}

type ScoringConfig struct {
	Rules    scoring.RuleWeights    `yaml:"rules"`
	Features scoring.FeatureWeights `yaml:"features"`
	Scale    scoring.FeatureScale   `yaml:"scale"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json text"`
}

var validate = validator.New()

func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:               8700,
			MetricsPort:        8701,
			RateLimitPerMinute: 600,
		},
		Hermes: HermesConfig{
			URL:             "nats://localhost:4222",
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
		},
		Tenant: TenantConfig{
			Default: "default",
		},
		Allocation: AllocationConfig{
			DefaultMethod: scoring.MethodRuleBased,
			BatchMethod:   scoring.MethodRuleBased,
			MaxBatchSize:  500,
		},
		Scoring: ScoringConfig{
			Rules:    scoring.DefaultRuleWeights(),
			Features: scoring.DefaultFeatureWeights(),
			Scale:    scoring.DefaultFeatureScale(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate runs struct validation and checks both scoring weight sets.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if err := cfg.Scoring.Rules.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if err := cfg.Scoring.Features.Validate(); err != nil {
		return fmt.Errorf("config validation failed: feature weights: %w", err)
	}
	if cfg.Scoring.Scale.MaxFloor <= 0 || cfg.Scoring.Scale.MaxPrice <= 0 {
		return fmt.Errorf("config validation failed: scoring scale must be positive")
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CONCIERGE_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("CONCIERGE_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("CONCIERGE_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("CONCIERGE_RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.RateLimitPerMinute = n
		}
	}
	if v := os.Getenv("CONCIERGE_CORS_ORIGINS"); v != "" {
		cfg.Server.CORSAllowedOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("CONCIERGE_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("CONCIERGE_INVENTORY_PATH"); v != "" {
		cfg.Database.InventoryPath = v
	}
	if v, ok := os.LookupEnv("CONCIERGE_HERMES_URL"); ok {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("CONCIERGE_DEFAULT_TENANT"); v != "" {
		cfg.Tenant.Default = v
	}
	if v := os.Getenv("CONCIERGE_REQUIRE_TENANT_HEADER"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tenant.RequireHeader = b
		}
	}
	if v := os.Getenv("CONCIERGE_CONSTRAINTS_PATH"); v != "" {
		cfg.Tenant.ConstraintsPath = v
	}
	if v := os.Getenv("CONCIERGE_DEFAULT_METHOD"); v != "" {
		cfg.Allocation.DefaultMethod = v
	}
	if v := os.Getenv("CONCIERGE_BATCH_METHOD"); v != "" {
		cfg.Allocation.BatchMethod = v
	}
	if v := os.Getenv("CONCIERGE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("CONCIERGE_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
