package main

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string `mapstructure:"PORT"`
	Environment    string `mapstructure:"ENVIRONMENT"`
	Version        string `mapstructure:"VERSION"`
	TLSCertFile    string `mapstructure:"TLS_CERT_FILE"`
	TLSKeyFile     string `mapstructure:"TLS_KEY_FILE"`
	Store          string `mapstructure:"STORE"`
	MigrationsPath string `mapstructure:"MIGRATIONS_PATH"`

	DB struct {
		Host     string `mapstructure:"POSTGRES_HOST"`
		Port     string `mapstructure:"POSTGRES_PORT"`
		User     string `mapstructure:"POSTGRES_USER"`
		Password string `mapstructure:"POSTGRES_PASSWORD"`
		Name     string `mapstructure:"POSTGRES_DB"`
	} `mapstructure:",squash"`

	RabbitMQ struct {
		Host       string `mapstructure:"RABBITMQ_HOST"`
		Port       string `mapstructure:"RABBITMQ_PORT"`
		User       string `mapstructure:"RABBITMQ_USER"`
		Password   string `mapstructure:"RABBITMQ_PASSWORD"`
		MaxRetries uint64 `mapstructure:"RABBITMQ_MAX_RETRIES"`
	} `mapstructure:",squash"`

	Blog struct {
		PageSize       int           `mapstructure:"PAGE_SIZE"`
		SearchCacheTTL time.Duration `mapstructure:"SEARCH_CACHE_TTL"`
		TagCacheTTL    time.Duration `mapstructure:"TAG_CACHE_TTL"`
	} `mapstructure:",squash"`

	RateLimit struct {
		Requests int           `mapstructure:"RATE_LIMIT_REQUESTS"`
		Window   time.Duration `mapstructure:"RATE_LIMIT_WINDOW"`
	} `mapstructure:",squash"`
}

const (
	storePostgres = "postgres"
	storeMemory   = "memory"
)

var defaults = map[string]any{
	"PORT":                 "4000",
	"ENVIRONMENT":          "development",
	"VERSION":              "1.0.0",
	"TLS_CERT_FILE":        "",
	"TLS_KEY_FILE":         "",
	"STORE":                storePostgres,
	"MIGRATIONS_PATH":      "file://migrations",
	"POSTGRES_HOST":        "localhost",
	"POSTGRES_PORT":        "5432",
	"POSTGRES_USER":        "",
	"POSTGRES_PASSWORD":    "",
	"POSTGRES_DB":          "",
	"RABBITMQ_HOST":        "",
	"RABBITMQ_PORT":        "5672",
	"RABBITMQ_USER":        "guest",
	"RABBITMQ_PASSWORD":    "guest",
	"RABBITMQ_MAX_RETRIES": 5,
	"PAGE_SIZE":            6,
	"SEARCH_CACHE_TTL":     5 * time.Minute,
	"TAG_CACHE_TTL":        10 * time.Minute,
	"RATE_LIMIT_REQUESTS":  10,
	"RATE_LIMIT_WINDOW":    time.Minute,
}

// loadConfig reads the dotenv file at path. Environment variables override
// it, and a missing file leaves the environment and defaults in charge.
func loadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.Store != storePostgres && config.Store != storeMemory {
		return nil, errors.New("STORE must be either postgres or memory")
	}

	rl := config.RateLimit
	if rl.Requests < 1 || rl.Window/time.Duration(rl.Requests) <= 0 {
		return nil, errors.New("RATE_LIMIT_WINDOW must be positive and at least RATE_LIMIT_REQUESTS nanoseconds")
	}

	return &config, nil
}
