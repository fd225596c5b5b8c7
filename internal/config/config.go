// Package config handles loading and parsing application configuration.
// It supports two sources for the config file path (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// A .env file in the working directory, when present, is loaded into the
// process environment first so every env:"..." override below can live there.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-required:"true"`

	// StoragePath is the filesystem path to the SQLite .db file.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-required:"true"`

	// SeedPath optionally points at a JSON file of records loaded at startup.
	SeedPath string `yaml:"seed_path" env:"SEED_PATH"`

	HTTPServer `yaml:"http_server"`
	Auth     Auth     `yaml:"auth"`
	Ethos    Ethos    `yaml:"ethos"`
	Cache    Cache    `yaml:"cache"`
	Events   Events   `yaml:"events"`
	TaxForms TaxForms `yaml:"tax_forms"`

	InstantEnrollment InstantEnrollment `yaml:"instant_enrollment"`
}

// HTTPServer holds settings specific to the HTTP server.
type HTTPServer struct {
	Addr         string        `yaml:"address" env:"HTTP_SERVER_ADDR" env-required:"true"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_SERVER_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_SERVER_WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"HTTP_SERVER_IDLE_TIMEOUT" env-default:"60s"`
}

// Auth configures bearer token validation.
type Auth struct {
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
	Issuer    string `yaml:"issuer" env:"AUTH_ISSUER" env-default:"student-records-api"`
}

// Ethos holds settings shared by every EEDM resource.
type Ethos struct {
	IncludeLinkSelfHeaders bool `yaml:"include_link_self_headers" env:"ETHOS_INCLUDE_LINK_SELF_HEADERS"`
	MaxPageSize            int  `yaml:"max_page_size" env:"ETHOS_MAX_PAGE_SIZE" env-default:"500"`
}

// Cache selects the cache backend. An empty RedisAddr keeps everything in
// process memory.
type Cache struct {
	RedisAddr string        `yaml:"redis_addr" env:"CACHE_REDIS_ADDR"`
	RedisDB   int           `yaml:"redis_db" env:"CACHE_REDIS_DB"`
	TTL       time.Duration `yaml:"ttl" env:"CACHE_TTL" env-default:"24h"`
}

// Events configures change notification publishing. With no brokers the
// notifications are only logged.
type Events struct {
	KafkaBrokers []string `yaml:"kafka_brokers" env:"EVENTS_KAFKA_BROKERS" env-separator:","`
	Topic        string   `yaml:"topic" env:"EVENTS_TOPIC" env-default:"ethos-change-notifications"`
}

// TaxForms mirrors the institution's tax form consent parameters.
type TaxForms struct {
	Form1098BypassConsent bool `yaml:"form1098_bypass_consent" env:"TAX_FORMS_1098_BYPASS_CONSENT"`
	T2202AHideConsent     bool `yaml:"t2202a_hide_consent" env:"TAX_FORMS_T2202A_HIDE_CONSENT"`
}

// InstantEnrollment configures the payment provider used by the
// start-payment-gateway-transaction endpoint.
type InstantEnrollment struct {
	PaymentGatewayURL string `yaml:"payment_gateway_url" env:"IE_PAYMENT_GATEWAY_URL"`
	DistributionCode  string `yaml:"distribution_code" env:"IE_DISTRIBUTION_CODE" env-default:"WEBREG"`
}

// Load reads the optional .env file and the YAML config at configPath.
func Load(envFilename, configPath string) (*Config, error) {
	if envFilename != "" {
		if err := godotenv.Load(envFilename); err != nil {
			return nil, fmt.Errorf("error loading %s file: %w", envFilename, err)
		}
	}

	if configPath == "" {
		return nil, errors.New("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	if cfg.Ethos.MaxPageSize < 1 {
		return nil, fmt.Errorf("ethos.max_page_size must be positive, got %d", cfg.Ethos.MaxPageSize)
	}

	return &cfg, nil
}

// MustLoad reads, validates, and returns the application config.
//
// Functions prefixed with "Must" are allowed to fatal on failure. If this
// function returns, the config is valid.
func MustLoad() *Config {
	envFilename := ""
	if _, err := os.Stat(".env"); err == nil {
		envFilename = ".env"
	}

	cfg, err := loadFromEnv(envFilename, func() string {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		return *flags
	})
	if err != nil {
		log.Fatal(err.Error())
	}

	return cfg
}

// loadFromEnv loads envFilename before it reads CONFIG_PATH, so the path
// itself may come from the .env file. flagPath is consulted only when
// CONFIG_PATH is unset.
func loadFromEnv(envFilename string, flagPath func() string) (*Config, error) {
	if envFilename != "" {
		if err := godotenv.Load(envFilename); err != nil {
			return nil, fmt.Errorf("error loading %s file: %w", envFilename, err)
		}
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = flagPath()
	}
	return Load("", configPath)
}
