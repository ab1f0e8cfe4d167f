package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AppEnv string `yaml:"app_env" env:"APP_ENV"`
	Port   string `yaml:"port" env:"PORT"`

	DB struct {
		Driver   string `yaml:"driver" env:"DB_DRIVER"`
		Host     string `yaml:"host" env:"DB_HOST"`
		User     string `yaml:"user" env:"DB_USER"`
		Password string `yaml:"password" env:"DB_PASSWORD"`
		Name     string `yaml:"name" env:"DB_NAME"`
		Port     string `yaml:"port" env:"DB_PORT"`
		SSLMode  string `yaml:"sslmode" env:"DB_SSLMODE"`
		Path     string `yaml:"path" env:"DB_PATH"`
	} `yaml:"db"`

	RedisAddr   string `yaml:"redis_addr" env:"REDIS_ADDR"`
	KafkaBroker string `yaml:"kafka_broker" env:"KAFKA_BROKER"`

	JWTSecret       string        `yaml:"jwt_secret" env:"JWT_SECRET"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl" env:"ACCESS_TOKEN_TTL"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" env:"REFRESH_TOKEN_TTL"`

	Log struct {
		Level string `yaml:"level" env:"LOG_LEVEL"`
		File  string `yaml:"file" env:"LOG_FILE"`
	} `yaml:"log"`

	Report struct {
		DatePolicy   string `yaml:"date_policy" env:"REPORT_DATE_POLICY"`
		DeletePolicy string `yaml:"delete_policy" env:"REPORT_DELETE_POLICY"`
	} `yaml:"report"`

	OutboxPollInterval time.Duration `yaml:"outbox_poll_interval" env:"OUTBOX_POLL_INTERVAL"`
	ConnectMaxRetries  int           `yaml:"connect_max_retries" env:"CONNECT_MAX_RETRIES"`

	BootstrapAdmin struct {
		Code     string `yaml:"code" env:"BOOTSTRAP_ADMIN_CODE"`
		Name     string `yaml:"name" env:"BOOTSTRAP_ADMIN_NAME"`
		Password string `yaml:"password" env:"BOOTSTRAP_ADMIN_PASSWORD"`
	} `yaml:"bootstrap_admin"`
}

func Default() Config {
	var cfg Config
	cfg.AppEnv = "development"
	cfg.Port = "3000"
	cfg.DB.Driver = "postgres"
	cfg.DB.SSLMode = "disable"
	cfg.DB.Path = "dailyreport.db"
	cfg.RedisAddr = "localhost:6379"
	cfg.AccessTokenTTL = 15 * time.Minute
	cfg.RefreshTokenTTL = 7 * 24 * time.Hour
	cfg.Log.Level = "debug"
	cfg.Report.DatePolicy = "immutable"
	cfg.Report.DeletePolicy = "logical"
	cfg.OutboxPollInterval = 3 * time.Second
	cfg.ConnectMaxRetries = 5
	cfg.BootstrapAdmin.Name = "Administrator"
	return cfg
}

// Load layers defaults, an optional YAML file named by CONFIG_FILE and the
// environment (after .env has been loaded), in that order.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadYAML(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(file, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Report.DatePolicy {
	case "immutable", "revalidate":
	default:
		return fmt.Errorf("invalid REPORT_DATE_POLICY %q", c.Report.DatePolicy)
	}
	switch c.Report.DeletePolicy {
	case "logical", "physical":
	default:
		return fmt.Errorf("invalid REPORT_DELETE_POLICY %q", c.Report.DeletePolicy)
	}
	switch c.DB.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("invalid DB_DRIVER %q", c.DB.Driver)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}
