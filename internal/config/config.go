// Package config loads the application configuration from the YAML file
// pointed to by CONFIG_PATH, with environment-variable overrides.
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration structure.
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	AmqpConnectionString    string `yaml:"amqp_connection_string" env:"AMQP_CONNECTION_STRING"`
	HTTPServer              `yaml:"http_server"`
	JWT                     `yaml:"jwt"`
}

// HTTPServer holds the listener settings.
type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// JWT holds the token-signing settings. The secret has a local fallback so
// dev setups run without configuration, but production must supply its own.
type JWT struct {
	Secret   string        `yaml:"secret" env:"JWT_SECRET" env-default:"local-dev-secret-do-not-use-in-prod"`
	Issuer   string        `yaml:"issuer" env:"JWT_ISSUER" env-default:"MouseJigglerBackend"`
	Audience string        `yaml:"audience" env:"JWT_AUDIENCE" env-default:"MouseJigglerUsers"`
	TokenTTL time.Duration `yaml:"token_ttl" env:"JWT_TOKEN_TTL" env-default:"24h"`
}

// MustLoad reads the config or terminates the process. Running in prod with
// the fallback JWT secret is a startup-fatal misconfiguration.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	if cfg.Env == "prod" && (cfg.JWT.Secret == "" || cfg.JWT.Secret == "local-dev-secret-do-not-use-in-prod") {
		log.Fatal("jwt secret must be configured in prod")
	}
	return &cfg
}
