package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ServiceName string `yaml:"service_name"`
	ServerPort  int    `yaml:"server_port"`
	LogLevel    string `yaml:"log_level"`

	DatabaseURL string `yaml:"database_url"`
	DBMigrate   bool   `yaml:"db_migrate"`

	// TokenTTL of zero keeps issued tokens valid until logout.
	TokenSecret string        `yaml:"token_secret"`
	TokenTTL    time.Duration `yaml:"token_ttl"`

	KafkaBrokers []string `yaml:"kafka_brokers"`

	ESURL      string `yaml:"es_url"`
	ESUser     string `yaml:"es_user"`
	ESPassword string `yaml:"es_password"`
	ESIndex    string `yaml:"es_index"`
}

func Defaults() Config {
	return Config{
		ServiceName: "product_api",
		ServerPort:  8080,
		LogLevel:    "info",
		DBMigrate:   true,
		ESIndex:     "products",
	}
}

// Load resolves configuration in three layers: defaults, the optional YAML
// file named by CONFIG_FILE, then environment variables (including .env).
func Load() (Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not loaded: %v, using system environment variables", err)
	}

	cfg := Defaults()
	if err := LoadYAML(os.Getenv("CONFIG_FILE"), &cfg); err != nil {
		return cfg, err
	}
	applyEnv(&cfg)

	return cfg, nil
}

func LoadYAML(path string, cfg *Config) error {
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.ServiceName = EnvDefault("SERVICE_NAME", cfg.ServiceName)
	cfg.ServerPort = EnvIntDefault("SERVER_PORT", cfg.ServerPort)
	cfg.LogLevel = EnvDefault("LOG_LEVEL", cfg.LogLevel)

	cfg.DatabaseURL = EnvDefault("DATABASE_URL", cfg.DatabaseURL)
	cfg.DBMigrate = EnvBoolDefault("DB_MIGRATE", cfg.DBMigrate)

	cfg.TokenSecret = EnvDefault("TOKEN_SECRET", cfg.TokenSecret)
	cfg.TokenTTL = EnvDurationDefault("TOKEN_TTL", cfg.TokenTTL)

	if brokers := CSV(os.Getenv("KAFKA_BROKERS")); brokers != nil {
		cfg.KafkaBrokers = brokers
	}

	cfg.ESURL = EnvDefault("ES_URL", cfg.ESURL)
	cfg.ESUser = EnvDefault("ES_USER", cfg.ESUser)
	cfg.ESPassword = EnvDefault("ES_PASSWORD", cfg.ESPassword)
	cfg.ESIndex = EnvDefault("ES_INDEX", cfg.ESIndex)
}

func (c Config) Validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.TokenSecret == "" {
		missing = append(missing, "TOKEN_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	if c.TokenTTL < 0 {
		return fmt.Errorf("TOKEN_TTL must not be negative, got %s", c.TokenTTL)
	}
	return nil
}

func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.ServerPort)
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
