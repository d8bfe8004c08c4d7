package config

import "log"

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required config %s", envName)
	}
}

// MustValid stops the process when the loaded configuration is unusable.
func MustValid(cfg Config) {
	MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	MustNonEmpty(cfg.TokenSecret, "TOKEN_SECRET")
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
}
