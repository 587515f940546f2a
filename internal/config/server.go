package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	PostgresDSN string `env:"POSTGRES_DSN,required,notEmpty"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`

	AdminAPIKey string `env:"ADMIN_API_KEY"`

	StartingBalance int64 `env:"STARTING_BALANCE" envDefault:"1000"`

	PlatformMirrorEnabled bool   `env:"PLATFORM_MIRROR_ENABLED" envDefault:"false"`
	PlatformBaseURL       string `env:"PLATFORM_BASE_URL"`
	PlatformAPIKey        string `env:"PLATFORM_API_KEY"`

	SeedUserName string `env:"SEED_USER_NAME"`
	SeedUserKey  string `env:"SEED_USER_KEY"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
