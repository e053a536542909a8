package config

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	defaultRunAddress = ":8080"
	defaultMigrations = "migrations"
)

type Config struct {
	Env    string
	DB     db
	Server server
	Redis  redis
	Logger logger
}

type db struct {
	DatabaseURI string
	Migrations  string
}

type server struct {
	RunAddress string
}

type redis struct {
	URI string
}

type logger struct {
	LogLevel string
}

// MustLoad reads configuration from the environment, optionally seeded from
// a .env file. Missing .env is fine; the environment alone is enough.
func MustLoad() *Config {
	_ = godotenv.Load()

	viper.AutomaticEnv()

	cfg := Config{
		Env: viper.GetString("app_env"),
		DB: db{
			DatabaseURI: viper.GetString("database_uri"),
			Migrations:  viper.GetString("migrations_path"),
		},
		Server: server{RunAddress: viper.GetString("run_address")},
		Redis:  redis{URI: viper.GetString("redis_uri")},
		Logger: logger{LogLevel: viper.GetString("log_level")},
	}

	if cfg.Env == "" {
		cfg.Env = EnvLocal
	}
	if cfg.Server.RunAddress == "" {
		cfg.Server.RunAddress = defaultRunAddress
	}
	if cfg.DB.Migrations == "" {
		cfg.DB.Migrations = defaultMigrations
	}

	return &cfg
}
