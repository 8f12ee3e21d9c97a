package config

import (
	"log"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	BotToken string `env:"BOT_TOKEN" env-required:"true"`
	Debug    bool   `env:"BOT_DEBUG" env-default:"false"`

	// DBDriver selects the storage engine: a local sqlite file under
	// DataDir (the default) or an external postgres instance.
	DBDriver string `env:"DB_DRIVER" env-default:"sqlite"`
	DataDir  string `env:"DATA_DIR" env-default:"data"`
	DBName   string `env:"DB_NAME" env-default:"todos.db"`

	DBHost     string `env:"DB_HOST" env-default:"localhost"`
	DBPort     string `env:"DB_PORT" env-default:"5432"`
	DBUser     string `env:"DB_USER" env-default:"todo_user"`
	DBPassword string `env:"DB_PASSWORD" env-default:""`

	// When WebhookURL is set the bot serves Telegram webhook callbacks on
	// ServerPort instead of long polling.
	WebhookURL string `env:"WEBHOOK_URL" env-default:""`
	ServerPort string `env:"SERVER_PORT" env-default:"8080"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	cfg := new(Config)
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
