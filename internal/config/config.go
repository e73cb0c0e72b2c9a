package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
// The mail sender address lives here and is injected into the mailer, never
// read as process-wide state.
type Config struct {
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`
	// BaseURL is used to build absolute links in outgoing mail.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	MySQLDSN string `env:"MYSQL_DSN" envDefault:"user:password@tcp(localhost:3306)/diarium?charset=utf8mb4&parseTime=True&loc=Local"`

	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`
	RedisPass string `env:"REDIS_PASSWORD"`

	JWTSecret string `env:"JWT_SECRET" envDefault:"change-me"`

	// MailDriver selects the outgoing mail transport: "smtp" or "log".
	MailDriver   string `env:"MAIL_DRIVER" envDefault:"log"`
	MailFrom     string `env:"MAIL_FROM" envDefault:"diarium@localhost"`
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load builds Config from the environment. A .env file in the working
// directory is loaded first when present, which keeps local development
// out of the shell profile.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
