package config

import (
	"log"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/poggig1971/telpress-rassegna-bot/internal/logger"
)

func InitConfig() (*Config, error) {
	config := &Config{
		App:     &AppConfig{},
		Mailbox: &MailboxConfig{},
		Store:   &StoreConfig{},
		SMTP:    &SMTPConfig{},
		Notify:  &NotifyConfig{},
		Batch:   &BatchConfig{},
		Retry:   &RetryConfig{},
		Logger:  &logger.Config{},
	}

	err := godotenv.Load()
	if err != nil {
		log.Print("Unable to load .env file")
	}

	err = env.Parse(config)
	if err != nil {
		return nil, err
	}

	if _, err := config.App.Location(); err != nil {
		return nil, err
	}

	return config, nil
}
