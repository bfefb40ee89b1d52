package main

import (
	"context"
	"os"
	"time"

	"publisher-backoffice/internal/config"
	"publisher-backoffice/internal/infrastructure/database"
	"publisher-backoffice/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("no .env file found, using environment")
	}

	logger.Init(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadDatabaseConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid database config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := database.Migrate(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	log.Info().Str("database", cfg.DBName).Msg("database is up to date")
}
