package main

import (
	"os"

	"publisher-backoffice/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// ========================================
	// LOAD ENVIRONMENT VARIABLES
	// ========================================
	// .env is optional; production reads the process environment.
	envFileErr := godotenv.Load()

	env := getEnv("APP_ENV", "development")
	logger.Init(env, getEnv("LOG_LEVEL", "info"))

	if envFileErr != nil {
		logger.Warn("no .env file found, using system environment variables", nil)
	}

	// ========================================
	// SET GIN MODE
	// ========================================
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("starting publisher back-office", map[string]interface{}{"environment": env})

	Serve()
}

// getEnv returns the environment variable or defaultValue when unset.
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
