package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"publisher-backoffice/internal/infrastructure/database"

	"golang.org/x/crypto/bcrypt"
)

const defaultJWTSecret = "change-me-in-production"

// Config holds the whole application configuration, populated from
// environment variables.
type Config struct {
	App       AppConfig
	Database  *database.DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	LogLevel    string
	CORSOrigins []string

	// TrustedProxies lists the proxy IPs/CIDRs whose X-Forwarded-For is
	// honoured. Empty means the peer address is the client IP.
	TrustedProxies []string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type JWTConfig struct {
	Secret         string
	AccessExpiry   time.Duration
	RememberExpiry time.Duration
}

// SeedUser is an account created when the users table is empty.
type SeedUser struct {
	Username string
	Email    string
	Password string
	IsAdmin  bool
}

type AuthConfig struct {
	BcryptCost   int
	CookieName   string
	SeedEnabled  bool
	SeedUsers    []SeedUser
	SecureCookie bool
}

type RateLimitConfig struct {
	LoginPerMinute    int
	RegisterPerMinute int
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	dbCfg, err := LoadDatabaseConfig()
	if err != nil {
		return nil, err
	}

	accessExpiry, err := getEnvDuration("JWT_ACCESS_EXPIRY", 12*time.Hour)
	if err != nil {
		return nil, err
	}
	rememberExpiry, err := getEnvDuration("JWT_REMEMBER_EXPIRY", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}

	env := getEnv("APP_ENV", "development")

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Publisher Back-office API"),
			Environment: env,
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),

			TrustedProxies: splitList(getEnv("TRUSTED_PROXIES", "")),
		},
		Database: dbCfg,
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Prefix:   getEnv("REDIS_PREFIX", "backoffice"),
		},
		JWT: JWTConfig{
			Secret:         getEnv("JWT_SECRET", defaultJWTSecret),
			AccessExpiry:   accessExpiry,
			RememberExpiry: rememberExpiry,
		},
		Auth: AuthConfig{
			BcryptCost:   getEnvInt("BCRYPT_COST", bcrypt.DefaultCost),
			CookieName:   getEnv("SESSION_COOKIE_NAME", "session"),
			SeedEnabled:  getEnvBool("SEED_USERS", true),
			SecureCookie: env == "production",
			SeedUsers: []SeedUser{
				{
					Username: getEnv("SEED_ADMIN_USERNAME", "admin"),
					Email:    getEnv("SEED_ADMIN_EMAIL", "admin@editora.com"),
					Password: getEnv("SEED_ADMIN_PASSWORD", "admin123"),
					IsAdmin:  true,
				},
				{
					Username: getEnv("SEED_USER_USERNAME", "usuario"),
					Email:    getEnv("SEED_USER_EMAIL", "usuario@editora.com"),
					Password: getEnv("SEED_USER_PASSWORD", "senha123"),
				},
			},
		},
		RateLimit: RateLimitConfig{
			LoginPerMinute:    getEnvInt("RATE_LIMIT_LOGIN_PER_MINUTE", 5),
			RegisterPerMinute: getEnvInt("RATE_LIMIT_REGISTER_PER_MINUTE", 3),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate rejects settings that are unsafe or unusable.
func (c *Config) Validate() error {
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.RateLimit.LoginPerMinute < 1 || c.RateLimit.RegisterPerMinute < 1 {
		return fmt.Errorf("rate limits must be positive")
	}
	if c.JWT.AccessExpiry <= 0 || c.JWT.RememberExpiry <= 0 {
		return fmt.Errorf("JWT expiries must be positive")
	}

	if c.App.Environment == "production" {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.Auth.SeedEnabled {
			for _, u := range c.Auth.SeedUsers {
				if u.Password == "admin123" || u.Password == "senha123" {
					return fmt.Errorf("seed password for %q must be changed in production", u.Username)
				}
			}
		}
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
