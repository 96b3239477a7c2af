package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Identity IdentityConfig
	Ai       AIConfig
}

type AppConfig struct {
	Port                    string
	Environment             string
	LogFilePath             string
	CorsAllowedOrigins      []string
	CorsTrustedOriginSuffix string
	SessionSecret           string
	RedisURL                string
}

type DatabaseConfig struct {
	Connection string
}

type IdentityConfig struct {
	BaseURL    string
	ServiceKey string
	AnonKey    string
}

type AIConfig struct {
	GeminiAPIKey string
	GeminiModel  string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:                    getEnv("APP_PORT", "3000"),
			Environment:             getEnv("GO_ENV", "development"),
			LogFilePath:             getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins:      splitOrigins(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
			CorsTrustedOriginSuffix: getEnv("CORS_TRUSTED_ORIGIN_SUFFIX", ".vercel.app"),
			SessionSecret:           getEnv("SESSION_SECRET", "dev_session_secret"),
			RedisURL:                getEnv("REDIS_URL", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Identity: IdentityConfig{
			BaseURL:    getEnv("IDENTITY_PROVIDER_URL", ""),
			ServiceKey: getEnv("IDENTITY_SERVICE_KEY", ""),
			AnonKey:    getEnv("IDENTITY_ANON_KEY", ""),
		},
		Ai: AIConfig{
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
