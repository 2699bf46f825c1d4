package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Keys     APIKeys
	Ai       AIConfig
	Payment  PaymentConfig
	Usage    UsageConfig
}

type AppConfig struct {
	Port               string
	ClientURL          string
	Environment        string
	LogFilePath        string
	AuditLogFilePath   string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	OtelEnabled        bool
	OtelEndpoint       string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type APIKeys struct {
	JWTSecret  string
	AdminToken string
}

type AIConfig struct {
	LLMProvider   string // "gateway", "openai" or "ollama"
	LLMModel      string
	GatewayURL    string
	GatewayAPIKey string
	OllamaBaseURL string
	Timeout       time.Duration
}

type PaymentConfig struct {
	KeyId         string
	KeySecret     string
	BaseURL       string
	Timeout       time.Duration
	RetryTopic    string
	RetryAttempts int
	RetryBackoff  time.Duration
	SweepInterval time.Duration
}

type UsageConfig struct {
	CacheTTL time.Duration
	Strict   bool // reserve words before doing the work
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			AuditLogFilePath:   getEnv("AUDIT_LOG_FILE_PATH", "logs/entitlements.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
			OtelEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", "file:rawai.db"),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "RAW.AI"),
		},
		Keys: APIKeys{
			JWTSecret:  getEnv("JWT_SECRET", ""),
			AdminToken: getEnv("ADMIN_API_TOKEN", ""),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "gateway"),
			LLMModel:      getEnv("LLM_MODEL", "google/gemini-2.5-flash"),
			GatewayURL:    getEnv("AI_GATEWAY_URL", "https://ai.gateway.lovable.dev/v1"),
			GatewayAPIKey: getEnv("AI_GATEWAY_API_KEY", ""),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			Timeout:       getEnvAsSeconds("LLM_TIMEOUT_SECONDS", 60),
		},
		Payment: PaymentConfig{
			KeyId:         getEnv("RAZORPAY_KEY_ID", ""),
			KeySecret:     getEnv("RAZORPAY_KEY_SECRET", ""),
			BaseURL:       getEnv("RAZORPAY_BASE_URL", "https://api.razorpay.com"),
			Timeout:       getEnvAsSeconds("GATEWAY_TIMEOUT_SECONDS", 15),
			RetryTopic:    getEnv("PROMOTION_RETRY_TOPIC", "plan.promotion.retry"),
			RetryAttempts: getEnvAsInt("PROMOTION_RETRY_ATTEMPTS", 5),
			RetryBackoff:  getEnvAsSeconds("PROMOTION_RETRY_BACKOFF_SECONDS", 2),
			SweepInterval: getEnvAsSeconds("PROMOTION_SWEEP_INTERVAL_SECONDS", 300),
		},
		Usage: UsageConfig{
			CacheTTL: getEnvAsSeconds("USAGE_CACHE_TTL_SECONDS", 30),
			Strict:   getEnvAsBool("QUOTA_STRICT", false),
		},
	}
}

// IsProduction switches the logger to JSON console output.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(getEnv(key, ""))) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return fallback
	}
}

func getEnvAsSeconds(key string, fallback int) time.Duration {
	return time.Duration(getEnvAsInt(key, fallback)) * time.Second
}
