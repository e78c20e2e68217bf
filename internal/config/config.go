package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	OAuth     OAuthConfig
	SMTP      SMTPConfig
	Ai        AIConfig
	Image     ImageConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
	Tracing   TracingConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

func (a AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

type DatabaseConfig struct {
	Driver      string // "postgres" or "memory"
	Connection  string
	AutoMigrate bool
}

type AuthConfig struct {
	AccessSecret      string
	RefreshSecret     string
	AccessExpiry      time.Duration
	RefreshExpiry     time.Duration
	BcryptCost        int
	MaxLoginAttempts  int
	LockTime          time.Duration
	ResetTokenExpiry  time.Duration
	MaxRefreshTokens  int
	RefreshCookieName string
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

// From formats the sender header, falling back to the bare address.
func (s SMTPConfig) From() string {
	if s.SenderName == "" {
		return s.Email
	}
	return fmt.Sprintf("%s <%s>", s.SenderName, s.Email)
}

type AIConfig struct {
	LLMProvider   string // "gemini", "ollama" or "mock"
	LLMModel      string
	GeminiAPIKey  string
	OllamaBaseURL string
	Timeout       time.Duration
	HistoryWindow int
	ReplyEnabled  bool
}

type ImageConfig struct {
	ReplicateToken string
	ReplicateModel string
	PollInterval   time.Duration
	PollAttempts   int
}

type StorageConfig struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

func (s StorageConfig) Enabled() bool {
	return s.Bucket != "" && s.AccessKey != "" && s.SecretKey != ""
}

type RateLimitConfig struct {
	AuthMax       int
	AuthWindow    time.Duration
	GeneralMax    int
	GeneralWindow time.Duration
	ChatMax       int
	ChatWindow    time.Duration
}

type TracingConfig struct {
	Enabled      bool
	OTLPEndpoint string
	ServiceName  string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
		},
		Database: DatabaseConfig{
			Driver:      getEnv("DB_DRIVER", "postgres"),
			Connection:  getEnv("DB_CONNECTION_STRING", ""),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Auth: AuthConfig{
			AccessSecret:      getEnv("JWT_SECRET", "change-me-access"),
			RefreshSecret:     getEnv("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:      getEnvAsDuration("JWT_EXPIRE", 15*time.Minute),
			RefreshExpiry:     getEnvAsDuration("JWT_REFRESH_EXPIRE", 7*24*time.Hour),
			BcryptCost:        getEnvAsInt("BCRYPT_ROUNDS", 12),
			MaxLoginAttempts:  getEnvAsInt("MAX_LOGIN_ATTEMPTS", 5),
			LockTime:          getEnvAsDuration("LOCK_TIME", 2*time.Hour),
			ResetTokenExpiry:  getEnvAsDuration("RESET_TOKEN_EXPIRE", 10*time.Minute),
			MaxRefreshTokens:  getEnvAsInt("MAX_REFRESH_TOKENS", 5),
			RefreshCookieName: "refreshToken",
		},
		OAuth: OAuthConfig{
			GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:3000/api/auth/google/callback"),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Mock Interview"),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:      getEnv("LLM_MODEL", "gemini-2.5-flash"),
			GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			Timeout:       getEnvAsDuration("LLM_TIMEOUT", 30*time.Second),
			HistoryWindow: getEnvAsInt("LLM_HISTORY_WINDOW", 10),
			ReplyEnabled:  getEnvAsBool("AI_REPLY_ENABLED", true),
		},
		Image: ImageConfig{
			ReplicateToken: getEnv("REPLICATE_API_TOKEN", ""),
			ReplicateModel: getEnv("REPLICATE_MODEL", "black-forest-labs/flux-schnell"),
			PollInterval:   getEnvAsDuration("REPLICATE_POLL_INTERVAL", 2*time.Second),
			PollAttempts:   getEnvAsInt("REPLICATE_POLL_ATTEMPTS", 30),
		},
		Storage: StorageConfig{
			Bucket:        getEnv("AWS_S3_BUCKET", ""),
			Region:        getEnv("AWS_REGION", "us-east-1"),
			Endpoint:      getEnv("AWS_S3_ENDPOINT", ""),
			AccessKey:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretKey:     getEnv("AWS_SECRET_ACCESS_KEY", ""),
			PublicBaseURL: getEnv("AWS_S3_PUBLIC_URL", ""),
		},
		RateLimit: RateLimitConfig{
			AuthMax:       getEnvAsInt("RATE_LIMIT_AUTH_MAX", 5),
			AuthWindow:    getEnvAsDuration("RATE_LIMIT_AUTH_WINDOW", 15*time.Minute),
			GeneralMax:    getEnvAsInt("RATE_LIMIT_MAX", 100),
			GeneralWindow: getEnvAsDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
			ChatMax:       getEnvAsInt("RATE_LIMIT_CHAT_MAX", 10),
			ChatWindow:    getEnvAsDuration("RATE_LIMIT_CHAT_WINDOW", time.Minute),
		},
		Tracing: TracingConfig{
			Enabled:      getEnvAsBool("OTEL_ENABLED", false),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "ai-interview-backend"),
		},
	}
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
	strValue := strings.TrimSpace(getEnv(key, ""))
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("15m") and bare seconds ("900").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := strings.TrimSpace(getEnv(key, ""))
	if strValue == "" {
		return fallback
	}
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	if seconds, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}
