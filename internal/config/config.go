package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	SMTP       SMTPConfig
	Ai         AIConfig
	Fulfill    FulfillConfig
	EditorSync EditorSyncConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	SessionStore       string // "memory" or "redis"
}

type DatabaseConfig struct {
	// Postgres DSN for the fulfillment audit log. Empty disables persistence;
	// the backend runs fully stateless in that case.
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type AIConfig struct {
	LLMProvider   string // currently "ollama"
	OllamaBaseURL string
	OllamaModel   string
}

// FulfillConfig bounds backend-side fulfiller work.
type FulfillConfig struct {
	JobTimeout time.Duration
}

// EditorSyncConfig tunes the client-side trigger/poll state machine.
type EditorSyncConfig struct {
	ChangeThreshold int
	IdleDelay       time.Duration
	PollInterval    time.Duration
	RequestTimeout  time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "parallax.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			SessionStore:       getEnv("SESSION_STORE", "memory"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Parallax"),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "ollama"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:   getEnv("LLM_MODEL", "llama3"),
		},
		Fulfill: FulfillConfig{
			JobTimeout: getEnvAsDuration("FULFILL_JOB_TIMEOUT", 60*time.Second),
		},
		EditorSync: EditorSyncConfig{
			ChangeThreshold: getEnvAsInt("EDITOR_CHANGE_THRESHOLD", 20),
			IdleDelay:       getEnvAsDuration("EDITOR_IDLE_DELAY", 4*time.Second),
			PollInterval:    getEnvAsDuration("EDITOR_POLL_INTERVAL", 3*time.Second),
			RequestTimeout:  getEnvAsDuration("EDITOR_REQUEST_TIMEOUT", 10*time.Second),
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

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
