package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	CORSOrigins []string
	LogLevel    string
	LogFormat   string

	// persistence for message logs: memory, sqlite, mysql or redis
	LogStore       string
	DBDSN          string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisKeyPrefix string

	// AI provider
	AIProvider        string
	SendTimeout       time.Duration
	OllamaBaseURL     string
	OllamaModel       string
	OpenRouterBaseURL string
	OpenRouterAPIKey  string
	OpenRouterModel   string
	OpenRouterSiteURL string
	OpenRouterAppName string
	WebhookURL        string
	FastAPIURL        string
	FastAPIPlatforms  []string

	// rabbitMQ; an empty URL disables event publishing
	RabbitURL         string
	RabbitQueue       string
	WorkerConcurrency int
}

var (
	logStores   = []string{"memory", "sqlite", "mysql", "redis"}
	aiProviders = []string{"ollama", "openrouter", "webhook", "fastapi"}
)

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func Load() (Config, error) {
	logStore := strings.ToLower(getEnv("LOG_STORE", "memory"))

	// DSN demo：
	// app:apppass@tcp(127.0.0.1:3306)/chat_studio?charset=utf8mb4&parseTime=true&loc=Local
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "file:chat.db?_pragma=busy_timeout(5000)"
		if logStore == "mysql" {
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
				"app", "apppass", "127.0.0.1", "3306", "chat_studio",
			)
		}
	}

	concurrency := getEnvInt("WORKER_CONCURRENCY", 2)
	if concurrency <= 0 {
		concurrency = 2
	}
	if concurrency > 50 {
		concurrency = 50
	}

	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),

		LogStore:       logStore,
		DBDSN:          dsn,
		RedisAddr:      getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		RedisKeyPrefix: getEnv("REDIS_KEY_PREFIX", "studio:"),

		AIProvider:        strings.ToLower(getEnv("AI_PROVIDER", "ollama")),
		SendTimeout:       getEnvDuration("SEND_TIMEOUT", 90*time.Second),
		OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:       getEnv("OLLAMA_MODEL", "llama3:latest"),
		OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		OpenRouterAPIKey:  os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterModel:   getEnv("OPENROUTER_MODEL", "openrouter/auto"),
		OpenRouterSiteURL: os.Getenv("OPENROUTER_SITE_URL"),
		OpenRouterAppName: os.Getenv("OPENROUTER_APP_NAME"),
		WebhookURL:        getEnv("WEBHOOK_URL", "http://localhost:5005/webhooks/rest/webhook"),
		FastAPIURL:        getEnv("FASTAPI_URL", "http://localhost:8000/api/v1/campaigns/chat"),
		FastAPIPlatforms:  getEnvList("FASTAPI_PLATFORMS", []string{"facebook"}),

		RabbitURL:         os.Getenv("RABBIT_URL"),
		RabbitQueue:       getEnv("RABBIT_QUEUE", "chat_events"),
		WorkerConcurrency: concurrency,
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if !contains(logStores, c.LogStore) {
		return fmt.Errorf("LOG_STORE must be one of %s, got %q", strings.Join(logStores, "|"), c.LogStore)
	}
	if !contains(aiProviders, c.AIProvider) {
		return fmt.Errorf("AI_PROVIDER must be one of %s, got %q", strings.Join(aiProviders, "|"), c.AIProvider)
	}
	if c.SendTimeout <= 0 {
		return fmt.Errorf("SEND_TIMEOUT must be > 0")
	}
	if c.AIProvider == "openrouter" && c.OpenRouterAPIKey == "" {
		return fmt.Errorf("OPENROUTER_API_KEY must be set when AI_PROVIDER=openrouter")
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
