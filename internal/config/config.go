package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Auth modes
const (
	AuthModeNone    = "none"    // No auth (self-hosted, local dev)
	AuthModeGateway = "gateway" // Trust X-User-* headers from an upstream gateway
	AuthModeJWT     = "jwt"     // Verify HS256 tokens signed with JWT_SECRET
)

// Config holds the application configuration
type Config struct {
	// Environment
	Environment string
	Port        string

	// LLM API Keys
	OpenAIAPIKey string // OpenAI API key for GPT / gpt-image models
	GeminiAPIKey string // Google Gemini API key

	// Models
	TextModel  string
	ImageModel string

	// Image fan-out. Concurrency 1 keeps the strictly sequential order.
	ImageConcurrency  int
	ImageRateInterval time.Duration
	// Per backend call timeout; 0 leaves it to the request context
	BackendTimeout time.Duration

	// Storage. Empty DatabaseURL selects the in-memory store.
	DatabaseURL     string
	GalleryCacheTTL time.Duration

	// Moderation dictionary adjustments applied at startup
	ModerationExtraTerms   []string
	ModerationAllowedTerms []string

	// Observability
	SentryDSN         string // Sentry DSN for error tracking
	LangfusePublicKey string // Langfuse public key
	LangfuseSecretKey string // Langfuse secret key
	LangfuseHost      string // Langfuse host URL (cloud or self-hosted)
	LangfuseEnabled   bool   // Feature flag for Langfuse

	// Auth mode: "none", "gateway" or "jwt"
	AuthMode  string
	JWTSecret string
}

func Load() *Config {
	return &Config{
		Environment:            getEnv("ENVIRONMENT", "development"),
		Port:                   getEnv("PORT", "8080"),
		OpenAIAPIKey:           getEnv("OPENAI_API_KEY", ""),
		GeminiAPIKey:           getEnv("GEMINI_API_KEY", ""),
		TextModel:              getEnv("TEXT_MODEL", "gemini-2.5-pro"),
		ImageModel:             getEnv("IMAGE_MODEL", "gemini-2.5-flash-image-preview"),
		ImageConcurrency:       getEnvInt("IMAGE_CONCURRENCY", 1),
		ImageRateInterval:      getEnvDuration("IMAGE_RATE_INTERVAL", 0),
		BackendTimeout:         getEnvDuration("BACKEND_TIMEOUT", 0),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		GalleryCacheTTL:        getEnvDuration("GALLERY_CACHE_TTL", time.Minute),
		ModerationExtraTerms:   getEnvList("MODERATION_EXTRA_TERMS"),
		ModerationAllowedTerms: getEnvList("MODERATION_ALLOWED_TERMS"),
		SentryDSN:              getEnv("SENTRY_DSN", ""),
		LangfusePublicKey:      getEnv("LANGFUSE_PUBLIC_KEY", ""),
		LangfuseSecretKey:      getEnv("LANGFUSE_SECRET_KEY", ""),
		LangfuseHost:           getEnv("LANGFUSE_HOST", "https://cloud.langfuse.com"),
		LangfuseEnabled:        getEnv("LANGFUSE_ENABLED", "false") == "true",
		AuthMode:               getEnv("AUTH_MODE", AuthModeNone), // Default to no auth for self-hosted
		JWTSecret:              getEnv("JWT_SECRET", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		log.Printf("⚠️  Invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		log.Printf("⚠️  Invalid %s=%q, using %v", key, value, defaultValue)
		return defaultValue
	}
	return d
}

// getEnvList splits a comma separated variable, dropping blank entries
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// IsProduction reports whether ENVIRONMENT is "production"
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// UsesDatabase reports whether a Postgres store is configured
func (c *Config) UsesDatabase() bool {
	return c.DatabaseURL != ""
}
