package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Cache backends
const (
	CacheMemory   = "memory"
	CachePostgres = "postgres"
	CacheMongo    = "mongo"
)

// Extraction backends
const (
	ExtractHyperbrowser = "hyperbrowser"
	ExtractGemini       = "gemini"
)

// Fetch modes for the gemini backend
const (
	FetchHTTP = "http"
	FetchRod  = "rod"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string

	// Logging
	LogLevel  string
	LogFormat string // json or console

	// Result cache
	CacheBackend    string // postgres, mongo or memory
	DatabaseURL     string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	// Redis backs the rate limiter and the negative cache when set.
	RedisURL string

	// Extraction
	ExtractBackend       string // hyperbrowser or gemini
	HyperbrowserAPIKey   string
	HyperbrowserBaseURL  string
	ExtractPollInterval  time.Duration
	ExtractTimeout       time.Duration
	ExtractMaxRetries    int
	ExtractRatePerMinute int // 0 disables the outbound limit

	// Local extraction
	GeminiAPIKey  string
	GeminiModel   string
	FetchMode     string // http or rod
	FetchTimeout  time.Duration
	UserAgent     string
	RespectRobots bool
	PageMaxRunes  int // markdown budget per page, 0 uses the default

	// FetchAllowedAddrs are ip:port pairs the fetcher may reach even
	// though they are private, comma separated.
	FetchAllowedAddrs []string

	// Pipeline behaviour
	DedupeInflight   bool
	NegativeCacheTTL time.Duration // 0 disables the negative cache

	// Inbound rate limit, requests per minute per IP on generate routes
	RateLimitMax int

	// CORS
	CORSOrigins string // Comma-separated allowed origins, e.g. "https://example.com,https://app.example.com"

	// TLS
	TLSEnabled  bool
	TLSCertFile string
	TLSKeyFile  string

	// Site Branding
	SiteTitle   string // env: SITE_TITLE, default: "SEO Keywords"
	SiteTagline string // env: SITE_TAGLINE

	// Optional YAML file overriding the extraction prompt and model
	PromptFile string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first if present; real
// environment variables take precedence over it.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:        getEnv("ENV", "development"),
		ServerAddr: getEnv("SERVER_ADDR", ":3000"),
		BaseURL:    getEnv("BASE_URL", "http://localhost:3000"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		CacheBackend:    strings.ToLower(getEnv("CACHE_BACKEND", CachePostgres)),
		DatabaseURL:     getEnv("DATABASE_URL", "postgres://localhost:5432/seokeys?sslmode=disable"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGO_DATABASE", "seokeys"),
		MongoCollection: getEnv("MONGO_COLLECTION", "keyword_generations"),

		RedisURL: getEnv("REDIS_URL", ""),

		ExtractBackend:       strings.ToLower(getEnv("EXTRACT_BACKEND", ExtractHyperbrowser)),
		HyperbrowserAPIKey:   getEnv("HYPERBROWSER_API_KEY", ""),
		HyperbrowserBaseURL:  getEnv("HYPERBROWSER_BASE_URL", "https://app.hyperbrowser.ai"),
		ExtractPollInterval:  getEnvDuration("EXTRACT_POLL_INTERVAL", 2*time.Second),
		ExtractTimeout:       getEnvDuration("EXTRACT_TIMEOUT", 3*time.Minute),
		ExtractMaxRetries:    getEnvInt("EXTRACT_MAX_RETRIES", 3),
		ExtractRatePerMinute: getEnvInt("EXTRACT_RATE_PER_MINUTE", 0),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		FetchMode:     strings.ToLower(getEnv("FETCH_MODE", FetchHTTP)),
		FetchTimeout:  getEnvDuration("FETCH_TIMEOUT", 15*time.Second),
		UserAgent:     getEnv("USER_AGENT", ""),
		RespectRobots: getEnvBool("RESPECT_ROBOTS", true),
		PageMaxRunes:  getEnvInt("PAGE_MAX_RUNES", 0),

		FetchAllowedAddrs: splitList(getEnv("FETCH_ALLOWED_ADDRS", "")),

		DedupeInflight:   getEnvBool("DEDUPE_INFLIGHT", false),
		NegativeCacheTTL: getEnvDuration("NEGATIVE_CACHE_TTL", 0),

		RateLimitMax: getEnvInt("RATE_LIMIT_MAX", 10),

		CORSOrigins: getEnv("CORS_ORIGINS", ""),

		TLSEnabled:  getEnv("TLS_ENABLED", "") != "",
		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),

		SiteTitle:   getEnv("SITE_TITLE", "SEO Keywords"),
		SiteTagline: getEnv("SITE_TAGLINE", "Six blog topics for any website, in seconds"),

		PromptFile: getEnv("PROMPT_FILE", "prompt.yaml"),
	}
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	var errs []error

	switch c.CacheBackend {
	case CacheMemory:
	case CachePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres cache"))
		}
	case CacheMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGO_URI is required for the mongo cache"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown CACHE_BACKEND %q", c.CacheBackend))
	}

	switch c.ExtractBackend {
	case ExtractHyperbrowser:
		if c.HyperbrowserAPIKey == "" {
			errs = append(errs, errors.New("HYPERBROWSER_API_KEY is required for the hyperbrowser backend"))
		}
	case ExtractGemini:
		if c.GeminiAPIKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY is required for the gemini backend"))
		}
		if c.FetchMode != FetchHTTP && c.FetchMode != FetchRod {
			errs = append(errs, fmt.Errorf("unknown FETCH_MODE %q", c.FetchMode))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown EXTRACT_BACKEND %q", c.ExtractBackend))
	}

	if c.TLSEnabled && (c.TLSCertFile == "" || c.TLSKeyFile == "") {
		errs = append(errs, errors.New("TLS_CERT_FILE and TLS_KEY_FILE are required when TLS is enabled"))
	}

	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if n, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return n
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return b
	}
	return fallback
}

// getEnvDuration accepts Go durations ("90s") or plain seconds ("90").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// splitList splits a comma separated value, dropping empty items.
func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
