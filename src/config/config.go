package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrInvalidConfig marks configuration that cannot reach the directory.
var ErrInvalidConfig = errors.New("invalid configuration")

// Directory authentication modes.
const (
	AuthModeBearer = "bearer"
	AuthModeHeader = "header"
	AuthModeQuery  = "query"
	AuthModeOAuth2 = "oauth2"
	AuthModeJWT    = "jwt"
)

type AppConfig struct {
	Port               string
	LogLevel           string
	PolicyWindowDays   int
	MaxUploadSizeBytes int64
	AllowedOrigins     []string

	DirectoryBaseURL  string
	DirectoryAuthMode string
	DirectoryToken    string
	DirectoryKeyName  string
	DirectoryAPIKey   string

	OAuthTokenURL     string
	OAuthClientID     string
	OAuthClientSecret string
	OAuthScopes       []string

	JWTSecret  string
	JWTSubject string
	JWTTTL     time.Duration

	DirectoryTimeout time.Duration
	DirectoryRate    float64
	DirectoryBurst   int

	LookupCacheTTL time.Duration
	LookupWorkers  int
}

var Cfg *AppConfig

func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")
	Cfg = FromEnv()

	if err := Cfg.DirectoryConfigError(); err != nil {
		log.Printf("WARNING: %v. Reconciliation requests will be refused until this is fixed.", err)
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, PolicyWindowDays=%d, DirectoryBaseURL=%s, AuthMode=%s, Workers=%d",
		Cfg.Port, Cfg.LogLevel, Cfg.PolicyWindowDays, Cfg.DirectoryBaseURL, Cfg.EffectiveAuthMode(), Cfg.LookupWorkers)
}

// FromEnv reads the process environment without touching .env files.
func FromEnv() *AppConfig {
	window := getEnvAsInt("POLICY_WINDOW_DAYS", 5)
	if window < 0 {
		log.Printf("WARNING: POLICY_WINDOW_DAYS must not be negative (%d), using default: 5", window)
		window = 5
	}

	maxUploadSizeBytesStr := getEnv("MAX_UPLOAD_SIZE_BYTES", "10485760")
	maxUploadSizeBytes, err := strconv.ParseInt(maxUploadSizeBytesStr, 10, 64)
	if err != nil || maxUploadSizeBytes <= 0 {
		log.Printf("WARNING: Invalid MAX_UPLOAD_SIZE_BYTES format '%s'. Using default 10MB. Error: %v", maxUploadSizeBytesStr, err)
		maxUploadSizeBytes = 10 * 1024 * 1024
	}

	workers := getEnvAsInt("LOOKUP_WORKERS", 4)
	if workers < 1 {
		workers = 1
	}

	rate, err := strconv.ParseFloat(getEnv("DIRECTORY_RATE_PER_SECOND", "10"), 64)
	if err != nil || rate <= 0 {
		log.Printf("WARNING: Invalid DIRECTORY_RATE_PER_SECOND, using default: 10")
		rate = 10
	}

	return &AppConfig{
		Port:               getEnv("PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		PolicyWindowDays:   window,
		MaxUploadSizeBytes: maxUploadSizeBytes,
		AllowedOrigins:     splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),

		DirectoryBaseURL:  strings.TrimRight(getEnvAlias("DIRECTORY_BASE_URL", "OT_BASE", ""), "/"),
		DirectoryAuthMode: strings.ToLower(getEnvAlias("DIRECTORY_AUTH_MODE", "OT_AUTH_MODE", AuthModeBearer)),
		DirectoryToken:    getEnvAlias("DIRECTORY_TOKEN", "OT_TOKEN", ""),
		DirectoryKeyName:  getEnvAlias("DIRECTORY_API_KEY_NAME", "OT_API_KEY_NAME", "X-API-Key"),
		DirectoryAPIKey:   getEnvAlias("DIRECTORY_API_KEY", "OT_API_KEY", ""),

		OAuthTokenURL:     getEnv("DIRECTORY_OAUTH_TOKEN_URL", ""),
		OAuthClientID:     getEnv("DIRECTORY_OAUTH_CLIENT_ID", ""),
		OAuthClientSecret: getEnv("DIRECTORY_OAUTH_CLIENT_SECRET", ""),
		OAuthScopes:       splitList(getEnv("DIRECTORY_OAUTH_SCOPES", "")),

		JWTSecret:  getEnv("DIRECTORY_JWT_SECRET", ""),
		JWTSubject: getEnv("DIRECTORY_JWT_SUBJECT", "shiprecon"),
		JWTTTL:     getEnvAsDuration("DIRECTORY_JWT_TTL", 5*time.Minute),

		DirectoryTimeout: getEnvAsDuration("DIRECTORY_TIMEOUT", 20*time.Second),
		DirectoryRate:    rate,
		DirectoryBurst:   getEnvAsInt("DIRECTORY_RATE_BURST", 10),

		LookupCacheTTL: getEnvAsDuration("LOOKUP_CACHE_TTL", 5*time.Minute),
		LookupWorkers:  workers,
	}
}

// EffectiveAuthMode is the mode actually used: a bearer token wins over
// whatever mode is configured.
func (c *AppConfig) EffectiveAuthMode() string {
	if c.DirectoryToken != "" {
		return AuthModeBearer
	}
	return c.DirectoryAuthMode
}

// DirectoryConfigError reports why the directory cannot be reached with the
// current settings, or nil.
func (c *AppConfig) DirectoryConfigError() error {
	if c == nil {
		return fmt.Errorf("%w: configuration not loaded", ErrInvalidConfig)
	}
	if c.DirectoryBaseURL == "" {
		return fmt.Errorf("%w: DIRECTORY_BASE_URL is not set", ErrInvalidConfig)
	}

	switch c.EffectiveAuthMode() {
	case AuthModeBearer:
		if c.DirectoryToken == "" {
			return fmt.Errorf("%w: DIRECTORY_TOKEN is required for bearer auth", ErrInvalidConfig)
		}
	case AuthModeHeader, AuthModeQuery:
		if c.DirectoryAPIKey == "" {
			return fmt.Errorf("%w: DIRECTORY_API_KEY is required for %s auth", ErrInvalidConfig, c.DirectoryAuthMode)
		}
		if c.DirectoryKeyName == "" {
			return fmt.Errorf("%w: DIRECTORY_API_KEY_NAME must not be empty", ErrInvalidConfig)
		}
	case AuthModeOAuth2:
		if c.OAuthTokenURL == "" || c.OAuthClientID == "" || c.OAuthClientSecret == "" {
			return fmt.Errorf("%w: oauth2 auth needs DIRECTORY_OAUTH_TOKEN_URL, _CLIENT_ID and _CLIENT_SECRET", ErrInvalidConfig)
		}
	case AuthModeJWT:
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("%w: DIRECTORY_JWT_SECRET must be at least 32 bytes", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown DIRECTORY_AUTH_MODE %q", ErrInvalidConfig, c.DirectoryAuthMode)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

// getEnvAlias prefers key and falls back to the legacy alias.
func getEnvAlias(key, alias, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return getEnv(alias, fallback)
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Integer value for %s not set or empty, using default: %d", key, fallback)
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Duration value for %s not set or empty, using default: %s", key, fallback.String())
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
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
