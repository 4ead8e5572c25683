package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Remote services
	APIBaseURL  string
	ToxicityURL string
	ChatbotURL  string
	QuoteURL    string
	HTTPTimeout time.Duration

	// Gateway
	Port           string
	AllowedOrigins []string // CORS: origins of the UI shell (webview / dev server)
	Environment    string   // ENV: production, development, etc.

	// Secure storage
	SecureStore     string // "file" or "redis"
	SecureStorePath string
	EncryptionKey   string // base64 32 bytes; takes precedence over StorePassphrase
	StorePassphrase string
	RedisURI        string

	// Emergency behaviour
	EmergencyNumber string
	AlarmDuration   time.Duration
	MaxContacts     int

	// Logging
	LogLevel  string
	LogFormat string
	LogFile   string
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:8081", "http://localhost:19006"}
	}

	return &Config{
		APIBaseURL:      getEnv("API_BASE_URL", "https://saferplaceserver.onrender.com"),
		ToxicityURL:     getEnv("TOXICITY_URL", "https://toxicityrecognition.onrender.com"),
		ChatbotURL:      getEnv("CHATBOT_URL", "https://safeteechatbot.onrender.com"),
		QuoteURL:        getEnv("QUOTE_URL", "https://saferplaceserver.onrender.com"),
		HTTPTimeout:     getDuration("HTTP_TIMEOUT", 30*time.Second),
		Port:            getEnv("PORT", "8765"),
		AllowedOrigins:  allowedOrigins,
		Environment:     env,
		SecureStore:     strings.ToLower(getEnv("SECURE_STORE", "file")),
		SecureStorePath: getEnv("SECURE_STORE_PATH", defaultStorePath()),
		EncryptionKey:   getEnv("ENCRYPTION_KEY", ""),
		StorePassphrase: getEnv("STORE_PASSPHRASE", ""),
		RedisURI:        getEnv("REDIS_URI", ""),
		EmergencyNumber: getEnv("EMERGENCY_NUMBER", "911"),
		AlarmDuration:   getDuration("ALARM_DURATION", 10*time.Second),
		MaxContacts:     getInt("MAX_CONTACTS", 5),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
		LogFile:         getEnv("LOG_FILE", ""),
	}
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

// UsesRedis reports whether any component needs a Redis connection.
func (c *Config) UsesRedis() bool {
	return c.SecureStore == "redis" || c.RedisURI != ""
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "saferplace", "secure.json")
	}
	return filepath.Join(dir, "saferplace", "secure.json")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultValue
}
