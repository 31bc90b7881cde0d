package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// OpenAI
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	OpenAIModel     string
	UpstreamTimeout time.Duration

	// CORS
	AllowedOrigin string
}

// ConfigurationError reports a required setting that is missing at startup.
type ConfigurationError struct {
	Key string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("required environment variable %s is not set", e.Key)
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	apiKey, err := requireEnv("OPENAI_API_KEY")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:            getEnvOrDefault("PORT", "3000"),
		Env:             getEnvOrDefault("ENV", "development"),
		OpenAIAPIKey:    apiKey,
		OpenAIBaseURL:   getEnvOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:     getEnvOrDefault("OPENAI_MODEL", "gpt-4.1-mini"),
		UpstreamTimeout: time.Duration(getEnvAsIntOrDefault("UPSTREAM_TIMEOUT_SECONDS", 60)) * time.Second,
		AllowedOrigin:   getEnvOrDefault("CORS_ALLOWED_ORIGIN", "*"),
	}

	return cfg, nil
}

// String masks the API key so a Config can be logged.
func (c *Config) String() string {
	return fmt.Sprintf("port=%s env=%s model=%s base_url=%s upstream_timeout=%s api_key=%s",
		c.Port, c.Env, c.OpenAIModel, c.OpenAIBaseURL, c.UpstreamTimeout, mask(c.OpenAIAPIKey))
}

func mask(secret string) string {
	if secret == "" {
		return "(unset)"
	}
	return "****"
}

func requireEnv(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", &ConfigurationError{Key: key}
	}
	return val, nil
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return defaultVal
	}
	return n
}
