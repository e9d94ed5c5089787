package config

import (
	"fmt"
	"os"

	// this will automatically load your .env file:
	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	Addr   string
	Store  StoreConfig
	OpenAI OpenAIConfig
	Stripe StripeConfig
}

type StoreConfig struct {
	Driver   string // file, memory or postgres
	DataDir  string
	RedisURL string // optional session store override
	Postgres PostgresConfig
}

type PostgresConfig struct {
	Username string
	Password string
	URL      string
	Port     string
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s", c.Username, c.Password, c.URL, c.Port)
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	FrontendURL   string
}

// LoadConfig reads configuration from the environment once at startup. The
// resulting struct is passed into component constructors; nothing else
// reads the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Addr: getenvDefault("ADDR", "0.0.0.0:8080"),
		Store: StoreConfig{
			Driver:   getenvDefault("STORE_DRIVER", "file"),
			DataDir:  getenvDefault("DATA_DIR", "data"),
			RedisURL: os.Getenv("REDIS_URL"),
			Postgres: PostgresConfig{
				Username: os.Getenv("POSTGRES_USER"),
				Password: os.Getenv("POSTGRES_PWD"),
				URL:      os.Getenv("POSTGRES_URL"),
				Port:     os.Getenv("POSTGRES_PORT"),
			},
		},
		OpenAI: OpenAIConfig{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: getenvDefault("OPENAI_API_BASE", "https://api.groq.com/openai/v1"),
			Model:   getenvDefault("OPENAI_MODEL", "llama-3.3-70b-versatile"),
		},
		Stripe: StripeConfig{
			SecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
			WebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
			FrontendURL:   getenvDefault("FRONTEND_URL", "http://localhost:8080"),
		},
	}

	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
