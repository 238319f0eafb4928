package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultModels is the curated catalog offered when no override is configured.
// These are the free-tier OpenRouter models; check the site for the current list.
var DefaultModels = []string{
	"mistralai/mistral-7b-instruct:free",
	"google/gemma-7b-it:free",
	"nousresearch/nous-hermes-2-mixtral-8x7b-dpo:free",
	"openchat/openchat-7b:free",
}

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	DatabaseURL       string
	RedisURL          string
	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	ReviewCacheTTL    time.Duration
	Models            []string
	QueryMemoEnabled  bool
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
// The OpenRouter key and the database URL are required; without them the
// service cannot do anything useful and startup must halt.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ARENA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "LLM Arena API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("review.cache_ttl", "5m")
	v.SetDefault("query.memo", true)

	ttlString := v.GetString("review.cache_ttl")
	if ttlString == "" {
		ttlString = "5m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid review cache ttl: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		OpenRouterAPIKey:  v.GetString("openrouter.api_key"),
		OpenRouterBaseURL: v.GetString("openrouter.base_url"),
		ReviewCacheTTL:    ttl,
		Models:            v.GetStringSlice("models"),
		QueryMemoEnabled:  v.GetBool("query.memo"),
	}

	if len(cfg.Models) == 0 {
		cfg.Models = append([]string(nil), DefaultModels...)
	}

	if cfg.OpenRouterAPIKey == "" {
		return Config{}, fmt.Errorf("openrouter api key must be provided")
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("database url must be provided")
	}

	return cfg, nil
}
