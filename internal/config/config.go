package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	// Gemini is tried first; Models are attempted in order until one answers.
	GeminiAPIKey string
	GeminiModels []string

	// Llama is the secondary provider.
	LlamaAPIKey string
	LlamaAPIURL string
	LlamaModel  string

	// Optional live image backend. Absent key means keyword-table only.
	ImageAPIURL string
	ImageAPIKey string

	// Optional Redis cache. Empty addr means in-memory cache.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	PromotionTTL   time.Duration
	RequestTimeout time.Duration
}

func Load() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	ttlHours, err := strconv.Atoi(getEnv("PROMOTION_TTL_HOURS", "24"))
	if err != nil || ttlHours < 1 {
		ttlHours = 24
	}

	timeoutSec, err := strconv.Atoi(getEnv("PROVIDER_TIMEOUT_SECONDS", "45"))
	if err != nil || timeoutSec < 1 {
		timeoutSec = 45
	}

	return Config{
		Port: getEnv("PORT", "8000"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModels: splitModels(getEnv("GEMINI_MODELS", "gemini-1.5-flash,gemini-1.5-flash-8b")),

		LlamaAPIKey: os.Getenv("LLAMA_API_KEY"),
		LlamaAPIURL: os.Getenv("LLAMA_API_URL"),
		LlamaModel:  getEnv("LLAMA_MODEL", "llama-3.1-70b"),

		ImageAPIURL: os.Getenv("IMAGE_API_URL"),
		ImageAPIKey: os.Getenv("IMAGE_API_KEY"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		PromotionTTL:   time.Duration(ttlHours) * time.Hour,
		RequestTimeout: time.Duration(timeoutSec) * time.Second,
	}
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

func splitModels(raw string) []string {
	var models []string
	for _, m := range strings.Split(raw, ",") {
		m = strings.TrimSpace(m)
		if m != "" {
			models = append(models, m)
		}
	}
	return models
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
