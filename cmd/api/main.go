package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/NokoLucky/grocery-ai-api/internal/cache"
	"github.com/NokoLucky/grocery-ai-api/internal/config"
	"github.com/NokoLucky/grocery-ai-api/internal/grocery"
	"github.com/NokoLucky/grocery-ai-api/internal/images"
	"github.com/NokoLucky/grocery-ai-api/internal/llm"
	"github.com/NokoLucky/grocery-ai-api/internal/logging"
	"github.com/NokoLucky/grocery-ai-api/internal/metrics"
	"github.com/NokoLucky/grocery-ai-api/internal/middleware"
)

func main() {

	// ───────────────────────── ENV ─────────────────────────
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	cfg := config.Load()
	logger := logging.New()
	defer logger.Sync()

	m := metrics.New()

	// ───────────────────────── PROVIDERS ─────────────────────────
	// A provider without its key is skipped entirely; the synthetic fallback
	// is always last so the chain cannot come up empty.
	var providers []llm.Provider
	if cfg.GeminiAPIKey != "" {
		providers = append(providers, llm.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModels, cfg.RequestTimeout, logger))
	} else {
		logger.Info("GEMINI_API_KEY not set, skipping gemini provider")
	}
	if cfg.LlamaAPIKey != "" && cfg.LlamaAPIURL != "" {
		providers = append(providers, llm.NewLlamaClient(cfg.LlamaAPIKey, cfg.LlamaAPIURL, cfg.LlamaModel, cfg.RequestTimeout, logger))
	} else {
		logger.Info("LLAMA_API_KEY/LLAMA_API_URL not set, skipping llama provider")
	}
	providers = append(providers, llm.NewSynthetic())

	chain := llm.NewChain(logger, m, providers...)

	// ───────────────────────── CACHE ─────────────────────────
	var promotionCache cache.Cache
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.PromotionTTL)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisCache.Ping(ctx); err != nil {
			logger.Fatal("redis unreachable", zap.Error(err))
		}
		cancel()
		defer redisCache.Close()
		promotionCache = redisCache
		logger.Info("using redis cache", zap.String("addr", cfg.RedisAddr))
	} else {
		promotionCache = cache.NewMemoryCache(cfg.PromotionTTL)
	}

	// ───────────────────────── SERVICE ─────────────────────────
	resolver := images.NewResolver(cfg.ImageAPIURL, cfg.ImageAPIKey, logger)
	service := grocery.NewService(chain, resolver, promotionCache, logger, m)
	handler := grocery.NewHandler(service)

	// ───────────────────────── GIN ─────────────────────────
	if os.Getenv("APP_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(logger))

	r.Use(cors.New(cors.Config{
		AllowOrigins:              []string{"*"},
		AllowMethods:              []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:              []string{"Content-Type", "Authorization"},
		OptionsResponseStatusCode: http.StatusOK,
		MaxAge:                    12 * time.Hour,
	}))

	handler.RegisterRoutes(r)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", m.Handler())

	// ───────────────────────── START ─────────────────────────
	logger.Info("API running", zap.String("addr", cfg.Address()))
	if err := r.Run(cfg.Address()); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
