// Package main is the entry point for the garmentpos API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"garmentpos/internal/core/types"
	"garmentpos/internal/domain/auth"
	"garmentpos/internal/domain/notify"
	"garmentpos/internal/domain/reports"
	"garmentpos/internal/infrastructure/cache"
	v1 "garmentpos/internal/infrastructure/http/v1"
	"garmentpos/internal/infrastructure/http/v1/handlers"
	"garmentpos/internal/infrastructure/storage/postgres"
	"garmentpos/internal/infrastructure/storage/postgres/auth_repo"
	"garmentpos/internal/infrastructure/whatsapp"
	"garmentpos/pkg/logger"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting garmentpos server")

	// --- Database ---
	dsn := mustEnv("DATABASE_URL")
	poolCfg := postgres.DefaultPoolConfig(dsn)
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalw("failed to ping database", "error", err)
	}
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Audit ---
	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- Dashboard cache (optional) ---
	var reportCache reports.Cache
	var cachePinger handlers.Pinger
	if redisAddr := getEnv("REDIS_ADDR", ""); redisAddr != "" {
		redisCache := cache.NewRedisCache(cache.Config{
			Addr:     redisAddr,
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      getEnvDuration("DASHBOARD_CACHE_TTL", cache.DefaultDashboardTTL),
		})
		defer redisCache.Close()

		if err := redisCache.Ping(ctx); err != nil {
			log.Warnw("redis unreachable, dashboard cache degraded", "error", err)
		}
		reportCache = redisCache
		cachePinger = redisCache
		log.Infow("dashboard cache enabled", "addr", redisAddr)
	}

	// --- WhatsApp notifications (optional) ---
	var notifier notify.Notifier = notify.Noop{}
	if apiKey := getEnv("INTERAKT_API_KEY", ""); apiKey != "" {
		notifier = whatsapp.NewClient(whatsapp.Config{
			APIKey:  apiKey,
			BaseURL: getEnv("INTERAKT_BASE_URL", ""),
		})
		log.Info("whatsapp notifications enabled")
	}

	// --- Auth ---
	jwtSecret := mustEnv("JWT_SECRET")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))

	userRepo := auth_repo.NewUserRepo(txManager)
	authService := auth.NewService(userRepo, txManager, jwtService, auth.DefaultServiceConfig())

	// --- Default GST rate ---
	gstRate, err := types.NewMoneyFromString(getEnv("DEFAULT_GST_RATE", "5"))
	if err != nil {
		log.Fatalw("invalid DEFAULT_GST_RATE", "error", err)
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:           pool,
		TxManager:      txManager,
		Logger:         log,
		JWTValidator:   jwtService,
		AuthService:    authService,
		Audit:          auditService,
		Cache:          reportCache,
		CachePinger:    cachePinger,
		Notifier:       notifier,
		AllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "")),
		DefaultGSTRate: gstRate,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
