package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/brandgen/brandgen-go/internal/config"
	"github.com/brandgen/brandgen-go/internal/handler"
	"github.com/brandgen/brandgen-go/internal/httpclient"
	"github.com/brandgen/brandgen-go/internal/ideogram"
	"github.com/brandgen/brandgen-go/internal/logging"
	"github.com/brandgen/brandgen-go/internal/middleware"
	"github.com/brandgen/brandgen-go/internal/quota"
	"github.com/brandgen/brandgen-go/internal/repository"
	"github.com/brandgen/brandgen-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger, logCloser := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	defer logCloser.Close()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpClient := httpclient.New(httpclient.Options{
		PreferIPv4: cfg.PreferIPv4,
		Timeout:    cfg.HTTPTimeout,
	})

	ideogramClient := ideogram.New(ideogram.Options{
		APIKey:     cfg.IdeogramAPIKey,
		BaseURL:    cfg.IdeogramBaseURL,
		Model:      cfg.IdeogramModel,
		HTTPClient: httpClient,
		Logger:     logger,
	})

	genService := service.NewGenerationService(ideogramClient, service.GenerationOptions{
		Model:    ideogramClient.Model(),
		Timeout:  cfg.ProviderTimeout,
		Parallel: cfg.Parallel,
		Logger:   logger,
	})
	downloadService := service.NewDownloadService(httpClient, service.DownloadOptions{
		TicketSecret: cfg.DownloadTicketSecret,
		TicketTTL:    cfg.DownloadTicketTTL,
	})

	store, closeStore, err := newQuotaStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("quota store unavailable", "backend", cfg.QuotaBackend, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	gate := quota.NewGate(store,
		quota.WithLimit(cfg.QuotaLimit),
		quota.WithWindow(cfg.QuotaWindow),
		quota.WithSalt(cfg.QuotaKeySalt),
		quota.WithLogger(logger),
	)

	brandHandler := handler.NewBrandHandler(genService, downloadService, logger)
	downloadHandler := handler.NewDownloadHandler(downloadService, logger)
	clientIP := middleware.ClientIP(cfg.TrustXFF)

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"RateLimit-Limit", "RateLimit-Remaining", "RateLimit-Reset", "Retry-After", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Quota(gate, clientIP, logger))
		r.Post("/api/generate-brand", brandHandler.HandleGenerate)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(ctx, cfg.DownloadRPS, cfg.DownloadBurst, clientIP))
		r.Get("/api/download-image", downloadHandler.HandleDownload)
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			"port", cfg.Port,
			"env", cfg.Env,
			"quota_backend", cfg.QuotaBackend,
			"parallel", cfg.Parallel,
			"download_tickets", downloadService.TicketsEnabled(),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced shutdown", "error", err)
		return
	}

	logger.Info("server stopped")
}

func newQuotaStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (quota.Store, func(), error) {
	switch cfg.QuotaBackend {
	case config.QuotaBackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			// Hits fail open, so a late Redis is tolerated.
			logger.Warn("redis ping failed", "addr", cfg.RedisAddr, "error", err)
		}
		return quota.NewRedisStore(rdb, quota.WithRedisPrefix(cfg.RedisPrefix)), func() { rdb.Close() }, nil

	case config.QuotaBackendMySQL:
		db, err := repository.NewDB(cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		repo := repository.NewQuotaRepository(db)
		schemaCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := repo.EnsureSchema(schemaCtx); err != nil {
			logger.Warn("quota schema check failed", "error", err)
		}
		return repo, func() { db.Close() }, nil
	}

	mem := quota.NewMemoryStore()
	mem.StartJanitor(ctx, time.Minute, cfg.QuotaWindow)
	return mem, func() {}, nil
}
