package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/helpline-labs/refdesk/internal/config"
	dbRedis "github.com/helpline-labs/refdesk/internal/db/redis"
	logpkg "github.com/helpline-labs/refdesk/internal/logger"
	"github.com/helpline-labs/refdesk/internal/matcher"
	"github.com/helpline-labs/refdesk/internal/metrics"
	"github.com/helpline-labs/refdesk/internal/parser"
	directoryrepo "github.com/helpline-labs/refdesk/internal/repository/directory"
	evidencerepo "github.com/helpline-labs/refdesk/internal/repository/evidence"
	"github.com/helpline-labs/refdesk/internal/repository/rescache"
	chiTransport "github.com/helpline-labs/refdesk/internal/transport/chi"
	openaiEmb "github.com/helpline-labs/refdesk/internal/transport/openai"
	confidenceuc "github.com/helpline-labs/refdesk/internal/usecase/confidence"
	healthuc "github.com/helpline-labs/refdesk/internal/usecase/health"
	resolveuc "github.com/helpline-labs/refdesk/internal/usecase/resolve"
	"github.com/helpline-labs/refdesk/internal/version"
)

func main() {
	// Load .env before reading ENV (no-op if the file is absent)
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting refdesk API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	embedder := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	// Alias dictionary, optionally hot-reloaded on file changes
	aliases, err := matcher.LoadAliases(cfg.Matcher.AliasFile)
	if err != nil {
		logger.Fatal("Failed to load alias dictionary",
			zap.String("path", cfg.Matcher.AliasFile), zap.Error(err))
	}
	if cfg.Matcher.AliasFile != "" {
		logger.Info("Alias dictionary loaded",
			zap.String("path", cfg.Matcher.AliasFile), zap.Int("aliases", aliases.Len()))
		if cfg.Matcher.WatchAliases {
			go func() {
				if err := aliases.Watch(ctx, logger); err != nil {
					logger.Error("Alias watcher stopped", zap.Error(err))
				}
			}()
		}
	}

	matcherCfg := matcher.DefaultConfig()
	matcherCfg.Threshold = cfg.Matcher.Threshold
	matcherCfg.MaxResults = cfg.Matcher.MaxResults
	entityMatcher := matcher.New(matcherCfg, aliases)

	intentParser := parser.New(parser.DefaultVocabulary())

	dirRepo := directoryrepo.New(store)
	evRepo := evidencerepo.New(store, embedder, evidencerepo.Config{
		IndexName: cfg.Retrieval.IndexName,
		TopK:      cfg.Retrieval.TopK,
		VectorDim: cfg.Embedding.Dimensions,
	}, logger)
	if err := evRepo.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure evidence index", zap.Error(err))
	}

	resultCache := rescache.New(
		store,
		time.Duration(cfg.Cache.TTLSec)*time.Second,
		metrics.ResultCacheTotal,
		logger,
	)

	validator := confidenceuc.New(confidenceuc.Config{
		DefaultThreshold:   cfg.Confidence.DefaultThreshold,
		CategoryThresholds: cfg.Confidence.CategoryThresholds,
		TopK:               cfg.Confidence.TopK,
		Epsilon:            cfg.Confidence.Epsilon,
		DegradedPenalty:    cfg.Confidence.DegradedPenalty,
	})

	resolveSvc := resolveuc.New(
		intentParser, entityMatcher, dirRepo, evRepo, validator, resultCache,
		resolveuc.Config{
			RetrievalTimeout: time.Duration(cfg.Retrieval.TimeoutMS) * time.Millisecond,
			Epsilon:          cfg.Confidence.Epsilon,
		},
		logger,
	)

	healthSvc := healthuc.New(store, embedder)

	server := chiTransport.NewServer(resolveSvc, healthSvc, aliases, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
