package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rentdash/internal/config"
	"rentdash/internal/dashboard"
	"rentdash/internal/events"
	"rentdash/internal/logging"
	"rentdash/internal/metrics"
	"rentdash/internal/models"
	"rentdash/internal/querycache"
	"rentdash/internal/session"
	"rentdash/internal/upstream"
	"rentdash/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	yamlv2 "gopkg.in/yaml.v2"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	consoles, err := loadConsoles(cfg, &logger)
	if err != nil {
		return err
	}

	sessions, sessionClose, err := initSessionStore(cfg, &logger)
	if err != nil {
		return err
	}
	if sessionClose != nil {
		defer sessionClose()
	}

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	client := upstream.NewClient(cfg.Upstream.BaseURL, cfg.UpstreamTimeout(), sessions, &logger)
	if redisClient != nil {
		client.UseRedisCache(redisClient, cfg.CacheTTL())
	}

	cache := querycache.New(cfg.CacheTTL())
	bus := events.NewBus()
	center := events.NewCenter(bus, cfg.Dashboard.NotificationCap)

	handlers := dashboard.NewHandlers(dashboard.HandlersConfig{
		Client:         client,
		Cache:          cache,
		Bus:            bus,
		Center:         center,
		Session:        sessions,
		Export:         dashboard.NewExporter(cfg.Exports.Path, &logger),
		Logger:         &logger,
		PageSize:       cfg.Dashboard.PageSize,
		MaxSearchFetch: cfg.Upstream.MaxSearchFetch,
		Consoles:       consoles,
	})

	server := dashboard.NewServer(cfg.Server, handlers, &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startMetrics(ctx, cfg, &logger)

	poller := worker.NewPoller(cfg.PollInterval(), worker.DefaultRetryPolicy(), bus, &logger)
	poller.AddTask("lists", handlers.RefreshLists)
	go poller.Start(ctx)

	return startServer(ctx, server, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "dashboard-main").Logger()

	return cfg, logger, closer, nil
}

// loadConsoles reads the console reference file, falling back to the list
// embedded in the main config when the file is absent.
func loadConsoles(cfg *config.Config, logger *zerolog.Logger) ([]models.Console, error) {
	consolesPath := os.Getenv("CONSOLES_PATH")
	if consolesPath == "" {
		consolesPath = "configs/consoles.yaml"
	}

	data, err := os.ReadFile(consolesPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("consoles_path", consolesPath).Msg("consoles file missing, using config list")
			return cfg.Consoles, nil
		}
		logger.Error().Err(err).Str("consoles_path", consolesPath).Msg("read consoles")
		return nil, err
	}

	var parsed struct {
		Consoles []models.Console `yaml:"consoles"`
	}
	if err := yamlv2.Unmarshal(data, &parsed); err != nil {
		logger.Error().Err(err).Str("consoles_path", consolesPath).Msg("parse consoles")
		return nil, err
	}
	if err := config.ValidateConsoles(parsed.Consoles); err != nil {
		return nil, fmt.Errorf("validate consoles: %w", err)
	}

	return parsed.Consoles, nil
}

// initSessionStore opens the durable SQLite store and fronts it with the
// in-memory failover wrapper.
func initSessionStore(cfg *config.Config, logger *zerolog.Logger) (*session.Store, func(), error) {
	primary, err := session.NewSQLiteRepository(cfg.Session.Path)
	if err != nil {
		logger.Error().Err(err).Str("session_path", cfg.Session.Path).Msg("init session store")
		return nil, nil, err
	}

	repo := session.NewFailoverRepository(primary, session.NewMemoryRepository(), logger)
	return session.NewStore(repo), func() { _ = primary.Close() }, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startServer(ctx context.Context, server *dashboard.Server, logger *zerolog.Logger) error {
	go func() {
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("dashboard server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}

	logger.Info().Msg("dashboard server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
