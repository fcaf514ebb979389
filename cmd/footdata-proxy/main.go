// Command footdata-proxy serves aggregated api-football team and player data
// over HTTP, backed by the persisted read-through cache.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/matchpulse/footdata/internal/config"
	"github.com/matchpulse/footdata/pkg/aggregate"
	"github.com/matchpulse/footdata/pkg/cache"
	"github.com/matchpulse/footdata/pkg/client"
	"github.com/matchpulse/footdata/pkg/logging"
	"github.com/matchpulse/footdata/pkg/ratelimit"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// Logging is not configured yet, write plainly to stderr.
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := logging.Setup(cfg.LogSetup())

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("Service failed")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(cfg.Database)
	if err != nil {
		return err
	}

	teamStore, err := cache.NewDatabaseStore(db, "team_cache")
	if err != nil {
		return err
	}
	playerStore, err := cache.NewDatabaseStore(db, "player_cache")
	if err != nil {
		return err
	}
	for _, store := range []*cache.DatabaseStore{teamStore, playerStore} {
		if err := store.Migrate(ctx); err != nil {
			return err
		}
	}

	clientCfg, err := cfg.ClientConfig()
	if err != nil {
		return err
	}

	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return err
		}
		logger.Info().Str("addr", cfg.Redis.Address).Msg("Connected to Redis")
		clientCfg.Quota = ratelimit.NewTracker(redisClient, logging.NewLogger("quota"))
	}

	apiClient, err := client.New(clientCfg)
	if err != nil {
		return err
	}

	agg, err := aggregate.New(aggregate.Config{
		Client:      apiClient,
		TeamStore:   teamStore,
		PlayerStore: playerStore,
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:    cfg.Server.Listen,
		Handler: newMux(agg, logger),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Server.Listen).Msg("Starting footdata proxy")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newMux(agg *aggregate.Aggregator, logger zerolog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /teams/{id}/full", teamHandler(agg, logger))
	mux.HandleFunc("GET /players/{id}/full", playerHandler(agg, logger))
	mux.HandleFunc("GET /health", healthHandler)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

func openDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
	switch cfg.Driver {
	case "postgres":
		return gorm.Open(postgres.Open(cfg.DSN), gormCfg)
	default:
		return gorm.Open(sqlite.Open(cfg.DSN), gormCfg)
	}
}
