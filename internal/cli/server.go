package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"geoquiz-service/internal/config"
	"geoquiz-service/internal/engine"
	"geoquiz-service/internal/infra/memory"
	pginfra "geoquiz-service/internal/infra/postgres"
	redisinfra "geoquiz-service/internal/infra/redis"
	"geoquiz-service/internal/infra/sqlite"
	transport "geoquiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	// Pool loader: seeded in-process data unless Postgres is configured.
	var loader memory.PoolLoader = memory.NewSeededPoolLoader()
	if pool != nil {
		loader = pginfra.NewPoolLoader(pool)
	}

	poolTTL := config.TTLDuration(cfg.Quiz.PoolTTL, 10*time.Minute)
	var pools engine.PoolRepository
	if redisClient != nil {
		pools = redisinfra.NewPoolRepository(redisClient, loader, poolTTL)
	} else {
		pools = memory.NewPoolRepository(loader, poolTTL)
	}

	var profileStore *sqlite.ProfileStore
	if cfg.SQLite.Path != "" {
		profileStore, err = sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return err
		}
		defer profileStore.Close()
	}

	var stats engine.StatsStore
	switch {
	case pool != nil:
		stats = pginfra.NewStatsStore(pool)
	case redisClient != nil:
		stats = redisinfra.NewStatsStore(redisClient)
	case profileStore != nil:
		stats = profileStore
	default:
		stats = memory.NewStatsStore()
	}

	revealDelay := config.TTLDuration(cfg.Quiz.RevealDelay, 2500*time.Millisecond)
	service := engine.NewService(pools, memory.NewSessionRegistry(), stats,
		engine.WithRevealDelay(revealDelay))

	secret := cfg.Auth.Secret
	if secret == "" {
		secret = "dev-secret"
		log.Printf("auth secret not configured, using development default")
	}
	auth := transport.NewAuthService(secret)

	var profiles transport.ProfileSaver
	if profileStore != nil {
		profiles = profileStore
	}

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(service, auth, profiles),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting geoquiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
