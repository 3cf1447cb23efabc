package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"

	"github.com/omniapartners/incentive-engine/internal/api"
	"github.com/omniapartners/incentive-engine/internal/cache"
	"github.com/omniapartners/incentive-engine/internal/config"
	"github.com/omniapartners/incentive-engine/internal/repository/postgres"

	_ "github.com/lib/pq" // PostgreSQL driver
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		log.Fatalf("[server] load config: %v", err)
	}

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		}); err != nil {
			log.Printf("[server] sentry init: %v", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("[server] open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.PingContext(ctx); err != nil {
		cancel()
		log.Fatalf("[server] database unreachable: %v", err)
	}
	cancel()

	var resultCache *cache.Cache
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		resultCache = cache.New(rdb, cfg.Cache.TTL())
		log.Printf("[server] result cache on %s, ttl %s", cfg.Redis.Addr, cfg.Cache.TTL())
	} else {
		log.Printf("[server] result cache disabled, every request recomputes")
	}

	svc := api.NewService(postgres.NewRepo(db), resultCache, cfg.Incentive.ExtraEnergyOperators)
	server := api.NewServer(cfg.Server, svc)

	go func() {
		log.Printf("[server] listening on %s:%d", cfg.Server.GetHost(), cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil {
			log.Printf("[server] http server stopped: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Printf("[server] shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[server] shutdown: %v", err)
	}
}
