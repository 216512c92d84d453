package main

import (
	"context"
	"log"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/marcelovmendes/playswap/metadata-engine/internal/application"
	"github.com/marcelovmendes/playswap/metadata-engine/internal/config"
	"github.com/marcelovmendes/playswap/metadata-engine/internal/domain"
	"github.com/marcelovmendes/playswap/metadata-engine/internal/infrastructure/http"
	"github.com/marcelovmendes/playswap/metadata-engine/internal/infrastructure/memory"
	"github.com/marcelovmendes/playswap/metadata-engine/internal/infrastructure/redis"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	log.Println("starting metadata reconciliation worker...")

	if err := godotenv.Load(); err == nil {
		log.Println("loaded environment from .env")
	}

	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisClient := redis.NewClient(cfg.Redis)
	defer redisClient.Close()

	if err := redisClient.Ping(ctx); err != nil {
		log.Fatal("failed to connect to redis: ", err)
	}
	log.Println("connected to redis")

	queue := redis.NewJobQueue(redisClient)
	statusStore := redis.NewStatusStore(redisClient)
	sessionStore := redis.NewSessionStore(redisClient)

	spotifyClient := http.NewSpotifyClient(cfg.Services.Spotify, sessionStore)
	appleMusicClient := http.NewAppleMusicClient(cfg.Services.AppleMusic, sessionStore)

	gateway := application.NewPlatformGateway(spotifyClient, appleMusicClient, cfg.Services)
	resolver := application.NewConflictResolver(application.StrategyConfidence)
	cache := memory.NewMetadataCache(cfg.Cache.MaxEntries)

	service := application.NewReconciliationService(gateway, resolver, cache, cfg.Cache.TTL, cfg.Batch)

	matchDefaults := domain.MatchConfig{
		TitleSimilarityThreshold:  cfg.Match.TitleSimilarityThreshold,
		ArtistSimilarityThreshold: cfg.Match.ArtistSimilarityThreshold,
		DurationToleranceMs:       cfg.Match.DurationToleranceMs,
		RequireISRC:               cfg.Match.RequireISRC,
	}

	processor := application.NewProcessor(service, statusStore, matchDefaults)
	worker := application.NewWorker(queue, processor, cfg.Worker)

	go func() {
		mux := nethttp.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		log.Printf("metrics listening on %s", cfg.Metrics.Addr)
		if err := nethttp.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
			log.Printf("metrics server stopped: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("received shutdown signal")
		cancel()
	}()

	worker.Run(ctx)

	log.Println("worker stopped")
}
