package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Redis    RedisConfig
	Services ServicesConfig
	Worker   WorkerConfig
	Match    MatchConfig
	Cache    CacheConfig
	Batch    BatchConfig
	Metrics  MetricsConfig
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type ServicesConfig struct {
	Spotify    ServiceConfig
	AppleMusic ServiceConfig
}

type ServiceConfig struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
}

type WorkerConfig struct {
	PollInterval time.Duration
	JobTimeout   time.Duration
}

type MatchConfig struct {
	TitleSimilarityThreshold  float64
	ArtistSimilarityThreshold float64
	DurationToleranceMs       int
	RequireISRC               bool
}

type CacheConfig struct {
	MaxEntries int
	TTL        time.Duration
}

type BatchConfig struct {
	MatchBatchSize  int
	EnrichBatchSize int
	BatchDelay      time.Duration
}

type MetricsConfig struct {
	Addr string
}

func Load() *Config {
	return &Config{
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Services: ServicesConfig{
			Spotify: ServiceConfig{
				BaseURL:           getEnv("SPOTIFY_SERVICE_URL", "http://localhost:8080"),
				Timeout:           getEnvDuration("SPOTIFY_SERVICE_TIMEOUT", 30*time.Second),
				RequestsPerSecond: getEnvFloat("SPOTIFY_REQUESTS_PER_SECOND", 5),
			},
			AppleMusic: ServiceConfig{
				BaseURL:           getEnv("APPLE_MUSIC_SERVICE_URL", "http://localhost:8081"),
				Timeout:           getEnvDuration("APPLE_MUSIC_SERVICE_TIMEOUT", 30*time.Second),
				RequestsPerSecond: getEnvFloat("APPLE_MUSIC_REQUESTS_PER_SECOND", 5),
			},
		},
		Worker: WorkerConfig{
			PollInterval: getEnvDuration("WORKER_POLL_INTERVAL", 1*time.Second),
			JobTimeout:   getEnvDuration("WORKER_JOB_TIMEOUT", 5*time.Minute),
		},
		Match: MatchConfig{
			TitleSimilarityThreshold:  getEnvFloat("MATCH_TITLE_SIMILARITY_THRESHOLD", 0.8),
			ArtistSimilarityThreshold: getEnvFloat("MATCH_ARTIST_SIMILARITY_THRESHOLD", 0.8),
			DurationToleranceMs:       getEnvInt("MATCH_DURATION_TOLERANCE_MS", 5000),
			RequireISRC:               getEnvBool("MATCH_REQUIRE_ISRC", false),
		},
		Cache: CacheConfig{
			MaxEntries: getEnvInt("METADATA_CACHE_MAX_ENTRIES", 1000),
			TTL:        getEnvDuration("METADATA_CACHE_TTL", 1*time.Hour),
		},
		Batch: BatchConfig{
			MatchBatchSize:  getEnvInt("BATCH_MATCH_SIZE", 5),
			EnrichBatchSize: getEnvInt("BATCH_ENRICH_SIZE", 10),
			BatchDelay:      getEnvDuration("BATCH_DELAY", 1*time.Second),
		},
		Metrics: MetricsConfig{
			Addr: getEnv("METRICS_ADDR", ":9091"),
		},
	}
}

func (c *RedisConfig) Address() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
