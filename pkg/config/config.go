package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Redis configuration struct.
type RedisConfiguration struct {
	Host     string
	Port     string
	Password string
}

// Bucket configuration for uploading the run ledger.
type BucketConfiguration struct {
	Region       string
	Endpoint     string
	AccessKey    string
	AccessSecret string
	LogBucket    string
}

// Config holds everything the collector needs from the environment.
type Config struct {
	ApiKey string
	Region string

	// How many recent ranked matches to request per player.
	MatchCount int

	// Rate limit window configuration.
	MaxRequests int
	Window      time.Duration
	MinInterval time.Duration

	RequestTimeout time.Duration

	OutputDir string

	// Optional collaborators.
	Redis       RedisConfiguration
	Bucket      BucketConfiguration
	DatabaseURL string
}

// Load the variables from the environment.
// A .env file is loaded if present, so local runs can keep the key out of the shell.
func LoadConfig() (*Config, error) {
	godotenv.Load()

	apiKey := os.Getenv("RIOT_API_KEY")
	if apiKey == "" {
		return nil, errors.New("RIOT_API_KEY not found in the environment or .env file")
	}

	cfg := &Config{
		ApiKey:         apiKey,
		Region:         getEnvDefault("REGION", "na1"),
		MatchCount:     getEnvInt("MATCH_COUNT", 10),
		MaxRequests:    getEnvInt("MAX_REQUESTS", 100),
		Window:         time.Duration(getEnvInt("RATE_LIMIT_WINDOW", 120)) * time.Second,
		MinInterval:    time.Duration(getEnvInt("MIN_INTERVAL_MS", 1200)) * time.Millisecond,
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT", 30)) * time.Second,
		OutputDir:      getEnvDefault("OUTPUT_DIR", "data"),
		Redis: RedisConfiguration{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     os.Getenv("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Bucket: BucketConfiguration{
			Region:       os.Getenv("BUCKET_REGION"),
			Endpoint:     os.Getenv("BUCKET_ENDPOINT"),
			AccessKey:    os.Getenv("BUCKET_ACCESS_KEY"),
			AccessSecret: os.Getenv("BUCKET_ACCESS_SECRET"),
			LogBucket:    os.Getenv("BUCKET_LOG_BUCKET"),
		},
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}

	// The match history endpoint caps the count at 100.
	if cfg.MatchCount > 100 {
		cfg.MatchCount = 100
	}

	return cfg, nil
}

// Get a variable with a fallback default.
func getEnvDefault(key string, def string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return def
}

// Get a integer variable with a fallback default.
func getEnvInt(key string, def int) int {
	value := os.Getenv(key)
	if value == "" {
		return def
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}
