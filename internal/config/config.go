package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// MongoDB
	MongoURI    string
	MongoDbName string

	// Redis (optional view cache; empty addr disables it)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Server
	ApiPort string

	// Identity provider
	FirebaseCredentialsFile string
	FirebaseProjectID       string

	// Local token verification for MOCK_SERVICES runs
	MockAuthSecret string

	// Stripe
	StripeSecretKey string
	StripeCurrency  string

	// AWS S3 (property photo uploads)
	AwsAccessKeyID     string
	AwsSecretAccessKey string
	AwsRegion          string
	AwsS3Bucket        string
	ImageBaseS3URL     string
	UploadURLTTL       time.Duration

	// Listing view cache
	ViewCacheTTL time.Duration

	// Rate Limiting
	RateLimitBucketSize int
	RateLimitRefillRate int // tokens per second
}

// Load configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file, ignoring errors if it doesn't exist
	godotenv.Load()

	cfg := &Config{}

	var err error

	// Helper function to get env var or default
	getEnv := func(key, defaultValue string) string {
		if value, exists := os.LookupEnv(key); exists {
			return value
		}
		return defaultValue
	}

	// Helper function to get required env var
	getRequiredEnv := func(key string) (string, error) {
		value, exists := os.LookupEnv(key)
		if !exists {
			return "", fmt.Errorf("missing required environment variable: %s", key)
		}
		return value, nil
	}

	cfg.MongoURI, err = getRequiredEnv("MONGO_URI")
	if err != nil {
		return nil, err
	}
	cfg.MongoDbName = getEnv("MONGO_DB_NAME", "realEstateDB")
	cfg.RedisAddr = getEnv("REDIS_ADDR", "")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.ApiPort = getEnv("API_PORT", "5000")

	cfg.FirebaseCredentialsFile = getEnv("FIREBASE_CREDENTIALS_FILE", "")
	cfg.FirebaseProjectID = getEnv("FIREBASE_PROJECT_ID", "")
	cfg.MockAuthSecret = getEnv("MOCK_AUTH_SECRET", "")
	if os.Getenv("MOCK_SERVICES") != "true" && cfg.FirebaseCredentialsFile == "" {
		return nil, fmt.Errorf("missing required environment variable: FIREBASE_CREDENTIALS_FILE")
	}

	cfg.StripeSecretKey = getEnv("STRIPE_SECRET_KEY", "")
	cfg.StripeCurrency = getEnv("STRIPE_CURRENCY", "usd")

	cfg.AwsAccessKeyID = getEnv("AWS_ACCESS_KEY_ID", "")
	cfg.AwsSecretAccessKey = getEnv("AWS_SECRET_ACCESS_KEY", "")
	cfg.AwsRegion = getEnv("AWS_REGION", "")
	cfg.AwsS3Bucket = getEnv("AWS_S3_BUCKET", "")
	cfg.ImageBaseS3URL = getEnv("IMAGE_BASE_S3_URL", "")

	cfg.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	uploadURLTTLMinutes, err := strconv.ParseInt(getEnv("UPLOAD_URL_TTL_MINUTES", "15"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid UPLOAD_URL_TTL_MINUTES: %w", err)
	}
	cfg.UploadURLTTL = time.Duration(uploadURLTTLMinutes) * time.Minute

	viewCacheTTLSeconds, err := strconv.ParseInt(getEnv("VIEW_CACHE_TTL_SECONDS", "60"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid VIEW_CACHE_TTL_SECONDS: %w", err)
	}
	cfg.ViewCacheTTL = time.Duration(viewCacheTTLSeconds) * time.Second

	cfg.RateLimitBucketSize, err = strconv.Atoi(getEnv("RATE_LIMIT_BUCKET_SIZE", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BUCKET_SIZE: %w", err)
	}
	cfg.RateLimitRefillRate, err = strconv.Atoi(getEnv("RATE_LIMIT_REFILL_RATE", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_REFILL_RATE: %w", err)
	}

	return cfg, nil
}
