package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime tunable of the engine. Values come from
// environment variables, optionally seeded from a .env file.
type Config struct {
	Env  string
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	RedisAddr     string
	RedisPassword string

	// Maximum number of concurrently featured live auctions.
	FeaturedAuctionsCount int

	// How long an auction runs once it goes live.
	AuctionDuration time.Duration

	// Minimum remaining time guaranteed after any accepted bid.
	AntiSnipeWindow time.Duration

	// Upper bound on how long a bid transaction may hold the auction row lock.
	BidTxTimeout time.Duration

	SweepInterval time.Duration
	SweepMargin   time.Duration
	SweepBatch    int
	WinnerRetries int
	WinnerBackoff time.Duration
}

// Load reads configuration from the environment. Every engine tunable has a
// default, so a bare environment still yields a working dev setup.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Env:  getEnv("APP_ENV", "development"),
		Port: getEnv("PORT", "9000"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "auctionhouse"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		FeaturedAuctionsCount: getEnvInt("FEATURED_AUCTIONS_COUNT", 8),

		AuctionDuration: getEnvDuration("AUCTION_DURATION", 7*24*time.Hour),
		AntiSnipeWindow: getEnvDuration("ANTI_SNIPE_WINDOW", 5*time.Minute),
		BidTxTimeout:    getEnvDuration("BID_TX_TIMEOUT", 15*time.Second),

		SweepInterval: getEnvDuration("SWEEP_INTERVAL", 30*time.Second),
		SweepMargin:   getEnvDuration("SWEEP_MARGIN", 5*time.Second),
		SweepBatch:    getEnvInt("SWEEP_BATCH", 10),
		WinnerRetries: getEnvInt("WINNER_RETRIES", 3),
		WinnerBackoff: getEnvDuration("WINNER_BACKOFF", time.Second),
	}
}

// PostgresDSN builds the connection string used by both the pgx pool and the
// migration runner.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
