package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 7*24*time.Hour, cfg.AuctionDuration)
	assert.Equal(t, 5*time.Minute, cfg.AntiSnipeWindow)
	assert.Equal(t, 15*time.Second, cfg.BidTxTimeout)
	assert.Equal(t, 30*time.Second, cfg.SweepInterval)
	assert.Equal(t, 5*time.Second, cfg.SweepMargin)
	assert.Equal(t, 10, cfg.SweepBatch)
	assert.Equal(t, 3, cfg.WinnerRetries)
	assert.Equal(t, 8, cfg.FeaturedAuctionsCount)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ANTI_SNIPE_WINDOW", "2m")
	t.Setenv("SWEEP_BATCH", "25")
	t.Setenv("FEATURED_AUCTIONS_COUNT", "3")
	t.Setenv("DB_NAME", "auctionhouse_test")

	cfg := Load()

	assert.Equal(t, 2*time.Minute, cfg.AntiSnipeWindow)
	assert.Equal(t, 25, cfg.SweepBatch)
	assert.Equal(t, 3, cfg.FeaturedAuctionsCount)
	assert.Contains(t, cfg.PostgresDSN(), "/auctionhouse_test?")
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("SWEEP_BATCH", "many")
	t.Setenv("ANTI_SNIPE_WINDOW", "soon")

	cfg := Load()

	assert.Equal(t, 10, cfg.SweepBatch)
	assert.Equal(t, 5*time.Minute, cfg.AntiSnipeWindow)
}

func TestPostgresDSN(t *testing.T) {
	cfg := Config{
		DBUser: "app", DBPassword: "secret", DBHost: "db", DBPort: "5433",
		DBName: "auctions", DBSSLMode: "require",
	}
	assert.Equal(t, "postgres://app:secret@db:5433/auctions?sslmode=require", cfg.PostgresDSN())
}
