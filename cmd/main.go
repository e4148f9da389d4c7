package main

import (
	"context"

	accountpg "github.com/openmotors/auctionhouse/internal/account/infra/repository/postgres"
	"github.com/openmotors/auctionhouse/internal/auction/application"
	"github.com/openmotors/auctionhouse/internal/auction/infra/fanout"
	auctionpg "github.com/openmotors/auctionhouse/internal/auction/infra/repository/postgres"
	"github.com/openmotors/auctionhouse/internal/auction/infra/rest"
	auctionws "github.com/openmotors/auctionhouse/internal/auction/infra/websocket"
	"github.com/openmotors/auctionhouse/internal/shared/config"
	"github.com/openmotors/auctionhouse/internal/shared/db"
	"github.com/openmotors/auctionhouse/internal/shared/db/migrations"
	"github.com/openmotors/auctionhouse/internal/shared/httpserver"
	"github.com/openmotors/auctionhouse/internal/shared/logger"
	"github.com/openmotors/auctionhouse/internal/shared/pubsub"
	"github.com/openmotors/auctionhouse/internal/shared/websocket"
	"go.uber.org/zap"
)

func main() {
	log := logger.GetLogger()
	defer log.Sync()

	cfg := config.Load()
	log.Info("Starting auction engine", zap.String("env", cfg.Env))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info("Running database migrations...")
	if err := migrations.RunMigrations(cfg); err != nil {
		log.Fatal("Database migration failed", zap.Error(err))
	}

	pool, err := db.NewPostgresPool(ctx, cfg)
	if err != nil {
		log.Fatal("Database connection failed", zap.Error(err))
	}
	defer pool.Close()

	bus, err := pubsub.NewRedisBus(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatal("Redis connection failed", zap.Error(err))
	}
	defer bus.Close()

	store := auctionpg.NewStore(pool)
	accounts := accountpg.NewAccountRepository(pool)

	hub := websocket.NewHub()
	fanoutSvc := fanout.NewService(hub, bus)
	go hub.Run(ctx)

	wsHandler := auctionws.NewAuctionWSHandler(hub)
	go wsHandler.ListenForMessages(ctx)

	placeBidUC := application.NewPlaceBidUseCase(store, cfg.AntiSnipeWindow, cfg.BidTxTimeout)
	lifecycleUC := application.NewLifecycleUseCase(store, cfg.FeaturedAuctionsCount, cfg.AuctionDuration)
	commentUC := application.NewPostCommentUseCase(store)
	feedUC := application.NewFeedUseCase(store)
	service := application.NewAuctionService(store, placeBidUC, lifecycleUC, commentUC, feedUC)

	sweeper := application.NewSweeper(store, application.SweeperConfig{
		Interval: cfg.SweepInterval,
		Margin:   cfg.SweepMargin,
		Batch:    cfg.SweepBatch,
		Retries:  cfg.WinnerRetries,
		Backoff:  cfg.WinnerBackoff,
	})
	sweeper.Start(ctx)

	server := httpserver.NewServer()
	rest.NewHandler(service, fanoutSvc, accounts).RegisterRoutes(server.App())
	server.App().Get("/ws/auction", wsHandler.Handler(ctx))

	if err := server.Start(":"+cfg.Port, func() {
		sweeper.Stop()
		cancel()
	}); err != nil {
		log.Fatal("HTTP server failed", zap.Error(err))
	}
}
