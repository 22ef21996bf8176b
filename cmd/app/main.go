package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vantail/collectroom/internal/bootstrap"
	"github.com/vantail/collectroom/internal/config"
	"github.com/vantail/collectroom/internal/database"
	"github.com/vantail/collectroom/internal/freepull"
	"github.com/vantail/collectroom/internal/handler"
	"github.com/vantail/collectroom/internal/reveal"
	"github.com/vantail/collectroom/internal/server"
	"github.com/vantail/collectroom/internal/transfer"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	dbPool, err := database.NewPool(cfg.GetDBConnString(), config.DefaultDBMaxConnections, config.DefaultDBMaxIdleTime, config.DefaultDBMaxLifetime)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	eventBus, sseHub, err := bootstrap.InitializeEventSystem()
	if err != nil {
		slog.Error("Failed to initialize event system", "error", err)
		os.Exit(1)
	}
	sseHub.Start()

	repos := bootstrap.InitializeRepositories(dbPool)

	revealService := reveal.NewService(repos.Collection, eventBus)
	transferService := transfer.NewService(repos.Transfer, eventBus, cfg.ClaimBaseURL, cfg.TransferTTL)
	freePullService := freepull.NewService(repos.FreePull, eventBus)

	sweeper := transfer.NewExpirySweeper(repos.Transfer, eventBus, cfg.TransferSweepInterval)
	sweeper.Start()

	handler.InitValidator()

	srv := server.NewServer(cfg.Port, cfg.APIKey, cfg.TrustedProxies, dbPool, repos.Collection, revealService, transferService, freePullService, eventBus, sseHub)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(ctx, bootstrap.ShutdownComponents{
		Server:        srv,
		ExpirySweeper: sweeper,
		SSEHub:        sseHub,
	})
}
