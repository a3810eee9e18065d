package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/web3-arcade/backend/internal/config"
	"github.com/web3-arcade/backend/internal/db"
	"github.com/web3-arcade/backend/internal/eth"
	"github.com/web3-arcade/backend/internal/events"
	apphttp "github.com/web3-arcade/backend/internal/http"
	"github.com/web3-arcade/backend/internal/http/handlers"
	"github.com/web3-arcade/backend/internal/repositories"
	"github.com/web3-arcade/backend/internal/services"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, "migrations", log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Chain gateway
	gateway, err := eth.NewGateway(ctx, eth.GatewayConfig{
		ProviderURL:     cfg.Web3Provider,
		ChainID:         cfg.ChainID,
		ContractAddress: cfg.RewardContract,
		MinterKeyHex:    cfg.MinterKey,
	}, log)
	if err != nil {
		log.Fatal("failed to create chain gateway", zap.Error(err))
	}
	defer gateway.Close()
	if gateway.Connected(ctx) {
		log.Info("web3 provider connected", zap.String("provider", cfg.Web3Provider))
	} else {
		log.Warn("web3 provider unreachable at startup", zap.String("provider", cfg.Web3Provider))
	}

	// Repositories
	scoreRepo := repositories.NewScoreRepo(pool)
	nonceRepo := repositories.NewNonceRepo(pool)

	// Events
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	// Services
	guard := eth.NewReplayGuard(cfg.ReplayWindow)
	authService := services.NewAuthService(nonceRepo, cfg.NonceTTL, log)
	leaderboardService := services.NewLeaderboardService(scoreRepo, guard, publisher, log)
	claimService := services.NewClaimService(scoreRepo, guard, gateway, publisher, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, log)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService, cfg.TopLimit, log)
	nftHandler := handlers.NewNFTHandler(claimService, log)
	chainHandler := handlers.NewChainHandler(gateway, log)
	walletHandler := handlers.NewWalletHandler()
	wsHub := handlers.NewWSHub(subscriber, log)

	wsHub.Start(ctx)

	// Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb, authHandler, leaderboardHandler, nftHandler, chainHandler, walletHandler, wsHub)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
