package http

import (
	"strings"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/web3-arcade/backend/internal/config"
	"github.com/web3-arcade/backend/internal/http/handlers"
	"github.com/web3-arcade/backend/internal/middleware"
	"go.uber.org/zap"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	authHandler *handlers.AuthHandler,
	leaderboardHandler *handlers.LeaderboardHandler,
	nftHandler *handlers.NFTHandler,
	chainHandler *handlers.ChainHandler,
	walletHandler *handlers.WalletHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	origins := "*"
	if len(cfg.CORSOrigins) > 0 {
		origins = strings.Join(cfg.CORSOrigins, ", ")
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	rateLimited := middleware.RateLimitMiddleware(rdb, cfg.RateLimitPerMin, time.Minute)

	// Auth (wallet challenge/response)
	auth := app.Group("/auth")
	auth.Get("/nonce/:wallet", authHandler.GetNonce)
	auth.Post("/verify", rateLimited, authHandler.Verify)

	// Leaderboard
	leaderboard := app.Group("/leaderboard")
	leaderboard.Post("/submit", rateLimited, leaderboardHandler.Submit)
	leaderboard.Get("/top", leaderboardHandler.Top)
	leaderboard.Get("/daily", leaderboardHandler.Daily)
	leaderboard.Get("/all-time", leaderboardHandler.AllTime)
	leaderboard.Get("/best/:wallet", leaderboardHandler.Best)

	// Reward claims
	nft := app.Group("/nft")
	nft.Post("/claim", rateLimited, nftHandler.Claim)

	// Chain reads
	chain := app.Group("/chain")
	chain.Get("/status", chainHandler.Status)
	chain.Get("/balance", chainHandler.Balance)
	chain.Get("/gas", chainHandler.Gas)
	chain.Get("/block/latest", chainHandler.LatestBlock)
	chain.Get("/token_balance", chainHandler.TokenBalance)

	// Wallet
	wallet := app.Group("/wallet")
	wallet.Post("/connect", walletHandler.Connect)

	// Live leaderboard feed
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
