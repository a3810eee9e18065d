package handlers

import (
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v2"
	"github.com/web3-arcade/backend/internal/http/dto"
	"github.com/web3-arcade/backend/internal/models"
	"github.com/web3-arcade/backend/internal/services"
	"go.uber.org/zap"
)

type LeaderboardHandler struct {
	leaderboard *services.LeaderboardService
	topLimit    int
	log         *zap.Logger
}

func NewLeaderboardHandler(leaderboard *services.LeaderboardService, topLimit int, log *zap.Logger) *LeaderboardHandler {
	if topLimit <= 0 {
		topLimit = services.DefaultTopLimit
	}
	return &LeaderboardHandler{leaderboard: leaderboard, topLimit: topLimit, log: log}
}

// Submit records a signed session score.
// POST /leaderboard/submit
func (h *LeaderboardHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if !common.IsHexAddress(req.Wallet) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid wallet address"})
	}
	if req.SessionID == "" || req.Signature == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "session_id and signature are required"})
	}

	result, err := h.leaderboard.Submit(c.Context(), services.SubmitRequest{
		Wallet:    req.Wallet,
		Score:     req.Score,
		SessionID: req.SessionID,
		Timestamp: req.Timestamp,
		Signature: req.Signature,
	})
	switch {
	case errors.Is(err, services.ErrExpiredTimestamp):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid timestamp (too old/new)"})
	case errors.Is(err, services.ErrInvalidSignature):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid signature"})
	case err != nil:
		h.log.Error("score submission failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	return c.JSON(dto.SubmitScoreResponse{
		Status:      "ok",
		Wallet:      result.Wallet,
		Score:       result.Score,
		BestToday:   result.BestToday,
		BestAllTime: result.BestAllTime,
		Claimed:     result.Claimed,
	})
}

// Top returns the ranked leaderboard.
// GET /leaderboard/top?period=daily|alltime&limit=N
func (h *LeaderboardHandler) Top(c *fiber.Ctx) error {
	period := services.NormalizePeriod(c.Query("period", models.PeriodAllTime))
	limit := c.QueryInt("limit", h.topLimit)
	return h.top(c, period, limit)
}

// Daily and AllTime are route aliases kept for the game client.
// GET /leaderboard/daily, GET /leaderboard/all-time
func (h *LeaderboardHandler) Daily(c *fiber.Ctx) error {
	return h.top(c, models.PeriodDaily, h.topLimit)
}

func (h *LeaderboardHandler) AllTime(c *fiber.Ctx) error {
	return h.top(c, models.PeriodAllTime, h.topLimit)
}

func (h *LeaderboardHandler) top(c *fiber.Ctx, period string, limit int) error {
	entries, err := h.leaderboard.Top(c.Context(), period, limit)
	if err != nil {
		h.log.Error("leaderboard query failed", zap.String("period", period), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(dto.LeaderboardResponse{
		Status:      "ok",
		Period:      period,
		UpdatedAt:   time.Now().UTC(),
		Leaderboard: entries,
	})
}

// Best returns one wallet's daily and all-time best.
// GET /leaderboard/best/:wallet
func (h *LeaderboardHandler) Best(c *fiber.Ctx) error {
	wallet := c.Params("wallet")
	if !common.IsHexAddress(wallet) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid wallet address"})
	}

	bests, err := h.leaderboard.Bests(c.Context(), wallet)
	if err != nil {
		h.log.Error("bests query failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(bests)
}
