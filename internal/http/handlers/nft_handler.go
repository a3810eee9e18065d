package handlers

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v2"
	"github.com/web3-arcade/backend/internal/http/dto"
	"github.com/web3-arcade/backend/internal/services"
	"go.uber.org/zap"
)

type NFTHandler struct {
	claimService *services.ClaimService
	log          *zap.Logger
}

func NewNFTHandler(claimService *services.ClaimService, log *zap.Logger) *NFTHandler {
	return &NFTHandler{claimService: claimService, log: log}
}

// Claim converts a session's score into a one-time ERC-1155 reward mint
// (1 point = 1 token, token id = YYYYMMDD of the session's record date).
// POST /nft/claim
func (h *NFTHandler) Claim(c *fiber.Ctx) error {
	var req dto.ClaimRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if !common.IsHexAddress(req.Wallet) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid wallet address"})
	}
	if req.SessionID == "" || req.Signature == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "session_id and signature are required"})
	}

	result, err := h.claimService.Claim(c.Context(), services.ClaimRequest{
		Wallet:    req.Wallet,
		SessionID: req.SessionID,
		Timestamp: req.Timestamp,
		Signature: req.Signature,
	})
	switch {
	case errors.Is(err, services.ErrExpiredTimestamp):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid timestamp (too old/new)"})
	case errors.Is(err, services.ErrInvalidSignature):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid signature"})
	case errors.Is(err, services.ErrSessionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "session not found"})
	case errors.Is(err, services.ErrAlreadyClaimed):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "already claimed"})
	case err != nil:
		h.log.Error("claim failed", zap.String("session_id", req.SessionID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "mint failed"})
	}

	return c.JSON(result)
}
