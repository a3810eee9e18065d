package handlers

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v2"
	"github.com/web3-arcade/backend/internal/http/dto"
	"github.com/web3-arcade/backend/internal/services"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *services.AuthService
	log         *zap.Logger
}

func NewAuthHandler(authService *services.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

// GetNonce issues a single-use login challenge.
// GET /auth/nonce/:wallet
func (h *AuthHandler) GetNonce(c *fiber.Ctx) error {
	wallet := c.Params("wallet")
	if !common.IsHexAddress(wallet) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid wallet address"})
	}

	challenge, err := h.authService.IssueNonce(c.Context(), wallet)
	if err != nil {
		h.log.Error("failed to issue nonce", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	return c.JSON(challenge)
}

// Verify checks the login signature and burns the nonce.
// POST /auth/verify
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	var req dto.VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if req.Wallet == "" || req.Nonce == "" || req.Signature == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "wallet, nonce and signature are required"})
	}

	wallet, err := h.authService.VerifyLogin(c.Context(), req.Wallet, req.Nonce, req.Signature)
	if errors.Is(err, services.ErrInvalidSignature) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid signature"})
	}
	if err != nil {
		h.log.Error("login verification failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	return c.JSON(dto.VerifyResponse{Verified: true, Wallet: wallet})
}
