package handlers

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v2"
	"github.com/web3-arcade/backend/internal/eth"
	"github.com/web3-arcade/backend/internal/http/dto"
	"go.uber.org/zap"
)

// ChainHandler exposes read-only chain state for the game client.
type ChainHandler struct {
	gateway *eth.Gateway
	log     *zap.Logger
}

func NewChainHandler(gateway *eth.Gateway, log *zap.Logger) *ChainHandler {
	return &ChainHandler{gateway: gateway, log: log}
}

// GET /chain/status
func (h *ChainHandler) Status(c *fiber.Ctx) error {
	info, err := h.gateway.ChainInfo(c.Context())
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Error: "web3 provider unreachable"})
	}
	return c.JSON(fiber.Map{
		"status":       "connected",
		"chain_id":     info.ChainID,
		"block_number": info.BlockNumber,
		"provider":     info.Provider,
	})
}

// GET /chain/balance?address=0x...
func (h *ChainHandler) Balance(c *fiber.Ctx) error {
	address := c.Query("address")
	if !common.IsHexAddress(address) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid wallet address"})
	}

	balance, err := h.gateway.Balance(c.Context(), address)
	if err != nil {
		h.log.Error("balance read failed", zap.String("address", address), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "failed to read balance"})
	}
	return c.JSON(fiber.Map{
		"address": address,
		"balance": balance.Text('f', 6) + " ETH",
	})
}

// GET /chain/gas
func (h *ChainHandler) Gas(c *fiber.Ctx) error {
	gas, err := h.gateway.Gas(c.Context())
	if err != nil {
		h.log.Error("gas read failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "failed to read gas"})
	}
	return c.JSON(gas)
}

// GET /chain/block/latest
func (h *ChainHandler) LatestBlock(c *fiber.Ctx) error {
	block, err := h.gateway.LatestBlock(c.Context())
	if err != nil {
		h.log.Error("block read failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "failed to read block"})
	}
	return c.JSON(block)
}

// GET /chain/token_balance?token_address=0x...&wallet_address=0x...
func (h *ChainHandler) TokenBalance(c *fiber.Ctx) error {
	tokenAddress := c.Query("token_address")
	walletAddress := c.Query("wallet_address")
	if !common.IsHexAddress(tokenAddress) || !common.IsHexAddress(walletAddress) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid token or wallet address"})
	}

	balance, err := h.gateway.TokenBalanceOf(c.Context(), tokenAddress, walletAddress)
	if err != nil {
		h.log.Error("token balance read failed", zap.String("token", tokenAddress), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "failed to read token balance"})
	}
	return c.JSON(balance)
}
