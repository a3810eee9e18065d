package handlers

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v2"
	"github.com/web3-arcade/backend/internal/http/dto"
)

type WalletHandler struct{}

func NewWalletHandler() *WalletHandler {
	return &WalletHandler{}
}

// Connect validates the wallet address the game client reports and echoes
// its checksum form. No state; auth happens via the nonce flow.
// POST /wallet/connect
func (h *WalletHandler) Connect(c *fiber.Ctx) error {
	var req dto.ConnectWalletRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if !common.IsHexAddress(req.Wallet) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid wallet address"})
	}
	return c.JSON(dto.ConnectWalletResponse{
		OK:     true,
		Wallet: common.HexToAddress(req.Wallet).Hex(),
	})
}
