package dto

import (
	"time"

	"github.com/web3-arcade/backend/internal/models"
)

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type VerifyResponse struct {
	Verified bool   `json:"verified"`
	Wallet   string `json:"wallet"`
}

type SubmitScoreResponse struct {
	Status      string  `json:"status"`
	Wallet      string  `json:"wallet"`
	Score       float64 `json:"score"`
	BestToday   float64 `json:"best_today"`
	BestAllTime float64 `json:"best_all_time"`
	Claimed     bool    `json:"claimed"`
}

type LeaderboardResponse struct {
	Status      string                    `json:"status"`
	Period      string                    `json:"period"`
	UpdatedAt   time.Time                 `json:"updated_at"`
	Leaderboard []models.LeaderboardEntry `json:"leaderboard"`
}

type ConnectWalletResponse struct {
	OK     bool   `json:"ok"`
	Wallet string `json:"wallet"` // checksum form
}
