package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/web3-arcade/backend/internal/eth"
	"github.com/web3-arcade/backend/internal/events"
	"github.com/web3-arcade/backend/internal/models"
	"github.com/web3-arcade/backend/internal/repositories"
	"go.uber.org/zap"
)

// Minter issues the on-chain reward. Satisfied by *eth.Gateway; tests plug
// in a fake.
type Minter interface {
	MintPoints(ctx context.Context, wallet string, tokenID, amount int64) (string, error)
}

// ClaimService converts a session's score into a one-time reward mint.
// A session claims exactly once, ever.
type ClaimService struct {
	scores    scoreStore
	guard     *eth.ReplayGuard
	minter    Minter
	publisher events.Publisher
	log       *zap.Logger
}

func NewClaimService(scores scoreStore, guard *eth.ReplayGuard, minter Minter, publisher events.Publisher, log *zap.Logger) *ClaimService {
	return &ClaimService{scores: scores, guard: guard, minter: minter, publisher: publisher, log: log}
}

type ClaimRequest struct {
	Wallet    string
	SessionID string
	Timestamp int64
	Signature string
}

type ClaimResult struct {
	Status  string `json:"status"`
	Wallet  string `json:"wallet"`
	TokenID int64  `json:"token_id"`
	Amount  int64  `json:"amount"`
	Tx      string `json:"tx"`
}

// Claim validates the signed claim, wins (or loses) the claimed flag, then
// mints. The conditional flag update runs before the mint so two concurrent
// claims can't both reach the chain; if the mint fails the flag is reverted
// and the caller may retry.
func (s *ClaimService) Claim(ctx context.Context, req ClaimRequest) (*ClaimResult, error) {
	if err := s.guard.Check(req.Timestamp); err != nil {
		return nil, ErrExpiredTimestamp
	}

	message := eth.ClaimMessage(req.Wallet, req.SessionID, req.Timestamp)
	if !eth.VerifySignature(req.Wallet, message, req.Signature) {
		s.log.Warn("claim signature rejected",
			zap.String("wallet", strings.ToLower(req.Wallet)),
			zap.String("session_id", req.SessionID),
		)
		return nil, ErrInvalidSignature
	}

	wallet := strings.ToLower(req.Wallet)

	row, err := s.scores.GetBySession(ctx, req.SessionID, wallet)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if row.Claimed {
		return nil, ErrAlreadyClaimed
	}

	won, err := s.scores.MarkClaimed(ctx, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("mark claimed: %w", err)
	}
	if !won {
		// A concurrent claim got there between the read and the update.
		return nil, ErrAlreadyClaimed
	}

	tokenID := models.DayTokenID(row.Timestamp)
	amount := int64(math.Floor(row.Score))

	tx, err := s.minter.MintPoints(ctx, wallet, tokenID, amount)
	if err != nil {
		if revertErr := s.scores.RevertClaim(ctx, req.SessionID); revertErr != nil {
			s.log.Error("failed to revert claim after mint failure",
				zap.String("session_id", req.SessionID),
				zap.Error(revertErr),
			)
		}
		return nil, fmt.Errorf("mint reward: %w", err)
	}

	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, events.StreamLeaderboard, events.Event{
			Type: events.EventRewardClaimed,
			Payload: map[string]any{
				"wallet":   wallet,
				"token_id": tokenID,
				"amount":   amount,
				"tx":       tx,
			},
		})
	}

	s.log.Info("reward claimed",
		zap.String("wallet", wallet),
		zap.String("session_id", req.SessionID),
		zap.Int64("token_id", tokenID),
		zap.Int64("amount", amount),
	)

	return &ClaimResult{
		Status:  "minted",
		Wallet:  wallet,
		TokenID: tokenID,
		Amount:  amount,
		Tx:      tx,
	}, nil
}
