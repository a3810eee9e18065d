package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/web3-arcade/backend/internal/eth"
	"github.com/web3-arcade/backend/internal/events"
	"github.com/web3-arcade/backend/internal/models"
	"go.uber.org/zap"
)

// DefaultTopLimit caps a leaderboard page when the caller doesn't ask for one.
const DefaultTopLimit = 10

type scoreStore interface {
	UpsertBest(ctx context.Context, wallet string, score float64, sessionID string) (*models.Score, error)
	GetBySession(ctx context.Context, sessionID, wallet string) (*models.Score, error)
	Bests(ctx context.Context, wallet string) (*models.BestScores, error)
	Top(ctx context.Context, period string, limit int) ([]models.LeaderboardEntry, error)
	MarkClaimed(ctx context.Context, sessionID string) (bool, error)
	RevertClaim(ctx context.Context, sessionID string) error
}

// LeaderboardService is the score ledger: signature-gated idempotent
// submission, per-wallet bests and ranked views.
type LeaderboardService struct {
	scores    scoreStore
	guard     *eth.ReplayGuard
	publisher events.Publisher
	log       *zap.Logger
}

func NewLeaderboardService(scores scoreStore, guard *eth.ReplayGuard, publisher events.Publisher, log *zap.Logger) *LeaderboardService {
	return &LeaderboardService{scores: scores, guard: guard, publisher: publisher, log: log}
}

type SubmitRequest struct {
	Wallet    string
	Score     float64
	SessionID string
	Timestamp int64
	Signature string
}

type SubmitResult struct {
	Wallet      string  `json:"wallet"`
	Score       float64 `json:"score"`
	BestToday   float64 `json:"best_today"`
	BestAllTime float64 `json:"best_all_time"`
	Claimed     bool    `json:"claimed"`
}

// Submit records a session score. Replay and signature checks run first and
// fail closed; the upsert keys on session_id, keeping the best score ever
// offered for it, so retries with the same payload are harmless.
func (s *LeaderboardService) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	if err := s.guard.Check(req.Timestamp); err != nil {
		return nil, ErrExpiredTimestamp
	}

	message := eth.SubmitMessage(req.Wallet, req.Score, req.SessionID, req.Timestamp)
	if !eth.VerifySignature(req.Wallet, message, req.Signature) {
		s.log.Warn("score submission signature rejected",
			zap.String("wallet", strings.ToLower(req.Wallet)),
			zap.String("session_id", req.SessionID),
		)
		return nil, ErrInvalidSignature
	}

	wallet := strings.ToLower(req.Wallet)

	row, err := s.scores.UpsertBest(ctx, wallet, req.Score, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("upsert score: %w", err)
	}

	bests, err := s.scores.Bests(ctx, wallet)
	if err != nil {
		return nil, fmt.Errorf("load bests: %w", err)
	}

	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, events.StreamLeaderboard, events.Event{
			Type: events.EventScoreSubmitted,
			Payload: map[string]any{
				"wallet":     wallet,
				"score":      row.Score,
				"session_id": row.SessionID,
			},
		})
	}

	return &SubmitResult{
		Wallet:      wallet,
		Score:       row.Score,
		BestToday:   bests.BestToday,
		BestAllTime: bests.BestAllTime,
		Claimed:     row.Claimed,
	}, nil
}

// Top returns up to limit (wallet, best) pairs for the period, best first.
// Unknown periods fall back to all-time; a limit <= 0 means the default.
func (s *LeaderboardService) Top(ctx context.Context, period string, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	return s.scores.Top(ctx, NormalizePeriod(period), limit)
}

// Bests returns a wallet's best for today (UTC) and all-time.
func (s *LeaderboardService) Bests(ctx context.Context, wallet string) (*models.BestScores, error) {
	return s.scores.Bests(ctx, strings.ToLower(wallet))
}

// NormalizePeriod folds the route spellings ("daily", "all-time", "alltime")
// onto the two canonical periods.
func NormalizePeriod(period string) string {
	switch strings.ToLower(period) {
	case models.PeriodDaily:
		return models.PeriodDaily
	default:
		return models.PeriodAllTime
	}
}
