package models

import "time"

// Score is one game session's row. session_id is the idempotency key:
// there is exactly one row per session, ever. claimed flips false->true
// once and never back.
type Score struct {
	ID        int64     `json:"id"`
	Wallet    string    `json:"wallet"` // lowercase
	Score     float64   `json:"score"`
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
	Claimed   bool      `json:"claimed"`
}

// LeaderboardEntry is a derived (wallet, best score) pair, never stored.
type LeaderboardEntry struct {
	Wallet string  `json:"wallet"`
	Best   float64 `json:"best"`
}

// BestScores is a wallet's best for the current UTC day and overall.
type BestScores struct {
	Wallet      string  `json:"wallet"`
	BestToday   float64 `json:"best_today"`
	BestAllTime float64 `json:"best_all_time"`
}

// Leaderboard periods.
const (
	PeriodDaily   = "daily"
	PeriodAllTime = "alltime"
)

// DayTokenID maps a session's record date to its reward bucket:
// all claims on the same UTC calendar day mint the same token id,
// e.g. 2025-10-31 -> 20251031.
func DayTokenID(t time.Time) int64 {
	u := t.UTC()
	return int64(u.Year())*10_000 + int64(u.Month())*100 + int64(u.Day())
}
