package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/web3-arcade/backend/internal/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

type ScoreRepo struct {
	pool *pgxpool.Pool
}

func NewScoreRepo(pool *pgxpool.Pool) *ScoreRepo {
	return &ScoreRepo{pool: pool}
}

// UpsertBest records a session's score idempotently. One statement, so
// concurrent submits for the same session serialize on the row: the stored
// score only advances when the new one is strictly greater, and a claimed
// row never changes. Always returns the row as stored after the call.
func (r *ScoreRepo) UpsertBest(ctx context.Context, wallet string, score float64, sessionID string) (*models.Score, error) {
	var s models.Score
	err := r.pool.QueryRow(ctx, `
		INSERT INTO scores (wallet, score, session_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id) DO UPDATE SET
			score = CASE WHEN NOT scores.claimed AND EXCLUDED.score > scores.score
				THEN EXCLUDED.score ELSE scores.score END,
			wallet = CASE WHEN NOT scores.claimed AND EXCLUDED.score > scores.score
				THEN EXCLUDED.wallet ELSE scores.wallet END,
			ts = CASE WHEN NOT scores.claimed AND EXCLUDED.score > scores.score
				THEN now() ELSE scores.ts END
		RETURNING id, wallet, score, session_id, ts, claimed
	`, wallet, score, sessionID).Scan(
		&s.ID, &s.Wallet, &s.Score, &s.SessionID, &s.Timestamp, &s.Claimed,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetBySession looks a row up by its idempotency key and owning wallet;
// both must match.
func (r *ScoreRepo) GetBySession(ctx context.Context, sessionID, wallet string) (*models.Score, error) {
	var s models.Score
	err := r.pool.QueryRow(ctx, `
		SELECT id, wallet, score, session_id, ts, claimed
		FROM scores WHERE session_id = $1 AND wallet = $2
	`, sessionID, wallet).Scan(
		&s.ID, &s.Wallet, &s.Score, &s.SessionID, &s.Timestamp, &s.Claimed,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Bests returns a wallet's best score for the current UTC day and all-time.
// Wallets with no rows get zeros, not an error.
func (r *ScoreRepo) Bests(ctx context.Context, wallet string) (*models.BestScores, error) {
	b := models.BestScores{Wallet: wallet}
	err := r.pool.QueryRow(ctx, `
		SELECT
			COALESCE(MAX(score) FILTER (
				WHERE (ts AT TIME ZONE 'UTC')::date = (now() AT TIME ZONE 'UTC')::date
			), 0),
			COALESCE(MAX(score), 0)
		FROM scores WHERE wallet = $1
	`, wallet).Scan(&b.BestToday, &b.BestAllTime)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Top ranks wallets by their best score, descending. For the daily period
// only rows recorded on the current UTC date count. Ties order by the
// earliest inserted row so the ranking is stable across calls.
func (r *ScoreRepo) Top(ctx context.Context, period string, limit int) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT wallet, MAX(score) AS best
		FROM scores
		GROUP BY wallet
		ORDER BY best DESC, MIN(id) ASC
		LIMIT $1
	`
	if period == models.PeriodDaily {
		query = `
			SELECT wallet, MAX(score) AS best
			FROM scores
			WHERE (ts AT TIME ZONE 'UTC')::date = (now() AT TIME ZONE 'UTC')::date
			GROUP BY wallet
			ORDER BY best DESC, MIN(id) ASC
			LIMIT $1
		`
	}

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.LeaderboardEntry, 0, limit)
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.Wallet, &e.Best); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// MarkClaimed flips claimed false->true for a session. The WHERE clause is
// the race guard: of any number of concurrent claims exactly one sees an
// affected row and wins the right to mint.
func (r *ScoreRepo) MarkClaimed(ctx context.Context, sessionID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE scores SET claimed = true
		WHERE session_id = $1 AND claimed = false
	`, sessionID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// RevertClaim undoes MarkClaimed after a failed mint so the claim can be
// retried. Only the request that won MarkClaimed may call this.
func (r *ScoreRepo) RevertClaim(ctx context.Context, sessionID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE scores SET claimed = false WHERE session_id = $1
	`, sessionID)
	return err
}
