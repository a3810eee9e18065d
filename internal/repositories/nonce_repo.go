package repositories

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/web3-arcade/backend/internal/models"
)

type NonceRepo struct {
	pool *pgxpool.Pool
}

func NewNonceRepo(pool *pgxpool.Pool) *NonceRepo {
	return &NonceRepo{pool: pool}
}

// Create issues a fresh login nonce for wallet. Expired rows are pruned on
// the way in so stale challenges don't pile up.
func (r *NonceRepo) Create(ctx context.Context, wallet string, ttl time.Duration) (*models.Nonce, error) {
	_, _ = r.pool.Exec(ctx, `
		DELETE FROM nonces WHERE created_at < now() - make_interval(secs => $1)
	`, ttl.Seconds())

	n := &models.Nonce{Wallet: wallet, Value: generateNonce(16)}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO nonces (wallet, value) VALUES ($1, $2)
		RETURNING id, created_at
	`, n.Wallet, n.Value).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// Consume deletes the nonce if it exists for wallet and is still within its
// TTL, reporting whether anything was deleted. A second call for the same
// value always returns false: the delete is the single-use guarantee.
func (r *NonceRepo) Consume(ctx context.Context, wallet, value string, ttl time.Duration) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM nonces
		WHERE value = $1 AND wallet = $2
		  AND created_at > now() - make_interval(secs => $3)
	`, value, wallet, ttl.Seconds())
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// generateNonce returns n cryptographically random bytes hex-encoded;
// 16 bytes gives the 128 bits of entropy the login challenge needs.
func generateNonce(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
