package services

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/web3-arcade/backend/internal/events"
	"github.com/web3-arcade/backend/internal/models"
	"github.com/web3-arcade/backend/internal/repositories"
	"go.uber.org/zap"
)

// --- signing helpers ---

func newWallet(t *testing.T) (*ecdsa.PrivateKey, string) {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return key, crypto.PubkeyToAddress(key.PublicKey).Hex()
}

func sign(t *testing.T, key *ecdsa.PrivateKey, message string) string {
	t.Helper()
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return hex.EncodeToString(sig)
}

// --- in-memory score store ---

type fakeScoreStore struct {
	mu     sync.Mutex
	rows   map[string]*models.Score // keyed by session_id
	nextID int64
}

func newFakeScoreStore() *fakeScoreStore {
	return &fakeScoreStore{rows: make(map[string]*models.Score)}
}

func (f *fakeScoreStore) seed(wallet string, score float64, sessionID string, ts time.Time, claimed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.rows[sessionID] = &models.Score{
		ID: f.nextID, Wallet: wallet, Score: score,
		SessionID: sessionID, Timestamp: ts, Claimed: claimed,
	}
}

func (f *fakeScoreStore) UpsertBest(_ context.Context, wallet string, score float64, sessionID string) (*models.Score, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[sessionID]
	if !ok {
		f.nextID++
		row = &models.Score{
			ID: f.nextID, Wallet: wallet, Score: score,
			SessionID: sessionID, Timestamp: time.Now().UTC(),
		}
		f.rows[sessionID] = row
	} else if !row.Claimed && score > row.Score {
		row.Score = score
		row.Wallet = wallet
		row.Timestamp = time.Now().UTC()
	}
	cp := *row
	return &cp, nil
}

func (f *fakeScoreStore) GetBySession(_ context.Context, sessionID, wallet string) (*models.Score, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[sessionID]
	if !ok || row.Wallet != wallet {
		return nil, repositories.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (f *fakeScoreStore) Bests(_ context.Context, wallet string) (*models.BestScores, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	today := time.Now().UTC().Truncate(24 * time.Hour)
	b := &models.BestScores{Wallet: wallet}
	for _, row := range f.rows {
		if row.Wallet != wallet {
			continue
		}
		if row.Score > b.BestAllTime {
			b.BestAllTime = row.Score
		}
		if !row.Timestamp.UTC().Truncate(24*time.Hour).Before(today) && row.Score > b.BestToday {
			b.BestToday = row.Score
		}
	}
	return b, nil
}

func (f *fakeScoreStore) Top(_ context.Context, period string, limit int) ([]models.LeaderboardEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	today := time.Now().UTC().Truncate(24 * time.Hour)

	type agg struct {
		best  float64
		minID int64
	}
	byWallet := map[string]*agg{}
	for _, row := range f.rows {
		if period == models.PeriodDaily && row.Timestamp.UTC().Truncate(24*time.Hour).Before(today) {
			continue
		}
		a, ok := byWallet[row.Wallet]
		if !ok {
			byWallet[row.Wallet] = &agg{best: row.Score, minID: row.ID}
			continue
		}
		if row.Score > a.best {
			a.best = row.Score
		}
		if row.ID < a.minID {
			a.minID = row.ID
		}
	}

	entries := make([]models.LeaderboardEntry, 0, len(byWallet))
	ids := map[string]int64{}
	for wallet, a := range byWallet {
		entries = append(entries, models.LeaderboardEntry{Wallet: wallet, Best: a.best})
		ids[wallet] = a.minID
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Best != entries[j].Best {
			return entries[i].Best > entries[j].Best
		}
		return ids[entries[i].Wallet] < ids[entries[j].Wallet]
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (f *fakeScoreStore) MarkClaimed(_ context.Context, sessionID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[sessionID]
	if !ok || row.Claimed {
		return false, nil
	}
	row.Claimed = true
	return true, nil
}

func (f *fakeScoreStore) RevertClaim(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row, ok := f.rows[sessionID]; ok {
		row.Claimed = false
	}
	return nil
}

// --- in-memory nonce store ---

type fakeNonceStore struct {
	mu     sync.Mutex
	nonces map[string]*models.Nonce // keyed by value
	seq    int
}

func newFakeNonceStore() *fakeNonceStore {
	return &fakeNonceStore{nonces: make(map[string]*models.Nonce)}
}

func (f *fakeNonceStore) Create(_ context.Context, wallet string, _ time.Duration) (*models.Nonce, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	n := &models.Nonce{
		ID:        int64(f.seq),
		Wallet:    wallet,
		Value:     fmt.Sprintf("nonce-%04d", f.seq),
		CreatedAt: time.Now(),
	}
	f.nonces[n.Value] = n
	return n, nil
}

func (f *fakeNonceStore) Consume(_ context.Context, wallet, value string, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.nonces[value]
	if !ok || n.Wallet != wallet || time.Since(n.CreatedAt) > ttl {
		return false, nil
	}
	delete(f.nonces, value)
	return true, nil
}

// --- minter and publisher fakes ---

type mintCall struct {
	wallet  string
	tokenID int64
	amount  int64
}

type fakeMinter struct {
	mu    sync.Mutex
	calls []mintCall
	fail  bool
}

func (f *fakeMinter) MintPoints(_ context.Context, wallet string, tokenID, amount int64) (string, error) {
	if f.fail {
		return "", errors.New("rpc unavailable")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, mintCall{wallet: wallet, tokenID: tokenID, amount: amount})
	return "0xdeadbeef", nil
}

func (f *fakeMinter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (f *fakePublisher) Publish(_ context.Context, _ string, event events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
