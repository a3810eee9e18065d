package services

import (
	"context"
	"crypto/ecdsa"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/web3-arcade/backend/internal/eth"
	"github.com/web3-arcade/backend/internal/events"
)

func newClaim(store *fakeScoreStore, minter Minter, pub events.Publisher) *ClaimService {
	return NewClaimService(store, eth.NewReplayGuard(300*time.Second), minter, pub, testLogger())
}

func signedClaim(t *testing.T, key *ecdsa.PrivateKey, wallet, sessionID string) ClaimRequest {
	t.Helper()
	ts := time.Now().Unix()
	return ClaimRequest{
		Wallet:    wallet,
		SessionID: sessionID,
		Timestamp: ts,
		Signature: sign(t, key, eth.ClaimMessage(wallet, sessionID, ts)),
	}
}

func TestClaim_HappyPath(t *testing.T) {
	key, wallet := newWallet(t)
	store := newFakeScoreStore()
	store.seed(strings.ToLower(wallet), 100.7, "s1", time.Date(2025, 10, 31, 14, 0, 0, 0, time.UTC), false)
	minter := &fakeMinter{}
	pub := &fakePublisher{}
	svc := newClaim(store, minter, pub)

	result, err := svc.Claim(context.Background(), signedClaim(t, key, wallet, "s1"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if result.Status != "minted" {
		t.Errorf("status = %s, want minted", result.Status)
	}
	if result.TokenID != 20251031 {
		t.Errorf("token_id = %d, want 20251031", result.TokenID)
	}
	if result.Amount != 100 {
		t.Errorf("amount = %d, want floor(100.7) = 100", result.Amount)
	}
	if result.Tx != "0xdeadbeef" {
		t.Errorf("tx = %s", result.Tx)
	}

	if minter.callCount() != 1 {
		t.Fatalf("mint calls = %d, want 1", minter.callCount())
	}
	call := minter.calls[0]
	if call.wallet != strings.ToLower(wallet) || call.tokenID != 20251031 || call.amount != 100 {
		t.Errorf("mint called with %+v", call)
	}

	if !store.rows["s1"].Claimed {
		t.Error("row must be claimed after successful mint")
	}
	if len(pub.events) != 1 || pub.events[0].Type != events.EventRewardClaimed {
		t.Errorf("expected one reward_claimed event, got %+v", pub.events)
	}
}

func TestClaim_SecondClaimRejected(t *testing.T) {
	key, wallet := newWallet(t)
	store := newFakeScoreStore()
	store.seed(strings.ToLower(wallet), 100, "s1", time.Now().UTC(), false)
	minter := &fakeMinter{}
	svc := newClaim(store, minter, nil)
	ctx := context.Background()

	if _, err := svc.Claim(ctx, signedClaim(t, key, wallet, "s1")); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if _, err := svc.Claim(ctx, signedClaim(t, key, wallet, "s1")); err != ErrAlreadyClaimed {
		t.Fatalf("second claim: got %v, want ErrAlreadyClaimed", err)
	}
	if minter.callCount() != 1 {
		t.Errorf("mint calls = %d, want exactly 1", minter.callCount())
	}
}

func TestClaim_UnknownSession(t *testing.T) {
	key, wallet := newWallet(t)
	svc := newClaim(newFakeScoreStore(), &fakeMinter{}, nil)

	if _, err := svc.Claim(context.Background(), signedClaim(t, key, wallet, "nope")); err != ErrSessionNotFound {
		t.Fatalf("got %v, want ErrSessionNotFound", err)
	}
}

func TestClaim_WalletMustOwnSession(t *testing.T) {
	key, wallet := newWallet(t)
	store := newFakeScoreStore()
	store.seed("0xsomeoneelse", 100, "s1", time.Now().UTC(), false)
	svc := newClaim(store, &fakeMinter{}, nil)

	if _, err := svc.Claim(context.Background(), signedClaim(t, key, wallet, "s1")); err != ErrSessionNotFound {
		t.Fatalf("got %v, want ErrSessionNotFound for someone else's session", err)
	}
}

func TestClaim_ExpiredTimestamp(t *testing.T) {
	key, wallet := newWallet(t)
	svc := newClaim(newFakeScoreStore(), &fakeMinter{}, nil)

	ts := time.Now().Unix() - 301
	req := ClaimRequest{
		Wallet:    wallet,
		SessionID: "s1",
		Timestamp: ts,
		Signature: sign(t, key, eth.ClaimMessage(wallet, "s1", ts)),
	}
	if _, err := svc.Claim(context.Background(), req); err != ErrExpiredTimestamp {
		t.Fatalf("got %v, want ErrExpiredTimestamp", err)
	}
}

func TestClaim_BadSignature(t *testing.T) {
	_, wallet := newWallet(t)
	attackerKey, _ := newWallet(t)
	store := newFakeScoreStore()
	store.seed(strings.ToLower(wallet), 100, "s1", time.Now().UTC(), false)
	minter := &fakeMinter{}
	svc := newClaim(store, minter, nil)

	if _, err := svc.Claim(context.Background(), signedClaim(t, attackerKey, wallet, "s1")); err != ErrInvalidSignature {
		t.Fatalf("got %v, want ErrInvalidSignature", err)
	}
	if minter.callCount() != 0 {
		t.Error("mint must not run on bad signature")
	}
}

func TestClaim_MintFailureAllowsRetry(t *testing.T) {
	key, wallet := newWallet(t)
	store := newFakeScoreStore()
	store.seed(strings.ToLower(wallet), 100, "s1", time.Now().UTC(), false)
	minter := &fakeMinter{fail: true}
	svc := newClaim(store, minter, nil)
	ctx := context.Background()

	if _, err := svc.Claim(ctx, signedClaim(t, key, wallet, "s1")); err == nil {
		t.Fatal("expected error on mint failure")
	}
	if store.rows["s1"].Claimed {
		t.Fatal("row must not stay claimed after a failed mint")
	}

	// The chain recovers; the retry succeeds.
	minter.fail = false
	if _, err := svc.Claim(ctx, signedClaim(t, key, wallet, "s1")); err != nil {
		t.Fatalf("retry after mint failure: %v", err)
	}
	if !store.rows["s1"].Claimed {
		t.Error("row must be claimed after successful retry")
	}
}

func TestClaim_ConcurrentClaimsMintOnce(t *testing.T) {
	key, wallet := newWallet(t)
	store := newFakeScoreStore()
	store.seed(strings.ToLower(wallet), 100, "s1", time.Now().UTC(), false)
	minter := &fakeMinter{}
	svc := newClaim(store, minter, nil)

	const n = 8
	var wg sync.WaitGroup
	results := make(chan error, n)
	req := signedClaim(t, key, wallet, "s1")

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Claim(context.Background(), req)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded int
	for err := range results {
		if err == nil {
			succeeded++
		} else if err != ErrAlreadyClaimed {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("successful claims = %d, want exactly 1", succeeded)
	}
	if minter.callCount() != 1 {
		t.Errorf("mint calls = %d, want exactly 1", minter.callCount())
	}
}
