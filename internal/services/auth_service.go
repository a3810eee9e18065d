package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/web3-arcade/backend/internal/eth"
	"github.com/web3-arcade/backend/internal/models"
	"go.uber.org/zap"
)

type nonceStore interface {
	Create(ctx context.Context, wallet string, ttl time.Duration) (*models.Nonce, error)
	Consume(ctx context.Context, wallet, value string, ttl time.Duration) (bool, error)
}

// AuthService runs the challenge/response login: issue a single-use nonce,
// verify the wallet's signature over the canonical login message, burn the
// nonce on success.
type AuthService struct {
	nonces nonceStore
	ttl    time.Duration
	log    *zap.Logger
}

func NewAuthService(nonces nonceStore, ttl time.Duration, log *zap.Logger) *AuthService {
	return &AuthService{nonces: nonces, ttl: ttl, log: log}
}

type Challenge struct {
	Wallet  string `json:"wallet"`
	Nonce   string `json:"nonce"`
	Message string `json:"message"`
}

// IssueNonce creates a login challenge for wallet and returns the exact
// message the client must sign.
func (s *AuthService) IssueNonce(ctx context.Context, wallet string) (*Challenge, error) {
	wallet = strings.ToLower(wallet)
	n, err := s.nonces.Create(ctx, wallet, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("create nonce: %w", err)
	}
	return &Challenge{
		Wallet:  wallet,
		Nonce:   n.Value,
		Message: eth.LoginMessage(wallet, n.Value),
	}, nil
}

// VerifyLogin checks the signature over the login message and consumes the
// nonce. A consumed, expired or never-issued nonce fails exactly like a bad
// signature: the caller only ever learns "invalid".
func (s *AuthService) VerifyLogin(ctx context.Context, wallet, nonce, signature string) (string, error) {
	walletLower := strings.ToLower(wallet)

	message := eth.LoginMessage(walletLower, nonce)
	if !eth.VerifySignature(wallet, message, signature) {
		s.log.Warn("login signature rejected", zap.String("wallet", walletLower))
		return "", ErrInvalidSignature
	}

	ok, err := s.nonces.Consume(ctx, walletLower, nonce, s.ttl)
	if err != nil {
		return "", fmt.Errorf("consume nonce: %w", err)
	}
	if !ok {
		s.log.Warn("login nonce not consumable", zap.String("wallet", walletLower))
		return "", ErrInvalidSignature
	}

	return walletLower, nil
}
