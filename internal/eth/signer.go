package eth

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"
)

// RecoverAddress recovers the signer address of an EIP-191 personal_sign
// signature over message. The personal-message prefix keeps auth signatures
// in their own domain: a signature over raw transaction bytes can never be
// replayed here.
func RecoverAddress(message string, signature []byte) (string, error) {
	if len(signature) != crypto.SignatureLength {
		return "", fmt.Errorf("signature must be %d bytes, got %d", crypto.SignatureLength, len(signature))
	}

	sig := make([]byte, crypto.SignatureLength)
	copy(sig, signature)
	// Wallets emit V as 27/28, SigToPub expects 0/1.
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	hash := accounts.TextHash([]byte(message))
	pub, err := crypto.SigToPub(hash, sig)
	if err != nil {
		return "", fmt.Errorf("recover pubkey: %w", err)
	}
	return crypto.PubkeyToAddress(*pub).Hex(), nil
}

// VerifySignature reports whether sigHex over message was produced by the
// key behind expectedWallet. Address comparison is case-insensitive and
// malformed input is a plain false, never a panic.
func VerifySignature(expectedWallet, message, sigHex string) bool {
	sig, err := hex.DecodeString(strings.TrimPrefix(sigHex, "0x"))
	if err != nil {
		return false
	}
	recovered, err := RecoverAddress(message, sig)
	if err != nil {
		return false
	}
	return strings.EqualFold(recovered, expectedWallet)
}
