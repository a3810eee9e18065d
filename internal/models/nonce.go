package models

import "time"

// Nonce is a single-use login challenge bound to a wallet. It is deleted
// the moment a verification consumes it; rows older than the configured
// TTL are dead even if still present.
type Nonce struct {
	ID        int64     `json:"id"`
	Wallet    string    `json:"wallet"` // lowercase
	Value     string    `json:"nonce"`
	CreatedAt time.Time `json:"created_at"`
}
