package dto

type VerifyRequest struct {
	Wallet    string `json:"wallet"`
	Nonce     string `json:"nonce"`
	Signature string `json:"signature"`
}

type SubmitScoreRequest struct {
	Wallet    string  `json:"wallet"`
	Score     float64 `json:"score"`
	SessionID string  `json:"session_id"`
	Timestamp int64   `json:"timestamp"`
	Signature string  `json:"signature"`
}

type ClaimRequest struct {
	Wallet    string `json:"wallet"`
	SessionID string `json:"session_id"`
	Timestamp int64  `json:"timestamp"`
	Signature string `json:"signature"`
}

type ConnectWalletRequest struct {
	Wallet string `json:"wallet"`
}
