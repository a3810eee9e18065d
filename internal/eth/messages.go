package eth

import (
	"fmt"
	"strconv"
)

// Signed message envelopes. Field order and delimiters are fixed: the same
// logical intent must serialize to the same bytes on the client and here,
// or recovery produces a different address.

func LoginMessage(wallet, nonce string) string {
	return fmt.Sprintf("Login with wallet: %s\nNonce: %s", wallet, nonce)
}

func SubmitMessage(wallet string, score float64, sessionID string, timestamp int64) string {
	return fmt.Sprintf("%s|%s|%s|%d", wallet, FormatScore(score), sessionID, timestamp)
}

func ClaimMessage(wallet, sessionID string, timestamp int64) string {
	return fmt.Sprintf("claim|%s|%s|%d", wallet, sessionID, timestamp)
}

// FormatScore renders a score for the submit envelope in its shortest
// round-trip form: 100 stays "100", not "100.000000". Clients must render
// the same way before signing.
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}
