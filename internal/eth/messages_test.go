package eth

import "testing"

func TestLoginMessage(t *testing.T) {
	got := LoginMessage("0xabc", "deadbeef")
	want := "Login with wallet: 0xabc\nNonce: deadbeef"
	if got != want {
		t.Errorf("LoginMessage() = %q, want %q", got, want)
	}
}

func TestSubmitMessage(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  string
	}{
		{"integer score", 100, "0xabc|100|s1|1700000000"},
		{"fractional score", 99.5, "0xabc|99.5|s1|1700000000"},
		{"zero", 0, "0xabc|0|s1|1700000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SubmitMessage("0xabc", tt.score, "s1", 1700000000)
			if got != tt.want {
				t.Errorf("SubmitMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClaimMessage(t *testing.T) {
	got := ClaimMessage("0xabc", "s1", 1700000000)
	want := "claim|0xabc|s1|1700000000"
	if got != want {
		t.Errorf("ClaimMessage() = %q, want %q", got, want)
	}
}

func TestSubmitMessage_Deterministic(t *testing.T) {
	a := SubmitMessage("0xAbC", 42.25, "sess", 123)
	b := SubmitMessage("0xAbC", 42.25, "sess", 123)
	if a != b {
		t.Errorf("same inputs produced different envelopes: %q vs %q", a, b)
	}
}
