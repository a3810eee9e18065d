package eth

import (
	"testing"
	"time"
)

func TestReplayGuard_Check(t *testing.T) {
	now := time.Unix(1700000000, 0)
	guard := NewReplayGuard(300 * time.Second)
	guard.now = func() time.Time { return now }

	tests := []struct {
		name      string
		timestamp int64
		ok        bool
	}{
		{"exact now", now.Unix(), true},
		{"299s old", now.Unix() - 299, true},
		{"300s old (inclusive boundary)", now.Unix() - 300, true},
		{"301s old", now.Unix() - 301, false},
		{"300s in future (clock skew)", now.Unix() + 300, true},
		{"301s in future", now.Unix() + 301, false},
		{"hour old", now.Unix() - 3600, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := guard.Check(tt.timestamp)
			if tt.ok && err != nil {
				t.Errorf("expected ok, got %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected rejection, got ok")
			}
		})
	}
}

func TestNewReplayGuard_DefaultWindow(t *testing.T) {
	guard := NewReplayGuard(0)
	if guard.window != DefaultReplayWindow {
		t.Errorf("window = %v, want %v", guard.window, DefaultReplayWindow)
	}
}
