package eth

import (
	"errors"
	"time"
)

// ErrStaleTimestamp means a signed timestamp fell outside the replay window.
var ErrStaleTimestamp = errors.New("timestamp outside replay window")

// DefaultReplayWindow is 5 minutes either side of wall-clock time.
const DefaultReplayWindow = 300 * time.Second

// ReplayGuard rejects signed requests whose embedded unix timestamp is more
// than window away from wall-clock time, in either direction. Stateless;
// clock-skewed-future messages fail the same as stale ones.
type ReplayGuard struct {
	window time.Duration
	now    func() time.Time
}

func NewReplayGuard(window time.Duration) *ReplayGuard {
	if window <= 0 {
		window = DefaultReplayWindow
	}
	return &ReplayGuard{window: window, now: time.Now}
}

// Check validates a claimed unix-seconds timestamp. The boundary is
// inclusive: |now - ts| == window passes, window+1 fails.
func (g *ReplayGuard) Check(timestamp int64) error {
	delta := g.now().Unix() - timestamp
	if delta < 0 {
		delta = -delta
	}
	if delta > int64(g.window/time.Second) {
		return ErrStaleTimestamp
	}
	return nil
}
