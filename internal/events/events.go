package events

import "context"

// Streams and event types on the redis bus.
const (
	StreamLeaderboard = "events:leaderboard"

	EventScoreSubmitted = "score_submitted"
	EventRewardClaimed  = "reward_claimed"
)

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}
