package realtime

import (
	"context"

	"github.com/devotedslingers/devotedslingers/internal/cache"
	"github.com/devotedslingers/devotedslingers/internal/database"
	"github.com/devotedslingers/devotedslingers/internal/telemetry"
)

// Event is the payload published to the real-time gateway. Events are keyed
// by match so the gateway can fan out to the match room.
type Event struct {
	Type    string            `json:"type"`
	MatchID string            `json:"match_id"`
	Match   *database.Match   `json:"match,omitempty"`
	Message *database.Message `json:"message,omitempty"`
}

const (
	EventMatchCreated   = "match.created"
	EventMessageCreated = "message.created"
)

// Notifier announces match and message events to the real-time transport.
// The matching engine itself never emits events; the HTTP layer calls this
// after a successful engine operation.
type Notifier interface {
	MatchCreated(ctx context.Context, match *database.Match)
	MessageCreated(ctx context.Context, message *database.Message)
}

// RedisNotifier publishes events on Redis pub/sub channels consumed by the
// websocket gateway. Publish failures are logged, never surfaced to the
// request.
type RedisNotifier struct {
	redis *cache.RedisService
}

func NewRedisNotifier(redis *cache.RedisService) *RedisNotifier {
	return &RedisNotifier{redis: redis}
}

func channelFor(matchID string) string {
	return "matchmaking:events:" + matchID
}

func (n *RedisNotifier) MatchCreated(ctx context.Context, match *database.Match) {
	event := Event{Type: EventMatchCreated, MatchID: match.ID, Match: match}
	if err := n.redis.Publish(ctx, channelFor(match.ID), event); err != nil {
		telemetry.LogFromContext(ctx).WithError(err).
			WithField("match_id", match.ID).
			Warn("Failed to publish match event")
	}
}

func (n *RedisNotifier) MessageCreated(ctx context.Context, message *database.Message) {
	event := Event{Type: EventMessageCreated, MatchID: message.MatchID, Message: message}
	if err := n.redis.Publish(ctx, channelFor(message.MatchID), event); err != nil {
		telemetry.LogFromContext(ctx).WithError(err).
			WithField("message_id", message.ID).
			Warn("Failed to publish message event")
	}
}

// NopNotifier drops all events. Used when Redis is unavailable.
type NopNotifier struct{}

func (NopNotifier) MatchCreated(context.Context, *database.Match)     {}
func (NopNotifier) MessageCreated(context.Context, *database.Message) {}
