package live

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Sirlahm/vm-poll/internal/model"
)

const channelPrefix = "poll_"

// Bridge publishes vote updates. With Redis available, events round-trip
// through the `poll_{pollId}` pub/sub channel so every instance's Hub sees
// votes recorded on any instance; without Redis, events go straight to the
// local Hub.
type Bridge struct {
	hub *Hub
	rdb *redis.Client
}

func NewBridge(hub *Hub, rdb *redis.Client) *Bridge {
	return &Bridge{hub: hub, rdb: rdb}
}

// PublishResults implements service.LivePublisher. Fire-and-forget: errors
// are logged, never surfaced to the voter.
func (b *Bridge) PublishResults(pollID string, view *model.ResultView) {
	if b.rdb == nil {
		b.hub.Publish(pollID, view)
		return
	}

	payload, err := json.Marshal(Event{PollID: pollID, Results: view})
	if err != nil {
		log.Error().Err(err).Str("poll_id", pollID).Msg("live: marshal error")
		return
	}
	if err := b.rdb.Publish(context.Background(), channelPrefix+pollID, payload).Err(); err != nil {
		log.Warn().Err(err).Str("poll_id", pollID).Msg("live: redis publish error, delivering locally")
		b.hub.Publish(pollID, view)
	}
}

// Run subscribes to all poll channels and re-delivers remote events into
// the local Hub. Blocks until ctx is cancelled. No-op without Redis.
func (b *Bridge) Run(ctx context.Context) {
	if b.rdb == nil {
		return
	}

	pubsub := b.rdb.PSubscribe(ctx, channelPrefix+"*")
	defer pubsub.Close()
	log.Info().Msg("live: bridge subscribed to poll channels")

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var evt Event
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				log.Warn().Err(err).Str("channel", msg.Channel).Msg("live: bad event payload")
				continue
			}
			pollID := strings.TrimPrefix(msg.Channel, channelPrefix)
			b.hub.Publish(pollID, evt.Results)
		case <-ctx.Done():
			return
		}
	}
}
