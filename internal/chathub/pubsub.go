package chathub

import (
	"context"
	"encoding/json"

	"campusmentor/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ListenEvents bridges a Redis pattern subscription into the hub's event
// channel, so mutations published by any backend instance reach local
// subscribers. The goroutine stops and closes the Redis registration when
// ctx is cancelled.
func (h *Hub) ListenEvents(ctx context.Context, pubsub *redis.PubSub) {
	go func() {
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event models.ChannelEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					h.log.Warn("dropping malformed channel event",
						zap.String("payload", msg.Payload),
						zap.Error(err))
					continue
				}
				select {
				case h.EventsCh <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
}
