package service

import (
	"context"
	"strconv"

	"github.com/bukucerdas/bookstore/internal/events"
	"github.com/bukucerdas/bookstore/pkg/logging"
)

// publish never fails the caller; a broker outage only costs the event.
func publish(ctx context.Context, pub events.Publisher, topic string, key uint, typ string, data any) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, topic, strconv.FormatUint(uint64(key), 10), events.New(typ, data)); err != nil {
		logging.FromContext(ctx).Warn("publish_event_error", "topic", topic, "type", typ, "error", err)
	}
}
