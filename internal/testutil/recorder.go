package testutil

import (
	"context"
	"sync"

	"github.com/bukucerdas/bookstore/internal/events"
)

type Published struct {
	Topic string
	Key   string
	Event any
}

// Recorder is an events.Publisher that keeps everything in memory.
type Recorder struct {
	mu   sync.Mutex
	msgs []Published
}

func (r *Recorder) Publish(_ context.Context, topic, key string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, Published{Topic: topic, Key: key, Event: event})
	return nil
}

func (r *Recorder) Messages() []Published {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Published(nil), r.msgs...)
}

// Types lists the envelope types in publish order.
func (r *Recorder) Types() []string {
	var out []string
	for _, m := range r.Messages() {
		if env, ok := m.Event.(events.Envelope); ok {
			out = append(out, env.Type)
		}
	}
	return out
}
