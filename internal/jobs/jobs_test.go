package jobs

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bukucerdas/bookstore/pkg/logging"
	"github.com/bukucerdas/bookstore/pkg/middleware/ratelimit"
)

type fakeReindexer struct {
	calls int
	n     int
	err   error
}

func (f *fakeReindexer) Reindex(context.Context) (int, error) {
	f.calls++
	return f.n, f.err
}

func TestNew_Entries(t *testing.T) {
	s, err := New(Options{ReindexSchedule: "@every 1h", Catalog: &fakeReindexer{}, Limiter: ratelimit.New(1, 1)})
	require.NoError(t, err)
	assert.Len(t, s.cron.Entries(), 2)

	s, err = New(Options{Limiter: ratelimit.New(1, 1)})
	require.NoError(t, err)
	assert.Len(t, s.cron.Entries(), 1)

	_, err = New(Options{ReindexSchedule: "every hour", Catalog: &fakeReindexer{}})
	assert.ErrorContains(t, err, "reindex schedule")
}

func TestReindex_LogsOutcome(t *testing.T) {
	var buf bytes.Buffer
	r := &fakeReindexer{n: 7}
	s, err := New(Options{ReindexSchedule: "@daily", Catalog: r, Logger: logging.NewWithWriter(&buf, "info")})
	require.NoError(t, err)

	s.reindex()
	assert.Equal(t, 1, r.calls)
	assert.Contains(t, buf.String(), "reindex_success")

	r.err = errors.New("cluster down")
	s.reindex()
	assert.Contains(t, buf.String(), "cluster down")
}

func TestStartStop(t *testing.T) {
	s, err := New(Options{Limiter: ratelimit.New(1, 1)})
	require.NoError(t, err)
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}
