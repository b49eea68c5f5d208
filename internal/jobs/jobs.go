// Package jobs runs periodic maintenance on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	cleanupSchedule = "@every 10m"
	limiterIdle     = 30 * time.Minute
	reindexTimeout  = 5 * time.Minute
)

type Reindexer interface {
	Reindex(ctx context.Context) (int, error)
}

type Cleaner interface {
	Cleanup(maxIdle time.Duration) int
}

type Options struct {
	// ReindexSchedule is a cron expression; Catalog nil disables the job.
	ReindexSchedule string
	Catalog         Reindexer
	Limiter         Cleaner
	Logger          *slog.Logger
}

type Scheduler struct {
	cron *cron.Cron
	log  *slog.Logger
	opts Options
}

// cronLogger routes cron's own messages through slog.
type cronLogger struct{ l *slog.Logger }

func (c cronLogger) Info(msg string, kv ...any) { c.l.Debug(msg, kv...) }

func (c cronLogger) Error(err error, msg string, kv ...any) {
	c.l.Error(msg, append(kv, "error", err)...)
}

func New(o Options) (*Scheduler, error) {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	l := o.Logger.With("component", "jobs")
	cl := cronLogger{l: l}
	s := &Scheduler{
		cron: cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		log:  l,
		opts: o,
	}

	if o.Catalog != nil {
		if _, err := s.cron.AddFunc(o.ReindexSchedule, s.reindex); err != nil {
			return nil, fmt.Errorf("reindex schedule %q: %w", o.ReindexSchedule, err)
		}
	}
	if o.Limiter != nil {
		if _, err := s.cron.AddFunc(cleanupSchedule, s.cleanup); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.log.Info("jobs_started", "entries", len(s.cron.Entries()))
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) reindex() {
	ctx, cancel := context.WithTimeout(context.Background(), reindexTimeout)
	defer cancel()

	start := time.Now()
	n, err := s.opts.Catalog.Reindex(ctx)
	if err != nil {
		s.log.Error("reindex_error", "error", err)
		return
	}
	s.log.Info("reindex_success", "books", n, "took", time.Since(start))
}

func (s *Scheduler) cleanup() {
	if n := s.opts.Limiter.Cleanup(limiterIdle); n > 0 {
		s.log.Debug("limiter_cleanup", "removed", n)
	}
}
