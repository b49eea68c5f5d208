package service

import (
	"testing"
	"time"

	"github.com/bukucerdas/bookstore/internal/metrics"
	"github.com/bukucerdas/bookstore/internal/repo"
	"github.com/bukucerdas/bookstore/internal/testutil"
	"github.com/bukucerdas/bookstore/internal/upload"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type testEnv struct {
	DB      *gorm.DB
	Repo    *repo.GormRepo
	Events  *testutil.Recorder
	Metrics *metrics.Metrics
	Files   *upload.Store

	seq int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb := testutil.NewDB(t)
	files := upload.New(t.TempDir())
	files.Now = func() time.Time { return fixedNow }
	return &testEnv{
		DB:      gdb,
		Repo:    repo.New(gdb),
		Events:  &testutil.Recorder{},
		Metrics: metrics.New(),
		Files:   files,
	}
}

func (env *testEnv) cart() *CartService {
	return &CartService{
		Repo:    env.Repo,
		Events:  env.Events,
		Metrics: env.Metrics,
		Now:     func() time.Time { return fixedNow },
		Suffix:  func() int { env.seq++; return env.seq },
	}
}

func (env *testEnv) orders() *OrderService {
	return &OrderService{Repo: env.Repo, Events: env.Events, Files: env.Files, Now: func() time.Time { return fixedNow }}
}

func (env *testEnv) catalog() *CatalogService {
	return &CatalogService{Repo: env.Repo, Events: env.Events, Files: env.Files}
}

func (env *testEnv) reviews() *ReviewService {
	return &ReviewService{Repo: env.Repo, Events: env.Events}
}
