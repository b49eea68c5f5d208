package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bukucerdas/bookstore/internal/events"
	"github.com/bukucerdas/bookstore/internal/models"
	"github.com/bukucerdas/bookstore/internal/testutil"
	"github.com/bukucerdas/bookstore/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestCatalog_CreateUpdateRetire(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.catalog()
	c := testutil.CreateCategory(t, env.DB, "Novel")

	_, err := svc.CreateBook(ctx, transport.CreateBookRequest{Title: "X", Author: "Y", Price: 1000, CategoryID: 999}, nil)
	require.ErrorIs(t, err, ErrValidation)

	book, err := svc.CreateBook(ctx, transport.CreateBookRequest{
		Title: "Laut Bercerita", Author: "Leila S. Chudori", Price: 100000, Stock: 4, CategoryID: c.ID,
		CoverURL: "https://cdn.example.com/laut.jpg",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.BookActive, book.Status)
	assert.Equal(t, "https://cdn.example.com/laut.jpg", book.CoverURL)
	require.NotNil(t, book.Category)
	assert.Equal(t, "Novel", book.Category.Name)

	cover := testutil.FileHeader(t, "laut bercerita.jpg", []byte("jpeg"))
	updated, err := svc.UpdateBook(ctx, book.ID, transport.PatchBookRequest{
		Price:    ptr(int64(95000)),
		CoverURL: ptr("https://ignored.example.com/x.jpg"),
	}, cover)
	require.NoError(t, err)
	assert.Equal(t, int64(95000), updated.Price)
	assert.Equal(t, "/uploads/cover-buku/1773480600000-laut_bercerita.jpg", updated.CoverURL)
	_, err = os.Stat(filepath.Join(env.Files.PublicDir, "uploads", "cover-buku", "1773480600000-laut_bercerita.jpg"))
	require.NoError(t, err)

	require.NoError(t, svc.RetireBook(ctx, book.ID))
	_, err = svc.GetPublic(ctx, book.ID)
	require.ErrorIs(t, err, ErrNotFound)

	admin, err := svc.GetAdmin(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookRetired, admin.Status)

	require.ErrorIs(t, svc.RetireBook(ctx, 12345), ErrNotFound)

	assert.Equal(t, []string{events.TypeBookCreated, events.TypeBookUpdated, events.TypeBookRetired}, env.Events.Types())
}

func TestCatalog_CategoryInUse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.catalog()

	c, err := svc.CreateCategory(ctx, transport.CategoryRequest{Name: "Sejarah"})
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, transport.CategoryRequest{Name: "Sejarah"})
	require.ErrorIs(t, err, ErrConflict)

	book, err := svc.CreateBook(ctx, transport.CreateBookRequest{Title: "Max Havelaar", Author: "Multatuli", Price: 90000, CategoryID: c.ID}, nil)
	require.NoError(t, err)

	err = svc.DeleteCategory(ctx, c.ID)
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "category is still in use", err.Error())

	require.NoError(t, svc.RetireBook(ctx, book.ID))
	require.NoError(t, svc.DeleteCategory(ctx, c.ID))

	cats, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats)

	retired, err := svc.GetAdmin(ctx, book.ID)
	require.NoError(t, err)
	assert.Nil(t, retired.CategoryID)

	require.ErrorIs(t, svc.DeleteCategory(ctx, c.ID), ErrNotFound)
}

func TestCatalog_ListAndSearchFallback(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.catalog()

	testutil.CreateBook(t, env.DB, "Bumi Manusia", 120000, 3, nil)
	testutil.CreateBook(t, env.DB, "Rumah Kaca", 110000, 3, nil)
	gone := testutil.CreateBook(t, env.DB, "Bumi Lama", 10000, 3, nil)
	require.NoError(t, env.Repo.RetireBook(ctx, gone.ID))

	page, err := svc.ListPublic(ctx, BookQuery{Sort: "price_desc", Page: 1, Size: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Meta.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Bumi Manusia", page.Items[0].Title)
	assert.True(t, page.Meta.HasNext)

	res, err := svc.SearchBooks(ctx, "bumi", 1, 10)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Bumi Manusia", res.Items[0].Title)

	_, err = svc.SearchBooks(ctx, " ", 1, 10)
	require.ErrorIs(t, err, ErrValidation)

	n, err := svc.Reindex(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
