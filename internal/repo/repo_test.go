package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bukucerdas/bookstore/internal/models"
	"github.com/bukucerdas/bookstore/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRepo(t *testing.T) (*GormRepo, *gorm.DB) {
	t.Helper()
	gdb := testutil.NewDB(t)
	return New(gdb), gdb
}

func TestAddCartItem_MergesSameBook(t *testing.T) {
	r, gdb := newRepo(t)
	ctx := context.Background()

	u := testutil.CreateUser(t, gdb, "budi", models.RoleUser)
	b := testutil.CreateBook(t, gdb, "Laskar Pelangi", 85000, 10, nil)

	cart, err := r.EnsureCart(ctx, u.ID)
	require.NoError(t, err)

	require.NoError(t, r.AddCartItem(ctx, &models.CartItem{CartID: cart.ID, BookID: b.ID, Quantity: 2}))
	item := &models.CartItem{CartID: cart.ID, BookID: b.ID, Quantity: 3}
	require.NoError(t, r.AddCartItem(ctx, item))
	assert.Equal(t, 5, item.Quantity)

	again, err := r.EnsureCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)

	full, err := r.GetCartWithItems(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, full.Items, 1)
	assert.Equal(t, 5, full.Items[0].Quantity)
	require.NotNil(t, full.Items[0].Book)
	assert.Equal(t, "Laskar Pelangi", full.Items[0].Book.Title)
}

func TestGetCartItem_OnlyOwner(t *testing.T) {
	r, gdb := newRepo(t)
	ctx := context.Background()

	owner := testutil.CreateUser(t, gdb, "owner", models.RoleUser)
	other := testutil.CreateUser(t, gdb, "other", models.RoleUser)
	b := testutil.CreateBook(t, gdb, "Bumi", 90000, 3, nil)

	cart, err := r.EnsureCart(ctx, owner.ID)
	require.NoError(t, err)
	item := &models.CartItem{CartID: cart.ID, BookID: b.ID, Quantity: 1}
	require.NoError(t, r.AddCartItem(ctx, item))

	_, err = r.GetCartItem(ctx, item.ID, owner.ID)
	require.NoError(t, err)

	_, err = r.GetCartItem(ctx, item.ID, other.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDecrementStock_RefusesToGoNegative(t *testing.T) {
	r, gdb := newRepo(t)
	ctx := context.Background()
	b := testutil.CreateBook(t, gdb, "Negeri 5 Menara", 70000, 2, nil)

	ok, err := r.DecrementStock(ctx, b.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.DecrementStock(ctx, b.ID, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := r.GetBook(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
}

func TestClearDefaultAddresses(t *testing.T) {
	r, gdb := newRepo(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, gdb, "sari", models.RoleUser)

	a1 := testutil.CreateAddress(t, gdb, u.ID, "Bandung", true)
	a2 := testutil.CreateAddress(t, gdb, u.ID, "Jakarta", true)

	require.NoError(t, r.ClearDefaultAddresses(ctx, u.ID, a2.ID))

	items, err := r.ListAddresses(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, a2.ID, items[0].ID)
	assert.True(t, items[0].IsDefault)
	assert.Equal(t, a1.ID, items[1].ID)
	assert.False(t, items[1].IsDefault)
}

func TestMatchShippingRate(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()

	require.NoError(t, r.CreateShippingRate(ctx, &models.ShippingRate{DestinationCity: "Jakarta", Zone: "Zona 1", Fee: 15000}))
	require.NoError(t, r.CreateShippingRate(ctx, &models.ShippingRate{DestinationCity: "Jakarta Selatan", Zone: "Zona 1b", Fee: 17000}))

	sr, err := r.MatchShippingRate(ctx, "jakarta selatan")
	require.NoError(t, err)
	assert.Equal(t, int64(15000), sr.Fee)

	_, err = r.MatchShippingRate(ctx, "Makassar")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMatchShippingRate_LiteralWildcards(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()

	require.NoError(t, r.CreateShippingRate(ctx, &models.ShippingRate{DestinationCity: "Bandung_", Zone: "Jawa", Fee: 12000}))
	require.NoError(t, r.CreateShippingRate(ctx, &models.ShippingRate{DestinationCity: "Solo%", Zone: "Jawa", Fee: 13000}))
	require.NoError(t, r.CreateShippingRate(ctx, &models.ShippingRate{DestinationCity: "Medan", Zone: "Sumatra", Fee: 20000}))

	for _, city := range []string{"Bandungx", "Bandung1", "Solo Baru", "Surakarta"} {
		_, err := r.MatchShippingRate(ctx, city)
		require.ErrorIs(t, err, gorm.ErrRecordNotFound, city)
	}

	sr, err := r.MatchShippingRate(ctx, "kab. bandung_ barat")
	require.NoError(t, err)
	assert.Equal(t, int64(12000), sr.Fee)

	sr, err = r.MatchShippingRate(ctx, "SOLO% kota")
	require.NoError(t, err)
	assert.Equal(t, int64(13000), sr.Fee)

	sr, err = r.MatchShippingRate(ctx, "Kota Medan")
	require.NoError(t, err)
	assert.Equal(t, int64(20000), sr.Fee)
}

func TestGetSettings_CreatesSingletonOnce(t *testing.T) {
	r, gdb := newRepo(t)
	ctx := context.Background()

	s, err := r.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 11.0, s.TaxPercent)
	assert.True(t, s.CODEnabled)

	s.TaxPercent = 10
	s.CODEnabled = false
	require.NoError(t, r.SaveSettings(ctx, s))

	again, err := r.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.ID, again.ID)
	assert.Equal(t, 10.0, again.TaxPercent)
	assert.False(t, again.CODEnabled)

	var n int64
	require.NoError(t, gdb.Model(&models.StoreSettings{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestCategoryDelete_DetachesRetiredBooks(t *testing.T) {
	r, gdb := newRepo(t)
	ctx := context.Background()

	c := testutil.CreateCategory(t, gdb, "Novel")
	b := testutil.CreateBook(t, gdb, "Ronggeng", 60000, 1, &c.ID)

	n, err := r.CountActiveBooksInCategory(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, r.RetireBook(ctx, b.ID))
	n, err = r.CountActiveBooksInCategory(ctx, c.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, r.WithTx(ctx, func(tx *GormRepo) error {
		if err := tx.DetachRetiredBooks(ctx, c.ID); err != nil {
			return err
		}
		return tx.DeleteCategory(ctx, c.ID)
	}))

	got, err := r.GetBook(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
	assert.Equal(t, models.BookRetired, got.Status)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	r, gdb := newRepo(t)
	ctx := context.Background()
	b := testutil.CreateBook(t, gdb, "Cantik Itu Luka", 95000, 5, nil)

	boom := errors.New("boom")
	err := r.WithTx(ctx, func(tx *GormRepo) error {
		if _, err := tx.DecrementStock(ctx, b.ID, 3); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := r.GetBook(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)
}

func TestListActiveBooks_FiltersAndSorts(t *testing.T) {
	r, gdb := newRepo(t)
	ctx := context.Background()

	c := testutil.CreateCategory(t, gdb, "Sejarah")
	testutil.CreateBook(t, gdb, "Gadis Pantai", 50000, 1, &c.ID)
	testutil.CreateBook(t, gdb, "Bumi Manusia", 120000, 1, &c.ID)
	retired := testutil.CreateBook(t, gdb, "Anak Semua Bangsa", 80000, 1, &c.ID)
	testutil.CreateBook(t, gdb, "Pulang", 70000, 1, nil)
	require.NoError(t, r.RetireBook(ctx, retired.ID))

	total, items, err := r.ListActiveBooks(ctx, BookFilter{CategoryID: c.ID, Sort: SortPriceAsc, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	assert.Equal(t, "Gadis Pantai", items[0].Title)
	assert.Equal(t, "Bumi Manusia", items[1].Title)
	require.NotNil(t, items[0].Category)

	total, items, err = r.ListActiveBooks(ctx, BookFilter{Q: "BUMI", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Bumi Manusia", items[0].Title)

	all, err := r.ListAllBooks(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestActiveBooksByIDs_KeepsOrder(t *testing.T) {
	r, gdb := newRepo(t)
	ctx := context.Background()

	a := testutil.CreateBook(t, gdb, "A", 1000, 1, nil)
	b := testutil.CreateBook(t, gdb, "B", 1000, 1, nil)
	c := testutil.CreateBook(t, gdb, "C", 1000, 1, nil)
	require.NoError(t, r.RetireBook(ctx, b.ID))

	items, err := r.ActiveBooksByIDs(ctx, []uint{c.ID, b.ID, a.ID, 999})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, c.ID, items[0].ID)
	assert.Equal(t, a.ID, items[1].ID)
}

func TestNotifications_MarkAllReadIsIdempotent(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, r.CreateNotification(ctx, &models.AdminNotification{Type: "payment_proof", Title: "proof"}))
	}

	n, err := r.UnreadNotifications(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	for i := 0; i < 2; i++ {
		_, err := r.MarkAllNotificationsRead(ctx)
		require.NoError(t, err)
		n, err = r.UnreadNotifications(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	}
}

func TestReviews_UniquePerUserAndBook(t *testing.T) {
	r, gdb := newRepo(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, gdb, "ani", models.RoleUser)
	b := testutil.CreateBook(t, gdb, "Perahu Kertas", 75000, 1, nil)

	require.NoError(t, r.CreateReview(ctx, &models.Review{BookID: b.ID, UserID: u.ID, Rating: 4}))
	err := r.CreateReview(ctx, &models.Review{BookID: b.ID, UserID: u.ID, Rating: 2})
	require.Error(t, err)
	assert.True(t, IsDuplicate(err))

	avg, err := r.AverageRating(ctx, b.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, avg, 0.001)
}

func TestReports_TopBooksAndRevenue(t *testing.T) {
	r, gdb := newRepo(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, gdb, "joko", models.RoleUser)
	addr := testutil.CreateAddress(t, gdb, u.ID, "Surabaya", true)
	b1 := testutil.CreateBook(t, gdb, "Satu", 10000, 10, nil)
	b2 := testutil.CreateBook(t, gdb, "Dua", 20000, 10, nil)

	mk := func(code string, status models.OrderStatus, pay models.PaymentStatus, lines ...models.OrderLine) {
		var subtotal int64
		for _, l := range lines {
			subtotal += l.Subtotal
		}
		o := &models.Order{
			OrderCode: code, UserID: u.ID, AddressID: addr.ID,
			Subtotal: subtotal, TotalDue: subtotal,
			PaymentMethod: models.PaymentCOD, PaymentStatus: pay, OrderStatus: status,
			Lines: lines,
		}
		require.NoError(t, r.CreateOrder(ctx, o))
	}
	mk("INV-1", models.OrderCompleted, models.PaymentConfirmed,
		models.OrderLine{BookID: b1.ID, Quantity: 3, UnitPrice: 10000, Subtotal: 30000})
	mk("INV-2", models.OrderProcessing, models.PaymentUnpaid,
		models.OrderLine{BookID: b2.ID, Quantity: 1, UnitPrice: 20000, Subtotal: 20000},
		models.OrderLine{BookID: b1.ID, Quantity: 1, UnitPrice: 10000, Subtotal: 10000})
	mk("INV-3", models.OrderCancelled, models.PaymentCancelled,
		models.OrderLine{BookID: b2.ID, Quantity: 9, UnitPrice: 20000, Subtotal: 180000})

	revenue, err := r.ConfirmedRevenue(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(30000), revenue)

	from := time.Now().UTC().Add(-time.Hour)
	to := time.Now().UTC().Add(time.Hour)
	top, err := r.TopBooks(ctx, from, to, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, b1.ID, top[0].BookID)
	assert.Equal(t, int64(4), top[0].Quantity)
	assert.Equal(t, int64(40000), top[0].Revenue)

	orders, err := r.OrdersBetween(ctx, from, to)
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	ok, err := r.HasCompletedPurchase(ctx, u.ID, b1.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = r.HasCompletedPurchase(ctx, u.ID, b2.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
