package service

import (
	"context"
	"testing"

	"github.com/bukucerdas/bookstore/internal/models"
	"github.com/bukucerdas/bookstore/internal/testutil"
	"github.com/bukucerdas/bookstore/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeOrder(t *testing.T, env *testEnv, id uint) {
	t.Helper()
	_, err := env.orders().AdminUpdate(context.Background(), id, transport.UpdateOrderRequest{OrderStatus: ptr("completed")})
	require.NoError(t, err)
}

func TestReview_EligibilityFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.reviews()
	u, b, o := placeOrder(t, env, "gita", models.PaymentCOD, 1)

	el, err := svc.Eligibility(ctx, u.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, Eligibility{Reason: ReasonNotPurchased}, el)

	_, err = svc.Create(ctx, u.ID, transport.ReviewRequest{BookID: b.ID, Rating: 5})
	require.ErrorIs(t, err, ErrValidation)

	completeOrder(t, env, o.ID)

	el, err = svc.Eligibility(ctx, u.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, Eligibility{CanReview: true}, el)

	rv, err := svc.Create(ctx, u.ID, transport.ReviewRequest{BookID: b.ID, Rating: 4, Comment: "  Bagus  "})
	require.NoError(t, err)
	assert.Equal(t, "Bagus", rv.Comment)

	el, err = svc.Eligibility(ctx, u.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, Eligibility{Reason: ReasonAlreadyReviewed}, el)

	_, err = svc.Create(ctx, u.ID, transport.ReviewRequest{BookID: b.ID, Rating: 3})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Eligibility(ctx, u.ID, 9999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestReview_AverageRating(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.reviews()

	b := testutil.CreateBook(t, env.DB, "Cantik Itu Luka", 99000, 10, nil)
	cart := env.cart()
	var reviewIDs []uint
	for _, tc := range []struct {
		username string
		rating   int
	}{{"hana", 5}, {"indra", 4}, {"joko", 4}} {
		u := testutil.CreateUser(t, env.DB, tc.username, models.RoleUser)
		addr := testutil.CreateAddress(t, env.DB, u.ID, "Bogor", true)
		_, err := cart.AddItem(ctx, u.ID, transport.AddToCartRequest{BookID: b.ID, Quantity: 1})
		require.NoError(t, err)
		o, err := cart.Checkout(ctx, u.ID, transport.CheckoutRequest{AddressID: addr.ID, PaymentMethod: "cod"})
		require.NoError(t, err)
		completeOrder(t, env, o.ID)

		rv, err := svc.Create(ctx, u.ID, transport.ReviewRequest{BookID: b.ID, Rating: tc.rating})
		require.NoError(t, err)
		reviewIDs = append(reviewIDs, rv.ID)
	}

	got, err := env.Repo.GetBook(ctx, b.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.33, got.AverageRating, 0.0001)

	list, err := svc.ListForBook(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.NotNil(t, list[0].User)

	require.NoError(t, svc.Delete(ctx, reviewIDs[0]))
	got, err = env.Repo.GetBook(ctx, b.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, got.AverageRating, 0.0001)

	require.ErrorIs(t, svc.Delete(ctx, reviewIDs[0]), ErrNotFound)
}
