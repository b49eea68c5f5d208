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

func addressReq(city string, isDefault bool) transport.AddressRequest {
	return transport.AddressRequest{
		RecipientName: "Sari", Phone: "0812", Street: "Jl. Asia Afrika 8", City: city, IsDefault: isDefault,
	}
}

func defaults(t *testing.T, svc *AddressService, userID uint) []uint {
	t.Helper()
	items, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	var ids []uint
	for _, a := range items {
		if a.IsDefault {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

func TestAddress_DefaultSwap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := &AddressService{Repo: env.Repo}
	u := testutil.CreateUser(t, env.DB, "sari", models.RoleUser)

	first, err := svc.Create(ctx, u.ID, addressReq("Bandung", false))
	require.NoError(t, err)
	assert.True(t, first.IsDefault)

	second, err := svc.Create(ctx, u.ID, addressReq("Jakarta", false))
	require.NoError(t, err)
	assert.False(t, second.IsDefault)
	assert.Equal(t, []uint{first.ID}, defaults(t, svc, u.ID))

	third, err := svc.Create(ctx, u.ID, addressReq("Surabaya", true))
	require.NoError(t, err)
	assert.Equal(t, []uint{third.ID}, defaults(t, svc, u.ID))

	_, err = svc.SetDefault(ctx, u.ID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{second.ID}, defaults(t, svc, u.ID))

	_, err = svc.Update(ctx, u.ID, first.ID, addressReq("Cimahi", true))
	require.NoError(t, err)
	assert.Equal(t, []uint{first.ID}, defaults(t, svc, u.ID))
}

func TestAddress_OwnershipAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := &AddressService{Repo: env.Repo}
	u := testutil.CreateUser(t, env.DB, "sari", models.RoleUser)
	other := testutil.CreateUser(t, env.DB, "other", models.RoleUser)

	a1, err := svc.Create(ctx, u.ID, addressReq("Bandung", false))
	require.NoError(t, err)
	a2, err := svc.Create(ctx, u.ID, addressReq("Jakarta", false))
	require.NoError(t, err)

	_, err = svc.SetDefault(ctx, other.ID, a1.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, svc.Delete(ctx, other.ID, a1.ID), ErrNotFound)

	require.NoError(t, svc.Delete(ctx, u.ID, a1.ID))
	assert.Equal(t, []uint{a2.ID}, defaults(t, svc, u.ID))

	require.NoError(t, env.Repo.CreateOrder(ctx, &models.Order{
		OrderCode: "INV-X", UserID: u.ID, AddressID: a2.ID,
		PaymentMethod: models.PaymentCOD, PaymentStatus: models.PaymentUnpaid, OrderStatus: models.OrderProcessing,
	}))
	err = svc.Delete(ctx, u.ID, a2.ID)
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "address is used by orders", err.Error())
}
