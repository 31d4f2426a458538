package accounts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/testutil"
)

func strPtr(s string) *string { return &s }

func TestPushTokenLifecycle(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t, &User{})
	now := time.Now().UTC()
	require.NoError(t, db.Create(&User{ID: "u1", Name: "A", Phone: "1", Role: RoleCustomer, FCMToken: strPtr("tok-1"), CreatedAt: now, UpdatedAt: now}).Error)

	repo := NewRepo(db)
	tok, err := repo.PushToken(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)

	// stale token does not clear the current one
	require.NoError(t, repo.ClearPushToken(ctx, "u1", "tok-0"))
	tok, _ = repo.PushToken(ctx, "u1")
	assert.Equal(t, "tok-1", tok)

	require.NoError(t, repo.ClearPushToken(ctx, "u1", "tok-1"))
	tok, err = repo.PushToken(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, tok)

	tok, err = repo.PushToken(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestAddressOf(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t, &Address{})
	require.NoError(t, db.Create(&Address{ID: "a1", UserID: "u1", Line1: "x", City: "Pune", Pincode: "411001", CreatedAt: time.Now().UTC()}).Error)

	a, err := AddressOf(ctx, db, "u1", "a1")
	require.NoError(t, err)
	assert.Equal(t, "Pune", a.City)

	_, err = AddressOf(ctx, db, "u2", "a1")
	assert.ErrorIs(t, err, ErrAddressNotFound)
}
