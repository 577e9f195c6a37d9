package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func strPtr(s string) *string { return &s }

func TestCart_AddItem_MergesSameKey(t *testing.T) {
	t.Parallel()

	cart, err := NewUserCart(1)
	require.NoError(t, err)

	require.NoError(t, cart.AddItem(10, nil, "Keyboard", nil, 100, 2))
	require.NoError(t, cart.AddItem(10, nil, "Keyboard", nil, 100, 3))

	require.Equal(t, 1, cart.UniqueProductCount())
	assert.Equal(t, uint(5), cart.ProductQuantity(10))
	assert.Equal(t, float64(500), cart.TotalAmount())
	assert.NotNil(t, cart.UpdatedAt)
}

func TestCart_AddItem_VariantLinesAreDistinct(t *testing.T) {
	t.Parallel()

	cart, err := NewUserCart(1)
	require.NoError(t, err)

	require.NoError(t, cart.AddItem(10, nil, "Keyboard", nil, 100, 1))
	require.NoError(t, cart.AddItem(10, uintPtr(7), "Keyboard", strPtr("Red switches"), 120, 1))

	require.Equal(t, 2, cart.UniqueProductCount())
	assert.Equal(t, float64(220), cart.TotalAmount())
}

func TestCart_AddItem_Validation(t *testing.T) {
	t.Parallel()

	cart, err := NewUserCart(1)
	require.NoError(t, err)

	tests := []struct {
		name        string
		productName string
		price       float64
		quantity    uint
	}{
		{name: "zero quantity", productName: "Keyboard", price: 10, quantity: 0},
		{name: "negative price", productName: "Keyboard", price: -1, quantity: 1},
		{name: "blank name", productName: "  ", price: 10, quantity: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := cart.AddItem(10, nil, tc.productName, nil, tc.price, tc.quantity)
			require.ErrorIs(t, err, ErrValidation)
		})
	}
	assert.True(t, cart.IsEmpty())
}

func TestCart_UpdateItemQuantity(t *testing.T) {
	t.Parallel()

	cart, err := NewUserCart(1)
	require.NoError(t, err)
	require.NoError(t, cart.AddItem(10, nil, "Keyboard", nil, 100, 2))

	require.NoError(t, cart.UpdateItemQuantity(10, 7))
	assert.Equal(t, uint(7), cart.ProductQuantity(10))

	require.ErrorIs(t, cart.UpdateItemQuantity(10, 0), ErrValidation)
	require.ErrorIs(t, cart.UpdateItemQuantity(99, 1), ErrNotFound)
}

func TestCart_RemoveAndClear(t *testing.T) {
	t.Parallel()

	cart, err := NewUserCart(1)
	require.NoError(t, err)
	require.NoError(t, cart.AddItem(10, nil, "Keyboard", nil, 100, 2))
	require.NoError(t, cart.AddItem(11, nil, "Mouse", nil, 50, 1))

	require.NoError(t, cart.RemoveItem(10))
	require.ErrorIs(t, cart.RemoveItem(10), ErrNotFound)
	assert.Equal(t, float64(50), cart.TotalAmount())

	cart.Clear()
	assert.True(t, cart.IsEmpty())
	assert.Zero(t, cart.TotalAmount())
}

func TestCart_TotalTracksMutations(t *testing.T) {
	t.Parallel()

	cart, err := NewUserCart(1)
	require.NoError(t, err)

	require.NoError(t, cart.AddItem(1, nil, "A", nil, 10, 2))
	require.NoError(t, cart.AddItem(2, nil, "B", nil, 5.5, 4))
	require.NoError(t, cart.UpdateItemQuantity(1, 3))
	require.NoError(t, cart.RemoveItem(2))
	require.NoError(t, cart.AddItem(3, nil, "C", nil, 1.25, 8))

	want := 10*3.0 + 1.25*8
	assert.InDelta(t, want, cart.TotalAmount(), 1e-9)
	assert.Equal(t, uint(11), cart.ItemCount())
}

func TestCart_MergeWith(t *testing.T) {
	t.Parallel()

	userCart, err := NewUserCart(1)
	require.NoError(t, err)
	require.NoError(t, userCart.AddItem(10, nil, "Keyboard", nil, 100, 1))

	guestCart, err := NewGuestCart("session-abc")
	require.NoError(t, err)
	require.NoError(t, guestCart.AddItem(10, nil, "Keyboard", nil, 100, 2))
	require.NoError(t, guestCart.AddItem(11, nil, "Mouse", nil, 50, 1))

	require.NoError(t, userCart.MergeWith(guestCart))

	assert.Equal(t, uint(3), userCart.ProductQuantity(10))
	assert.Equal(t, uint(1), userCart.ProductQuantity(11))

	require.ErrorIs(t, userCart.MergeWith(userCart), ErrConflict)
}

func TestCart_ConvertToUserCart(t *testing.T) {
	t.Parallel()

	cart, err := NewGuestCart("session-abc")
	require.NoError(t, err)

	require.NoError(t, cart.ConvertToUserCart(5))
	require.NotNil(t, cart.UserID)
	assert.Equal(t, uint(5), *cart.UserID)
	assert.Nil(t, cart.SessionID)

	require.ErrorIs(t, cart.ConvertToUserCart(6), ErrConflict)
}

func TestCart_ValidateForCheckout(t *testing.T) {
	t.Parallel()

	cart, err := NewUserCart(1)
	require.NoError(t, err)
	require.ErrorIs(t, cart.ValidateForCheckout(), ErrConflict)

	require.NoError(t, cart.AddItem(10, nil, "Keyboard", nil, 100, 1))
	require.NoError(t, cart.ValidateForCheckout())
}
