package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_DecreaseStock(t *testing.T) {
	t.Parallel()

	p := Product{Name: "Keyboard", Stock: 5}

	require.NoError(t, p.DecreaseStock(3))
	assert.Equal(t, uint(2), p.Stock)
	assert.Equal(t, uint(3), p.SoldCount)

	err := p.DecreaseStock(3)
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Keyboard")
	assert.Equal(t, uint(2), p.Stock)

	require.ErrorIs(t, p.DecreaseStock(0), ErrValidation)
}

func TestProduct_IncreaseStock(t *testing.T) {
	t.Parallel()

	p := Product{Name: "Keyboard", Stock: 2}

	require.NoError(t, p.IncreaseStock(4))
	assert.Equal(t, uint(6), p.Stock)
	assert.NotNil(t, p.UpdatedAt)

	require.ErrorIs(t, p.IncreaseStock(0), ErrValidation)
}

func TestProductVariant_StockLedger(t *testing.T) {
	t.Parallel()

	v := ProductVariant{Name: "Red switches", Stock: 1}

	require.ErrorIs(t, v.DecreaseStock(2), ErrInsufficientStock)
	require.NoError(t, v.DecreaseStock(1))
	assert.Equal(t, uint(0), v.Stock)
	assert.Equal(t, uint(1), v.SoldCount)

	require.NoError(t, v.IncreaseStock(5))
	assert.Equal(t, uint(5), v.Stock)
}

func TestProduct_VariantLookup(t *testing.T) {
	t.Parallel()

	p := Product{
		Name: "Keyboard",
		Variants: []ProductVariant{
			{ID: 1, Name: "Red"},
			{ID: 2, Name: "Blue"},
		},
	}

	require.NotNil(t, p.Variant(2))
	assert.Equal(t, "Blue", p.Variant(2).Name)
	assert.Nil(t, p.Variant(9))
}
