//go:build unit

package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resbook/internal/domain/pricing"
)

func TestTimedLine(t *testing.T) {
	t.Run("total is rate times hours times quantity", func(t *testing.T) {
		line, err := pricing.NewTimedLine(2_000, 3, 2)
		require.NoError(t, err)

		assert.Equal(t, int64(12_000), line.TotalCents())
		assert.Equal(t, 2, line.Units())
	})

	t.Run("validation", func(t *testing.T) {
		_, err := pricing.NewTimedLine(2_000, 0, 1)
		assert.ErrorIs(t, err, pricing.ErrInvalidLineDuration)

		_, err = pricing.NewTimedLine(2_000, 1, 0)
		assert.ErrorIs(t, err, pricing.ErrInvalidLineQuantity)

		_, err = pricing.NewTimedLine(-1, 1, 1)
		assert.ErrorIs(t, err, pricing.ErrNegativeMoney)
	})
}

func TestProductLine(t *testing.T) {
	t.Run("total is unit price times quantity", func(t *testing.T) {
		line, err := pricing.NewProductLine(500, 4)
		require.NoError(t, err)

		assert.Equal(t, int64(2_000), line.TotalCents())
		assert.Equal(t, 4, line.Units())
	})

	t.Run("free product is allowed", func(t *testing.T) {
		line, err := pricing.NewProductLine(0, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(0), line.TotalCents())
	})
}

func TestCart(t *testing.T) {
	timed, err := pricing.NewTimedLine(2_000, 2, 1)
	require.NoError(t, err)
	product, err := pricing.NewProductLine(500, 3)
	require.NoError(t, err)

	cart := pricing.NewCart(timed, product)

	assert.Equal(t, int64(5_500), cart.SubtotalCents())
	assert.Equal(t, 4, cart.ItemCount())
	assert.Len(t, cart.Lines(), 2)
}

func TestMoney(t *testing.T) {
	t.Run("rejects negative amounts", func(t *testing.T) {
		_, err := pricing.NewMoney(-1)
		assert.ErrorIs(t, err, pricing.ErrNegativeMoney)
	})

	t.Run("sub floors at zero", func(t *testing.T) {
		total := pricing.MustMoney(100).Sub(pricing.MustMoney(250))
		assert.True(t, total.IsZero())
	})

	t.Run("arithmetic", func(t *testing.T) {
		m := pricing.MustMoney(100).Add(pricing.MustMoney(50)).Mul(2)
		assert.Equal(t, int64(300), m.Cents())
	})
}
