package cart

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fan(id uint, price string, stock int) Product {
	return Product{ID: id, Name: "Fan", Price: decimal.RequireFromString(price), Stock: stock}
}

func TestAddItem_RejectsOverStockAndLeavesCartUnchanged(t *testing.T) {
	c := New()
	p1 := fan(1, "100", 2)

	require.NoError(t, c.AddItem(p1, 1))
	assert.True(t, c.Total().Equal(decimal.NewFromInt(100)))

	err := c.AddItem(p1, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientStock))

	var stockErr *StockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, uint(1), stockErr.ProductID)
	assert.Equal(t, 2, stockErr.Available)

	assert.Equal(t, 1, c.ItemCount())
	assert.True(t, c.Total().Equal(decimal.NewFromInt(100)))
}

func TestAddItem_MergesIntoExistingLine(t *testing.T) {
	c := New()
	p := fan(7, "49.90", 10)

	require.NoError(t, c.AddItem(p, 2))
	require.NoError(t, c.AddItem(p, 3))

	assert.Equal(t, 1, c.Len())
	line, ok := c.Line(7)
	require.True(t, ok)
	assert.Equal(t, 5, line.Quantity)
	assert.Equal(t, "249.50", Display(c.Total()))
}

func TestAddItem_RefreshesSnapshotOnMerge(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem(fan(3, "10", 5), 1))

	updated := fan(3, "12", 8)
	updated.Name = "Fan XL"
	require.NoError(t, c.AddItem(updated, 1))

	line, _ := c.Line(3)
	assert.Equal(t, "Fan XL", line.Name)
	assert.Equal(t, 8, line.StockCeiling)
	assert.True(t, c.Total().Equal(decimal.NewFromInt(24)))
}

func TestAddItem_InvalidQuantity(t *testing.T) {
	c := New()
	assert.ErrorIs(t, c.AddItem(fan(1, "1", 5), 0), ErrInvalidQuantity)
	assert.True(t, c.IsEmpty())
}

func TestAddItem_ZeroStockRejected(t *testing.T) {
	c := New()
	assert.ErrorIs(t, c.AddItem(fan(1, "1", 0), 1), ErrInsufficientStock)
	assert.True(t, c.IsEmpty())
}

func TestSetQuantity(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem(fan(1, "20", 4), 2))

	t.Run("below one is a no-op", func(t *testing.T) {
		require.NoError(t, c.SetQuantity(1, 0))
		line, _ := c.Line(1)
		assert.Equal(t, 2, line.Quantity)
	})

	t.Run("unknown product is a no-op", func(t *testing.T) {
		require.NoError(t, c.SetQuantity(99, 3))
		assert.Equal(t, 1, c.Len())
	})

	t.Run("above ceiling is rejected", func(t *testing.T) {
		err := c.SetQuantity(1, 5)
		assert.ErrorIs(t, err, ErrInsufficientStock)
		line, _ := c.Line(1)
		assert.Equal(t, 2, line.Quantity)
	})

	t.Run("within ceiling replaces", func(t *testing.T) {
		require.NoError(t, c.SetQuantity(1, 4))
		assert.Equal(t, 4, c.ItemCount())
		assert.True(t, c.Total().Equal(decimal.NewFromInt(80)))
	})
}

func TestRemoveAndClear(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem(fan(1, "10", 5), 1))
	require.NoError(t, c.AddItem(fan(2, "5", 5), 3))

	c.RemoveItem(42)
	assert.Equal(t, 2, c.Len())

	c.RemoveItem(1)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 3, c.ItemCount())

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.True(t, c.Total().IsZero())
	assert.Equal(t, 0, c.ItemCount())
}

func TestRemoveThenReAddRestoresTotals(t *testing.T) {
	tests := []struct {
		name     string
		product  Product
		quantity int
	}{
		{"single unit", fan(1, "10", 5), 1},
		{"several units", fan(2, "35.50", 10), 4},
		{"fractional price", fan(3, "0.105", 10), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			require.NoError(t, c.AddItem(fan(9, "7", 5), 2))
			require.NoError(t, c.AddItem(tt.product, tt.quantity))

			count, total := c.ItemCount(), c.Total()

			c.RemoveItem(tt.product.ID)
			require.NoError(t, c.AddItem(tt.product, tt.quantity))

			assert.Equal(t, count, c.ItemCount())
			assert.True(t, total.Equal(c.Total()), "total %s, want %s", c.Total(), total)
			assert.Equal(t, 2, c.Len())
		})
	}
}

func TestItemCountIsSumOfQuantities(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem(fan(1, "1", 10), 4))
	require.NoError(t, c.AddItem(fan(2, "1", 10), 6))

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 10, c.ItemCount())
}

func TestTotalKeepsFullPrecision(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem(fan(1, "0.105", 10), 3))

	assert.Equal(t, "0.315", c.Total().String())
	assert.Equal(t, "0.32", Display(c.Total()))
}

func TestLinesReturnsCopy(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem(fan(1, "10", 5), 1))

	lines := c.Lines()
	lines[0].Quantity = 99

	line, _ := c.Line(1)
	assert.Equal(t, 1, line.Quantity)
}
