// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInsufficientStock is matched by every StockError
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidQuantity is returned when adding less than one unit
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// StockError reports a rejected mutation that would exceed the stock ceiling
type StockError struct {
	ProductID uint
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// Is makes errors.Is(err, ErrInsufficientStock) true for any StockError
func (e *StockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// Line is one product-quantity pairing in a cart
type Line struct {
	ProductID    uint            `json:"product_id"`
	Name         string          `json:"name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	StockCeiling int             `json:"stock_ceiling"`
	ImageURL     string          `json:"image_url,omitempty"`
}

// Subtotal returns unit price times quantity, unrounded
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Product is the catalog data the cart needs to add a line
type Product struct {
	ID       uint
	Name     string
	Price    decimal.Decimal
	Stock    int
	ImageURL string
}

// Summary is the read model returned to clients
type Summary struct {
	SessionID string          `json:"session_id"`
	Lines     []Line          `json:"lines"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
	Display   string          `json:"total_display"`
}
