// internal/domain/cart/cart.go
package cart

import (
	"github.com/shopspring/decimal"
)

// Cart is the in-memory set of lines a customer intends to buy.
// Every mutation either applies fully or leaves the cart unchanged.
type Cart struct {
	lines []Line
}

// New builds a cart from a stored snapshot
func New(lines ...Line) *Cart {
	c := &Cart{lines: make([]Line, 0, len(lines))}
	c.lines = append(c.lines, lines...)
	return c
}

// AddItem merges quantity into the product's line, creating it if needed
func (c *Cart) AddItem(p Product, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	idx := c.indexOf(p.ID)
	newQuantity := quantity
	if idx >= 0 {
		newQuantity += c.lines[idx].Quantity
	}

	if newQuantity > p.Stock {
		return &StockError{ProductID: p.ID, Requested: newQuantity, Available: p.Stock}
	}

	line := Line{
		ProductID:    p.ID,
		Name:         p.Name,
		UnitPrice:    p.Price,
		Quantity:     newQuantity,
		StockCeiling: p.Stock,
		ImageURL:     p.ImageURL,
	}

	if idx >= 0 {
		c.lines[idx] = line
	} else {
		c.lines = append(c.lines, line)
	}
	return nil
}

// RemoveItem deletes the product's line; absent products are ignored
func (c *Cart) RemoveItem(productID uint) {
	idx := c.indexOf(productID)
	if idx < 0 {
		return
	}
	c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
}

// SetQuantity replaces a line's quantity. Quantities below one and unknown
// products are no-ops; exceeding the line's stock ceiling is a StockError.
func (c *Cart) SetQuantity(productID uint, quantity int) error {
	if quantity < 1 {
		return nil
	}

	idx := c.indexOf(productID)
	if idx < 0 {
		return nil
	}

	if quantity > c.lines[idx].StockCeiling {
		return &StockError{ProductID: productID, Requested: quantity, Available: c.lines[idx].StockCeiling}
	}

	c.lines[idx].Quantity = quantity
	return nil
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.lines = c.lines[:0]
}

// Total is the sum of unit price times quantity over all lines
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// ItemCount is the sum of quantities, not the number of lines
func (c *Cart) ItemCount() int {
	count := 0
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

// Lines returns a copy of the cart lines in insertion order
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Line looks up a single product's line
func (c *Cart) Line(productID uint) (Line, bool) {
	idx := c.indexOf(productID)
	if idx < 0 {
		return Line{}, false
	}
	return c.lines[idx], true
}

// Len is the number of distinct products
func (c *Cart) Len() int {
	return len(c.lines)
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) indexOf(productID uint) int {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Display rounds an amount to two decimals for presentation only
func Display(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
