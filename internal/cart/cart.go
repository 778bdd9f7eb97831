package cart

import (
	"errors"

	"github.com/agromart/client/internal/catalog"
)

var (
	// ErrNotFound means the product is absent from the catalog snapshot
	// or marked inactive.
	ErrNotFound = errors.New("product not found in catalog")
	// ErrOutOfStock means the cached stock is zero.
	ErrOutOfStock = errors.New("product out of stock")
	// ErrStockExceeded means the requested quantity is above the cached
	// stock. The cart is left unchanged.
	ErrStockExceeded = errors.New("quantity exceeds available stock")
)

// Catalog is the read-only product lookup the cart validates against.
// *catalog.Cache satisfies it.
type Catalog interface {
	Get(id int) (catalog.Product, bool)
}

// Line is one product in the cart. UnitPrice is refreshed from the
// catalog on every mutation so the pre-checkout view tracks current
// prices; the immutable price snapshot is taken at order time instead.
type Line struct {
	ProductID int     `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Cart is the client-local, pre-checkout selection. No two lines ever
// reference the same product; adds merge into the existing line.
// Insertion order is kept for persistence, but rendering uses catalog
// order (see the projection package).
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{lines: make([]Line, 0)}
}

func (c *Cart) find(productID int) int {
	for i, l := range c.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

// AddItem puts one unit of the product in the cart, merging with an
// existing line. Adding past the cached stock reports ErrStockExceeded
// and leaves the line unchanged.
func (c *Cart) AddItem(productID int, cat Catalog) error {
	p, ok := cat.Get(productID)
	if !ok || p.Status != catalog.StatusActive {
		return ErrNotFound
	}
	if p.Stock <= 0 {
		return ErrOutOfStock
	}

	i := c.find(productID)
	if i < 0 {
		c.lines = append(c.lines, Line{ProductID: productID, Quantity: 1, UnitPrice: p.Price})
		return nil
	}
	if c.lines[i].Quantity >= p.Stock {
		return ErrStockExceeded
	}
	c.lines[i].Quantity++
	c.lines[i].UnitPrice = p.Price
	return nil
}

// SetQuantity sets a line to exactly qty. qty <= 0 removes the line.
// Quantities above cached stock are rejected, not clamped.
func (c *Cart) SetQuantity(productID, qty int, cat Catalog) error {
	if qty <= 0 {
		c.RemoveItem(productID)
		return nil
	}

	p, ok := cat.Get(productID)
	if !ok || p.Status != catalog.StatusActive {
		return ErrNotFound
	}
	if qty > p.Stock {
		return ErrStockExceeded
	}

	i := c.find(productID)
	if i < 0 {
		c.lines = append(c.lines, Line{ProductID: productID, Quantity: qty, UnitPrice: p.Price})
		return nil
	}
	c.lines[i].Quantity = qty
	c.lines[i].UnitPrice = p.Price
	return nil
}

// RemoveItem is idempotent; removing an absent line is a no-op.
func (c *Cart) RemoveItem(productID int) {
	i := c.find(productID)
	if i < 0 {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// Quantity reports the cart quantity for a product, zero if absent.
func (c *Cart) Quantity(productID int) int {
	i := c.find(productID)
	if i < 0 {
		return 0
	}
	return c.lines[i].Quantity
}

// Subtotal sums quantity times unit price over all lines.
func (c *Cart) Subtotal() float64 {
	var sum float64
	for _, l := range c.lines {
		sum += float64(l.Quantity) * l.UnitPrice
	}
	return sum
}

// Total is subtotal plus the flat shipping fee, never negative.
func (c *Cart) Total(shippingFlatFee float64) float64 {
	t := c.Subtotal() + shippingFlatFee
	if t < 0 {
		return 0
	}
	return t
}

// Clear empties the cart; used after a successful checkout.
func (c *Cart) Clear() {
	c.lines = c.lines[:0]
}

// Len reports the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Restore replaces the cart with previously persisted lines, corrected
// against a fresh catalog: absent or inactive products are dropped,
// quantities are clamped to current stock and prices are re-read. Stale
// persisted values are never trusted.
func (c *Cart) Restore(lines []Line, cat Catalog) {
	c.lines = c.lines[:0]
	for _, l := range lines {
		p, ok := cat.Get(l.ProductID)
		if !ok || p.Status != catalog.StatusActive || p.Stock <= 0 {
			continue
		}
		qty := l.Quantity
		if qty <= 0 {
			continue
		}
		if qty > p.Stock {
			qty = p.Stock
		}
		if c.find(l.ProductID) >= 0 {
			continue
		}
		c.lines = append(c.lines, Line{ProductID: l.ProductID, Quantity: qty, UnitPrice: p.Price})
	}
}
