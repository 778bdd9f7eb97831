// Package projection derives view-models from model state. Everything
// here is a pure function: same inputs, same output, no mutation, so
// re-renders produce stable DOM-diff-friendly results.
package projection

import (
	"github.com/agromart/client/internal/cart"
	"github.com/agromart/client/internal/catalog"
	"github.com/agromart/client/internal/session"
)

// ProductView is one product tile. Which action flags are set depends
// only on the role context; add-to-cart is disabled (not hidden) once the
// cart already holds the full cached stock.
type ProductView struct {
	ID       int
	Name     string
	Price    float64
	Unit     string
	Stock    int
	Category string
	Farmer   string
	Image    string
	Status   string

	InCartQty int

	// Management actions, admins and approved sellers only.
	CanEdit         bool
	CanDelete       bool
	CanToggleStatus bool

	// Shopping actions, everyone else.
	ShowAddToCart    bool
	AddToCartEnabled bool
	ShowBuyNow       bool
}

// CartLineView is one row of the cart panel.
type CartLineView struct {
	ProductID int
	Name      string
	Unit      string
	Quantity  int
	UnitPrice float64
	LineTotal float64
}

// CartView is the cart panel plus its derived totals.
type CartView struct {
	Lines     []CartLineView
	ItemCount int
	Subtotal  float64
}

// ProjectCatalog maps the catalog snapshot to product tiles, preserving
// catalog order (not cart insertion order). Non-privileged roles only see
// active products; privileged roles see everything so they can toggle
// status.
func ProjectCatalog(products []catalog.Product, role session.Role, c *cart.Cart) []ProductView {
	out := make([]ProductView, 0, len(products))
	for _, p := range products {
		if !role.Privileged() && p.Status != catalog.StatusActive {
			continue
		}

		v := ProductView{
			ID:        p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Unit:      p.Unit,
			Stock:     p.Stock,
			Category:  p.Category,
			Farmer:    p.Farmer,
			Image:     p.Image,
			Status:    p.Status,
			InCartQty: c.Quantity(p.ID),
		}

		if role.Privileged() {
			v.CanEdit = true
			v.CanDelete = true
			v.CanToggleStatus = true
		} else {
			v.ShowAddToCart = true
			v.ShowBuyNow = true
			v.AddToCartEnabled = p.Stock > 0 && v.InCartQty < p.Stock
		}
		out = append(out, v)
	}
	return out
}

// ProjectCart maps the cart to its panel view. Line order follows the
// catalog snapshot so the panel stays stable across re-renders; lines for
// products that dropped out of the snapshot keep their cached price and
// render last, in cart order.
func ProjectCart(c *cart.Cart, products []catalog.Product) CartView {
	lines := c.Lines()
	byID := make(map[int]cart.Line, len(lines))
	for _, l := range lines {
		byID[l.ProductID] = l
	}

	view := CartView{Lines: make([]CartLineView, 0, len(lines))}
	seen := make(map[int]bool, len(lines))

	for _, p := range products {
		l, ok := byID[p.ID]
		if !ok {
			continue
		}
		seen[p.ID] = true
		view.Lines = append(view.Lines, CartLineView{
			ProductID: p.ID,
			Name:      p.Name,
			Unit:      p.Unit,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			LineTotal: float64(l.Quantity) * l.UnitPrice,
		})
	}
	for _, l := range lines {
		if seen[l.ProductID] {
			continue
		}
		view.Lines = append(view.Lines, CartLineView{
			ProductID: l.ProductID,
			Name:      "(no longer available)",
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			LineTotal: float64(l.Quantity) * l.UnitPrice,
		})
	}

	for _, l := range view.Lines {
		view.ItemCount += l.Quantity
		view.Subtotal += l.LineTotal
	}
	return view
}
