package catalog

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Source lists products from the remote store. The live gateway and the
// simulated store client both satisfy it.
type Source interface {
	ListProducts(ctx context.Context) ([]Product, error)
}

// Cache holds the last successfully fetched product snapshot. Refresh
// replaces the whole snapshot atomically; a failed refresh leaves the
// previous snapshot in place so callers never see a torn view.
type Cache struct {
	mu        sync.RWMutex
	src       Source
	products  []Product
	byID      map[int]int
	refreshed time.Time
}

func NewCache(src Source) *Cache {
	return &Cache{src: src, byID: map[int]int{}}
}

// Refresh fetches the full product list and swaps it in. On error the
// cache is left unchanged and the error is returned to the caller; retry
// policy belongs to the surrounding UI code.
func (c *Cache) Refresh(ctx context.Context) error {
	products, err := c.src.ListProducts(ctx)
	if err != nil {
		return err
	}

	byID := make(map[int]int, len(products))
	for i, p := range products {
		byID[p.ID] = i
	}

	c.mu.Lock()
	c.products = products
	c.byID = byID
	c.refreshed = time.Now()
	c.mu.Unlock()
	return nil
}

// Products returns a copy of the snapshot in store order.
func (c *Cache) Products() []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Get looks a product up by id in the current snapshot.
func (c *Cache) Get(id int) (Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// Search filters the snapshot by a case-insensitive match on name or
// description, preserving store order. An empty query returns everything.
func (c *Cache) Search(query string) []Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return c.Products()
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Product, 0)
	for _, p := range c.products {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Description), q) {
			out = append(out, p)
		}
	}
	return out
}

// Categories derives the distinct category list from the snapshot, in
// first-seen order.
func (c *Cache) Categories() []Category {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := map[int]bool{}
	out := make([]Category, 0)
	for _, p := range c.products {
		if p.CategoryID == 0 || seen[p.CategoryID] {
			continue
		}
		seen[p.CategoryID] = true
		out = append(out, Category{ID: p.CategoryID, Name: p.Category})
	}
	return out
}

// Len reports the number of cached products.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.products)
}

// LastRefresh reports when the snapshot was last replaced; zero if never.
func (c *Cache) LastRefresh() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshed
}
