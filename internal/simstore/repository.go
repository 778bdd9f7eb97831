package simstore

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agromart/client/internal/catalog"
	"github.com/agromart/client/internal/order"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Repository provides access to the simulated store's data. Order
// creation checks and decrements stock in the same step.
type Repository interface {
	ListProducts(status, search string) ([]catalog.Product, error)
	GetProduct(id int) (catalog.Product, error)
	CreateProduct(p catalog.Product) (int, error)
	UpdateProduct(p catalog.Product) error
	DeleteProduct(id int) error
	CreateOrder(o order.Order) (order.Order, error)
	ListOrders() ([]order.Order, error)
	GetOrder(id string) (order.Order, error)
	UpdateOrderStatus(id, status string) error
}

// InMemoryRepository backs the store for demos and tests.
type InMemoryRepository struct {
	mu       sync.RWMutex
	products []catalog.Product
	orders   []order.Order
	nextID   int
}

func NewInMemoryRepository(seed []catalog.Product) *InMemoryRepository {
	r := &InMemoryRepository{products: make([]catalog.Product, 0, len(seed))}
	maxID := 0
	for _, p := range seed {
		r.products = append(r.products, p)
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	r.nextID = maxID + 1
	return r
}

func matches(p catalog.Product, status, search string) bool {
	if status != "all" && p.Status != status {
		return false
	}
	if search != "" {
		q := strings.ToLower(search)
		if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Description), q) {
			return false
		}
	}
	return true
}

func (r *InMemoryRepository) ListProducts(status, search string) ([]catalog.Product, error) {
	if status == "" {
		status = catalog.StatusActive
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]catalog.Product, 0, len(r.products))
	for _, p := range r.products {
		if matches(p, status, search) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) GetProduct(id int) (catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return catalog.Product{}, ErrProductNotFound
}

func (r *InMemoryRepository) CreateProduct(p catalog.Product) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.nextID
	r.nextID++
	if p.Status == "" {
		p.Status = catalog.StatusActive
	}
	p.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	r.products = append(r.products, p)
	return p.ID, nil
}

func (r *InMemoryRepository) UpdateProduct(p catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.products {
		if existing.ID == p.ID {
			if p.CreatedAt == "" {
				p.CreatedAt = existing.CreatedAt
			}
			r.products[i] = p
			return nil
		}
	}
	return ErrProductNotFound
}

func (r *InMemoryRepository) DeleteProduct(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.products {
		if p.ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}
	return ErrProductNotFound
}

// CreateOrder verifies and decrements stock for every item, then stores
// the order under a fresh ORD- id. Nothing is decremented unless the
// whole order fits.
func (r *InMemoryRepository) CreateOrder(o order.Order) (order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	index := make(map[int]int, len(r.products))
	for i, p := range r.products {
		index[p.ID] = i
	}
	for _, it := range o.Items {
		i, ok := index[it.ProductID]
		if !ok || r.products[i].Status != catalog.StatusActive {
			return order.Order{}, fmt.Errorf("%w: product %d", ErrProductNotFound, it.ProductID)
		}
		if r.products[i].Stock < it.Quantity {
			return order.Order{}, fmt.Errorf("%w for %s", ErrInsufficientStock, r.products[i].Name)
		}
	}
	for _, it := range o.Items {
		r.products[index[it.ProductID]].Stock -= it.Quantity
	}

	o.ID = newOrderID()
	now := time.Now().UTC().Format(time.RFC3339)
	o.CreatedAt = now
	o.UpdatedAt = now
	r.orders = append(r.orders, o)
	return o, nil
}

func (r *InMemoryRepository) ListOrders() ([]order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]order.Order, len(r.orders))
	copy(out, r.orders)
	return out, nil
}

func (r *InMemoryRepository) GetOrder(id string) (order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return order.Order{}, ErrOrderNotFound
}

func (r *InMemoryRepository) UpdateOrderStatus(id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, o := range r.orders {
		if o.ID == id {
			r.orders[i].Status = status
			r.orders[i].UpdatedAt = time.Now().UTC().Format(time.RFC3339)
			return nil
		}
	}
	return ErrOrderNotFound
}

func newOrderID() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}
