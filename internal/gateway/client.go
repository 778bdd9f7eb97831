// Package gateway is the live client for the remote store contract:
// plain REST/JSON, tagged success/error envelopes parsed and validated
// here at the boundary rather than ad hoc at each call site.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/agromart/client/internal/catalog"
	"github.com/agromart/client/internal/order"
)

// Client talks to one remote store. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Response envelopes. Every store response is one of these tagged
// shapes; anything else is treated as a network error.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type productListEnvelope struct {
	envelope
	Products []catalog.Product `json:"products"`
}

type productEnvelope struct {
	envelope
	ProductID int `json:"product_id,omitempty"`
}

type orderEnvelope struct {
	envelope
	OrderID string `json:"order_id,omitempty"`
}

type orderListEnvelope struct {
	envelope
	Orders []order.Order `json:"orders"`
}

type sessionEnvelope struct {
	envelope
	Token string `json:"token,omitempty"`
}

// do issues one JSON request and decodes the envelope into out, which
// must embed envelope. A decodable envelope with success=false becomes a
// BusinessRuleError carrying the store's message verbatim; everything
// else that goes wrong becomes a NetworkError.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	op := method + " " + path

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &NetworkError{Op: op, Err: err}
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer res.Body.Close()

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("status %d: %w", res.StatusCode, err)}
	}

	env := reflectEnvelope(out)
	if env == nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("unexpected response shape")}
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		if msg == "" {
			return &NetworkError{Op: op, Err: fmt.Errorf("status %d with empty error", res.StatusCode)}
		}
		return &BusinessRuleError{Message: msg}
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &NetworkError{Op: op, Err: fmt.Errorf("unexpected status %d", res.StatusCode)}
	}
	return nil
}

func reflectEnvelope(out interface{}) *envelope {
	switch v := out.(type) {
	case *productListEnvelope:
		return &v.envelope
	case *productEnvelope:
		return &v.envelope
	case *orderEnvelope:
		return &v.envelope
	case *orderListEnvelope:
		return &v.envelope
	case *sessionEnvelope:
		return &v.envelope
	case *envelope:
		return v
	}
	return nil
}

// ListProducts fetches the full active product list.
func (c *Client) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	var out productListEnvelope
	if err := c.do(ctx, http.MethodGet, "/products", nil, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// SearchProducts fetches products matching the query server-side.
func (c *Client) SearchProducts(ctx context.Context, query string) ([]catalog.Product, error) {
	var out productListEnvelope
	path := "/products?search=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// CreateProduct submits a new product and returns its id.
func (c *Client) CreateProduct(ctx context.Context, p catalog.Product) (int, error) {
	var out productEnvelope
	if err := c.do(ctx, http.MethodPost, "/products", p, &out); err != nil {
		return 0, err
	}
	return out.ProductID, nil
}

// UpdateProduct replaces the stored product with the given one.
func (c *Client) UpdateProduct(ctx context.Context, p catalog.Product) error {
	var out productEnvelope
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/products/%d", p.ID), p, &out)
}

// DeleteProduct removes a product from the store.
func (c *Client) DeleteProduct(ctx context.Context, id int) error {
	var out productEnvelope
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, &out)
}

// CreateOrder submits the checkout and returns the store's order id.
func (c *Client) CreateOrder(ctx context.Context, req order.CreateRequest) (string, error) {
	var out orderEnvelope
	if err := c.do(ctx, http.MethodPost, "/orders", req, &out); err != nil {
		return "", err
	}
	return out.OrderID, nil
}

// ListOrders fetches the authoritative order list.
func (c *Client) ListOrders(ctx context.Context) ([]order.Order, error) {
	var out orderListEnvelope
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

// UpdateOrderStatus requests a status transition. The caller re-fetches
// the order list afterwards; nothing is advanced locally.
func (c *Client) UpdateOrderStatus(ctx context.Context, id, status string) error {
	var out envelope
	body := map[string]string{"status": status}
	return c.do(ctx, http.MethodPut, "/orders/"+url.PathEscape(id)+"/status", body, &out)
}

// StartSession obtains a role-bearing session token from the store and
// attaches it to every subsequent request.
func (c *Client) StartSession(ctx context.Context, role string) error {
	var out sessionEnvelope
	body := map[string]string{"role": role}
	if err := c.do(ctx, http.MethodPost, "/session", body, &out); err != nil {
		return err
	}
	c.setToken(out.Token)
	return nil
}

// RefreshRoleToken re-fetches the authoritative role token. Privileged
// renders go through this rather than trusting any locally flipped flag.
func (c *Client) RefreshRoleToken(ctx context.Context) (string, error) {
	var out sessionEnvelope
	if err := c.do(ctx, http.MethodGet, "/session/role", nil, &out); err != nil {
		return "", err
	}
	c.setToken(out.Token)
	return out.Token, nil
}

func (c *Client) setToken(tok string) {
	c.mu.Lock()
	c.token = tok
	c.mu.Unlock()
}

// Token returns the current session token, empty before StartSession.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}
