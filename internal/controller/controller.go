// Package controller is the event router: it maps the closed set of user
// intents to cart/catalog mutations and store calls, then re-renders.
// It owns all session state explicitly; there are no package-level
// globals to reach for.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/agromart/client/internal/cart"
	"github.com/agromart/client/internal/catalog"
	"github.com/agromart/client/internal/gateway"
	"github.com/agromart/client/internal/order"
	"github.com/agromart/client/internal/projection"
	"github.com/agromart/client/internal/session"
)

// Store is the remote-store surface the controller needs. The live
// gateway client satisfies it; tests use fakes.
type Store interface {
	SearchProducts(ctx context.Context, query string) ([]catalog.Product, error)
	CreateProduct(ctx context.Context, p catalog.Product) (int, error)
	UpdateProduct(ctx context.Context, p catalog.Product) error
	DeleteProduct(ctx context.Context, id int) error
	CreateOrder(ctx context.Context, req order.CreateRequest) (string, error)
	ListOrders(ctx context.Context) ([]order.Order, error)
	UpdateOrderStatus(ctx context.Context, id, status string) error
	StartSession(ctx context.Context, role string) error
	RefreshRoleToken(ctx context.Context) (string, error)
}

// Notifier receives the single user-visible transient message an action
// may produce.
type Notifier interface {
	Notify(message string)
}

type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

// Renderer receives the full view after every state change.
type Renderer interface {
	Render(view View)
}

type RendererFunc func(view View)

func (f RendererFunc) Render(view View) { f(view) }

// View is the whole derived UI state, rebuilt from the model on every
// render.
type View struct {
	Products    []projection.ProductView
	Cart        projection.CartView
	Role        session.Role
	Query       string
	Shipping    float64
	Total       float64
	Orders      []order.Order
	LastOrderID string
}

// Options configures a Controller.
type Options struct {
	Storage     *session.Storage
	ShippingFee float64
	DemoMode    bool
	Notifier    Notifier
	Renderer    Renderer
}

// Controller holds the client session: catalog cache, cart, role context
// and the in-flight bookkeeping. Constructed once per session.
type Controller struct {
	store   Store
	cache   *catalog.Cache
	storage *session.Storage

	shippingFee float64
	demoMode    bool
	notifier    Notifier
	renderer    Renderer

	mu            sync.Mutex
	cart          *cart.Cart
	role          session.Role
	busy          map[string]bool
	searchQuery   string
	searchResults []catalog.Product
	searching     bool
	orders        []order.Order
	lastOrderID   string

	searchSeq uint64
}

func New(store Store, cache *catalog.Cache, opts Options) *Controller {
	n := opts.Notifier
	if n == nil {
		n = NotifierFunc(func(string) {})
	}
	r := opts.Renderer
	if r == nil {
		r = RendererFunc(func(View) {})
	}
	return &Controller{
		store:       store,
		cache:       cache,
		storage:     opts.Storage,
		shippingFee: opts.ShippingFee,
		demoMode:    opts.DemoMode,
		notifier:    n,
		renderer:    r,
		cart:        cart.New(),
		busy:        map[string]bool{},
	}
}

// begin marks an action in flight; a second trigger for the same logical
// action is refused until the first completes. This is the duplicate
// submission guard, not a queue.
func (c *Controller) begin(action string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy[action] {
		return false
	}
	c.busy[action] = true
	return true
}

func (c *Controller) end(action string) {
	c.mu.Lock()
	delete(c.busy, action)
	c.mu.Unlock()
}

// OnStart brings a fresh session up: first catalog fetch, persisted cart
// restore corrected against that snapshot, and the authoritative role.
func (c *Controller) OnStart(ctx context.Context) error {
	if err := c.cache.Refresh(ctx); err != nil {
		c.reportNetwork("load catalog", err)
		return err
	}

	c.mu.Lock()
	if c.storage != nil {
		if lines, err := c.storage.LoadCart(); err != nil {
			fmt.Printf("warning: could not load persisted cart: %v\n", err)
		} else {
			c.cart.Restore(lines, c.cache)
		}
	}
	c.mu.Unlock()
	c.persist()

	c.refreshRole(ctx)
	c.render()
	return nil
}

// OnAddToCart puts one unit of the product in the cart.
func (c *Controller) OnAddToCart(productID int) {
	c.mu.Lock()
	err := c.cart.AddItem(productID, c.cache)
	c.mu.Unlock()

	if err != nil {
		c.reportCartError(err)
		return
	}
	c.persist()
	c.render()
}

// OnRemoveFromCart drops the product's line; absent lines are a no-op.
func (c *Controller) OnRemoveFromCart(productID int) {
	c.mu.Lock()
	c.cart.RemoveItem(productID)
	c.mu.Unlock()
	c.persist()
	c.render()
}

// OnChangeQuantity sets a line to exactly qty; qty <= 0 removes it.
func (c *Controller) OnChangeQuantity(productID, qty int) {
	c.mu.Lock()
	err := c.cart.SetQuantity(productID, qty, c.cache)
	c.mu.Unlock()

	if err != nil {
		c.reportCartError(err)
		return
	}
	c.persist()
	c.render()
}

// OnCheckout validates the form locally, then submits the order. All
// field checks happen before any network call; on store failure the cart
// and form are left intact and the store's message is surfaced verbatim.
func (c *Controller) OnCheckout(ctx context.Context, form order.CheckoutForm) {
	c.mu.Lock()
	lines := c.cart.Lines()
	c.mu.Unlock()

	items := make([]order.Line, 0, len(lines))
	for _, l := range lines {
		items = append(items, order.Line{ProductID: l.ProductID, Quantity: l.Quantity, Price: l.UnitPrice})
	}
	if err := order.ValidateCheckout(form, items); err != nil {
		c.notifier.Notify(err.Error())
		return
	}

	if !c.begin("checkout") {
		c.notifier.Notify("checkout already in progress")
		return
	}
	defer c.end("checkout")

	req := order.CreateRequest{
		CustomerName:    form.CustomerName,
		CustomerEmail:   form.CustomerEmail,
		CustomerPhone:   form.CustomerPhone,
		ShippingAddress: form.ShippingAddress,
		PaymentMethod:   form.PaymentMethod,
		Items:           items,
	}
	orderID, err := c.store.CreateOrder(ctx, req)
	if err != nil {
		c.reportStoreError("place order", err)
		return
	}

	c.mu.Lock()
	c.cart.Clear()
	c.lastOrderID = orderID
	c.mu.Unlock()
	c.persist()
	c.notifier.Notify("order " + orderID + " placed")
	c.render()
}

// OnRefreshCatalog re-fetches the snapshot and corrects the cart against
// it. On failure the previous snapshot stays in place.
func (c *Controller) OnRefreshCatalog(ctx context.Context) {
	if !c.begin("refresh-catalog") {
		return
	}
	defer c.end("refresh-catalog")

	if err := c.cache.Refresh(ctx); err != nil {
		c.reportNetwork("refresh catalog", err)
		return
	}

	c.mu.Lock()
	c.cart.Restore(c.cart.Lines(), c.cache)
	c.mu.Unlock()
	c.persist()
	c.render()
}

// OnSearch runs a server-side search. Each call bumps a monotonic
// counter; a response that comes back after a newer query has already
// been issued is discarded, so out-of-order completions never clobber
// fresher results.
func (c *Controller) OnSearch(ctx context.Context, query string) {
	if query == "" {
		c.mu.Lock()
		c.searching = false
		c.searchQuery = ""
		c.searchResults = nil
		c.mu.Unlock()
		c.render()
		return
	}

	seq := atomic.AddUint64(&c.searchSeq, 1)
	products, err := c.store.SearchProducts(ctx, query)

	if seq != atomic.LoadUint64(&c.searchSeq) {
		// superseded by a newer query; drop the result
		return
	}
	if err != nil {
		c.reportNetwork("search products", err)
		return
	}

	c.mu.Lock()
	if seq == atomic.LoadUint64(&c.searchSeq) {
		c.searching = true
		c.searchQuery = query
		c.searchResults = products
	}
	c.mu.Unlock()
	c.render()
}

// OnToggleRole cycles the demo view between customer, seller and admin
// by requesting a fresh session from the store. It is a demo affordance:
// outside demo mode it only re-fetches the authoritative role.
func (c *Controller) OnToggleRole(ctx context.Context) {
	if !c.demoMode {
		c.notifier.Notify("view switching is a demo feature; re-checking role with the store")
		c.refreshRole(ctx)
		c.render()
		return
	}

	c.mu.Lock()
	next := nextDemoRole(c.role)
	c.mu.Unlock()

	if err := c.store.StartSession(ctx, next); err != nil {
		c.reportStoreError("switch role", err)
		return
	}

	c.refreshRole(ctx)
	c.notifier.Notify("now viewing as " + roleName(c.Role()))
	c.render()
}

// OnRefreshOrders fetches the authoritative order list.
func (c *Controller) OnRefreshOrders(ctx context.Context) {
	orders, err := c.store.ListOrders(ctx)
	if err != nil {
		c.reportStoreError("load orders", err)
		return
	}
	c.mu.Lock()
	c.orders = orders
	c.mu.Unlock()
	c.render()
}

// OnUpdateOrderStatus requests a transition and re-fetches the order
// list. The status is never advanced locally: an unconfirmed admin
// action must not be shown as fact.
func (c *Controller) OnUpdateOrderStatus(ctx context.Context, orderID, status string) {
	if !c.requirePrivilege() {
		return
	}
	if !order.ValidStatus(status) {
		c.notifier.Notify("unknown order status " + status)
		return
	}

	c.mu.Lock()
	for _, o := range c.orders {
		if o.ID == orderID && !order.CanTransition(o.Status, status) {
			c.mu.Unlock()
			c.notifier.Notify(fmt.Sprintf("order %s cannot go from %s to %s", orderID, o.Status, status))
			return
		}
	}
	c.mu.Unlock()

	if !c.begin("order-status") {
		return
	}
	defer c.end("order-status")

	if err := c.store.UpdateOrderStatus(ctx, orderID, status); err != nil {
		c.reportStoreError("update order status", err)
		return
	}
	c.OnRefreshOrders(ctx)
}

// OnSaveProduct creates or updates a product, then refreshes the catalog
// so the snapshot stays wholesale-consistent with the store.
func (c *Controller) OnSaveProduct(ctx context.Context, p catalog.Product) {
	if !c.requirePrivilege() {
		return
	}
	if !c.begin("product-save") {
		return
	}
	defer c.end("product-save")

	var err error
	if p.ID == 0 {
		_, err = c.store.CreateProduct(ctx, p)
	} else {
		err = c.store.UpdateProduct(ctx, p)
	}
	if err != nil {
		c.reportStoreError("save product", err)
		return
	}

	if err := c.cache.Refresh(ctx); err != nil {
		c.reportNetwork("refresh catalog", err)
		return
	}
	c.render()
}

// OnDeleteProduct removes a product, then refreshes the catalog.
func (c *Controller) OnDeleteProduct(ctx context.Context, id int) {
	if !c.requirePrivilege() {
		return
	}
	if !c.begin("product-delete") {
		return
	}
	defer c.end("product-delete")

	if err := c.store.DeleteProduct(ctx, id); err != nil {
		c.reportStoreError("delete product", err)
		return
	}
	if err := c.cache.Refresh(ctx); err != nil {
		c.reportNetwork("refresh catalog", err)
		return
	}
	c.mu.Lock()
	c.cart.Restore(c.cart.Lines(), c.cache)
	c.mu.Unlock()
	c.persist()
	c.render()
}

// Role returns the current role context.
func (c *Controller) Role() session.Role {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.role
}

// CartLines exposes the current cart lines, mainly for persistence and
// tests.
func (c *Controller) CartLines() []cart.Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cart.Lines()
}

// View builds the current view-model.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Controller) viewLocked() View {
	products := c.cache.Products()
	if c.searching {
		products = c.searchResults
	}
	cartView := projection.ProjectCart(c.cart, c.cache.Products())
	return View{
		Products:    projection.ProjectCatalog(products, c.role, c.cart),
		Cart:        cartView,
		Role:        c.role,
		Query:       c.searchQuery,
		Shipping:    c.shippingFee,
		Total:       c.cart.Total(c.shippingFee),
		Orders:      c.orders,
		LastOrderID: c.lastOrderID,
	}
}

func (c *Controller) render() {
	c.mu.Lock()
	view := c.viewLocked()
	c.mu.Unlock()
	c.renderer.Render(view)
}

func (c *Controller) persist() {
	if c.storage == nil {
		return
	}
	c.mu.Lock()
	lines := c.cart.Lines()
	c.mu.Unlock()
	if err := c.storage.SaveCart(lines); err != nil {
		fmt.Printf("warning: could not persist cart: %v\n", err)
	}
}

// refreshRole replaces the role wholesale from a fresh store token.
func (c *Controller) refreshRole(ctx context.Context) {
	token, err := c.store.RefreshRoleToken(ctx)
	if err != nil {
		c.reportStoreError("check role", err)
		return
	}
	role, err := session.RoleFromToken(token)
	if err != nil {
		c.notifier.Notify("could not read role from session token")
		return
	}
	c.mu.Lock()
	c.role = role
	c.mu.Unlock()
}

func (c *Controller) requirePrivilege() bool {
	c.mu.Lock()
	privileged := c.role.Privileged()
	c.mu.Unlock()
	if !privileged {
		c.notifier.Notify("this action needs an admin or approved seller role")
	}
	return privileged
}

func (c *Controller) reportCartError(err error) {
	switch {
	case errors.Is(err, cart.ErrNotFound):
		c.notifier.Notify("that product is not available")
	case errors.Is(err, cart.ErrOutOfStock):
		c.notifier.Notify("that product is out of stock")
	case errors.Is(err, cart.ErrStockExceeded):
		c.notifier.Notify("no more stock available for that product")
	default:
		c.notifier.Notify(err.Error())
	}
}

// reportStoreError surfaces business-rule messages verbatim and hides
// raw network errors behind a retry suggestion.
func (c *Controller) reportStoreError(op string, err error) {
	var rule *gateway.BusinessRuleError
	if errors.As(err, &rule) {
		c.notifier.Notify(rule.Message)
		return
	}
	c.reportNetwork(op, err)
}

func (c *Controller) reportNetwork(op string, err error) {
	fmt.Printf("warning: %s failed: %v\n", op, err)
	c.notifier.Notify("could not " + op + "; please try again")
}

func nextDemoRole(r session.Role) string {
	switch {
	case r.IsAdmin:
		return "customer"
	case r.IsApprovedSeller:
		return "admin"
	default:
		return "seller"
	}
}

func roleName(r session.Role) string {
	switch {
	case r.IsAdmin:
		return "admin"
	case r.IsApprovedSeller:
		return "approved seller"
	default:
		return "customer"
	}
}
