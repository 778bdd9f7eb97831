package projection

import (
	"testing"

	"github.com/agromart/client/internal/cart"
	"github.com/agromart/client/internal/catalog"
	"github.com/agromart/client/internal/session"
)

type fakeCatalog map[int]catalog.Product

func (f fakeCatalog) Get(id int) (catalog.Product, bool) {
	p, ok := f[id]
	return p, ok
}

func products() []catalog.Product {
	return []catalog.Product{
		{ID: 1, Name: "Tomatoes", Price: 2.99, Stock: 2, Status: catalog.StatusActive, FarmerID: 7},
		{ID: 2, Name: "Carrots", Price: 1.99, Stock: 10, Status: catalog.StatusActive, FarmerID: 8},
		{ID: 3, Name: "Pumpkins", Price: 5.50, Stock: 5, Status: catalog.StatusInactive, FarmerID: 7},
	}
}

func lookup(ps []catalog.Product) fakeCatalog {
	f := fakeCatalog{}
	for _, p := range ps {
		f[p.ID] = p
	}
	return f
}

func TestProjectCatalog_CustomerNeverSeesManagementActions(t *testing.T) {
	role := session.Role{}
	views := ProjectCatalog(products(), role, cart.New())

	for _, v := range views {
		if v.CanEdit || v.CanDelete || v.CanToggleStatus {
			t.Fatalf("expected no management actions for customer, got %+v", v)
		}
		if !v.ShowAddToCart || !v.ShowBuyNow {
			t.Fatalf("expected shopping actions for customer, got %+v", v)
		}
	}
}

func TestProjectCatalog_PrivilegedRoles(t *testing.T) {
	for _, role := range []session.Role{{IsAdmin: true}, {IsApprovedSeller: true}} {
		views := ProjectCatalog(products(), role, cart.New())
		if len(views) != 3 {
			t.Fatalf("expected privileged role to see inactive products too, got %d", len(views))
		}
		for _, v := range views {
			if !v.CanEdit || !v.CanDelete || !v.CanToggleStatus {
				t.Fatalf("expected management actions, got %+v", v)
			}
			if v.ShowAddToCart {
				t.Fatalf("expected no add-to-cart for privileged role, got %+v", v)
			}
		}
	}
}

func TestProjectCatalog_HidesInactiveFromCustomers(t *testing.T) {
	views := ProjectCatalog(products(), session.Role{}, cart.New())
	if len(views) != 2 {
		t.Fatalf("expected inactive product filtered out, got %d views", len(views))
	}
	for _, v := range views {
		if v.ID == 3 {
			t.Fatalf("inactive product leaked into customer view")
		}
	}
}

func TestProjectCatalog_AddToCartDisabledAtFullStock(t *testing.T) {
	ps := products()
	c := cart.New()
	cat := lookup(ps)
	c.AddItem(1, cat)
	c.AddItem(1, cat) // cart now holds the full stock of 2

	views := ProjectCatalog(ps, session.Role{}, c)
	if views[0].ID != 1 {
		t.Fatalf("expected catalog order preserved, got %+v", views[0])
	}
	if !views[0].ShowAddToCart {
		t.Fatalf("expected add-to-cart shown (disabled, not hidden)")
	}
	if views[0].AddToCartEnabled {
		t.Fatalf("expected add-to-cart disabled at full stock")
	}
	if views[1].ID != 2 || !views[1].AddToCartEnabled {
		t.Fatalf("expected add-to-cart enabled for product 2, got %+v", views[1])
	}
}

func TestProjectCatalog_PreservesCatalogOrder(t *testing.T) {
	ps := products()
	c := cart.New()
	cat := lookup(ps)
	// insert into the cart in reverse catalog order
	c.AddItem(2, cat)
	c.AddItem(1, cat)

	views := ProjectCatalog(ps, session.Role{}, c)
	if views[0].ID != 1 || views[1].ID != 2 {
		t.Fatalf("expected catalog order, got %d then %d", views[0].ID, views[1].ID)
	}
}

func TestProjectCart(t *testing.T) {
	ps := products()
	c := cart.New()
	cat := lookup(ps)
	c.AddItem(2, cat)
	c.AddItem(1, cat)
	c.AddItem(1, cat)

	view := ProjectCart(c, ps)
	if len(view.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(view.Lines))
	}
	// cart panel follows catalog order, not insertion order
	if view.Lines[0].ProductID != 1 || view.Lines[1].ProductID != 2 {
		t.Fatalf("expected catalog order in cart view, got %+v", view.Lines)
	}
	if view.ItemCount != 3 {
		t.Fatalf("expected 3 items, got %d", view.ItemCount)
	}
	want := 2*2.99 + 1.99
	if view.Subtotal != want {
		t.Fatalf("expected subtotal %v, got %v", want, view.Subtotal)
	}
}

func TestProjectCart_ProductGoneFromCatalog(t *testing.T) {
	ps := products()
	// build the line against a catalog that no longer matches ps
	stale := cart.New()
	staleCat := fakeCatalog{42: {ID: 42, Name: "Old", Price: 9.99, Stock: 1, Status: catalog.StatusActive}}
	stale.AddItem(42, staleCat)

	view := ProjectCart(stale, ps)
	if len(view.Lines) != 1 {
		t.Fatalf("expected the stale line rendered, got %d", len(view.Lines))
	}
	if view.Lines[0].Name != "(no longer available)" {
		t.Fatalf("expected placeholder name, got %q", view.Lines[0].Name)
	}
}
