package simstore

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/agromart/client/internal/catalog"
)

const testSecret = "test-secret"

func testSeed() []catalog.Product {
	return []catalog.Product{
		{ID: 1, Name: "Tomatoes", Price: 2.99, Stock: 2, Unit: "kg", Status: catalog.StatusActive},
		{ID: 2, Name: "Carrots", Price: 1.99, Stock: 10, Unit: "kg", Status: catalog.StatusActive},
		{ID: 3, Name: "Pumpkins", Price: 5.50, Stock: 5, Unit: "piece", Status: catalog.StatusInactive},
	}
}

func makeApp() *fiber.App {
	return New(NewInMemoryRepository(testSeed()), testSecret, 5.0)
}

// sessionToken mints a token through the public session endpoint, the
// same way the client obtains one.
func sessionToken(t *testing.T, app *fiber.App, role string) string {
	t.Helper()
	req := httptest.NewRequest("POST", "/session", strings.NewReader(fmt.Sprintf(`{"role":%q}`, role)))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("session request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 starting session, got %d", res.StatusCode)
	}
	var body struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("could not decode session body: %v", err)
	}
	if !body.Success || body.Token == "" {
		t.Fatalf("expected a token, got %+v", body)
	}
	return body.Token
}

func doJSON(t *testing.T, app *fiber.App, method, path, token, body string) (int, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, string(b)
}

func TestProductsArePublic(t *testing.T) {
	app := makeApp()

	status, body := doJSON(t, app, "GET", "/products", "", "")
	if status != fiber.StatusOK {
		t.Fatalf("expected 200 for public product list, got %d", status)
	}
	if !strings.Contains(body, "Tomatoes") || !strings.Contains(body, `"success":true`) {
		t.Fatalf("unexpected body: %s", body)
	}
	// the default listing hides inactive products
	if strings.Contains(body, "Pumpkins") {
		t.Fatalf("inactive product leaked into default listing: %s", body)
	}

	status, body = doJSON(t, app, "GET", "/products?status=all", "", "")
	if status != fiber.StatusOK || !strings.Contains(body, "Pumpkins") {
		t.Fatalf("expected status=all to include inactive products, got %d %s", status, body)
	}
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	app := makeApp()

	for _, route := range []struct{ method, path string }{
		{"POST", "/products"},
		{"PUT", "/products/1"},
		{"DELETE", "/products/1"},
		{"POST", "/orders"},
		{"GET", "/orders"},
		{"PUT", "/orders/ORD-X/status"},
		{"GET", "/session/role"},
	} {
		status, _ := doJSON(t, app, route.method, route.path, "", "")
		if status != fiber.StatusUnauthorized {
			t.Fatalf("expected 401 for %s %s without token, got %d", route.method, route.path, status)
		}
	}
}

func TestProductCRUDNeedsPrivilegedRole(t *testing.T) {
	app := makeApp()
	customer := sessionToken(t, app, "customer")
	admin := sessionToken(t, app, "admin")

	payload := `{"name":"Beets","price":2.49,"stock":40,"unit":"kg"}`

	status, _ := doJSON(t, app, "POST", "/products", customer, payload)
	if status != fiber.StatusForbidden {
		t.Fatalf("expected 403 for customer create, got %d", status)
	}

	status, body := doJSON(t, app, "POST", "/products", admin, payload)
	if status != fiber.StatusOK || !strings.Contains(body, "product_id") {
		t.Fatalf("expected admin create to succeed, got %d %s", status, body)
	}

	status, _ = doJSON(t, app, "PUT", "/products/1", admin, `{"name":"Roma Tomatoes","price":3.49,"stock":2,"status":"active"}`)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200 for admin update, got %d", status)
	}
	status, body = doJSON(t, app, "GET", "/products", "", "")
	if status != fiber.StatusOK || !strings.Contains(body, "Roma Tomatoes") {
		t.Fatalf("expected updated name in listing, got %d %s", status, body)
	}

	status, _ = doJSON(t, app, "DELETE", "/products/2", admin, "")
	if status != fiber.StatusOK {
		t.Fatalf("expected 200 for admin delete, got %d", status)
	}
	status, _ = doJSON(t, app, "DELETE", "/products/99", admin, "")
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404 deleting unknown product, got %d", status)
	}
}

func orderPayload(productID, qty int) string {
	return fmt.Sprintf(`{
		"customer_name": "Asha Verma",
		"customer_email": "asha@example.com",
		"customer_phone": "555-0101",
		"shipping_address": "12 Orchard Lane",
		"payment_method": "cash",
		"items": [{"product_id": %d, "quantity": %d, "price": 2.99}]
	}`, productID, qty)
}

func TestCreateOrderDecrementsStock(t *testing.T) {
	app := makeApp()
	customer := sessionToken(t, app, "customer")

	status, body := doJSON(t, app, "POST", "/orders", customer, orderPayload(1, 2))
	if status != fiber.StatusOK || !strings.Contains(body, "ORD-") {
		t.Fatalf("expected order id, got %d %s", status, body)
	}

	// all stock of product 1 is gone now
	status, body = doJSON(t, app, "POST", "/orders", customer, orderPayload(1, 1))
	if status != fiber.StatusConflict {
		t.Fatalf("expected 409 for insufficient stock, got %d %s", status, body)
	}
	if !strings.Contains(body, "insufficient stock") {
		t.Fatalf("expected stock message, got %s", body)
	}

	status, body = doJSON(t, app, "GET", "/products", "", "")
	if status != fiber.StatusOK || !strings.Contains(body, `"stock":0`) {
		t.Fatalf("expected decremented stock in listing, got %d %s", status, body)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	app := makeApp()
	customer := sessionToken(t, app, "customer")

	missingEmail := strings.Replace(orderPayload(1, 1), "asha@example.com", "", 1)
	status, body := doJSON(t, app, "POST", "/orders", customer, missingEmail)
	if status != fiber.StatusBadRequest || !strings.Contains(body, "customer_email") {
		t.Fatalf("expected 400 naming customer_email, got %d %s", status, body)
	}

	// ordering an inactive product is a conflict, not a validation error
	status, body = doJSON(t, app, "POST", "/orders", customer, orderPayload(3, 1))
	if status != fiber.StatusConflict || !strings.Contains(body, "product not found") {
		t.Fatalf("expected 409 for inactive product, got %d %s", status, body)
	}
}

func TestUpdateOrderStatusTransitions(t *testing.T) {
	app := makeApp()
	admin := sessionToken(t, app, "admin")

	_, body := doJSON(t, app, "POST", "/orders", admin, orderPayload(2, 1))
	var created struct {
		OrderID string `json:"order_id"`
	}
	if err := json.Unmarshal([]byte(body), &created); err != nil || created.OrderID == "" {
		t.Fatalf("could not read created order id from %s", body)
	}

	// pending -> delivered skips steps and must be refused
	status, body := doJSON(t, app, "PUT", "/orders/"+created.OrderID+"/status", admin, `{"status":"delivered"}`)
	if status != fiber.StatusConflict || !strings.Contains(body, "cannot go from") {
		t.Fatalf("expected 409 for illegal transition, got %d %s", status, body)
	}

	for _, next := range []string{"confirmed", "shipped", "delivered"} {
		status, body = doJSON(t, app, "PUT", "/orders/"+created.OrderID+"/status", admin, fmt.Sprintf(`{"status":%q}`, next))
		if status != fiber.StatusOK {
			t.Fatalf("expected transition to %s to succeed, got %d %s", next, status, body)
		}
	}

	// delivered is terminal
	status, body = doJSON(t, app, "PUT", "/orders/"+created.OrderID+"/status", admin, `{"status":"cancelled"}`)
	if status != fiber.StatusConflict {
		t.Fatalf("expected 409 cancelling a delivered order, got %d %s", status, body)
	}

	status, body = doJSON(t, app, "PUT", "/orders/ORD-MISSING/status", admin, `{"status":"confirmed"}`)
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown order, got %d %s", status, body)
	}
}

func TestSessionRoleReissuesToken(t *testing.T) {
	app := makeApp()
	seller := sessionToken(t, app, "seller")

	status, body := doJSON(t, app, "GET", "/session/role", seller, "")
	if status != fiber.StatusOK || !strings.Contains(body, "token") {
		t.Fatalf("expected a reissued token, got %d %s", status, body)
	}

	status, _ = doJSON(t, app, "POST", "/session", "", `{"role":"superuser"}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for unknown role, got %d", status)
	}
}
