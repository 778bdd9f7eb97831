package simstore

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/agromart/client/internal/catalog"
	"github.com/agromart/client/internal/order"
)

// Handler serves the remote-store REST contract over the repository.
type Handler struct {
	repo        Repository
	secret      []byte
	shippingFee float64
}

func NewHandler(repo Repository, secret string, shippingFee float64) *Handler {
	return &Handler{repo: repo, secret: []byte(secret), shippingFee: shippingFee}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/products", h.listProducts)
	app.Post("/session", h.startSession)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/products", h.createProduct)
	app.Put("/products/:id<[0-9]+>", h.updateProduct)
	app.Delete("/products/:id<[0-9]+>", h.deleteProduct)
	app.Post("/orders", h.createOrder)
	app.Get("/orders", h.listOrders)
	app.Put("/orders/:id/status", h.updateOrderStatus)
	app.Get("/session/role", h.sessionRole)
}

func (h *Handler) listProducts(c *fiber.Ctx) error {
	status := c.Query("status", catalog.StatusActive)
	search := c.Query("search")

	products, err := h.repo.ListProducts(status, search)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "products": products})
}

func (h *Handler) createProduct(c *fiber.Ctx) error {
	if !privilegedFromCtx(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "error": "unauthorized"})
	}

	payload := new(catalog.Product)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	if payload.Name == "" || payload.Price < 0 || payload.Stock < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "name is required and price/stock must be non-negative"})
	}

	id, err := h.repo.CreateProduct(*payload)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "message": "product added", "product_id": id})
}

func (h *Handler) updateProduct(c *fiber.Ctx) error {
	if !privilegedFromCtx(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "error": "unauthorized"})
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "invalid product id"})
	}
	payload := new(catalog.Product)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	payload.ID = id

	if err := h.repo.UpdateProduct(*payload); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": "product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "message": "product updated"})
}

func (h *Handler) deleteProduct(c *fiber.Ctx) error {
	if !privilegedFromCtx(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "error": "unauthorized"})
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "invalid product id"})
	}

	if err := h.repo.DeleteProduct(id); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": "product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "message": "product deleted"})
}

func (h *Handler) createOrder(c *fiber.Ctx) error {
	payload := new(order.CreateRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	form := order.CheckoutForm{
		CustomerName:    payload.CustomerName,
		CustomerEmail:   payload.CustomerEmail,
		CustomerPhone:   payload.CustomerPhone,
		ShippingAddress: payload.ShippingAddress,
		PaymentMethod:   payload.PaymentMethod,
	}
	if err := order.ValidateCheckout(form, payload.Items); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	var subtotal float64
	for _, it := range payload.Items {
		subtotal += float64(it.Quantity) * it.Price
	}

	created, err := h.repo.CreateOrder(order.Order{
		CustomerName:    payload.CustomerName,
		CustomerEmail:   payload.CustomerEmail,
		CustomerPhone:   payload.CustomerPhone,
		ShippingAddress: payload.ShippingAddress,
		PaymentMethod:   payload.PaymentMethod,
		Items:           payload.Items,
		Subtotal:        subtotal,
		Shipping:        h.shippingFee,
		Total:           subtotal + h.shippingFee,
		Status:          order.StatusPending,
	})
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, ErrInsufficientStock) || errors.Is(err, ErrProductNotFound) {
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "order_id": created.ID})
}

func (h *Handler) listOrders(c *fiber.Ctx) error {
	orders, err := h.repo.ListOrders()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "orders": orders})
}

func (h *Handler) updateOrderStatus(c *fiber.Ctx) error {
	if !privilegedFromCtx(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "error": "unauthorized"})
	}

	payload := new(struct {
		Status string `json:"status"`
	})
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	if !order.ValidStatus(payload.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "unknown status " + payload.Status})
	}

	id := c.Params("id")
	existing, err := h.repo.GetOrder(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": "order not found"})
	}
	if !order.CanTransition(existing.Status, payload.Status) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"error":   "order cannot go from " + existing.Status + " to " + payload.Status,
		})
	}

	if err := h.repo.UpdateOrderStatus(id, payload.Status); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true})
}

// startSession mints a role-bearing token. This stands in for the real
// auth collaborator and is a demo affordance, not a security boundary.
func (h *Handler) startSession(c *fiber.Ctx) error {
	payload := new(struct {
		Role string `json:"role"`
	})
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	var isAdmin, isSeller bool
	switch payload.Role {
	case "admin":
		isAdmin = true
	case "seller":
		isSeller = true
	case "customer", "":
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "unknown role " + payload.Role})
	}

	token, err := h.mintToken(uuid.NewString(), isAdmin, isSeller)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "token": token})
}

// sessionRole reissues a fresh token for the caller's session so the
// client can re-check its role before any privileged render.
func (h *Handler) sessionRole(c *fiber.Ctx) error {
	claims, err := claimsFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "unauthorized"})
	}

	sessionID, _ := claims["session_id"].(string)
	isAdmin, _ := claims["is_admin"].(bool)
	isSeller, _ := claims["is_approved_seller"].(bool)

	token, err := h.mintToken(sessionID, isAdmin, isSeller)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "token": token})
}

func (h *Handler) mintToken(sessionID string, isAdmin, isSeller bool) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"session_id":         sessionID,
		"is_admin":           isAdmin,
		"is_approved_seller": isSeller,
		"iat":                now.Unix(),
		"exp":                now.Add(24 * time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.secret)
}

func claimsFromCtx(c *fiber.Ctx) (jwt.MapClaims, error) {
	u := c.Locals("user")
	if u == nil {
		return nil, fiber.ErrUnauthorized
	}
	tok, ok := u.(*jwt.Token)
	if !ok {
		return nil, fiber.ErrUnauthorized
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

func privilegedFromCtx(c *fiber.Ctx) bool {
	claims, err := claimsFromCtx(c)
	if err != nil {
		return false
	}
	isAdmin, _ := claims["is_admin"].(bool)
	isSeller, _ := claims["is_approved_seller"].(bool)
	return isAdmin || isSeller
}
