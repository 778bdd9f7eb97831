package order

import (
	"fmt"
	"strings"
)

// CheckoutForm carries the customer-entered order fields.
type CheckoutForm struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ShippingAddress string
	PaymentMethod   string
}

// ValidationError is a client-side field check failure. It is raised
// before any network call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidateCheckout checks the form and the ordered items. It returns a
// *ValidationError naming the first offending field, or nil.
func ValidateCheckout(form CheckoutForm, items []Line) error {
	required := []struct {
		field, value string
	}{
		{"customer_name", form.CustomerName},
		{"customer_email", form.CustomerEmail},
		{"customer_phone", form.CustomerPhone},
		{"shipping_address", form.ShippingAddress},
		{"payment_method", form.PaymentMethod},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Reason: "is required"}
		}
	}
	if !strings.Contains(form.CustomerEmail, "@") {
		return &ValidationError{Field: "customer_email", Reason: "is not a valid email"}
	}
	if !ValidPaymentMethod(form.PaymentMethod) {
		return &ValidationError{Field: "payment_method", Reason: "must be one of " + strings.Join(PaymentMethods, ", ")}
	}
	if len(items) == 0 {
		return &ValidationError{Field: "items", Reason: "cart is empty"}
	}
	for _, it := range items {
		if it.Quantity <= 0 {
			return &ValidationError{Field: "items", Reason: fmt.Sprintf("product %d has non-positive quantity", it.ProductID)}
		}
	}
	return nil
}
