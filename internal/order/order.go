package order

// Line is an ordered item with the unit price captured at order time.
// Unlike a cart line, it is immune to later catalog price changes.
type Line struct {
	ProductID int     `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Order is the server-authoritative record returned by the store. The
// client never mutates its items after submission; status changes go
// through UpdateOrderStatus and a re-fetch.
type Order struct {
	ID              string  `json:"order_id"`
	CustomerName    string  `json:"customer_name"`
	CustomerEmail   string  `json:"customer_email"`
	CustomerPhone   string  `json:"customer_phone"`
	ShippingAddress string  `json:"shipping_address"`
	PaymentMethod   string  `json:"payment_method"`
	Items           []Line  `json:"items"`
	Subtotal        float64 `json:"subtotal"`
	Shipping        float64 `json:"shipping"`
	Total           float64 `json:"total"`
	Status          string  `json:"status"`
	CreatedAt       string  `json:"created_at,omitempty"`
	UpdatedAt       string  `json:"updated_at,omitempty"`
}

// CreateRequest is the POST /orders body.
type CreateRequest struct {
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone"`
	ShippingAddress string `json:"shipping_address"`
	PaymentMethod   string `json:"payment_method"`
	Items           []Line `json:"items"`
}

// Payment methods accepted by the store.
const (
	PaymentCash         = "cash"
	PaymentCard         = "card"
	PaymentBankTransfer = "bank_transfer"
)

// PaymentMethods lists the accepted methods in display order.
var PaymentMethods = []string{PaymentCash, PaymentCard, PaymentBankTransfer}

func ValidPaymentMethod(m string) bool {
	for _, pm := range PaymentMethods {
		if m == pm {
			return true
		}
	}
	return false
}
