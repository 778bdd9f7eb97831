package catalog

// Product is the read-only product shape served by the remote store.
// The client never mutates a Product; the snapshot is replaced wholesale
// on every successful refresh.
type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Category    string  `json:"category,omitempty"`
	CategoryID  int     `json:"category_id,omitempty"`
	Farmer      string  `json:"farmer,omitempty"`
	FarmerID    int     `json:"farmer_id,omitempty"`
	Stock       int     `json:"stock"`
	Unit        string  `json:"unit,omitempty"`
	Image       string  `json:"image,omitempty"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at,omitempty"`
}

// Product statuses as reported by the store.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Category is derived from the product snapshot; the store does not expose
// a separate category listing on this contract.
type Category struct {
	ID   int    `json:"category_id"`
	Name string `json:"category"`
}
