package simstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/agromart/client/internal/catalog"
	"github.com/agromart/client/internal/order"
)

// PostgresRepository persists the simulated store in Postgres, for demos
// that should survive restarts. Opened with the pgx stdlib driver.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the tables when missing and seeds the produce
// catalog into an empty products table.
func (r *PostgresRepository) EnsureSchema(seed []catalog.Product) error {
	if _, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS products (
		product_id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		price NUMERIC NOT NULL DEFAULT 0,
		category TEXT,
		category_id INT,
		farmer TEXT,
		farmer_id INT,
		stock INT NOT NULL DEFAULT 0,
		unit TEXT,
		image TEXT,
		status TEXT NOT NULL DEFAULT 'active',
		created_at TEXT
	)`); err != nil {
		return err
	}
	if _, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS orders (
		order_id TEXT PRIMARY KEY,
		customer_name TEXT NOT NULL,
		customer_email TEXT NOT NULL,
		customer_phone TEXT,
		shipping_address TEXT,
		payment_method TEXT,
		items JSONB NOT NULL DEFAULT '[]',
		subtotal NUMERIC NOT NULL DEFAULT 0,
		shipping NUMERIC NOT NULL DEFAULT 0,
		total NUMERIC NOT NULL DEFAULT 0,
		status TEXT,
		created_at TEXT,
		updated_at TEXT
	)`); err != nil {
		return err
	}

	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, p := range seed {
		if _, err := r.db.Exec(`INSERT INTO products (name, description, price, category, category_id, farmer, farmer_id, stock, unit, image, status, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
			p.Name, p.Description, p.Price, p.Category, p.CategoryID, p.Farmer, p.FarmerID, p.Stock, p.Unit, p.Image, p.Status, p.CreatedAt); err != nil {
			fmt.Printf("warning: could not seed product %q: %v\n", p.Name, err)
		}
	}
	return nil
}

const productColumns = `product_id, name, COALESCE(description,''), price, COALESCE(category,''), COALESCE(category_id,0), COALESCE(farmer,''), COALESCE(farmer_id,0), stock, COALESCE(unit,''), COALESCE(image,''), status, COALESCE(created_at,'')`

func scanProduct(row interface{ Scan(...interface{}) error }) (catalog.Product, error) {
	var p catalog.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.CategoryID, &p.Farmer, &p.FarmerID, &p.Stock, &p.Unit, &p.Image, &p.Status, &p.CreatedAt)
	return p, err
}

func (r *PostgresRepository) ListProducts(status, search string) ([]catalog.Product, error) {
	if status == "" {
		status = catalog.StatusActive
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE ($1 = 'all' OR status = $1)
		AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR description ILIKE '%' || $2 || '%')
		ORDER BY product_id`
	rows, err := r.db.Query(query, status, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]catalog.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *PostgresRepository) GetProduct(id int) (catalog.Product, error) {
	row := r.db.QueryRow(`SELECT `+productColumns+` FROM products WHERE product_id = $1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *PostgresRepository) CreateProduct(p catalog.Product) (int, error) {
	if p.Status == "" {
		p.Status = catalog.StatusActive
	}
	var id int
	err := r.db.QueryRow(`INSERT INTO products (name, description, price, category, category_id, farmer, farmer_id, stock, unit, image, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,NOW()::TEXT) RETURNING product_id`,
		p.Name, p.Description, p.Price, p.Category, p.CategoryID, p.Farmer, p.FarmerID, p.Stock, p.Unit, p.Image, p.Status).Scan(&id)
	return id, err
}

func (r *PostgresRepository) UpdateProduct(p catalog.Product) error {
	res, err := r.db.Exec(`UPDATE products SET name=$1, description=$2, price=$3, category=$4, category_id=$5, farmer=$6, farmer_id=$7, stock=$8, unit=$9, image=$10, status=$11
		WHERE product_id = $12`,
		p.Name, p.Description, p.Price, p.Category, p.CategoryID, p.Farmer, p.FarmerID, p.Stock, p.Unit, p.Image, p.Status, p.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrProductNotFound
	}
	return err
}

func (r *PostgresRepository) DeleteProduct(id int) error {
	res, err := r.db.Exec(`DELETE FROM products WHERE product_id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrProductNotFound
	}
	return err
}

// CreateOrder locks the ordered products, verifies stock, decrements it
// and inserts the order in one transaction.
func (r *PostgresRepository) CreateOrder(o order.Order) (order.Order, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return order.Order{}, err
	}
	defer tx.Rollback()

	ids := make([]int, 0, len(o.Items))
	for _, it := range o.Items {
		ids = append(ids, it.ProductID)
	}

	rows, err := tx.Query(`SELECT product_id, name, stock, status FROM products WHERE product_id = ANY($1::int[]) FOR UPDATE`, pq.Array(ids))
	if err != nil {
		return order.Order{}, err
	}
	type stockRow struct {
		name   string
		stock  int
		status string
	}
	stocks := map[int]stockRow{}
	for rows.Next() {
		var id int
		var sr stockRow
		if err := rows.Scan(&id, &sr.name, &sr.stock, &sr.status); err != nil {
			rows.Close()
			return order.Order{}, err
		}
		stocks[id] = sr
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return order.Order{}, err
	}

	for _, it := range o.Items {
		sr, ok := stocks[it.ProductID]
		if !ok || sr.status != catalog.StatusActive {
			return order.Order{}, fmt.Errorf("%w: product %d", ErrProductNotFound, it.ProductID)
		}
		if sr.stock < it.Quantity {
			return order.Order{}, fmt.Errorf("%w for %s", ErrInsufficientStock, sr.name)
		}
	}
	for _, it := range o.Items {
		if _, err := tx.Exec(`UPDATE products SET stock = stock - $1 WHERE product_id = $2`, it.Quantity, it.ProductID); err != nil {
			return order.Order{}, err
		}
	}

	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return order.Order{}, err
	}
	o.ID = newOrderID()
	if _, err := tx.Exec(`INSERT INTO orders (order_id, customer_name, customer_email, customer_phone, shipping_address, payment_method, items, subtotal, shipping, total, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,NOW()::TEXT,NOW()::TEXT)`,
		o.ID, o.CustomerName, o.CustomerEmail, o.CustomerPhone, o.ShippingAddress, o.PaymentMethod, itemsJSON, o.Subtotal, o.Shipping, o.Total, o.Status); err != nil {
		return order.Order{}, err
	}

	if err := tx.Commit(); err != nil {
		return order.Order{}, err
	}
	return o, nil
}

const orderColumns = `order_id, customer_name, customer_email, COALESCE(customer_phone,''), COALESCE(shipping_address,''), COALESCE(payment_method,''), items, subtotal, shipping, total, COALESCE(status,''), COALESCE(created_at,''), COALESCE(updated_at,'')`

func scanOrder(row interface{ Scan(...interface{}) error }) (order.Order, error) {
	var o order.Order
	var itemsJSON []byte
	if err := row.Scan(&o.ID, &o.CustomerName, &o.CustomerEmail, &o.CustomerPhone, &o.ShippingAddress, &o.PaymentMethod, &itemsJSON, &o.Subtotal, &o.Shipping, &o.Total, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return order.Order{}, err
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return order.Order{}, err
	}
	return o, nil
}

func (r *PostgresRepository) ListOrders() ([]order.Order, error) {
	rows, err := r.db.Query(`SELECT ` + orderColumns + ` FROM orders ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]order.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *PostgresRepository) GetOrder(id string) (order.Order, error) {
	row := r.db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE order_id = $1`, id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return order.Order{}, ErrOrderNotFound
	}
	return o, err
}

func (r *PostgresRepository) UpdateOrderStatus(id, status string) error {
	res, err := r.db.Exec(`UPDATE orders SET status = $1, updated_at = NOW()::TEXT WHERE order_id = $2`, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrOrderNotFound
	}
	return err
}
