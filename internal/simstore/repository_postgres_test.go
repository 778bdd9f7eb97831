package simstore

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/agromart/client/internal/catalog"
	"github.com/agromart/client/internal/order"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	return NewPostgresRepository(db), mock, func() { db.Close() }
}

func productRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"product_id", "name", "description", "price", "category", "category_id",
		"farmer", "farmer_id", "stock", "unit", "image", "status", "created_at",
	})
}

func TestPostgresListProducts(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	rows := productRows().
		AddRow(1, "Tomatoes", "vine ripened", 2.99, "Vegetables", 1, "Green Acres", 7, 120, "kg", "", "active", "2026-01-01").
		AddRow(2, "Carrots", "", 1.99, "Vegetables", 1, "Sunrise Farm", 8, 80, "kg", "", "active", "2026-01-01")
	mock.ExpectQuery("FROM products").WithArgs("active", "").WillReturnRows(rows)

	products, err := repo.ListProducts("", "")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(products) != 2 || products[0].Name != "Tomatoes" || products[1].Stock != 80 {
		t.Fatalf("unexpected products: %+v", products)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresUpdateProduct_NotFound(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectExec("UPDATE products SET").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateProduct(catalog.Product{ID: 99, Name: "Beets", Price: 2.49, Stock: 40, Status: "active"})
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestPostgresUpdateOrderStatus(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectExec("UPDATE orders SET status").
		WithArgs("confirmed", "ORD-AB12CD34").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateOrderStatus("ORD-AB12CD34", "confirmed"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	mock.ExpectExec("UPDATE orders SET status").
		WithArgs("confirmed", "ORD-MISSING").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.UpdateOrderStatus("ORD-MISSING", "confirmed"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresCreateOrder_InsufficientStockRollsBack(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectBegin()
	rows := sqlmock.NewRows([]string{"product_id", "name", "stock", "status"}).
		AddRow(1, "Tomatoes", 1, "active")
	mock.ExpectQuery("FOR UPDATE").WithArgs(pq.Array([]int{1})).WillReturnRows(rows)
	mock.ExpectRollback()

	_, err := repo.CreateOrder(order.Order{
		CustomerName:  "Asha Verma",
		CustomerEmail: "asha@example.com",
		Items:         []order.Line{{ProductID: 1, Quantity: 3, Price: 2.99}},
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresCreateOrder_CommitsDecrementAndInsert(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectBegin()
	rows := sqlmock.NewRows([]string{"product_id", "name", "stock", "status"}).
		AddRow(1, "Tomatoes", 10, "active")
	mock.ExpectQuery("FOR UPDATE").WithArgs(pq.Array([]int{1})).WillReturnRows(rows)
	mock.ExpectExec("UPDATE products SET stock").WithArgs(2, 1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	created, err := repo.CreateOrder(order.Order{
		CustomerName:  "Asha Verma",
		CustomerEmail: "asha@example.com",
		Items:         []order.Line{{ProductID: 1, Quantity: 2, Price: 2.99}},
		Subtotal:      5.98,
		Shipping:      5.0,
		Total:         10.98,
		Status:        order.StatusPending,
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(created.ID) == 0 || created.ID[:4] != "ORD-" {
		t.Fatalf("expected an ORD- id, got %q", created.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
