package repository

import (
	"context"

	"simple-shop/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Transactor opens database transactions. Services use it to group writes
// of several repositories into one atomic unit.
type Transactor interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)
}

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves all products ordered by ID.
	GetAll(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	// Returns nil without error if the product does not exist.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// Count returns the number of products in the catalogue.
	Count(ctx context.Context) (int, error)

	// InsertMany inserts products within the provided transaction and
	// assigns the generated IDs back to the slice elements.
	InsertMany(ctx context.Context, tx pgx.Tx, products []model.Product) error
}

// CartRepository defines the interface for cart data access operations.
type CartRepository interface {
	// Create inserts a new empty cart for the session.
	Create(ctx context.Context, sessionID string) (*model.Cart, error)

	// Ensure creates an empty cart for the session within tx unless one
	// already exists, and reports whether it created one.
	Ensure(ctx context.Context, tx pgx.Tx, sessionID string) (bool, error)

	// GetBySessionID retrieves a cart with its items and their products.
	// Returns nil without error if no cart matches.
	GetBySessionID(ctx context.Context, sessionID string) (*model.Cart, error)

	// LockBySessionID retrieves a cart row and locks it until tx ends.
	// Items are not loaded. Returns nil without error if no cart matches.
	LockBySessionID(ctx context.Context, tx pgx.Tx, sessionID string) (*model.Cart, error)

	// ListItems retrieves the items of a cart joined to their products,
	// ordered by item ID.
	ListItems(ctx context.Context, tx pgx.Tx, cartID int64) ([]model.CartItem, error)

	// UpsertItem adds quantity to the cart's line for the product, creating
	// the line if it does not exist yet.
	UpsertItem(ctx context.Context, tx pgx.Tx, cartID, productID int64, quantity int) error

	// RemoveItem deletes the cart's line for the product and returns the
	// number of rows removed.
	RemoveItem(ctx context.Context, tx pgx.Tx, cartID, productID int64) (int64, error)

	// ClearItems deletes all lines of the cart and returns the number of rows removed.
	ClearItems(ctx context.Context, tx pgx.Tx, cartID int64) (int64, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items and their products.
	// Returns nil without error if the order does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
}
