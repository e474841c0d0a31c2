package service

import (
	"context"

	"simple-shop/internal/model"

	"github.com/google/uuid"
)

// ProductService defines read operations on the catalogue.
type ProductService interface {
	// GetAll retrieves all products ordered by ID.
	GetAll(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id int64) (*model.Product, error)
}

// CartService defines operations on session-scoped carts.
type CartService interface {
	// CreateCart allocates an empty cart under a freshly generated session ID.
	CreateCart(ctx context.Context) (*model.CreateCartResponse, error)

	// GetCart retrieves the cart of a session with its items and products.
	GetCart(ctx context.Context, sessionID string) (*model.Cart, error)

	// AddItem adds quantity of a product to the cart and returns the refreshed cart.
	AddItem(ctx context.Context, sessionID string, req *model.AddCartItemRequest) (*model.Cart, error)

	// RemoveItem deletes a product from the cart. Removing a product that is
	// not in the cart succeeds.
	RemoveItem(ctx context.Context, sessionID string, productID int64) error
}

// CheckoutService turns a cart into an order.
type CheckoutService interface {
	// Checkout atomically creates an order from the session's cart and empties the cart.
	Checkout(ctx context.Context, req *model.CheckoutRequest) (*model.CheckoutResponse, error)
}

// OrderService defines read operations on placed orders.
type OrderService interface {
	// GetByID retrieves an order by its ID with all items and product details.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
}
