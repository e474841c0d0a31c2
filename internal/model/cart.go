package model

import "time"

// Cart is a session-scoped collection of products not yet ordered.
type Cart struct {
	ID        int64      `json:"id" db:"id"`
	SessionID string     `json:"sessionId" db:"session_id"`
	UserID    *int64     `json:"userId" db:"user_id"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
	Items     []CartItem `json:"items"`
}

// MaxItemQuantity is the largest quantity a single cart line may hold.
const MaxItemQuantity = 10000

// CartItem is a single product line in a cart. At most one exists per
// (CartID, ProductID).
type CartItem struct {
	ID        int64     `json:"id" db:"id"`
	CartID    int64     `json:"cartId" db:"cart_id"`
	ProductID int64     `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
	Product   *Product  `json:"product,omitempty"`
}

// AddCartItemRequest represents the request payload for adding to a cart.
type AddCartItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// CreateCartResponse is returned when a new cart is allocated.
type CreateCartResponse struct {
	CartID    int64  `json:"cartId"`
	SessionID string `json:"sessionId"`
}

// MessageResponse carries a plain informational message.
type MessageResponse struct {
	Message string `json:"message"`
}
