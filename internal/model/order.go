package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// PaymentStatus records the payment state. It is set once at checkout and
// never transitioned by this service.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// MaxOrderTotal is the largest amount the orders.total_amount column can hold.
var MaxOrderTotal = decimal.RequireFromString("9999999999.99")

// Order represents a placed customer order. It is immutable once created.
type Order struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	SessionID       string          `json:"sessionId" db:"session_id"`
	Status          OrderStatus     `json:"status" db:"status"`
	TotalAmount     decimal.Decimal `json:"totalAmount" db:"total_amount"`
	ShippingAddress json.RawMessage `json:"shippingAddress" db:"shipping_address"`
	PaymentMethod   string          `json:"paymentMethod" db:"payment_method"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus" db:"payment_status"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`
	Items           []OrderItem     `json:"items"`
}

// OrderItem is a line in an order. Price is the unit price at the time of
// purchase and does not follow later catalogue changes.
type OrderItem struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	OrderID   uuid.UUID       `json:"orderId" db:"order_id"`
	ProductID int64           `json:"productId" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Product   *Product        `json:"product,omitempty"`
}

// CheckoutRequest represents the request payload for checking out a cart.
type CheckoutRequest struct {
	SessionID       string          `json:"sessionId"`
	ShippingAddress json.RawMessage `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
}

// CheckoutResponse represents the response payload of a successful checkout.
type CheckoutResponse struct {
	OrderID     uuid.UUID       `json:"orderId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      OrderStatus     `json:"status"`
}
