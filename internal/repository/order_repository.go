package repository

import (
	"context"
	"encoding/json"
	"errors"

	"simple-shop/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// CreateOrder inserts a new order within the provided transaction and fills
// in the server-assigned timestamps.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (id, session_id, status, total_amount, shipping_address, payment_method, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := tx.QueryRow(ctx, query,
		order.ID,
		order.SessionID,
		string(order.Status),
		order.TotalAmount,
		[]byte(order.ShippingAddress),
		order.PaymentMethod,
		string(order.PaymentStatus),
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if hasPgCode(err, pgNumericValueOutOfRange) {
			r.logger.Debug().
				Str("order_id", order.ID.String()).
				Str("total_amount", order.TotalAmount.String()).
				Msg("order total out of range")
			return model.ErrOrderTooLarge
		}
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return storeError("create order", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Str("total_amount", order.TotalAmount.StringFixed(2)).
		Msg("order created successfully")

	return nil
}

// CreateOrderItems inserts multiple order items within the provided transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4, $5)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.ID, item.OrderID, item.ProductID, item.Quantity, item.Price)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := range items {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Int64("product_id", items[i].ProductID).
				Msg("failed to create order item")
			return storeError("create order item", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items created successfully")

	return nil
}

// GetByID retrieves an order by its ID along with its items and their products.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	orderQuery := `
		SELECT id, session_id, status, total_amount, shipping_address, payment_method, payment_status, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var (
		order   model.Order
		address []byte
	)
	err := r.pool.QueryRow(ctx, orderQuery, id).Scan(
		&order.ID,
		&order.SessionID,
		&order.Status,
		&order.TotalAmount,
		&address,
		&order.PaymentMethod,
		&order.PaymentStatus,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, storeError("query order", err)
	}
	order.ShippingAddress = json.RawMessage(address)

	itemsQuery := `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price,
			p.id, p.name, p.description, p.price, p.image, p.category, p.stock, p.created_at, p.updated_at
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.product_id
	`

	rows, err := r.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", id.String()).
			Msg("failed to query order items")
		return nil, storeError("query order items", err)
	}

	items, err := pgx.CollectRows(rows, scanOrderItem)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to scan order item rows")
		return nil, storeError("scan order items", err)
	}
	order.Items = items

	return &order, nil
}

func scanOrderItem(row pgx.CollectableRow) (model.OrderItem, error) {
	var (
		item model.OrderItem
		p    model.Product
	)
	err := row.Scan(
		&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price,
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Image, &p.Category, &p.Stock, &p.CreatedAt, &p.UpdatedAt,
	)
	item.Product = &p
	return item, err
}
