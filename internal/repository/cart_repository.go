package repository

import (
	"context"
	"errors"

	"simple-shop/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const (
	cartColumns = `id, session_id, user_id, created_at, updated_at`

	cartItemsWithProductSQL = `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, ci.created_at, ci.updated_at,
			p.id, p.name, p.description, p.price, p.image, p.category, p.stock, p.created_at, p.updated_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id
	`
)

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// Create inserts a new empty cart for the session.
func (r *cartRepository) Create(ctx context.Context, sessionID string) (*model.Cart, error) {
	query := `INSERT INTO carts (session_id) VALUES ($1) RETURNING ` + cartColumns

	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		r.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to create cart")
		return nil, storeError("create cart", err)
	}

	cart, err := pgx.CollectExactlyOneRow(rows, scanCart)
	if err != nil {
		r.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to create cart")
		return nil, storeError("create cart", err)
	}
	cart.Items = []model.CartItem{}

	r.logger.Debug().
		Int64("cart_id", cart.ID).
		Str("session_id", sessionID).
		Msg("cart created successfully")

	return &cart, nil
}

// Ensure inserts an empty cart for the session if none exists. Concurrent
// callers never fail on the session_id unique constraint.
func (r *cartRepository) Ensure(ctx context.Context, tx pgx.Tx, sessionID string) (bool, error) {
	tag, err := tx.Exec(ctx,
		`INSERT INTO carts (session_id) VALUES ($1) ON CONFLICT (session_id) DO NOTHING`, sessionID)
	if err != nil {
		r.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to ensure cart")
		return false, storeError("ensure cart", err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetBySessionID retrieves a cart with its items and their products.
func (r *cartRepository) GetBySessionID(ctx context.Context, sessionID string) (*model.Cart, error) {
	cart, err := r.findBySessionID(ctx, r.pool, sessionID, false)
	if err != nil || cart == nil {
		return nil, err
	}

	items, err := r.listItems(ctx, r.pool, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items

	return cart, nil
}

// LockBySessionID retrieves a cart row with FOR UPDATE inside tx.
func (r *cartRepository) LockBySessionID(ctx context.Context, tx pgx.Tx, sessionID string) (*model.Cart, error) {
	return r.findBySessionID(ctx, tx, sessionID, true)
}

// ListItems retrieves the items of a cart joined to their products.
func (r *cartRepository) ListItems(ctx context.Context, tx pgx.Tx, cartID int64) ([]model.CartItem, error) {
	return r.listItems(ctx, tx, cartID)
}

// UpsertItem adds quantity to an existing line or inserts a new one in a
// single statement so concurrent additions never lose an update. A line never
// grows beyond model.MaxItemQuantity.
func (r *cartRepository) UpsertItem(ctx context.Context, tx pgx.Tx, cartID, productID int64, quantity int) error {
	if quantity <= 0 || quantity > model.MaxItemQuantity {
		return model.ErrInvalidQuantity
	}

	query := `
		INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
		WHERE cart_items.quantity + EXCLUDED.quantity <= $4
	`

	tag, err := tx.Exec(ctx, query, cartID, productID, quantity, model.MaxItemQuantity)
	if err != nil {
		switch {
		case hasPgCode(err, pgForeignKeyViolation):
			r.logger.Debug().Int64("product_id", productID).Msg("product not found")
			return model.ErrProductNotFound
		case hasPgCode(err, pgNumericValueOutOfRange):
			r.logger.Debug().Int64("product_id", productID).Int("quantity", quantity).Msg("quantity out of range")
			return model.ErrInvalidQuantity
		}
		r.logger.Error().
			Err(err).
			Int64("cart_id", cartID).
			Int64("product_id", productID).
			Msg("failed to upsert cart item")
		return storeError("upsert cart item", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Debug().
			Int64("cart_id", cartID).
			Int64("product_id", productID).
			Int("quantity", quantity).
			Msg("cart line would exceed maximum quantity")
		return model.ErrInvalidQuantity
	}

	r.logger.Debug().
		Int64("cart_id", cartID).
		Int64("product_id", productID).
		Int("quantity", quantity).
		Msg("cart item upserted")

	return nil
}

// RemoveItem deletes the cart's line for the product.
func (r *cartRepository) RemoveItem(ctx context.Context, tx pgx.Tx, cartID, productID int64) (int64, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`, cartID, productID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("cart_id", cartID).
			Int64("product_id", productID).
			Msg("failed to remove cart item")
		return 0, storeError("remove cart item", err)
	}
	return tag.RowsAffected(), nil
}

// ClearItems deletes all lines of the cart.
func (r *cartRepository) ClearItems(ctx context.Context, tx pgx.Tx, cartID int64) (int64, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		r.logger.Error().Err(err).Int64("cart_id", cartID).Msg("failed to clear cart items")
		return 0, storeError("clear cart items", err)
	}
	return tag.RowsAffected(), nil
}

func (r *cartRepository) findBySessionID(ctx context.Context, q querier, sessionID string, lock bool) (*model.Cart, error) {
	query := `SELECT ` + cartColumns + ` FROM carts WHERE session_id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	rows, err := q.Query(ctx, query, sessionID)
	if err != nil {
		r.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to query cart")
		return nil, storeError("query cart", err)
	}

	cart, err := pgx.CollectExactlyOneRow(rows, scanCart)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("session_id", sessionID).Msg("cart not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to scan cart")
		return nil, storeError("scan cart", err)
	}

	return &cart, nil
}

func (r *cartRepository) listItems(ctx context.Context, q querier, cartID int64) ([]model.CartItem, error) {
	rows, err := q.Query(ctx, cartItemsWithProductSQL, cartID)
	if err != nil {
		r.logger.Error().Err(err).Int64("cart_id", cartID).Msg("failed to query cart items")
		return nil, storeError("query cart items", err)
	}

	items, err := pgx.CollectRows(rows, scanCartItem)
	if err != nil {
		r.logger.Error().Err(err).Int64("cart_id", cartID).Msg("failed to scan cart item rows")
		return nil, storeError("scan cart items", err)
	}

	return items, nil
}

func scanCart(row pgx.CollectableRow) (model.Cart, error) {
	var c model.Cart
	err := row.Scan(&c.ID, &c.SessionID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func scanCartItem(row pgx.CollectableRow) (model.CartItem, error) {
	var (
		item model.CartItem
		p    model.Product
	)
	err := row.Scan(
		&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Image, &p.Category, &p.Stock, &p.CreatedAt, &p.UpdatedAt,
	)
	item.Product = &p
	return item, err
}
