package repository

import (
	"context"
	"errors"
	"fmt"

	"simple-shop/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const productColumns = `id, name, description, price, image, category, stock, created_at, updated_at`

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// GetAll retrieves all products ordered by ID.
func (r *productRepository) GetAll(ctx context.Context) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, storeError("query products", err)
	}

	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to scan product rows")
		return nil, storeError("scan products", err)
	}

	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to query product")
		return nil, storeError("query product", err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to scan product")
		return nil, storeError("scan product", err)
	}

	return &p, nil
}

// Count returns the number of products in the catalogue.
func (r *productRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		r.logger.Error().Err(err).Msg("failed to count products")
		return 0, storeError("count products", err)
	}
	return count, nil
}

// InsertMany inserts products within the provided transaction.
func (r *productRepository) InsertMany(ctx context.Context, tx pgx.Tx, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}

	query := `
		INSERT INTO products (name, description, price, image, category, stock)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(query, p.Name, p.Description, p.Price, p.Image, p.Category, p.Stock)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := range products {
		p := &products[i]
		if err := results.QueryRow().Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			r.logger.Error().
				Err(err).
				Str("product_name", p.Name).
				Msg("failed to insert product")
			return storeError(fmt.Sprintf("insert product %q", p.Name), err)
		}
	}

	r.logger.Debug().
		Int("count", len(products)).
		Msg("products inserted successfully")

	return nil
}

func scanProduct(row pgx.CollectableRow) (model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Image,
		&p.Category, &p.Stock, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}
