package service

import (
	"context"

	"simple-shop/internal/model"
	"simple-shop/internal/repository"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	tx       repository.Transactor
	cartRepo repository.CartRepository
	logger   zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(tx repository.Transactor, cartRepo repository.CartRepository, logger zerolog.Logger) CartService {
	return &cartService{
		tx:       tx,
		cartRepo: cartRepo,
		logger:   logger.With().Str("service", "cart").Logger(),
	}
}

// CreateCart allocates an empty cart under a freshly generated session ID.
func (s *cartService) CreateCart(ctx context.Context) (*model.CreateCartResponse, error) {
	sessionID := uuid.New().String()

	cart, err := s.cartRepo.Create(ctx, sessionID)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create cart")
		return nil, errors.Wrap(err, "create cart")
	}

	s.logger.Info().
		Int64("cart_id", cart.ID).
		Str("session_id", cart.SessionID).
		Msg("cart created")

	return &model.CreateCartResponse{
		CartID:    cart.ID,
		SessionID: cart.SessionID,
	}, nil
}

// GetCart retrieves the cart of a session with its items and products.
func (s *cartService) GetCart(ctx context.Context, sessionID string) (*model.Cart, error) {
	if sessionID == "" {
		return nil, model.ErrCartNotFound
	}

	cart, err := s.cartRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to get cart")
		return nil, errors.Wrap(err, "get cart")
	}

	if cart == nil {
		s.logger.Debug().Str("session_id", sessionID).Msg("cart not found")
		return nil, model.ErrCartNotFound
	}

	return cart, nil
}

// AddItem adds quantity of a product to the cart and returns the refreshed cart.
// The quantity is added to an existing line rather than replacing it.
func (s *cartService) AddItem(ctx context.Context, sessionID string, req *model.AddCartItemRequest) (*model.Cart, error) {
	if req == nil {
		return nil, model.NewValidationError("request body is required")
	}
	if req.ProductID <= 0 {
		return nil, model.NewValidationError("productId must be a positive integer")
	}
	if req.Quantity <= 0 || req.Quantity > model.MaxItemQuantity {
		s.logger.Warn().
			Str("session_id", sessionID).
			Int64("product_id", req.ProductID).
			Int("quantity", req.Quantity).
			Msg("invalid quantity")
		return nil, model.ErrInvalidQuantity
	}

	err := s.withLockedCart(ctx, sessionID, func(tx pgx.Tx, cart *model.Cart) error {
		return s.cartRepo.UpsertItem(ctx, tx, cart.ID, req.ProductID, req.Quantity)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("session_id", sessionID).
		Int64("product_id", req.ProductID).
		Int("quantity", req.Quantity).
		Msg("item added to cart")

	return s.GetCart(ctx, sessionID)
}

// RemoveItem deletes a product from the cart.
func (s *cartService) RemoveItem(ctx context.Context, sessionID string, productID int64) error {
	var removed int64
	err := s.withLockedCart(ctx, sessionID, func(tx pgx.Tx, cart *model.Cart) error {
		var err error
		removed, err = s.cartRepo.RemoveItem(ctx, tx, cart.ID, productID)
		return err
	})
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("session_id", sessionID).
		Int64("product_id", productID).
		Int64("removed", removed).
		Msg("item removed from cart")

	return nil
}

// withLockedCart runs fn in a transaction holding the row lock of the
// session's cart. The transaction is committed if fn succeeds.
func (s *cartService) withLockedCart(ctx context.Context, sessionID string, fn func(tx pgx.Tx, cart *model.Cart) error) (err error) {
	if sessionID == "" {
		return model.ErrCartNotFound
	}

	tx, err := s.tx.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return errors.Wrap(err, "begin transaction")
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	cart, err := s.cartRepo.LockBySessionID(ctx, tx, sessionID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to lock cart")
		return errors.Wrap(err, "lock cart")
	}
	if cart == nil {
		s.logger.Debug().Str("session_id", sessionID).Msg("cart not found")
		return model.ErrCartNotFound
	}

	if err = fn(tx, cart); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to commit transaction")
		return errors.Wrap(err, "commit transaction")
	}

	return nil
}
