package service

import (
	"context"
	"encoding/json"
	"strings"

	"simple-shop/internal/model"
	"simple-shop/internal/repository"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// checkoutService implements CheckoutService.
type checkoutService struct {
	tx        repository.Transactor
	cartRepo  repository.CartRepository
	orderRepo repository.OrderRepository
	logger    zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	tx repository.Transactor,
	cartRepo repository.CartRepository,
	orderRepo repository.OrderRepository,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		tx:        tx,
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
		logger:    logger.With().Str("service", "checkout").Logger(),
	}
}

// Checkout creates an order from the session's cart and empties the cart in
// a single transaction. The cart row is locked for the duration, so of two
// concurrent checkouts the second observes an empty cart.
func (s *checkoutService) Checkout(ctx context.Context, req *model.CheckoutRequest) (_ *model.CheckoutResponse, err error) {
	if err := validateCheckoutRequest(req); err != nil {
		s.logger.Warn().Err(err).Msg("invalid checkout request")
		return nil, err
	}

	tx, err := s.tx.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, errors.Wrap(err, "begin transaction")
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	cart, err := s.cartRepo.LockBySessionID(ctx, tx, req.SessionID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", req.SessionID).Msg("failed to lock cart")
		return nil, errors.Wrap(err, "lock cart")
	}
	if cart == nil {
		s.logger.Debug().Str("session_id", req.SessionID).Msg("checkout without cart")
		return nil, model.ErrEmptyCart
	}

	items, err := s.cartRepo.ListItems(ctx, tx, cart.ID)
	if err != nil {
		s.logger.Error().Err(err).Int64("cart_id", cart.ID).Msg("failed to list cart items")
		return nil, errors.Wrap(err, "list cart items")
	}
	if len(items) == 0 {
		s.logger.Debug().Int64("cart_id", cart.ID).Msg("checkout of empty cart")
		return nil, model.ErrEmptyCart
	}

	total := cartTotal(items)
	if total.GreaterThan(model.MaxOrderTotal) {
		s.logger.Warn().
			Int64("cart_id", cart.ID).
			Str("total_amount", total.StringFixed(2)).
			Msg("order total exceeds maximum")
		return nil, model.ErrOrderTooLarge
	}

	order := &model.Order{
		ID:              uuid.New(),
		SessionID:       req.SessionID,
		Status:          model.OrderStatusPending,
		TotalAmount:     total,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   model.PaymentStatusPending,
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, errors.Wrap(err, "create order")
	}

	orderItems := make([]model.OrderItem, len(items))
	for i, item := range items {
		orderItems[i] = model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Product.Price,
		}
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, orderItems); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(orderItems)).
			Msg("failed to create order items")
		return nil, errors.Wrap(err, "create order items")
	}

	if _, err = s.cartRepo.ClearItems(ctx, tx, cart.ID); err != nil {
		s.logger.Error().Err(err).Int64("cart_id", cart.ID).Msg("failed to clear cart")
		return nil, errors.Wrap(err, "clear cart")
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, errors.Wrap(err, "commit checkout")
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("session_id", req.SessionID).
		Int("item_count", len(orderItems)).
		Str("total_amount", order.TotalAmount.StringFixed(2)).
		Msg("checkout completed")

	return &model.CheckoutResponse{
		OrderID:     order.ID,
		TotalAmount: order.TotalAmount,
		Status:      order.Status,
	}, nil
}

// cartTotal sums price × quantity over items in their given order.
func cartTotal(items []model.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total.Round(2)
}

func validateCheckoutRequest(req *model.CheckoutRequest) error {
	if req == nil {
		return model.NewValidationError("request body is required")
	}
	if strings.TrimSpace(req.SessionID) == "" {
		return model.NewValidationError("sessionId is required")
	}
	if strings.TrimSpace(req.PaymentMethod) == "" {
		return model.NewValidationError("paymentMethod is required")
	}
	return validateShippingAddress(req.ShippingAddress)
}

// validateShippingAddress requires a JSON object with at least one field.
// The fields themselves are free-form.
func validateShippingAddress(raw json.RawMessage) error {
	if len(raw) == 0 {
		return model.NewValidationError("shippingAddress is required")
	}

	d := jx.DecodeBytes(raw)
	if d.Next() != jx.Object {
		return model.NewValidationError("shippingAddress must be a JSON object")
	}

	fields := 0
	if err := d.Obj(func(d *jx.Decoder, _ string) error {
		fields++
		return d.Skip()
	}); err != nil {
		return model.NewValidationError("shippingAddress is not valid JSON")
	}
	if fields == 0 {
		return model.NewValidationError("shippingAddress must not be empty")
	}

	return nil
}
