// Package client is a Go client for the shop REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"simple-shop/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode    int
	Code          string
	Message       string
	CorrelationID string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s: %s", e.StatusCode, e.Code, e.Message)
}

// Client calls the shop API and logs the timing of every request.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its transport is used
// as is, without tracing instrumentation.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the underlying HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// New creates a client for the API served at baseURL, e.g. http://localhost:8080.
func New(baseURL string, logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   30 * time.Second,
		},
		logger: logger.With().Str("component", "api-client").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetProducts lists the catalogue.
func (c *Client) GetProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.do(ctx, http.MethodGet, "/api/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct fetches a single product.
func (c *Client) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	var product model.Product
	if err := c.do(ctx, http.MethodGet, "/api/products/"+strconv.FormatInt(id, 10), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateCart allocates a new cart and returns its session ID.
func (c *Client) CreateCart(ctx context.Context) (*model.CreateCartResponse, error) {
	var resp model.CreateCartResponse
	if err := c.do(ctx, http.MethodPost, "/api/cart", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetCart fetches the cart of a session.
func (c *Client) GetCart(ctx context.Context, sessionID string) (*model.Cart, error) {
	var cart model.Cart
	if err := c.do(ctx, http.MethodGet, cartPath(sessionID), nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddToCart adds quantity of a product to the cart and returns the updated cart.
func (c *Client) AddToCart(ctx context.Context, sessionID string, productID int64, quantity int) (*model.Cart, error) {
	req := model.AddCartItemRequest{ProductID: productID, Quantity: quantity}

	var cart model.Cart
	if err := c.do(ctx, http.MethodPost, cartPath(sessionID)+"/items", req, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// RemoveCartItem removes a product from the cart.
func (c *Client) RemoveCartItem(ctx context.Context, sessionID string, productID int64) error {
	endpoint := cartPath(sessionID) + "/items/" + strconv.FormatInt(productID, 10)
	return c.do(ctx, http.MethodDelete, endpoint, nil, &model.MessageResponse{})
}

// Checkout places an order for the session's cart.
func (c *Client) Checkout(ctx context.Context, req *model.CheckoutRequest) (*model.CheckoutResponse, error) {
	var resp model.CheckoutResponse
	if err := c.do(ctx, http.MethodPost, "/api/checkout", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetOrder fetches an order with its items.
func (c *Client) GetOrder(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+orderID.String(), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func cartPath(sessionID string) string {
	return "/api/cart/" + url.PathEscape(sessionID)
}

// do sends a JSON request and decodes a JSON response into out.
func (c *Client) do(ctx context.Context, method, endpoint string, in, out any) (err error) {
	start := time.Now()
	status := 0

	defer func() {
		if err != nil {
			c.logger.Error().
				Err(err).
				Str("endpoint", endpoint).
				Str("method", method).
				Int("status", status).
				Dur("duration", time.Since(start)).
				Msg("API request failed")
			return
		}
		c.logger.Info().
			Str("endpoint", endpoint).
			Str("method", method).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("API request completed")
	}()

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody model.ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&errBody) == nil {
			apiErr.Code = errBody.Error
			apiErr.Message = errBody.Message
			apiErr.CorrelationID = errBody.CorrelationID
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
