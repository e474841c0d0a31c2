package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"simple-shop/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *bytes.Buffer) {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	var buf bytes.Buffer
	return New(srv.URL+"/", zerolog.New(&buf)), &buf
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestClient_GetProducts(t *testing.T) {
	c, logs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/products", r.URL.Path)
		writeJSON(t, w, http.StatusOK, []model.Product{
			{ID: 1, Name: "Laptop", Price: decimal.RequireFromString("999.99")},
			{ID: 2, Name: "Mouse", Price: decimal.RequireFromString("25")},
		})
	})

	products, err := c.GetProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Laptop", products[0].Name)
	assert.True(t, products[0].Price.Equal(decimal.RequireFromString("999.99")))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
	assert.Equal(t, "/api/products", entry["endpoint"])
	assert.Equal(t, "GET", entry["method"])
	assert.EqualValues(t, 200, entry["status"])
	assert.Contains(t, entry, "duration")
}

func TestClient_GetProduct_NotFound(t *testing.T) {
	c, logs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/42", r.URL.Path)
		writeJSON(t, w, http.StatusNotFound, model.ErrorResponse{
			Error:         model.ErrCodeProductNotFound,
			Message:       "Product not found",
			CorrelationID: "req-1",
		})
	})

	product, err := c.GetProduct(context.Background(), 42)
	assert.Nil(t, product)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, model.ErrCodeProductNotFound, apiErr.Code)
	assert.Equal(t, "req-1", apiErr.CorrelationID)
	assert.Contains(t, logs.String(), `"level":"error"`)
	assert.Contains(t, logs.String(), "API request failed")
}

func TestClient_CartFlow(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/cart", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusCreated, model.CreateCartResponse{CartID: 7, SessionID: "abc"})
	})
	mux.HandleFunc("GET /api/cart/{sessionId}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "abc", r.PathValue("sessionId"))
		writeJSON(t, w, http.StatusOK, model.Cart{ID: 7, SessionID: "abc", Items: []model.CartItem{}})
	})
	mux.HandleFunc("POST /api/cart/{sessionId}/items", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var req model.AddCartItemRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, model.AddCartItemRequest{ProductID: 3, Quantity: 2}, req)
		writeJSON(t, w, http.StatusOK, model.Cart{
			ID:        7,
			SessionID: "abc",
			Items:     []model.CartItem{{ProductID: 3, Quantity: 2}},
		})
	})
	mux.HandleFunc("DELETE /api/cart/{sessionId}/items/{productId}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.PathValue("productId"))
		writeJSON(t, w, http.StatusOK, model.MessageResponse{Message: "Item removed from cart"})
	})
	c, _ := newTestClient(t, mux.ServeHTTP)
	ctx := context.Background()

	created, err := c.CreateCart(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", created.SessionID)

	cart, err := c.GetCart(ctx, created.SessionID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	cart, err = c.AddToCart(ctx, created.SessionID, 3, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	require.NoError(t, c.RemoveCartItem(ctx, created.SessionID, 3))
}

func TestClient_SessionIDIsEscaped(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/cart/a%2Fb", r.URL.EscapedPath())
		writeJSON(t, w, http.StatusOK, model.Cart{SessionID: "a/b"})
	})

	_, err := c.GetCart(context.Background(), "a/b")
	require.NoError(t, err)
}

func TestClient_CheckoutAndGetOrder(t *testing.T) {
	orderID := uuid.New()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/checkout", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"sessionId":"abc","shippingAddress":{"city":"Paris"},"paymentMethod":"card"}`, string(body))
		writeJSON(t, w, http.StatusCreated, model.CheckoutResponse{
			OrderID:     orderID,
			TotalAmount: decimal.RequireFromString("25"),
			Status:      model.OrderStatusPending,
		})
	})
	mux.HandleFunc("GET /api/orders/{orderId}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, orderID.String(), r.PathValue("orderId"))
		writeJSON(t, w, http.StatusOK, model.Order{
			ID:            orderID,
			SessionID:     "abc",
			Status:        model.OrderStatusPending,
			PaymentStatus: model.PaymentStatusPending,
			TotalAmount:   decimal.RequireFromString("25"),
		})
	})
	c, _ := newTestClient(t, mux.ServeHTTP)
	ctx := context.Background()

	resp, err := c.Checkout(ctx, &model.CheckoutRequest{
		SessionID:       "abc",
		ShippingAddress: json.RawMessage(`{"city":"Paris"}`),
		PaymentMethod:   "card",
	})
	require.NoError(t, err)
	assert.Equal(t, orderID, resp.OrderID)
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(25)))

	order, err := c.GetOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, "abc", order.SessionID)
	assert.Equal(t, model.PaymentStatusPending, order.PaymentStatus)
}

func TestClient_ErrorWithoutJSONBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := c.GetProducts(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Empty(t, apiErr.Code)
	assert.Equal(t, "api error: status 502", apiErr.Error())
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c := New(srv.URL, zerolog.Nop(), WithTimeout(50*time.Millisecond))

	_, err := c.GetProducts(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestClient_WithHTTPClient(t *testing.T) {
	called := false
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		called = true
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(bytes.NewBufferString(`[]`)),
			Request:    r,
		}, nil
	})}

	c := New("http://shop.invalid", zerolog.Nop(), WithHTTPClient(hc))

	products, err := c.GetProducts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.True(t, called)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}
