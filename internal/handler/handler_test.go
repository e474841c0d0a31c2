package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"simple-shop/internal/middleware"
	"simple-shop/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeError decodes an error response body.
func decodeError(t *testing.T, w *httptest.ResponseRecorder) model.ErrorResponse {
	t.Helper()

	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedCode    string
		expectedMessage string
	}{
		{
			name:            "Cart not found",
			err:             model.ErrCartNotFound,
			expectedStatus:  http.StatusNotFound,
			expectedCode:    model.ErrCodeCartNotFound,
			expectedMessage: "Cart not found",
		},
		{
			name:            "Wrapped order not found",
			err:             fmt.Errorf("lookup: %w", model.ErrOrderNotFound),
			expectedStatus:  http.StatusNotFound,
			expectedCode:    model.ErrCodeOrderNotFound,
			expectedMessage: "Order not found",
		},
		{
			name:            "Product not found",
			err:             model.ErrProductNotFound,
			expectedStatus:  http.StatusNotFound,
			expectedCode:    model.ErrCodeProductNotFound,
			expectedMessage: "Product not found",
		},
		{
			name:            "Empty cart",
			err:             model.ErrEmptyCart,
			expectedStatus:  http.StatusBadRequest,
			expectedCode:    model.ErrCodeEmptyCart,
			expectedMessage: "Cart is empty",
		},
		{
			name:            "Invalid quantity",
			err:             model.ErrInvalidQuantity,
			expectedStatus:  http.StatusBadRequest,
			expectedCode:    model.ErrCodeInvalidQuantity,
			expectedMessage: "Quantity must be between 1 and 10000",
		},
		{
			name:            "Order too large",
			err:             fmt.Errorf("create order: %w", model.ErrOrderTooLarge),
			expectedStatus:  http.StatusBadRequest,
			expectedCode:    model.ErrCodeOrderTooLarge,
			expectedMessage: "Order total exceeds the maximum amount",
		},
		{
			name:            "Validation error",
			err:             model.NewValidationError("paymentMethod is required"),
			expectedStatus:  http.StatusBadRequest,
			expectedCode:    model.ErrCodeValidation,
			expectedMessage: "paymentMethod is required",
		},
		{
			name:            "Store error is hidden",
			err:             &model.StoreError{Op: "query cart", Err: errors.New("password authentication failed")},
			expectedStatus:  http.StatusInternalServerError,
			expectedCode:    model.ErrCodeInternalError,
			expectedMessage: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/cart/abc", nil)
			w := httptest.NewRecorder()

			writeServiceError(w, req, tt.err, zerolog.Nop())

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			resp := decodeError(t, w)
			assert.Equal(t, tt.expectedCode, resp.Error)
			assert.Equal(t, tt.expectedMessage, resp.Message)
			assert.NotContains(t, w.Body.String(), "password")
		})
	}
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	writeJSON(w, http.StatusCreated, model.MessageResponse{Message: "ok"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"ok"}`, w.Body.String())
}

func TestWriteJSON_UnencodableValue(t *testing.T) {
	w := httptest.NewRecorder()

	assert.NotPanics(t, func() {
		writeJSON(w, http.StatusOK, map[string]any{"fn": func() {}})
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestWriteError_CorrelationID(t *testing.T) {
	h := middleware.RequestID(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		writeError(rw, r, http.StatusBadRequest, model.ErrCodeValidation, "bad")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "req-123", decodeError(t, w).CorrelationID)
}
