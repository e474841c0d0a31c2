package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_IsNotFound(t *testing.T) {
	tests := []struct {
		err  *DomainError
		want bool
	}{
		{ErrCartNotFound, true},
		{ErrOrderNotFound, true},
		{ErrProductNotFound, true},
		{ErrEmptyCart, false},
		{ErrInvalidQuantity, false},
		{ErrOrderTooLarge, false},
		{NewValidationError("bad"), false},
	}

	for _, tt := range tests {
		t.Run(tt.err.Code, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.IsNotFound())
		})
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("field %s is required", "sessionId")

	assert.Equal(t, ErrCodeValidation, err.Code)
	assert.Equal(t, "field sessionId is required", err.Error())
}

func TestStoreError(t *testing.T) {
	cause := errors.New("connection refused")
	err := error(&StoreError{Op: "get cart", Err: cause})

	assert.Equal(t, "store: get cart: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)

	var domainErr *DomainError
	assert.False(t, errors.As(err, &domainErr))
}

func TestErrInvalidQuantity_NamesBounds(t *testing.T) {
	assert.Equal(t, "Quantity must be between 1 and 10000", ErrInvalidQuantity.Error())
}
