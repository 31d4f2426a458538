package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type line struct {
	Quantity int `json:"quantity" validate:"min=1"`
}

type request struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cod upi"`
	Items         []line `json:"items" validate:"required,min=1,dive"`
}

func TestFromBindError_UsesJSONPaths(t *testing.T) {
	req := request{PaymentMethod: "card", Items: []line{{Quantity: 1}, {Quantity: 0}}}
	err := validator.New().Struct(&req)
	require.Error(t, err)

	got := FromBindError(err, &req)
	assert.Equal(t, "Must be one of: cod upi.", got["payment_method"])
	assert.Equal(t, "Must be at least 1.", got["items[1].quantity"])
}

func TestFromBindError_NonValidationError(t *testing.T) {
	got := FromBindError(assert.AnError, &request{})
	assert.Contains(t, got, "_")
}
