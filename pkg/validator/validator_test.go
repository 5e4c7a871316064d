package validator

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1,lte=100"`
	Shipping  string `json:"shipping" validate:"required,oneof=standard express"`
}

func TestValidate_Success(t *testing.T) {
	err := Validate(sampleRequest{ProductID: "p1", Quantity: 2, Shipping: "express"})
	assert.NoError(t, err)
}

func TestValidate_FieldErrors(t *testing.T) {
	err := Validate(sampleRequest{Quantity: 500, Shipping: "teleport"})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)

	fields := valErr.Fields()
	assert.Equal(t, "is required", fields["ProductID"])
	assert.Equal(t, "must be at most 100", fields["Quantity"])
	assert.Equal(t, "must be one of: standard express", fields["Shipping"])

	msg := valErr.Error()
	assert.Contains(t, msg, "field 'ProductID' is required")
	assert.Contains(t, msg, "; ")
}

func TestDecodeAndValidate(t *testing.T) {
	body := `{"product_id": "p1", "quantity": 1, "shipping": "standard"}`
	req := httptest.NewRequest("POST", "/", bytes.NewBufferString(body))

	var dst sampleRequest
	require.NoError(t, DecodeAndValidate(req, &dst))
	assert.Equal(t, "p1", dst.ProductID)
}

func TestDecodeAndValidate_BadJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/", bytes.NewBufferString("{not json"))

	var dst sampleRequest
	err := DecodeAndValidate(req, &dst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}
