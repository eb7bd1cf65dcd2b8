package helpers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Rakhulsr/go-foodie/app/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lineBody struct {
	FoodItemID string `json:"food_item" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,min=1"`
}

func TestDecodeJSONBodyValidates(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/cart", strings.NewReader(`{"quantity": 0}`))

	var body lineBody
	err := DecodeJSONBody(req, &body)
	require.Error(t, err)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Equal(t, "food_item is required.", appErr.Fields["food_item"])
	assert.Contains(t, appErr.Fields, "quantity")
}

func TestDecodeJSONBodyMalformed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/cart", strings.NewReader(`{"quantity":`))

	var body lineBody
	err := DecodeJSONBody(req, &body)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestBaseURL(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "http://shop.example/api/payment/create", nil)
	assert.Equal(t, "http://shop.example", BaseURL(req, ""))

	req.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "https://shop.example", BaseURL(req, ""))
	assert.Equal(t, "https://api.example", BaseURL(req, "https://api.example/"))
}
