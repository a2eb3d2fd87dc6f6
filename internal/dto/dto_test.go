package dto_test

import (
	"testing"
	"time"

	"storefront/internal/dto"
	"storefront/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	out := map[string]string{}
	for _, fe := range errs {
		out[fe.Field] = fe.Reason
	}
	return out
}

func TestCreatePromoCodeRequest(t *testing.T) {
	v := validation.New()
	pct := 15.0
	first := true
	req := &dto.CreatePromoCodeRequest{
		Code:               "  summer10 ",
		DiscountPercentage: &pct,
		FirstOrderOnly:     &first,
		ExpiresAt:          time.Now().AddDate(0, 1, 0).Format("2006-01-02"),
	}
	require.NoError(t, v.Struct(req))
	assert.Equal(t, "SUMMER10", req.Code)
	assert.True(t, req.Expiry().After(time.Now()))

	over := 120.0
	req = &dto.CreatePromoCodeRequest{Code: "X", DiscountPercentage: &over, FirstOrderOnly: &first, ExpiresAt: "2001-01-01"}
	fields := fieldsOf(t, v.Struct(req))
	assert.Equal(t, "must be at most 100", fields["discountPercentage"])
	assert.Equal(t, "must be a date in the future", fields["expiresAt"])
}

func TestCreateOrderRequest(t *testing.T) {
	v := validation.New()
	req := &dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{{Product: " p-1 ", Quantity: 2}},
		ShippingAddress: dto.ShippingAddress{
			Line1: "1 Main St", City: "Colombo", PostalCode: "00100", Country: "LK", Phone: "0771234567",
		},
		PromoCode: " save10",
	}
	require.NoError(t, v.Struct(req))
	assert.Equal(t, "p-1", req.Items[0].Product)
	assert.Equal(t, "SAVE10", req.PromoCode)

	fields := fieldsOf(t, v.Struct(&dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{{Product: "p-1", Quantity: 0}},
	}))
	assert.Contains(t, fields, "items[0].quantity")
	assert.Contains(t, fields, "shippingAddress")

	fields = fieldsOf(t, v.Struct(&dto.CreateOrderRequest{ShippingAddress: req.ShippingAddress}))
	assert.Equal(t, "is required", fields["items"])
}

func TestProductRequests(t *testing.T) {
	v := validation.New()
	price := 20.0
	req := &dto.CreateProductRequest{
		CategoryID: "c-1", Name: " Mug ", Price: &price, Description: "d", Image: "i.png",
		Tags: []string{"new", "new", "featured"},
	}
	require.NoError(t, v.Struct(req))
	assert.Equal(t, "Mug", req.Name)
	assert.Equal(t, []string{"new", "featured"}, req.Tags)

	req.Tags = []string{"clearance"}
	fields := fieldsOf(t, v.Struct(req))
	assert.Contains(t, fields, "tags[0]")

	neg := -1
	fields = fieldsOf(t, v.Struct(&dto.UpdateProductRequest{StockQuantity: &neg}))
	assert.Equal(t, "must be at least 0", fields["stockQuantity"])
}

func TestFilters(t *testing.T) {
	f := dto.ProductFilter{Tag: "featured, new,,"}
	assert.Equal(t, []string{"featured", "new"}, f.Tags())

	active := dto.StatusFilter{Status: "active"}.Active()
	require.NotNil(t, active)
	assert.True(t, *active)
	assert.Nil(t, dto.StatusFilter{}.Active())

	v := validation.New()
	toggle := &dto.StatusToggle{Status: " TRUE "}
	require.NoError(t, v.Struct(toggle))
	assert.True(t, toggle.Value())
	assert.Error(t, v.Struct(&dto.StatusToggle{Status: "yes"}))
}
