package models_test

import (
	"testing"

	"storefront/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDeriveStockStatus(t *testing.T) {
	cases := []struct {
		quantity int
		want     models.StockStatus
	}{
		{0, models.StockOutOfStock},
		{1, models.StockLow},
		{5, models.StockLow},
		{10, models.StockLow},
		{11, models.StockAvailable},
		{500, models.StockAvailable},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, models.DeriveStockStatus(tc.quantity), "quantity %d", tc.quantity)
	}
}

func TestDeriveStockStatus_Idempotent(t *testing.T) {
	first := models.DeriveStockStatus(7)
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, models.DeriveStockStatus(7))
	}
}

func TestProductBeforeSave_RecomputesStatus(t *testing.T) {
	p := &models.Product{StockQuantity: 3, StockStatus: models.StockAvailable}
	assert.NoError(t, p.BeforeSave(nil))
	assert.Equal(t, models.StockLow, p.StockStatus)

	p.StockQuantity = 0
	assert.NoError(t, p.BeforeSave(nil))
	assert.Equal(t, models.StockOutOfStock, p.StockStatus)
}

func TestOrderItemLineTotal(t *testing.T) {
	item := models.OrderItem{UnitPrice: decimal.NewFromInt(20), Quantity: 2}
	assert.True(t, decimal.NewFromInt(40).Equal(item.LineTotal()))
}
