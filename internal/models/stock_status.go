package models

// StockStatus is the availability label derived from a stock quantity.
type StockStatus string

const (
	StockAvailable  StockStatus = "available"
	StockLow        StockStatus = "low-stock"
	StockOutOfStock StockStatus = "out-of-stock"
)

// lowStockThreshold is the largest quantity still reported as low stock.
const lowStockThreshold = 10

// DeriveStockStatus maps a quantity to its status label.
func DeriveStockStatus(quantity int) StockStatus {
	switch {
	case quantity <= 0:
		return StockOutOfStock
	case quantity <= lowStockThreshold:
		return StockLow
	default:
		return StockAvailable
	}
}
