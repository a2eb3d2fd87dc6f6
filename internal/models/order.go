package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is a snapshot of a product line at the time of ordering.
// It does not follow later changes to the product.
type OrderItem struct {
	ID            string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID       string          `json:"orderId" gorm:"type:varchar(36);index;not null"`
	ProductID     string          `json:"productId" gorm:"type:varchar(36);not null"`
	Name          string          `json:"name" gorm:"type:varchar(200)"`
	Image         string          `json:"image" gorm:"type:text"`
	UnitPrice     decimal.Decimal `json:"unitPrice" gorm:"type:decimal(12,2);not null"`
	StripePriceID string          `json:"stripePriceId,omitempty" gorm:"type:varchar(255)"`
	Quantity      int             `json:"quantity" gorm:"not null"`
}

// LineTotal is the unit price times the quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Address is a shipping address. Each order owns exactly one.
type Address struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Line1      string    `json:"line1" gorm:"type:varchar(255);not null"`
	Line2      string    `json:"line2" gorm:"type:varchar(255)"`
	City       string    `json:"city" gorm:"type:varchar(100);not null"`
	State      string    `json:"state" gorm:"type:varchar(100)"`
	PostalCode string    `json:"postalCode" gorm:"type:varchar(20);not null"`
	Country    string    `json:"country" gorm:"type:varchar(100);not null"`
	Phone      string    `json:"phone" gorm:"type:varchar(30);not null"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Order represents a customer order.
type Order struct {
	ID         string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string          `json:"userId" gorm:"type:varchar(36);index;not null"`
	Items      []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
	AddressID  string          `json:"addressId" gorm:"type:varchar(36);uniqueIndex;not null"`
	Address    *Address        `json:"address,omitempty" gorm:"foreignKey:AddressID"`
	PromoCode  string          `json:"promoCode,omitempty" gorm:"type:varchar(32)"`
	SubTotal   decimal.Decimal `json:"subTotal" gorm:"type:decimal(12,2);not null"`
	Discount   decimal.Decimal `json:"discount" gorm:"type:decimal(12,2);not null"`
	GrandTotal decimal.Decimal `json:"grandTotal" gorm:"type:decimal(12,2);not null"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}
