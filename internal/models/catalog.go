package models

import "time"

// Category groups products in the catalog.
type Category struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"uniqueIndex;type:varchar(100);not null"`
	IsActive  bool      `json:"isActive" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PromoCode is a percentage discount token.
type PromoCode struct {
	ID                 string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Code               string    `json:"code" gorm:"uniqueIndex;type:varchar(32);not null"`
	DiscountPercentage float64   `json:"discountPercentage" gorm:"not null"`
	IsActive           bool      `json:"isActive" gorm:"not null;default:true"`
	FirstOrderOnly     bool      `json:"firstOrderOnly" gorm:"not null;default:false"`
	ExpiresAt          time.Time `json:"expiresAt" gorm:"not null;index"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}
