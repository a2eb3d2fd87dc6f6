package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductTag labels a product for merchandising (featured, new, ...).
type ProductTag string

const (
	TagFeatured     ProductTag = "featured"
	TagNew          ProductTag = "new"
	TagBestSeller   ProductTag = "bestSeller"
	TagLimitedOffer ProductTag = "limitedOffer"
)

// ProductTags is the fixed set of tags a product may carry.
var ProductTags = []ProductTag{TagFeatured, TagNew, TagBestSeller, TagLimitedOffer}

// Product represents a product in the store.
type Product struct {
	ID            string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CategoryID    string          `json:"categoryId" gorm:"type:varchar(36);index;not null"`
	Name          string          `json:"name" gorm:"uniqueIndex;type:varchar(200);not null"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Description   string          `json:"description" gorm:"type:text"`
	Image         string          `json:"image" gorm:"type:text"`
	StockQuantity int             `json:"stockQuantity" gorm:"not null;default:0"`
	StockStatus   StockStatus     `json:"stockStatus" gorm:"type:varchar(20);not null"`
	Tags          []string        `json:"tags" gorm:"serializer:json;type:text"`
	StripePriceID string          `json:"stripePriceId,omitempty" gorm:"type:varchar(255)"`
	IsActive      bool            `json:"isActive" gorm:"not null;default:true"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// BeforeSave keeps the stock status in step with the quantity on every
// Create and Save.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.StockStatus = DeriveStockStatus(p.StockQuantity)
	return nil
}
