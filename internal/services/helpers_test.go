package services_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"storefront/internal/database"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestStore opens a migrated sqlite database in a temp dir. A file is
// used instead of :memory: so concurrent transactions share one database.
func newTestStore(t *testing.T) (*repositories.GORMStore, *gorm.DB) {
	t.Helper()
	dsn := database.SQLiteFileDSN(filepath.Join(t.TempDir(), "storefront.db"))
	db, err := database.Open(context.Background(), database.DriverSQLite, dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return repositories.NewGORMStore(db), db
}

func seedCategory(t *testing.T, store repositories.Store, name string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name, IsActive: true}
	require.NoError(t, store.Categories().Create(context.Background(), c))
	return c
}

func seedProduct(t *testing.T, store repositories.Store, name, price string, stock int, tags ...string) *models.Product {
	t.Helper()
	if tags == nil {
		tags = []string{}
	}
	p := &models.Product{
		CategoryID:    "cat-1",
		Name:          name,
		Price:         decimal.RequireFromString(price),
		Description:   name + " description",
		Image:         name + ".png",
		StockQuantity: stock,
		Tags:          tags,
		StripePriceID: "price_" + name,
		IsActive:      true,
	}
	require.NoError(t, store.Products().Create(context.Background(), p))
	return p
}

func seedPromo(t *testing.T, store repositories.Store, code string, pct float64, firstOrderOnly bool, expiresAt time.Time) *models.PromoCode {
	t.Helper()
	p := &models.PromoCode{
		Code:               code,
		DiscountPercentage: pct,
		IsActive:           true,
		FirstOrderOnly:     firstOrderOnly,
		ExpiresAt:          expiresAt.UTC(),
	}
	require.NoError(t, store.PromoCodes().Create(context.Background(), p))
	return p
}

func stockOf(t *testing.T, store repositories.Store, id string) *models.Product {
	t.Helper()
	p, err := store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
