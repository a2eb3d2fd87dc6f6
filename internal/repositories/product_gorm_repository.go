package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// List retrieves the products matching filter, newest first.
func (r *GORMProductRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if len(filter.Tags) > 0 {
		// Tags are stored as a JSON array, so each tag appears quoted.
		conds := make([]string, 0, len(filter.Tags))
		args := make([]any, 0, len(filter.Tags))
		for _, tag := range filter.Tags {
			conds = append(conds, "tags LIKE ?")
			args = append(args, `%"`+tag+`"%`)
		}
		q = q.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
	if filter.Active != nil {
		q = q.Where("is_active = ?", *filter.Active)
	}

	var products []models.Product
	if err := q.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("product with ID %s: %w", id, translate(err))
	}
	return &product, nil
}

// NameTaken reports whether another product already uses name.
func (r *GORMProductRepository) NameTaken(ctx context.Context, name, excludeID string) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{}).Where("name = ?", name)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check product name: %w", err)
	}
	return n > 0, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", translate(err))
	}
	return nil
}

// Update writes every field of an existing product.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return fmt.Errorf("failed to update product: %w", translate(err))
	}
	return nil
}

// SetActive flips the active flag of a product.
func (r *GORMProductRepository) SetActive(ctx context.Context, id string, active bool) (*models.Product, error) {
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).
		UpdateColumns(map[string]any{"is_active": active, "updated_at": time.Now()})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update product status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	return r.GetByID(ctx, id)
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	return nil
}

// DecrementStock subtracts quantity only while stock_quantity >= quantity,
// so two writers can never take the same units.
func (r *GORMProductRepository) DecrementStock(ctx context.Context, id string, quantity int) (*models.Product, error) {
	db := r.db.WithContext(ctx)
	res := db.Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", id, quantity).
		UpdateColumns(map[string]any{
			"stock_quantity": gorm.Expr("stock_quantity - ?", quantity),
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to decrement stock of product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("product with ID %s: %w", id, ErrInsufficientStock)
	}

	product, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if status := models.DeriveStockStatus(product.StockQuantity); status != product.StockStatus {
		if err := db.Model(product).UpdateColumn("stock_status", status).Error; err != nil {
			return nil, fmt.Errorf("failed to refresh stock status of product %s: %w", id, err)
		}
		product.StockStatus = status
	}
	return product, nil
}
