package repositories

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCategoryRepository is a GORM implementation of CategoryRepository.
type GORMCategoryRepository struct {
	db *gorm.DB
}

func NewGORMCategoryRepository(db *gorm.DB) *GORMCategoryRepository {
	return &GORMCategoryRepository{db: db}
}

func (r *GORMCategoryRepository) List(ctx context.Context, active *bool) ([]models.Category, error) {
	q := r.db.WithContext(ctx).Model(&models.Category{})
	if active != nil {
		q = q.Where("is_active = ?", *active)
	}
	var categories []models.Category
	if err := q.Order("created_at DESC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (r *GORMCategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("category with ID %s: %w", id, translate(err))
	}
	return &category, nil
}

func (r *GORMCategoryRepository) NameTaken(ctx context.Context, name, excludeID string) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.Category{}).Where("name = ?", name)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check category name: %w", err)
	}
	return n > 0, nil
}

func (r *GORMCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", translate(err))
	}
	return nil
}

func (r *GORMCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return fmt.Errorf("failed to update category: %w", translate(err))
	}
	return nil
}

func (r *GORMCategoryRepository) SetActive(ctx context.Context, id string, active bool) (*models.Category, error) {
	res := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).
		UpdateColumns(map[string]any{"is_active": active, "updated_at": time.Now()})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update category status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("category with ID %s: %w", id, ErrNotFound)
	}
	return r.GetByID(ctx, id)
}

// GORMPromoCodeRepository is a GORM implementation of PromoCodeRepository.
type GORMPromoCodeRepository struct {
	db *gorm.DB
}

func NewGORMPromoCodeRepository(db *gorm.DB) *GORMPromoCodeRepository {
	return &GORMPromoCodeRepository{db: db}
}

func (r *GORMPromoCodeRepository) List(ctx context.Context, active *bool) ([]models.PromoCode, error) {
	q := r.db.WithContext(ctx).Model(&models.PromoCode{})
	if active != nil {
		q = q.Where("is_active = ?", *active)
	}
	var promos []models.PromoCode
	if err := q.Order("created_at DESC").Find(&promos).Error; err != nil {
		return nil, fmt.Errorf("failed to list promo codes: %w", err)
	}
	return promos, nil
}

func (r *GORMPromoCodeRepository) GetByID(ctx context.Context, id string) (*models.PromoCode, error) {
	var promo models.PromoCode
	if err := r.db.WithContext(ctx).First(&promo, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("promo code with ID %s: %w", id, translate(err))
	}
	return &promo, nil
}

func (r *GORMPromoCodeRepository) FindUsable(ctx context.Context, code string, now time.Time) (*models.PromoCode, error) {
	var promo models.PromoCode
	err := r.db.WithContext(ctx).
		Where("code = ? AND is_active = ? AND expires_at > ?", code, true, now).
		First(&promo).Error
	if err != nil {
		return nil, fmt.Errorf("promo code %s: %w", code, translate(err))
	}
	return &promo, nil
}

func (r *GORMPromoCodeRepository) CodeTaken(ctx context.Context, code, excludeID string) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.PromoCode{}).Where("code = ?", code)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check promo code: %w", err)
	}
	return n > 0, nil
}

func (r *GORMPromoCodeRepository) Create(ctx context.Context, promo *models.PromoCode) error {
	if promo.ID == "" {
		promo.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(promo).Error; err != nil {
		return fmt.Errorf("failed to create promo code: %w", translate(err))
	}
	return nil
}

func (r *GORMPromoCodeRepository) Update(ctx context.Context, promo *models.PromoCode) error {
	if err := r.db.WithContext(ctx).Save(promo).Error; err != nil {
		return fmt.Errorf("failed to update promo code: %w", translate(err))
	}
	return nil
}

func (r *GORMPromoCodeRepository) SetActive(ctx context.Context, id string, active bool) (*models.PromoCode, error) {
	res := r.db.WithContext(ctx).Model(&models.PromoCode{}).Where("id = ?", id).
		UpdateColumns(map[string]any{"is_active": active, "updated_at": time.Now()})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update promo code status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("promo code with ID %s: %w", id, ErrNotFound)
	}
	return r.GetByID(ctx, id)
}
