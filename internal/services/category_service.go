package services

import (
	"context"
	"fmt"

	"storefront/internal/apperror"
	"storefront/internal/dto"
	"storefront/internal/logging"
	"storefront/internal/models"
	"storefront/internal/repositories"
)

// CategoryService handles business logic related to categories.
type CategoryService struct {
	repo repositories.CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{
		repo: repo,
	}
}

func (s *CategoryService) List(ctx context.Context, filter dto.StatusFilter) ([]models.Category, error) {
	return s.repo.List(ctx, filter.Active())
}

func (s *CategoryService) Create(ctx context.Context, req dto.CreateCategoryRequest) (*models.Category, error) {
	taken, err := s.repo.NameTaken(ctx, req.Name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.Validation("Category already exists")
	}

	category := &models.Category{Name: req.Name, IsActive: true}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, duplicate(err, "Category already exists")
	}
	logging.FromContext(ctx).Info("category created", "category_id", category.ID, "name", category.Name)
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, req dto.UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Category not found")
	}

	if req.Name != nil && *req.Name != category.Name {
		taken, err := s.repo.NameTaken(ctx, *req.Name, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperror.Validation("Category name already exists")
		}
		category.Name = *req.Name
	}

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, duplicate(err, "Category name already exists")
	}
	return category, nil
}

func (s *CategoryService) SetStatus(ctx context.Context, id string, active bool) (*models.Category, string, error) {
	category, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return nil, "", notFound(err, "Category not found")
	}
	return category, fmt.Sprintf("Category %s successfully", statusWord(active)), nil
}
