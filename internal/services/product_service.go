package services

import (
	"context"
	"fmt"

	"storefront/internal/apperror"
	"storefront/internal/dto"
	"storefront/internal/logging"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/shopspring/decimal"
)

const msgDuplicateProduct = "Product with this name already exists"

// ProductService handles business logic related to products.
type ProductService struct {
	repo       repositories.ProductRepository
	categories repositories.CategoryRepository
	gateway    PaymentGateway
}

// NewProductService creates a new ProductService. Without a gateway new
// products are stored without a payment price id.
func NewProductService(repo repositories.ProductRepository, categories repositories.CategoryRepository, gateway PaymentGateway) *ProductService {
	return &ProductService{
		repo:       repo,
		categories: categories,
		gateway:    gateway,
	}
}

// Tags returns the fixed set of product tags.
func (s *ProductService) Tags() []models.ProductTag {
	return models.ProductTags
}

// GetProducts lists products matching the filter.
func (s *ProductService) GetProducts(ctx context.Context, filter dto.ProductFilter) ([]models.Product, error) {
	return s.repo.List(ctx, repositories.ProductFilter{
		CategoryID: filter.CategoryID,
		Tags:       filter.Tags(),
		Active:     filter.Active(),
	})
}

// GetFeaturedProducts lists active products tagged featured.
func (s *ProductService) GetFeaturedProducts(ctx context.Context) ([]models.Product, error) {
	active := true
	return s.repo.List(ctx, repositories.ProductFilter{
		Tags:   []string{string(models.TagFeatured)},
		Active: &active,
	})
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Product not found")
	}
	return product, nil
}

// CreateProduct stores a new product and registers it with the payment
// provider.
func (s *ProductService) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*models.Product, error) {
	if _, err := s.categories.GetByID(ctx, req.CategoryID); err != nil {
		return nil, notFound(err, "Category not found")
	}

	taken, err := s.repo.NameTaken(ctx, req.Name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.Validation(msgDuplicateProduct)
	}

	product := &models.Product{
		CategoryID:    req.CategoryID,
		Name:          req.Name,
		Price:         decimal.NewFromFloat(*req.Price).Round(2),
		Description:   req.Description,
		Image:         req.Image,
		StockQuantity: req.StockQuantity,
		Tags:          req.Tags,
		IsActive:      true,
	}
	if product.Tags == nil {
		product.Tags = []string{}
	}

	if s.gateway != nil {
		priceID, err := s.gateway.CreateProductPrice(ctx, product.Name, product.Description, product.Price)
		if err != nil {
			return nil, fmt.Errorf("register product with payment provider: %w", err)
		}
		product.StripePriceID = priceID
	} else {
		logging.FromContext(ctx).Warn("payment provider not configured, product has no price id", "name", product.Name)
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, duplicate(err, msgDuplicateProduct)
	}
	logging.FromContext(ctx).Info("product created", "product_id", product.ID, "name", product.Name)
	return product, nil
}

// UpdateProduct applies the supplied fields to an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, req dto.UpdateProductRequest) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Product not found")
	}

	if req.Name != nil && *req.Name != product.Name {
		taken, err := s.repo.NameTaken(ctx, *req.Name, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperror.Validation(msgDuplicateProduct)
		}
		product.Name = *req.Name
	}
	if req.CategoryID != nil && *req.CategoryID != product.CategoryID {
		if _, err := s.categories.GetByID(ctx, *req.CategoryID); err != nil {
			return nil, notFound(err, "Category not found")
		}
		product.CategoryID = *req.CategoryID
	}
	if req.Price != nil {
		product.Price = decimal.NewFromFloat(*req.Price).Round(2)
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Image != nil {
		product.Image = *req.Image
	}
	if req.StockQuantity != nil {
		product.StockQuantity = *req.StockQuantity
	}
	if req.Tags != nil {
		product.Tags = req.Tags
	}
	product.StockStatus = models.DeriveStockStatus(product.StockQuantity)

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, duplicate(err, msgDuplicateProduct)
	}
	return product, nil
}

func (s *ProductService) SetStatus(ctx context.Context, id string, active bool) (*models.Product, string, error) {
	product, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return nil, "", notFound(err, "Product not found")
	}
	return product, fmt.Sprintf("Product %s successfully", statusWord(active)), nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, "Product not found")
	}
	return nil
}
