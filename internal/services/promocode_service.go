package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/apperror"
	"storefront/internal/dto"
	"storefront/internal/logging"
	"storefront/internal/models"
	"storefront/internal/repositories"
)

const (
	msgInvalidPromoCode = "Invalid or expired promo code"
	msgFirstOrderOnly   = "This promo code is for new customers only"
)

// PromoCodeService handles promo code management and the eligibility check
// shared with order creation.
type PromoCodeService struct {
	promos repositories.PromoCodeRepository
	orders repositories.OrderRepository
}

func NewPromoCodeService(promos repositories.PromoCodeRepository, orders repositories.OrderRepository) *PromoCodeService {
	return &PromoCodeService{
		promos: promos,
		orders: orders,
	}
}

// evaluatePromoCode returns the promo code if userID may use it at now.
// Order creation calls it with transaction-bound repositories.
func evaluatePromoCode(
	ctx context.Context,
	promos repositories.PromoCodeRepository,
	orders repositories.OrderRepository,
	code, userID string,
	now time.Time,
) (*models.PromoCode, error) {
	code = dto.NormalizeCode(code)
	if code == "" {
		return nil, apperror.Validation(msgInvalidPromoCode)
	}

	promo, err := promos.FindUsable(ctx, code, now.UTC())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.Validation(msgInvalidPromoCode)
		}
		return nil, fmt.Errorf("look up promo code: %w", err)
	}

	if promo.FirstOrderOnly {
		n, err := orders.CountByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("count previous orders: %w", err)
		}
		if n > 0 {
			return nil, apperror.Validation(msgFirstOrderOnly)
		}
	}
	return promo, nil
}

// Validate previews whether userID may apply code.
func (s *PromoCodeService) Validate(ctx context.Context, code, userID string) (*dto.PromoCodeValidation, error) {
	promo, err := evaluatePromoCode(ctx, s.promos, s.orders, code, userID, time.Now())
	if err != nil {
		return nil, err
	}
	return &dto.PromoCodeValidation{
		Code:               promo.Code,
		DiscountPercentage: promo.DiscountPercentage,
	}, nil
}

func (s *PromoCodeService) List(ctx context.Context, filter dto.StatusFilter) ([]models.PromoCode, error) {
	return s.promos.List(ctx, filter.Active())
}

func (s *PromoCodeService) Create(ctx context.Context, req dto.CreatePromoCodeRequest) (*models.PromoCode, error) {
	taken, err := s.promos.CodeTaken(ctx, req.Code, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.Validation("Promo code already exists")
	}

	promo := &models.PromoCode{
		Code:               req.Code,
		DiscountPercentage: *req.DiscountPercentage,
		IsActive:           true,
		FirstOrderOnly:     *req.FirstOrderOnly,
		ExpiresAt:          req.Expiry().UTC(),
	}
	if err := s.promos.Create(ctx, promo); err != nil {
		return nil, duplicate(err, "Promo code already exists")
	}

	logging.FromContext(ctx).Info("promo code created", "promo_code_id", promo.ID, "code", promo.Code)
	return promo, nil
}

func (s *PromoCodeService) Update(ctx context.Context, id string, req dto.UpdatePromoCodeRequest) (*models.PromoCode, error) {
	promo, err := s.promos.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Promo code not found")
	}

	if req.Code != nil && *req.Code != promo.Code {
		taken, err := s.promos.CodeTaken(ctx, *req.Code, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperror.Validation("Promo code already exists")
		}
		promo.Code = *req.Code
	}
	if req.DiscountPercentage != nil {
		promo.DiscountPercentage = *req.DiscountPercentage
	}
	if req.FirstOrderOnly != nil {
		promo.FirstOrderOnly = *req.FirstOrderOnly
	}
	if req.ExpiresAt != nil {
		promo.ExpiresAt = req.Expiry().UTC()
	}

	if err := s.promos.Update(ctx, promo); err != nil {
		return nil, duplicate(err, "Promo code already exists")
	}
	return promo, nil
}

// SetStatus activates or deactivates a promo code and returns the
// confirmation message along with the updated record.
func (s *PromoCodeService) SetStatus(ctx context.Context, id string, active bool) (*models.PromoCode, string, error) {
	promo, err := s.promos.SetActive(ctx, id, active)
	if err != nil {
		return nil, "", notFound(err, "Promo code not found")
	}
	return promo, fmt.Sprintf("Promo code %s successfully", statusWord(active)), nil
}
