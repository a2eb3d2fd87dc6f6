// Package dto holds the typed request and response payloads of the HTTP API.
package dto

import (
	"strings"
	"time"

	"storefront/internal/validation"
)

// StatusFilter narrows a listing to active or inactive records.
type StatusFilter struct {
	Status string `query:"status" validate:"omitempty,oneof=active inactive"`
}

func (f *StatusFilter) Normalize() {
	f.Status = strings.ToLower(strings.TrimSpace(f.Status))
}

// Active returns nil when no status filter was given.
func (f StatusFilter) Active() *bool {
	switch f.Status {
	case "active":
		v := true
		return &v
	case "inactive":
		v := false
		return &v
	}
	return nil
}

// StatusToggle is the query of a status flip endpoint (?status=true|false).
type StatusToggle struct {
	Status string `query:"status" validate:"required,oneof=true false"`
}

func (s *StatusToggle) Normalize() {
	s.Status = strings.ToLower(strings.TrimSpace(s.Status))
}

func (s StatusToggle) Value() bool { return s.Status == "true" }

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

func (r *CreateCategoryRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

type UpdateCategoryRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=100"`
}

func (r *UpdateCategoryRequest) Normalize() {
	trimPtr(r.Name)
}

// ProductFilter is the query of the product listing.
type ProductFilter struct {
	CategoryID string `query:"categoryId"`
	Tag        string `query:"tag"`
	Status     string `query:"status" validate:"omitempty,oneof=active inactive"`
}

func (f *ProductFilter) Normalize() {
	f.CategoryID = strings.TrimSpace(f.CategoryID)
	f.Tag = strings.TrimSpace(f.Tag)
	f.Status = strings.ToLower(strings.TrimSpace(f.Status))
}

// Tags splits the comma separated tag filter.
func (f ProductFilter) Tags() []string {
	if f.Tag == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(f.Tag, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func (f ProductFilter) Active() *bool {
	return StatusFilter{Status: f.Status}.Active()
}

type CreateProductRequest struct {
	CategoryID    string   `json:"categoryId" validate:"required"`
	Name          string   `json:"name" validate:"required,max=200"`
	Price         *float64 `json:"price" validate:"required,gte=0"`
	Description   string   `json:"description" validate:"required"`
	Image         string   `json:"image" validate:"required"`
	StockQuantity int      `json:"stockQuantity" validate:"gte=0"`
	Tags          []string `json:"tags" validate:"omitempty,dive,oneof=featured new bestSeller limitedOffer"`
}

func (r *CreateProductRequest) Normalize() {
	r.CategoryID = strings.TrimSpace(r.CategoryID)
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	r.Image = strings.TrimSpace(r.Image)
	r.Tags = uniqueTags(r.Tags)
}

// UpdateProductRequest is a partial update: nil fields stay unchanged.
type UpdateProductRequest struct {
	CategoryID    *string  `json:"categoryId" validate:"omitempty,min=1"`
	Name          *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Price         *float64 `json:"price" validate:"omitempty,gte=0"`
	Description   *string  `json:"description"`
	Image         *string  `json:"image"`
	StockQuantity *int     `json:"stockQuantity" validate:"omitempty,gte=0"`
	Tags          []string `json:"tags" validate:"omitempty,dive,oneof=featured new bestSeller limitedOffer"`
}

func (r *UpdateProductRequest) Normalize() {
	trimPtr(r.CategoryID)
	trimPtr(r.Name)
	trimPtr(r.Description)
	trimPtr(r.Image)
	if r.Tags != nil {
		r.Tags = uniqueTags(r.Tags)
	}
}

type CreatePromoCodeRequest struct {
	Code               string   `json:"code" validate:"required,max=32"`
	DiscountPercentage *float64 `json:"discountPercentage" validate:"required,gte=0,lte=100"`
	FirstOrderOnly     *bool    `json:"firstOrderOnly" validate:"required"`
	ExpiresAt          string   `json:"expiresAt" validate:"required,future"`
}

func (r *CreatePromoCodeRequest) Normalize() {
	r.Code = NormalizeCode(r.Code)
	r.ExpiresAt = strings.TrimSpace(r.ExpiresAt)
}

// Expiry returns the parsed expiration. Only meaningful after validation.
func (r CreatePromoCodeRequest) Expiry() time.Time {
	t, _ := validation.ParseTime(r.ExpiresAt)
	return t
}

type UpdatePromoCodeRequest struct {
	Code               *string  `json:"code" validate:"omitempty,min=1,max=32"`
	DiscountPercentage *float64 `json:"discountPercentage" validate:"omitempty,gte=0,lte=100"`
	FirstOrderOnly     *bool    `json:"firstOrderOnly"`
	ExpiresAt          *string  `json:"expiresAt" validate:"omitempty,future"`
}

func (r *UpdatePromoCodeRequest) Normalize() {
	if r.Code != nil {
		c := NormalizeCode(*r.Code)
		r.Code = &c
	}
	trimPtr(r.ExpiresAt)
}

// Expiry returns the parsed new expiration, or the zero time when none was
// supplied.
func (r UpdatePromoCodeRequest) Expiry() time.Time {
	if r.ExpiresAt == nil {
		return time.Time{}
	}
	t, _ := validation.ParseTime(*r.ExpiresAt)
	return t
}

type ValidatePromoCodeQuery struct {
	Code string `query:"code" validate:"required,max=32"`
}

func (q *ValidatePromoCodeQuery) Normalize() {
	q.Code = NormalizeCode(q.Code)
}

// PromoCodeValidation is the answer of the promo code preview.
type PromoCodeValidation struct {
	Code               string  `json:"code"`
	DiscountPercentage float64 `json:"discountPercentage"`
}

// NormalizeCode trims and upper-cases a promo code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

func uniqueTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
