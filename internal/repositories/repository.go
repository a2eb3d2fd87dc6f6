package repositories

import (
	"context"
	"errors"
	"time"

	"storefront/internal/models"
)

var (
	// ErrNotFound is returned (wrapped) when a lookup matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrInsufficientStock is returned by DecrementStock when the product no
	// longer holds the requested quantity.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrDuplicate is returned when a unique index rejects a write.
	ErrDuplicate = errors.New("duplicate record")
)

// ProductFilter narrows a product listing. Zero values mean "any".
type ProductFilter struct {
	CategoryID string
	Tags       []string
	Active     *bool
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	NameTaken(ctx context.Context, name, excludeID string) (bool, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	SetActive(ctx context.Context, id string, active bool) (*models.Product, error)
	Delete(ctx context.Context, id string) error
	// DecrementStock removes quantity units from the product only if at
	// least that many remain, and refreshes its stock status.
	DecrementStock(ctx context.Context, id string, quantity int) (*models.Product, error)
}

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	List(ctx context.Context, active *bool) ([]models.Category, error)
	GetByID(ctx context.Context, id string) (*models.Category, error)
	NameTaken(ctx context.Context, name, excludeID string) (bool, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	SetActive(ctx context.Context, id string, active bool) (*models.Category, error)
}

// PromoCodeRepository defines the interface for promo code data access.
type PromoCodeRepository interface {
	List(ctx context.Context, active *bool) ([]models.PromoCode, error)
	GetByID(ctx context.Context, id string) (*models.PromoCode, error)
	// FindUsable returns the active code that has not expired at now.
	FindUsable(ctx context.Context, code string, now time.Time) (*models.PromoCode, error)
	CodeTaken(ctx context.Context, code, excludeID string) (bool, error)
	Create(ctx context.Context, promo *models.PromoCode) error
	Update(ctx context.Context, promo *models.PromoCode) error
	SetActive(ctx context.Context, id string, active bool) (*models.PromoCode, error)
}

// OrderRepository defines the interface for order data access. Orders are
// only ever created and read.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}

// AddressRepository defines the interface for address data access.
type AddressRepository interface {
	Create(ctx context.Context, address *models.Address) error
}

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// Tx is a set of repositories bound to a single database handle. Inside
// Store.Transaction every repository shares the same transaction.
type Tx interface {
	Products() ProductRepository
	Categories() CategoryRepository
	PromoCodes() PromoCodeRepository
	Orders() OrderRepository
	Addresses() AddressRepository
}

// Store hands out repositories and runs units of work atomically.
type Store interface {
	Tx
	// Transaction runs fn in one transaction. It commits when fn returns
	// nil and rolls back when fn returns an error or panics.
	Transaction(ctx context.Context, fn func(tx Tx) error) error
}
