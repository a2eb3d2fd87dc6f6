package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// GORMStore is the gorm-backed Store.
type GORMStore struct {
	db *gorm.DB
}

// NewGORMStore creates a new instance of GORMStore.
func NewGORMStore(db *gorm.DB) *GORMStore {
	return &GORMStore{db: db}
}

func (s *GORMStore) Products() ProductRepository     { return NewGORMProductRepository(s.db) }
func (s *GORMStore) Categories() CategoryRepository  { return NewGORMCategoryRepository(s.db) }
func (s *GORMStore) PromoCodes() PromoCodeRepository { return NewGORMPromoCodeRepository(s.db) }
func (s *GORMStore) Orders() OrderRepository         { return NewGORMOrderRepository(s.db) }
func (s *GORMStore) Addresses() AddressRepository    { return NewGORMAddressRepository(s.db) }

// Transaction runs fn against repositories bound to a fresh transaction.
func (s *GORMStore) Transaction(ctx context.Context, fn func(tx Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GORMStore{db: tx})
	})
}

// translate maps driver level failures onto the package sentinels.
func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}
