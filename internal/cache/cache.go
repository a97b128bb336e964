package cache

import (
	"context"
	"errors"

	"github.com/crunky0/cs308project/internal/domain"
)

// ProductCache holds recently hydrated catalog products so repeated
// guest-cart fetches do not hammer the catalog API.
type ProductCache interface {
	Get(ctx context.Context, productID int64) (*domain.Product, error)
	Set(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, productID int64) error
}

var ErrCacheMiss = errors.New("cache miss")
