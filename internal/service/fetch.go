package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/crunky0/cs308project/internal/catalog"
	"github.com/crunky0/cs308project/internal/domain"
	"go.uber.org/zap"
)

// FetchCart loads the cart for the given subject and installs it as
// the shared in-memory state. Guest carts are hydrated line by line
// from the catalog; user carts come from the server as-is, totals
// included.
func (s *CartService) FetchCart(ctx context.Context, subject domain.Subject) (*domain.Cart, error) {
	gen := s.beginOp()

	var (
		cart domain.Cart
		err  error
	)
	if subject.IsGuest() {
		cart, err = s.hydrateGuestCart(ctx)
	} else {
		cart, err = s.fetchUserCart(ctx, subject)
	}
	if err != nil {
		return nil, err
	}

	s.apply(gen, cart)
	result := copyCart(cart)
	return &result, nil
}

// hydrateGuestCart turns the persisted {productid, quantity} list into
// display-ready lines. A line whose product no longer exists in the
// catalog is dropped and pruned from the slot; any other lookup
// failure fails the whole fetch so a partial cart is never shown.
func (s *CartService) hydrateGuestCart(ctx context.Context) (domain.Cart, error) {
	lines, err := s.slot.Load()
	if err != nil {
		s.logger.Error("load guest slot failed", zap.Error(err))
		return domain.Cart{}, err
	}

	kept := make([]domain.GuestLine, 0, len(lines))
	hydrated := make([]domain.CartLine, 0, len(lines))
	dropped := false
	for _, gl := range lines {
		product, err := s.catalog.GetProduct(ctx, gl.ProductID)
		if errors.Is(err, catalog.ErrProductNotFound) {
			s.logger.Warn("dropping cart line for vanished product",
				zap.Int64("productid", gl.ProductID))
			dropped = true
			continue
		}
		if err != nil {
			s.logger.Error("hydrate cart line failed",
				zap.Int64("productid", gl.ProductID), zap.Error(err))
			return domain.Cart{}, fmt.Errorf("hydrate product %d: %w", gl.ProductID, err)
		}
		kept = append(kept, gl)
		hydrated = append(hydrated, product.Line(gl.Quantity))
	}

	if dropped {
		if err := s.slot.Save(kept); err != nil {
			// The stale lines will be dropped again next fetch.
			s.logger.Warn("prune guest slot failed", zap.Error(err))
		}
	}

	return domain.Cart{Subject: domain.Guest(), Lines: hydrated}, nil
}

func (s *CartService) fetchUserCart(ctx context.Context, subject domain.Subject) (domain.Cart, error) {
	fetched, err := s.api.GetCart(ctx, subject.UserID)
	if err != nil {
		s.logger.Error("fetch user cart failed",
			zap.Int64("userid", subject.UserID), zap.Error(err))
		return domain.Cart{}, err
	}
	return domain.Cart{Subject: subject, Lines: fetched.Lines}, nil
}
