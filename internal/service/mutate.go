package service

import (
	"context"

	"github.com/crunky0/cs308project/internal/domain"
	"go.uber.org/zap"
)

// AddToCart adds quantity of a product for the subject. For a user the
// server performs the add and the cart is re-fetched; the server is
// the source of truth and nothing is mutated optimistically. For a
// guest the slot is updated (summing quantities for an existing
// product) and re-hydrated.
func (s *CartService) AddToCart(ctx context.Context, subject domain.Subject, productID int64, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	if !subject.IsGuest() {
		if err := s.api.AddItem(ctx, subject.UserID, productID, quantity); err != nil {
			s.logger.Error("add to cart failed",
				zap.Int64("userid", subject.UserID),
				zap.Int64("productid", productID),
				zap.Error(err))
			return nil, err
		}
		return s.FetchCart(ctx, subject)
	}

	lines, err := s.slot.Load()
	if err != nil {
		s.logger.Error("load guest slot failed", zap.Error(err))
		return nil, err
	}

	found := false
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		lines = append(lines, domain.GuestLine{ProductID: productID, Quantity: quantity})
	}

	if err := s.slot.Save(lines); err != nil {
		s.logger.Error("save guest slot failed", zap.Error(err))
		return nil, err
	}
	return s.FetchCart(ctx, domain.Guest())
}

// RemoveFromCart removes the product's line entirely.
func (s *CartService) RemoveFromCart(ctx context.Context, subject domain.Subject, productID int64) (*domain.Cart, error) {
	if !subject.IsGuest() {
		if err := s.api.RemoveItem(ctx, subject.UserID, productID); err != nil {
			s.logger.Error("remove from cart failed",
				zap.Int64("userid", subject.UserID),
				zap.Int64("productid", productID),
				zap.Error(err))
			return nil, err
		}
		return s.FetchCart(ctx, subject)
	}

	lines, err := s.slot.Load()
	if err != nil {
		s.logger.Error("load guest slot failed", zap.Error(err))
		return nil, err
	}

	filtered := lines[:0]
	for _, l := range lines {
		if l.ProductID != productID {
			filtered = append(filtered, l)
		}
	}

	if err := s.slot.Save(filtered); err != nil {
		s.logger.Error("save guest slot failed", zap.Error(err))
		return nil, err
	}
	return s.FetchCart(ctx, domain.Guest())
}

// UpdateQuantity adjusts a line by exactly one in either direction.
// The UI disables decrementing at quantity 1, but the service defends
// on its own: a guest quantity reaching zero removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, subject domain.Subject, productID int64, increment bool) (*domain.Cart, error) {
	if !subject.IsGuest() {
		var err error
		if increment {
			err = s.api.IncreaseQuantity(ctx, subject.UserID, productID)
		} else {
			err = s.api.DecreaseQuantity(ctx, subject.UserID, productID)
		}
		if err != nil {
			s.logger.Error("update quantity failed",
				zap.Int64("userid", subject.UserID),
				zap.Int64("productid", productID),
				zap.Bool("increment", increment),
				zap.Error(err))
			return nil, err
		}
		return s.FetchCart(ctx, subject)
	}

	lines, err := s.slot.Load()
	if err != nil {
		s.logger.Error("load guest slot failed", zap.Error(err))
		return nil, err
	}

	idx := -1
	for i := range lines {
		if lines[i].ProductID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrLineNotFound
	}

	if increment {
		lines[idx].Quantity++
	} else {
		lines[idx].Quantity--
	}
	if lines[idx].Quantity <= 0 {
		lines = append(lines[:idx], lines[idx+1:]...)
	}

	if err := s.slot.Save(lines); err != nil {
		s.logger.Error("save guest slot failed", zap.Error(err))
		return nil, err
	}
	return s.FetchCart(ctx, domain.Guest())
}

// ClearCart empties the in-memory cart and deletes the guest slot. No
// server call is made: after checkout the server cart is emptied by
// the checkout flow itself.
func (s *CartService) ClearCart() error {
	if err := s.slot.Clear(); err != nil {
		s.logger.Error("clear guest slot failed", zap.Error(err))
		return err
	}

	gen := s.beginOp()
	subject := s.Current().Subject
	s.apply(gen, domain.Cart{Subject: subject})
	return nil
}
