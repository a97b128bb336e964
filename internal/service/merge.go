package service

import (
	"context"
	"fmt"

	"github.com/crunky0/cs308project/internal/domain"
	"go.uber.org/zap"
)

// MergeGuestCart transfers the guest slot into the authenticated
// user's server cart. Called exactly once per login transition. An
// empty slot is a no-op with zero network calls. Each line is
// submitted as its own server add; the server sums quantities for a
// product already in the user cart, so ordering does not matter.
//
// Per-line failures do not abort the rest: merged lines leave the
// slot, failed lines stay behind for a retry, and a MergeError names
// them. The in-memory user cart is refreshed afterwards either way.
func (s *CartService) MergeGuestCart(ctx context.Context, userID int64) error {
	lines, err := s.slot.Load()
	if err != nil {
		s.logger.Error("load guest slot failed", zap.Error(err))
		return err
	}
	if len(lines) == 0 {
		return nil
	}

	var failed []FailedMerge
	for _, gl := range lines {
		if err := s.api.AddItem(ctx, userID, gl.ProductID, gl.Quantity); err != nil {
			s.logger.Error("merge guest line failed",
				zap.Int64("userid", userID),
				zap.Int64("productid", gl.ProductID),
				zap.Int("quantity", gl.Quantity),
				zap.Error(err))
			failed = append(failed, FailedMerge{
				ProductID: gl.ProductID,
				Quantity:  gl.Quantity,
				Reason:    err,
			})
		}
	}

	// Only what made it to the server leaves the slot. Clearing it
	// unconditionally here would silently lose the failed lines.
	var slotErr error
	if len(failed) == 0 {
		slotErr = s.slot.Clear()
	} else {
		remaining := make([]domain.GuestLine, len(failed))
		for i, f := range failed {
			remaining[i] = domain.GuestLine{ProductID: f.ProductID, Quantity: f.Quantity}
		}
		slotErr = s.slot.Save(remaining)
	}
	if slotErr != nil {
		// A retry now could double-add merged lines; surface loudly.
		s.logger.Error("update guest slot after merge failed", zap.Error(slotErr))
	}

	if _, err := s.FetchCart(ctx, domain.User(userID)); err != nil {
		s.logger.Error("refresh cart after merge failed",
			zap.Int64("userid", userID), zap.Error(err))
		if len(failed) == 0 && slotErr == nil {
			return err
		}
	}

	if len(failed) > 0 {
		return &MergeError{Failed: failed}
	}
	if slotErr != nil {
		return fmt.Errorf("guest slot not cleared after merge: %w", slotErr)
	}
	return nil
}
