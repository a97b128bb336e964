package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrLineNotFound    = errors.New("item not found in cart")
)

// MergeError reports the guest lines whose server add failed during a
// login merge. The failed lines stay in the guest slot, so retrying
// the merge submits only them and cannot double-add what already went
// through.
type MergeError struct {
	Failed []FailedMerge
}

type FailedMerge struct {
	ProductID int64
	Quantity  int
	Reason    error
}

func (e *MergeError) Error() string {
	ids := make([]string, len(e.Failed))
	for i, f := range e.Failed {
		ids[i] = fmt.Sprint(f.ProductID)
	}
	return fmt.Sprintf("merge failed for %d guest cart line(s): product(s) %s",
		len(e.Failed), strings.Join(ids, ", "))
}

func (e *MergeError) Unwrap() []error {
	errs := make([]error, len(e.Failed))
	for i, f := range e.Failed {
		errs[i] = f.Reason
	}
	return errs
}
