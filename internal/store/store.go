package store

import (
	"github.com/crunky0/cs308project/internal/domain"
)

// GuestStore is the durable slot holding the guest cart between runs,
// the equivalent of the browser's localStorage entry. Consumers define
// this interface, not the file implementation.
type GuestStore interface {
	Load() ([]domain.GuestLine, error)
	Save(lines []domain.GuestLine) error
	Clear() error
}
