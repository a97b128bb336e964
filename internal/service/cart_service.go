package service

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"

	"github.com/crunky0/cs308project/internal/cartapi"
	"github.com/crunky0/cs308project/internal/domain"
	"github.com/crunky0/cs308project/internal/store"
	"go.uber.org/zap"
)

// CatalogAPI is the read-only product lookup used to hydrate guest
// cart lines. Consumers define this interface, not the HTTP client.
type CatalogAPI interface {
	GetProduct(ctx context.Context, productID int64) (*domain.Product, error)
}

// CartAPI is the server-side cart authority for authenticated users.
type CartAPI interface {
	GetCart(ctx context.Context, userID int64) (*cartapi.FetchedCart, error)
	AddItem(ctx context.Context, userID, productID int64, quantity int) error
	RemoveItem(ctx context.Context, userID, productID int64) error
	IncreaseQuantity(ctx context.Context, userID, productID int64) error
	DecreaseQuantity(ctx context.Context, userID, productID int64) error
}

// CartService owns the in-memory cart shared by the whole UI and keeps
// it consistent with the guest slot or the server across auth
// transitions. One instance per process; collaborators are injected.
type CartService struct {
	catalog CatalogAPI
	api     CartAPI
	slot    store.GuestStore
	logger  *zap.Logger

	mu         sync.Mutex
	cart       domain.Cart
	serialized []byte
	nextGen    uint64
	appliedGen uint64
	subs       map[chan domain.Cart]struct{}
}

func NewCartService(catalog CatalogAPI, api CartAPI, slot store.GuestStore, logger *zap.Logger) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{
		catalog: catalog,
		api:     api,
		slot:    slot,
		logger:  logger,
		subs:    map[chan domain.Cart]struct{}{},
	}
}

// Current returns a copy of the in-memory cart.
func (s *CartService) Current() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyCart(s.cart)
}

// Subscribe registers a UI observer. The channel holds the latest cart
// only; an unconsumed value is replaced, never blocked on. The
// returned cancel detaches the observer, after which no further state
// reaches it (the unmount guard).
func (s *CartService) Subscribe() (<-chan domain.Cart, func()) {
	ch := make(chan domain.Cart, 1)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		delete(s.subs, ch)
		s.mu.Unlock()
	}
	return ch, cancel
}

// beginOp hands out the ordering tag for a state-producing operation.
func (s *CartService) beginOp() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextGen++
	return s.nextGen
}

// apply installs a fetched cart. Results are ordered by completion: a
// completion older than what is already applied is discarded, so an
// overlapping slow fetch can never clobber a newer one. Subscribers
// are notified at most once, and not at all when the serialized state
// is byte-identical to the previous one.
func (s *CartService) apply(gen uint64, cart domain.Cart) {
	data, err := json.Marshal(cart)
	if err != nil {
		// Should not happen for plain cart data; fall through and
		// notify unconditionally.
		s.logger.Error("serialize cart failed", zap.Error(err))
		data = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen <= s.appliedGen {
		s.logger.Debug("discarding stale cart result",
			zap.Uint64("gen", gen),
			zap.Uint64("applied", s.appliedGen))
		return
	}
	s.appliedGen = gen

	if data != nil && bytes.Equal(data, s.serialized) {
		s.cart = cart
		return
	}

	s.cart = cart
	s.serialized = data
	for ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- copyCart(cart)
	}
}

func copyCart(c domain.Cart) domain.Cart {
	out := c
	out.Lines = make([]domain.CartLine, len(c.Lines))
	copy(out.Lines, c.Lines)
	return out
}
