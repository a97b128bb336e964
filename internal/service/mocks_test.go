package service

import (
	"context"
	"sync"

	"github.com/crunky0/cs308project/internal/cartapi"
	"github.com/crunky0/cs308project/internal/catalog"
	"github.com/crunky0/cs308project/internal/domain"
	"github.com/shopspring/decimal"
)

// mockCatalog implements CatalogAPI for testing
type mockCatalog struct {
	m        sync.RWMutex
	products map[int64]domain.Product
	err      error
	calls    int
}

func newMockCatalog(products ...domain.Product) *mockCatalog {
	m := &mockCatalog{products: map[int64]domain.Product{}}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockCatalog) GetProduct(_ context.Context, productID int64) (*domain.Product, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[productID]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return &p, nil
}

type addCall struct {
	userID    int64
	productID int64
	quantity  int
}

// mockCartAPI implements CartAPI for testing. It keeps real per-user
// cart state with the server's quantity-summing add semantics so merge
// tests observe what a real backend would hold.
type mockCartAPI struct {
	m        sync.RWMutex
	products map[int64]domain.Product
	carts    map[int64]map[int64]int // userID -> productID -> quantity

	addCalls []addCall
	getCalls int

	err         error           // blanket failure for every call
	failProduct map[int64]error // add failures for specific products
}

func newMockCartAPI(products ...domain.Product) *mockCartAPI {
	m := &mockCartAPI{
		products:    map[int64]domain.Product{},
		carts:       map[int64]map[int64]int{},
		failProduct: map[int64]error{},
	}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockCartAPI) GetCart(_ context.Context, userID int64) (*cartapi.FetchedCart, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.getCalls++
	if m.err != nil {
		return nil, m.err
	}

	fetched := &cartapi.FetchedCart{Total: decimal.Zero}
	// Stable order for assertions.
	for id := int64(0); id <= maxProductID(m.carts[userID]); id++ {
		qty, ok := m.carts[userID][id]
		if !ok {
			continue
		}
		line := m.products[id].Line(qty)
		fetched.Lines = append(fetched.Lines, line)
		fetched.Total = fetched.Total.Add(line.TotalPrice)
	}
	return fetched, nil
}

func maxProductID(cart map[int64]int) int64 {
	var max int64
	for id := range cart {
		if id > max {
			max = id
		}
	}
	return max
}

func (m *mockCartAPI) AddItem(_ context.Context, userID, productID int64, quantity int) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.addCalls = append(m.addCalls, addCall{userID, productID, quantity})
	if m.err != nil {
		return m.err
	}
	if err, ok := m.failProduct[productID]; ok {
		return err
	}
	if m.carts[userID] == nil {
		m.carts[userID] = map[int64]int{}
	}
	m.carts[userID][productID] += quantity
	return nil
}

func (m *mockCartAPI) RemoveItem(_ context.Context, userID, productID int64) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.carts[userID], productID)
	return nil
}

func (m *mockCartAPI) IncreaseQuantity(_ context.Context, userID, productID int64) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.carts[userID][productID]++
	return nil
}

func (m *mockCartAPI) DecreaseQuantity(_ context.Context, userID, productID int64) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.carts[userID][productID]--
	return nil
}

func (m *mockCartAPI) addCallCount() int {
	m.m.RLock()
	defer m.m.RUnlock()
	return len(m.addCalls)
}

func (m *mockCartAPI) userCart(userID int64) map[int64]int {
	m.m.RLock()
	defer m.m.RUnlock()
	out := map[int64]int{}
	for id, qty := range m.carts[userID] {
		out[id] = qty
	}
	return out
}

// memStore implements store.GuestStore in memory
type memStore struct {
	m       sync.RWMutex
	lines   []domain.GuestLine
	loadErr error
	saveErr error
}

func (s *memStore) Load() ([]domain.GuestLine, error) {
	s.m.RLock()
	defer s.m.RUnlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	out := make([]domain.GuestLine, len(s.lines))
	copy(out, s.lines)
	return out, nil
}

func (s *memStore) Save(lines []domain.GuestLine) error {
	s.m.Lock()
	defer s.m.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.lines = make([]domain.GuestLine, len(lines))
	copy(s.lines, lines)
	return nil
}

func (s *memStore) Clear() error {
	s.m.Lock()
	defer s.m.Unlock()
	s.lines = nil
	return nil
}

func (s *memStore) snapshot() []domain.GuestLine {
	s.m.RLock()
	defer s.m.RUnlock()
	out := make([]domain.GuestLine, len(s.lines))
	copy(out, s.lines)
	return out
}
