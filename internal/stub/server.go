// Package stub is an in-memory implementation of the storefront REST
// contract the cart client consumes. It exists for local development
// (cmd/stubstore) and for end-to-end tests that want a real HTTP
// backend without a real backend.
package stub

import (
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"github.com/crunky0/cs308project/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type Server struct {
	mu       sync.Mutex
	products map[int64]domain.Product
	carts    map[int64]map[int64]int // userID -> productID -> quantity
}

func NewServer() *Server {
	return &Server{
		products: map[int64]domain.Product{},
		carts:    map[int64]map[int64]int{},
	}
}

// SeedProduct installs or replaces a catalog record.
func (s *Server) SeedProduct(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

// RemoveProduct deletes a product from the catalog, simulating a
// product manager pulling it while carts still reference it.
func (s *Server) RemoveProduct(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.products, productID)
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/products/{product_id}/", s.getProduct)
	r.Get("/cart", s.getCart)
	r.Post("/cart/add", s.addToCart)
	r.Delete("/cart/remove", s.removeItem)
	r.Post("/cart/increase", s.increaseQuantity)
	r.Post("/cart/decrease", s.decreaseQuantity)
	r.Delete("/cart/empty", s.emptyCart)
	return r
}

type addRequest struct {
	UserID    int64 `json:"userid"`
	ProductID int64 `json:"productid"`
	Quantity  int   `json:"quantity"`
}

type cartPayload struct {
	Message        string            `json:"message,omitempty"`
	Cart           []domain.CartLine `json:"cart"`
	TotalCartPrice decimal.Decimal   `json:"total_cart_price"`
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	s.mu.Lock()
	product, ok := s.products[productID]
	s.mu.Unlock()
	if !ok {
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryInt64(w, r, "userid")
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.carts[userID]
	if len(cart) == 0 {
		respondJSON(w, http.StatusOK, cartPayload{
			Message:        "Cart is empty",
			Cart:           []domain.CartLine{},
			TotalCartPrice: decimal.Zero,
		})
		return
	}

	ids := make([]int64, 0, len(cart))
	for id := range cart {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	payload := cartPayload{Cart: []domain.CartLine{}, TotalCartPrice: decimal.Zero}
	for _, id := range ids {
		product, exists := s.products[id]
		if !exists {
			// Deleted products silently fall out of the join.
			continue
		}
		line := product.Line(cart[id])
		payload.Cart = append(payload.Cart, line)
		payload.TotalCartPrice = payload.TotalCartPrice.Add(line.TotalPrice)
	}
	respondJSON(w, http.StatusOK, payload)
}

func (s *Server) addToCart(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 {
		respondError(w, http.StatusBadRequest, "quantity must be positive")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[req.ProductID]
	if !ok {
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}
	if product.Stock <= 0 {
		respondError(w, http.StatusBadRequest, "Product is out of stock")
		return
	}

	if s.carts[req.UserID] == nil {
		s.carts[req.UserID] = map[int64]int{}
	}
	s.carts[req.UserID][req.ProductID] += req.Quantity

	respondJSON(w, http.StatusOK, map[string]string{"message": "Item added to cart successfully."})
}

func (s *Server) removeItem(w http.ResponseWriter, r *http.Request) {
	userID, productID, ok := cartItemParams(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.carts[userID][productID]; !exists {
		respondError(w, http.StatusNotFound, "Item not found in cart")
		return
	}
	delete(s.carts[userID], productID)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Item removed from cart."})
}

func (s *Server) increaseQuantity(w http.ResponseWriter, r *http.Request) {
	userID, productID, ok := cartItemParams(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product, exists := s.products[productID]
	if !exists {
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}
	qty, inCart := s.carts[userID][productID]
	if !inCart {
		respondError(w, http.StatusNotFound, "Item not found in cart")
		return
	}
	if qty+1 > product.Stock {
		respondError(w, http.StatusBadRequest, "Insufficient stock for this operation")
		return
	}
	s.carts[userID][productID] = qty + 1
	respondJSON(w, http.StatusOK, map[string]string{"message": "Quantity increased by 1."})
}

func (s *Server) decreaseQuantity(w http.ResponseWriter, r *http.Request) {
	userID, productID, ok := cartItemParams(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	qty, inCart := s.carts[userID][productID]
	if !inCart {
		respondError(w, http.StatusNotFound, "Item not found in cart")
		return
	}
	if qty-1 <= 0 {
		respondError(w, http.StatusBadRequest, "Quantity cannot be less than 1")
		return
	}
	s.carts[userID][productID] = qty - 1
	respondJSON(w, http.StatusOK, map[string]string{"message": "Quantity decreased by 1."})
}

func (s *Server) emptyCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryInt64(w, r, "userid")
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Cart emptied."})
}

func cartItemParams(w http.ResponseWriter, r *http.Request) (userID, productID int64, ok bool) {
	userID, ok = queryInt64(w, r, "userid")
	if !ok {
		return 0, 0, false
	}
	productID, ok = queryInt64(w, r, "productid")
	if !ok {
		return 0, 0, false
	}
	return userID, productID, true
}

func queryInt64(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := r.URL.Query().Get(name)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, name+" must be an integer")
		return 0, false
	}
	return v, true
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}
