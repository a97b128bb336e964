package cartapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/crunky0/cs308project/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Client talks to the Persistent Cart API, the server-side authority
// for authenticated carts. The server owns all cart state for a user;
// callers re-fetch after every mutation instead of mutating locally.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

// FetchedCart is the server's view of a user cart. Total is the
// canonical server-computed total for the user path.
type FetchedCart struct {
	Lines []domain.CartLine
	Total decimal.Decimal
}

type addItemRequest struct {
	UserID    int64 `json:"userid"`
	ProductID int64 `json:"productid"`
	Quantity  int   `json:"quantity"`
}

type cartResponse struct {
	Cart           []domain.CartLine `json:"cart"`
	TotalCartPrice decimal.Decimal   `json:"total_cart_price"`
}

func (c *Client) GetCart(ctx context.Context, userID int64) (*FetchedCart, error) {
	u := fmt.Sprintf("%s/cart?userid=%d", c.baseURL, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build cart request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch cart for user %d: %w", userID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch cart for user %d: unexpected status %d", userID, resp.StatusCode)
	}

	// An empty cart comes back as {"message": "Cart is empty", "cart": []}
	// with no total; treat missing fields as empty, not as an error.
	var body cartResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode cart for user %d: %w", userID, err)
	}

	return &FetchedCart{Lines: body.Cart, Total: body.TotalCartPrice}, nil
}

func (c *Client) AddItem(ctx context.Context, userID, productID int64, quantity int) error {
	payload, err := json.Marshal(addItemRequest{UserID: userID, ProductID: productID, Quantity: quantity})
	if err != nil {
		return fmt.Errorf("marshal add request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/cart/add", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build add request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	return c.expectOK(req, "add to cart")
}

func (c *Client) RemoveItem(ctx context.Context, userID, productID int64) error {
	return c.itemCall(ctx, http.MethodDelete, "/cart/remove", userID, productID, "remove from cart")
}

func (c *Client) IncreaseQuantity(ctx context.Context, userID, productID int64) error {
	return c.itemCall(ctx, http.MethodPost, "/cart/increase", userID, productID, "increase quantity")
}

func (c *Client) DecreaseQuantity(ctx context.Context, userID, productID int64) error {
	return c.itemCall(ctx, http.MethodPost, "/cart/decrease", userID, productID, "decrease quantity")
}

func (c *Client) EmptyCart(ctx context.Context, userID int64) error {
	u := fmt.Sprintf("%s/cart/empty?userid=%d", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return fmt.Errorf("build empty request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	return c.expectOK(req, "empty cart")
}

func (c *Client) itemCall(ctx context.Context, method, path string, userID, productID int64, op string) error {
	q := url.Values{}
	q.Set("userid", strconv.FormatInt(userID, 10))
	q.Set("productid", strconv.FormatInt(productID, 10))

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	return c.expectOK(req, op)
}

func (c *Client) expectOK(req *http.Request, op string) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Best effort at surfacing the server's reason.
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s: unexpected status %d: %s", op, resp.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}
