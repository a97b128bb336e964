package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/crunky0/cs308project/internal/cache"
	"github.com/crunky0/cs308project/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var ErrProductNotFound = errors.New("product not found")

// Client reads product records from the Product Catalog API. Lookups
// go through an optional cache; concurrent lookups of the same product
// collapse into one request.
type Client struct {
	baseURL string
	http    *http.Client
	cache   cache.ProductCache
	logger  *zap.Logger
	sfg     singleflight.Group // Prevents duplicate in-flight lookups
}

// NewClient builds a catalog client. cache may be nil; logger may be
// nil, in which case nothing is logged.
func NewClient(baseURL string, httpClient *http.Client, productCache cache.ProductCache, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		cache:   productCache,
		logger:  logger,
	}
}

func (c *Client) GetProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	v, err, _ := c.sfg.Do(strconv.FormatInt(productID, 10), func() (interface{}, error) {
		if c.cache != nil {
			product, err := c.cache.Get(ctx, productID)
			if err == nil {
				return product, nil
			}
			if !errors.Is(err, cache.ErrCacheMiss) {
				c.logger.Warn("product cache get failed", zap.Int64("productid", productID), zap.Error(err))
			}
		}

		product, err := c.fetchProduct(ctx, productID)
		if err != nil {
			return nil, err
		}

		if c.cache != nil {
			go func() {
				if errSet := c.cache.Set(context.Background(), product); errSet != nil {
					c.logger.Warn("product cache set failed", zap.Int64("productid", productID), zap.Error(errSet))
				}
			}()
		}

		return product, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Product), nil
}

func (c *Client) fetchProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	url := fmt.Sprintf("%s/products/%d/", c.baseURL, productID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build product request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch product %d: %w", productID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("product %d: %w", productID, ErrProductNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch product %d: unexpected status %d", productID, resp.StatusCode)
	}

	var product domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, fmt.Errorf("decode product %d: %w", productID, err)
	}
	return &product, nil
}
