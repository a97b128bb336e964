package poller

import (
	"context"
	"time"

	"github.com/crunky0/cs308project/internal/domain"
	"go.uber.org/zap"
)

// CartFetcher is the slice of the cart service the poller needs.
type CartFetcher interface {
	FetchCart(ctx context.Context, subject domain.Subject) (*domain.Cart, error)
}

// Poller refreshes the cart for one subject on a fixed interval, the
// background-poll path of the sync design. The service discards stale
// completions, so a slow poll can never overwrite a user action.
type Poller struct {
	fetcher  CartFetcher
	subject  domain.Subject
	interval time.Duration
	logger   *zap.Logger
}

func New(fetcher CartFetcher, subject domain.Subject, interval time.Duration, logger *zap.Logger) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		fetcher:  fetcher,
		subject:  subject,
		interval: interval,
		logger:   logger,
	}
}

// Run blocks until ctx is cancelled. The ticker is stopped on the way
// out so a torn-down view leaves no timer behind.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if _, err := p.fetcher.FetchCart(ctx, p.subject); err != nil {
				p.logger.Warn("cart refresh failed", zap.Error(err))
			}
		case <-ctx.Done():
			return
		}
	}
}
