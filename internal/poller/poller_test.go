package poller

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/crunky0/cs308project/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFetcher struct {
	m     sync.Mutex
	calls int
	err   error
}

func (f *countingFetcher) FetchCart(context.Context, domain.Subject) (*domain.Cart, error) {
	f.m.Lock()
	defer f.m.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Cart{}, nil
}

func (f *countingFetcher) callCount() int {
	f.m.Lock()
	defer f.m.Unlock()
	return f.calls
}

func TestRun_FetchesOnInterval(t *testing.T) {
	fetcher := &countingFetcher{}
	sut := New(fetcher, domain.User(7), 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sut.Run(ctx)

	require.Eventually(t, func() bool {
		return fetcher.callCount() >= 3
	}, time.Second, 5*time.Millisecond, "poller never ticked")
}

func TestRun_StopsOnCancel(t *testing.T) {
	fetcher := &countingFetcher{}
	sut := New(fetcher, domain.Guest(), 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sut.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return fetcher.callCount() >= 1
	}, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after cancel")
	}

	// No further fetches once stopped.
	stopped := fetcher.callCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, fetcher.callCount())
}
