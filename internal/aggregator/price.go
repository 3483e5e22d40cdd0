package aggregator

import (
	"context"
	"sync"
	"time"

	"github.com/AlexZinkM/restaking-dashboard/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// PriceSource gives the APT price in USD used for portfolio values. It never fails.
type PriceSource interface {
	APTPriceUSD(ctx context.Context) float64
}

// StaticPrice is a fixed APT price
type StaticPrice float64

// APTPriceUSD returns the fixed price
func (p StaticPrice) APTPriceUSD(context.Context) float64 {
	return float64(p)
}

// RateFetcher fetches a live APT/USD rate
type RateFetcher interface {
	GetAPTtoUSDRate(ctx context.Context) (float64, error)
}

// FeedPrice caches a live rate for ttl and falls back to the last known
// or configured price when the feed fails. A failed attempt is cached too,
// so the feed is asked at most once per ttl. Concurrent refreshes share one call.
type FeedPrice struct {
	feed     RateFetcher
	ttl      time.Duration
	fallback float64
	group    singleflight.Group

	mu        sync.Mutex
	price     float64
	checkedAt time.Time
	now       func() time.Time
}

// NewFeedPrice creates a FeedPrice
func NewFeedPrice(feed RateFetcher, ttl time.Duration, fallback float64) *FeedPrice {
	return &FeedPrice{
		feed:     feed,
		ttl:      ttl,
		fallback: fallback,
		now:      time.Now,
	}
}

// APTPriceUSD returns the cached rate, refreshing it once the ttl has passed.
// The lock is never held across the feed call.
func (p *FeedPrice) APTPriceUSD(ctx context.Context) float64 {
	if price, ok := p.cached(); ok {
		return price
	}

	v, _, _ := p.group.Do("apt", func() (any, error) {
		return p.refresh(ctx), nil
	})
	return v.(float64)
}

func (p *FeedPrice) cached() (float64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.checkedAt.IsZero() && p.now().Sub(p.checkedAt) < p.ttl {
		return p.current(), true
	}
	return 0, false
}

func (p *FeedPrice) refresh(ctx context.Context) float64 {
	// a flight that finished after our cache check already refreshed
	if price, ok := p.cached(); ok {
		return price
	}

	rate, err := p.feed.GetAPTtoUSDRate(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.checkedAt = p.now()
	if err != nil || rate <= 0 {
		logger.WithContext(ctx).Warn("Price feed unavailable, using fallback price",
			zap.Float64("fallback", p.current()), zap.Error(err))
		return p.current()
	}
	p.price = rate
	return rate
}

// current must be called with mu held
func (p *FeedPrice) current() float64 {
	if p.price > 0 {
		return p.price
	}
	return p.fallback
}
