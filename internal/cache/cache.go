package cache

import (
	"context"
	"time"

	"apw/solutions/internal/domain"

	"github.com/benbjohnson/clock"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Entry is one cached category listing. Entries are immutable once published;
// refresh builds a new Entry and replaces the old one whole.
type Entry struct {
	Categories []domain.Category `json:"categories"`
	ExpiresAt  time.Time         `json:"expires_at"`
}

// Store holds at most one Entry. Implementations must publish entries
// atomically; a reader never observes a partially written one.
type Store interface {
	Get(ctx context.Context) (*Entry, error)
	Set(ctx context.Context, entry *Entry, ttl time.Duration) error
	Delete(ctx context.Context) error
}

// Loader recomputes the category listing from content storage.
type Loader func(ctx context.Context) ([]domain.Category, error)

// CategoryCache serves the category listing from a Store, recomputing through
// the Loader on miss or expiry. Concurrent misses share a single recompute.
type CategoryCache struct {
	store  Store
	loader Loader
	ttl    time.Duration
	clock  clock.Clock
	group  singleflight.Group
}

func New(store Store, loader Loader, ttl time.Duration, clk clock.Clock) *CategoryCache {
	return &CategoryCache{
		store:  store,
		loader: loader,
		ttl:    ttl,
		clock:  clk,
	}
}

// Categories returns the cached listing, refreshing it first when absent or
// expired. A loader failure leaves any previous entry untouched.
func (c *CategoryCache) Categories(ctx context.Context) ([]domain.Category, error) {
	entry, err := c.store.Get(ctx)
	if err != nil {
		log.Warnf("Category cache read failed, recomputing: %v", err)
	} else if entry != nil && c.clock.Now().Before(entry.ExpiresAt) {
		log.Debug("Categories loaded from cache")
		return entry.Categories, nil
	}

	v, err, _ := c.group.Do("categories", func() (any, error) {
		categories, err := c.loader(ctx)
		if err != nil {
			return nil, err
		}

		fresh := &Entry{
			Categories: categories,
			ExpiresAt:  c.clock.Now().Add(c.ttl),
		}
		if err := c.store.Set(ctx, fresh, c.ttl); err != nil {
			// The listing is still good; serve it and retry caching next time.
			log.Warnf("Failed to cache categories: %v", err)
		}

		log.Debug("Categories fetched from storage and cached")
		return categories, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]domain.Category), nil
}

// Invalidate clears the cached entry immediately. Called on lifecycle
// teardown; the next read recomputes.
func (c *CategoryCache) Invalidate(ctx context.Context) error {
	log.Debug("Invalidating category cache")
	return c.store.Delete(ctx)
}
