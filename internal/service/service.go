package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"apw/solutions/internal/cache"
	"apw/solutions/internal/domain"
	"apw/solutions/internal/excerpt"
	"apw/solutions/internal/store"

	"github.com/benbjohnson/clock"
	log "github.com/sirupsen/logrus"
)

// DefaultCategorySlug overrides the alphabetical default for the initial grid.
const DefaultCategorySlug = "use-case"

// Service is the query and transform layer between the content store and the
// renderer. It owns no persisted state; the category cache is its only shared
// state.
type Service struct {
	store store.ContentStore
	cache *cache.CategoryCache
}

// New wires a Service and its category cache. The cache loader lists the
// published-only categories, drops the reserved one and sorts by name.
func New(contentStore store.ContentStore, cacheStore cache.Store, ttl time.Duration, clk clock.Clock) *Service {
	s := &Service{store: contentStore}
	s.cache = cache.New(cacheStore, s.loadCategories, ttl, clk)
	return s
}

func (s *Service) loadCategories(ctx context.Context) ([]domain.Category, error) {
	listed, err := s.store.ListCategories(ctx, store.CategoryFilter{
		ContentType:            store.ContentTypeSolution,
		OnlyWithPublishedItems: true,
		SortByName:             true,
	})
	if err != nil {
		return nil, err
	}

	categories := make([]domain.Category, 0, len(listed))
	for _, c := range listed {
		if c.Reserved() || c.ItemCount == 0 {
			continue
		}
		categories = append(categories, c)
	}

	sort.Slice(categories, func(i, j int) bool {
		return strings.ToLower(categories[i].Name) < strings.ToLower(categories[j].Name)
	})

	return categories, nil
}

// Categories returns the filterable categories, name ascending, served from
// the cache.
func (s *Service) Categories(ctx context.Context) ([]domain.Category, error) {
	log.Debug("Getting solution categories")
	return s.cache.Categories(ctx)
}

// InvalidateCategories clears the category cache. Hooked to lifecycle
// teardown.
func (s *Service) InvalidateCategories(ctx context.Context) error {
	return s.cache.Invalidate(ctx)
}

// SolutionsByCategory returns the published solutions for one category, title
// ascending. An empty selector returns everything. A selector of digits
// matches the term id, anything else the slug.
func (s *Service) SolutionsByCategory(ctx context.Context, selector string) ([]domain.SolutionItem, error) {
	if selector != "" {
		log.Debugf("Getting solutions for category: %s", selector)
	} else {
		log.Debug("Getting solutions")
	}

	records, err := s.store.QueryItems(ctx, store.ItemFilter{
		ContentType: store.ContentTypeSolution,
		Category:    selector,
		SortByTitle: true,
	})
	if err != nil {
		return nil, err
	}

	items := make([]domain.SolutionItem, 0, len(records))
	for _, rec := range records {
		items = append(items, s.formatItem(rec))
	}

	// Response order must be deterministic regardless of backend collation.
	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(items[i].Title) < strings.ToLower(items[j].Title)
	})

	return items, nil
}

// formatItem builds the display record for one solution. Items without a
// detail link are kept; the renderer tolerates the absence.
func (s *Service) formatItem(rec store.ItemRecord) domain.SolutionItem {
	if rec.DetailURL == "" {
		log.Warnf("Solution %d (%q) has no find-out-more link", rec.ID, rec.Title)
	}

	return domain.SolutionItem{
		ID:             rec.ID,
		Title:          rec.Title,
		RawDescription: rec.Description,
		Excerpt:        excerpt.Format(rec.Description),
		ImageURL:       rec.ImageURL,
		DetailURL:      rec.DetailURL,
		CategoryName:   rec.CategoryName,
	}
}

// ResolveCategory resolves a selector to a category, rejecting the reserved
// one.
func (s *Service) ResolveCategory(ctx context.Context, selector string) (domain.Category, error) {
	category, err := s.store.GetCategory(ctx, selector)
	if err != nil {
		return domain.Category{}, err
	}
	if category.Reserved() {
		return domain.Category{}, domain.ErrReservedCategory
	}
	return category, nil
}

// DefaultCategory picks the category shown on first load: the first in sorted
// order, with the use-case category taking precedence wherever it sits. Fixed
// business rule.
func DefaultCategory(categories []domain.Category) (domain.Category, bool) {
	if len(categories) == 0 {
		return domain.Category{}, false
	}

	for _, c := range categories {
		if c.Slug == DefaultCategorySlug {
			return c, true
		}
	}

	return categories[0], true
}
