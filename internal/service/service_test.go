package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"apw/solutions/internal/cache"
	"apw/solutions/internal/domain"
	"apw/solutions/internal/excerpt"
	"apw/solutions/internal/store"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	categories []domain.Category
	items      map[string][]store.ItemRecord
	failWith   error
	listCalls  int
}

func (f *fakeStore) ListCategories(ctx context.Context, filter store.CategoryFilter) ([]domain.Category, error) {
	f.listCalls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.categories, nil
}

func (f *fakeStore) GetCategory(ctx context.Context, selector string) (domain.Category, error) {
	if f.failWith != nil {
		return domain.Category{}, f.failWith
	}
	for _, c := range f.categories {
		if c.Slug == selector || strconv.Itoa(c.ID) == selector {
			return c, nil
		}
	}
	return domain.Category{}, domain.ErrNotFound
}

func (f *fakeStore) QueryItems(ctx context.Context, filter store.ItemFilter) ([]store.ItemRecord, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if filter.Category == "" {
		var all []store.ItemRecord
		for _, recs := range f.items {
			all = append(all, recs...)
		}
		return all, nil
	}
	return f.items[filter.Category], nil
}

func newTestService(fs *fakeStore) *Service {
	return New(fs, cache.NewMemoryStore(), 12*time.Hour, clock.NewMock())
}

func TestCategoriesExcludeReservedAndEmpty(t *testing.T) {
	fs := &fakeStore{categories: []domain.Category{
		{ID: 3, Slug: "uncategorized", Name: "Uncategorized", ItemCount: 7},
		{ID: 2, Slug: "industry", Name: "Industry", ItemCount: 3},
		{ID: 4, Slug: "archived", Name: "Archived", ItemCount: 0},
		{ID: 1, Slug: "use-case", Name: "Use Case", ItemCount: 5},
	}}
	svc := newTestService(fs)

	got, err := svc.Categories(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "Industry", got[0].Name)
	assert.Equal(t, "Use Case", got[1].Name)
}

func TestCategoriesServedFromCache(t *testing.T) {
	fs := &fakeStore{categories: []domain.Category{
		{ID: 2, Slug: "industry", Name: "Industry", ItemCount: 3},
	}}
	svc := newTestService(fs)

	_, err := svc.Categories(context.Background())
	require.NoError(t, err)
	_, err = svc.Categories(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, fs.listCalls)
}

func TestInvalidateCategoriesTriggersRecompute(t *testing.T) {
	fs := &fakeStore{categories: []domain.Category{
		{ID: 2, Slug: "industry", Name: "Industry", ItemCount: 3},
	}}
	svc := newTestService(fs)

	_, err := svc.Categories(context.Background())
	require.NoError(t, err)
	require.NoError(t, svc.InvalidateCategories(context.Background()))
	_, err = svc.Categories(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, fs.listCalls)
}

func TestSolutionsByCategorySortedByTitle(t *testing.T) {
	fs := &fakeStore{items: map[string][]store.ItemRecord{
		"2": {
			{ID: 11, Title: "Beta", Description: "b", DetailURL: "/b", CategoryName: "Industry"},
			{ID: 10, Title: "Alpha", Description: "a", DetailURL: "/a", CategoryName: "Industry"},
		},
	}}
	svc := newTestService(fs)

	items, err := svc.SolutionsByCategory(context.Background(), "2")
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "Alpha", items[0].Title)
	assert.Equal(t, "Beta", items[1].Title)
}

func TestSolutionsByCategoryExactMatchOnly(t *testing.T) {
	fs := &fakeStore{items: map[string][]store.ItemRecord{
		"2": {{ID: 11, Title: "Beta", CategoryName: "Industry", DetailURL: "/b"}},
		"1": {{ID: 12, Title: "Gamma", CategoryName: "Use Case", DetailURL: "/g"}},
	}}
	svc := newTestService(fs)

	items, err := svc.SolutionsByCategory(context.Background(), "2")
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, "Industry", items[0].CategoryName)
}

func TestSolutionsExcerptDerivedFromDescription(t *testing.T) {
	fs := &fakeStore{items: map[string][]store.ItemRecord{
		"2": {{ID: 11, Title: "Beta", Description: "<p>Rich <em>text</em></p>", DetailURL: "/b"}},
	}}
	svc := newTestService(fs)

	items, err := svc.SolutionsByCategory(context.Background(), "2")
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, excerpt.Format("<p>Rich <em>text</em></p>"), items[0].Excerpt)
	assert.Equal(t, "Rich text", items[0].Excerpt)
}

func TestSolutionsMissingDetailLinkKept(t *testing.T) {
	fs := &fakeStore{items: map[string][]store.ItemRecord{
		"2": {{ID: 11, Title: "Beta", Description: "b"}},
	}}
	svc := newTestService(fs)

	items, err := svc.SolutionsByCategory(context.Background(), "2")
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Empty(t, items[0].DetailURL)
}

func TestSolutionsStorageFailurePropagates(t *testing.T) {
	fs := &fakeStore{failWith: domain.Retrieval("query items", errors.New("connection refused"))}
	svc := newTestService(fs)

	_, err := svc.SolutionsByCategory(context.Background(), "2")
	require.Error(t, err)
	assert.True(t, domain.IsRetrieval(err))
}

func TestResolveCategoryRejectsReserved(t *testing.T) {
	fs := &fakeStore{categories: []domain.Category{
		{ID: 3, Slug: "uncategorized", Name: "Uncategorized"},
	}}
	svc := newTestService(fs)

	_, err := svc.ResolveCategory(context.Background(), "3")
	assert.ErrorIs(t, err, domain.ErrReservedCategory)
}

func TestResolveCategoryNotFound(t *testing.T) {
	svc := newTestService(&fakeStore{})

	_, err := svc.ResolveCategory(context.Background(), "99")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDefaultCategoryPrefersUseCase(t *testing.T) {
	categories := []domain.Category{
		{ID: 2, Slug: "industry", Name: "Industry"},
		{ID: 1, Slug: "use-case", Name: "Use Case"},
	}

	def, ok := DefaultCategory(categories)
	require.True(t, ok)
	assert.Equal(t, 1, def.ID)
}

func TestDefaultCategoryFallsBackToFirst(t *testing.T) {
	categories := []domain.Category{
		{ID: 2, Slug: "industry", Name: "Industry"},
		{ID: 5, Slug: "sector", Name: "Sector"},
	}

	def, ok := DefaultCategory(categories)
	require.True(t, ok)
	assert.Equal(t, 2, def.ID)
}

func TestDefaultCategoryEmpty(t *testing.T) {
	_, ok := DefaultCategory(nil)
	assert.False(t, ok)
}
