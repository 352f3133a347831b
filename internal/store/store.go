package store

import (
	"context"

	"apw/solutions/internal/domain"
)

// ContentStore is the boundary to the platform's content storage. Records come
// back fully typed; field access by name happens inside the implementation,
// never downstream.
type ContentStore interface {
	// ListCategories returns the distinct categories matching the filter,
	// including the reserved one. Exclusion policy belongs to the caller.
	ListCategories(ctx context.Context, filter CategoryFilter) ([]domain.Category, error)

	// GetCategory resolves one category by numeric id or slug. Returns
	// domain.ErrNotFound when no such category exists.
	GetCategory(ctx context.Context, selector string) (domain.Category, error)

	// QueryItems returns the published solution records matching the filter.
	// Order is backend-defined; deterministic ordering is applied downstream.
	QueryItems(ctx context.Context, filter ItemFilter) ([]ItemRecord, error)
}

// CategoryFilter narrows a category listing.
type CategoryFilter struct {
	ContentType            string
	OnlyWithPublishedItems bool
	SortByName             bool
}

// ItemFilter narrows an item query. Category holds a numeric term id or a
// slug; empty matches every published item. Backend sort order is advisory;
// the service applies its own deterministic ordering on top.
type ItemFilter struct {
	ContentType string
	Category    string
	SortByTitle bool
}

// ItemRecord carries every stored field the pipeline reads for one solution.
type ItemRecord struct {
	ID           int
	Title        string
	Description  string
	ImageURL     string
	DetailURL    string
	CategoryName string
}

// ContentTypeSolution is the platform content type this pipeline serves.
const ContentTypeSolution = "solution"

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
