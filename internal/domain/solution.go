package domain

// ReservedCategorySlug is the default classification every install carries.
// It must never be listed, filtered on, or rendered.
const ReservedCategorySlug = "uncategorized"

// IsReservedSlug is the single predicate deciding whether a category slug is
// excluded from the pipeline. Every call site that sources or validates
// categories goes through it.
func IsReservedSlug(slug string) bool {
	return slug == ReservedCategorySlug
}

// Category is a classification term grouping solution items. Read-only
// projection of the platform taxonomy.
type Category struct {
	ID        int    `json:"id"`
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	ItemCount int    `json:"item_count"`
}

func (c Category) Reserved() bool {
	return IsReservedSlug(c.Slug)
}

// SolutionItem is one offering, displayed as a card. Excerpt is always the
// formatted form of RawDescription, never set independently.
type SolutionItem struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	RawDescription string `json:"description"`
	Excerpt        string `json:"excerpt"`
	ImageURL       string `json:"image,omitempty"`
	DetailURL      string `json:"link"`
	CategoryName   string `json:"category"`
}
