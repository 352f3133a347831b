package store

import (
	"context"
	"strconv"

	"apw/solutions/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// postgresStore reads the platform content tables directly: posts, terms,
// term_relationships and the post_fields key/value table the field editor
// writes. The three field names are resolved here, once.
type postgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore returns a ContentStore over the platform database.
func NewPostgresStore(db *pgxpool.Pool) ContentStore {
	return &postgresStore{db: db}
}

const (
	fieldDescription = "solution_archive_description"
	fieldImage       = "solution_archive_image"
	fieldDetailLink  = "find_out_more_link"
)

func (s *postgresStore) ListCategories(ctx context.Context, filter CategoryFilter) ([]domain.Category, error) {
	contentType := filter.ContentType
	if contentType == "" {
		contentType = ContentTypeSolution
	}

	query := `
	SELECT t.term_id, t.slug, t.name, COUNT(p.id)
	FROM terms t
	JOIN term_relationships tr ON tr.term_id = t.term_id
	JOIN posts p ON p.id = tr.post_id
	WHERE p.post_type = $1 AND p.post_status = 'publish'
	GROUP BY t.term_id, t.slug, t.name`
	if filter.OnlyWithPublishedItems {
		query += `
	HAVING COUNT(p.id) > 0`
	}
	if filter.SortByName {
		query += `
	ORDER BY t.name ASC`
	}

	rows, err := s.db.Query(ctx, query, contentType)
	if err != nil {
		return nil, domain.Retrieval("list categories", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Slug, &c.Name, &c.ItemCount); err != nil {
			return nil, domain.Retrieval("scan category", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Retrieval("list categories", err)
	}

	return categories, nil
}

func (s *postgresStore) GetCategory(ctx context.Context, selector string) (domain.Category, error) {
	query := `SELECT term_id, slug, name, 0 FROM terms WHERE slug = $1`
	arg := any(selector)
	if isNumeric(selector) {
		query = `SELECT term_id, slug, name, 0 FROM terms WHERE term_id = $1`
		arg, _ = strconv.Atoi(selector)
	}

	var c domain.Category
	err := s.db.QueryRow(ctx, query, arg).Scan(&c.ID, &c.Slug, &c.Name, &c.ItemCount)
	if err == pgx.ErrNoRows {
		return domain.Category{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Category{}, domain.Retrieval("get category", err)
	}

	return c, nil
}

func (s *postgresStore) QueryItems(ctx context.Context, filter ItemFilter) ([]ItemRecord, error) {
	contentType := filter.ContentType
	if contentType == "" {
		contentType = ContentTypeSolution
	}

	// MIN(t.name) picks the item's first assigned category, matching how the
	// card label was always sourced.
	query := `
	SELECT p.id, p.post_title,
	       COALESCE(MAX(CASE WHEN f.field_name = '` + fieldDescription + `' THEN f.field_value END), ''),
	       COALESCE(MAX(CASE WHEN f.field_name = '` + fieldImage + `' THEN f.field_value END), ''),
	       COALESCE(MAX(CASE WHEN f.field_name = '` + fieldDetailLink + `' THEN f.field_value END), ''),
	       COALESCE(MIN(t.name), '')
	FROM posts p
	LEFT JOIN post_fields f ON f.post_id = p.id
	LEFT JOIN term_relationships tr ON tr.post_id = p.id
	LEFT JOIN terms t ON t.term_id = tr.term_id
	WHERE p.post_type = $1 AND p.post_status = 'publish'`

	args := []any{contentType}
	if filter.Category != "" {
		match := `t2.slug = $2`
		arg := any(filter.Category)
		if isNumeric(filter.Category) {
			match = `t2.term_id = $2`
			arg, _ = strconv.Atoi(filter.Category)
		}
		query += `
	AND EXISTS (
		SELECT 1 FROM term_relationships tr2
		JOIN terms t2 ON t2.term_id = tr2.term_id
		WHERE tr2.post_id = p.id AND ` + match + `
	)`
		args = append(args, arg)
	}
	query += `
	GROUP BY p.id, p.post_title`
	if filter.SortByTitle {
		query += `
	ORDER BY p.post_title ASC`
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Retrieval("query items", err)
	}
	defer rows.Close()

	var records []ItemRecord
	for rows.Next() {
		var rec ItemRecord
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Description, &rec.ImageURL, &rec.DetailURL, &rec.CategoryName); err != nil {
			return nil, domain.Retrieval("scan item", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Retrieval("query items", err)
	}

	return records, nil
}
