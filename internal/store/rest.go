package store

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"apw/solutions/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// RESTConfig configures the JSON API content store.
type RESTConfig struct {
	BaseURL              string
	Timeout              int
	MaxRetries           int
	MaxRequestsPerSecond int
}

// restStore reads content through the platform's JSON API instead of its
// database. Used when the service runs off-box from the platform.
type restStore struct {
	rl         ratelimit.Limiter
	baseURL    string
	httpClient *resty.Client
}

// NewRESTStore returns a ContentStore over the platform's JSON API.
func NewRESTStore(cfg RESTConfig) ContentStore {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(time.Duration(cfg.Timeout) * time.Second).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(2 * time.Second).
		SetHeader("Accept", "application/json")

	rps := cfg.MaxRequestsPerSecond
	if rps <= 0 {
		rps = 5
	}

	return &restStore{
		rl:         ratelimit.New(rps),
		baseURL:    cfg.BaseURL,
		httpClient: client,
	}
}

type categoryPayload struct {
	ID        int    `json:"id"`
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	ItemCount int    `json:"count"`
}

type itemPayload struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Link        string `json:"link"`
	Category    string `json:"category"`
}

func (s *restStore) ListCategories(ctx context.Context, filter CategoryFilter) ([]domain.Category, error) {
	s.rl.Take()

	var payload []categoryPayload
	req := s.httpClient.R().
		SetContext(ctx).
		SetResult(&payload)
	if filter.OnlyWithPublishedItems {
		req.SetQueryParam("hide_empty", "1")
	}
	if filter.SortByName {
		req.SetQueryParam("orderby", "name")
	}

	resp, err := req.Get("/solutions/v1/categories")
	if err != nil {
		return nil, domain.Retrieval("list categories", err)
	}
	if resp.IsError() {
		return nil, domain.Retrieval("list categories", fmt.Errorf("HTTP %d %s", resp.StatusCode(), resp.Status()))
	}

	categories := make([]domain.Category, 0, len(payload))
	for _, p := range payload {
		categories = append(categories, domain.Category{ID: p.ID, Slug: p.Slug, Name: p.Name, ItemCount: p.ItemCount})
	}

	log.Debugf("Fetched %d categories from %s", len(categories), s.baseURL)
	return categories, nil
}

func (s *restStore) GetCategory(ctx context.Context, selector string) (domain.Category, error) {
	s.rl.Take()

	var payload categoryPayload
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetResult(&payload).
		Get("/solutions/v1/categories/" + url.PathEscape(selector))
	if err != nil {
		return domain.Category{}, domain.Retrieval("get category", err)
	}
	if resp.StatusCode() == 404 {
		return domain.Category{}, domain.ErrNotFound
	}
	if resp.IsError() {
		return domain.Category{}, domain.Retrieval("get category", fmt.Errorf("HTTP %d %s", resp.StatusCode(), resp.Status()))
	}

	return domain.Category{ID: payload.ID, Slug: payload.Slug, Name: payload.Name, ItemCount: payload.ItemCount}, nil
}

func (s *restStore) QueryItems(ctx context.Context, filter ItemFilter) ([]ItemRecord, error) {
	s.rl.Take()

	var payload []itemPayload
	req := s.httpClient.R().
		SetContext(ctx).
		SetResult(&payload)
	if filter.Category != "" {
		req.SetQueryParam("category", filter.Category)
	}
	if filter.SortByTitle {
		req.SetQueryParam("orderby", "title")
	}

	resp, err := req.Get("/solutions/v1/items")
	if err != nil {
		return nil, domain.Retrieval("query items", err)
	}
	if resp.IsError() {
		return nil, domain.Retrieval("query items", fmt.Errorf("HTTP %d %s", resp.StatusCode(), resp.Status()))
	}

	records := make([]ItemRecord, 0, len(payload))
	for _, p := range payload {
		records = append(records, ItemRecord{
			ID:           p.ID,
			Title:        p.Title,
			Description:  p.Description,
			ImageURL:     p.Image,
			DetailURL:    p.Link,
			CategoryName: p.Category,
		})
	}

	return records, nil
}
