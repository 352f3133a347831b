package server

import (
	"context"
	"errors"
	"strconv"

	"apw/solutions/internal/domain"
	"apw/solutions/internal/render"
	"apw/solutions/internal/service"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Composer assembles the full-page grid fragments. Any failure degrades to an
// inline error paragraph; the page around the grid always renders.
type Composer struct {
	svc      *service.Service
	renderer *render.Renderer
}

func NewComposer(svc *service.Service, renderer *render.Renderer) *Composer {
	return &Composer{svc: svc, renderer: renderer}
}

// InitialGrid composes the category selector plus the default category's
// items for first page load.
func (c *Composer) InitialGrid(ctx context.Context) string {
	categories, err := c.svc.Categories(ctx)
	if err != nil {
		log.Errorf("Failed to load categories for initial grid: %v", err)
		return c.renderer.ErrorFragment("Error displaying solutions.")
	}
	if len(categories) == 0 {
		log.Warn("No categories found for solutions")
		return c.renderer.ErrorFragment("No solution categories found.")
	}

	defaultCategory, _ := service.DefaultCategory(categories)

	items, err := c.svc.SolutionsByCategory(ctx, strconv.Itoa(defaultCategory.ID))
	if err != nil {
		log.Errorf("Failed to load solutions for default category %d: %v", defaultCategory.ID, err)
		return c.renderer.ErrorFragment("Error displaying solutions.")
	}

	// Unique container id so multiple grids coexist on one page.
	containerID := "apw-solutions-container-" + uuid.NewString()

	out, err := c.renderer.InitialGrid(render.InitialGridData{
		ContainerID: containerID,
		Categories:  categories,
		DefaultID:   defaultCategory.ID,
		Items:       items,
	})
	if err != nil {
		log.Errorf("Failed to render initial grid: %v", err)
		return c.renderer.ErrorFragment("Error displaying solutions.")
	}

	return out
}

// CategoryGrid composes the standalone grid for one explicitly selected
// category.
func (c *Composer) CategoryGrid(ctx context.Context, selector string) string {
	if selector == "" {
		log.Warn("No category specified for category grid")
		return c.renderer.ErrorFragment("No category specified for solutions.")
	}

	categoryName := ""
	category, err := c.svc.ResolveCategory(ctx, selector)
	switch {
	case err == nil:
		categoryName = category.Name
	case errors.Is(err, domain.ErrReservedCategory):
		log.Warnf("Reserved category requested in category grid: %s", selector)
		return c.renderer.ErrorFragment("Invalid category specified.")
	case errors.Is(err, domain.ErrNotFound):
		// Unknown selector renders as an empty grid, the valid empty state.
	default:
		log.Errorf("Failed to resolve category %q: %v", selector, err)
		return c.renderer.ErrorFragment("Error displaying solutions.")
	}

	items, err := c.svc.SolutionsByCategory(ctx, selector)
	if err != nil {
		log.Errorf("Failed to load solutions for category %q: %v", selector, err)
		return c.renderer.ErrorFragment("Error displaying solutions.")
	}
	if len(items) == 0 {
		log.Warnf("No solutions found for category: %s", selector)
	}

	out, err := c.renderer.CategoryGrid(render.CategoryGridData{
		CategoryName: categoryName,
		Items:        items,
	})
	if err != nil {
		log.Errorf("Failed to render category grid: %v", err)
		return c.renderer.ErrorFragment("Error displaying solutions.")
	}

	return out
}
