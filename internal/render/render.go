package render

import (
	"html/template"
	"strings"

	"apw/solutions/internal/domain"
)

// The card markup is defined once and executed through the same parsed
// template for full-page and partial responses. The client swaps partial
// fragments into the container the full page populated, so the two must stay
// byte-identical. Class names are the contract with the shipped stylesheet
// and script.
const fragmentTemplates = `
{{define "card"}}<div class="col-md-4">
    <div class="apw-solution-card" data-link="{{.DetailURL}}">
        <span class="apw-solution-category">{{.CategoryName}}</span>
        <h3 class="apw-solution-title">{{.Title}}</h3>
        <div class="apw-solution-excerpt">{{.Excerpt}}</div>
        {{- if .ImageURL}}
        <div class="apw-solution-image">
            <img src="{{.ImageURL}}" alt="{{.Title}}">
        </div>
        {{- end}}
        <span class="apw-solution-link">Find out more</span>
    </div>
</div>{{end}}

{{define "grid"}}{{if .}}<div class="row">
{{- range .}}
{{template "card" .}}
{{- end}}
</div>{{else}}<p class="apw-solutions-empty">No solutions found.</p>{{end}}{{end}}

{{define "error"}}<p class="apw-solutions-error">{{.}}</p>{{end}}

{{define "initial_grid"}}<div class="apw-solutions-container" id="{{.ContainerID}}">
    <div class="apw-solutions-header">
        <h2 class="apw-solutions-title">Solution By</h2>
        <div class="apw-solutions-filter">
            <select class="apw-solutions-category-select">
            {{- range .Categories}}
                <option value="{{.ID}}"{{if eq .ID $.DefaultID}} selected{{end}}>{{.Name}}</option>
            {{- end}}
            </select>
            <i class="fa-solid fa-caret-down" aria-hidden="true"></i>
        </div>
    </div>
    <div class="apw-solutions-grid">{{template "grid" .Items}}</div>
</div>{{end}}

{{define "category_grid"}}<div class="apw-solutions-category-container">
    <div class="apw-solutions-grid">{{if .Items}}<div class="row">
{{- range .Items}}
{{template "card" .}}
{{- end}}
</div>{{else}}<p class="apw-solutions-empty">No solutions found for this category.</p>{{end}}</div>
</div>{{end}}

{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<link rel="stylesheet" href="/assets/css/apw-solutions.css">
</head>
<body>
{{.Body}}
<script>var apw_solutions_config = {{.Config}};</script>
<script src="/assets/js/apw-solutions.js"></script>
</body>
</html>{{end}}
`

// Renderer executes the fragment templates. Safe for concurrent use.
type Renderer struct {
	tmpl *template.Template
}

func New() *Renderer {
	return &Renderer{
		tmpl: template.Must(template.New("solutions").Parse(fragmentTemplates)),
	}
}

// InitialGridData feeds the full selector-plus-grid composition.
type InitialGridData struct {
	ContainerID string
	Categories  []domain.Category
	DefaultID   int
	Items       []domain.SolutionItem
}

// CategoryGridData feeds the standalone single-category grid.
type CategoryGridData struct {
	CategoryName string
	Items        []domain.SolutionItem
}

// ClientConfig is the bootstrap object the page script reads.
type ClientConfig struct {
	AjaxURL string `json:"ajax_url"`
	Nonce   string `json:"nonce"`
	Debug   bool   `json:"debug"`
}

// PageData feeds the outer page shell.
type PageData struct {
	Title  string
	Body   template.HTML
	Config ClientConfig
}

func (r *Renderer) execute(name string, data any) (string, error) {
	var buf strings.Builder
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Card renders one solution card.
func (r *Renderer) Card(item domain.SolutionItem) (string, error) {
	return r.execute("card", item)
}

// Grid renders zero or more cards in a row container; an empty set renders
// the single placeholder instead of an empty row.
func (r *Renderer) Grid(items []domain.SolutionItem) (string, error) {
	return r.execute("grid", items)
}

// InitialGrid renders the category selector plus the default category's grid.
func (r *Renderer) InitialGrid(data InitialGridData) (string, error) {
	return r.execute("initial_grid", data)
}

// CategoryGrid renders the standalone grid for one category.
func (r *Renderer) CategoryGrid(data CategoryGridData) (string, error) {
	return r.execute("category_grid", data)
}

// ErrorFragment renders a styled inline error message. It never fails; a
// template error here would leave the page blank, which is exactly what this
// fragment exists to avoid.
func (r *Renderer) ErrorFragment(message string) string {
	out, err := r.execute("error", message)
	if err != nil {
		return "<p class=\"apw-solutions-error\">Error displaying solutions.</p>"
	}
	return out
}

// Page renders the outer page shell around a composed fragment.
func (r *Renderer) Page(data PageData) (string, error) {
	return r.execute("page", data)
}
