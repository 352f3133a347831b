package server

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"apw/solutions/internal/domain"
	"apw/solutions/internal/render"
	"apw/solutions/internal/service"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// Server exposes the HTTP surface: the asynchronous filter endpoint and the
// full-page entry points.
type Server struct {
	router   *mux.Router
	svc      *service.Service
	renderer *render.Renderer
	composer *Composer
	nonce    *NonceService
	debug    bool
}

func New(svc *service.Service, renderer *render.Renderer, nonce *NonceService, debug bool) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		svc:      svc,
		renderer: renderer,
		composer: NewComposer(svc, renderer),
		nonce:    nonce,
		debug:    debug,
	}

	s.router.HandleFunc("/filter", s.handleFilter).Methods("POST")
	s.router.HandleFunc("/solutions", s.handleSolutionsPage).Methods("GET")
	s.router.HandleFunc("/solutions/category/{selector}", s.handleCategoryPage).Methods("GET")
	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")

	return s
}

// Router returns the handler for mounting on an http.Server.
func (s *Server) Router() http.Handler {
	return s.router
}

type responseEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type failurePayload struct {
	Message string `json:"message"`
}

// Failures are application-level, carried in the envelope; the transport
// status stays 200 for every answered filter request.
func (s *Server) writeFailure(w http.ResponseWriter, message string) {
	s.writeJSON(w, responseEnvelope{Success: false, Data: failurePayload{Message: message}})
}

func (s *Server) writeSuccess(w http.ResponseWriter, data any) {
	s.writeJSON(w, responseEnvelope{Success: true, Data: data})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Failed to write response: %v", err)
	}
}

// validateFilter checks the anti-forgery token and the category id. The
// returned message is the structured failure surfaced to the client.
func (s *Server) validateFilter(req domain.FilterRequest) error {
	if !s.nonce.Verify(req.Token, FilterAction) {
		return domain.ValidationError("Security check failed")
	}
	if req.CategoryID <= 0 {
		return domain.ValidationError("No category selected")
	}
	return nil
}

// handleFilter serves one category-filter request: token check, category
// check, query, render. One-shot; the client owns any retry policy.
func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	log.Debug("Processing filter request")

	req := domain.FilterRequest{
		Token:    r.PostFormValue("nonce"),
		Sequence: r.PostFormValue("sequence"),
	}
	req.CategoryID, _ = strconv.Atoi(r.PostFormValue("category"))

	if err := s.validateFilter(req); err != nil {
		log.Errorf("Filter request rejected: %v", err)
		s.writeFailure(w, err.Error())
		return
	}

	selector := strconv.Itoa(req.CategoryID)

	categoryName := ""
	category, err := s.svc.ResolveCategory(r.Context(), selector)
	switch {
	case err == nil:
		categoryName = category.Name
	case errors.Is(err, domain.ErrReservedCategory):
		log.Warn("Reserved category requested, returning error")
		s.writeFailure(w, "Invalid category")
		return
	case errors.Is(err, domain.ErrNotFound):
		// Unknown id yields an empty grid, the valid empty state.
	default:
		log.Errorf("Failed to resolve category %d: %v", req.CategoryID, err)
		s.writeFailure(w, "Error loading solutions")
		return
	}

	items, err := s.svc.SolutionsByCategory(r.Context(), selector)
	if err != nil {
		log.Errorf("Failed to load solutions for category %d: %v", req.CategoryID, err)
		s.writeFailure(w, "Error loading solutions")
		return
	}

	html, err := s.renderer.Grid(items)
	if err != nil {
		log.Errorf("Failed to render solutions grid: %v", err)
		s.writeFailure(w, "Error loading solutions")
		return
	}

	s.writeSuccess(w, domain.FilterResult{
		HTML:         html,
		Count:        len(items),
		CategoryName: categoryName,
		Sequence:     req.Sequence,
	})
}

func (s *Server) handleSolutionsPage(w http.ResponseWriter, r *http.Request) {
	body := s.composer.InitialGrid(r.Context())
	s.writePage(w, "Solutions", body)
}

func (s *Server) handleCategoryPage(w http.ResponseWriter, r *http.Request) {
	selector := mux.Vars(r)["selector"]
	body := s.composer.CategoryGrid(r.Context(), selector)
	s.writePage(w, "Solutions", body)
}

func (s *Server) writePage(w http.ResponseWriter, title, body string) {
	page, err := s.renderer.Page(render.PageData{
		Title: title,
		Body:  template.HTML(body),
		Config: render.ClientConfig{
			AjaxURL: "/filter",
			Nonce:   s.nonce.Create(FilterAction),
			Debug:   s.debug,
		},
	})
	if err != nil {
		log.Errorf("Failed to render page: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(page)); err != nil {
		log.Errorf("Failed to write page: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		log.Errorf("Failed to write health response: %v", err)
	}
}
