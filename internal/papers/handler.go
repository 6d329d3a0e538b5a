package papers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/taxon/pkg/handlers"
	"github.com/JaimeStill/taxon/pkg/logging"
	"github.com/JaimeStill/taxon/pkg/pagination"
	"github.com/JaimeStill/taxon/pkg/routes"
)

// Handler provides HTTP endpoints for paper operations.
type Handler struct {
	sys        System
	guard      func(http.Handler) http.Handler
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// NewHandler creates a Handler. guard, when non-nil, wraps create and delete.
func NewHandler(
	sys System,
	guard func(http.Handler) http.Handler,
	logger *slog.Logger,
	pagination pagination.Config,
) *Handler {
	return &Handler{
		sys:        sys,
		guard:      guard,
		logger:     logger.With("handler", "papers"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for paper endpoints.
func (h *Handler) Routes() routes.Group {
	var protected []routes.Middleware
	if h.guard != nil {
		protected = []routes.Middleware{h.guard}
	}

	return routes.Group{
		Prefix: "/papers",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "POST", Pattern: "", Handler: h.Create, Middleware: protected},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete, Middleware: protected},
		},
	}
}

// List returns a paginated list of papers with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single paper by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.fail(w, r, fmt.Errorf("%w: id must be a UUID", ErrInvalid))
		return
	}

	p, err := h.sys.Find(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, p)
}

// Search accepts a JSON body with pagination and filter criteria and returns matching papers.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, r, fmt.Errorf("%w: %w", ErrInvalid, err))
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Create adds a paper from a CreateCommand JSON body.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd CreateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		h.fail(w, r, fmt.Errorf("%w: %w", ErrInvalid, err))
		return
	}

	p, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, p)
}

// Delete removes a paper by its UUID path parameter.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.fail(w, r, fmt.Errorf("%w: id must be a UUID", ErrInvalid))
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}

	handlers.RespondNoContent(w)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	handlers.RespondError(w, logging.FromContext(r.Context(), h.logger), MapHTTPStatus(err), err)
}
