package classifications

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/taxon/pkg/handlers"
	"github.com/JaimeStill/taxon/pkg/logging"
	"github.com/JaimeStill/taxon/pkg/pagination"
	"github.com/JaimeStill/taxon/pkg/routes"
)

// Handler provides HTTP endpoints for classification operations.
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

// NewHandler creates a Handler. guard, when non-nil, wraps the create,
// update, and delete routes.
func NewHandler(
	sys System,
	guard func(http.Handler) http.Handler,
	logger *slog.Logger,
	pagination pagination.Config,
) *Handler {
	return &Handler{
		sys:        sys,
		guard:      guard,
		logger:     logger.With("handler", "classifications"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for classification endpoints.
func (h *Handler) Routes() routes.Group {
	var protected []routes.Middleware
	if h.guard != nil {
		protected = []routes.Middleware{h.guard}
	}

	return routes.Group{
		Prefix: "/classifications",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "GET", Pattern: "/summary", Handler: h.Summary},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "GET", Pattern: "/{id}/dependencies", Handler: h.Dependencies},
			{Method: "POST", Pattern: "", Handler: h.Create, Middleware: protected},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Update, Middleware: protected},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete, Middleware: protected},
		},
	}
}

// List returns a paginated list of classifications with optional query parameter filters.
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

// Search accepts a JSON body with pagination and filter criteria and returns matching classifications.
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

// Summary returns the number of classifications per type.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.sys.Summary(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, s)
}

// Find returns a single classification by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	c, err := h.sys.Find(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}

// Dependencies returns the per-column count of downstream rows referencing the classification.
func (h *Handler) Dependencies(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	deps, err := h.sys.Dependencies(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"dependencies": deps,
		"deletable":    deps.Empty(),
	})
}

// Create registers a classification from a CreateCommand JSON body.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd CreateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		h.fail(w, r, fmt.Errorf("%w: %w", ErrInvalid, err))
		return
	}

	c, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, c)
}

// Update applies an UpdateCommand JSON body. A code change rewrites every
// downstream reference in the same transaction.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var cmd UpdateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		h.fail(w, r, fmt.Errorf("%w: %w", ErrInvalid, err))
		return
	}

	c, err := h.sys.Update(r.Context(), id, cmd)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}

// Delete removes a classification. When downstream rows still reference it
// the response is 409 with the blocking dependencies.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}

	handlers.RespondNoContent(w)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.fail(w, r, fmt.Errorf("%w: id must be a UUID", ErrInvalid))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	logger := logging.FromContext(r.Context(), h.logger)

	var depErr *DependencyError
	if errors.As(err, &depErr) {
		handlers.RespondErrorFields(w, logger, http.StatusConflict, err, map[string]any{
			"dependencies": depErr.Dependencies,
		})
		return
	}

	handlers.RespondError(w, logger, MapHTTPStatus(err), err)
}
