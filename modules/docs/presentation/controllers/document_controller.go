package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/fleetdock/fleetdock/modules/docs/domain/aggregates/document"
	"github.com/fleetdock/fleetdock/modules/docs/presentation/mappers"
	"github.com/fleetdock/fleetdock/modules/docs/presentation/viewmodels"
	"github.com/fleetdock/fleetdock/modules/docs/services"
	"github.com/fleetdock/fleetdock/pkg/application"
	"github.com/fleetdock/fleetdock/pkg/middleware"
)

type DocumentController struct {
	app       application.Application
	documents *services.DocumentService
	basePath  string
}

func NewDocumentController(app application.Application) application.Controller {
	return &DocumentController{
		app:       app,
		documents: app.Service(services.DocumentService{}).(*services.DocumentService),
		basePath:  "/docs/api/documents",
	}
}

func (c *DocumentController) Key() string {
	return c.basePath
}

func (c *DocumentController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/expiring", c.ListExpiring).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.Get).Methods(http.MethodGet)

	writeRouter := r.PathPrefix(c.basePath).Subrouter()
	writeRouter.Use(middleware.WithTransaction())
	writeRouter.HandleFunc("", c.Create).Methods(http.MethodPost)
	writeRouter.HandleFunc("/{id}", c.Update).Methods(http.MethodPut)
	writeRouter.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
}

func (c *DocumentController) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	params := &document.FindParams{
		Q:            strings.TrimSpace(r.URL.Query().Get("q")),
		Kind:         document.Kind(strings.TrimSpace(r.URL.Query().Get("kind"))),
		TargetType:   document.TargetType(strings.TrimSpace(r.URL.Query().Get("target_type"))),
		UploadStatus: document.UploadStatus(strings.TrimSpace(r.URL.Query().Get("upload_status"))),
		Limit:        limit,
		Offset:       offset,
	}
	if v := strings.TrimSpace(r.URL.Query().Get("target_id")); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeAPIError(w, r, http.StatusBadRequest, "DOCS_INVALID_TARGET", "invalid target id")
			return
		}
		params.TargetID = id
	}

	items, total, err := c.documents.GetPaginated(r.Context(), params)
	if err != nil {
		writeAPIError(w, r, http.StatusInternalServerError, "DOCS_INTERNAL", "internal error")
		return
	}

	out := make([]viewmodels.Document, 0, len(items))
	for _, item := range items {
		out = append(out, mappers.DocumentToViewModel(item))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": out,
		"total": total,
	})
}

// ListExpiring returns documents expiring inside the given window,
// defaulting to 90 days.
func (c *DocumentController) ListExpiring(w http.ResponseWriter, r *http.Request) {
	window := 90 * 24 * time.Hour
	if v := strings.TrimSpace(r.URL.Query().Get("within")); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil || parsed <= 0 {
			writeAPIError(w, r, http.StatusBadRequest, "DOCS_INVALID_WINDOW", "within must be a positive duration")
			return
		}
		window = parsed
	}

	items, err := c.documents.ListExpiring(r.Context(), window)
	if err != nil {
		writeAPIError(w, r, http.StatusInternalServerError, "DOCS_INTERNAL", "internal error")
		return
	}

	out := make([]viewmodels.Document, 0, len(items))
	for _, item := range items {
		out = append(out, mappers.DocumentToViewModel(item))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (c *DocumentController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "DOCS_INVALID_ID", "invalid document id")
		return
	}

	entity, err := c.documents.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			writeAPIError(w, r, http.StatusNotFound, "DOCS_NOT_FOUND", "document not found")
			return
		}
		writeAPIError(w, r, http.StatusInternalServerError, "DOCS_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, mappers.DocumentToViewModel(entity))
}

func (c *DocumentController) Create(w http.ResponseWriter, r *http.Request) {
	var dto document.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "DOCS_INVALID_JSON", "invalid json")
		return
	}
	if errs, ok := dto.Ok(); !ok {
		writeAPIError(w, r, http.StatusUnprocessableEntity, "DOCS_VALIDATION_FAILED", firstError(errs))
		return
	}

	created, err := c.documents.Create(r.Context(), &dto)
	if err != nil {
		if errors.Is(err, document.ErrNumberTaken) {
			writeAPIError(w, r, http.StatusConflict, "DOCS_NUMBER_CONFLICT", "document number already registered for this target")
			return
		}
		writeAPIError(w, r, http.StatusInternalServerError, "DOCS_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, mappers.DocumentToViewModel(created))
}

func (c *DocumentController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "DOCS_INVALID_ID", "invalid document id")
		return
	}

	var dto document.UpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "DOCS_INVALID_JSON", "invalid json")
		return
	}
	if errs, ok := dto.Ok(); !ok {
		writeAPIError(w, r, http.StatusUnprocessableEntity, "DOCS_VALIDATION_FAILED", firstError(errs))
		return
	}

	updated, err := c.documents.Update(r.Context(), id, &dto)
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			writeAPIError(w, r, http.StatusNotFound, "DOCS_NOT_FOUND", "document not found")
			return
		}
		writeAPIError(w, r, http.StatusInternalServerError, "DOCS_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, mappers.DocumentToViewModel(updated))
}

func (c *DocumentController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "DOCS_INVALID_ID", "invalid document id")
		return
	}

	deleted, err := c.documents.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			writeAPIError(w, r, http.StatusNotFound, "DOCS_NOT_FOUND", "document not found")
			return
		}
		writeAPIError(w, r, http.StatusInternalServerError, "DOCS_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, mappers.DocumentToViewModel(deleted))
}
