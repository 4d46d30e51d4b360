package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/fleetdock/fleetdock/modules/registry/domain/aggregates/company"
	"github.com/fleetdock/fleetdock/modules/registry/domain/aggregates/ship"
	"github.com/fleetdock/fleetdock/modules/registry/presentation/mappers"
	"github.com/fleetdock/fleetdock/modules/registry/presentation/viewmodels"
	"github.com/fleetdock/fleetdock/modules/registry/services"
	"github.com/fleetdock/fleetdock/pkg/application"
	"github.com/fleetdock/fleetdock/pkg/middleware"
)

type ShipController struct {
	app      application.Application
	ships    *services.ShipService
	basePath string
}

func NewShipController(app application.Application) application.Controller {
	return &ShipController{
		app:      app,
		ships:    app.Service(services.ShipService{}).(*services.ShipService),
		basePath: "/registry/api/ships",
	}
}

func (c *ShipController) Key() string {
	return c.basePath
}

func (c *ShipController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.Get).Methods(http.MethodGet)

	writeRouter := r.PathPrefix(c.basePath).Subrouter()
	writeRouter.Use(middleware.WithTransaction())
	writeRouter.HandleFunc("", c.Create).Methods(http.MethodPost)
	writeRouter.HandleFunc("/{id}", c.Update).Methods(http.MethodPut)
	writeRouter.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
}

func (c *ShipController) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	params := &ship.FindParams{
		Q:      strings.TrimSpace(r.URL.Query().Get("q")),
		Status: ship.Status(strings.TrimSpace(r.URL.Query().Get("status"))),
		Limit:  limit,
		Offset: offset,
	}
	if v := strings.TrimSpace(r.URL.Query().Get("company_id")); v != "" {
		companyID, err := uuid.Parse(v)
		if err != nil {
			writeAPIError(w, r, http.StatusBadRequest, "SHIP_INVALID_COMPANY_ID", "invalid company id")
			return
		}
		params.CompanyID = companyID
	}

	items, total, err := c.ships.GetPaginated(r.Context(), params)
	if err != nil {
		writeAPIError(w, r, http.StatusInternalServerError, "SHIP_INTERNAL", "internal error")
		return
	}

	out := make([]viewmodels.Ship, 0, len(items))
	for _, item := range items {
		out = append(out, mappers.ShipToViewModel(item))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": out,
		"total": total,
	})
}

func (c *ShipController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "SHIP_INVALID_ID", "invalid ship id")
		return
	}

	entity, err := c.ships.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ship.ErrNotFound) {
			writeAPIError(w, r, http.StatusNotFound, "SHIP_NOT_FOUND", "ship not found")
			return
		}
		writeAPIError(w, r, http.StatusInternalServerError, "SHIP_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, mappers.ShipToViewModel(entity))
}

func (c *ShipController) Create(w http.ResponseWriter, r *http.Request) {
	var dto ship.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "SHIP_INVALID_JSON", "invalid json")
		return
	}
	if errs, ok := dto.Ok(); !ok {
		writeAPIError(w, r, http.StatusUnprocessableEntity, "SHIP_VALIDATION_FAILED", firstError(errs))
		return
	}

	created, err := c.ships.Create(r.Context(), &dto)
	if err != nil {
		switch {
		case errors.Is(err, company.ErrNotFound):
			writeAPIError(w, r, http.StatusUnprocessableEntity, "SHIP_UNKNOWN_COMPANY", "owning company not found")
		case errors.Is(err, ship.ErrIMOTaken):
			writeAPIError(w, r, http.StatusConflict, "SHIP_IMO_CONFLICT", "imo number already registered")
		default:
			writeAPIError(w, r, http.StatusInternalServerError, "SHIP_INTERNAL", "internal error")
		}
		return
	}
	writeJSON(w, http.StatusCreated, mappers.ShipToViewModel(created))
}

func (c *ShipController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "SHIP_INVALID_ID", "invalid ship id")
		return
	}

	var dto ship.UpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "SHIP_INVALID_JSON", "invalid json")
		return
	}
	if errs, ok := dto.Ok(); !ok {
		writeAPIError(w, r, http.StatusUnprocessableEntity, "SHIP_VALIDATION_FAILED", firstError(errs))
		return
	}

	updated, err := c.ships.Update(r.Context(), id, &dto)
	if err != nil {
		if errors.Is(err, ship.ErrNotFound) {
			writeAPIError(w, r, http.StatusNotFound, "SHIP_NOT_FOUND", "ship not found")
			return
		}
		writeAPIError(w, r, http.StatusInternalServerError, "SHIP_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, mappers.ShipToViewModel(updated))
}

func (c *ShipController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "SHIP_INVALID_ID", "invalid ship id")
		return
	}

	deleted, err := c.ships.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, ship.ErrNotFound) {
			writeAPIError(w, r, http.StatusNotFound, "SHIP_NOT_FOUND", "ship not found")
			return
		}
		writeAPIError(w, r, http.StatusInternalServerError, "SHIP_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, mappers.ShipToViewModel(deleted))
}
