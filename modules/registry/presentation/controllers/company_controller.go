package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/fleetdock/fleetdock/modules/registry/domain/aggregates/company"
	"github.com/fleetdock/fleetdock/modules/registry/presentation/mappers"
	"github.com/fleetdock/fleetdock/modules/registry/presentation/viewmodels"
	"github.com/fleetdock/fleetdock/modules/registry/services"
	"github.com/fleetdock/fleetdock/pkg/application"
	"github.com/fleetdock/fleetdock/pkg/middleware"
)

type CompanyController struct {
	app       application.Application
	companies *services.CompanyService
	basePath  string
}

func NewCompanyController(app application.Application) application.Controller {
	return &CompanyController{
		app:       app,
		companies: app.Service(services.CompanyService{}).(*services.CompanyService),
		basePath:  "/registry/api/companies",
	}
}

func (c *CompanyController) Key() string {
	return c.basePath
}

func (c *CompanyController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.Get).Methods(http.MethodGet)

	writeRouter := r.PathPrefix(c.basePath).Subrouter()
	writeRouter.Use(middleware.WithTransaction())
	writeRouter.HandleFunc("", c.Create).Methods(http.MethodPost)
	writeRouter.HandleFunc("/{id}", c.Update).Methods(http.MethodPut)
	writeRouter.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
}

func (c *CompanyController) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	params := &company.FindParams{
		Q:      strings.TrimSpace(r.URL.Query().Get("q")),
		Status: company.Status(strings.TrimSpace(r.URL.Query().Get("status"))),
		Limit:  limit,
		Offset: offset,
	}

	items, total, err := c.companies.GetPaginated(r.Context(), params)
	if err != nil {
		writeAPIError(w, r, http.StatusInternalServerError, "COMPANY_INTERNAL", "internal error")
		return
	}

	out := make([]viewmodels.Company, 0, len(items))
	for _, item := range items {
		out = append(out, mappers.CompanyToViewModel(item))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": out,
		"total": total,
	})
}

func (c *CompanyController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "COMPANY_INVALID_ID", "invalid company id")
		return
	}

	entity, err := c.companies.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, company.ErrNotFound) {
			writeAPIError(w, r, http.StatusNotFound, "COMPANY_NOT_FOUND", "company not found")
			return
		}
		writeAPIError(w, r, http.StatusInternalServerError, "COMPANY_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, mappers.CompanyToViewModel(entity))
}

func (c *CompanyController) Create(w http.ResponseWriter, r *http.Request) {
	var dto company.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "COMPANY_INVALID_JSON", "invalid json")
		return
	}
	if errs, ok := dto.Ok(); !ok {
		writeAPIError(w, r, http.StatusUnprocessableEntity, "COMPANY_VALIDATION_FAILED", firstError(errs))
		return
	}

	created, err := c.companies.Create(r.Context(), &dto)
	if err != nil {
		if errors.Is(err, company.ErrRegistrationTaken) {
			writeAPIError(w, r, http.StatusConflict, "COMPANY_REGISTRATION_CONFLICT", "registration number already in use")
			return
		}
		writeAPIError(w, r, http.StatusInternalServerError, "COMPANY_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, mappers.CompanyToViewModel(created))
}

func (c *CompanyController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "COMPANY_INVALID_ID", "invalid company id")
		return
	}

	var dto company.UpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "COMPANY_INVALID_JSON", "invalid json")
		return
	}
	if errs, ok := dto.Ok(); !ok {
		writeAPIError(w, r, http.StatusUnprocessableEntity, "COMPANY_VALIDATION_FAILED", firstError(errs))
		return
	}

	updated, err := c.companies.Update(r.Context(), id, &dto)
	if err != nil {
		if errors.Is(err, company.ErrNotFound) {
			writeAPIError(w, r, http.StatusNotFound, "COMPANY_NOT_FOUND", "company not found")
			return
		}
		writeAPIError(w, r, http.StatusInternalServerError, "COMPANY_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, mappers.CompanyToViewModel(updated))
}

func (c *CompanyController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "COMPANY_INVALID_ID", "invalid company id")
		return
	}

	deleted, err := c.companies.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, company.ErrNotFound) {
			writeAPIError(w, r, http.StatusNotFound, "COMPANY_NOT_FOUND", "company not found")
			return
		}
		writeAPIError(w, r, http.StatusInternalServerError, "COMPANY_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, mappers.CompanyToViewModel(deleted))
}

func firstError(errs map[string]string) string {
	for _, v := range errs {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return "validation failed"
}
