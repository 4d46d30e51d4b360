package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/fleetdock/fleetdock/modules/crew/domain/aggregates/crewmember"
	"github.com/fleetdock/fleetdock/modules/crew/domain/entities/crewevent"
	"github.com/fleetdock/fleetdock/modules/crew/presentation/mappers"
	"github.com/fleetdock/fleetdock/modules/crew/presentation/viewmodels"
	"github.com/fleetdock/fleetdock/modules/crew/services"
	"github.com/fleetdock/fleetdock/pkg/application"
	"github.com/fleetdock/fleetdock/pkg/middleware"
)

type CrewMemberController struct {
	app      application.Application
	members  *services.CrewMemberService
	events   *services.CrewEventService
	basePath string
}

func NewCrewMemberController(app application.Application) application.Controller {
	return &CrewMemberController{
		app:      app,
		members:  app.Service(services.CrewMemberService{}).(*services.CrewMemberService),
		events:   app.Service(services.CrewEventService{}).(*services.CrewEventService),
		basePath: "/crew/api/members",
	}
}

func (c *CrewMemberController) Key() string {
	return c.basePath
}

func (c *CrewMemberController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/{id}/events", c.ListEvents).Methods(http.MethodGet)

	writeRouter := r.PathPrefix(c.basePath).Subrouter()
	writeRouter.Use(middleware.WithTransaction())
	writeRouter.HandleFunc("", c.Create).Methods(http.MethodPost)
	writeRouter.HandleFunc("/{id}", c.Update).Methods(http.MethodPut)
	writeRouter.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
	writeRouter.HandleFunc("/{id}/events", c.AppendEvent).Methods(http.MethodPost)
}

func (c *CrewMemberController) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	params := &crewmember.FindParams{
		Q:      strings.TrimSpace(r.URL.Query().Get("q")),
		Rank:   strings.TrimSpace(r.URL.Query().Get("rank")),
		Status: crewmember.Status(strings.TrimSpace(r.URL.Query().Get("status"))),
		Limit:  limit,
		Offset: offset,
	}

	items, total, err := c.members.GetPaginated(r.Context(), params)
	if err != nil {
		writeAPIError(w, r, http.StatusInternalServerError, "CREW_INTERNAL", "internal error")
		return
	}

	out := make([]viewmodels.CrewMember, 0, len(items))
	for _, item := range items {
		out = append(out, mappers.CrewMemberToViewModel(item))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": out,
		"total": total,
	})
}

func (c *CrewMemberController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "CREW_INVALID_ID", "invalid crew member id")
		return
	}

	entity, err := c.members.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, crewmember.ErrNotFound) {
			writeAPIError(w, r, http.StatusNotFound, "CREW_NOT_FOUND", "crew member not found")
			return
		}
		writeAPIError(w, r, http.StatusInternalServerError, "CREW_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, mappers.CrewMemberToViewModel(entity))
}

func (c *CrewMemberController) Create(w http.ResponseWriter, r *http.Request) {
	var dto crewmember.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "CREW_INVALID_JSON", "invalid json")
		return
	}
	if errs, ok := dto.Ok(); !ok {
		writeAPIError(w, r, http.StatusUnprocessableEntity, "CREW_VALIDATION_FAILED", firstError(errs))
		return
	}

	created, err := c.members.Create(r.Context(), &dto)
	if err != nil {
		if errors.Is(err, crewmember.ErrPassportTaken) {
			writeAPIError(w, r, http.StatusConflict, "CREW_PASSPORT_CONFLICT", "passport number already registered")
			return
		}
		writeAPIError(w, r, http.StatusInternalServerError, "CREW_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, mappers.CrewMemberToViewModel(created))
}

func (c *CrewMemberController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "CREW_INVALID_ID", "invalid crew member id")
		return
	}

	var dto crewmember.UpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "CREW_INVALID_JSON", "invalid json")
		return
	}
	if errs, ok := dto.Ok(); !ok {
		writeAPIError(w, r, http.StatusUnprocessableEntity, "CREW_VALIDATION_FAILED", firstError(errs))
		return
	}

	updated, err := c.members.Update(r.Context(), id, &dto)
	if err != nil {
		if errors.Is(err, crewmember.ErrNotFound) {
			writeAPIError(w, r, http.StatusNotFound, "CREW_NOT_FOUND", "crew member not found")
			return
		}
		writeAPIError(w, r, http.StatusInternalServerError, "CREW_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, mappers.CrewMemberToViewModel(updated))
}

func (c *CrewMemberController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "CREW_INVALID_ID", "invalid crew member id")
		return
	}

	deleted, err := c.members.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, crewmember.ErrNotFound) {
			writeAPIError(w, r, http.StatusNotFound, "CREW_NOT_FOUND", "crew member not found")
			return
		}
		writeAPIError(w, r, http.StatusInternalServerError, "CREW_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, mappers.CrewMemberToViewModel(deleted))
}

func (c *CrewMemberController) ListEvents(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "CREW_INVALID_ID", "invalid crew member id")
		return
	}

	limit, offset := pageParams(r)
	records, err := c.events.ListByCrew(r.Context(), id, limit, offset)
	if err != nil {
		if errors.Is(err, crewmember.ErrNotFound) {
			writeAPIError(w, r, http.StatusNotFound, "CREW_NOT_FOUND", "crew member not found")
			return
		}
		writeAPIError(w, r, http.StatusInternalServerError, "CREW_INTERNAL", "internal error")
		return
	}

	out := make([]viewmodels.CrewEvent, 0, len(records))
	for _, rec := range records {
		out = append(out, mappers.CrewEventToViewModel(rec))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (c *CrewMemberController) AppendEvent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "CREW_INVALID_ID", "invalid crew member id")
		return
	}

	var dto crewevent.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "CREW_INVALID_JSON", "invalid json")
		return
	}

	created, err := c.events.Append(r.Context(), id, &dto)
	if err != nil {
		switch {
		case errors.Is(err, crewmember.ErrNotFound):
			writeAPIError(w, r, http.StatusNotFound, "CREW_NOT_FOUND", "crew member not found")
		case errors.Is(err, crewevent.ErrMalformed):
			writeAPIError(w, r, http.StatusUnprocessableEntity, "CREW_EVENT_MALFORMED", err.Error())
		default:
			writeAPIError(w, r, http.StatusInternalServerError, "CREW_INTERNAL", "internal error")
		}
		return
	}
	writeJSON(w, http.StatusCreated, mappers.CrewEventToViewModel(created))
}
