package controllers

import (
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/fleetdock/fleetdock/modules/docs/domain/aggregates/document"
	"github.com/fleetdock/fleetdock/modules/docs/services"
	"github.com/fleetdock/fleetdock/pkg/application"
	"github.com/fleetdock/fleetdock/pkg/batch"
	"github.com/fleetdock/fleetdock/pkg/configuration"
	"github.com/fleetdock/fleetdock/pkg/serrors"
)

type BatchController struct {
	app      application.Application
	batches  *services.BatchService
	basePath string
}

func NewBatchController(app application.Application) application.Controller {
	return &BatchController{
		app:      app,
		batches:  app.Service(services.BatchService{}).(*services.BatchService),
		basePath: "/docs/api/batch",
	}
}

func (c *BatchController) Key() string {
	return c.basePath
}

func (c *BatchController) Register(r *mux.Router) {
	// no WithTransaction here: each unit commits its own transaction so one
	// bad file never rolls back the rest of the batch
	r.HandleFunc(c.basePath, c.Upload).Methods(http.MethodPost)
}

// Upload accepts a multipart form with a "files" field plus kind, target_type
// and target_id, and runs the batch pipeline. The response always carries one
// result per accepted file, in submission order.
func (c *BatchController) Upload(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	maxBody := conf.Batch.MaxUploadSize * int64(conf.Batch.MaxUnits)
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "DOCS_INVALID_MULTIPART", "request is not valid multipart form data")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	targetID, err := uuid.Parse(strings.TrimSpace(r.FormValue("target_id")))
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "DOCS_INVALID_TARGET", "invalid target id")
		return
	}
	req := services.BatchRequest{
		Kind:       document.Kind(strings.TrimSpace(r.FormValue("kind"))),
		TargetType: document.TargetType(strings.TrimSpace(r.FormValue("target_type"))),
		TargetID:   targetID,
	}

	files := r.MultipartForm.File["files"]
	for _, header := range files {
		f, err := header.Open()
		if err != nil {
			writeAPIError(w, r, http.StatusBadRequest, "DOCS_UNREADABLE_FILE", "file "+header.Filename+" could not be read")
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			writeAPIError(w, r, http.StatusBadRequest, "DOCS_UNREADABLE_FILE", "file "+header.Filename+" could not be read")
			return
		}
		req.Units = append(req.Units, batch.Unit{
			ID:   uuid.NewString(),
			Name: header.Filename,
			Size: header.Size,
			Data: data,
		})
	}

	response, err := c.batches.Upload(r.Context(), req)
	if err != nil {
		if svcErr, ok := serrors.AsServiceError(err); ok {
			writeAPIError(w, r, svcErr.Status, svcErr.Code, svcErr.Message)
			return
		}
		writeAPIError(w, r, http.StatusInternalServerError, "DOCS_INTERNAL", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, response)
}
