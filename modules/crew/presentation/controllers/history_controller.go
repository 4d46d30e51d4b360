package controllers

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/fleetdock/fleetdock/modules/crew/domain/aggregates/crewmember"
	"github.com/fleetdock/fleetdock/modules/crew/domain/history"
	"github.com/fleetdock/fleetdock/modules/crew/presentation/viewmodels"
	"github.com/fleetdock/fleetdock/modules/crew/services"
	"github.com/fleetdock/fleetdock/pkg/application"
	"github.com/fleetdock/fleetdock/pkg/configuration"
	"github.com/fleetdock/fleetdock/pkg/excel"
	"github.com/fleetdock/fleetdock/pkg/listview"
)

type HistoryController struct {
	app      application.Application
	history  *services.HistoryService
	basePath string
}

func NewHistoryController(app application.Application) application.Controller {
	return &HistoryController{
		app:      app,
		history:  app.Service(services.HistoryService{}).(*services.HistoryService),
		basePath: "/crew/api/members/{id}/history",
	}
}

func (c *HistoryController) Key() string {
	return c.basePath
}

func (c *HistoryController) Register(r *mux.Router) {
	r.HandleFunc(c.basePath, c.Get).Methods(http.MethodGet)
	r.HandleFunc(c.basePath+"/export.csv", c.ExportCSV).Methods(http.MethodGet)
	r.HandleFunc(c.basePath+"/export.xlsx", c.ExportXLSX).Methods(http.MethodGet)
	r.HandleFunc(c.basePath+"/print", c.Print).Methods(http.MethodGet)
}

func (c *HistoryController) Get(w http.ResponseWriter, r *http.Request) {
	id, query, ok := c.parse(w, r)
	if !ok {
		return
	}

	page, err := c.history.GetHistory(r.Context(), id, query)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	items := make([]viewmodels.AssignmentInterval, 0, len(page.Items))
	for _, iv := range page.Items {
		items = append(items, intervalToViewModel(iv))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items":       items,
		"page":        page.PageNumber,
		"page_size":   page.PageSize,
		"total_items": page.TotalItems,
		"total_pages": page.TotalPages,
	})
}

func (c *HistoryController) ExportCSV(w http.ResponseWriter, r *http.Request) {
	id, query, ok := c.parse(w, r)
	if !ok {
		return
	}

	src, err := c.history.ExportSource(r.Context(), id, query)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	out, err := excel.WriteCSV(src)
	if err != nil {
		writeAPIError(w, r, http.StatusInternalServerError, "HISTORY_EXPORT_FAILED", "export failed")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", attachment(src.Name, "csv"))
	_, _ = w.Write(out)
}

func (c *HistoryController) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	id, query, ok := c.parse(w, r)
	if !ok {
		return
	}

	src, err := c.history.ExportSource(r.Context(), id, query)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	out, err := excel.WriteXLSX(src)
	if err != nil {
		writeAPIError(w, r, http.StatusInternalServerError, "HISTORY_EXPORT_FAILED", "export failed")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", attachment(src.Name, "xlsx"))
	_, _ = w.Write(out)
}

// Print renders the current view as a standalone HTML document for the
// browser's print dialog.
func (c *HistoryController) Print(w http.ResponseWriter, r *http.Request) {
	id, query, ok := c.parse(w, r)
	if !ok {
		return
	}

	src, err := c.history.ExportSource(r.Context(), id, query)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = printTemplate.Execute(w, printData{
		Title:       src.Name,
		Header:      src.Columns,
		Rows:        src.Data,
		GeneratedAt: time.Now().Format("2006-01-02 15:04"),
	})
	if err != nil {
		writeAPIError(w, r, http.StatusInternalServerError, "HISTORY_PRINT_FAILED", "print rendering failed")
	}
}

func (c *HistoryController) parse(w http.ResponseWriter, r *http.Request) (uuid.UUID, services.HistoryQuery, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "CREW_INVALID_ID", "invalid crew member id")
		return uuid.Nil, services.HistoryQuery{}, false
	}

	conf := configuration.Use()
	query := services.HistoryQuery{
		SortBy:   strings.TrimSpace(r.URL.Query().Get("sort")),
		Page:     1,
		PageSize: conf.PageSize,
	}
	if v := strings.TrimSpace(r.URL.Query().Get("kind")); v != "" {
		kind := history.Kind(strings.ToUpper(v))
		switch kind {
		case history.KindAssign, history.KindReassign, history.KindRelease:
			query.Kind = kind
		default:
			writeAPIError(w, r, http.StatusBadRequest, "HISTORY_INVALID_KIND", "kind must be ASSIGN, REASSIGN or RELEASE")
			return uuid.Nil, services.HistoryQuery{}, false
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("dir")); v != "" {
		if v != string(listview.Asc) && v != string(listview.Desc) {
			writeAPIError(w, r, http.StatusBadRequest, "HISTORY_INVALID_DIR", "dir must be asc or desc")
			return uuid.Nil, services.HistoryQuery{}, false
		}
		query.Dir = listview.Direction(v)
	}
	if v := strings.TrimSpace(r.URL.Query().Get("page")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			query.Page = parsed
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("page_size")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= conf.MaxPageSize {
			query.PageSize = parsed
		}
	}
	return id, query, true
}

func (c *HistoryController) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, crewmember.ErrNotFound) {
		writeAPIError(w, r, http.StatusNotFound, "CREW_NOT_FOUND", "crew member not found")
		return
	}
	writeAPIError(w, r, http.StatusInternalServerError, "HISTORY_INTERNAL", "internal error")
}

func intervalToViewModel(iv services.ResolvedInterval) viewmodels.AssignmentInterval {
	return viewmodels.AssignmentInterval{
		ShipID:       iv.Resource,
		ShipName:     iv.ShipName,
		AssignedFrom: iv.AssignedFrom,
		AssignedBy:   iv.AssignedBy,
		ReleasedAt:   iv.ReleasedAt,
		ReleasedBy:   iv.ReleasedBy,
		Source:       string(iv.SourceKind),
	}
}

func attachment(name, ext string) string {
	base := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, name)
	if base == "" {
		base = "history"
	}
	return fmt.Sprintf("attachment; filename=%s-history.%s", base, ext)
}

type printData struct {
	Title       string
	Header      []string
	Rows        [][]string
	GeneratedAt string
}

var printTemplate = template.Must(template.New("history-print").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}} - Assignment History</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
h1 { font-size: 1.2rem; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #888; padding: 4px 8px; text-align: left; font-size: 0.85rem; }
th { background: #eee; }
footer { margin-top: 1rem; font-size: 0.75rem; color: #555; }
@media print { footer { position: fixed; bottom: 0; } }
</style>
</head>
<body>
<h1>Assignment History - {{.Title}}</h1>
<table>
<thead><tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
<footer>Generated {{.GeneratedAt}}</footer>
<script>window.addEventListener("load", function () { window.print(); });</script>
</body>
</html>
`))
