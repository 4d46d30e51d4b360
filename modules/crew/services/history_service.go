package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fleetdock/fleetdock/modules/crew/domain/aggregates/crewmember"
	"github.com/fleetdock/fleetdock/modules/crew/domain/entities/crewevent"
	"github.com/fleetdock/fleetdock/modules/crew/domain/history"
	"github.com/fleetdock/fleetdock/modules/registry/domain/aggregates/ship"
	"github.com/fleetdock/fleetdock/pkg/composables"
	"github.com/fleetdock/fleetdock/pkg/excel"
	"github.com/fleetdock/fleetdock/pkg/listview"
)

// ShipResolver resolves ship ids to registry entries for display. The
// registry module's ship repository satisfies it.
type ShipResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (ship.Ship, error)
}

// ResolvedInterval is a reconstructed interval enriched with the ship's
// registry name. ShipName falls back to the raw id when the ship has been
// removed from the registry.
type ResolvedInterval struct {
	history.Interval
	ShipName string
}

// HistoryQuery is the presentation state for one history view: an action
// kind filter, a sort and a page.
type HistoryQuery struct {
	Kind     history.Kind
	SortBy   string
	Dir      listview.Direction
	Page     int
	PageSize int
}

const (
	SortByAssignedFrom = "assigned_from"
	SortByReleasedAt   = "released_at"
	SortByShipName     = "ship_name"
)

type HistoryService struct {
	events crewevent.Repository
	crew   crewmember.Repository
	ships  ShipResolver
}

func NewHistoryService(events crewevent.Repository, crew crewmember.Repository, ships ShipResolver) *HistoryService {
	return &HistoryService{events: events, crew: crew, ships: ships}
}

// GetHistory replays the member's full event log and returns one page of the
// filtered, sorted projection.
func (s *HistoryService) GetHistory(ctx context.Context, crewID uuid.UUID, q HistoryQuery) (listview.Page[ResolvedInterval], error) {
	resolved, err := s.reconstruct(ctx, crewID)
	if err != nil {
		return listview.Page[ResolvedInterval]{}, err
	}
	return s.view(q).Apply(resolved), nil
}

// GetHistoryAll returns the full filtered and sorted projection, used by the
// export adapters which never paginate.
func (s *HistoryService) GetHistoryAll(ctx context.Context, crewID uuid.UUID, q HistoryQuery) ([]ResolvedInterval, error) {
	resolved, err := s.reconstruct(ctx, crewID)
	if err != nil {
		return nil, err
	}
	return s.view(q).All(resolved), nil
}

// ExportSource renders the current view as a table for the CSV and
// spreadsheet adapters. Column order matches the displayed table.
func (s *HistoryService) ExportSource(ctx context.Context, crewID uuid.UUID, q HistoryQuery) (excel.TableSource, error) {
	member, err := s.crew.GetByID(ctx, crewID)
	if err != nil {
		return excel.TableSource{}, err
	}
	intervals, err := s.GetHistoryAll(ctx, crewID, q)
	if err != nil {
		return excel.TableSource{}, err
	}

	rows := make([][]string, 0, len(intervals))
	for _, iv := range intervals {
		rows = append(rows, []string{
			iv.ShipName,
			formatDate(iv.AssignedFrom),
			iv.AssignedBy,
			formatDate(iv.ReleasedAt),
			iv.ReleasedBy,
			string(iv.SourceKind),
		})
	}

	return excel.TableSource{
		Name:    member.FullName(),
		Columns: []string{"Ship", "Assigned From", "Assigned By", "Released At", "Released By", "Action"},
		Data:    rows,
	}, nil
}

func (s *HistoryService) reconstruct(ctx context.Context, crewID uuid.UUID) ([]ResolvedInterval, error) {
	if _, err := s.crew.GetByID(ctx, crewID); err != nil {
		return nil, err
	}

	records, err := s.events.ListByCrew(ctx, &crewevent.FindParams{CrewID: crewID, Limit: 10000})
	if err != nil {
		return nil, err
	}

	events := make([]history.Event, 0, len(records))
	for _, rec := range records {
		events = append(events, rec.ToHistoryEvent())
	}

	intervals, warnings := history.Reconstruct(events)
	if len(warnings) > 0 {
		log := composables.UseLogger(ctx).WithField("crew_id", crewID.String())
		for _, w := range warnings {
			log.WithField("event_id", w.EventID).Warn(w.Message)
		}
	}

	names := map[string]string{}
	resolved := make([]ResolvedInterval, 0, len(intervals))
	for _, iv := range intervals {
		resolved = append(resolved, ResolvedInterval{
			Interval: iv,
			ShipName: s.shipName(ctx, names, iv.Resource),
		})
	}
	return resolved, nil
}

func (s *HistoryService) shipName(ctx context.Context, cache map[string]string, resource string) string {
	if name, ok := cache[resource]; ok {
		return name
	}
	name := resource
	if id, err := uuid.Parse(resource); err == nil {
		if entity, err := s.ships.GetByID(ctx, id); err == nil {
			name = entity.Name()
		}
	}
	cache[resource] = name
	return name
}

func (s *HistoryService) view(q HistoryQuery) *listview.View[ResolvedInterval] {
	v := listview.NewView[ResolvedInterval](q.PageSize)
	if q.Kind != "" {
		kind := q.Kind
		v.SetFilter(func(iv ResolvedInterval) bool { return iv.SourceKind == kind })
	}

	dir := q.Dir
	if dir == "" {
		dir = listview.Desc
	}
	switch strings.TrimSpace(q.SortBy) {
	case SortByShipName:
		v.SetSort(listview.ByString(func(iv ResolvedInterval) *string { return &iv.ShipName }, dir))
	case SortByReleasedAt:
		v.SetSort(listview.ByTime(func(iv ResolvedInterval) *time.Time { return iv.ReleasedAt }, dir))
	case SortByAssignedFrom:
		v.SetSort(listview.ByTime(func(iv ResolvedInterval) *time.Time { return iv.AssignedFrom }, dir))
	default:
		// reconstruction already orders by AssignedFrom descending
	}
	v.SetPage(q.Page)
	return v
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
