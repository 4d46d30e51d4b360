package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetdock/fleetdock/modules/crew/domain/aggregates/crewmember"
	"github.com/fleetdock/fleetdock/modules/crew/domain/entities/crewevent"
	"github.com/fleetdock/fleetdock/modules/crew/domain/history"
	"github.com/fleetdock/fleetdock/modules/registry/domain/aggregates/ship"
	"github.com/fleetdock/fleetdock/pkg/composables"
	"github.com/fleetdock/fleetdock/pkg/listview"
)

type stubTx struct{}

func (stubTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (stubTx) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }
func (stubTx) QueryRow(context.Context, string, ...any) pgx.Row        { return nil }

func txContext() context.Context {
	return composables.WithTx(context.Background(), stubTx{})
}

type mockEventRepo struct {
	byCrew map[uuid.UUID][]crewevent.CrewEvent
	seq    int64
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{byCrew: map[uuid.UUID][]crewevent.CrewEvent{}}
}

func (m *mockEventRepo) Append(ctx context.Context, e crewevent.CrewEvent) (crewevent.CrewEvent, error) {
	m.seq++
	e.ID = uuid.New()
	e.Sequence = m.seq
	e.CreatedAt = time.Now()
	m.byCrew[e.CrewID] = append(m.byCrew[e.CrewID], e)
	return e, nil
}

func (m *mockEventRepo) ListByCrew(ctx context.Context, params *crewevent.FindParams) ([]crewevent.CrewEvent, error) {
	return m.byCrew[params.CrewID], nil
}

type mockCrewRepo struct {
	byID map[uuid.UUID]crewmember.CrewMember
}

func newMockCrewRepo() *mockCrewRepo {
	return &mockCrewRepo{byID: map[uuid.UUID]crewmember.CrewMember{}}
}

func (m *mockCrewRepo) add(first, last string) crewmember.CrewMember {
	c := crewmember.Hydrate(uuid.New(), first, last, "Able Seaman", "PH", "P"+uuid.NewString()[:8], crewmember.StatusActive, time.Now(), time.Now())
	m.byID[c.ID()] = c
	return c
}

func (m *mockCrewRepo) GetPaginated(ctx context.Context, params *crewmember.FindParams) ([]crewmember.CrewMember, int64, error) {
	out := make([]crewmember.CrewMember, 0, len(m.byID))
	for _, c := range m.byID {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (m *mockCrewRepo) GetByID(ctx context.Context, id uuid.UUID) (crewmember.CrewMember, error) {
	c, ok := m.byID[id]
	if !ok {
		return crewmember.CrewMember{}, crewmember.ErrNotFound
	}
	return c, nil
}

func (m *mockCrewRepo) Create(ctx context.Context, c crewmember.CrewMember) (crewmember.CrewMember, error) {
	created := crewmember.Hydrate(uuid.New(), c.FirstName(), c.LastName(), c.Rank(), c.Nationality(), c.PassportNo(), c.Status(), time.Now(), time.Now())
	m.byID[created.ID()] = created
	return created, nil
}

func (m *mockCrewRepo) Update(ctx context.Context, c crewmember.CrewMember) (crewmember.CrewMember, error) {
	if _, ok := m.byID[c.ID()]; !ok {
		return crewmember.CrewMember{}, crewmember.ErrNotFound
	}
	m.byID[c.ID()] = c
	return c, nil
}

func (m *mockCrewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.byID[id]; !ok {
		return crewmember.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type mockShipResolver struct {
	names map[uuid.UUID]string
}

func (m *mockShipResolver) GetByID(ctx context.Context, id uuid.UUID) (ship.Ship, error) {
	name, ok := m.names[id]
	if !ok {
		return ship.Ship{}, ship.ErrNotFound
	}
	return ship.Hydrate(id, uuid.New(), name, "9074729", "NO", "bulk carrier", 0, ship.StatusInService, time.Now(), time.Now()), nil
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func seedHistory(t *testing.T) (*HistoryService, uuid.UUID, uuid.UUID, uuid.UUID) {
	t.Helper()

	crew := newMockCrewRepo()
	member := crew.add("Ada", "Nowak")
	events := newMockEventRepo()

	shipA, shipB := uuid.New(), uuid.New()
	resolver := &mockShipResolver{names: map[uuid.UUID]string{
		shipA: "MV Aurora",
		shipB: "MV Borealis",
	}}

	ctx := txContext()
	_, err := events.Append(ctx, crewevent.CrewEvent{
		CrewID: member.ID(), Kind: history.KindAssign, ToShipID: shipA, OccurredAt: date("2024-01-01"),
	})
	require.NoError(t, err)
	_, err = events.Append(ctx, crewevent.CrewEvent{
		CrewID: member.ID(), Kind: history.KindReassign, FromShipID: shipA, ToShipID: shipB, OccurredAt: date("2024-06-01"),
	})
	require.NoError(t, err)

	return NewHistoryService(events, crew, resolver), member.ID(), shipA, shipB
}

func TestHistoryService_GetHistory(t *testing.T) {
	svc, crewID, _, shipB := seedHistory(t)

	page, err := svc.GetHistory(txContext(), crewID, HistoryQuery{PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)

	// most recent first; names resolved from the registry
	assert.Equal(t, shipB.String(), page.Items[0].Resource)
	assert.Equal(t, "MV Borealis", page.Items[0].ShipName)
	assert.True(t, page.Items[0].Open())
	assert.Equal(t, "MV Aurora", page.Items[1].ShipName)
	assert.Equal(t, date("2024-06-01"), *page.Items[1].ReleasedAt)
}

func TestHistoryService_FilterByKind(t *testing.T) {
	svc, crewID, _, _ := seedHistory(t)

	page, err := svc.GetHistory(txContext(), crewID, HistoryQuery{Kind: history.KindReassign, PageSize: 10})
	require.NoError(t, err)
	// the reassign touched both intervals
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.TotalItems)
}

func TestHistoryService_SortByShipName(t *testing.T) {
	svc, crewID, _, _ := seedHistory(t)

	page, err := svc.GetHistory(txContext(), crewID, HistoryQuery{
		SortBy: SortByShipName, Dir: listview.Asc, PageSize: 10,
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "MV Aurora", page.Items[0].ShipName)
	assert.Equal(t, "MV Borealis", page.Items[1].ShipName)
}

func TestHistoryService_UnknownShipFallsBackToID(t *testing.T) {
	crew := newMockCrewRepo()
	member := crew.add("Ada", "Nowak")
	events := newMockEventRepo()
	ghost := uuid.New()

	_, err := events.Append(txContext(), crewevent.CrewEvent{
		CrewID: member.ID(), Kind: history.KindAssign, ToShipID: ghost, OccurredAt: date("2024-01-01"),
	})
	require.NoError(t, err)

	svc := NewHistoryService(events, crew, &mockShipResolver{names: map[uuid.UUID]string{}})
	page, err := svc.GetHistory(txContext(), member.ID(), HistoryQuery{PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, ghost.String(), page.Items[0].ShipName)
}

func TestHistoryService_UnknownCrewMember(t *testing.T) {
	svc := NewHistoryService(newMockEventRepo(), newMockCrewRepo(), &mockShipResolver{})
	_, err := svc.GetHistory(txContext(), uuid.New(), HistoryQuery{})
	require.ErrorIs(t, err, crewmember.ErrNotFound)
}

func TestHistoryService_ExportSource(t *testing.T) {
	svc, crewID, _, _ := seedHistory(t)

	src, err := svc.ExportSource(txContext(), crewID, HistoryQuery{})
	require.NoError(t, err)
	assert.Equal(t, "Ada Nowak", src.SheetName())
	assert.Equal(t, []string{"Ship", "Assigned From", "Assigned By", "Released At", "Released By", "Action"}, src.Header())
	require.Len(t, src.Rows(), 2)
	assert.Equal(t, "MV Borealis", src.Rows()[0][0])
	assert.Equal(t, "2024-06-01", src.Rows()[0][1])
	assert.Equal(t, "", src.Rows()[0][3], "open interval has no release date")
	assert.Equal(t, "2024-06-01", src.Rows()[1][3])
}

func TestCrewEventService_AppendValidates(t *testing.T) {
	crew := newMockCrewRepo()
	member := crew.add("Ada", "Nowak")
	svc := NewCrewEventService(newMockEventRepo(), crew)

	// assign without a target ship is rejected
	_, err := svc.Append(txContext(), member.ID(), &crewevent.CreateDTO{
		Kind:       string(history.KindAssign),
		OccurredAt: date("2024-01-01"),
	})
	require.ErrorIs(t, err, crewevent.ErrMalformed)

	to := uuid.New()
	created, err := svc.Append(txContext(), member.ID(), &crewevent.CreateDTO{
		Kind:       string(history.KindAssign),
		ToShipID:   &to,
		OccurredAt: date("2024-01-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.Sequence)
}
