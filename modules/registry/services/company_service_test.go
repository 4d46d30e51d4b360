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

	"github.com/fleetdock/fleetdock/modules/registry/domain/aggregates/company"
	"github.com/fleetdock/fleetdock/pkg/composables"
)

// stubTx satisfies the repository transaction surface; mock repositories
// never touch it.
type stubTx struct{}

func (stubTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (stubTx) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }
func (stubTx) QueryRow(context.Context, string, ...any) pgx.Row        { return nil }

func txContext() context.Context {
	return composables.WithTx(context.Background(), stubTx{})
}

type stubPublisher struct {
	published []interface{}
}

func (p *stubPublisher) Publish(args ...interface{})     { p.published = append(p.published, args...) }
func (p *stubPublisher) Subscribe(handler interface{})   {}
func (p *stubPublisher) Unsubscribe(handler interface{}) {}
func (p *stubPublisher) Clear()                          {}
func (p *stubPublisher) SubscribersCount() int           { return 0 }

type mockCompanyRepo struct {
	byID map[uuid.UUID]company.Company
}

func newMockCompanyRepo() *mockCompanyRepo {
	return &mockCompanyRepo{byID: map[uuid.UUID]company.Company{}}
}

func (m *mockCompanyRepo) GetPaginated(ctx context.Context, params *company.FindParams) ([]company.Company, int64, error) {
	out := make([]company.Company, 0, len(m.byID))
	for _, c := range m.byID {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (m *mockCompanyRepo) GetByID(ctx context.Context, id uuid.UUID) (company.Company, error) {
	c, ok := m.byID[id]
	if !ok {
		return company.Company{}, company.ErrNotFound
	}
	return c, nil
}

func (m *mockCompanyRepo) Create(ctx context.Context, c company.Company) (company.Company, error) {
	created := company.Hydrate(
		uuid.New(), c.Name(), c.RegistrationNo(), c.Country(), c.ContactEmail(),
		c.Status(), time.Now(), time.Now(),
	)
	m.byID[created.ID()] = created
	return created, nil
}

func (m *mockCompanyRepo) Update(ctx context.Context, c company.Company) (company.Company, error) {
	if _, ok := m.byID[c.ID()]; !ok {
		return company.Company{}, company.ErrNotFound
	}
	m.byID[c.ID()] = c
	return c, nil
}

func (m *mockCompanyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.byID[id]; !ok {
		return company.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func TestCompanyService_CreatePublishesEvent(t *testing.T) {
	repo := newMockCompanyRepo()
	publisher := &stubPublisher{}
	svc := NewCompanyService(repo, publisher)

	created, err := svc.Create(txContext(), &company.CreateDTO{
		Name:           "Nordlys Shipping",
		RegistrationNo: "NO-993-221",
		Country:        "no",
		ContactEmail:   "ops@nordlys.example",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID())
	assert.Equal(t, "NO", created.Country())
	assert.Equal(t, company.StatusActive, created.Status())

	require.Len(t, publisher.published, 1)
	ev, ok := publisher.published[0].(company.CreatedEvent)
	require.True(t, ok)
	assert.Equal(t, created.ID(), ev.Result.ID())
}

func TestCompanyService_UpdatePreservesRegistrationNo(t *testing.T) {
	repo := newMockCompanyRepo()
	svc := NewCompanyService(repo, &stubPublisher{})

	created, err := svc.Create(txContext(), &company.CreateDTO{
		Name:           "Nordlys Shipping",
		RegistrationNo: "NO-993-221",
		Country:        "NO",
	})
	require.NoError(t, err)

	updated, err := svc.Update(txContext(), created.ID(), &company.UpdateDTO{
		Name:    "Nordlys Maritime",
		Country: "NO",
		Status:  company.StatusInactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Nordlys Maritime", updated.Name())
	assert.Equal(t, "NO-993-221", updated.RegistrationNo())
	assert.Equal(t, company.StatusInactive, updated.Status())
}

func TestCompanyService_DeleteMissing(t *testing.T) {
	svc := NewCompanyService(newMockCompanyRepo(), &stubPublisher{})

	_, err := svc.Delete(txContext(), uuid.New())
	require.ErrorIs(t, err, company.ErrNotFound)
}

func TestCompanyDTOValidation(t *testing.T) {
	dto := &company.CreateDTO{Name: "X", RegistrationNo: "1", Country: "NOR"}
	errs, ok := dto.Ok()
	require.False(t, ok)
	assert.Contains(t, errs, "Country")
}
