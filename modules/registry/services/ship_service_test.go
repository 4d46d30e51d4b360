package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetdock/fleetdock/modules/registry/domain/aggregates/company"
	"github.com/fleetdock/fleetdock/modules/registry/domain/aggregates/ship"
)

type mockShipRepo struct {
	byID map[uuid.UUID]ship.Ship
}

func newMockShipRepo() *mockShipRepo {
	return &mockShipRepo{byID: map[uuid.UUID]ship.Ship{}}
}

func (m *mockShipRepo) GetPaginated(ctx context.Context, params *ship.FindParams) ([]ship.Ship, int64, error) {
	out := make([]ship.Ship, 0, len(m.byID))
	for _, s := range m.byID {
		if params != nil && params.CompanyID != uuid.Nil && s.CompanyID() != params.CompanyID {
			continue
		}
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (m *mockShipRepo) GetByID(ctx context.Context, id uuid.UUID) (ship.Ship, error) {
	s, ok := m.byID[id]
	if !ok {
		return ship.Ship{}, ship.ErrNotFound
	}
	return s, nil
}

func (m *mockShipRepo) Create(ctx context.Context, s ship.Ship) (ship.Ship, error) {
	created := ship.Hydrate(
		uuid.New(), s.CompanyID(), s.Name(), s.IMONumber(), s.Flag(), s.ShipType(),
		s.GrossTonnage(), s.Status(), time.Now(), time.Now(),
	)
	m.byID[created.ID()] = created
	return created, nil
}

func (m *mockShipRepo) Update(ctx context.Context, s ship.Ship) (ship.Ship, error) {
	if _, ok := m.byID[s.ID()]; !ok {
		return ship.Ship{}, ship.ErrNotFound
	}
	m.byID[s.ID()] = s
	return s, nil
}

func (m *mockShipRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.byID[id]; !ok {
		return ship.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func TestShipService_CreateRequiresKnownCompany(t *testing.T) {
	companies := newMockCompanyRepo()
	svc := NewShipService(newMockShipRepo(), companies, &stubPublisher{})

	_, err := svc.Create(txContext(), &ship.CreateDTO{
		CompanyID: uuid.New(),
		Name:      "MV Aurora",
		IMONumber: "9074729",
		Flag:      "NO",
		ShipType:  "bulk carrier",
	})
	require.ErrorIs(t, err, company.ErrNotFound)
}

func TestShipService_Create(t *testing.T) {
	companies := newMockCompanyRepo()
	owner, err := companies.Create(txContext(), company.New("Nordlys Shipping", "NO-993-221", "NO", ""))
	require.NoError(t, err)

	publisher := &stubPublisher{}
	svc := NewShipService(newMockShipRepo(), companies, publisher)

	created, err := svc.Create(txContext(), &ship.CreateDTO{
		CompanyID:    owner.ID(),
		Name:         "MV Aurora",
		IMONumber:    "9074729",
		Flag:         "no",
		ShipType:     "bulk carrier",
		GrossTonnage: 32000,
	})
	require.NoError(t, err)
	assert.Equal(t, "NO", created.Flag())
	assert.Equal(t, ship.StatusInService, created.Status())
	require.Len(t, publisher.published, 1)
}
