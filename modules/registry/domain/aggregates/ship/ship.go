package ship

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusInService      Status = "in_service"
	StatusLaidUp         Status = "laid_up"
	StatusDecommissioned Status = "decommissioned"
)

// Ship is a registered vessel operated by a company.
type Ship struct {
	id           uuid.UUID
	companyID    uuid.UUID
	name         string
	imoNumber    string
	flag         string
	shipType     string
	grossTonnage int64
	status       Status
	createdAt    time.Time
	updatedAt    time.Time
}

func New(companyID uuid.UUID, name, imoNumber, flag, shipType string, grossTonnage int64) Ship {
	return Ship{
		companyID:    companyID,
		name:         strings.TrimSpace(name),
		imoNumber:    strings.TrimSpace(imoNumber),
		flag:         strings.ToUpper(strings.TrimSpace(flag)),
		shipType:     strings.TrimSpace(shipType),
		grossTonnage: grossTonnage,
		status:       StatusInService,
	}
}

func Hydrate(
	id uuid.UUID,
	companyID uuid.UUID,
	name string,
	imoNumber string,
	flag string,
	shipType string,
	grossTonnage int64,
	status Status,
	createdAt time.Time,
	updatedAt time.Time,
) Ship {
	return Ship{
		id:           id,
		companyID:    companyID,
		name:         name,
		imoNumber:    imoNumber,
		flag:         flag,
		shipType:     shipType,
		grossTonnage: grossTonnage,
		status:       status,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (s Ship) ID() uuid.UUID        { return s.id }
func (s Ship) CompanyID() uuid.UUID { return s.companyID }
func (s Ship) Name() string         { return s.name }
func (s Ship) IMONumber() string    { return s.imoNumber }
func (s Ship) Flag() string         { return s.flag }
func (s Ship) ShipType() string     { return s.shipType }
func (s Ship) GrossTonnage() int64  { return s.grossTonnage }
func (s Ship) Status() Status       { return s.status }
func (s Ship) CreatedAt() time.Time { return s.createdAt }
func (s Ship) UpdatedAt() time.Time { return s.updatedAt }
func (s Ship) IsZero() bool         { return s.id == uuid.Nil && s.imoNumber == "" }
