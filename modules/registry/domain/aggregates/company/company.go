package company

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Company is a ship-owning or ship-managing organization.
type Company struct {
	id             uuid.UUID
	name           string
	registrationNo string
	country        string
	contactEmail   string
	status         Status
	createdAt      time.Time
	updatedAt      time.Time
}

func New(name, registrationNo, country, contactEmail string) Company {
	return Company{
		name:           strings.TrimSpace(name),
		registrationNo: strings.TrimSpace(registrationNo),
		country:        strings.TrimSpace(country),
		contactEmail:   strings.TrimSpace(contactEmail),
		status:         StatusActive,
	}
}

func Hydrate(
	id uuid.UUID,
	name string,
	registrationNo string,
	country string,
	contactEmail string,
	status Status,
	createdAt time.Time,
	updatedAt time.Time,
) Company {
	return Company{
		id:             id,
		name:           name,
		registrationNo: registrationNo,
		country:        country,
		contactEmail:   contactEmail,
		status:         status,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (c Company) ID() uuid.UUID          { return c.id }
func (c Company) Name() string           { return c.name }
func (c Company) RegistrationNo() string { return c.registrationNo }
func (c Company) Country() string        { return c.country }
func (c Company) ContactEmail() string   { return c.contactEmail }
func (c Company) Status() Status         { return c.status }
func (c Company) CreatedAt() time.Time   { return c.createdAt }
func (c Company) UpdatedAt() time.Time   { return c.updatedAt }
func (c Company) IsZero() bool           { return c.id == uuid.Nil && c.name == "" }

func (c Company) WithStatus(status Status) Company {
	c.status = status
	return c
}
