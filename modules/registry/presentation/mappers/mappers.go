package mappers

import (
	"github.com/fleetdock/fleetdock/modules/registry/domain/aggregates/company"
	"github.com/fleetdock/fleetdock/modules/registry/domain/aggregates/ship"
	"github.com/fleetdock/fleetdock/modules/registry/presentation/viewmodels"
)

func CompanyToViewModel(c company.Company) viewmodels.Company {
	return viewmodels.Company{
		ID:             c.ID().String(),
		Name:           c.Name(),
		RegistrationNo: c.RegistrationNo(),
		Country:        c.Country(),
		ContactEmail:   c.ContactEmail(),
		Status:         string(c.Status()),
		CreatedAt:      c.CreatedAt(),
		UpdatedAt:      c.UpdatedAt(),
	}
}

func ShipToViewModel(s ship.Ship) viewmodels.Ship {
	return viewmodels.Ship{
		ID:           s.ID().String(),
		CompanyID:    s.CompanyID().String(),
		Name:         s.Name(),
		IMONumber:    s.IMONumber(),
		Flag:         s.Flag(),
		ShipType:     s.ShipType(),
		GrossTonnage: s.GrossTonnage(),
		Status:       string(s.Status()),
		CreatedAt:    s.CreatedAt(),
		UpdatedAt:    s.UpdatedAt(),
	}
}
