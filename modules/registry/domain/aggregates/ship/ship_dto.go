package ship

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/fleetdock/fleetdock/pkg/constants"
)

type CreateDTO struct {
	CompanyID    uuid.UUID `json:"company_id" validate:"required"`
	Name         string    `json:"name" validate:"required"`
	IMONumber    string    `json:"imo_number" validate:"required,len=7,numeric"`
	Flag         string    `json:"flag" validate:"required,len=2"`
	ShipType     string    `json:"ship_type" validate:"required"`
	GrossTonnage int64     `json:"gross_tonnage" validate:"gte=0"`
}

func (d *CreateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.IMONumber = strings.TrimSpace(d.IMONumber)
	d.Flag = strings.ToUpper(strings.TrimSpace(d.Flag))
	d.ShipType = strings.TrimSpace(d.ShipType)
}

func (d *CreateDTO) Ok() (map[string]string, bool) {
	d.Normalize()
	return validateStruct(d)
}

func (d *CreateDTO) ToEntity() Ship {
	return New(d.CompanyID, d.Name, d.IMONumber, d.Flag, d.ShipType, d.GrossTonnage)
}

type UpdateDTO struct {
	Name         string `json:"name" validate:"required"`
	Flag         string `json:"flag" validate:"required,len=2"`
	ShipType     string `json:"ship_type" validate:"required"`
	GrossTonnage int64  `json:"gross_tonnage" validate:"gte=0"`
	Status       Status `json:"status" validate:"required,oneof=in_service laid_up decommissioned"`
}

func (d *UpdateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Flag = strings.ToUpper(strings.TrimSpace(d.Flag))
	d.ShipType = strings.TrimSpace(d.ShipType)
}

func (d *UpdateDTO) Ok() (map[string]string, bool) {
	d.Normalize()
	return validateStruct(d)
}

// ToEntity applies the update on top of the current aggregate; company and
// IMO number are immutable after registration.
func (d *UpdateDTO) ToEntity(current Ship) Ship {
	return Hydrate(
		current.ID(),
		current.CompanyID(),
		d.Name,
		current.IMONumber(),
		d.Flag,
		d.ShipType,
		d.GrossTonnage,
		d.Status,
		current.CreatedAt(),
		current.UpdatedAt(),
	)
}

func validateStruct(v any) (map[string]string, bool) {
	err := constants.Validate.Struct(v)
	if err == nil {
		return map[string]string{}, true
	}
	out := map[string]string{}
	for _, fe := range err.(validator.ValidationErrors) {
		out[fe.Field()] = fmt.Sprintf("%s failed on %q", fe.Field(), fe.Tag())
	}
	return out, false
}
