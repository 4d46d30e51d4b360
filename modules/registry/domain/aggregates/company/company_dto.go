package company

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fleetdock/fleetdock/pkg/constants"
)

type CreateDTO struct {
	Name           string `json:"name" validate:"required"`
	RegistrationNo string `json:"registration_no" validate:"required"`
	Country        string `json:"country" validate:"required,len=2"`
	ContactEmail   string `json:"contact_email" validate:"omitempty,email"`
}

func (d *CreateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.RegistrationNo = strings.TrimSpace(d.RegistrationNo)
	d.Country = strings.ToUpper(strings.TrimSpace(d.Country))
	d.ContactEmail = strings.TrimSpace(d.ContactEmail)
}

func (d *CreateDTO) Ok() (map[string]string, bool) {
	d.Normalize()
	return validateStruct(d)
}

func (d *CreateDTO) ToEntity() Company {
	return New(d.Name, d.RegistrationNo, d.Country, d.ContactEmail)
}

type UpdateDTO struct {
	Name         string `json:"name" validate:"required"`
	Country      string `json:"country" validate:"required,len=2"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	Status       Status `json:"status" validate:"required,oneof=active inactive"`
}

func (d *UpdateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Country = strings.ToUpper(strings.TrimSpace(d.Country))
	d.ContactEmail = strings.TrimSpace(d.ContactEmail)
}

func (d *UpdateDTO) Ok() (map[string]string, bool) {
	d.Normalize()
	return validateStruct(d)
}

// ToEntity applies the update on top of the current aggregate, preserving the
// immutable registration number.
func (d *UpdateDTO) ToEntity(current Company) Company {
	return Hydrate(
		current.ID(),
		d.Name,
		current.RegistrationNo(),
		d.Country,
		d.ContactEmail,
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
