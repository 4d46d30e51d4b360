package crewmember

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fleetdock/fleetdock/pkg/constants"
)

type CreateDTO struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Rank        string `json:"rank" validate:"required"`
	Nationality string `json:"nationality" validate:"required,len=2"`
	PassportNo  string `json:"passport_no" validate:"required"`
}

func (d *CreateDTO) Normalize() {
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.Rank = strings.TrimSpace(d.Rank)
	d.Nationality = strings.ToUpper(strings.TrimSpace(d.Nationality))
	d.PassportNo = strings.TrimSpace(d.PassportNo)
}

func (d *CreateDTO) Ok() (map[string]string, bool) {
	d.Normalize()
	return validateStruct(d)
}

func (d *CreateDTO) ToEntity() CrewMember {
	return New(d.FirstName, d.LastName, d.Rank, d.Nationality, d.PassportNo)
}

type UpdateDTO struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Rank        string `json:"rank" validate:"required"`
	Nationality string `json:"nationality" validate:"required,len=2"`
	Status      Status `json:"status" validate:"required,oneof=active inactive"`
}

func (d *UpdateDTO) Normalize() {
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.Rank = strings.TrimSpace(d.Rank)
	d.Nationality = strings.ToUpper(strings.TrimSpace(d.Nationality))
}

func (d *UpdateDTO) Ok() (map[string]string, bool) {
	d.Normalize()
	return validateStruct(d)
}

// ToEntity applies the update; the passport number is immutable.
func (d *UpdateDTO) ToEntity(current CrewMember) CrewMember {
	return Hydrate(
		current.ID(),
		d.FirstName,
		d.LastName,
		d.Rank,
		d.Nationality,
		current.PassportNo(),
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
