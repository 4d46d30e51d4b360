package document

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/fleetdock/fleetdock/pkg/constants"
)

type CreateDTO struct {
	Kind           Kind              `json:"kind" validate:"required,oneof=certificate audit survey"`
	TargetType     TargetType        `json:"target_type" validate:"required,oneof=ship crew"`
	TargetID       uuid.UUID         `json:"target_id" validate:"required"`
	Title          string            `json:"title" validate:"required"`
	DocumentNumber string            `json:"document_number" validate:"required"`
	Issuer         string            `json:"issuer"`
	IssueDate      *time.Time        `json:"issue_date"`
	ExpiryDate     *time.Time        `json:"expiry_date"`
	Fields         map[string]string `json:"fields"`
}

func (d *CreateDTO) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.DocumentNumber = strings.TrimSpace(d.DocumentNumber)
	d.Issuer = strings.TrimSpace(d.Issuer)
}

func (d *CreateDTO) Ok() (map[string]string, bool) {
	d.Normalize()
	return validateStruct(d)
}

func (d *CreateDTO) ToEntity() Document {
	return New(d.Kind, d.TargetType, d.TargetID, d.Title, d.DocumentNumber, d.Issuer, d.IssueDate, d.ExpiryDate, d.Fields)
}

type UpdateDTO struct {
	Title      string            `json:"title" validate:"required"`
	Issuer     string            `json:"issuer"`
	IssueDate  *time.Time        `json:"issue_date"`
	ExpiryDate *time.Time        `json:"expiry_date"`
	Fields     map[string]string `json:"fields"`
}

func (d *UpdateDTO) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Issuer = strings.TrimSpace(d.Issuer)
}

func (d *UpdateDTO) Ok() (map[string]string, bool) {
	d.Normalize()
	return validateStruct(d)
}

// ToEntity applies the update on top of the current aggregate; kind, target
// and document number are immutable after creation.
func (d *UpdateDTO) ToEntity(current Document) Document {
	fields := d.Fields
	if fields == nil {
		fields = current.ExtractedFields()
	}
	return Hydrate(
		current.ID(),
		current.Kind(),
		current.TargetType(),
		current.TargetID(),
		d.Title,
		current.DocumentNumber(),
		d.Issuer,
		d.IssueDate,
		d.ExpiryDate,
		fields,
		current.DriveFileID(),
		current.WebLink(),
		current.UploadStatus(),
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
