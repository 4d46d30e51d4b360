package mappers

import (
	"github.com/fleetdock/fleetdock/modules/docs/domain/aggregates/document"
	"github.com/fleetdock/fleetdock/modules/docs/presentation/viewmodels"
)

func DocumentToViewModel(d document.Document) viewmodels.Document {
	return viewmodels.Document{
		ID:              d.ID().String(),
		Kind:            string(d.Kind()),
		TargetType:      string(d.TargetType()),
		TargetID:        d.TargetID().String(),
		Title:           d.Title(),
		DocumentNumber:  d.DocumentNumber(),
		Issuer:          d.Issuer(),
		IssueDate:       d.IssueDate(),
		ExpiryDate:      d.ExpiryDate(),
		ExtractedFields: d.ExtractedFields(),
		WebLink:         d.WebLink(),
		UploadStatus:    string(d.UploadStatus()),
		CreatedAt:       d.CreatedAt(),
		UpdatedAt:       d.UpdatedAt(),
	}
}
