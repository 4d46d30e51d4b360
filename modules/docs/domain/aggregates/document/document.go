package document

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindCertificate Kind = "certificate"
	KindAudit       Kind = "audit"
	KindSurvey      Kind = "survey"
)

func ValidKind(k Kind) bool {
	switch k {
	case KindCertificate, KindAudit, KindSurvey:
		return true
	}
	return false
}

// TargetType names what a document belongs to.
type TargetType string

const (
	TargetShip TargetType = "ship"
	TargetCrew TargetType = "crew"
)

func ValidTargetType(t TargetType) bool {
	return t == TargetShip || t == TargetCrew
}

// UploadStatus tracks the background file upload independently of the
// record itself: a document exists as soon as analysis succeeds, its file
// attachment arrives asynchronously.
type UploadStatus string

const (
	UploadPending  UploadStatus = "pending"
	UploadUploaded UploadStatus = "uploaded"
	UploadFailed   UploadStatus = "failed"
)

// Document is one certificate, audit document or survey report attached to a
// ship or crew member.
type Document struct {
	id              uuid.UUID
	kind            Kind
	targetType      TargetType
	targetID        uuid.UUID
	title           string
	documentNumber  string
	issuer          string
	issueDate       *time.Time
	expiryDate      *time.Time
	extractedFields map[string]string
	driveFileID     string
	webLink         string
	uploadStatus    UploadStatus
	createdAt       time.Time
	updatedAt       time.Time
}

func New(
	kind Kind,
	targetType TargetType,
	targetID uuid.UUID,
	title string,
	documentNumber string,
	issuer string,
	issueDate *time.Time,
	expiryDate *time.Time,
	extractedFields map[string]string,
) Document {
	return Document{
		kind:            kind,
		targetType:      targetType,
		targetID:        targetID,
		title:           strings.TrimSpace(title),
		documentNumber:  strings.TrimSpace(documentNumber),
		issuer:          strings.TrimSpace(issuer),
		issueDate:       issueDate,
		expiryDate:      expiryDate,
		extractedFields: extractedFields,
		uploadStatus:    UploadPending,
	}
}

func Hydrate(
	id uuid.UUID,
	kind Kind,
	targetType TargetType,
	targetID uuid.UUID,
	title string,
	documentNumber string,
	issuer string,
	issueDate *time.Time,
	expiryDate *time.Time,
	extractedFields map[string]string,
	driveFileID string,
	webLink string,
	uploadStatus UploadStatus,
	createdAt time.Time,
	updatedAt time.Time,
) Document {
	return Document{
		id:              id,
		kind:            kind,
		targetType:      targetType,
		targetID:        targetID,
		title:           title,
		documentNumber:  documentNumber,
		issuer:          issuer,
		issueDate:       issueDate,
		expiryDate:      expiryDate,
		extractedFields: extractedFields,
		driveFileID:     driveFileID,
		webLink:         webLink,
		uploadStatus:    uploadStatus,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (d Document) ID() uuid.UUID                      { return d.id }
func (d Document) Kind() Kind                         { return d.kind }
func (d Document) TargetType() TargetType             { return d.targetType }
func (d Document) TargetID() uuid.UUID                { return d.targetID }
func (d Document) Title() string                      { return d.title }
func (d Document) DocumentNumber() string             { return d.documentNumber }
func (d Document) Issuer() string                     { return d.issuer }
func (d Document) IssueDate() *time.Time              { return d.issueDate }
func (d Document) ExpiryDate() *time.Time             { return d.expiryDate }
func (d Document) ExtractedFields() map[string]string { return d.extractedFields }
func (d Document) DriveFileID() string                { return d.driveFileID }
func (d Document) WebLink() string                    { return d.webLink }
func (d Document) UploadStatus() UploadStatus         { return d.uploadStatus }
func (d Document) CreatedAt() time.Time               { return d.createdAt }
func (d Document) UpdatedAt() time.Time               { return d.updatedAt }

// Expired reports whether the document's expiry date has passed.
func (d Document) Expired(now time.Time) bool {
	return d.expiryDate != nil && d.expiryDate.Before(now)
}

// ExpiresWithin reports whether the document expires in the given window.
func (d Document) ExpiresWithin(now time.Time, window time.Duration) bool {
	if d.expiryDate == nil {
		return false
	}
	return !d.Expired(now) && d.expiryDate.Before(now.Add(window))
}
