package viewmodels

import "time"

type Document struct {
	ID              string            `json:"id"`
	Kind            string            `json:"kind"`
	TargetType      string            `json:"target_type"`
	TargetID        string            `json:"target_id"`
	Title           string            `json:"title"`
	DocumentNumber  string            `json:"document_number"`
	Issuer          string            `json:"issuer"`
	IssueDate       *time.Time        `json:"issue_date"`
	ExpiryDate      *time.Time        `json:"expiry_date"`
	ExtractedFields map[string]string `json:"extracted_fields"`
	WebLink         string            `json:"web_link,omitempty"`
	UploadStatus    string            `json:"upload_status"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}
