// Package upload defines the boundaries the batch pipeline depends on:
// document analysis and file storage. Implementations live under
// infrastructure.
package upload

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

var ErrAnalysisFailed = errors.New("document analysis failed")
var ErrStorageFailed = errors.New("file storage failed")

// Analysis is what the analyzer extracts from one uploaded file.
type Analysis struct {
	Title          string
	DocumentNumber string
	Issuer         string
	IssueDate      *time.Time
	ExpiryDate     *time.Time
	Fields         map[string]string
}

// Analyzer extracts structured metadata from a raw document file.
type Analyzer interface {
	Analyze(ctx context.Context, filename string, data []byte) (Analysis, error)
}

// StoredFile identifies a file placed in remote storage.
type StoredFile struct {
	FileID  string
	WebLink string
}

// Storage persists raw document files outside the database.
type Storage interface {
	Save(ctx context.Context, filename string, contentType string, data []byte) (StoredFile, error)
	Delete(ctx context.Context, fileID string) error
}
