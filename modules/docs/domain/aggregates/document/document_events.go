package document

import (
	"context"
	"time"

	"github.com/fleetdock/fleetdock/pkg/composables"
)

type CreatedEvent struct {
	Actor     string
	Result    Document
	Timestamp time.Time
}

type UpdatedEvent struct {
	Actor     string
	Result    Document
	Timestamp time.Time
}

type DeletedEvent struct {
	Actor     string
	Result    Document
	Timestamp time.Time
}

// UploadedEvent fires when the background file upload settles, successfully
// or not.
type UploadedEvent struct {
	DocumentID string
	Status     UploadStatus
	WebLink    string
	Error      string
	Timestamp  time.Time
}

func NewCreatedEvent(ctx context.Context, result Document) CreatedEvent {
	return CreatedEvent{Actor: composables.UseActor(ctx), Result: result, Timestamp: time.Now()}
}

func NewUpdatedEvent(ctx context.Context, result Document) UpdatedEvent {
	return UpdatedEvent{Actor: composables.UseActor(ctx), Result: result, Timestamp: time.Now()}
}

func NewDeletedEvent(ctx context.Context, result Document) DeletedEvent {
	return DeletedEvent{Actor: composables.UseActor(ctx), Result: result, Timestamp: time.Now()}
}
