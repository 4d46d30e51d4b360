package ship

import (
	"context"
	"time"

	"github.com/fleetdock/fleetdock/pkg/composables"
)

type CreatedEvent struct {
	Actor     string
	Result    Ship
	Timestamp time.Time
}

type UpdatedEvent struct {
	Actor     string
	Result    Ship
	Timestamp time.Time
}

type DeletedEvent struct {
	Actor     string
	Result    Ship
	Timestamp time.Time
}

func NewCreatedEvent(ctx context.Context, result Ship) CreatedEvent {
	return CreatedEvent{Actor: composables.UseActor(ctx), Result: result, Timestamp: time.Now()}
}

func NewUpdatedEvent(ctx context.Context, result Ship) UpdatedEvent {
	return UpdatedEvent{Actor: composables.UseActor(ctx), Result: result, Timestamp: time.Now()}
}

func NewDeletedEvent(ctx context.Context, result Ship) DeletedEvent {
	return DeletedEvent{Actor: composables.UseActor(ctx), Result: result, Timestamp: time.Now()}
}
