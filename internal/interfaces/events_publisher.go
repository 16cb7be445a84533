package interfaces

import "context"

// EventPublisher emits reconciliation events to interested collaborators.
type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}
