package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the services.
const (
	TypeDependencyCreated   = "dependency.created"
	TypeDependencyDeleted   = "dependency.deleted"
	TypeModuleStatusChanged = "module.status_changed"
	TypeItemStatusChanged   = "item.status_changed"
	TypeItemProgressChanged = "item.progress_changed"
)

// DomainEvent records something that happened to a user's learning data.
// Services emit it after the owning transaction commits.
type DomainEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants
	Type string `json:"type"`

	// UserID is the owner of the affected data
	UserID uuid.UUID `json:"user_id"`

	// AggregateID is the entity the event is about (item, module or dependency)
	AggregateID uuid.UUID `json:"aggregate_id"`

	// Payload contains the event-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// OccurredAt is the timestamp when the event was created
	OccurredAt time.Time `json:"occurred_at"`
}

// DependencyPayload is carried by dependency.created and dependency.deleted.
type DependencyPayload struct {
	SourceItemID uuid.UUID `json:"source_item_id"`
	TargetItemID uuid.UUID `json:"target_item_id"`
}

// StatusChangedPayload is carried by module.status_changed and item.status_changed.
type StatusChangedPayload struct {
	From string `json:"from"`
	To   string `json:"to"`
	// LearningItemID is the owning item for module events and uuid.Nil otherwise.
	LearningItemID uuid.UUID `json:"learning_item_id"`
}

// ProgressChangedPayload is carried by item.progress_changed.
type ProgressChangedPayload struct {
	From float64 `json:"from"`
	To   float64 `json:"to"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *DomainEvent) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewDomainEvent creates a DomainEvent with the specified type and payload.
func NewDomainEvent(eventType string, userID, aggregateID uuid.UUID, payload any) (*DomainEvent, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &DomainEvent{
		ID:          uuid.New(),
		Type:        eventType,
		UserID:      userID,
		AggregateID: aggregateID,
		Payload:     payloadBytes,
		OccurredAt:  time.Now().UTC(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *DomainEvent) error
}

// HandlerFunc adapts a function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event *DomainEvent) error

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *DomainEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *DomainEvent) error
}
