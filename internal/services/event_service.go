package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/hrdesk-be/internal/auth"
	"github.com/isdelr/hrdesk-be/internal/models"
	"github.com/rs/zerolog/log"
)

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	CreateEvent(ctx context.Context, eventType, level, actor, message string) error
	GetRecentEvents(ctx context.Context, limit int) ([]models.Event, error)
}

// Broadcaster fans a serialized message out to live subscribers.
type Broadcaster interface {
	Publish(message []byte)
}

// EventMessage is the envelope pushed to subscribers for each new event.
type EventMessage struct {
	Action  string       `json:"action"`
	Payload models.Event `json:"payload"`
}

// EventService provides business logic for event management.
type EventService struct {
	db          *sql.DB
	broadcaster Broadcaster
}

// NewEventService creates a new EventService. broadcaster may be nil.
func NewEventService(db *sql.DB, broadcaster Broadcaster) *EventService {
	return &EventService{db: db, broadcaster: broadcaster}
}

// CreateEvent stores a new event and pushes it to subscribers.
func (s *EventService) CreateEvent(ctx context.Context, eventType, level, actor, message string) error {
	event := models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Level:     level,
		Actor:     actor,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (id, type, level, actor, message, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		event.ID, event.Type, event.Level, event.Actor, event.Message, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store event: %w", err)
	}

	if s.broadcaster != nil {
		data, err := json.Marshal(EventMessage{Action: "event", Payload: event})
		if err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
		s.broadcaster.Publish(data)
	}
	return nil
}

// GetRecentEvents retrieves the most recent events from the database.
func (s *EventService) GetRecentEvents(ctx context.Context, limit int) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, type, level, actor, message, created_at FROM events ORDER BY created_at DESC, rowid DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var event models.Event
		var actor sql.NullString
		if err := rows.Scan(&event.ID, &event.Type, &event.Level, &actor, &event.Message, &event.CreatedAt); err != nil {
			return nil, err
		}
		event.Actor = actor.String
		events = append(events, event)
	}
	return events, rows.Err()
}

// audit records an event on behalf of the user attached to ctx. Failures are
// logged and otherwise ignored so they never fail the audited operation.
func audit(ctx context.Context, events EventServiceProvider, eventType, message string) {
	if events == nil {
		return
	}
	var actor string
	if user, ok := auth.UserFromContext(ctx); ok {
		actor = user.Username
	}
	if err := events.CreateEvent(ctx, eventType, "info", actor, message); err != nil {
		log.Warn().Err(err).Str("event_type", eventType).Msg("Failed to record event")
	}
}
