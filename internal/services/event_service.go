package services

import (
	"database/sql"

	"github.com/google/uuid"

	"miniblog/internal/models"
	"miniblog/internal/websocket"
)

// EventServiceProvider defines the interface for activity-event services.
type EventServiceProvider interface {
	CreateEvent(eventType, level, message string, postID *string) error
	GetRecentEvents(limit int) ([]models.Event, error)
}

// EventService records activity events and pushes them to connected
// websocket clients.
type EventService struct {
	db  *sql.DB
	hub *websocket.Hub
}

// NewEventService creates a new EventService. The hub may be nil when no
// live feed is wanted (tests).
func NewEventService(db *sql.DB, hub *websocket.Hub) *EventService {
	return &EventService{db: db, hub: hub}
}

// CreateEvent logs a new event to the database and broadcasts it.
func (s *EventService) CreateEvent(eventType, level, message string, postID *string) error {
	event := models.Event{
		ID:      uuid.New().String(),
		Type:    eventType,
		Level:   level,
		Message: message,
		PostID:  postID,
	}

	stmt, err := s.db.Prepare("INSERT INTO events (id, type, level, message, post_id) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	if _, err := stmt.Exec(event.ID, event.Type, event.Level, event.Message, event.PostID); err != nil {
		return err
	}

	if s.hub != nil {
		if data, err := websocket.NewEventMessage(event); err == nil {
			s.hub.Broadcast <- data
			if event.PostID != nil {
				s.hub.BroadcastTo(*event.PostID, data)
			}
		}
	}
	return nil
}

// GetRecentEvents returns the most recent events, newest first.
func (s *EventService) GetRecentEvents(limit int) ([]models.Event, error) {
	rows, err := s.db.Query(
		"SELECT id, type, level, message, post_id, created_at FROM events ORDER BY created_at DESC, rowid DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(&event.ID, &event.Type, &event.Level, &event.Message, &event.PostID, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
