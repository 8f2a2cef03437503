package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"bookshelf/internal/models"
)

// maxEvents bounds the in-memory activity feed.
const maxEvents = 200

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	Record(eventType, message string, bookID *int)
	Recent(limit int) []models.Event
}

// EventService keeps a bounded, in-memory activity feed, newest first.
type EventService struct {
	mu     sync.Mutex
	events []models.Event
}

// NewEventService creates a new EventService.
func NewEventService() *EventService {
	return &EventService{}
}

// Record adds an entry to the feed, evicting the oldest past the cap.
func (s *EventService) Record(eventType, message string, bookID *int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event := models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Message:   message,
		BookID:    bookID,
		CreatedAt: time.Now(),
	}
	s.events = append([]models.Event{event}, s.events...)
	if len(s.events) > maxEvents {
		s.events = s.events[:maxEvents]
	}
}

// Recent returns up to limit of the most recent events.
func (s *EventService) Recent(limit int) []models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || limit > len(s.events) {
		limit = len(s.events)
	}
	out := make([]models.Event, limit)
	copy(out, s.events[:limit])
	return out
}
