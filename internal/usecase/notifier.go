package usecase

import (
	"context"
	"time"

	"github.com/sonam-git/quiniela-sub001/internal/domain/week"
)

const (
	EventScheduleCreated = "schedule.created"
	EventResultsUpdated  = "results.updated"
	EventWeekSettled     = "week.settled"
	EventAdminChanged    = "admin.changed"
)

// Event is one fire-and-forget state-change notification consumed by the
// real-time layer.
type Event struct {
	Type       string         `json:"type"`
	WeekNumber int            `json:"weekNumber"`
	Year       int            `json:"year"`
	Payload    map[string]any `json:"payload,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

func NewEvent(eventType string, key week.Key, payload map[string]any) Event {
	return Event{
		Type:       eventType,
		WeekNumber: key.Number,
		Year:       key.Year,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
}

// Notifier delivers events best-effort. Implementations must not block the
// caller on delivery failures; they log and move on.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, Event) {}

func NewNoopNotifier() Notifier {
	return noopNotifier{}
}
