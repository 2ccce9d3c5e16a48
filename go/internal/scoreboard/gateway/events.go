package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mcdev12/scorecast/go/internal/models"
)

// ScoreboardEvent is the envelope for every message pushed to display clients
type ScoreboardEvent struct {
	ID        string          `json:"id"`        // Event UUID
	Type      EventType       `json:"type"`      // Event type
	Timestamp time.Time       `json:"timestamp"` // Event creation time
	Data      json.RawMessage `json:"data"`      // Event-specific payload
}

// EventType represents the type of scoreboard event
type EventType string

const (
	EventTypeMatchUpdated EventType = "MatchUpdated"
	EventTypeClockTick    EventType = "ClockTick"
)

// MatchUpdatedPayload carries a newly loaded match document and its rendered board
type MatchUpdatedPayload struct {
	Revision uint64             `json:"revision"`
	Origin   string             `json:"origin"`
	Title    string             `json:"title"`
	HTML     string             `json:"html"`
	Match    *models.MatchState `json:"match"`
}

// ClockTickPayload carries one clock tick
type ClockTickPayload struct {
	Clock string    `json:"clock"`
	Time  time.Time `json:"time"`
}

// NewEvent wraps payload in an event envelope
func NewEvent(eventType EventType, payload interface{}, now time.Time) (*ScoreboardEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}

	return &ScoreboardEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: now,
		Data:      data,
	}, nil
}

// ParseEventPayload parses event data into the appropriate payload struct
func ParseEventPayload(event *ScoreboardEvent) (interface{}, error) {
	switch event.Type {
	case EventTypeMatchUpdated:
		var payload MatchUpdatedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeClockTick:
		var payload ClockTickPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	default:
		return nil, fmt.Errorf("unknown event type %q", event.Type)
	}
}
