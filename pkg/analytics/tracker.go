package analytics

import (
	"errors"
	"fmt"
	"time"

	"github.com/slidecast/slidecast/pkg/ids"
	"github.com/slidecast/slidecast/pkg/presentations"
	"github.com/slidecast/slidecast/pkg/store"
)

var (
	// ErrMissingField is returned when the ingestion payload lacks a
	// presentation id or event type. Validation happens before any
	// store mutation.
	ErrMissingField = errors.New("presentationId and eventType are required")

	// ErrUnknownEventType is returned for an event type outside the
	// closed set.
	ErrUnknownEventType = errors.New("unknown event type")
)

// Tracker is the write side of analytics: it validates and appends
// events to the event collection.
type Tracker struct {
	events        *store.Collection[Event]
	presentations *store.Collection[presentations.Presentation]
}

// NewTracker creates an event tracker.
func NewTracker(events *store.Collection[Event], presentations *store.Collection[presentations.Presentation]) *Tracker {
	return &Tracker{events: events, presentations: presentations}
}

// Track validates the request, verifies the referenced presentation
// exists, stamps id, session and timestamp, and appends the event.
// Returns the generated event id. Nothing is written on a rejected
// request.
func (t *Tracker) Track(req TrackRequest) (string, error) {
	if req.PresentationID == "" || req.EventType == "" {
		return "", ErrMissingField
	}
	if !req.EventType.Valid() {
		return "", fmt.Errorf("%w: %s", ErrUnknownEventType, req.EventType)
	}

	if _, err := t.presentations.FindByID(req.PresentationID); err != nil {
		return "", err
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = ids.NewSession()
	}

	event := Event{
		ID:             ids.New("event"),
		PresentationID: req.PresentationID,
		SessionID:      sessionID,
		EventType:      req.EventType,
		EventData:      req.EventData,
		Timestamp:      time.Now().UTC(),
		UserAgent:      req.UserAgent,
		IPAddress:      req.IPAddress,
	}
	if _, err := t.events.Insert(event); err != nil {
		return "", fmt.Errorf("failed to record event: %w", err)
	}
	return event.ID, nil
}
