// Package analytics records viewer behavior events and computes
// engagement statistics from them on demand. The event log is
// append-only; every query re-derives its numbers from the full log.
package analytics

import "time"

// EventType is the closed set of tracked viewer actions.
type EventType string

const (
	EventPresentationStart EventType = "PRESENTATION_START"
	EventPresentationEnd   EventType = "PRESENTATION_END"
	EventSlideView         EventType = "SLIDE_VIEW"
	EventChatInteraction   EventType = "CHAT_INTERACTION"
	EventVoiceInteraction  EventType = "VOICE_INTERACTION"
)

// Valid reports whether the event type is one of the known values.
func (t EventType) Valid() bool {
	switch t {
	case EventPresentationStart, EventPresentationEnd, EventSlideView,
		EventChatInteraction, EventVoiceInteraction:
		return true
	}
	return false
}

// Event is one recorded viewer action. Events are never mutated after
// creation.
type Event struct {
	ID             string                 `json:"id"`
	PresentationID string                 `json:"presentationId"`
	SessionID      string                 `json:"sessionId,omitempty"`
	EventType      EventType              `json:"eventType"`
	EventData      map[string]interface{} `json:"eventData,omitempty"`
	Timestamp      time.Time              `json:"timestamp"`
	UserAgent      string                 `json:"userAgent,omitempty"`
	IPAddress      string                 `json:"ipAddress,omitempty"`
}

// DocumentID implements store.Document.
func (e Event) DocumentID() string {
	return e.ID
}

// TrackRequest is the ingestion payload. SessionID is optional; a
// missing one is replaced with a freshly generated session identifier.
type TrackRequest struct {
	PresentationID string                 `json:"presentationId"`
	SessionID      string                 `json:"sessionId,omitempty"`
	EventType      EventType              `json:"eventType"`
	EventData      map[string]interface{} `json:"eventData,omitempty"`
	UserAgent      string                 `json:"-"`
	IPAddress      string                 `json:"-"`
}

// Metrics is the per-presentation engagement bundle.
type Metrics struct {
	TotalViews             int   `json:"totalViews"`
	TotalSlideViews        int   `json:"totalSlideViews"`
	TotalChatInteractions  int   `json:"totalChatInteractions"`
	TotalVoiceInteractions int   `json:"totalVoiceInteractions"`
	UniqueSessions         int   `json:"uniqueSessions"`
	AvgSessionDuration     int64 `json:"avgSessionDuration"` // whole seconds
}

// PresentationStats is the per-presentation aggregation result,
// including a bounded tail of recent events for inspection.
type PresentationStats struct {
	PresentationID    string    `json:"presentationId"`
	PresentationTitle string    `json:"presentationTitle"`
	Metrics           Metrics   `json:"metrics"`
	Events            []Event   `json:"events"`
	GeneratedAt       time.Time `json:"generatedAt"`
}

// Overview is the global headline numbers block of the summary.
type Overview struct {
	TotalPresentations     int     `json:"totalPresentations"`
	PublishedPresentations int     `json:"publishedPresentations"`
	TotalViews             int     `json:"totalViews"`
	TotalInteractions      int     `json:"totalInteractions"`
	UniqueSessions         int     `json:"uniqueSessions"`
	EngagementRate         float64 `json:"engagementRate"` // interactions per 100 views
}

// RecentActivity covers the trailing 30-day window.
type RecentActivity struct {
	Last30Days   int     `json:"last30Days"`
	DailyAverage float64 `json:"dailyAverage"`
}

// TopPresentation is one row of the published-presentation ranking.
type TopPresentation struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Views        int    `json:"views"`
	Interactions int    `json:"interactions"`
}

// Summary is the global aggregation result.
type Summary struct {
	Overview         Overview          `json:"overview"`
	RecentActivity   RecentActivity    `json:"recentActivity"`
	TopPresentations []TopPresentation `json:"topPresentations"`
	GeneratedAt      time.Time         `json:"generatedAt"`
}
