package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/slidecast/slidecast/pkg/presentations"
	"github.com/slidecast/slidecast/pkg/store"
)

// recentEventLimit bounds the raw event tail returned with
// per-presentation stats.
const recentEventLimit = 50

// activityWindow is the trailing window for the recent-activity block.
const activityWindow = 30 * 24 * time.Hour

// Service is the read side of analytics. Every call re-scans the
// presentation and event collections in full; there is no cached or
// incremental state.
type Service struct {
	presentations *store.Collection[presentations.Presentation]
	events        *store.Collection[Event]
}

// NewService creates an aggregation service. The service is
// authorization-agnostic; callers enforce who may see what.
func NewService(presentations *store.Collection[presentations.Presentation], events *store.Collection[Event]) *Service {
	return &Service{presentations: presentations, events: events}
}

// PresentationStats aggregates engagement metrics for one presentation.
// Returns store.ErrNotFound when the presentation does not exist.
func (s *Service) PresentationStats(id string) (*PresentationStats, error) {
	presentation, err := s.presentations.FindByID(id)
	if err != nil {
		return nil, err
	}

	all, err := s.events.LoadAll()
	if err != nil {
		return nil, err
	}

	var filtered []Event
	for _, e := range all {
		if e.PresentationID == id {
			filtered = append(filtered, e)
		}
	}

	metrics := Metrics{
		TotalViews:             countByType(filtered, EventPresentationStart),
		TotalSlideViews:        countByType(filtered, EventSlideView),
		TotalChatInteractions:  countByType(filtered, EventChatInteraction),
		TotalVoiceInteractions: countByType(filtered, EventVoiceInteraction),
	}
	metrics.UniqueSessions, metrics.AvgSessionDuration = sessionStats(filtered)

	return &PresentationStats{
		PresentationID:    presentation.ID,
		PresentationTitle: presentation.Title,
		Metrics:           metrics,
		Events:            recentEvents(filtered, recentEventLimit),
		GeneratedAt:       time.Now().UTC(),
	}, nil
}

// Summary aggregates the global engagement picture across every
// presentation and event. Callers must restrict this to admins.
func (s *Service) Summary() (*Summary, error) {
	allPresentations, err := s.presentations.LoadAll()
	if err != nil {
		return nil, err
	}
	allEvents, err := s.events.LoadAll()
	if err != nil {
		return nil, err
	}

	totalViews := countByType(allEvents, EventPresentationStart)
	totalInteractions := countByType(allEvents, EventChatInteraction) +
		countByType(allEvents, EventVoiceInteraction)

	sessions := make(map[string]struct{})
	for _, e := range allEvents {
		sessions[e.SessionID] = struct{}{}
	}

	// Zero views means zero engagement, not a division by zero.
	engagementRate := 0.0
	if totalViews > 0 {
		engagementRate = round2(float64(totalInteractions) / float64(totalViews) * 100)
	}

	published := 0
	for _, p := range allPresentations {
		if p.Status == presentations.StatusPublished {
			published++
		}
	}

	cutoff := time.Now().UTC().Add(-activityWindow)
	recent := 0
	for _, e := range allEvents {
		if !e.Timestamp.Before(cutoff) {
			recent++
		}
	}

	return &Summary{
		Overview: Overview{
			TotalPresentations:     len(allPresentations),
			PublishedPresentations: published,
			TotalViews:             totalViews,
			TotalInteractions:      totalInteractions,
			UniqueSessions:         len(sessions),
			EngagementRate:         engagementRate,
		},
		RecentActivity: RecentActivity{
			Last30Days:   recent,
			DailyAverage: round2(float64(recent) / 30),
		},
		TopPresentations: topPresentations(allPresentations, allEvents, 5),
		GeneratedAt:      time.Now().UTC(),
	}, nil
}

func countByType(events []Event, t EventType) int {
	n := 0
	for _, e := range events {
		if e.EventType == t {
			n++
		}
	}
	return n
}

// sessionStats computes the distinct session count and the average
// session duration in whole seconds. A session's duration spans its
// first to last event in arrival order; sessions with fewer than two
// events contribute zero. This is a coarse engagement proxy, not a
// true time-on-page measurement.
func sessionStats(events []Event) (int, int64) {
	type span struct {
		first, last time.Time
		count       int
	}
	spans := make(map[string]*span)
	order := make([]string, 0)

	for _, e := range events {
		sp, ok := spans[e.SessionID]
		if !ok {
			sp = &span{first: e.Timestamp}
			spans[e.SessionID] = sp
			order = append(order, e.SessionID)
		}
		sp.last = e.Timestamp
		sp.count++
	}

	if len(spans) == 0 {
		return 0, 0
	}

	var total time.Duration
	for _, id := range order {
		sp := spans[id]
		if sp.count < 2 {
			continue
		}
		total += sp.last.Sub(sp.first)
	}

	avg := total.Seconds() / float64(len(spans))
	return len(spans), int64(math.Round(avg))
}

// recentEvents returns up to limit of the most recent events, newest
// last, preserving arrival order.
func recentEvents(events []Event, limit int) []Event {
	if len(events) <= limit {
		out := make([]Event, len(events))
		copy(out, events)
		return out
	}
	out := make([]Event, limit)
	copy(out, events[len(events)-limit:])
	return out
}

// topPresentations ranks published presentations by view count.
func topPresentations(all []presentations.Presentation, events []Event, limit int) []TopPresentation {
	views := make(map[string]int)
	interactions := make(map[string]int)
	for _, e := range events {
		switch e.EventType {
		case EventPresentationStart:
			views[e.PresentationID]++
		case EventChatInteraction, EventVoiceInteraction:
			interactions[e.PresentationID]++
		}
	}

	top := make([]TopPresentation, 0)
	for _, p := range all {
		if p.Status != presentations.StatusPublished {
			continue
		}
		top = append(top, TopPresentation{
			ID:           p.ID,
			Title:        p.Title,
			Views:        views[p.ID],
			Interactions: interactions[p.ID],
		})
	}

	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Views > top[j].Views
	})
	if len(top) > limit {
		top = top[:limit]
	}
	return top
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
