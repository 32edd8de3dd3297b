// Package presentations manages the presentation documents: CRUD,
// publication status, public access tokens and the slide content model.
package presentations

import (
	"encoding/json"
	"time"

	"github.com/slidecast/slidecast/pkg/auth"
)

// Status is the publication state of a presentation.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
	StatusArchived  Status = "ARCHIVED"
)

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// SlideType is the closed set of slide kinds the viewer can render.
type SlideType string

const (
	SlideCover        SlideType = "cover"
	SlideTitle        SlideType = "title"
	SlideIndex        SlideType = "index"
	SlideSectionIndex SlideType = "section_index"
	SlideContent      SlideType = "content"
	SlideHighlight    SlideType = "highlight"
	SlideKeypoints    SlideType = "keypoints"
	SlideMetrics      SlideType = "metrics"
	SlideQuote        SlideType = "quote"
	SlideImage        SlideType = "image"
	SlideVideo        SlideType = "video"
	SlideClosing      SlideType = "closing"
	SlideInteractive  SlideType = "interactive"
)

// Slide is one slide of a presentation. Beyond the kind tag and the
// common text fields, the kind-specific payloads are carried opaquely;
// the storage layer never needs to understand them and the viewer owns
// their interpretation.
type Slide struct {
	ID         string            `json:"id"`
	Type       SlideType         `json:"type"`
	Title      string            `json:"title,omitempty"`
	Subtitle   string            `json:"subtitle,omitempty"`
	Narration  string            `json:"narration,omitempty"`
	Content    []json.RawMessage `json:"content,omitempty"`
	Elements   []json.RawMessage `json:"elements,omitempty"`
	Background json.RawMessage   `json:"background,omitempty"`
	Animation  json.RawMessage   `json:"animation,omitempty"`
}

// Theme holds presentation-wide styling.
type Theme struct {
	PrimaryColor    string `json:"primaryColor"`
	SecondaryColor  string `json:"secondaryColor"`
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
	FontFamily      string `json:"fontFamily"`
}

// Settings holds viewer behavior switches.
type Settings struct {
	AutoPlay       bool `json:"autoPlay"`
	AutoPlayDelay  int  `json:"autoPlayDelay"`
	ShowNavigation bool `json:"showNavigation"`
	ShowProgress   bool `json:"showProgress"`
	AllowChat      bool `json:"allowChat"`
	AllowVoice     bool `json:"allowVoice"`
}

// Content is the ordered slide deck plus theme and settings.
type Content struct {
	Slides   []Slide   `json:"slides"`
	Theme    *Theme    `json:"theme,omitempty"`
	Settings *Settings `json:"settings,omitempty"`
}

// DefaultContent returns the content a freshly created presentation
// starts with.
func DefaultContent() Content {
	return Content{
		Slides: []Slide{},
		Theme: &Theme{
			PrimaryColor:    "#DC2626",
			SecondaryColor:  "#B91C1C",
			BackgroundColor: "#FFFFFF",
			TextColor:       "#262626",
			FontFamily:      "Inter",
		},
		Settings: &Settings{
			AutoPlay:       false,
			AutoPlayDelay:  5000,
			ShowNavigation: true,
			ShowProgress:   true,
			AllowChat:      true,
			AllowVoice:     true,
		},
	}
}

// Presentation is the stored document.
type Presentation struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Content     Content   `json:"content"`
	Status      Status    `json:"status"`
	AccessToken string    `json:"accessToken,omitempty"`
	AuthorID    string    `json:"authorId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DocumentID implements store.Document.
func (p Presentation) DocumentID() string {
	return p.ID
}

// Response is a presentation with its author joined in, the shape the
// admin API returns.
type Response struct {
	Presentation
	Author auth.Author `json:"author"`
}

// PublicView is the token-gated public shape, with ownership and access
// token stripped.
type PublicView struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Content     Content `json:"content"`
	Status      Status  `json:"status"`
}

// CreateRequest is the payload for creating a presentation.
type CreateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Content     *Content `json:"content,omitempty"`
}

// UpdateRequest is the partial-update payload. Nil fields are left
// untouched.
type UpdateRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Content     *Content `json:"content,omitempty"`
	Status      *Status  `json:"status,omitempty"`
}
