package presentations

import (
	"errors"
	"fmt"
	"time"

	"github.com/slidecast/slidecast/pkg/auth"
	"github.com/slidecast/slidecast/pkg/ids"
	"github.com/slidecast/slidecast/pkg/store"
)

var (
	// ErrForbidden is returned when the actor is neither the owner of
	// the presentation nor an admin.
	ErrForbidden = errors.New("access denied")

	// ErrNotPublished is returned when a public token resolves to a
	// presentation that is not in PUBLISHED state.
	ErrNotPublished = errors.New("presentation is not publicly available")

	// ErrMissingTitle is returned when creating without a title.
	ErrMissingTitle = errors.New("title is required")

	// ErrInvalidStatus is returned for an unknown status value.
	ErrInvalidStatus = errors.New("invalid status")
)

// Actor identifies who is performing an operation, for ownership checks.
type Actor struct {
	UserID string
	Role   auth.Role
}

func (a Actor) canManage(p Presentation) bool {
	return a.Role == auth.RoleAdmin || p.AuthorID == a.UserID
}

// Service manages the presentations collection. Author details are
// joined from the users collection by id; relationships are by value,
// never shared structure.
type Service struct {
	presentations *store.Collection[Presentation]
	users         *store.Collection[auth.User]
	issuer        *auth.TokenIssuer
}

// NewService creates a presentation service.
func NewService(presentations *store.Collection[Presentation], users *store.Collection[auth.User], issuer *auth.TokenIssuer) *Service {
	return &Service{presentations: presentations, users: users, issuer: issuer}
}

// Collection exposes the underlying collection for collaborators that
// only need reads (the analytics aggregator).
func (s *Service) Collection() *store.Collection[Presentation] {
	return s.presentations
}

// List returns every presentation with author info joined. Presentations
// whose author no longer exists are skipped.
func (s *Service) List() ([]Response, error) {
	items, err := s.presentations.LoadAll()
	if err != nil {
		return nil, err
	}

	responses := make([]Response, 0, len(items))
	for _, p := range items {
		author, err := s.users.FindByID(p.AuthorID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, err
		}
		responses = append(responses, Response{Presentation: p, Author: author.Author()})
	}
	return responses, nil
}

// Get returns one presentation with author info. A missing author
// degrades to an unknown placeholder rather than failing the read.
func (s *Service) Get(id string) (*Response, error) {
	p, err := s.presentations.FindByID(id)
	if err != nil {
		return nil, err
	}
	return s.withAuthor(p)
}

// Create stores a new DRAFT presentation owned by authorID, with a
// fresh public access token and default content when none is given.
func (s *Service) Create(authorID string, req CreateRequest) (*Response, error) {
	if req.Title == "" {
		return nil, ErrMissingTitle
	}

	accessToken, err := s.issuer.IssueAccessGrant()
	if err != nil {
		return nil, err
	}

	content := DefaultContent()
	if req.Content != nil {
		content = *req.Content
	}

	now := time.Now().UTC()
	p := Presentation{
		ID:          ids.New("pres"),
		Title:       req.Title,
		Description: req.Description,
		Content:     content,
		Status:      StatusDraft,
		AccessToken: accessToken,
		AuthorID:    authorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.presentations.Insert(p); err != nil {
		return nil, fmt.Errorf("failed to create presentation: %w", err)
	}
	return s.withAuthor(p)
}

// Update applies a partial update. Only the owner or an admin may
// update; unspecified fields are retained by the store's merge.
func (s *Service) Update(id string, actor Actor, req UpdateRequest) (*Response, error) {
	p, err := s.presentations.FindByID(id)
	if err != nil {
		return nil, err
	}
	if !actor.canManage(p) {
		return nil, ErrForbidden
	}

	patch := map[string]interface{}{
		"updatedAt": time.Now().UTC(),
	}
	if req.Title != nil {
		patch["title"] = *req.Title
	}
	if req.Description != nil {
		patch["description"] = *req.Description
	}
	if req.Content != nil {
		patch["content"] = *req.Content
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		patch["status"] = *req.Status
	}

	updated, err := s.presentations.Update(id, patch)
	if err != nil {
		return nil, err
	}
	return s.withAuthor(updated)
}

// Delete removes a presentation. Analytics events referencing it are
// left in place; readers filter orphans defensively.
func (s *Service) Delete(id string, actor Actor) error {
	p, err := s.presentations.FindByID(id)
	if err != nil {
		return err
	}
	if !actor.canManage(p) {
		return ErrForbidden
	}

	removed, err := s.presentations.Remove(id)
	if err != nil {
		return err
	}
	if !removed {
		return store.ErrNotFound
	}
	return nil
}

// Duplicate copies a presentation into a new DRAFT owned by the actor,
// with a fresh id and access token.
func (s *Service) Duplicate(id string, actor Actor) (*Response, error) {
	original, err := s.presentations.FindByID(id)
	if err != nil {
		return nil, err
	}
	if !actor.canManage(original) {
		return nil, ErrForbidden
	}

	accessToken, err := s.issuer.IssueAccessGrant()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	copy := original
	copy.ID = ids.New("pres")
	copy.Title = original.Title + " (Copy)"
	copy.Status = StatusDraft
	copy.AuthorID = actor.UserID
	copy.AccessToken = accessToken
	copy.CreatedAt = now
	copy.UpdatedAt = now

	if _, err := s.presentations.Insert(copy); err != nil {
		return nil, fmt.Errorf("failed to duplicate presentation: %w", err)
	}
	return s.withAuthor(copy)
}

// Public resolves a presentation by its access token for anonymous
// viewing. Only PUBLISHED presentations are served, and ownership
// details are stripped.
func (s *Service) Public(token string) (*PublicView, error) {
	p, err := s.presentations.FindByField("accessToken", token)
	if err != nil {
		return nil, err
	}
	if p.Status != StatusPublished {
		return nil, ErrNotPublished
	}
	return &PublicView{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Content:     p.Content,
		Status:      p.Status,
	}, nil
}

func (s *Service) withAuthor(p Presentation) (*Response, error) {
	author, err := s.users.FindByID(p.AuthorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &Response{Presentation: p, Author: auth.Author{Name: "Unknown"}}, nil
		}
		return nil, err
	}
	return &Response{Presentation: p, Author: author.Author()}, nil
}
