package presentations

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidecast/slidecast/pkg/auth"
	"github.com/slidecast/slidecast/pkg/store"
)

type fixture struct {
	svc   *Service
	users *store.Collection[auth.User]
	docs  *store.Collection[Presentation]
	owner auth.User
	admin auth.User
	other auth.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()

	users, err := store.NewCollection[auth.User](dir, "users")
	require.NoError(t, err)
	docs, err := store.NewCollection[Presentation](dir, "presentations")
	require.NoError(t, err)

	now := time.Now().UTC()
	owner := auth.User{ID: "user_owner", Email: "owner@example.com", Name: "Owner", Role: auth.RoleUser, CreatedAt: now, UpdatedAt: now}
	admin := auth.User{ID: "user_admin", Email: "admin@example.com", Name: "Admin", Role: auth.RoleAdmin, CreatedAt: now, UpdatedAt: now}
	other := auth.User{ID: "user_other", Email: "other@example.com", Name: "Other", Role: auth.RoleUser, CreatedAt: now, UpdatedAt: now}
	for _, u := range []auth.User{owner, admin, other} {
		_, err := users.Insert(u)
		require.NoError(t, err)
	}

	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	return &fixture{
		svc:   NewService(docs, users, issuer),
		users: users,
		docs:  docs,
		owner: owner,
		admin: admin,
		other: other,
	}
}

func (f *fixture) create(t *testing.T, title string) *Response {
	t.Helper()
	resp, err := f.svc.Create(f.owner.ID, CreateRequest{Title: title})
	require.NoError(t, err)
	return resp
}

func ownerActor(f *fixture) Actor { return Actor{UserID: f.owner.ID, Role: f.owner.Role} }
func adminActor(f *fixture) Actor { return Actor{UserID: f.admin.ID, Role: f.admin.Role} }
func otherActor(f *fixture) Actor { return Actor{UserID: f.other.ID, Role: f.other.Role} }

// TestCreate verifies defaults for a fresh presentation
func TestCreate(t *testing.T) {
	f := newFixture(t)

	resp := f.create(t, "Quarterly Review")

	assert.Equal(t, "Quarterly Review", resp.Title)
	assert.Equal(t, StatusDraft, resp.Status)
	assert.Equal(t, f.owner.ID, resp.AuthorID)
	assert.Equal(t, f.owner.Name, resp.Author.Name)
	assert.NotEmpty(t, resp.ID)
	assert.NotEmpty(t, resp.AccessToken)

	require.NotNil(t, resp.Content.Theme)
	assert.Equal(t, "#DC2626", resp.Content.Theme.PrimaryColor)
	require.NotNil(t, resp.Content.Settings)
	assert.True(t, resp.Content.Settings.ShowNavigation)
	assert.Empty(t, resp.Content.Slides)
}

// TestCreate_MissingTitle verifies title validation
func TestCreate_MissingTitle(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(f.owner.ID, CreateRequest{})
	assert.ErrorIs(t, err, ErrMissingTitle)
}

// TestCreate_ProvidedContent verifies caller content wins over defaults
func TestCreate_ProvidedContent(t *testing.T) {
	f := newFixture(t)

	content := Content{Slides: []Slide{{ID: "s1", Type: SlideTitle, Title: "Hello"}}}
	resp, err := f.svc.Create(f.owner.ID, CreateRequest{Title: "Custom", Content: &content})
	require.NoError(t, err)

	require.Len(t, resp.Content.Slides, 1)
	assert.Equal(t, "Hello", resp.Content.Slides[0].Title)
	assert.Nil(t, resp.Content.Theme)
}

// TestList verifies author joins and missing-author filtering
func TestList(t *testing.T) {
	f := newFixture(t)
	f.create(t, "First")
	f.create(t, "Second")

	// A presentation whose author record is gone is skipped entirely.
	orphan := Presentation{ID: "pres_orphan", Title: "Orphan", AuthorID: "user_gone", Status: StatusDraft}
	_, err := f.docs.Insert(orphan)
	require.NoError(t, err)

	list, err := f.svc.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, item := range list {
		assert.Equal(t, f.owner.Name, item.Author.Name)
		assert.NotEqual(t, "pres_orphan", item.ID)
	}
}

// TestGet verifies single reads, including the unknown-author fallback
func TestGet(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, "Readable")

	t.Run("found", func(t *testing.T) {
		resp, err := f.svc.Get(created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, resp.ID)
		assert.Equal(t, f.owner.Email, resp.Author.Email)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := f.svc.Get("pres_missing")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("author gone degrades to placeholder", func(t *testing.T) {
		orphan := Presentation{ID: "pres_orphan2", Title: "Orphan", AuthorID: "user_gone", Status: StatusDraft}
		_, err := f.docs.Insert(orphan)
		require.NoError(t, err)

		resp, err := f.svc.Get("pres_orphan2")
		require.NoError(t, err)
		assert.Equal(t, "Unknown", resp.Author.Name)
	})
}

// TestUpdate verifies partial updates and ownership checks
func TestUpdate(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, "Original Title")

	t.Run("owner patches title only", func(t *testing.T) {
		title := "New Title"
		resp, err := f.svc.Update(created.ID, ownerActor(f), UpdateRequest{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "New Title", resp.Title)
		assert.Equal(t, created.AccessToken, resp.AccessToken, "untouched fields survive")
		assert.Equal(t, StatusDraft, resp.Status)
		assert.True(t, resp.UpdatedAt.After(created.UpdatedAt) || resp.UpdatedAt.Equal(created.UpdatedAt))
	})

	t.Run("admin may patch someone else's", func(t *testing.T) {
		status := StatusPublished
		resp, err := f.svc.Update(created.ID, adminActor(f), UpdateRequest{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, StatusPublished, resp.Status)
	})

	t.Run("non-owner rejected", func(t *testing.T) {
		title := "Hijack"
		_, err := f.svc.Update(created.ID, otherActor(f), UpdateRequest{Title: &title})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		status := Status("LIMBO")
		_, err := f.svc.Update(created.ID, ownerActor(f), UpdateRequest{Status: &status})
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("missing presentation", func(t *testing.T) {
		title := "x"
		_, err := f.svc.Update("pres_missing", ownerActor(f), UpdateRequest{Title: &title})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

// TestDelete verifies removal and ownership checks
func TestDelete(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, "Doomed")

	t.Run("non-owner rejected", func(t *testing.T) {
		err := f.svc.Delete(created.ID, otherActor(f))
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("owner deletes", func(t *testing.T) {
		require.NoError(t, f.svc.Delete(created.ID, ownerActor(f)))
		_, err := f.svc.Get(created.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("already gone", func(t *testing.T) {
		err := f.svc.Delete(created.ID, ownerActor(f))
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

// TestDuplicate verifies the copy semantics
func TestDuplicate(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, "Template")

	status := StatusPublished
	_, err := f.svc.Update(created.ID, ownerActor(f), UpdateRequest{Status: &status})
	require.NoError(t, err)

	copy, err := f.svc.Duplicate(created.ID, adminActor(f))
	require.NoError(t, err)

	assert.Equal(t, "Template (Copy)", copy.Title)
	assert.Equal(t, StatusDraft, copy.Status, "copies always start as drafts")
	assert.Equal(t, f.admin.ID, copy.AuthorID, "copy belongs to whoever duplicated")
	assert.NotEqual(t, created.ID, copy.ID)
	assert.NotEqual(t, created.AccessToken, copy.AccessToken)

	_, err = f.svc.Duplicate("pres_missing", ownerActor(f))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

// TestPublic verifies token-gated anonymous access
func TestPublic(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, "Shared Deck")

	t.Run("draft rejected", func(t *testing.T) {
		_, err := f.svc.Public(created.AccessToken)
		assert.ErrorIs(t, err, ErrNotPublished)
	})

	t.Run("published served without ownership details", func(t *testing.T) {
		status := StatusPublished
		_, err := f.svc.Update(created.ID, ownerActor(f), UpdateRequest{Status: &status})
		require.NoError(t, err)

		view, err := f.svc.Public(created.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, created.ID, view.ID)
		assert.Equal(t, "Shared Deck", view.Title)
		assert.Equal(t, StatusPublished, view.Status)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := f.svc.Public("bogus-token")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

// TestStatusValid verifies the closed status set
func TestStatusValid(t *testing.T) {
	assert.True(t, StatusDraft.Valid())
	assert.True(t, StatusPublished.Valid())
	assert.True(t, StatusArchived.Valid())
	assert.False(t, Status("LIMBO").Valid())
	assert.False(t, Status("").Valid())
}
