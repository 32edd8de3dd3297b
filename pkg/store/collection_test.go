package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Body  string   `json:"body,omitempty"`
	Tags  []string `json:"tags,omitempty"`
	Views int      `json:"views"`
}

func (n note) DocumentID() string { return n.ID }

func newTestCollection(t *testing.T) *Collection[note] {
	t.Helper()
	c, err := NewCollection[note](t.TempDir(), "notes")
	require.NoError(t, err)
	return c
}

// TestNewCollection_CreatesDataDir verifies the data directory is created
func TestNewCollection_CreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	_, err := NewCollection[note](dir, "notes")
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

// TestLoadAll_MissingFile verifies a missing file reads as empty
func TestLoadAll_MissingFile(t *testing.T) {
	c := newTestCollection(t)

	items, err := c.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, items)
}

// TestSaveAll_RoundTrip verifies documents survive a save/load cycle
func TestSaveAll_RoundTrip(t *testing.T) {
	c := newTestCollection(t)

	in := []note{
		{ID: "n1", Title: "first", Tags: []string{"a", "b"}, Views: 3},
		{ID: "n2", Title: "second"},
	}
	require.NoError(t, c.SaveAll(in))

	out, err := c.LoadAll()
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

// TestSaveAll_NilWritesEmptyArray verifies nil persists as an empty JSON array
func TestSaveAll_NilWritesEmptyArray(t *testing.T) {
	dir := t.TempDir()
	c, err := NewCollection[note](dir, "notes")
	require.NoError(t, err)

	require.NoError(t, c.SaveAll(nil))

	data, err := os.ReadFile(filepath.Join(dir, "notes.json"))
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

// TestFindByID verifies lookup by identity
func TestFindByID(t *testing.T) {
	c := newTestCollection(t)
	require.NoError(t, c.SaveAll([]note{{ID: "n1", Title: "first"}, {ID: "n2", Title: "second"}}))

	got, err := c.FindByID("n2")
	require.NoError(t, err)
	assert.Equal(t, "second", got.Title)

	_, err = c.FindByID("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestFindByField verifies schema-free field lookup
func TestFindByField(t *testing.T) {
	c := newTestCollection(t)
	require.NoError(t, c.SaveAll([]note{
		{ID: "n1", Title: "dup", Views: 1},
		{ID: "n2", Title: "dup", Views: 2},
		{ID: "n3", Title: "other", Views: 2},
	}))

	t.Run("returns first match", func(t *testing.T) {
		got, err := c.FindByField("title", "dup")
		require.NoError(t, err)
		assert.Equal(t, "n1", got.ID)
	})

	t.Run("numeric values compare through JSON", func(t *testing.T) {
		got, err := c.FindByField("views", 2)
		require.NoError(t, err)
		assert.Equal(t, "n2", got.ID)
	})

	t.Run("no match", func(t *testing.T) {
		_, err := c.FindByField("title", "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

// TestFindAllByField verifies multi-match lookup preserves order
func TestFindAllByField(t *testing.T) {
	c := newTestCollection(t)
	require.NoError(t, c.SaveAll([]note{
		{ID: "n1", Title: "dup"},
		{ID: "n2", Title: "other"},
		{ID: "n3", Title: "dup"},
	}))

	got, err := c.FindAllByField("title", "dup")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "n1", got[0].ID)
	assert.Equal(t, "n3", got[1].ID)

	none, err := c.FindAllByField("title", "nope")
	require.NoError(t, err)
	assert.Empty(t, none)
}

// TestInsert verifies append semantics
func TestInsert(t *testing.T) {
	c := newTestCollection(t)

	_, err := c.Insert(note{ID: "n1", Title: "first"})
	require.NoError(t, err)
	_, err = c.Insert(note{ID: "n2", Title: "second"})
	require.NoError(t, err)

	items, err := c.LoadAll()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "n1", items[0].ID)
	assert.Equal(t, "n2", items[1].ID)
}

// TestInsert_DuplicateIDNotEnforced verifies the store does not police ids
func TestInsert_DuplicateIDNotEnforced(t *testing.T) {
	c := newTestCollection(t)

	_, err := c.Insert(note{ID: "n1", Title: "first"})
	require.NoError(t, err)
	_, err = c.Insert(note{ID: "n1", Title: "again"})
	require.NoError(t, err)

	n, err := c.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

// TestUpdate_ShallowMerge verifies only patched keys change
func TestUpdate_ShallowMerge(t *testing.T) {
	c := newTestCollection(t)
	require.NoError(t, c.SaveAll([]note{{ID: "n1", Title: "first", Body: "keep me", Views: 7}}))

	got, err := c.Update("n1", map[string]interface{}{"title": "patched"})
	require.NoError(t, err)
	assert.Equal(t, "patched", got.Title)
	assert.Equal(t, "keep me", got.Body)
	assert.Equal(t, 7, got.Views)

	persisted, err := c.FindByID("n1")
	require.NoError(t, err)
	assert.Equal(t, got, persisted)
}

// TestUpdate_IdentityImmutable verifies the id key in a patch is ignored
func TestUpdate_IdentityImmutable(t *testing.T) {
	c := newTestCollection(t)
	require.NoError(t, c.SaveAll([]note{{ID: "n1", Title: "first"}}))

	got, err := c.Update("n1", map[string]interface{}{"id": "hijacked", "title": "patched"})
	require.NoError(t, err)
	assert.Equal(t, "n1", got.ID)
	assert.Equal(t, "patched", got.Title)

	_, err = c.FindByID("hijacked")
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestUpdate_NotFound verifies nothing is written for an unknown id
func TestUpdate_NotFound(t *testing.T) {
	dir := t.TempDir()
	c, err := NewCollection[note](dir, "notes")
	require.NoError(t, err)

	_, err = c.Update("missing", map[string]interface{}{"title": "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, statErr := os.Stat(filepath.Join(dir, "notes.json"))
	assert.True(t, os.IsNotExist(statErr), "rejected update must not create the file")
}

// TestRemove verifies deletion and its idempotence
func TestRemove(t *testing.T) {
	c := newTestCollection(t)
	require.NoError(t, c.SaveAll([]note{{ID: "n1"}, {ID: "n2"}}))

	removed, err := c.Remove("n1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = c.Remove("n1")
	require.NoError(t, err)
	assert.False(t, removed, "removing an absent id is a no-op")

	items, err := c.LoadAll()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "n2", items[0].ID)
}

// TestCount verifies the document count
func TestCount(t *testing.T) {
	c := newTestCollection(t)

	n, err := c.Count()
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, c.SaveAll([]note{{ID: "n1"}, {ID: "n2"}, {ID: "n3"}}))
	n, err = c.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

// TestConcurrentUpdates verifies the mutex serializes mutations so no
// write is lost under concurrency
func TestConcurrentUpdates(t *testing.T) {
	c := newTestCollection(t)

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			_, err := c.Insert(note{ID: "n" + string(rune('a'+i)), Views: i})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	n, err := c.Count()
	require.NoError(t, err)
	assert.Equal(t, workers, n)
}

// TestConcurrentFieldUpdates verifies interleaved patches both land
func TestConcurrentFieldUpdates(t *testing.T) {
	c := newTestCollection(t)
	require.NoError(t, c.SaveAll([]note{{ID: "a"}, {ID: "b"}}))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := c.Update("a", map[string]interface{}{"title": "updated-a"})
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		_, err := c.Update("b", map[string]interface{}{"title": "updated-b"})
		assert.NoError(t, err)
	}()
	wg.Wait()

	a, err := c.FindByID("a")
	require.NoError(t, err)
	b, err := c.FindByID("b")
	require.NoError(t, err)
	assert.Equal(t, "updated-a", a.Title)
	assert.Equal(t, "updated-b", b.Title)
}

// TestPersistedFormat verifies the on-disk shape is a pretty-printed array
func TestPersistedFormat(t *testing.T) {
	dir := t.TempDir()
	c, err := NewCollection[note](dir, "notes")
	require.NoError(t, err)
	require.NoError(t, c.SaveAll([]note{{ID: "n1", Title: "first"}}))

	data, err := os.ReadFile(filepath.Join(dir, "notes.json"))
	require.NoError(t, err)

	var arr []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &arr))
	require.Len(t, arr, 1)
	assert.Equal(t, "n1", arr[0]["id"])
	assert.Contains(t, string(data), "\n  ", "file should be indented for inspection")
}
