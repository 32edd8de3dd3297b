// Package store implements a generic file-backed document collection.
//
// Each collection owns a single JSON file under a shared data directory
// and holds the full ordered list of its documents. Every mutation is a
// load-transform-save cycle over the whole file; a per-collection mutex
// serializes those cycles so concurrent updates cannot lose writes.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"
)

// ErrNotFound is returned when a document with the requested id (or
// field value) does not exist in the collection.
var ErrNotFound = errors.New("document not found")

// Document is the capability every stored type must provide: a unique,
// immutable string identity.
type Document interface {
	DocumentID() string
}

// Collection is a durable, ordered list of documents of one kind,
// backed by a single JSON file.
type Collection[T Document] struct {
	name string
	path string
	mu   sync.Mutex
}

// NewCollection creates a collection backed by <dataDir>/<name>.json.
// The data directory is created if it does not exist.
func NewCollection[T Document](dataDir, name string) (*Collection[T], error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Collection[T]{
		name: name,
		path: filepath.Join(dataDir, name+".json"),
	}, nil
}

// Name returns the collection name.
func (c *Collection[T]) Name() string {
	return c.name
}

// LoadAll returns every persisted document in storage order. A missing
// file is the first-use bootstrap case and reads as an empty collection.
func (c *Collection[T]) LoadAll() ([]T, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read collection %s: %w", c.name, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal collection %s: %w", c.name, err)
	}
	return items, nil
}

// SaveAll replaces the entire persisted contents with the given items.
// This is the only write primitive; every mutation goes through it.
func (c *Collection[T]) SaveAll(items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveLocked(items)
}

func (c *Collection[T]) saveLocked(items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal collection %s: %w", c.name, err)
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write collection %s: %w", c.name, err)
	}
	return nil
}

// FindByID returns the document with the given id or ErrNotFound.
func (c *Collection[T]) FindByID(id string) (T, error) {
	var zero T
	items, err := c.LoadAll()
	if err != nil {
		return zero, err
	}
	for _, item := range items {
		if item.DocumentID() == id {
			return item, nil
		}
	}
	return zero, ErrNotFound
}

// FindByField returns the first document whose JSON field equals value,
// or ErrNotFound. The field name is the document's JSON key.
func (c *Collection[T]) FindByField(field string, value interface{}) (T, error) {
	var zero T
	items, err := c.LoadAll()
	if err != nil {
		return zero, err
	}
	want := normalizeJSON(value)
	for _, item := range items {
		m, err := docToMap(item)
		if err != nil {
			return zero, err
		}
		if reflect.DeepEqual(m[field], want) {
			return item, nil
		}
	}
	return zero, ErrNotFound
}

// FindAllByField returns every document whose JSON field equals value,
// in storage order.
func (c *Collection[T]) FindAllByField(field string, value interface{}) ([]T, error) {
	items, err := c.LoadAll()
	if err != nil {
		return nil, err
	}
	want := normalizeJSON(value)
	var matches []T
	for _, item := range items {
		m, err := docToMap(item)
		if err != nil {
			return nil, err
		}
		if reflect.DeepEqual(m[field], want) {
			matches = append(matches, item)
		}
	}
	return matches, nil
}

// Insert appends the document and persists the collection. The caller
// is responsible for generating a unique id beforehand; the store does
// not enforce uniqueness of any field.
func (c *Collection[T]) Insert(item T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	items, err := c.LoadAll()
	if err != nil {
		return zero, err
	}
	items = append(items, item)
	if err := c.saveLocked(items); err != nil {
		return zero, err
	}
	return item, nil
}

// Update shallow-merges patch onto the document with the given id and
// persists the collection. Only the provided keys are overwritten; the
// "id" key is ignored, identity is immutable. Returns the merged
// document, or ErrNotFound without writing anything.
func (c *Collection[T]) Update(id string, patch map[string]interface{}) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	items, err := c.LoadAll()
	if err != nil {
		return zero, err
	}

	idx := -1
	for i, item := range items {
		if item.DocumentID() == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return zero, ErrNotFound
	}

	m, err := docToMap(items[idx])
	if err != nil {
		return zero, err
	}
	for k, v := range patch {
		if k == "id" {
			continue
		}
		m[k] = normalizeJSON(v)
	}

	merged, err := mapToDoc[T](m)
	if err != nil {
		return zero, err
	}
	items[idx] = merged
	if err := c.saveLocked(items); err != nil {
		return zero, err
	}
	return merged, nil
}

// Remove deletes the document with the given id and reports whether
// anything was removed. Removing an absent id is a no-op.
func (c *Collection[T]) Remove(id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.LoadAll()
	if err != nil {
		return false, err
	}

	idx := -1
	for i, item := range items {
		if item.DocumentID() == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false, nil
	}

	items = append(items[:idx], items[idx+1:]...)
	if err := c.saveLocked(items); err != nil {
		return false, err
	}
	return true, nil
}

// Count returns the number of persisted documents.
func (c *Collection[T]) Count() (int, error) {
	items, err := c.LoadAll()
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// docToMap converts a document to its JSON object form so schema-free
// operations (field lookup, merge) never need to understand the shape.
func docToMap[T Document](item T) (map[string]interface{}, error) {
	data, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return m, nil
}

func mapToDoc[T Document](m map[string]interface{}) (T, error) {
	var item T
	data, err := json.Marshal(m)
	if err != nil {
		return item, fmt.Errorf("failed to marshal document: %w", err)
	}
	if err := json.Unmarshal(data, &item); err != nil {
		return item, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return item, nil
}

// normalizeJSON round-trips a value through JSON so comparisons see the
// same representation the file does (ints become float64, structs
// become maps).
func normalizeJSON(v interface{}) interface{} {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}
