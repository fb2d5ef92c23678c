// Package localstate persists the small slice of store state that survives restarts:
// the admin session flag and the category metadata.
package localstate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/inmobiliaria/storefront/internal/models"
)

const snapshotKey = "storefront-state"

// Snapshot is the persisted state. Category listings are never stored.
type Snapshot struct {
	Authenticated bool              `json:"authenticated"`
	Categories    []models.Category `json:"categories"`
	SavedAt       time.Time         `json:"savedAt"`
}

// DB wraps the badgerhold store
type DB struct {
	store *badgerhold.Store
}

// Open opens (creating if needed) the state directory at path
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil
	options.Encoder = json.Marshal
	options.Decoder = json.Unmarshal

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}
	return &DB{store: store}, nil
}

// Load returns the saved snapshot; a missing one is the zero Snapshot
func (d *DB) Load() (Snapshot, error) {
	var snap Snapshot
	err := d.store.Get(snapshotKey, &snap)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return Snapshot{}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load state: %w", err)
	}
	return snap, nil
}

// Save replaces the snapshot
func (d *DB) Save(snap Snapshot) error {
	snap.Categories = stripListings(snap.Categories)
	if snap.SavedAt.IsZero() {
		snap.SavedAt = time.Now()
	}
	if err := d.store.Upsert(snapshotKey, &snap); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// Close closes the underlying store
func (d *DB) Close() error {
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

func stripListings(cats []models.Category) []models.Category {
	out := make([]models.Category, len(cats))
	for i, c := range cats {
		out[i] = models.Category{ID: c.ID, Name: c.Name, Color: c.Color}
	}
	return out
}
