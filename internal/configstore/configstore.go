// Package configstore loads and persists the tenant AppConfig document.
//
// The document lives under a fixed record key. Backends may hold it either as a
// native JSON object or as a string containing JSON; both are accepted on read and
// writers always store the string-encoded form.
package configstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"

	"github.com/inmobiliaria/storefront/internal/models"
)

// RecordKey is the key of the single configuration record
const RecordKey = "main"

var (
	// ErrUnavailable is returned when the config cannot be loaded
	ErrUnavailable = errors.New("config unavailable")
	// ErrPersist is returned when the config cannot be saved
	ErrPersist = errors.New("config persist failed")
)

// Gateway reads and writes the configuration document
type Gateway interface {
	Fetch(ctx context.Context) (models.AppConfig, error)
	Update(ctx context.Context, cfg models.AppConfig) error
}

// decodeDocument merges a stored value onto the default config.
// raw may be a JSON object or a JSON string holding the object. The merge is by
// top-level key: a key present in the document replaces the default value whole,
// so stored arrays never inherit elements from the default arrays.
func decodeDocument(raw json.RawMessage) (models.AppConfig, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return models.DefaultAppConfig(), fmt.Errorf("%w: empty value", ErrUnavailable)
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		raw = json.RawMessage(encoded)
	}

	var stored map[string]json.RawMessage
	if err := json.Unmarshal(raw, &stored); err != nil {
		return models.DefaultAppConfig(), fmt.Errorf("%w: stored config is not valid JSON: %v", ErrUnavailable, err)
	}

	defaults, err := json.Marshal(models.DefaultAppConfig())
	if err != nil {
		return models.DefaultAppConfig(), fmt.Errorf("%w: failed to marshal defaults: %v", ErrUnavailable, err)
	}
	merged := make(map[string]json.RawMessage)
	if err := json.Unmarshal(defaults, &merged); err != nil {
		return models.DefaultAppConfig(), fmt.Errorf("%w: failed to decode defaults: %v", ErrUnavailable, err)
	}
	maps.Copy(merged, stored)

	data, err := json.Marshal(merged)
	if err != nil {
		return models.DefaultAppConfig(), fmt.Errorf("%w: failed to merge config: %v", ErrUnavailable, err)
	}
	var cfg models.AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return models.DefaultAppConfig(), fmt.Errorf("%w: stored config has invalid fields: %v", ErrUnavailable, err)
	}
	return cfg, nil
}

// encodeDocument renders cfg as the string stored in the value column.
// Category listings are never persisted.
func encodeDocument(cfg models.AppConfig) (string, error) {
	data, err := json.Marshal(cfg.WithoutListings())
	if err != nil {
		return "", fmt.Errorf("%w: failed to marshal config: %v", ErrPersist, err)
	}
	return string(data), nil
}
