package configstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/inmobiliaria/storefront/internal/models"
	"github.com/inmobiliaria/storefront/internal/nocodb"
)

// NocoDB stores the config document in a key/value NocoDB table
type NocoDB struct {
	client *nocodb.Client
	url    string
	apiKey string
	table  string
}

// NewNocoDB creates a NocoDB-backed gateway. Missing credentials are reported on first use.
func NewNocoDB(url, apiKey, table string, timeout time.Duration) *NocoDB {
	return &NocoDB{
		client: nocodb.NewClient(url, apiKey, timeout),
		url:    url,
		apiKey: apiKey,
		table:  table,
	}
}

func (n *NocoDB) configured() bool {
	return n.url != "" && n.apiKey != "" && n.table != ""
}

func (n *NocoDB) find(ctx context.Context) ([]nocodb.Record, error) {
	return n.client.List(ctx, nocodb.TablePath(n.table), nocodb.Query{
		Where: nocodb.And(nocodb.Eq("key", RecordKey)),
	})
}

// Fetch loads the config document merged onto the defaults
func (n *NocoDB) Fetch(ctx context.Context) (models.AppConfig, error) {
	if !n.configured() {
		return models.DefaultAppConfig(), fmt.Errorf("%w: config store credentials are not set", ErrUnavailable)
	}

	records, err := n.find(ctx)
	if err != nil {
		return models.DefaultAppConfig(), fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(records) == 0 {
		return models.DefaultAppConfig(), fmt.Errorf("%w: record %q not found", ErrUnavailable, RecordKey)
	}

	raw, err := json.Marshal(records[0]["value"])
	if err != nil {
		return models.DefaultAppConfig(), fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return decodeDocument(raw)
}

// Update writes cfg, creating the record when it does not exist yet
func (n *NocoDB) Update(ctx context.Context, cfg models.AppConfig) error {
	if !n.configured() {
		return fmt.Errorf("%w: config store credentials are not set", ErrPersist)
	}

	value, err := encodeDocument(cfg)
	if err != nil {
		return err
	}

	records, err := n.find(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	path := nocodb.TablePath(n.table)

	if len(records) == 0 {
		if err := n.client.Create(ctx, path, map[string]any{"key": RecordKey, "value": value}); err != nil {
			return fmt.Errorf("%w: %v", ErrPersist, err)
		}
		return nil
	}

	column, id, ok := primaryKey(records[0])
	if !ok {
		return fmt.Errorf("%w: config record has no primary key ('Id' or 'id')", ErrPersist)
	}
	if err := n.client.Update(ctx, path, map[string]any{column: id, "value": value}); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

// primaryKey resolves the record's primary key column, which NocoDB names either Id or id.
func primaryKey(rec nocodb.Record) (column string, id any, ok bool) {
	for _, col := range []string{"Id", "id"} {
		if v, present := rec[col]; present && truthy(v) {
			return col, v, true
		}
	}
	return "", nil, false
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case float64:
		return t != 0
	case bool:
		return t
	default:
		return true
	}
}
