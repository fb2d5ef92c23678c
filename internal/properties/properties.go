// Package properties fetches property listings from the tabular backend.
package properties

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/inmobiliaria/storefront/internal/models"
	"github.com/inmobiliaria/storefront/internal/nocodb"
)

// ErrFetch is returned when listings cannot be loaded
var ErrFetch = errors.New("property fetch failed")

// Params locate the properties table. They come from the tenant AppConfig.
type Params struct {
	URL      string
	APIKey   string
	Database string
	Table    string
}

// ParamsFrom extracts the property connection from cfg
func ParamsFrom(cfg models.AppConfig) Params {
	return Params{
		URL:      cfg.NocoDBURL,
		APIKey:   cfg.NocoDBAPIKey,
		Database: cfg.NocoDBDatabase,
		Table:    cfg.NocoDBTable,
	}
}

// Configured reports whether enough is set to query the backend
func (p Params) Configured() bool {
	return p.URL != "" && p.APIKey != "" && p.Table != ""
}

func (p Params) path() string {
	if p.Database != "" {
		return nocodb.TablePath(p.Table)
	}
	return nocodb.LegacyTablePath(p.Table)
}

// DefaultFilter lists available properties only
var DefaultFilter = nocodb.And(nocodb.Eq(ColAvailability, Available))

// Fetcher queries property rows and maps them
type Fetcher struct {
	timeout time.Duration
}

// NewFetcher creates a new fetcher. Connection parameters are supplied per call since
// the tenant can change them at runtime.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{timeout: timeout}
}

// Fetch lists properties matching where (available ones when empty), up to limit when positive.
func (f *Fetcher) Fetch(ctx context.Context, params Params, where string, limit int) ([]models.Property, error) {
	if !params.Configured() {
		return nil, fmt.Errorf("%w: property store is not configured", ErrFetch)
	}
	if where == "" {
		where = DefaultFilter
	}

	client := nocodb.NewClient(params.URL, params.APIKey, f.timeout)
	records, err := client.List(ctx, params.path(), nocodb.Query{Where: where, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	out := make([]models.Property, 0, len(records))
	for _, rec := range records {
		out = append(out, MapRecord(rec))
	}
	return out, nil
}

// FetchByCategory lists the available properties of one category
func (f *Fetcher) FetchByCategory(ctx context.Context, params Params, category string) ([]models.Property, error) {
	where := nocodb.And(
		nocodb.Eq(ColCategory, category),
		nocodb.Eq(ColAvailability, Available),
	)
	return f.Fetch(ctx, params, where, 0)
}

// Probe checks that params reach a readable table
func (f *Fetcher) Probe(ctx context.Context, params Params) error {
	_, err := f.Fetch(ctx, params, "", 1)
	return err
}
