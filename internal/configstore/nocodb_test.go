package configstore

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inmobiliaria/storefront/internal/models"
)

// fakeTable serves a single NocoDB table and records writes
type fakeTable struct {
	mu      sync.Mutex
	list    string
	status  int
	methods []string
	bodies  []map[string]any
}

func (f *fakeTable) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		assert.Equal(t, "/api/v2/tables/cfg/records", r.URL.Path)
		assert.Equal(t, "tok", r.Header.Get("xc-token"))

		if r.Method == http.MethodGet {
			assert.Equal(t, "(key,eq,main)", r.URL.Query().Get("where"))
			_, _ = io.WriteString(w, f.list)
			return
		}
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		f.methods = append(f.methods, r.Method)
		f.bodies = append(f.bodies, body)
		if f.status != 0 {
			w.WriteHeader(f.status)
		}
	})
}

func newFake(t *testing.T, list string) (*fakeTable, *NocoDB) {
	t.Helper()
	f := &fakeTable{list: list}
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)
	return f, NewNocoDB(srv.URL, "tok", "cfg", 0)
}

func TestNocoDBFetch_ObjectValue(t *testing.T) {
	t.Parallel()
	_, gw := newFake(t, `{"list":[{"Id":1,"key":"main","value":{"title":"Casa Sol","webhookUrl":"https://hook"}}]}`)

	cfg, err := gw.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Casa Sol", cfg.Title)
	assert.Equal(t, "https://hook", cfg.WebhookURL)
	// absent keys keep defaults
	assert.Equal(t, models.DefaultAppConfig().HeaderTitle, cfg.HeaderTitle)
	assert.Len(t, cfg.QuickQuestions, 4)
}

func TestNocoDBFetch_StringValue(t *testing.T) {
	t.Parallel()
	_, gw := newFake(t, `{"list":[{"Id":1,"key":"main","value":"{\"title\":\"Casa Luna\",\"categories\":[{\"id\":\"c1\",\"name\":\"Casas\",\"properties\":[{\"title\":\"x\"}]}]}"}]}`)

	cfg, err := gw.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Casa Luna", cfg.Title)
	require.Len(t, cfg.Categories, 1)
	assert.Equal(t, "Casas", cfg.Categories[0].Name)
	assert.False(t, cfg.Categories[0].Listing.Loaded, "remote properties are never trusted as a listing")
}

func TestNocoDBFetch_Unavailable(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"not found":      `{"list":[]}`,
		"invalid string": `{"list":[{"Id":1,"key":"main","value":"{not json"}]}`,
		"null value":     `{"list":[{"Id":1,"key":"main","value":null}]}`,
		"malformed":      `{"rows":[]}`,
	}
	for name, list := range cases {
		t.Run(name, func(t *testing.T) {
			_, gw := newFake(t, list)
			_, err := gw.Fetch(context.Background())
			require.ErrorIs(t, err, ErrUnavailable)
		})
	}
}

func TestNocoDBFetch_MissingCredentials(t *testing.T) {
	t.Parallel()
	gw := NewNocoDB("", "", "", 0)
	_, err := gw.Fetch(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, gw.Update(context.Background(), models.DefaultAppConfig()), ErrPersist)
}

func TestNocoDBUpdate_CreatesMissingRecord(t *testing.T) {
	t.Parallel()
	f, gw := newFake(t, `{"list":[]}`)

	require.NoError(t, gw.Update(context.Background(), models.DefaultAppConfig()))
	require.Equal(t, []string{http.MethodPost}, f.methods)
	assert.Equal(t, "main", f.bodies[0]["key"])

	var stored models.AppConfig
	require.NoError(t, json.Unmarshal([]byte(f.bodies[0]["value"].(string)), &stored))
	assert.Equal(t, "Inmobiliaria Moderna", stored.Title)
}

func TestNocoDBUpdate_ResolvesPrimaryKey(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		list   string
		column string
	}{
		{"upper Id", `{"list":[{"Id":12,"key":"main","value":"{}"}]}`, "Id"},
		{"lower id", `{"list":[{"id":"rec9","key":"main","value":"{}"}]}`, "id"},
		{"null Id falls back", `{"list":[{"Id":null,"id":5,"key":"main","value":"{}"}]}`, "id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, gw := newFake(t, tc.list)
			require.NoError(t, gw.Update(context.Background(), models.DefaultAppConfig()))
			require.Equal(t, []string{http.MethodPatch}, f.methods)
			assert.Contains(t, f.bodies[0], tc.column)
			assert.IsType(t, "", f.bodies[0]["value"])
		})
	}
}

func TestNocoDBUpdate_Failures(t *testing.T) {
	t.Parallel()

	_, gw := newFake(t, `{"list":[{"key":"main","value":"{}"}]}`)
	require.ErrorIs(t, gw.Update(context.Background(), models.DefaultAppConfig()), ErrPersist)

	f, gw := newFake(t, `{"list":[{"Id":1,"key":"main"}]}`)
	f.mu.Lock()
	f.status = http.StatusInternalServerError
	f.mu.Unlock()
	require.ErrorIs(t, gw.Update(context.Background(), models.DefaultAppConfig()), ErrPersist)
}

func TestEncodeDocument_DropsListings(t *testing.T) {
	t.Parallel()
	cfg := models.DefaultAppConfig()
	cfg.Categories = []models.Category{{
		ID: "c1", Name: "Casas",
		Listing: models.LoadedListing([]models.Property{{Title: "x"}}),
	}}

	doc, err := encodeDocument(cfg)
	require.NoError(t, err)
	assert.NotContains(t, doc, "properties")
	assert.True(t, cfg.Categories[0].Listing.Loaded, "caller's config is untouched")
}
