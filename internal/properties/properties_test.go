package properties

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inmobiliaria/storefront/internal/nocodb"
)

const sampleRow = `{
	"Id": 7,
	"Nombre de la Propiedad": "Casa Moderna",
	"Ubicación (Ciudad - Zona - Sector - Barrio)": "Bogotá - Norte",
	"Número de Habitaciones": 3,
	"Número de Baños": 2,
	"Precio de Venta": null,
	"Precio de Alquiler": 2500000,
	"Foto Destacada": [{"signedUrl": "https://img/a.jpg", "thumbnails": {"card_cover": {"signedUrl": "https://img/a-thumb.jpg"}}}],
	"Fotos de la Propiedad": [{"signedUrl": "https://img/a.jpg"}, {"signedUrl": "https://img/b.jpg"}],
	"Descripción Semantica": "Luminosa",
	"Categoría": "Casas",
	"Tipo de Propiedad": "Casa",
	"Modalidad": "Arriendo",
	"Disponibilidad": "Disponible",
	"Área": "120 m2",
	"Parqueadero": true,
	"Piscina": "",
	"Estrato": null,
	"CreatedAt": "2024-01-01"
}`

func decodeRow(t *testing.T, raw string) nocodb.Record {
	t.Helper()
	var rec nocodb.Record
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))
	return rec
}

func TestMapRecord(t *testing.T) {
	t.Parallel()
	p := MapRecord(decodeRow(t, sampleRow))

	assert.Equal(t, "7", p.ID)
	assert.Equal(t, "Casa Moderna", p.Title)
	assert.Equal(t, "Bogotá - Norte", p.Location)
	assert.Equal(t, 3, p.Bedrooms)
	assert.Equal(t, 2, p.Bathrooms)
	assert.Equal(t, 2500000.0, p.Price)
	assert.Equal(t, "https://img/a-thumb.jpg", p.MainImage)
	assert.Equal(t, []string{"https://img/a.jpg", "https://img/b.jpg"}, p.Images)
	assert.Equal(t, "Casas", p.Category)
	assert.Equal(t, "Arriendo", p.Modality)

	assert.Equal(t, "120 m2", p.Details["Área"])
	assert.Equal(t, true, p.Details["Parqueadero"])
	assert.NotContains(t, p.Details, "Piscina")
	assert.NotContains(t, p.Details, "Estrato")
	assert.NotContains(t, p.Details, "CreatedAt")
	assert.NotContains(t, p.Details, ColTitle)
	assert.Equal(t, 3.0, p.Details["Habitaciones"])
	assert.Equal(t, "Casa", p.Details["Tipo"])
}

func TestMapRecord_Fallbacks(t *testing.T) {
	t.Parallel()
	p := MapRecord(nocodb.Record{"id": "rec1", "Nombre de la Propiedad": "Lote"})
	assert.Equal(t, "rec1", p.ID)
	assert.Equal(t, 0.0, p.Price)
	assert.Equal(t, PlaceholderImage, p.MainImage)
	assert.Equal(t, []string{PlaceholderImage}, p.Images)
	assert.Equal(t, Uncategorized, p.Category)
	// mirrored keys exist even without a remote value
	assert.Contains(t, p.Details, "Baños")
	assert.Nil(t, p.Details["Baños"])

	p = MapRecord(nocodb.Record{"Nombre de la Propiedad": "Sin id", "Precio de Venta": "350000000"})
	assert.Equal(t, "Sin id", p.ID)
	assert.Equal(t, 350000000.0, p.Price)

	p = MapRecord(nocodb.Record{"Foto Destacada": []any{map[string]any{"signedUrl": "https://img/x.jpg"}}})
	assert.Equal(t, "https://img/x.jpg", p.MainImage)
	assert.Equal(t, []string{"https://img/x.jpg"}, p.Images)
}

func TestMapRecord_Idempotent(t *testing.T) {
	t.Parallel()
	a := MapRecord(decodeRow(t, sampleRow))
	b := MapRecord(decodeRow(t, sampleRow))
	assert.Equal(t, a, b)

	seen := map[string]bool{}
	for _, img := range a.Images {
		assert.False(t, seen[img], "duplicate image %s", img)
		seen[img] = true
	}
}

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()
	var gotPath, gotWhere, gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotWhere = r.URL.Query().Get("where")
		gotLimit = r.URL.Query().Get("limit")
		_, _ = io.WriteString(w, `{"list":[`+sampleRow+`]}`)
	}))
	defer srv.Close()

	f := NewFetcher(0)
	params := Params{URL: srv.URL, APIKey: "k", Database: "db", Table: "tbl"}

	props, err := f.Fetch(context.Background(), params, "", 0)
	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.Equal(t, "/api/v2/tables/tbl/records", gotPath)
	assert.Equal(t, "(Disponibilidad,eq,Disponible)", gotWhere)
	assert.Empty(t, gotLimit)

	params.Database = ""
	_, err = f.FetchByCategory(context.Background(), params, "Casas")
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/db/data/tbl", gotPath)
	assert.Equal(t, "(Categoría,eq,Casas)~and(Disponibilidad,eq,Disponible)", gotWhere)

	require.NoError(t, f.Probe(context.Background(), params))
	assert.Equal(t, "1", gotLimit)
}

func TestFetcher_Errors(t *testing.T) {
	t.Parallel()
	f := NewFetcher(0)

	_, err := f.Fetch(context.Background(), Params{}, "", 0)
	require.ErrorIs(t, err, ErrFetch)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("limit") == "1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"rows":[]}`)
	}))
	defer srv.Close()
	params := Params{URL: srv.URL, APIKey: "k", Table: "tbl"}

	_, err = f.Fetch(context.Background(), params, "", 0)
	require.ErrorIs(t, err, ErrFetch)

	err = f.Probe(context.Background(), params)
	require.ErrorIs(t, err, ErrFetch)
}
