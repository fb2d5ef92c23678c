package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetails_Display(t *testing.T) {
	t.Parallel()
	d := Details{
		"Área":         "180m²",
		"Habitaciones": 3.0,
		"Parqueadero":  true,
		"Jardín":       false,
		"Piso":         8,
		"Vacío":        nil,
	}

	assert.Equal(t, "180m²", d.Display("Área"))
	assert.Equal(t, "3", d.Display("Habitaciones"))
	assert.Equal(t, "Sí", d.Display("Parqueadero"))
	assert.Equal(t, "No", d.Display("Jardín"))
	assert.Equal(t, "8", d.Display("Piso"))
	assert.Empty(t, d.Display("Vacío"))
	assert.Empty(t, d.Display("Estrato"))
}

func TestDetails_Visible(t *testing.T) {
	t.Parallel()
	d := Details{"Área": "85m²", "Baños": 2.0, "Ascensor": "Sí"}

	got := d.Visible([]string{"Baños", "Parqueadero", "Área"})
	assert.Equal(t, [][2]string{{"Baños", "2"}, {"Área", "85m²"}}, got)
	assert.Empty(t, d.Visible(nil))
}

func TestAppConfig_CloneIsIndependent(t *testing.T) {
	t.Parallel()
	cfg := DefaultAppConfig()
	cfg.Categories = []Category{{
		ID:      "c1",
		Name:    "Casas",
		Listing: LoadedListing([]Property{{Title: "Casa", Images: []string{"a"}, Details: Details{"Área": "1"}}}),
	}}

	clone := cfg.Clone()
	clone.QuickQuestions[0].Text = "otra"
	clone.VisibleDetails[0] = "otro"
	clone.Categories[0].Name = "Lotes"
	clone.Categories[0].Listing.Items[0].Images[0] = "b"
	clone.Categories[0].Listing.Items[0].Details["Área"] = "2"

	assert.Equal(t, "¿Qué casas hay en venta?", cfg.QuickQuestions[0].Text)
	assert.Equal(t, "Área", cfg.VisibleDetails[0])
	assert.Equal(t, "Casas", cfg.Categories[0].Name)
	assert.Equal(t, "a", cfg.Categories[0].Listing.Items[0].Images[0])
	assert.Equal(t, "1", cfg.Categories[0].Listing.Items[0].Details["Área"])
}

func TestAppConfig_WithoutListings(t *testing.T) {
	t.Parallel()
	cfg := DefaultAppConfig()
	cfg.Categories = []Category{{ID: "c1", Name: "Casas", Listing: LoadedListing(nil)}}

	out := cfg.WithoutListings()
	require.Len(t, out.Categories, 1)
	assert.False(t, out.Categories[0].Listing.Loaded)
	assert.True(t, cfg.Categories[0].Listing.Loaded, "the receiver is untouched")
}

func TestLoadedListing(t *testing.T) {
	t.Parallel()
	l := LoadedListing(nil)
	assert.True(t, l.Loaded)
	assert.NotNil(t, l.Items)
	assert.Empty(t, l.Items)

	var zero Listing
	assert.False(t, zero.Loaded)
}

func TestCategorySlug(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "casas-de-lujo", CategorySlug("Casas  de Lujo"))
	assert.Equal(t, "lotes", CategorySlug("Lotes"))
}

func TestAppConfig_Helpers(t *testing.T) {
	t.Parallel()
	cfg := DefaultAppConfig()
	assert.True(t, cfg.IsEmbeddedChat())
	cfg.ChatDisplayMode = ChatModeWidget
	assert.False(t, cfg.IsEmbeddedChat())

	cfg.Categories = []Category{{ID: "a"}, {ID: "b"}}
	assert.Equal(t, 1, cfg.FindCategory("b"))
	assert.Equal(t, -1, cfg.FindCategory("z"))
}
