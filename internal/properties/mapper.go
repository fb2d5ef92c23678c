package properties

import (
	"encoding/json"
	"slices"
	"strconv"

	"github.com/inmobiliaria/storefront/internal/models"
	"github.com/inmobiliaria/storefront/internal/nocodb"
)

// Remote column names
const (
	ColID           = "Id"
	ColIDLower      = "id"
	ColTitle        = "Nombre de la Propiedad"
	ColLocation     = "Ubicación (Ciudad - Zona - Sector - Barrio)"
	ColBedrooms     = "Número de Habitaciones"
	ColBathrooms    = "Número de Baños"
	ColSalePrice    = "Precio de Venta"
	ColRentalPrice  = "Precio de Alquiler"
	ColFeatured     = "Foto Destacada"
	ColPhotos       = "Fotos de la Propiedad"
	ColDescription  = "Descripción Semantica"
	ColCategory     = "Categoría"
	ColType         = "Tipo de Propiedad"
	ColModality     = "Modalidad"
	ColAvailability = "Disponibilidad"
)

// Available is the availability value listed on the storefront
const Available = "Disponible"

// PlaceholderImage is used when a row has no featured photo
const PlaceholderImage = "https://images.pexels.com/photos/106399/pexels-photo-106399.jpeg?auto=compress&cs=tinysrgb&w=800"

// Uncategorized is the category of rows without one
const Uncategorized = "Sin categoría"

// knownFields never enter Property.Details
var knownFields = map[string]bool{
	ColID: true, ColIDLower: true, ColTitle: true, ColLocation: true,
	ColBedrooms: true, ColBathrooms: true, ColSalePrice: true, ColRentalPrice: true,
	ColFeatured: true, ColPhotos: true, ColDescription: true, ColCategory: true,
	ColType: true, ColModality: true, ColAvailability: true,
	"Title": true, "CreatedAt": true, "UpdatedAt": true,
}

// mirrored detail keys, always present in Details
var mirrored = [][2]string{
	{"Habitaciones", ColBedrooms},
	{"Baños", ColBathrooms},
	{"Tipo", ColType},
	{"Modalidad", ColModality},
}

type attachment struct {
	SignedURL  string `json:"signedUrl"`
	Thumbnails struct {
		CardCover struct {
			SignedURL string `json:"signedUrl"`
		} `json:"card_cover"`
	} `json:"thumbnails"`
}

// MapRecord converts one remote row into a Property. It has no side effects and
// returns equal values for equal rows.
func MapRecord(rec nocodb.Record) models.Property {
	featured := attachments(rec[ColFeatured])
	photos := attachments(rec[ColPhotos])

	p := models.Property{
		ID:          firstString(rec[ColID], rec[ColIDLower], rec[ColTitle]),
		Title:       str(rec[ColTitle]),
		Location:    str(rec[ColLocation]),
		Bedrooms:    int(number(rec[ColBedrooms])),
		Bathrooms:   int(number(rec[ColBathrooms])),
		Price:       firstNumber(rec[ColSalePrice], rec[ColRentalPrice]),
		MainImage:   PlaceholderImage,
		Description: str(rec[ColDescription]),
		Category:    orDefault(str(rec[ColCategory]), Uncategorized),
		Type:        str(rec[ColType]),
		Modality:    str(rec[ColModality]),
		Details:     models.Details{},
	}

	var images []string
	if len(featured) > 0 {
		switch {
		case featured[0].Thumbnails.CardCover.SignedURL != "":
			p.MainImage = featured[0].Thumbnails.CardCover.SignedURL
		case featured[0].SignedURL != "":
			p.MainImage = featured[0].SignedURL
		}
		if featured[0].SignedURL != "" {
			images = append(images, featured[0].SignedURL)
		}
	}
	for _, photo := range photos {
		if photo.SignedURL != "" {
			images = append(images, photo.SignedURL)
		}
	}
	p.Images = dedupe(images)
	if len(p.Images) == 0 {
		p.Images = []string{p.MainImage}
	}

	for key, v := range rec {
		if knownFields[key] || v == nil || v == "" {
			continue
		}
		p.Details[key] = v
	}
	for _, m := range mirrored {
		p.Details[m[0]] = rec[m[1]]
	}

	return p
}

func attachments(v any) []attachment {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out []attachment
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

func str(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

// firstString returns the first non-empty, non-zero candidate as a string
func firstString(candidates ...any) string {
	for _, c := range candidates {
		if n, ok := c.(float64); ok && n == 0 {
			continue
		}
		if s := str(c); s != "" {
			return s
		}
	}
	return ""
}

func number(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case json.Number:
		f, _ := t.Float64()
		return f
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func firstNumber(candidates ...any) float64 {
	for _, c := range candidates {
		if n := number(c); n != 0 {
			return n
		}
	}
	return 0
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
