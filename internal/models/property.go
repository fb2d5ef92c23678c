package models

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Property is a normalized real-estate listing
type Property struct {
	ID          string   `json:"id,omitempty"`
	Title       string   `json:"title"`
	Location    string   `json:"location"`
	Bedrooms    int      `json:"bedrooms"`
	Bathrooms   int      `json:"bathrooms,omitempty"`
	Price       float64  `json:"price"`
	MainImage   string   `json:"mainImage"`
	Images      []string `json:"images"`
	Description string   `json:"description"`
	Category    string   `json:"category,omitempty"`
	Type        string   `json:"type,omitempty"`
	Modality    string   `json:"modality,omitempty"`
	Details     Details  `json:"details"`
}

// Clone returns a deep copy of the property. Detail values are copied shallowly.
func (p Property) Clone() Property {
	out := p
	out.Images = slices.Clone(p.Images)
	out.Details = maps.Clone(p.Details)
	return out
}

// Details holds the remote fields that have no named Property field
type Details map[string]any

// Display formats a detail value for rendering; missing and nil values render empty.
func (d Details) Display(key string) string {
	v, ok := d[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "Sí"
		}
		return "No"
	default:
		return fmt.Sprint(t)
	}
}

// Visible returns the (key, value) pairs allowed by the visible-details list, in list order.
// Keys with no displayable value are skipped.
func (d Details) Visible(allow []string) [][2]string {
	var out [][2]string
	for _, key := range allow {
		if s := d.Display(key); s != "" {
			out = append(out, [2]string{key, s})
		}
	}
	return out
}

// Category groups properties for display and is also a filter key against the property store.
type Category struct {
	ID      string  `json:"id" validate:"required"`
	Name    string  `json:"name" validate:"required"`
	Color   string  `json:"color,omitempty"`
	Listing Listing `json:"-"`
}

// Clone returns a deep copy of the category including its listing
func (c Category) Clone() Category {
	out := c
	out.Listing = c.Listing.Clone()
	return out
}

// Listing is the load state of a category's properties.
// The zero value means the properties have not been fetched yet.
type Listing struct {
	Loaded bool
	Items  []Property
}

// LoadedListing builds a listing for fetched properties; nil becomes an empty, loaded listing.
func LoadedListing(items []Property) Listing {
	if items == nil {
		items = []Property{}
	}
	return Listing{Loaded: true, Items: items}
}

// Clone returns a deep copy of the listing
func (l Listing) Clone() Listing {
	if l.Items == nil {
		return l
	}
	items := make([]Property, len(l.Items))
	for i, p := range l.Items {
		items[i] = p.Clone()
	}
	return Listing{Loaded: l.Loaded, Items: items}
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// CategorySlug lower-cases name and replaces whitespace runs with dashes
func CategorySlug(name string) string {
	return strings.ToLower(whitespaceRun.ReplaceAllString(name, "-"))
}
