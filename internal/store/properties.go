package store

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/inmobiliaria/storefront/internal/metrics"
	"github.com/inmobiliaria/storefront/internal/models"
	"github.com/inmobiliaria/storefront/internal/properties"
)

// maxCategoryFetches bounds concurrent per-category property requests
const maxCategoryFetches = 4

// ReloadCategoryProperties marks every listing as not loaded and fetches them again
func (s *Store) ReloadCategoryProperties(ctx context.Context) error {
	s.update(func(st *State) {
		for i := range st.Config.Categories {
			st.Config.Categories[i].Listing = models.Listing{}
		}
	})
	return s.LoadCategoryProperties(ctx)
}

// LoadCategoryProperties fetches the properties of every category whose listing is not
// loaded yet. Each category settles on its own: a failed fetch leaves that category
// loaded and empty. Without a configured property backend and with no categories, the
// demo categories are installed instead.
func (s *Store) LoadCategoryProperties(ctx context.Context) error {
	cfg := s.Config()
	params := properties.ParamsFrom(cfg)

	if !params.Configured() {
		if len(cfg.Categories) == 0 || isDemo(cfg.Categories) {
			s.log.Info().Msg("property backend not configured, installing demo categories")
			s.SetCategories(demoCategories())
		}
		return nil
	}

	var pending []models.Category
	for _, c := range cfg.Categories {
		if !c.Listing.Loaded {
			pending = append(pending, c)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	s.SetLoading(true)
	defer s.SetLoading(false)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxCategoryFetches)
	for _, c := range pending {
		g.Go(func() error {
			callCtx, cancel := s.callContext(gctx)
			defer cancel()

			props, err := s.deps.Properties.FetchByCategory(callCtx, params, c.Name)
			metrics.ObserveGateway(metrics.GatewayProperties, err)
			metrics.CategoryLoad(err)
			if err != nil {
				s.log.Warn().Err(err).Str("category", c.Name).Msg("failed to load category properties")
				props = nil
			}
			s.SetCategoryProperties(c.ID, props)
			return nil
		})
	}
	// fetch failures are absorbed per category, Wait cannot return an error
	g.Wait()

	if err := ctx.Err(); err != nil {
		s.SetError(MsgPropertiesLoadFailed)
		return err
	}
	s.SetError("")
	return nil
}

// TestConnection checks that params reach a readable property table
func (s *Store) TestConnection(ctx context.Context, params properties.Params) error {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	err := s.deps.Properties.Probe(callCtx, params)
	metrics.ObserveGateway(metrics.GatewayProperties, err)
	if err != nil {
		s.log.Warn().Err(err).Str("url", params.URL).Msg("connection test failed")
	}
	return err
}

// isDemo reports whether cats are the demo categories, possibly restored without listings
func isDemo(cats []models.Category) bool {
	demo := demoCategories()
	if len(cats) != len(demo) {
		return false
	}
	for i := range cats {
		if cats[i].ID != demo[i].ID {
			return false
		}
	}
	return true
}

func demoCategories() []models.Category {
	const (
		house     = "https://images.pexels.com/photos/106399/pexels-photo-106399.jpeg?auto=compress&cs=tinysrgb&w=800"
		family    = "https://images.pexels.com/photos/1396122/pexels-photo-1396122.jpeg?auto=compress&cs=tinysrgb&w=800"
		apartment = "https://images.pexels.com/photos/1571460/pexels-photo-1571460.jpeg?auto=compress&cs=tinysrgb&w=800"
	)

	return []models.Category{
		{
			ID:    "casas-venta",
			Name:  "Casas en Venta",
			Color: "#3b82f6",
			Listing: models.LoadedListing([]models.Property{
				{
					ID:          "1",
					Title:       "Casa Moderna en Zona Norte",
					Location:    "Popayán, Norte, Villa del Viento",
					Bedrooms:    3,
					Bathrooms:   2,
					Price:       450000000,
					MainImage:   house,
					Images:      []string{house, family},
					Description: "Hermosa casa moderna con acabados de lujo, ubicada en una de las mejores zonas de la ciudad.",
					Details: models.Details{
						"Área": "180m²", "Tipo": "Casa", "Modalidad": "Venta", "Parqueadero": "Sí",
						"Jardín": "Sí", "Habitaciones": 3.0, "Baños": 2.0,
					},
				},
				{
					ID:          "2",
					Title:       "Casa Familiar en El Centro",
					Location:    "Popayán, Centro, Barrio Colonial",
					Bedrooms:    4,
					Bathrooms:   3,
					Price:       380000000,
					MainImage:   family,
					Images:      []string{family, house},
					Description: "Casa tradicional con amplios espacios, perfecta para familias grandes.",
					Details: models.Details{
						"Área": "220m²", "Tipo": "Casa", "Modalidad": "Venta", "Parqueadero": "Sí",
						"Patio": "Sí", "Habitaciones": 4.0, "Baños": 3.0,
					},
				},
			}),
		},
		{
			ID:    "apartamentos-arriendo",
			Name:  "Apartamentos en Arriendo",
			Color: "#10b981",
			Listing: models.LoadedListing([]models.Property{
				{
					ID:          "3",
					Title:       "Apartamento Moderno Torre Central",
					Location:    "Popayán, Centro, Torre Empresarial",
					Bedrooms:    2,
					Bathrooms:   2,
					Price:       1200000,
					MainImage:   apartment,
					Images:      []string{apartment},
					Description: "Apartamento moderno con excelente ubicación y todas las comodidades.",
					Details: models.Details{
						"Área": "85m²", "Tipo": "Apartamento", "Modalidad": "Arriendo", "Piso": "8",
						"Ascensor": "Sí", "Habitaciones": 2.0, "Baños": 2.0,
					},
				},
			}),
		},
	}
}
