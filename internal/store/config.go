package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/inmobiliaria/storefront/internal/metrics"
	"github.com/inmobiliaria/storefront/internal/models"
)

var (
	// ErrCategoryNotFound is returned when an action names an unknown category id
	ErrCategoryNotFound = errors.New("category not found")
	// ErrQuestionNotFound is returned when an action names an unknown quick question id
	ErrQuestionNotFound = errors.New("quick question not found")
)

var validate = validator.New()

// FetchAndSetConfig loads the remote configuration. On failure the defaults are used
// (keeping any locally cached categories) and the error banner is set.
func (s *Store) FetchAndSetConfig(ctx context.Context) error {
	s.SetLoading(true)

	callCtx, cancel := s.callContext(ctx)
	cfg, err := s.deps.Config.Fetch(callCtx)
	cancel()
	metrics.ObserveGateway(metrics.GatewayConfigFetch, err)

	if err != nil {
		s.log.Warn().Err(err).Msg("failed to fetch config, using defaults")
		s.update(func(st *State) {
			fallback := models.DefaultAppConfig()
			fallback.Categories = st.Config.WithoutListings().Categories
			if fallback.Categories == nil {
				fallback.Categories = []models.Category{}
			}
			st.Config = fallback
			st.Error = MsgConfigLoadFailed
			st.IsLoading = false
		})
		return err
	}

	if cfg.Categories == nil {
		cfg.Categories = []models.Category{}
	}
	s.update(func(st *State) {
		cfg.Categories = carryListings(st.Config.Categories, cfg.Categories)
		st.Config = cfg
		st.IsLoading = false
	})
	s.log.Info().Int("categories", len(cfg.Categories)).Msg("config loaded")
	s.saveLocal()
	return nil
}

// carryListings keeps already loaded listings for categories that are unchanged in next
func carryListings(prev, next []models.Category) []models.Category {
	for i, c := range next {
		for _, p := range prev {
			if p.ID == c.ID && p.Name == c.Name {
				next[i].Listing = p.Listing.Clone()
				break
			}
		}
	}
	return next
}

// UpdateAndSaveConfig applies mutate to the config immediately, then persists the whole
// document. When persisting fails the config is rolled back and the error banner is set;
// category listings loaded during the save are kept.
func (s *Store) UpdateAndSaveConfig(ctx context.Context, mutate func(cfg *models.AppConfig)) error {
	err := optimistic(ctx, s,
		func(st *State) *models.AppConfig { return &st.Config },
		mutate,
		func(ctx context.Context, cfg models.AppConfig) error {
			callCtx, cancel := s.callContext(ctx)
			defer cancel()
			err := s.deps.Config.Update(callCtx, cfg.WithoutListings())
			metrics.ObserveGateway(metrics.GatewayConfigUpdate, err)
			return err
		},
		// listings loaded while the save was in flight survive the rollback
		func(current, snapshot models.AppConfig) models.AppConfig {
			snapshot.Categories = carryListings(current.Categories, snapshot.Categories)
			return snapshot
		},
		MsgConfigSaveFailed,
	)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to save config, rolled back")
		return err
	}
	s.saveLocal()
	return nil
}

// Config returns a copy of the current configuration
func (s *Store) Config() models.AppConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Config.Clone()
}

// Categories returns a copy of the current categories
func (s *Store) Categories() []models.Category {
	return s.Config().Categories
}

// SetCategories replaces the categories locally without touching the remote document
func (s *Store) SetCategories(cats []models.Category) {
	next := make([]models.Category, len(cats))
	for i, c := range cats {
		next[i] = c.Clone()
	}
	s.update(func(st *State) { st.Config.Categories = next })
	s.saveLocal()
}

// SetCategoryProperties marks the category's listing as loaded with props.
// Unknown ids are ignored.
func (s *Store) SetCategoryProperties(id string, props []models.Property) {
	items := make([]models.Property, len(props))
	for i, p := range props {
		items[i] = p.Clone()
	}
	s.update(func(st *State) {
		if i := st.Config.FindCategory(id); i >= 0 {
			st.Config.Categories[i].Listing = models.LoadedListing(items)
		}
	})
}

// NewCategoryID returns an id for a user-created category
func (s *Store) NewCategoryID(name string) string {
	return fmt.Sprintf("cat-%s-%d", models.CategorySlug(strings.TrimSpace(name)), s.now().UnixMilli())
}

// AddCategory adds c (replacing a category with the same id) and saves the config.
// The category's listing is loaded and empty unless c already carries one.
func (s *Store) AddCategory(ctx context.Context, c models.Category) error {
	c = c.Clone()
	if c.ID == "" {
		c.ID = s.NewCategoryID(c.Name)
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid category: %w", err)
	}
	if !c.Listing.Loaded {
		c.Listing = models.LoadedListing(c.Listing.Items)
	}

	return s.UpdateAndSaveConfig(ctx, func(cfg *models.AppConfig) {
		if i := cfg.FindCategory(c.ID); i >= 0 {
			cfg.Categories[i] = c
			return
		}
		cfg.Categories = append(cfg.Categories, c)
	})
}

// UpdateCategory edits the category with the given id and saves the config.
// Renaming a category invalidates its listing since the name is the remote filter.
func (s *Store) UpdateCategory(ctx context.Context, id string, edit func(c *models.Category)) error {
	current := s.Config()
	i := current.FindCategory(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
	}
	edited := current.Categories[i].Clone()
	edit(&edited)
	edited.ID = id
	if err := validate.Struct(edited); err != nil {
		return fmt.Errorf("invalid category: %w", err)
	}
	if edited.Name != current.Categories[i].Name {
		edited.Listing = models.Listing{}
	}

	return s.UpdateAndSaveConfig(ctx, func(cfg *models.AppConfig) {
		if j := cfg.FindCategory(id); j >= 0 {
			cfg.Categories[j] = edited
		}
	})
}

// DeleteCategory removes the category with the given id and saves the config
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	if s.Config().FindCategory(id) < 0 {
		return fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
	}
	return s.UpdateAndSaveConfig(ctx, func(cfg *models.AppConfig) {
		cfg.Categories = slices.DeleteFunc(cfg.Categories, func(c models.Category) bool { return c.ID == id })
	})
}

// SaveQuickQuestion inserts q, or replaces the question with the same id, and saves the config
func (s *Store) SaveQuickQuestion(ctx context.Context, q models.QuickQuestion) error {
	q.Text = strings.TrimSpace(q.Text)
	if q.ID == "" {
		q.ID = s.nextID("q")
	}
	if err := validate.Struct(q); err != nil {
		return fmt.Errorf("invalid quick question: %w", err)
	}

	return s.UpdateAndSaveConfig(ctx, func(cfg *models.AppConfig) {
		i := slices.IndexFunc(cfg.QuickQuestions, func(x models.QuickQuestion) bool { return x.ID == q.ID })
		if i >= 0 {
			cfg.QuickQuestions[i] = q
			return
		}
		cfg.QuickQuestions = append(cfg.QuickQuestions, q)
	})
}

// DeleteQuickQuestion removes a quick question and saves the config
func (s *Store) DeleteQuickQuestion(ctx context.Context, id string) error {
	if !slices.ContainsFunc(s.Config().QuickQuestions, func(x models.QuickQuestion) bool { return x.ID == id }) {
		return fmt.Errorf("%w: %s", ErrQuestionNotFound, id)
	}
	return s.UpdateAndSaveConfig(ctx, func(cfg *models.AppConfig) {
		cfg.QuickQuestions = slices.DeleteFunc(cfg.QuickQuestions, func(x models.QuickQuestion) bool { return x.ID == id })
	})
}

// AddVisibleDetail appends a detail field to the display allow-list and saves the config.
// Blank and already listed names are ignored.
func (s *Store) AddVisibleDetail(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" || slices.Contains(s.Config().VisibleDetails, name) {
		return nil
	}
	return s.UpdateAndSaveConfig(ctx, func(cfg *models.AppConfig) {
		cfg.VisibleDetails = append(cfg.VisibleDetails, name)
	})
}

// RemoveVisibleDetail drops a detail field from the display allow-list and saves the config
func (s *Store) RemoveVisibleDetail(ctx context.Context, name string) error {
	if !slices.Contains(s.Config().VisibleDetails, name) {
		return nil
	}
	return s.UpdateAndSaveConfig(ctx, func(cfg *models.AppConfig) {
		cfg.VisibleDetails = slices.DeleteFunc(cfg.VisibleDetails, func(x string) bool { return x == name })
	})
}
