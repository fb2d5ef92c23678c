package store

import (
	"github.com/inmobiliaria/storefront/internal/localstate"
	"github.com/inmobiliaria/storefront/internal/models"
)

// Restore loads the locally persisted session flag and category metadata.
// Restored categories have unloaded listings.
func (s *Store) Restore() error {
	if s.deps.Local == nil {
		return nil
	}
	snap, err := s.deps.Local.Load()
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to restore local state")
		return err
	}

	cats := make([]models.Category, len(snap.Categories))
	for i, c := range snap.Categories {
		cats[i] = models.Category{ID: c.ID, Name: c.Name, Color: c.Color}
	}
	s.update(func(st *State) {
		st.IsAuthenticated = snap.Authenticated
		st.Config.Categories = cats
	})
	return nil
}

// Login compares the credentials with the configured admin account, falling back to
// the default account when the config leaves them empty.
func (s *Store) Login(username, password string) bool {
	s.mu.Lock()
	cfg := s.state.Config
	wantUser := cfg.AdminUsername
	if wantUser == "" {
		wantUser = models.DefaultAdminUsername
	}
	wantPass := cfg.AdminPassword
	if wantPass == "" {
		wantPass = models.DefaultAdminPassword
	}
	ok := username == wantUser && password == wantPass
	if ok {
		s.state.IsAuthenticated = true
		s.notifyLocked()
	}
	s.mu.Unlock()

	if !ok {
		s.log.Info().Str("username", username).Msg("admin login rejected")
		return false
	}
	s.saveLocal()
	return true
}

// Logout clears the admin session
func (s *Store) Logout() {
	s.update(func(st *State) { st.IsAuthenticated = false })
	s.saveLocal()
}

// saveLocal persists the session flag and category metadata; failures are only logged
func (s *Store) saveLocal() {
	if s.deps.Local == nil {
		return
	}
	s.mu.Lock()
	snap := localstate.Snapshot{
		Authenticated: s.state.IsAuthenticated,
		Categories:    s.state.Config.WithoutListings().Categories,
		SavedAt:       s.now(),
	}
	s.mu.Unlock()

	if err := s.deps.Local.Save(snap); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist local state")
	}
}
