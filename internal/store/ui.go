package store

import "github.com/inmobiliaria/storefront/internal/models"

// OpenPropertyModal selects p for the detail view
func (s *Store) OpenPropertyModal(p models.Property) {
	p = p.Clone()
	s.update(func(st *State) {
		st.SelectedProperty = &p
		st.IsPropertyModalOpen = true
	})
}

// ClosePropertyModal clears the selected property
func (s *Store) ClosePropertyModal() {
	s.update(func(st *State) {
		st.SelectedProperty = nil
		st.IsPropertyModalOpen = false
	})
}

// OpenImageModal shows url in the image viewer. The property modal is left as is.
func (s *Store) OpenImageModal(url string) {
	s.update(func(st *State) {
		st.IsImageModalOpen = true
		st.ImageModalURL = url
	})
}

// CloseImageModal hides the image viewer
func (s *Store) CloseImageModal() {
	s.update(func(st *State) {
		st.IsImageModalOpen = false
		st.ImageModalURL = ""
	})
}

// ToggleChat opens or closes the chat widget
func (s *Store) ToggleChat() {
	s.update(func(st *State) { st.IsChatOpen = !st.IsChatOpen })
}
