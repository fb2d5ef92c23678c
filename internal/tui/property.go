package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PropertyView shows the selected property with its gallery
type PropertyView struct {
	app   *App
	image int
}

// NewPropertyView creates the property detail view
func NewPropertyView(app *App) *PropertyView {
	return &PropertyView{app: app}
}

func (pv *PropertyView) enter() tea.Cmd {
	pv.image = 0
	return nil
}

func (pv *PropertyView) leave() {
	pv.app.store.CloseImageModal()
	pv.app.store.ClosePropertyModal()
}

func (pv *PropertyView) typing() bool { return false }

// escape closes the image viewer before leaving the page
func (pv *PropertyView) escape() bool {
	if pv.app.state.IsImageModalOpen {
		pv.app.store.CloseImageModal()
		return true
	}
	return false
}

func (pv *PropertyView) update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	p := pv.app.state.SelectedProperty
	if p == nil {
		return nil
	}

	switch key.String() {
	case "left", "h":
		if pv.image > 0 {
			pv.image--
		}
	case "right", "l":
		if pv.image < len(p.Images)-1 {
			pv.image++
		}
	case "enter", " ":
		if pv.image < len(p.Images) {
			pv.app.store.OpenImageModal(p.Images[pv.image])
		}
	case "v":
		title := p.Title
		return tea.Batch(pv.app.switchTo(pageChat), pv.app.chat.requestVisit(title))
	}
	return nil
}

func (pv *PropertyView) view() string {
	s := pv.app.styles
	st := pv.app.state
	p := st.SelectedProperty
	if p == nil {
		return s.muted.Render("Ninguna propiedad seleccionada.")
	}

	if st.IsImageModalOpen {
		return lipgloss.JoinVertical(lipgloss.Left,
			s.box.Render(lipgloss.JoinVertical(lipgloss.Left,
				s.title.Render(p.Title),
				"",
				st.ImageModalURL,
			)),
			"",
			pv.app.help("Esc: Cerrar imagen"),
		)
	}

	width := max(pv.app.width-4, 20)
	lines := []string{
		s.title.Render(p.Title),
		p.Location,
		s.primary.Render(formatPrice(p.Price)),
		fmt.Sprintf("%d habitaciones · %d baños", p.Bedrooms, p.Bathrooms),
		"",
		lipgloss.NewStyle().Width(width).Render(p.Description),
	}

	if details := p.Details.Visible(st.Config.VisibleDetails); len(details) > 0 {
		lines = append(lines, "", s.bold.Render("Detalles"))
		for _, d := range details {
			lines = append(lines, fmt.Sprintf("  %-16s %s", d[0]+":", d[1]))
		}
	}

	if len(p.Images) > 0 {
		pv.image = min(pv.image, len(p.Images)-1)
		lines = append(lines, "", s.bold.Render(fmt.Sprintf("Imágenes (%d/%d)", pv.image+1, len(p.Images))))
		for i, img := range p.Images {
			if i == pv.image {
				lines = append(lines, s.selected.Render("> "+img))
			} else {
				lines = append(lines, s.muted.Render("  "+img))
			}
		}
	}

	lines = append(lines, "", pv.app.help("h/l: Imagen | Enter: Ver imagen | v: Agendar visita | Esc: Volver"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
