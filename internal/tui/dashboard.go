package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/inmobiliaria/storefront/internal/models"
)

// DashboardView lists every category with its properties
type DashboardView struct {
	app    *App
	cursor int
}

// NewDashboardView creates the storefront listing view
func NewDashboardView(app *App) *DashboardView {
	return &DashboardView{app: app}
}

func (dv *DashboardView) enter() tea.Cmd { return nil }
func (dv *DashboardView) leave()         {}
func (dv *DashboardView) typing() bool   { return false }

// properties flattens the loaded listings in display order
func (dv *DashboardView) properties() []models.Property {
	var out []models.Property
	for _, c := range dv.app.state.Config.Categories {
		out = append(out, c.Listing.Items...)
	}
	return out
}

func (dv *DashboardView) update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	props := dv.properties()

	switch key.String() {
	case "up", "k":
		if dv.cursor > 0 {
			dv.cursor--
		}
	case "down", "j":
		if dv.cursor < len(props)-1 {
			dv.cursor++
		}
	case "enter", " ":
		if dv.cursor < len(props) {
			dv.app.store.OpenPropertyModal(props[dv.cursor])
			return dv.app.switchTo(pageProperty)
		}
	case "r":
		return dv.app.run("Propiedades actualizadas", dv.app.store.ReloadCategoryProperties)
	case "R":
		return dv.app.run("Configuración recargada", func(ctx context.Context) error {
			if err := dv.app.store.FetchAndSetConfig(ctx); err != nil {
				return err
			}
			return dv.app.store.LoadCategoryProperties(ctx)
		})
	}
	return nil
}

func (dv *DashboardView) view() string {
	s := dv.app.styles
	cats := dv.app.state.Config.Categories
	if dv.cursor >= len(dv.properties()) {
		dv.cursor = max(0, len(dv.properties())-1)
	}

	var lines []string
	if len(cats) == 0 {
		lines = append(lines, s.muted.Render("No hay categorías configuradas."))
	}

	i := 0
	for _, c := range cats {
		lines = append(lines, s.category(c).Render(c.Name))
		switch {
		case !c.Listing.Loaded:
			lines = append(lines, s.muted.Render("  Cargando propiedades..."))
		case len(c.Listing.Items) == 0:
			lines = append(lines, s.muted.Render("  No hay propiedades disponibles en esta categoría."))
		}
		for _, p := range c.Listing.Items {
			line := fmt.Sprintf("%-40s %-32s %s", p.Title, p.Location, formatPrice(p.Price))
			if p.Bedrooms > 0 || p.Bathrooms > 0 {
				line += fmt.Sprintf("  %d hab · %d baños", p.Bedrooms, p.Bathrooms)
			}
			if i == dv.cursor {
				lines = append(lines, s.selected.Render("> "+line))
			} else {
				lines = append(lines, "  "+line)
			}
			i++
		}
		lines = append(lines, "")
	}

	lines = append(lines, dv.app.help("j/k: Navegar | Enter: Ver propiedad | r: Recargar propiedades | R: Recargar todo | Esc: Salir"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
