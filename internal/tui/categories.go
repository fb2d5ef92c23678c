package tui

import (
	"context"
	"fmt"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/inmobiliaria/storefront/internal/models"
)

// categoryColors is the palette offered for category headings
var categoryColors = []string{"#3b82f6", "#10b981", "#f59e0b", "#ef4444", "#8b5cf6", "#ec4899"}

// CategoriesView manages the storefront categories
type CategoriesView struct {
	app      *App
	selected int
	prompt   prompt
}

// NewCategoriesView creates the category admin view
func NewCategoriesView(app *App) *CategoriesView {
	return &CategoriesView{app: app, prompt: newPrompt()}
}

func (cv *CategoriesView) enter() tea.Cmd { return nil }
func (cv *CategoriesView) leave()         { cv.prompt.close() }
func (cv *CategoriesView) typing() bool   { return cv.prompt.active }

func (cv *CategoriesView) escape() bool {
	if cv.prompt.active {
		cv.prompt.close()
		return true
	}
	return false
}

func (cv *CategoriesView) update(msg tea.Msg) tea.Cmd {
	if cv.prompt.active {
		return cv.prompt.update(msg)
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok || !cv.app.state.IsAuthenticated {
		return nil
	}

	cats := cv.app.state.Config.Categories
	store := cv.app.store

	switch key.String() {
	case "up", "k":
		if cv.selected > 0 {
			cv.selected--
		}
	case "down", "j":
		if cv.selected < len(cats)-1 {
			cv.selected++
		}
	case "a":
		color := categoryColors[len(cats)%len(categoryColors)]
		return cv.prompt.open("Nueva categoría", "", func(name string) tea.Cmd {
			return cv.app.run("Categoría agregada", func(ctx context.Context) error {
				return store.AddCategory(ctx, models.Category{Name: name, Color: color})
			})
		})
	case "e":
		if cv.selected >= len(cats) {
			return nil
		}
		id := cats[cv.selected].ID
		return cv.prompt.open("Renombrar categoría", cats[cv.selected].Name, func(name string) tea.Cmd {
			return cv.app.run("Categoría actualizada", func(ctx context.Context) error {
				if err := store.UpdateCategory(ctx, id, func(c *models.Category) { c.Name = name }); err != nil {
					return err
				}
				return store.LoadCategoryProperties(ctx)
			})
		})
	case "c":
		if cv.selected >= len(cats) {
			return nil
		}
		c := cats[cv.selected]
		next := categoryColors[(slices.Index(categoryColors, c.Color)+1)%len(categoryColors)]
		return cv.app.run("Color actualizado", func(ctx context.Context) error {
			return store.UpdateCategory(ctx, c.ID, func(c *models.Category) { c.Color = next })
		})
	case "d":
		if cv.selected >= len(cats) {
			return nil
		}
		id := cats[cv.selected].ID
		return cv.app.run("Categoría eliminada", func(ctx context.Context) error {
			return store.DeleteCategory(ctx, id)
		})
	}
	return nil
}

func (cv *CategoriesView) view() string {
	s := cv.app.styles
	st := cv.app.state
	if !st.IsAuthenticated {
		return s.muted.Render("Inicia sesión en Configuración [4] para administrar las categorías.")
	}

	cats := st.Config.Categories
	cv.selected = min(cv.selected, max(len(cats)-1, 0))

	var lines []string
	if len(cats) == 0 {
		lines = append(lines, s.muted.Render("No hay categorías. Presiona a para agregar una."))
	}
	for i, c := range cats {
		count := "sin cargar"
		if c.Listing.Loaded {
			count = fmt.Sprintf("%d propiedades", len(c.Listing.Items))
		}
		line := fmt.Sprintf("%s  %s", s.category(c).Render(c.Name), s.muted.Render(c.Color+" · "+count))
		if i == cv.selected {
			line = s.selected.Render("> ") + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}

	lines = append(lines, "")
	if cv.prompt.active {
		lines = append(lines, cv.prompt.view(s), "", cv.app.help("Enter: Guardar | Esc: Cancelar"))
	} else {
		lines = append(lines, cv.app.help("j/k: Navegar | a: Agregar | e: Renombrar | c: Color | d: Eliminar"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
