package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/inmobiliaria/storefront/internal/models"
)

type actionSection int

const (
	sectionQuestions actionSection = iota
	sectionDetails
)

// ActionsView manages the quick questions and the visible property details
type ActionsView struct {
	app      *App
	section  actionSection
	selected int
	prompt   prompt
}

// NewActionsView creates the quick actions view
func NewActionsView(app *App) *ActionsView {
	return &ActionsView{app: app, prompt: newPrompt()}
}

func (av *ActionsView) enter() tea.Cmd { return nil }
func (av *ActionsView) leave()         { av.prompt.close() }
func (av *ActionsView) typing() bool   { return av.prompt.active }

func (av *ActionsView) escape() bool {
	if av.prompt.active {
		av.prompt.close()
		return true
	}
	return false
}

func (av *ActionsView) size() int {
	cfg := av.app.state.Config
	if av.section == sectionQuestions {
		return len(cfg.QuickQuestions)
	}
	return len(cfg.VisibleDetails)
}

func (av *ActionsView) update(msg tea.Msg) tea.Cmd {
	if av.prompt.active {
		return av.prompt.update(msg)
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok || !av.app.state.IsAuthenticated {
		return nil
	}
	cfg := av.app.state.Config
	store := av.app.store

	switch key.String() {
	case "tab":
		av.section = 1 - av.section
		av.selected = 0
	case "up", "k":
		if av.selected > 0 {
			av.selected--
		}
	case "down", "j":
		if av.selected < av.size()-1 {
			av.selected++
		}
	case "a":
		if av.section == sectionQuestions {
			return av.prompt.open("Nueva pregunta rápida", "", func(text string) tea.Cmd {
				return av.app.run("Pregunta guardada", func(ctx context.Context) error {
					return store.SaveQuickQuestion(ctx, models.QuickQuestion{Text: text})
				})
			})
		}
		return av.prompt.open("Nuevo detalle visible", "", func(name string) tea.Cmd {
			return av.app.run("Detalle agregado", func(ctx context.Context) error {
				return store.AddVisibleDetail(ctx, name)
			})
		})
	case "e":
		if av.section != sectionQuestions || av.selected >= len(cfg.QuickQuestions) {
			return nil
		}
		q := cfg.QuickQuestions[av.selected]
		return av.prompt.open("Editar pregunta rápida", q.Text, func(text string) tea.Cmd {
			return av.app.run("Pregunta guardada", func(ctx context.Context) error {
				return store.SaveQuickQuestion(ctx, models.QuickQuestion{ID: q.ID, Text: text})
			})
		})
	case "d":
		if av.selected >= av.size() {
			return nil
		}
		if av.section == sectionQuestions {
			id := cfg.QuickQuestions[av.selected].ID
			return av.app.run("Pregunta eliminada", func(ctx context.Context) error {
				return store.DeleteQuickQuestion(ctx, id)
			})
		}
		name := cfg.VisibleDetails[av.selected]
		return av.app.run("Detalle eliminado", func(ctx context.Context) error {
			return store.RemoveVisibleDetail(ctx, name)
		})
	}
	return nil
}

func (av *ActionsView) view() string {
	s := av.app.styles
	st := av.app.state
	if !st.IsAuthenticated {
		return s.muted.Render("Inicia sesión en Configuración [4] para administrar las acciones.")
	}
	av.selected = min(av.selected, max(av.size()-1, 0))

	var questions, details []string
	for _, q := range st.Config.QuickQuestions {
		questions = append(questions, q.Text)
	}
	details = append(details, st.Config.VisibleDetails...)

	lines := []string{
		av.renderSection(s, "Preguntas rápidas", questions, av.section == sectionQuestions),
		"",
		av.renderSection(s, "Detalles visibles", details, av.section == sectionDetails),
		"",
	}
	if av.prompt.active {
		lines = append(lines, av.prompt.view(s), "", av.app.help("Enter: Guardar | Esc: Cancelar"))
	} else {
		lines = append(lines, av.app.help("Tab: Cambiar sección | j/k: Navegar | a: Agregar | e: Editar | d: Eliminar"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (av *ActionsView) renderSection(s styles, title string, items []string, focused bool) string {
	heading := s.header.Render(title)
	if focused {
		heading = s.title.Render(title)
	}
	lines := []string{heading}
	if len(items) == 0 {
		lines = append(lines, s.muted.Render("  (vacío)"))
	}
	for i, item := range items {
		if focused && i == av.selected {
			lines = append(lines, s.selected.Render("> "+item))
		} else {
			lines = append(lines, "  "+item)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
