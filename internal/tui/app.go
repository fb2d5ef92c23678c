// Package tui renders the storefront in the terminal.
//
// Every screen reads the store's state snapshot and calls store actions; gateway calls
// run inside tea.Cmd goroutines so the event loop never blocks on the network.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/inmobiliaria/storefront/internal/store"
)

type pageID int

const (
	pageDashboard pageID = iota
	pageChat
	pageCategories
	pageActions
	pageSettings
	pageProperty
)

var pageKeys = map[string]pageID{
	"0": pageDashboard,
	"1": pageChat,
	"2": pageCategories,
	"3": pageActions,
	"4": pageSettings,
}

var pageTitles = map[pageID]string{
	pageDashboard:  "Propiedades",
	pageChat:       "Chat",
	pageCategories: "Categorías",
	pageActions:    "Acciones",
	pageSettings:   "Configuración",
	pageProperty:   "Propiedad",
}

// page is one screen of the app
type page interface {
	enter() tea.Cmd
	leave()
	update(msg tea.Msg) tea.Cmd
	view() string
	// typing reports whether a text input owns the keyboard
	typing() bool
}

// escaper is implemented by pages that consume esc before navigation does
type escaper interface {
	escape() bool
}

// stateChangedMsg signals the store published a new state
type stateChangedMsg struct{}

// storeClosedMsg signals the store stopped publishing
type storeClosedMsg struct{}

// opDoneMsg reports the outcome of a background store action
type opDoneMsg struct {
	label string
	err   error
}

// App is the root bubbletea model
type App struct {
	store       *store.Store
	ctx         context.Context
	log         zerolog.Logger
	updates     <-chan struct{}
	unsubscribe func()

	state  store.State
	styles styles
	page   pageID
	pages  map[pageID]page

	status    string
	statusErr bool
	width     int
	height    int

	dashboard  *DashboardView
	chat       *ChatView
	property   *PropertyView
	categories *CategoriesView
	actions    *ActionsView
	settings   *SettingsView
}

// NewApp creates the TUI on top of st
func NewApp(ctx context.Context, st *store.Store, log zerolog.Logger) *App {
	updates, unsubscribe := st.Subscribe()
	a := &App{
		store:       st,
		ctx:         ctx,
		log:         log,
		updates:     updates,
		unsubscribe: unsubscribe,
		state:       st.State(),
		width:       100,
		height:      30,
	}
	a.styles = newStyles(a.state.Config)

	a.dashboard = NewDashboardView(a)
	a.chat = NewChatView(a)
	a.property = NewPropertyView(a)
	a.categories = NewCategoriesView(a)
	a.actions = NewActionsView(a)
	a.settings = NewSettingsView(a)
	a.pages = map[pageID]page{
		pageDashboard:  a.dashboard,
		pageChat:       a.chat,
		pageProperty:   a.property,
		pageCategories: a.categories,
		pageActions:    a.actions,
		pageSettings:   a.settings,
	}
	return a
}

// listen waits for the next store notification
func listen(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return storeClosedMsg{}
		}
		return stateChangedMsg{}
	}
}

// run executes a store action off the event loop
func (a *App) run(label string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{label: label, err: fn(a.ctx)}
	}
}

// Init loads the remote config and then the category listings
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		listen(a.updates),
		a.chat.spinner.Tick,
		a.run("Configuración cargada", func(ctx context.Context) error {
			cfgErr := a.store.FetchAndSetConfig(ctx)
			if err := a.store.LoadCategoryProperties(ctx); err != nil {
				return err
			}
			return cfgErr
		}),
	)
}

// Update routes messages to the active page
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		return a, nil
	case stateChangedMsg:
		a.state = a.store.State()
		a.styles = newStyles(a.state.Config)
		return a, listen(a.updates)
	case storeClosedMsg:
		return a, tea.Quit
	case opDoneMsg:
		a.setStatus(msg)
		return a, nil
	case spinner.TickMsg:
		return a, a.chat.update(msg)
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "esc":
			if e, ok := a.current().(escaper); ok && e.escape() {
				return a, nil
			}
			if a.page == pageDashboard {
				return a, tea.Quit
			}
			return a, a.switchTo(pageDashboard)
		}
		if !a.current().typing() {
			if target, ok := pageKeys[msg.String()]; ok {
				return a, a.switchTo(target)
			}
		}
	}
	return a, a.current().update(msg)
}

func (a *App) current() page {
	return a.pages[a.page]
}

func (a *App) setStatus(msg opDoneMsg) {
	if msg.err != nil {
		a.log.Warn().Err(msg.err).Str("op", msg.label).Msg("operation failed")
		a.status = msg.err.Error()
		a.statusErr = true
		return
	}
	a.status = msg.label
	a.statusErr = false
}

// switchTo leaves the current page and enters target
func (a *App) switchTo(target pageID) tea.Cmd {
	if target == a.page {
		return nil
	}
	a.current().leave()
	a.page = target
	a.status = ""
	return a.current().enter()
}

// View renders the header, the active page and the footer
func (a *App) View() string {
	s := a.styles
	cfg := a.state.Config

	var tabs []string
	for _, id := range []pageID{pageDashboard, pageChat, pageCategories, pageActions, pageSettings} {
		label := "[" + keyFor(id) + "] " + pageTitles[id]
		if id == a.page {
			tabs = append(tabs, s.selected.Render(label))
		} else {
			tabs = append(tabs, s.header.Render(label))
		}
	}

	header := lipgloss.JoinVertical(lipgloss.Left,
		s.title.Render(cfg.Title),
		s.muted.Render(cfg.HeaderTitle),
		strings.Join(tabs, "  "),
	)

	var banner string
	switch {
	case a.state.Error != "":
		banner = s.errorText.Render(a.state.Error)
	case a.state.IsLoading:
		banner = s.muted.Render("Cargando...")
	}

	status := ""
	if a.status != "" {
		if a.statusErr {
			status = s.errorText.Render(a.status)
		} else {
			status = s.secondary.Render(a.status)
		}
	}

	footer := s.footer.Width(a.width).Render(cfg.FooterCompanyName + " · " + cfg.FooterDescription)

	parts := []string{header, ""}
	if banner != "" {
		parts = append(parts, banner, "")
	}
	parts = append(parts, a.current().view(), "")
	if status != "" {
		parts = append(parts, status)
	}
	parts = append(parts, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func keyFor(id pageID) string {
	for k, v := range pageKeys {
		if v == id {
			return k
		}
	}
	return ""
}

// Run starts the event loop and blocks until the user quits
func (a *App) Run() error {
	defer a.unsubscribe()
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// help renders a key hint line
func (a *App) help(text string) string {
	return a.styles.muted.Render(text)
}
