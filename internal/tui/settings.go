package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/inmobiliaria/storefront/internal/models"
	"github.com/inmobiliaria/storefront/internal/properties"
)

// settingsField binds one form input to an AppConfig field
type settingsField struct {
	label  string
	secret bool
	get    func(cfg models.AppConfig) string
	set    func(cfg *models.AppConfig, v string)
}

var settingsFields = []settingsField{
	{label: "Título", get: func(c models.AppConfig) string { return c.Title }, set: func(c *models.AppConfig, v string) { c.Title = v }},
	{label: "Encabezado", get: func(c models.AppConfig) string { return c.HeaderTitle }, set: func(c *models.AppConfig, v string) { c.HeaderTitle = v }},
	{label: "Color primario", get: func(c models.AppConfig) string { return c.PrimaryColor }, set: func(c *models.AppConfig, v string) { c.PrimaryColor = v }},
	{label: "Color secundario", get: func(c models.AppConfig) string { return c.SecondaryColor }, set: func(c *models.AppConfig, v string) { c.SecondaryColor = v }},
	{label: "Mensaje inicial", get: func(c models.AppConfig) string { return c.InitialChatMessage }, set: func(c *models.AppConfig, v string) { c.InitialChatMessage = v }},
	{label: "Modo de chat", get: func(c models.AppConfig) string { return c.ChatDisplayMode }, set: func(c *models.AppConfig, v string) { c.ChatDisplayMode = v }},
	{label: "Webhook", get: func(c models.AppConfig) string { return c.WebhookURL }, set: func(c *models.AppConfig, v string) { c.WebhookURL = v }},
	{label: "NocoDB URL", get: func(c models.AppConfig) string { return c.NocoDBURL }, set: func(c *models.AppConfig, v string) { c.NocoDBURL = v }},
	{label: "NocoDB API key", secret: true, get: func(c models.AppConfig) string { return c.NocoDBAPIKey }, set: func(c *models.AppConfig, v string) { c.NocoDBAPIKey = v }},
	{label: "NocoDB base", get: func(c models.AppConfig) string { return c.NocoDBDatabase }, set: func(c *models.AppConfig, v string) { c.NocoDBDatabase = v }},
	{label: "NocoDB tabla", get: func(c models.AppConfig) string { return c.NocoDBTable }, set: func(c *models.AppConfig, v string) { c.NocoDBTable = v }},
}

// SettingsView is the admin login and the tenant configuration form
type SettingsView struct {
	app      *App
	login    []textinput.Model
	fields   []textinput.Model
	focus    int
	loginErr string
	formErr  string
}

// NewSettingsView creates the settings view
func NewSettingsView(app *App) *SettingsView {
	sv := &SettingsView{app: app}

	user := textinput.New()
	user.Placeholder = "usuario"
	pass := textinput.New()
	pass.Placeholder = "contraseña"
	pass.EchoMode = textinput.EchoPassword
	sv.login = []textinput.Model{user, pass}

	for _, f := range settingsFields {
		in := textinput.New()
		in.Width = 60
		if f.secret {
			in.EchoMode = textinput.EchoPassword
		}
		sv.fields = append(sv.fields, in)
	}
	return sv
}

// inputs returns the inputs of the form currently shown
func (sv *SettingsView) inputs() []textinput.Model {
	if sv.app.state.IsAuthenticated {
		return sv.fields
	}
	return sv.login
}

func (sv *SettingsView) enter() tea.Cmd {
	sv.loginErr, sv.formErr = "", ""
	if sv.app.state.IsAuthenticated {
		sv.loadFields(sv.app.store.Config())
	} else {
		for i := range sv.login {
			sv.login[i].Reset()
		}
	}
	return sv.setFocus(0)
}

func (sv *SettingsView) leave() {
	for i := range sv.login {
		sv.login[i].Blur()
	}
	for i := range sv.fields {
		sv.fields[i].Blur()
	}
}

func (sv *SettingsView) typing() bool { return true }

func (sv *SettingsView) loadFields(cfg models.AppConfig) {
	for i, f := range settingsFields {
		sv.fields[i].SetValue(f.get(cfg))
	}
}

func (sv *SettingsView) setFocus(i int) tea.Cmd {
	inputs := sv.inputs()
	sv.focus = (i + len(inputs)) % len(inputs)
	var cmd tea.Cmd
	for j := range inputs {
		if j == sv.focus {
			cmd = inputs[j].Focus()
		} else {
			inputs[j].Blur()
		}
	}
	return cmd
}

func (sv *SettingsView) update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			return sv.setFocus(sv.focus + 1)
		case "shift+tab", "up":
			return sv.setFocus(sv.focus - 1)
		case "enter":
			if !sv.app.state.IsAuthenticated && sv.focus == len(sv.login)-1 {
				return sv.submitLogin()
			}
			return sv.setFocus(sv.focus + 1)
		}
		if sv.app.state.IsAuthenticated {
			switch key.String() {
			case "ctrl+s":
				return sv.save()
			case "ctrl+t":
				return sv.testConnection()
			case "ctrl+o":
				sv.app.store.Logout()
				sv.app.state = sv.app.store.State()
				return sv.enter()
			}
		}
	}

	inputs := sv.inputs()
	if sv.focus >= len(inputs) {
		return sv.setFocus(0)
	}
	var cmd tea.Cmd
	inputs[sv.focus], cmd = inputs[sv.focus].Update(msg)
	return cmd
}

func (sv *SettingsView) submitLogin() tea.Cmd {
	if !sv.app.store.Login(sv.login[0].Value(), sv.login[1].Value()) {
		sv.loginErr = "Usuario o contraseña incorrectos"
		sv.login[1].Reset()
		return nil
	}
	sv.app.state = sv.app.store.State()
	return sv.enter()
}

// edited applies the form values to a copy of cfg
func (sv *SettingsView) edited(cfg models.AppConfig) models.AppConfig {
	for i, f := range settingsFields {
		f.set(&cfg, sv.fields[i].Value())
	}
	return cfg
}

func (sv *SettingsView) save() tea.Cmd {
	current := sv.app.store.Config()
	next := sv.edited(current.Clone())
	if next.ChatDisplayMode != models.ChatModeEmbedded && next.ChatDisplayMode != models.ChatModeWidget {
		sv.formErr = fmt.Sprintf("Modo de chat inválido: use %q o %q", models.ChatModeEmbedded, models.ChatModeWidget)
		return nil
	}
	sv.formErr = ""
	backendChanged := properties.ParamsFrom(next) != properties.ParamsFrom(current)

	store := sv.app.store
	return sv.app.run("Configuración guardada", func(ctx context.Context) error {
		err := store.UpdateAndSaveConfig(ctx, func(cfg *models.AppConfig) {
			*cfg = sv.editedFrom(*cfg, next)
		})
		if err != nil || !backendChanged {
			return err
		}
		// listings came from the previous backend
		return store.ReloadCategoryProperties(ctx)
	})
}

// editedFrom copies the form-managed fields of next onto cfg
func (sv *SettingsView) editedFrom(cfg, next models.AppConfig) models.AppConfig {
	for _, f := range settingsFields {
		f.set(&cfg, f.get(next))
	}
	return cfg
}

func (sv *SettingsView) testConnection() tea.Cmd {
	params := properties.ParamsFrom(sv.edited(sv.app.store.Config()))
	return sv.app.run("Conexión exitosa", func(ctx context.Context) error {
		return sv.app.store.TestConnection(ctx, params)
	})
}

func (sv *SettingsView) view() string {
	s := sv.app.styles

	if !sv.app.state.IsAuthenticated {
		lines := []string{
			s.title.Render("Acceso de administrador"),
			"",
			"Usuario:    " + sv.login[0].View(),
			"Contraseña: " + sv.login[1].View(),
		}
		if sv.loginErr != "" {
			lines = append(lines, "", s.errorText.Render(sv.loginErr))
		}
		lines = append(lines, "", sv.app.help("Tab: Siguiente campo | Enter: Ingresar | Esc: Volver"))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	lines := []string{s.title.Render("Configuración"), ""}
	for i, f := range settingsFields {
		label := fmt.Sprintf("%-18s", f.label)
		if i == sv.focus {
			label = s.selected.Render(label)
		}
		lines = append(lines, label+" "+sv.fields[i].View())
	}
	if sv.formErr != "" {
		lines = append(lines, "", s.errorText.Render(sv.formErr))
	}
	lines = append(lines, "", sv.app.help("Tab: Siguiente campo | Ctrl+S: Guardar | Ctrl+T: Probar conexión | Ctrl+O: Cerrar sesión | Esc: Volver"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
