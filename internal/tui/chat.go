package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/inmobiliaria/storefront/internal/models"
)

// ChatView is the conversation with the property assistant
type ChatView struct {
	app     *App
	input   textinput.Model
	spinner spinner.Model

	// next quick question offered by tab
	quick int
}

// NewChatView creates the chat view
func NewChatView(app *App) *ChatView {
	in := textinput.New()
	in.Placeholder = "Escribe tu mensaje..."
	in.Prompt = "> "
	in.CharLimit = 0
	in.Width = 60

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	return &ChatView{app: app, input: in, spinner: s}
}

func (cv *ChatView) enter() tea.Cmd {
	st := cv.app.store.State()
	if !st.Config.IsEmbeddedChat() && !st.IsChatOpen {
		cv.app.store.ToggleChat()
	}
	cv.app.store.InitializeChat()
	return cv.input.Focus()
}

func (cv *ChatView) leave() {
	cv.input.Blur()
	if st := cv.app.store.State(); !st.Config.IsEmbeddedChat() && st.IsChatOpen {
		cv.app.store.ToggleChat()
	}
}

func (cv *ChatView) typing() bool { return true }

func (cv *ChatView) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		cv.spinner, cmd = cv.spinner.Update(msg)
		return cmd
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return cv.send()
		case "tab":
			qs := cv.app.state.Config.QuickQuestions
			if len(qs) > 0 {
				cv.input.SetValue(qs[cv.quick%len(qs)].Text)
				cv.input.CursorEnd()
				cv.quick++
			}
			return nil
		case "ctrl+l":
			cv.app.store.ClearChat()
			return nil
		}
	}
	var cmd tea.Cmd
	cv.input, cmd = cv.input.Update(msg)
	return cmd
}

// send hands the input to the store; the store drops it while a reply is pending
func (cv *ChatView) send() tea.Cmd {
	text := cv.input.Value()
	if strings.TrimSpace(text) == "" || cv.app.state.IsSendingMessage {
		return nil
	}
	cv.input.Reset()
	return func() tea.Msg {
		cv.app.store.SendMessage(cv.app.ctx, text)
		return nil
	}
}

// requestVisit asks the assistant to schedule a visit for the property
func (cv *ChatView) requestVisit(title string) tea.Cmd {
	return func() tea.Msg {
		cv.app.store.RequestVisit(cv.app.ctx, title)
		return nil
	}
}

func (cv *ChatView) view() string {
	s := cv.app.styles
	st := cv.app.state

	var lines []string
	for _, msg := range st.ChatMessages {
		lines = append(lines, cv.renderMessage(msg)...)
		lines = append(lines, "")
	}

	// keep the tail of the conversation on screen
	room := max(cv.app.height-14, 5)
	if len(lines) > room {
		lines = lines[len(lines)-room:]
	}

	qs := st.Config.QuickQuestions
	var hints []string
	for _, q := range qs {
		hints = append(hints, "· "+q.Text)
	}

	input := cv.input.View()
	if st.IsSendingMessage {
		input = s.muted.Render("Esperando respuesta...")
	}

	body := []string{strings.Join(lines, "\n"), input}
	if len(hints) > 0 {
		body = append(body, "", s.muted.Render("Preguntas rápidas (Tab):"), s.muted.Render(strings.Join(hints, "\n")))
	}
	body = append(body, "", cv.app.help("Enter: Enviar | Tab: Pregunta rápida | Ctrl+L: Limpiar | Esc: Volver"))
	return lipgloss.JoinVertical(lipgloss.Left, body...)
}

func (cv *ChatView) renderMessage(msg models.ChatMessage) []string {
	s := cv.app.styles
	width := max(cv.app.width-4, 20)

	if msg.Type == models.RoleUser {
		return []string{s.user.Render("Tú: ") + lipgloss.NewStyle().Width(width).Render(msg.Content)}
	}
	if msg.IsTyping {
		return []string{s.assistant.Render("Asistente: ") + cv.spinner.View()}
	}

	var lines []string
	if msg.Content != "" {
		content := cv.formatMarkdown(msg.Content)
		lines = append(lines, s.assistant.Render("Asistente: ")+lipgloss.NewStyle().Width(width).Render(content))
	}
	if len(msg.Properties) > 0 {
		if msg.Content == "" {
			lines = append(lines, s.assistant.Render("Asistente:"))
		}
		for _, p := range msg.Properties {
			card := lipgloss.JoinVertical(lipgloss.Left,
				s.bold.Render(p.Title),
				p.Location,
				s.primary.Render(formatPrice(p.Price)),
			)
			lines = append(lines, s.box.Render(card))
		}
	}
	return lines
}

// formatMarkdown renders headers, bullets and bold spans of an assistant reply
func (cv *ChatView) formatMarkdown(text string) string {
	s := cv.app.styles
	var out []string

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "### "), strings.HasPrefix(trimmed, "## "), strings.HasPrefix(trimmed, "# "):
			out = append(out, s.title.Render(strings.TrimLeft(trimmed, "# ")))
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			bullet := trimmed[2:]
			out = append(out, "  • "+cv.processBold(bullet))
		default:
			out = append(out, cv.processBold(line))
		}
	}
	return strings.Join(out, "\n")
}

// processBold renders **bold** spans; an unclosed span runs to the end of the line
func (cv *ChatView) processBold(text string) string {
	parts := strings.Split(text, "**")
	if len(parts) == 1 {
		return text
	}
	var b strings.Builder
	for i, part := range parts {
		if i%2 == 1 {
			b.WriteString(cv.app.styles.bold.Render(part))
		} else {
			b.WriteString(part)
		}
	}
	return b.String()
}
