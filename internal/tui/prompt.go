package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// prompt is a single-line input that hands its value to submit on enter
type prompt struct {
	input  textinput.Model
	label  string
	active bool
	submit func(value string) tea.Cmd
}

func newPrompt() prompt {
	in := textinput.New()
	in.Prompt = "> "
	in.Width = 50
	return prompt{input: in}
}

func (p *prompt) open(label, value string, submit func(value string) tea.Cmd) tea.Cmd {
	p.label = label
	p.submit = submit
	p.active = true
	p.input.SetValue(value)
	p.input.CursorEnd()
	return p.input.Focus()
}

func (p *prompt) close() {
	p.active = false
	p.submit = nil
	p.input.Blur()
	p.input.Reset()
}

func (p *prompt) update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		submit, value := p.submit, p.input.Value()
		p.close()
		if submit == nil {
			return nil
		}
		return submit(value)
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

func (p *prompt) view(s styles) string {
	return s.bold.Render(p.label) + "\n" + p.input.View()
}
