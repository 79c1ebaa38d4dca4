package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zfake/internal/config"
	"github.com/zarlcorp/zfake/internal/identity"
	"github.com/zarlcorp/zfake/internal/validate"
)

const (
	formEmail = iota
	formUsername
	formPassword
	formFieldCount
)

var formLabels = [formFieldCount]string{
	"email",
	"username",
	"password",
}

// formModel is a sign-up style form validated on every keystroke.
type formModel struct {
	inputs   [formFieldCount]textinput.Model
	focus    int
	cfg      config.Config
	revealed bool
	flash    string
}

// fillFormMsg asks the root to fill the form with a generated persona.
type fillFormMsg struct{}

func newFormModel(cfg config.Config) formModel {
	var inputs [formFieldCount]textinput.Model
	for i := range formFieldCount {
		ti := textinput.New()
		ti.CharLimit = 128
		ti.Width = 40
		ti.Prompt = ""
		inputs[i] = ti
	}

	inputs[formPassword].EchoMode = textinput.EchoPassword
	inputs[formPassword].EchoCharacter = '*'

	m := formModel{inputs: inputs, cfg: cfg}
	m.inputs[m.focus].Focus()
	return m
}

// fill replaces every field with values from p.
func (m formModel) fill(p identity.Persona) formModel {
	m.inputs[formEmail].SetValue(p.Email)
	m.inputs[formUsername].SetValue(p.Username)
	m.inputs[formPassword].SetValue(p.Password)
	m.flash = "filled with " + p.FullName()
	return m
}

func (m formModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m formModel) Update(msg tea.Msg) (formModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case flashMsg:
		m.flash = ""
		return m, nil
	}

	return m.updateInput(msg)
}

func (m formModel) handleKey(msg tea.KeyMsg) (formModel, tea.Cmd) {
	// printable keys belong to the inputs, so only ctrl+c quits here
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if key.Matches(msg, zstyle.KeyBack) {
		return m, func() tea.Msg { return navigateMsg{view: viewMenu} }
	}

	switch msg.String() {
	case "tab", "down":
		return m.setFocus((m.focus + 1) % formFieldCount)

	case "shift+tab", "up":
		return m.setFocus((m.focus - 1 + formFieldCount) % formFieldCount)

	case "ctrl+g":
		return m, func() tea.Msg { return fillFormMsg{} }

	case "ctrl+t":
		m.revealed = !m.revealed
		if m.revealed {
			m.inputs[formPassword].EchoMode = textinput.EchoNormal
		} else {
			m.inputs[formPassword].EchoMode = textinput.EchoPassword
		}
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyEnter) {
		if !m.valid() {
			m.flash = ""
			return m.setFocus((m.focus + 1) % formFieldCount)
		}
		m.flash = "all fields valid"
		var cmd tea.Cmd
		m, cmd = m.setFocus((m.focus + 1) % formFieldCount)
		return m, tea.Batch(cmd, clearFlashAfter())
	}

	return m.updateInput(msg)
}

func (m formModel) setFocus(i int) (formModel, tea.Cmd) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
	return m, textinput.Blink
}

func (m formModel) updateInput(msg tea.Msg) (formModel, tea.Cmd) {
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// failures lists the rules the field's current value breaks. Rule
// parameters come from a validated config, so errors surface as a failure.
func (m formModel) failures(field int) []string {
	v := m.inputs[field].Value()
	switch field {
	case formEmail:
		if !validate.Email(v) {
			return []string{"malformed email"}
		}
	case formUsername:
		f, err := validate.UsernameFailures(v, m.cfg.Validator.UsernameMin, m.cfg.Validator.UsernameMax)
		if err != nil {
			return []string{err.Error()}
		}
		return f
	case formPassword:
		f, err := validate.PasswordFailures(v, m.cfg.PasswordRules())
		if err != nil {
			return []string{err.Error()}
		}
		return f
	}
	return nil
}

func (m formModel) valid() bool {
	for i := range formFieldCount {
		if len(m.failures(i)) > 0 {
			return false
		}
	}
	return true
}

func (m formModel) View() string {
	title := zstyle.Title.Render("validate form")
	s := fmt.Sprintf("\n  %s\n\n", title)

	for i := range formFieldCount {
		label := fmt.Sprintf("%-10s", formLabels[i])
		if i == m.focus {
			label = zstyle.Highlight.Render(label)
		} else {
			label = zstyle.MutedText.Render(label)
		}
		s += fmt.Sprintf("  %s %s\n", label, m.inputs[i].View())
		s += "  " + lipgloss.NewStyle().MarginLeft(11).Render(m.statusLine(i)) + "\n"
	}

	s += "\n"

	// always reserve a line for flash to prevent layout shift
	if m.flash != "" {
		s += "  " + zstyle.StatusOK.Render(m.flash) + "\n"
	} else {
		s += "\n"
	}

	help := "tab next  ctrl+g generate  ctrl+t show password  esc back"
	s += "  " + zstyle.MutedText.Render(help) + "\n"
	return s
}

func (m formModel) statusLine(field int) string {
	if m.inputs[field].Value() == "" {
		return zstyle.MutedText.Render("-")
	}
	f := m.failures(field)
	if len(f) == 0 {
		return zstyle.StatusOK.Render("✓ valid")
	}
	return zstyle.StatusErr.Render("✗ " + strings.Join(f, "; "))
}
