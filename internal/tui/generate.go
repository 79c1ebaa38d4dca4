package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zstyle"
	"github.com/zarlcorp/zfake/internal/identity"
)

// personaField represents a labeled field for display and selection.
type personaField struct {
	label string
	value string
}

// personaModel displays a generated persona with actions.
type personaModel struct {
	persona identity.Persona
	fields  []personaField
	cursor  int
	flash   string
}

// checkPersonaMsg asks the root to open the validation form filled with a
// persona.
type checkPersonaMsg struct {
	persona identity.Persona
}

// flashMsg clears the flash after a timeout.
type flashMsg struct{}

// flashTimeout is how long a flash stays on screen.
var flashTimeout = time.Second

func newPersonaModel(p identity.Persona) personaModel {
	return personaModel{persona: p, fields: personaFields(p)}
}

func personaFields(p identity.Persona) []personaField {
	return []personaField{
		{"id", p.ID},
		{"name", p.FullName()},
		{"username", p.Username},
		{"email", p.Email},
		{"password", p.Password},
	}
}

func (m personaModel) Init() tea.Cmd {
	return nil
}

func (m personaModel) Update(msg tea.Msg) (personaModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case flashMsg:
		m.flash = ""
		return m, nil
	}

	return m, nil
}

func (m personaModel) handleKey(msg tea.KeyMsg) (personaModel, tea.Cmd) {
	if key.Matches(msg, zstyle.KeyQuit) {
		return m, tea.Quit
	}

	if key.Matches(msg, zstyle.KeyBack) {
		return m, func() tea.Msg { return navigateMsg{view: viewMenu} }
	}

	if key.Matches(msg, zstyle.KeyUp) {
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyDown) {
		if m.cursor < len(m.fields)-1 {
			m.cursor++
		}
		return m, nil
	}

	if key.Matches(msg, zstyle.KeyEnter) {
		val := m.fields[m.cursor].value
		if err := copyToClipboard(val); err != nil {
			return m.setFlash("copy: " + err.Error()), clearFlashAfter()
		}
		return m.setFlash("copied!"), clearFlashAfter()
	}

	switch msg.String() {
	case "c":
		if err := copyToClipboard(m.allFieldsText()); err != nil {
			return m.setFlash("copy: " + err.Error()), clearFlashAfter()
		}
		return m.setFlash("copied all!"), clearFlashAfter()

	case "n":
		return m, func() tea.Msg { return navigateMsg{view: viewPersona} }

	case "v":
		p := m.persona
		return m, func() tea.Msg { return checkPersonaMsg{persona: p} }
	}

	return m, nil
}

func (m personaModel) setFlash(msg string) personaModel {
	m.flash = msg
	return m
}

func clearFlashAfter() tea.Cmd {
	return tea.Tick(flashTimeout, func(time.Time) tea.Msg {
		return flashMsg{}
	})
}

func (m personaModel) allFieldsText() string {
	var b strings.Builder
	for _, f := range m.fields {
		fmt.Fprintf(&b, "%s: %s\n", f.label, f.value)
	}
	return b.String()
}

func (m personaModel) View() string {
	title := zstyle.Title.Render("generated persona")
	s := fmt.Sprintf("\n  %s\n\n", title)

	for i, f := range m.fields {
		label := zstyle.MutedText.Render(fmt.Sprintf("%-10s", f.label))
		if i == m.cursor {
			s += zstyle.ActiveBorder.Render(fmt.Sprintf("  > %s %s", label, f.value)) + "\n"
		} else {
			s += fmt.Sprintf("    %s %s\n", label, f.value)
		}
	}

	s += "\n"

	// always reserve a line for flash to prevent layout shift
	if m.flash != "" {
		s += "  " + zstyle.StatusOK.Render(m.flash) + "\n"
	} else {
		s += "\n"
	}

	help := "enter copy field  c copy all  n new  v validate  esc back  q quit"
	s += "  " + zstyle.MutedText.Render(help) + "\n"
	return s
}
