// Package tui implements the root Bubble Tea model for zfake.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/zfake/internal/config"
	"github.com/zarlcorp/zfake/internal/identity"
)

type viewID int

const (
	viewMenu viewID = iota
	viewPersona
	viewForm
)

// Model is the root TUI model.
type Model struct {
	version string
	gen     *identity.Generator
	cfg     config.Config

	active  viewID
	menu    menuModel
	persona personaModel
	form    formModel

	// terminal dimensions
	width  int
	height int
}

// New creates the root TUI model.
func New(version string, gen *identity.Generator, cfg config.Config) Model {
	return Model{
		version: version,
		gen:     gen,
		cfg:     cfg,
		active:  viewMenu,
		menu:    newMenuModel(version),
	}
}

func (m Model) Init() tea.Cmd {
	return m.menu.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case navigateMsg:
		return m.navigate(msg.view)

	case fillFormMsg:
		return m.fillForm()

	case checkPersonaMsg:
		m.form = newFormModel(m.cfg).fill(msg.persona)
		m.active = viewForm
		return m, tea.Batch(m.form.Init(), clearFlashAfter())
	}

	return m.updateActive(msg)
}

func (m Model) navigate(view viewID) (tea.Model, tea.Cmd) {
	switch view {
	case viewMenu:
		m.active = viewMenu
		return m, nil

	case viewPersona:
		p, err := m.gen.Persona(m.cfg.PersonaOptions())
		if err != nil {
			m.menu.errMsg = err.Error()
			m.active = viewMenu
			return m, nil
		}
		m.persona = newPersonaModel(p)
		m.active = viewPersona
		return m, m.persona.Init()

	case viewForm:
		m.form = newFormModel(m.cfg)
		m.active = viewForm
		return m, m.form.Init()
	}

	return m, nil
}

func (m Model) fillForm() (tea.Model, tea.Cmd) {
	p, err := m.gen.Persona(m.cfg.PersonaOptions())
	if err != nil {
		m.form.flash = "generate: " + err.Error()
		return m, clearFlashAfter()
	}
	m.form = m.form.fill(p)
	return m, clearFlashAfter()
}

func (m Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.active {
	case viewMenu:
		m.menu, cmd = m.menu.Update(msg)
	case viewPersona:
		m.persona, cmd = m.persona.Update(msg)
	case viewForm:
		m.form, cmd = m.form.Update(msg)
	}
	return m, cmd
}

func (m Model) View() string {
	switch m.active {
	case viewPersona:
		return m.persona.View()
	case viewForm:
		return m.form.View()
	default:
		return m.menu.View()
	}
}
