package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/zfake/internal/config"
	"github.com/zarlcorp/zfake/internal/identity"
)

// helpers

func keyMsg(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func specialKey(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func enterKey() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEnter}
}

func escKey() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEsc}
}

func typeString(m formModel, s string) formModel {
	for _, r := range s {
		m, _ = m.Update(keyMsg(r))
	}
	return m
}

func testPersona() identity.Persona {
	return identity.Persona{
		ID:        "0b9f6d3e-4f7a-4a51-9d1c-2b7c1f0e8a11",
		FirstName: "Lara",
		Surname:   "Silva",
		Username:  "larasilva42",
		Email:     "larasilva42@exemplo.com",
		Password:  "Abc123xyzQWE",
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func stubClipboard(t *testing.T, err error) *string {
	t.Helper()
	var got string
	orig := copyToClipboard
	copyToClipboard = func(text string) error {
		got = text
		return err
	}
	t.Cleanup(func() { copyToClipboard = orig })
	return &got
}

// fastFlash shortens the flash timeout so scheduled clears can be run.
func fastFlash(t *testing.T) {
	t.Helper()
	orig := flashTimeout
	flashTimeout = time.Millisecond
	t.Cleanup(func() { flashTimeout = orig })
}

// schedulesFlashClear runs cmd, following batches, and reports whether it
// yields a flashMsg.
func schedulesFlashClear(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	switch msg := cmd().(type) {
	case flashMsg:
		return true
	case tea.BatchMsg:
		for _, c := range msg {
			if schedulesFlashClear(c) {
				return true
			}
		}
	}
	return false
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

// menu tests

func TestMenuView(t *testing.T) {
	m := newMenuModel("1.0")
	view := m.View()

	for _, item := range menuItems {
		if !strings.Contains(view, item) {
			t.Errorf("menu should contain %q", item)
		}
	}
	if !strings.Contains(view, "1.0") {
		t.Error("menu should show version")
	}
}

func TestMenuNavigation(t *testing.T) {
	m := newMenuModel("1.0")

	m, _ = m.Update(keyMsg('j'))
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}

	m, _ = m.Update(specialKey(tea.KeyDown))
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.cursor)
	}

	// clamp at the last item
	m, _ = m.Update(keyMsg('j'))
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2 (clamped)", m.cursor)
	}

	m, _ = m.Update(keyMsg('k'))
	m, _ = m.Update(specialKey(tea.KeyUp))
	m, _ = m.Update(keyMsg('k'))
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0 (clamped)", m.cursor)
	}
}

func TestMenuSelect(t *testing.T) {
	tests := []struct {
		name  string
		downs int
		want  viewID
	}{
		{"persona", 0, viewPersona},
		{"form", 1, viewForm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMenuModel("1.0")
			for range tt.downs {
				m, _ = m.Update(keyMsg('j'))
			}
			_, cmd := m.Update(enterKey())
			if cmd == nil {
				t.Fatal("enter should produce command")
			}
			nav, ok := cmd().(navigateMsg)
			if !ok {
				t.Fatal("should emit navigateMsg")
			}
			if nav.view != tt.want {
				t.Errorf("view = %d, want %d", nav.view, tt.want)
			}
		})
	}
}

func TestMenuQuit(t *testing.T) {
	m := newMenuModel("1.0")
	if _, cmd := m.Update(keyMsg('q')); !isQuit(cmd) {
		t.Error("q should quit from the menu")
	}

	m.cursor = int(menuQuit)
	if _, cmd := m.Update(enterKey()); !isQuit(cmd) {
		t.Error("selecting Quit should quit")
	}
}

// persona view tests

func TestPersonaView(t *testing.T) {
	m := newPersonaModel(testPersona())
	view := m.View()

	for _, want := range []string{"generated persona", "Lara Silva", "larasilva42", "larasilva42@exemplo.com", "Abc123xyzQWE"} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q", want)
		}
	}
}

func TestPersonaCopyField(t *testing.T) {
	got := stubClipboard(t, nil)

	m := newPersonaModel(testPersona())
	m, _ = m.Update(keyMsg('j'))
	m, _ = m.Update(keyMsg('j'))
	m, cmd := m.Update(enterKey())

	if *got != "larasilva42" {
		t.Errorf("copied %q, want username", *got)
	}
	if m.flash != "copied!" {
		t.Errorf("flash = %q, want copied!", m.flash)
	}
	if cmd == nil {
		t.Error("copy should schedule a flash clear")
	}

	m, _ = m.Update(flashMsg{})
	if m.flash != "" {
		t.Error("flashMsg should clear the flash")
	}
}

func TestPersonaCopyAll(t *testing.T) {
	got := stubClipboard(t, nil)

	m := newPersonaModel(testPersona())
	m, _ = m.Update(keyMsg('c'))

	if !strings.Contains(*got, "email: larasilva42@exemplo.com") || !strings.Contains(*got, "password: Abc123xyzQWE") {
		t.Errorf("copy all text missing fields:\n%s", *got)
	}
	if m.flash != "copied all!" {
		t.Errorf("flash = %q", m.flash)
	}
}

func TestPersonaCopyError(t *testing.T) {
	stubClipboard(t, errors.New("no clipboard"))

	m := newPersonaModel(testPersona())
	m, _ = m.Update(enterKey())
	if !strings.HasPrefix(m.flash, "copy: ") {
		t.Errorf("flash = %q, want copy error", m.flash)
	}
}

func TestPersonaActions(t *testing.T) {
	m := newPersonaModel(testPersona())

	_, cmd := m.Update(keyMsg('n'))
	if nav, ok := cmd().(navigateMsg); !ok || nav.view != viewPersona {
		t.Error("n should request a new persona")
	}

	_, cmd = m.Update(escKey())
	if nav, ok := cmd().(navigateMsg); !ok || nav.view != viewMenu {
		t.Error("esc should go back to the menu")
	}

	_, cmd = m.Update(keyMsg('v'))
	check, ok := cmd().(checkPersonaMsg)
	if !ok || check.persona.Email != testPersona().Email {
		t.Error("v should send the persona to the form")
	}
}

// form tests

func TestFormQKeyReachesInput(t *testing.T) {
	m := newFormModel(config.Default())

	m, cmd := m.Update(keyMsg('q'))
	if isQuit(cmd) {
		t.Fatal("pressing 'q' should not quit the form")
	}
	if got := m.inputs[formEmail].Value(); got != "q" {
		t.Fatalf("email input = %q, want q", got)
	}
}

func TestFormCtrlCQuits(t *testing.T) {
	m := newFormModel(config.Default())
	if _, cmd := m.Update(specialKey(tea.KeyCtrlC)); !isQuit(cmd) {
		t.Error("ctrl+c should quit")
	}
}

func TestFormFocus(t *testing.T) {
	m := newFormModel(config.Default())

	m, _ = m.Update(specialKey(tea.KeyTab))
	if m.focus != formUsername {
		t.Errorf("focus = %d, want username", m.focus)
	}

	m, _ = m.Update(specialKey(tea.KeyTab))
	m, _ = m.Update(specialKey(tea.KeyTab))
	if m.focus != formEmail {
		t.Errorf("focus = %d, want wrap to email", m.focus)
	}

	m, _ = m.Update(specialKey(tea.KeyShiftTab))
	if m.focus != formPassword {
		t.Errorf("focus = %d, want wrap back to password", m.focus)
	}
}

func TestFormLiveValidation(t *testing.T) {
	m := newFormModel(config.Default())

	m = typeString(m, "a@@b.com")
	if f := m.failures(formEmail); len(f) == 0 {
		t.Error("a@@b.com should fail")
	}
	if !strings.Contains(m.View(), "malformed email") {
		t.Error("view should show the email failure")
	}

	m, _ = m.Update(specialKey(tea.KeyTab))
	m = typeString(m, "12345")
	if f := m.failures(formUsername); len(f) != 1 || f[0] != "must not be all digits" {
		t.Errorf("username failures = %q", f)
	}

	m, _ = m.Update(specialKey(tea.KeyTab))
	m = typeString(m, "abc")
	if f := m.failures(formPassword); len(f) != 3 {
		t.Errorf("password failures = %q, want length, upper, digit", f)
	}

	if m.valid() {
		t.Error("form should not be valid")
	}
}

func TestFormValidEntry(t *testing.T) {
	fastFlash(t)
	m := newFormModel(config.Default())
	m = typeString(m, "a@b.com")
	m, _ = m.Update(enterKey())
	m = typeString(m, "joao.silva")
	m, _ = m.Update(enterKey())
	m = typeString(m, "Abcdefg1")
	var cmd tea.Cmd
	m, cmd = m.Update(enterKey())

	if !m.valid() {
		t.Errorf("expected valid form, failures: %q %q %q",
			m.failures(formEmail), m.failures(formUsername), m.failures(formPassword))
	}
	if m.flash != "all fields valid" {
		t.Errorf("flash = %q", m.flash)
	}
	if !schedulesFlashClear(cmd) {
		t.Error("valid form flash should be cleared later")
	}

	m, _ = m.Update(flashMsg{})
	if m.flash != "" {
		t.Errorf("flash = %q after flashMsg, want empty", m.flash)
	}
}

func TestFormPasswordReveal(t *testing.T) {
	m := newFormModel(config.Default())
	m = m.fill(testPersona())

	if strings.Contains(m.View(), "Abc123xyzQWE") {
		t.Error("password should be masked by default")
	}

	m, _ = m.Update(specialKey(tea.KeyCtrlT))
	if !strings.Contains(m.View(), "Abc123xyzQWE") {
		t.Error("ctrl+t should reveal the password")
	}
}

func TestFormCtrlGRequestsFill(t *testing.T) {
	m := newFormModel(config.Default())
	_, cmd := m.Update(specialKey(tea.KeyCtrlG))
	if cmd == nil {
		t.Fatal("ctrl+g should produce a command")
	}
	if _, ok := cmd().(fillFormMsg); !ok {
		t.Error("ctrl+g should emit fillFormMsg")
	}
}

// root model tests

func newTestModel() Model {
	cfg := config.Default()
	return New("test", cfg.NewGenerator(), cfg)
}

func TestRootNavigatePersona(t *testing.T) {
	m := newTestModel()

	updated, _ := m.Update(navigateMsg{view: viewPersona})
	m = updated.(Model)

	if m.active != viewPersona {
		t.Fatalf("active = %d, want persona", m.active)
	}
	if m.persona.persona.ID == "" {
		t.Error("persona should be generated on navigation")
	}
	if !strings.Contains(m.View(), "generated persona") {
		t.Error("root view should render the persona view")
	}
}

func TestRootGeneratedPersonaPassesForm(t *testing.T) {
	m := newTestModel()

	updated, _ := m.Update(navigateMsg{view: viewForm})
	m = updated.(Model)
	if m.active != viewForm {
		t.Fatalf("active = %d, want form", m.active)
	}

	// generated data must satisfy the default rules every time
	for range 50 {
		updated, _ = m.Update(fillFormMsg{})
		m = updated.(Model)
		if !m.form.valid() {
			t.Fatalf("generated persona failed validation: %q %q %q",
				m.form.failures(formEmail), m.form.failures(formUsername), m.form.failures(formPassword))
		}
	}
}

func TestRootCheckPersona(t *testing.T) {
	fastFlash(t)
	m := newTestModel()

	updated, cmd := m.Update(checkPersonaMsg{persona: testPersona()})
	m = updated.(Model)

	if m.active != viewForm {
		t.Fatalf("active = %d, want form", m.active)
	}
	if got := m.form.inputs[formUsername].Value(); got != "larasilva42" {
		t.Errorf("username input = %q", got)
	}
	if m.form.flash != "filled with Lara Silva" {
		t.Errorf("flash = %q", m.form.flash)
	}
	if !schedulesFlashClear(cmd) {
		t.Error("fill flash should be cleared later")
	}

	updated, _ = m.Update(flashMsg{})
	if got := updated.(Model).form.flash; got != "" {
		t.Errorf("flash = %q after flashMsg, want empty", got)
	}
}

func TestRootFillFormClearsFlash(t *testing.T) {
	fastFlash(t)
	m := newTestModel()
	updated, _ := m.Update(navigateMsg{view: viewForm})

	updated, cmd := updated.Update(fillFormMsg{})
	if !strings.HasPrefix(updated.(Model).form.flash, "filled with ") {
		t.Errorf("flash = %q, want fill notice", updated.(Model).form.flash)
	}
	if !schedulesFlashClear(cmd) {
		t.Error("fill flash should be cleared later")
	}
}

func TestRootBackToMenu(t *testing.T) {
	m := newTestModel()
	updated, _ := m.Update(navigateMsg{view: viewForm})
	updated, _ = updated.Update(navigateMsg{view: viewMenu})
	if updated.(Model).active != viewMenu {
		t.Error("navigateMsg{viewMenu} should return to the menu")
	}
}

func TestRootWindowSize(t *testing.T) {
	m := newTestModel()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	got := updated.(Model)
	if got.width != 80 || got.height != 24 {
		t.Errorf("size = %dx%d, want 80x24", got.width, got.height)
	}
}
