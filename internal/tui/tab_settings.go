package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/xwm/internal/config"
)

var modifierOptions = []string{"", "Shift", "Control", "Mod1", "Mod2", "Mod3", "Mod4", "Mod5"}

// SettingsTab shows and edits the window manager settings.
type SettingsTab struct {
	cfg *config.Config

	width  int
	height int

	editing bool
	form    *huh.Form

	// Form-bound values (strings for huh, converted on submit)
	fBorderWidth       string
	fBorderFocused     string
	fBorderNormal      string
	fFocusFollowsMouse bool
	fWarpPointer       bool
	fFocusModifier     string
	fQuitKey           string
	fCloseKey          string
	fLogLevel          string
}

// NewSettingsTab creates a SettingsTab for cfg.
func NewSettingsTab(cfg *config.Config) SettingsTab {
	return SettingsTab{cfg: cfg}
}

// Update implements tea.Model.
func (s SettingsTab) Update(msg tea.Msg) (SettingsTab, tea.Cmd) {
	if s.editing {
		return s.updateEditing(msg)
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "e" && s.cfg != nil {
			s.startEditing()
			return s, s.form.Init()
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}
	return s, nil
}

func (s SettingsTab) updateEditing(msg tea.Msg) (SettingsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			s.editing = false
			s.form = nil
			return s, nil
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.applyForm()
		s.editing = false
		s.form = nil
		return s, nil
	}

	return s, cmd
}

func (s *SettingsTab) startEditing() {
	cfg := s.cfg

	s.fBorderWidth = strconv.Itoa(cfg.BorderWidth)
	s.fBorderFocused = cfg.BorderColorFocused
	s.fBorderNormal = cfg.BorderColorNormal
	s.fFocusFollowsMouse = cfg.FocusFollowsMouse
	s.fWarpPointer = cfg.WarpPointer
	s.fFocusModifier = cfg.FocusModifier
	s.fQuitKey = cfg.QuitKey
	s.fCloseKey = cfg.CloseKey
	s.fLogLevel = cfg.LogLevel

	modOpts := make([]huh.Option[string], 0, len(modifierOptions))
	for _, m := range modifierOptions {
		modOpts = append(modOpts, huh.NewOption(displayOrDefault(m, "(disabled)"), m))
	}

	w := s.width - 4
	if w < 40 {
		w = 40
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("border_width").
				Title("Border Width").
				Description("Border drawn around managed windows, in pixels").
				Validate(validateBorderWidth).
				Value(&s.fBorderWidth),

			huh.NewInput().
				Key("border_color_focused").
				Title("Focused Border Color").
				Description("#rrggbb").
				Validate(validateColor).
				Value(&s.fBorderFocused),

			huh.NewInput().
				Key("border_color_normal").
				Title("Normal Border Color").
				Description("#rrggbb").
				Validate(validateColor).
				Value(&s.fBorderNormal),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Key("focus_follows_mouse").
				Title("Focus Follows Mouse").
				Value(&s.fFocusFollowsMouse),

			huh.NewConfirm().
				Key("warp_pointer").
				Title("Warp Pointer").
				Description("Center the pointer on newly mapped or activated windows").
				Value(&s.fWarpPointer),

			huh.NewSelect[string]().
				Key("focus_modifier").
				Title("Focus Modifier").
				Description("Modifier held for click-to-focus").
				Options(modOpts...).
				Value(&s.fFocusModifier),

			huh.NewInput().
				Key("quit_key").
				Title("Quit Key").
				Description("Keybinding that stops xwm, empty disables").
				Value(&s.fQuitKey),

			huh.NewInput().
				Key("close_key").
				Title("Close Key").
				Description("Keybinding that closes the focused window, empty disables").
				Value(&s.fCloseKey),

			huh.NewSelect[string]().
				Key("log_level").
				Title("Log Level").
				Options(huh.NewOptions("debug", "info", "warning", "error")...).
				Value(&s.fLogLevel),
		),
	).WithWidth(w).WithShowHelp(true).WithShowErrors(true)

	s.editing = true
}

func validateBorderWidth(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return fmt.Errorf("must be a non-negative number")
	}
	return nil
}

func validateColor(v string) error {
	_, err := config.ParseColor(strings.TrimSpace(v))
	return err
}

func (s *SettingsTab) applyForm() {
	if s.cfg == nil {
		return
	}

	if v, err := strconv.Atoi(strings.TrimSpace(s.fBorderWidth)); err == nil && v >= 0 {
		s.cfg.BorderWidth = v
	}
	if c := strings.TrimSpace(s.fBorderFocused); validateColor(c) == nil {
		s.cfg.BorderColorFocused = c
	}
	if c := strings.TrimSpace(s.fBorderNormal); validateColor(c) == nil {
		s.cfg.BorderColorNormal = c
	}
	s.cfg.FocusFollowsMouse = s.fFocusFollowsMouse
	s.cfg.WarpPointer = s.fWarpPointer
	s.cfg.FocusModifier = s.fFocusModifier
	s.cfg.QuitKey = strings.TrimSpace(s.fQuitKey)
	s.cfg.CloseKey = strings.TrimSpace(s.fCloseKey)
	if s.fLogLevel != "" {
		s.cfg.LogLevel = s.fLogLevel
	}
}

// View implements tea.Model.
func (s SettingsTab) View() string {
	if s.editing && s.form != nil {
		return s.viewEditing()
	}
	return s.viewDisplay()
}

func (s SettingsTab) viewDisplay() string {
	cfg := s.cfg
	if cfg == nil {
		return lipgloss.NewStyle().
			Width(s.width).
			Height(s.height).
			Foreground(lipgloss.Color("241")).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No config loaded")
	}

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Width(22).
		Align(lipgloss.Right).
		PaddingRight(2)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Bold(true)

	dimStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}

	lines := []string{
		"",
		row("Display", displayOrDefault(cfg.Display, "($DISPLAY)")),
		row("Passthrough", strconv.FormatBool(cfg.Passthrough)),
		row("Adopt Existing", strconv.FormatBool(cfg.AdoptExisting)),
		"",
		row("Border Width", strconv.Itoa(cfg.BorderWidth)),
		row("Focused Border", cfg.BorderColorFocused),
		row("Normal Border", cfg.BorderColorNormal),
		"",
		row("Focus Follows Mouse", strconv.FormatBool(cfg.FocusFollowsMouse)),
		row("Warp Pointer", strconv.FormatBool(cfg.WarpPointer)),
		row("Focus Modifier", displayOrDefault(cfg.FocusModifier, "(disabled)")),
		row("Quit Key", displayOrDefault(cfg.QuitKey, "(disabled)")),
		row("Close Key", displayOrDefault(cfg.CloseKey, "(disabled)")),
		"",
		row("Log Level", cfg.LogLevel),
		row("Log Format", cfg.LogFormat),
		"",
		dimStyle.Render("  Press 'e' to edit settings. Changes apply on the next xwm start."),
	}

	return lipgloss.NewStyle().
		Width(s.width).
		Height(s.height).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}

func (s SettingsTab) viewEditing() string {
	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color("62")).
		Bold(true).
		Render("Editing Settings") +
		lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Render("  (esc to cancel)")

	return lipgloss.NewStyle().
		Width(s.width).
		Height(s.height).
		Padding(1, 2).
		Render(header + "\n\n" + s.form.View())
}
