package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/xwm/internal/ipc"
)

// windowItem implements list.Item for the window sidebar.
type windowItem struct {
	info ipc.WindowInfo
}

func (i windowItem) Title() string {
	prefix := "  "
	if i.info.Mapped {
		prefix = "* "
	}
	name := i.info.Class
	if name == "" {
		name = "(no class)"
	}
	return fmt.Sprintf("%s0x%x %s", prefix, i.info.ID, name)
}

func (i windowItem) Description() string { return i.info.Title }
func (i windowItem) FilterValue() string { return i.info.Class + " " + i.info.Title }

// WindowsTab lists the window entities with a detail pane for the selection.
type WindowsTab struct {
	list    list.Model
	windows []ipc.WindowInfo

	managedOnly bool
	mappedOnly  bool

	width  int
	height int
	ready  bool
}

// NewWindowsTab creates an empty WindowsTab.
func NewWindowsTab() WindowsTab {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Windows"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return WindowsTab{list: l}
}

// SetWindows replaces the listed windows, keeping the selection by id when it
// still exists.
func (wt *WindowsTab) SetWindows(windows []ipc.WindowInfo) {
	wt.windows = windows
	wt.rebuildItems()
}

func (wt *WindowsTab) rebuildItems() {
	var selected uint32
	if item, ok := wt.list.SelectedItem().(windowItem); ok {
		selected = item.info.ID
	}

	filter := ipc.WindowsPayload{ManagedOnly: wt.managedOnly, MappedOnly: wt.mappedOnly}
	items := make([]list.Item, 0, len(wt.windows))
	index := 0
	for _, w := range wt.windows {
		if !filter.Match(w) {
			continue
		}
		if w.ID == selected {
			index = len(items)
		}
		items = append(items, windowItem{info: w})
	}
	wt.list.SetItems(items)
	wt.list.Select(index)
}

// Update implements tea.Model.
func (wt WindowsTab) Update(msg tea.Msg) (WindowsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		wt.width = msg.Width
		wt.height = msg.Height
		wt.updateListSize()
		wt.ready = true
		return wt, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "m":
			wt.managedOnly = !wt.managedOnly
			wt.rebuildItems()
			return wt, nil
		case "v":
			wt.mappedOnly = !wt.mappedOnly
			wt.rebuildItems()
			return wt, nil
		}
	}

	var cmd tea.Cmd
	wt.list, cmd = wt.list.Update(msg)
	return wt, cmd
}

func (wt *WindowsTab) updateListSize() {
	listHeight := wt.height - 2
	if listHeight < 1 {
		listHeight = 1
	}
	wt.list.SetSize(wt.sidebarWidth(), listHeight)
}

func (wt WindowsTab) sidebarWidth() int {
	sw := wt.width * 40 / 100
	if sw < 24 {
		sw = 24
	}
	if sw > 48 {
		sw = 48
	}
	return sw
}

// View implements tea.Model.
func (wt WindowsTab) View() string {
	if !wt.ready || wt.width == 0 || wt.height == 0 {
		return ""
	}

	sidebarWidth := wt.sidebarWidth()
	sidebar := lipgloss.NewStyle().
		Width(sidebarWidth).
		Height(wt.height - 2).
		Render(wt.list.View())

	sep := lipgloss.NewStyle().
		Foreground(lipgloss.Color("238")).
		Render(strings.Repeat("│\n", max(wt.height-2, 1)))

	var detail string
	if item, ok := wt.list.SelectedItem().(windowItem); ok {
		detail = renderWindowDetail(item.info)
	}

	columns := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " "+sep, detail)
	return lipgloss.JoinVertical(lipgloss.Left, columns, wt.renderTabStatus())
}

func renderWindowDetail(w ipc.WindowInfo) string {
	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Width(12).
		Align(lipgloss.Right).
		PaddingRight(2)
	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Bold(true)

	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}

	pending := w.Pending
	if pending == "" {
		pending = "-"
	}
	lines := []string{
		row("Window", fmt.Sprintf("0x%08x", w.ID)),
		row("Class", displayOrDefault(w.Class, "(none)")),
		row("Title", displayOrDefault(w.Title, "(none)")),
		"",
		row("Managed", fmt.Sprintf("%v", w.Managed)),
		row("Mapped", fmt.Sprintf("%v", w.Mapped)),
		row("Pending", pending),
		"",
		row("Geometry", fmt.Sprintf("%dx%d+%d+%d", w.Width, w.Height, w.X, w.Y)),
		row("Border", fmt.Sprintf("%d", w.Border)),
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(strings.Join(lines, "\n"))
}

func (wt WindowsTab) renderTabStatus() string {
	var flags []string
	if wt.managedOnly {
		flags = append(flags, "managed only")
	}
	if wt.mappedOnly {
		flags = append(flags, "mapped only")
	}
	left := lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Render(strings.Join(flags, ", "))

	right := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render(fmt.Sprintf("%d shown  m:managed  v:mapped", len(wt.list.Items())))

	gap := wt.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Width(wt.width).
		Padding(0, 1).
		Render(left + strings.Repeat(" ", gap) + right)
}

func displayOrDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
