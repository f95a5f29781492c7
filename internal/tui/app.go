package tui

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/1broseidon/xwm/internal/config"
	"github.com/1broseidon/xwm/internal/ipc"
)

const refreshInterval = time.Second

// Client is the slice of the IPC client the TUI polls.
type Client interface {
	GetStatus() (*ipc.StatusData, error)
	GetWindows(filter ipc.WindowsPayload) (*ipc.WindowsData, error)
	GetOutputs() (*ipc.OutputsData, error)
}

type refreshMsg struct {
	status  *ipc.StatusData
	windows []ipc.WindowInfo
	outputs []ipc.OutputInfo
}

type tickMsg time.Time

// model is the root bubbletea model for the TUI.
type model struct {
	configPath string
	result     *config.LoadResult
	client     Client

	activeTab Tab

	// nil while the manager is unreachable
	status *ipc.StatusData

	windowsTab  WindowsTab
	outputsTab  OutputsTab
	settingsTab SettingsTab

	originalConfig *config.Config
	saveOverlay    SaveOverlay

	width  int
	height int
}

func newModel(configPath string, result *config.LoadResult, client Client) model {
	m := model{
		configPath: configPath,
		result:     result,
		client:     client,
		activeTab:  TabWindows,
		windowsTab: NewWindowsTab(),
	}
	var cfg *config.Config
	if result != nil {
		cfg = result.Config
		m.originalConfig = cloneConfig(cfg)
	}
	m.settingsTab = NewSettingsTab(cfg)
	return m
}

// Run starts the interactive TUI against client, editing the config at
// configPath (or the default location when empty).
func Run(configPath string, client Client) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires a terminal")
	}

	var (
		res *config.LoadResult
		err error
	)
	if configPath == "" {
		res, err = config.LoadWithSources()
	} else {
		res, err = config.LoadFromPath(configPath)
	}
	if err != nil {
		return err
	}

	_, err = tea.NewProgram(newModel(configPath, res, client), tea.WithAltScreen()).Run()
	return err
}

func (m model) config() *config.Config {
	if m.result == nil {
		return nil
	}
	return m.result.Config
}

func refresh(client Client) tea.Cmd {
	return func() tea.Msg {
		var msg refreshMsg
		if client == nil {
			return msg
		}
		status, err := client.GetStatus()
		if err != nil {
			return msg
		}
		msg.status = status
		if wd, err := client.GetWindows(ipc.WindowsPayload{}); err == nil {
			msg.windows = wd.Windows
		}
		if od, err := client.GetOutputs(); err == nil {
			msg.outputs = od.Outputs
		}
		return msg
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// contentHeight returns the height available for tab content.
func (m model) contentHeight() int {
	// status bar (1) + tab bar (2 with margin) + help bar (1)
	h := m.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(refresh(m.client), tick())
}

func (m model) resize(msg tea.WindowSizeMsg) model {
	m.width = msg.Width
	m.height = msg.Height
	sub := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
	m.windowsTab, _ = m.windowsTab.Update(sub)
	m.outputsTab, _ = m.outputsTab.Update(sub)
	m.settingsTab, _ = m.settingsTab.Update(sub)
	return m
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Polling continues under overlays and forms.
	switch msg := msg.(type) {
	case tickMsg:
		return m, tea.Batch(refresh(m.client), tick())
	case refreshMsg:
		m.status = msg.status
		if msg.status != nil {
			m.windowsTab.SetWindows(msg.windows)
			m.outputsTab.SetOutputs(msg.outputs)
		}
		return m, nil
	case tea.WindowSizeMsg:
		return m.resize(msg), nil
	}

	if m.saveOverlay.Active() {
		if km, ok := msg.(tea.KeyMsg); ok {
			if km.String() == "ctrl+c" {
				return m, tea.Quit
			}
			prev := m.saveOverlay.phase
			m.saveOverlay = m.saveOverlay.Update(km, m.config())
			if prev == savePreview && m.saveOverlay.SaveSucceeded() {
				m.originalConfig = cloneConfig(m.config())
			}
		}
		return m, nil
	}

	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+s" {
		if cfg := m.config(); cfg != nil {
			m.saveOverlay.Show(m.originalConfig, cfg, m.configPath)
		}
		return m, nil
	}

	// The settings form consumes every key except ctrl+c.
	if m.activeTab == TabSettings && m.settingsTab.editing {
		if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+c" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.settingsTab, cmd = m.settingsTab.Update(msg)
		return m, cmd
	}

	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil
		case "1":
			m.activeTab = TabWindows
			return m, nil
		case "2":
			m.activeTab = TabOutputs
			return m, nil
		case "3":
			m.activeTab = TabSettings
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.activeTab {
	case TabWindows:
		m.windowsTab, cmd = m.windowsTab.Update(msg)
	case TabOutputs:
		m.outputsTab, cmd = m.outputsTab.Update(msg)
	case TabSettings:
		m.settingsTab, cmd = m.settingsTab.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.status, m.width)
	tabBar := renderTabBar(m.activeTab, m.width)
	helpBar := renderHelpBar(m.width)

	used := lipgloss.Height(statusBar) + lipgloss.Height(tabBar) + lipgloss.Height(helpBar)
	contentHeight := m.height - used
	if contentHeight < 1 {
		contentHeight = 1
	}

	var content string
	switch {
	case m.saveOverlay.Active():
		content = m.saveOverlay.View(m.width, contentHeight)
	case m.activeTab == TabWindows:
		content = m.windowsTab.View()
	case m.activeTab == TabOutputs:
		content = m.outputsTab.View()
	default:
		content = m.settingsTab.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, statusBar, tabBar, content, helpBar)
}
