package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/xwm/internal/config"
	"github.com/1broseidon/xwm/internal/ipc"
)

type fakeClient struct {
	err     error
	windows []ipc.WindowInfo
	outputs []ipc.OutputInfo
}

func (f *fakeClient) GetStatus() (*ipc.StatusData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ipc.StatusData{Windows: len(f.windows), Outputs: len(f.outputs)}, nil
}

func (f *fakeClient) GetWindows(ipc.WindowsPayload) (*ipc.WindowsData, error) {
	return &ipc.WindowsData{Windows: f.windows}, f.err
}

func (f *fakeClient) GetOutputs() (*ipc.OutputsData, error) {
	return &ipc.OutputsData{Outputs: f.outputs}, f.err
}

var _ Client = (*ipc.Client)(nil)

func testModel(client Client) model {
	res := &config.LoadResult{Config: config.DefaultConfig()}
	return newModel("", res, client)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestRefresh_PopulatesTabs(t *testing.T) {
	client := &fakeClient{
		windows: sampleWindows(),
		outputs: []ipc.OutputInfo{{Name: "DP-1", Width: 800, Height: 600}},
	}
	m := testModel(client)

	msg := refresh(client)()
	next, _ := m.Update(msg)
	m = next.(model)

	if m.status == nil || m.status.Windows != 3 {
		t.Fatalf("status = %+v", m.status)
	}
	if n := len(m.windowsTab.list.Items()); n != 3 {
		t.Fatalf("window items = %d, want 3", n)
	}
	if n := len(m.outputsTab.outputs); n != 1 {
		t.Fatalf("outputs = %d, want 1", n)
	}
}

func TestRefresh_Unreachable(t *testing.T) {
	m := testModel(&fakeClient{err: errors.New("connection refused")})
	m.status = &ipc.StatusData{}

	next, _ := m.Update(refresh(m.client)())
	m = next.(model)
	if m.status != nil {
		t.Fatal("status should clear when the manager is unreachable")
	}
}

func TestTabNavigation(t *testing.T) {
	m := testModel(nil)

	steps := []struct {
		key  string
		want Tab
	}{
		{"tab", TabOutputs},
		{"tab", TabSettings},
		{"tab", TabWindows},
		{"shift+tab", TabSettings},
		{"2", TabOutputs},
		{"1", TabWindows},
		{"3", TabSettings},
	}
	for _, step := range steps {
		next, _ := m.Update(key(step.key))
		m = next.(model)
		if m.activeTab != step.want {
			t.Fatalf("after %q: tab = %v, want %v", step.key, m.activeTab, step.want)
		}
	}
}

func TestQuitKey(t *testing.T) {
	m := testModel(nil)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}

func TestCtrlS_OpensOverlay(t *testing.T) {
	m := testModel(nil)
	m.result.Config.BorderWidth += 1

	next, _ := m.Update(key("ctrl+s"))
	m = next.(model)
	if !m.saveOverlay.Active() || m.saveOverlay.phase != savePreview {
		t.Fatal("expected save preview")
	}

	// Overlay is modal: tab keys do not switch tabs.
	next, _ = m.Update(key("tab"))
	m = next.(model)
	if m.activeTab != TabWindows {
		t.Fatalf("tab changed under overlay: %v", m.activeTab)
	}
}

func TestWindowSize_View(t *testing.T) {
	m := testModel(nil)
	if m.View() != "" {
		t.Fatal("view should be empty before the first size message")
	}
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(model)
	if m.View() == "" {
		t.Fatal("expected rendered view")
	}
}
