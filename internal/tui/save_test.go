package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/xwm/internal/config"
)

func TestComputeDiffLines_NoChanges(t *testing.T) {
	cfg := config.DefaultConfig()
	if lines := computeDiffLines(cfg, cloneConfig(cfg)); lines != nil {
		t.Fatalf("expected no diff, got %v", lines)
	}
}

func TestComputeDiffLines_ChangedField(t *testing.T) {
	original := config.DefaultConfig()
	current := cloneConfig(original)
	current.BorderWidth = original.BorderWidth + 3

	lines := computeDiffLines(original, current)
	var removed, added int
	for _, l := range lines {
		switch l.kind {
		case diffRemoved:
			removed++
		case diffAdded:
			added++
		}
	}
	if removed != 1 || added != 1 {
		t.Fatalf("removed=%d added=%d, want 1 and 1 (%v)", removed, added, lines)
	}
}

func TestLcsDiff(t *testing.T) {
	got := lcsDiff([]string{"a", "b", "c"}, []string{"a", "x", "c"})
	want := []diffLine{
		{diffContext, "a"},
		{diffRemoved, "b"},
		{diffAdded, "x"},
		{diffContext, "c"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestWithContext_MarksGaps(t *testing.T) {
	var lines []diffLine
	for i := 0; i < 10; i++ {
		lines = append(lines, diffLine{kind: diffContext, text: "same"})
	}
	lines[0] = diffLine{kind: diffAdded, text: "first"}
	lines[9] = diffLine{kind: diffRemoved, text: "last"}

	out := withContext(lines, 1)
	// first, one context line, gap marker, one context line, last
	if len(out) != 5 {
		t.Fatalf("got %d lines, want 5: %v", len(out), out)
	}
	if out[2].text != "..." {
		t.Fatalf("expected gap marker, got %q", out[2].text)
	}
}

func TestCloneConfig_Independent(t *testing.T) {
	cfg := config.DefaultConfig()
	clone := cloneConfig(cfg)
	clone.QuitKey = "Mod4-q"
	if cfg.QuitKey == "Mod4-q" {
		t.Fatal("clone shares state with original")
	}
	if cloneConfig(nil) != nil {
		t.Fatal("cloneConfig(nil) should be nil")
	}
}

func TestSaveOverlay_NoChanges(t *testing.T) {
	var s SaveOverlay
	cfg := config.DefaultConfig()
	s.Show(cfg, cloneConfig(cfg), "")
	if !s.Active() || s.phase != saveResult || s.err == nil {
		t.Fatalf("expected result phase with error, got phase=%v err=%v", s.phase, s.err)
	}
	s = s.Update(tea.KeyMsg{Type: tea.KeyEnter}, cfg)
	if s.Active() {
		t.Fatal("any key should dismiss the result")
	}
}

func TestSaveOverlay_ConfirmWritesFile(t *testing.T) {
	path := t.TempDir() + "/config.yaml"
	original := config.DefaultConfig()
	current := cloneConfig(original)
	current.BorderWidth = 7

	var s SaveOverlay
	s.Show(original, current, path)
	if s.phase != savePreview {
		t.Fatalf("phase = %v, want preview", s.phase)
	}
	s = s.Update(tea.KeyMsg{Type: tea.KeyEnter}, current)
	if !s.SaveSucceeded() {
		t.Fatalf("save failed: %v", s.err)
	}

	res, err := config.LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if res.Config.BorderWidth != 7 {
		t.Fatalf("BorderWidth = %d, want 7", res.Config.BorderWidth)
	}
}

func TestSaveOverlay_EscCancels(t *testing.T) {
	original := config.DefaultConfig()
	current := cloneConfig(original)
	current.FocusFollowsMouse = !original.FocusFollowsMouse

	var s SaveOverlay
	s.Show(original, current, t.TempDir()+"/config.yaml")
	s = s.Update(tea.KeyMsg{Type: tea.KeyEsc}, current)
	if s.Active() {
		t.Fatal("esc should close the preview")
	}
}
