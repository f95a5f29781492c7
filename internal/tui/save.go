package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/xwm/internal/config"
)

type savePhase int

const (
	saveHidden  savePhase = iota
	savePreview           // showing diff, awaiting confirm
	saveResult            // showing outcome message
)

type diffKind int

const (
	diffContext diffKind = iota
	diffRemoved
	diffAdded
)

type diffLine struct {
	kind diffKind
	text string
}

// SaveOverlay manages the config save diff preview and confirmation workflow.
type SaveOverlay struct {
	phase        savePhase
	diffLines    []diffLine
	path         string
	err          error
	scrollOffset int
}

// Active reports whether the overlay is visible.
func (s SaveOverlay) Active() bool {
	return s.phase != saveHidden
}

// Show computes the diff and opens the preview overlay. Confirming writes
// to path, or the default config path when path is empty.
func (s *SaveOverlay) Show(original, current *config.Config, path string) {
	s.err = nil
	s.path = path
	s.scrollOffset = 0

	lines := computeDiffLines(original, current)
	if len(lines) == 0 {
		s.phase = saveResult
		s.err = fmt.Errorf("no changes to save")
		return
	}
	s.diffLines = lines
	s.phase = savePreview
}

// SaveSucceeded reports whether the last save completed without error.
func (s SaveOverlay) SaveSucceeded() bool {
	return s.phase == saveResult && s.err == nil
}

// Update handles input while the overlay is active.
func (s SaveOverlay) Update(msg tea.Msg, cfg *config.Config) SaveOverlay {
	switch s.phase {
	case savePreview:
		if km, ok := msg.(tea.KeyMsg); ok {
			switch km.String() {
			case "esc":
				s.phase = saveHidden
			case "enter", "y":
				s.err = cfg.Save(s.path)
				s.phase = saveResult
			case "up", "k":
				if s.scrollOffset > 0 {
					s.scrollOffset--
				}
			case "down", "j":
				s.scrollOffset++
			}
		}
	case saveResult:
		if _, ok := msg.(tea.KeyMsg); ok {
			s.phase = saveHidden
		}
	}
	return s
}

// View renders the overlay for the given content area dimensions.
func (s SaveOverlay) View(width, height int) string {
	switch s.phase {
	case savePreview:
		return s.viewPreview(width, height)
	case saveResult:
		return s.viewResult(width, height)
	}
	return ""
}

var (
	diffAddStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	diffRmStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	diffCtxStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	overlayHint  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// overlayBox centers content in a rounded box clamped to [minW, maxW].
func overlayBox(content string, areaW, areaH, minW, maxW int) string {
	boxW := min(max(areaW-8, minW), maxW)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(boxW).
		Render(content)
	return lipgloss.Place(areaW, areaH, lipgloss.Center, lipgloss.Center, box)
}

func (s SaveOverlay) viewPreview(areaW, areaH int) string {
	// title, footer, blank lines, border and padding
	rows := max(areaH-10, 3)
	off := min(s.scrollOffset, max(len(s.diffLines)-rows, 0))
	end := min(off+rows, len(s.diffLines))
	// border and padding eat six columns, the +/- marker two more
	textW := max(min(max(areaW-8, 30), 80)-8, 8)

	lines := make([]string, 0, end-off)
	for _, dl := range s.diffLines[off:end] {
		t := dl.text
		if len(t) > textW {
			t = t[:textW]
		}
		switch dl.kind {
		case diffAdded:
			lines = append(lines, diffAddStyle.Render("+ "+t))
		case diffRemoved:
			lines = append(lines, diffRmStyle.Render("- "+t))
		default:
			lines = append(lines, diffCtxStyle.Render("  "+t))
		}
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Render("Save Config: Pending Changes")
	footer := overlayHint.Render("enter: save  esc: cancel  j/k: scroll")
	return overlayBox(title+"\n\n"+strings.Join(lines, "\n")+"\n\n"+footer, areaW, areaH, 30, 80)
}

func (s SaveOverlay) viewResult(areaW, areaH int) string {
	var msg string
	if s.err != nil {
		msg = diffRmStyle.Bold(true).Render("Error: " + s.err.Error())
	} else {
		msg = diffAddStyle.Bold(true).Render("Config saved to "+displayOrDefault(s.path, "default path")) + "\n" +
			lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Render("Restart xwm to apply")
	}
	return overlayBox(msg+"\n\n"+overlayHint.Render("press any key to dismiss"), areaW, areaH, 30, 60)
}

// computeDiffLines diffs the YAML renderings of two configs. It returns nil
// when they render the same.
func computeDiffLines(original, current *config.Config) []diffLine {
	if original == nil || current == nil {
		return nil
	}
	a, err := yamlLines(original)
	if err != nil {
		return nil
	}
	b, err := yamlLines(current)
	if err != nil {
		return nil
	}
	return withContext(lcsDiff(a, b), 2)
}

func yamlLines(cfg *config.Config) ([]string, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n"), nil
}

// lcsDiff diffs a against b through their longest common subsequence. The
// config renders to a few dozen lines so the quadratic table is fine.
func lcsDiff(a, b []string) []diffLine {
	common := make([][]int, len(a)+1)
	for i := range common {
		common[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				common[i][j] = common[i+1][j+1] + 1
			} else {
				common[i][j] = max(common[i+1][j], common[i][j+1])
			}
		}
	}

	var out []diffLine
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case i < len(a) && j < len(b) && a[i] == b[j]:
			out = append(out, diffLine{kind: diffContext, text: a[i]})
			i++
			j++
		case j == len(b) || (i < len(a) && common[i+1][j] >= common[i][j+1]):
			out = append(out, diffLine{kind: diffRemoved, text: a[i]})
			i++
		default:
			out = append(out, diffLine{kind: diffAdded, text: b[j]})
			j++
		}
	}
	return out
}

// withContext keeps changed lines plus ctx lines around each, marking gaps
// with "...". It returns nil when nothing changed.
func withContext(lines []diffLine, ctx int) []diffLine {
	keep := make([]bool, len(lines))
	changed := false
	for i, l := range lines {
		if l.kind == diffContext {
			continue
		}
		changed = true
		for j := max(i-ctx, 0); j <= min(i+ctx, len(lines)-1); j++ {
			keep[j] = true
		}
	}
	if !changed {
		return nil
	}

	var out []diffLine
	gap := false
	for i, l := range lines {
		if !keep[i] {
			gap = true
			continue
		}
		if gap && len(out) > 0 {
			out = append(out, diffLine{kind: diffContext, text: "..."})
		}
		gap = false
		out = append(out, l)
	}
	return out
}

// cloneConfig copies cfg so edits can be diffed against the loaded state.
func cloneConfig(cfg *config.Config) *config.Config {
	if cfg == nil {
		return nil
	}
	clone := *cfg
	return &clone
}
