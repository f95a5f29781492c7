package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/xwm/internal/ipc"
)

// OutputsTab shows the output arrangement as a scaled map plus a list.
type OutputsTab struct {
	outputs []ipc.OutputInfo

	width  int
	height int
}

// SetOutputs replaces the shown outputs.
func (ot *OutputsTab) SetOutputs(outputs []ipc.OutputInfo) {
	ot.outputs = outputs
}

// Update implements tea.Model.
func (ot OutputsTab) Update(msg tea.Msg) (OutputsTab, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		ot.width = msg.Width
		ot.height = msg.Height
	}
	return ot, nil
}

// View implements tea.Model.
func (ot OutputsTab) View() string {
	if ot.width == 0 || ot.height == 0 {
		return ""
	}
	if len(ot.outputs) == 0 {
		return lipgloss.NewStyle().
			Width(ot.width).
			Height(ot.height).
			Foreground(lipgloss.Color("241")).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No outputs reported")
	}

	listLines := make([]string, 0, len(ot.outputs))
	for i, o := range ot.outputs {
		listLines = append(listLines, fmt.Sprintf("%d  %-10s %dx%d+%d+%d", i+1, o.Name, o.Width, o.Height, o.X, o.Y))
	}
	listBlock := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Render(strings.Join(listLines, "\n"))

	mapHeight := ot.height - len(listLines) - 2
	if mapHeight < 5 {
		mapHeight = 5
	}
	mapWidth := ot.width - 2
	if mapWidth < 10 {
		mapWidth = 10
	}
	canvas := lipgloss.NewStyle().
		Foreground(lipgloss.Color("247")).
		Render(strings.Join(renderOutputMap(ot.outputs, mapWidth, mapHeight), "\n"))

	return lipgloss.NewStyle().Padding(0, 1).Render(lipgloss.JoinVertical(lipgloss.Left, canvas, "", listBlock))
}

// renderOutputMap draws every output, numbered from 1, scaled so their
// bounding box fills a width x height character canvas.
func renderOutputMap(outputs []ipc.OutputInfo, width, height int) []string {
	if len(outputs) == 0 || width < 5 || height < 3 {
		return emptyCanvas(width, height)
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	minX, minY := int(outputs[0].X), int(outputs[0].Y)
	maxX, maxY := minX, minY
	for _, o := range outputs {
		minX = min(minX, int(o.X))
		minY = min(minY, int(o.Y))
		maxX = max(maxX, int(o.X)+int(o.Width))
		maxY = max(maxY, int(o.Y)+int(o.Height))
	}
	spanW, spanH := maxX-minX, maxY-minY
	if spanW <= 0 || spanH <= 0 {
		return emptyCanvas(width, height)
	}

	for i, o := range outputs {
		x1 := (int(o.X) - minX) * (width - 1) / spanW
		y1 := (int(o.Y) - minY) * (height - 1) / spanH
		x2 := (int(o.X) - minX + int(o.Width)) * (width - 1) / spanW
		y2 := (int(o.Y) - minY + int(o.Height)) * (height - 1) / spanH
		drawBox(canvas, x1, y1, x2, y2, fmt.Sprintf("%d", i+1))
	}

	lines := make([]string, height)
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return lines
}

// drawBox draws a box between the inclusive corners with label centered.
// Boxes smaller than 2x2 are skipped.
func drawBox(canvas [][]rune, x1, y1, x2, y2 int, label string) {
	if x2 <= x1 || y2 <= y1 {
		return
	}

	for x := x1; x <= x2; x++ {
		canvas[y1][x] = '─'
		canvas[y2][x] = '─'
	}
	for y := y1; y <= y2; y++ {
		canvas[y][x1] = '│'
		canvas[y][x2] = '│'
	}
	canvas[y1][x1] = '┌'
	canvas[y1][x2] = '┐'
	canvas[y2][x1] = '└'
	canvas[y2][x2] = '┘'

	centerY := (y1 + y2) / 2
	centerX := (x1 + x2) / 2
	if centerY > y1 && centerY < y2 {
		startX := centerX - len(label)/2
		for i, r := range label {
			if startX+i > x1 && startX+i < x2 {
				canvas[centerY][startX+i] = r
			}
		}
	}
}

func emptyCanvas(width, height int) []string {
	if height < 0 {
		height = 0
	}
	lines := make([]string, height)
	empty := strings.Repeat(" ", max(width, 0))
	for i := range lines {
		lines[i] = empty
	}
	return lines
}
