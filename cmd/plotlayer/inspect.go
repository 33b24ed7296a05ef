package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/MehdiChinoune/scidavis-svn-sub001/src/curves"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/layer"
	"github.com/MehdiChinoune/scidavis-svn-sub001/src/render"
)

var (
	accent     = lipgloss.Color("#7C3AED")
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	headStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1)
)

// describe renders a boxed summary of a layer.
func describe(l *layer.Layer, name string) string {
	cfg := l.Config()
	head := titleStyle.Render(name)
	if cfg.Title != "" {
		head += dimStyle.Render("  " + cfg.Title)
	}
	sections := []string{
		head,
		dimStyle.Render(fmt.Sprintf("%dx%d at %d,%d", cfg.Width, cfg.Height, cfg.X, cfg.Y)),
		"",
		headStyle.Render("Axes"),
		axesSection(l),
		"",
		headStyle.Render(fmt.Sprintf("Curves (%d)", l.Curves().Len())),
		curvesSection(l),
		"",
		headStyle.Render(fmt.Sprintf("Markers (%d)", l.Markers().Len())),
		markersSection(l),
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func axesSection(l *layer.Layer) string {
	var b strings.Builder
	e := l.Scales()
	for p := render.AxisPos(0); p < render.AxisCount; p++ {
		a, s := e.Axis(p), e.Scale(p)
		state := "off"
		if a.Enabled {
			state = "on"
		}
		fmt.Fprintf(&b, "%-7s %-3s %-10s [%g, %g] %s", p, state, a.Type, s.Lo, s.Hi, s.Transform)
		if s.Inverted {
			b.WriteString(" inverted")
		}
		if a.Title.Text != "" {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  %q", a.Title.Text)))
		}
		if p < render.AxisCount-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func curvesSection(l *layer.Layer) string {
	r := l.Curves()
	if r.Len() == 0 {
		return dimStyle.Render("none")
	}
	lines := make([]string, 0, r.Len())
	for i := 0; i < r.Len(); i++ {
		c, _ := r.Curve(i)
		base := c.Common()
		line := fmt.Sprintf("%2d %-18s %-20s %d pts", i, c.Kind(), base.Title, len(curves.Points(c)))
		if base.Binding.Source != "" {
			line += dimStyle.Render("  " + base.Binding.Source)
		}
		if !base.Visible {
			line += dimStyle.Render("  hidden")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func markersSection(l *layer.Layer) string {
	m := l.Markers()
	if m.Len() == 0 {
		return dimStyle.Render("none")
	}
	var lines []string
	legend := m.LegendID()
	for _, h := range m.Texts() {
		it, _ := m.Item(h)
		label := "text"
		if h == legend {
			label = "legend"
		}
		lines = append(lines, fmt.Sprintf("%-6s %q", label, it.Text))
	}
	for _, h := range m.Lines() {
		it, _ := m.Item(h)
		lines = append(lines, fmt.Sprintf("%-6s (%g,%g) -> (%g,%g)", "line", it.Origin.X, it.Origin.Y, it.End.X, it.End.Y))
	}
	for _, h := range m.Images() {
		it, _ := m.Item(h)
		lines = append(lines, fmt.Sprintf("%-6s %s", "image", it.ImagePath))
	}
	return strings.Join(lines, "\n")
}
