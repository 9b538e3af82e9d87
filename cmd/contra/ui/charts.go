package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"contra/internal/types"
)

const noChartDataCopy = "No data available for this chart."

// RenderTimeline draws a vertical event timeline: one line per event, year
// first, ordered chronologically.
func RenderTimeline(s Styles, c *types.Chart, width int) string {
	if !c.Renderable() {
		return s.Muted.Render(noChartDataCopy)
	}

	type event struct {
		year  float64
		label string
	}
	var events []event
	for _, series := range c.Series {
		for i, year := range series.X {
			label := ""
			if i < len(series.Labels) {
				label = series.Labels[i]
			}
			events = append(events, event{year: year, label: label})
		}
	}
	if len(events) == 0 {
		return s.Muted.Render(noChartDataCopy)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].year < events[j].year })

	var b strings.Builder
	if c.Title != "" {
		b.WriteString(s.PanelHeading.Render(c.Title))
		b.WriteString("\n")
	}
	yearStyle := lipgloss.NewStyle().Foreground(Chart1).Bold(true)
	for i, e := range events {
		connector := "├─"
		if i == len(events)-1 {
			connector = "└─"
		}
		line := fmt.Sprintf("%s %s  %s",
			s.Divider.Render(connector),
			yearStyle.Render(fmt.Sprintf("%.0f", e.year)),
			truncate(e.label, width-12))
		b.WriteString(line)
		if i < len(events)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// RenderCategoryBar draws a horizontal bar chart: one labeled bar per
// category, scaled to the largest value.
func RenderCategoryBar(s Styles, c *types.Chart, width int) string {
	if !c.Renderable() {
		return s.Muted.Render(noChartDataCopy)
	}

	var labels []string
	var values []float64
	for _, series := range c.Series {
		// Horizontal orientation: values on X, category names on Y.
		vals := series.X
		if len(vals) == 0 {
			vals = series.Y
		}
		names := series.YLabels
		if len(names) == 0 {
			names = series.Labels
		}
		for i, v := range vals {
			name := fmt.Sprintf("#%d", i+1)
			if i < len(names) {
				name = names[i]
			}
			labels = append(labels, name)
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return s.Muted.Render(noChartDataCopy)
	}

	maxVal := values[0]
	labelWidth := 0
	for i, v := range values {
		if v > maxVal {
			maxVal = v
		}
		if w := lipgloss.Width(labels[i]); w > labelWidth {
			labelWidth = w
		}
	}
	if labelWidth > 24 {
		labelWidth = 24
	}
	barSpace := width - labelWidth - 10
	if barSpace < 8 {
		barSpace = 8
	}

	var b strings.Builder
	if c.Title != "" {
		b.WriteString(s.PanelHeading.Render(c.Title))
		b.WriteString("\n")
	}
	barStyle := lipgloss.NewStyle().Foreground(Chart2)
	for i, v := range values {
		length := 1
		if maxVal > 0 {
			length = int(v / maxVal * float64(barSpace))
			if length < 1 {
				length = 1
			}
		}
		b.WriteString(fmt.Sprintf("%-*s %s %.0f",
			labelWidth, truncate(labels[i], labelWidth),
			barStyle.Render(strings.Repeat("█", length)), v))
		if i < len(values)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// RenderConceptMap draws the node-link graph as an indented tree rooted at
// the topic node, grouping each node's outgoing links under it.
func RenderConceptMap(s Styles, m *types.ConceptMap, width int) string {
	if !m.Renderable() {
		return s.Muted.Render(noChartDataCopy)
	}

	children := map[string][]string{}
	linked := map[string]bool{}
	for _, l := range m.Links {
		children[l.Source] = append(children[l.Source], l.Target)
		linked[l.Target] = true
	}

	groupStyle := map[int]lipgloss.Style{
		1: lipgloss.NewStyle().Foreground(Chart3).Bold(true),
		2: lipgloss.NewStyle().Foreground(Chart2),
		3: lipgloss.NewStyle().Foreground(Chart4),
	}
	groups := map[string]int{}
	for _, n := range m.Nodes {
		groups[n.ID] = n.Group
	}
	styled := func(id string) string {
		if st, ok := groupStyle[groups[id]]; ok {
			return st.Render(id)
		}
		return id
	}

	var b strings.Builder
	if m.Title != "" {
		b.WriteString(s.PanelHeading.Render(m.Title))
		b.WriteString("\n")
	}

	seen := map[string]bool{}
	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		if seen[id] || depth > 3 {
			return
		}
		seen[id] = true
		indent := strings.Repeat("  ", depth)
		connector := ""
		if depth > 0 {
			connector = s.Divider.Render("└ ")
		}
		b.WriteString(indent + connector + styled(truncate(id, width-2*depth)) + "\n")
		for _, child := range children[id] {
			walk(child, depth+1)
		}
	}
	// Roots are nodes nothing links to; the topic node comes first.
	for _, n := range m.Nodes {
		if !linked[n.ID] {
			walk(n.ID, 0)
		}
	}
	for _, n := range m.Nodes {
		walk(n.ID, 0)
	}
	return strings.TrimRight(b.String(), "\n")
}

func truncate(s string, max int) string {
	if max < 4 || lipgloss.Width(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
