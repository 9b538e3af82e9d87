package types

import "strings"

// VisualizationPayload holds up to three charts for one generation, or a
// backend error that replaces all of them. A nil sub-chart means the backend
// produced nothing for it; a present-but-empty sub-chart is a distinct
// degraded state and renders its own "no data" message.
type VisualizationPayload struct {
	Timeline    *Chart
	CategoryBar *Chart
	ConceptMap  *ConceptMap
	Err         string
}

// HasError reports whether the payload carries a backend error string. When
// it does, all three chart regions render the error verbatim and no chart is
// constructed.
func (v *VisualizationPayload) HasError() bool {
	return v != nil && strings.TrimSpace(v.Err) != ""
}

// Chart is a flattened plotly-style figure: one or more series plus a title
// taken from the layout.
type Chart struct {
	Title  string
	Series []ChartSeries
}

// ChartSeries is one trace. Timeline series use X (years) with Labels as
// event text; category series use Y values with YLabels as category names.
type ChartSeries struct {
	Name    string
	X       []float64
	Y       []float64
	Labels  []string
	YLabels []string
}

// Renderable reports whether the chart has at least one non-empty series.
func (c *Chart) Renderable() bool {
	if c == nil {
		return false
	}
	for _, s := range c.Series {
		if len(s.X) > 0 || len(s.Y) > 0 {
			return true
		}
	}
	return false
}

// ConceptMap is a small node-link graph relating the topic to its categories
// and headlines.
type ConceptMap struct {
	Title string
	Nodes []ConceptNode
	Links []ConceptLink
}

// ConceptNode is one graph node. Group 1 is the topic itself, 2 a category,
// 3 a news headline.
type ConceptNode struct {
	ID    string
	Group int
}

// ConceptLink connects two nodes by ID.
type ConceptLink struct {
	Source string
	Target string
	Value  float64
}

// Renderable requires both nodes and links to be non-empty.
func (m *ConceptMap) Renderable() bool {
	return m != nil && len(m.Nodes) > 0 && len(m.Links) > 0
}
