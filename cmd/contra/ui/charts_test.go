package ui

import (
	"strings"
	"testing"

	"contra/internal/types"
)

func TestRenderTimelineOrdersEvents(t *testing.T) {
	s := NewStyles(DarkTheme())
	chart := &types.Chart{
		Title: "Events",
		Series: []types.ChartSeries{{
			X:      []float64{1886, 1440},
			Labels: []string{"Linotype machine", "Movable type"},
		}},
	}
	out := RenderTimeline(s, chart, 80)
	first := strings.Index(out, "Movable type")
	second := strings.Index(out, "Linotype machine")
	if first < 0 || second < 0 {
		t.Fatalf("missing labels in output:\n%s", out)
	}
	if first > second {
		t.Error("events not in chronological order")
	}
}

func TestRenderCategoryBarScalesToMax(t *testing.T) {
	s := NewStyles(DarkTheme())
	chart := &types.Chart{
		Series: []types.ChartSeries{{
			X:       []float64{10, 5},
			YLabels: []string{"Religion", "Science"},
		}},
	}
	out := RenderCategoryBar(s, chart, 60)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), out)
	}
	if c0, c1 := strings.Count(lines[0], "█"), strings.Count(lines[1], "█"); c0 <= c1 {
		t.Errorf("bar lengths %d vs %d, want first longer", c0, c1)
	}
}

func TestRenderChartsHandleEmptyData(t *testing.T) {
	s := NewStyles(DarkTheme())
	for name, out := range map[string]string{
		"timeline nil": RenderTimeline(s, nil, 80),
		"bars empty":   RenderCategoryBar(s, &types.Chart{}, 80),
		"map no links": RenderConceptMap(s, &types.ConceptMap{Nodes: []types.ConceptNode{{ID: "x"}}}, 80),
	} {
		if !strings.Contains(out, "No data available") {
			t.Errorf("%s: missing empty copy, got %q", name, out)
		}
	}
}

func TestRenderConceptMapWalksFromRoot(t *testing.T) {
	s := NewStyles(DarkTheme())
	m := &types.ConceptMap{
		Nodes: []types.ConceptNode{
			{ID: "Printing Press", Group: 1},
			{ID: "Typography", Group: 2},
			{ID: "Gutenberg honored", Group: 3},
		},
		Links: []types.ConceptLink{
			{Source: "Printing Press", Target: "Typography"},
			{Source: "Typography", Target: "Gutenberg honored"},
		},
	}
	out := RenderConceptMap(s, m, 80)
	for _, id := range []string{"Printing Press", "Typography", "Gutenberg honored"} {
		if !strings.Contains(out, id) {
			t.Errorf("output missing node %q:\n%s", id, out)
		}
	}
}

func TestRenderCacheBoundedAndKeyed(t *testing.T) {
	rc := NewRenderCache(1)
	calls := 0
	compute := func() string { calls++; return "out" }

	k := Key("a", 1, 2.5, true)
	rc.GetOrCompute(k, compute)
	rc.GetOrCompute(k, compute)
	if calls != 1 {
		t.Errorf("compute ran %d times, want 1", calls)
	}

	// Full cache: new keys compute every time but are not stored.
	rc.GetOrCompute(Key("b"), compute)
	rc.GetOrCompute(Key("b"), compute)
	if calls != 3 {
		t.Errorf("compute ran %d times, want 3", calls)
	}

	rc.Invalidate()
	rc.GetOrCompute(k, compute)
	if calls != 4 {
		t.Errorf("compute ran %d times after invalidate, want 4", calls)
	}
}
