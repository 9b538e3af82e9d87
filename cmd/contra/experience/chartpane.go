package experience

import (
	"strconv"
	"sync"

	"contra/cmd/contra/ui"
	"contra/internal/types"
)

// chartPane turns a visualization payload into terminal chart strings. Each
// region renders independently: a chart without data shows its own empty copy
// while its siblings still draw.
type chartPane struct {
	styles ui.Styles
	cache  *ui.RenderCache

	mu      sync.Mutex
	width   int
	payload *types.VisualizationPayload

	timeline    string
	categoryBar string
	conceptMap  string
}

func newChartPane(styles ui.Styles) *chartPane {
	return &chartPane{
		styles: styles,
		cache:  ui.NewRenderCache(64),
		width:  80,
	}
}

// RenderCharts satisfies viz.ChartRenderer. Construction is cheap enough to
// run on the UI goroutine; the cache absorbs repeat activations after a
// resize flips the width back.
func (p *chartPane) RenderCharts(payload *types.VisualizationPayload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payload = payload
	p.renderLocked()
	return nil
}

// Resize re-renders the charts for a new terminal width if they have been
// materialized already.
func (p *chartPane) Resize(width int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if width < 20 {
		width = 20
	}
	if width == p.width {
		return
	}
	p.width = width
	if p.payload != nil {
		p.renderLocked()
	}
}

func (p *chartPane) renderLocked() {
	pl := p.payload
	w := p.width

	p.timeline = p.cache.GetOrCompute(ui.Key("timeline", w, chartFingerprint(pl.Timeline)), func() string {
		return ui.RenderTimeline(p.styles, pl.Timeline, w)
	})
	p.categoryBar = p.cache.GetOrCompute(ui.Key("bars", w, chartFingerprint(pl.CategoryBar)), func() string {
		return ui.RenderCategoryBar(p.styles, pl.CategoryBar, w)
	})
	p.conceptMap = p.cache.GetOrCompute(ui.Key("concepts", w, mapFingerprint(pl.ConceptMap)), func() string {
		return ui.RenderConceptMap(p.styles, pl.ConceptMap, w)
	})
}

// Rendered returns the three chart strings in presentation order. Empty
// strings mean the charts have not been materialized yet.
func (p *chartPane) Rendered() (timeline, bars, concepts string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.timeline, p.categoryBar, p.conceptMap
}

func chartFingerprint(c *types.Chart) string {
	if c == nil {
		return ""
	}
	fp := c.Title
	for _, s := range c.Series {
		fp += "|" + s.Name
		for _, l := range s.Labels {
			fp += "," + l
		}
		for _, x := range s.X {
			fp += ";" + strconv.FormatFloat(x, 'g', -1, 64)
		}
	}
	return fp
}

func mapFingerprint(m *types.ConceptMap) string {
	if m == nil {
		return ""
	}
	fp := m.Title
	for _, n := range m.Nodes {
		fp += "|" + n.ID
	}
	for _, l := range m.Links {
		fp += ">" + l.Source + l.Target
	}
	return fp
}
