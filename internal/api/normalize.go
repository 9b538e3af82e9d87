package api

import (
	"encoding/json"
	"sort"
	"strings"

	"contra/internal/types"
)

// normalizeGenerate flattens a generate response into the internal result
// model. Each content field may live at the top level or under "result"; the
// top level wins when both are present.
func normalizeGenerate(w *generateResponseWire) *types.GenerationResult {
	out := &types.GenerationResult{
		Topic:          w.Topic,
		ExpertiseLevel: types.ParseExpertiseLevel(w.ExpertiseLevel),
	}

	narrative := w.Narrative
	images := w.Images
	viz := w.Visualizations
	data := w.Data
	if w.Result != nil {
		if narrative == nil {
			narrative = w.Result.Narrative
		}
		if len(images) == 0 {
			images = w.Result.Images
		}
		if viz == nil {
			viz = w.Result.Visualizations
		}
		if data == nil {
			data = w.Result.Data
		}
	}

	if narrative != nil {
		out.Narrative = &types.NarrativePayload{
			Narrative:      narrative.Narrative,
			Bullets:        narrative.Bullets,
			Prompt:         narrative.Prompt,
			Model:          narrative.Model,
			ExpertiseLevel: types.ParseExpertiseLevel(narrative.ExpertiseLevel),
			CreatedAt:      narrative.CreatedAt,
		}
	}
	for _, img := range images {
		out.Images = append(out.Images, types.ImagePayload{
			URL:          img.URL,
			Style:        img.Style,
			Prompt:       img.Prompt,
			FilePath:     img.FilePath,
			ModelVersion: img.ModelVersion,
			Width:        img.Width,
			Height:       img.Height,
			TopicID:      img.TopicID,
		})
	}
	if viz != nil {
		out.Visualizations = normalizeVisualizations(viz)
	}
	if data != nil {
		out.Sources = normalizeSources(data)
	}
	return out
}

func normalizeVisualizations(w *visualizationWire) *types.VisualizationPayload {
	out := &types.VisualizationPayload{Err: w.Error}
	if w.Timeline != nil {
		out.Timeline = normalizeChart(w.Timeline)
	}
	if w.CategoryBar != nil {
		out.CategoryBar = normalizeChart(w.CategoryBar)
	}
	if cm := w.ConceptMap; cm != nil {
		m := &types.ConceptMap{Title: cm.Title}
		for _, n := range cm.Nodes {
			m.Nodes = append(m.Nodes, types.ConceptNode{ID: n.ID, Group: n.Group})
		}
		for _, l := range cm.Links {
			m.Links = append(m.Links, types.ConceptLink{Source: l.Source, Target: l.Target, Value: l.Value})
		}
		out.ConceptMap = m
	}
	return out
}

// normalizeChart flattens a plotly figure. Numeric axis values become the
// series values; string axis values become labels (the backend mixes the two
// per orientation: timelines carry years on x, category bars carry category
// names on y).
func normalizeChart(w *plotlyFigureWire) *types.Chart {
	c := &types.Chart{Title: layoutTitle(w.Layout)}
	for _, t := range w.Data {
		s := types.ChartSeries{Name: t.Name, Labels: t.Text}
		xNums, xStrs := splitAxis(t.X)
		yNums, yStrs := splitAxis(t.Y)
		s.X = xNums
		s.Y = yNums
		if len(s.Labels) == 0 && len(xStrs) > 0 {
			s.Labels = xStrs
		}
		s.YLabels = yStrs
		c.Series = append(c.Series, s)
	}
	return c
}

func splitAxis(values []any) (nums []float64, strs []string) {
	for _, v := range values {
		switch x := v.(type) {
		case float64:
			nums = append(nums, x)
		case string:
			strs = append(strs, x)
		}
	}
	return nums, strs
}

func layoutTitle(l plotlyLayoutWire) string {
	switch t := l.Title.(type) {
	case string:
		return t
	case map[string]any:
		if s, ok := t["text"].(string); ok {
			return s
		}
	}
	return ""
}

func normalizeSources(w *sourceWire) *types.SourceData {
	out := &types.SourceData{}
	if w.Wikipedia != nil {
		out.Wikipedia = &types.WikipediaData{
			Summary: w.Wikipedia.Summary,
			URL:     w.Wikipedia.URL,
		}
	}
	if w.DBpedia != nil {
		out.DBpedia = &types.DBpediaData{
			Abstract:    w.DBpedia.Abstract,
			Categories:  w.DBpedia.Categories,
			ResourceURI: w.DBpedia.ResourceURI,
		}
	}
	for _, a := range w.News {
		publisher := a.Publisher
		if publisher == "" {
			publisher = a.Source
		}
		out.News = append(out.News, types.NewsArticle{
			Title:       a.Title,
			URL:         a.URL,
			Publisher:   publisher,
			PublishedAt: a.PublishedAt,
			Description: a.Description,
		})
	}
	return out
}

// normalizeStatus maps per-service wire statuses onto availability. Only
// "ok" counts as available; error, missing and unknown are all degraded
// states with their own message. Both status shapes are accepted: a flat
// status string with an apis array, or a keyed service map with a separate
// overall field.
func normalizeStatus(w *statusResponseWire) types.StatusReport {
	report := types.StatusReport{Overall: w.Overall}

	var flat string
	if len(w.Status) > 0 && json.Unmarshal(w.Status, &flat) == nil {
		if report.Overall == "" {
			report.Overall = flat
		}
	}
	if report.Overall == "" {
		report.Overall = "unknown"
	}

	for _, svc := range w.APIs {
		msg := svc.Message
		if msg == "" && svc.Status != "ok" {
			msg = "service " + svc.Status
		}
		report.Services = append(report.Services, types.ServiceStatus{
			Name:      svc.Name,
			Available: strings.EqualFold(svc.Status, "ok"),
			Message:   msg,
		})
	}

	// Keyed map variant, only when the apis array is absent.
	var keyed map[string]serviceStatusWire
	if len(report.Services) == 0 && len(w.Status) > 0 &&
		json.Unmarshal(w.Status, &keyed) == nil {
		names := make([]string, 0, len(keyed))
		for name := range keyed {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			svc := keyed[name]
			msg := svc.Message
			if msg == "" && !svc.Available {
				msg = "service unavailable"
			}
			report.Services = append(report.Services, types.ServiceStatus{
				Name:      name,
				Available: svc.Available,
				Message:   msg,
			})
		}
	}
	return report
}
