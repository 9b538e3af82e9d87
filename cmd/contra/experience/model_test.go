package experience

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"contra/cmd/contra/ui"
	"contra/internal/config"
	"contra/internal/engine"
	"contra/internal/render"
	"contra/internal/types"
	"contra/internal/viz"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	m := NewModel(config.Default(), nil)
	// Simulate the first frame so the viewport exists.
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 32})
	return next.(Model)
}

func TestNewModelDefaults(t *testing.T) {
	m := NewModel(config.Default(), nil)
	if m.mode != FormView {
		t.Errorf("mode = %v, want FormView", m.mode)
	}
	if got := m.activeTone(); got != types.ToneInformative {
		t.Errorf("default tone = %q, want informative", got)
	}
	if got := m.activeExpertise(); got != types.ExpertiseIntermediate {
		t.Errorf("default expertise = %q, want intermediate", got)
	}
}

func TestInvalidTopicStaysOnForm(t *testing.T) {
	m := newTestModel(t)
	m.topicInput.SetValue("ab")

	next, cmd := m.submitTopic()
	m = next.(Model)
	if m.mode != FormView {
		t.Fatalf("mode = %v, want FormView", m.mode)
	}
	if m.validationMsg == "" {
		t.Error("validation message not set")
	}
	if cmd == nil {
		t.Error("no auto-clear command scheduled")
	}
}

func TestValidTopicEntersLoading(t *testing.T) {
	m := newTestModel(t)
	m.topicInput.SetValue("volcanoes")

	next, cmd := m.submitTopic()
	m = next.(Model)
	if m.mode != LoadingView {
		t.Fatalf("mode = %v, want LoadingView", m.mode)
	}
	if cmd == nil {
		t.Error("no submit command returned")
	}
}

func TestStaleValidationClearIgnored(t *testing.T) {
	m := newTestModel(t)
	m.validationMsg = "newer message"
	m.valSeq = 2

	next, _ := m.Update(validationClearedMsg{seq: 1})
	m = next.(Model)
	if m.validationMsg != "newer message" {
		t.Error("stale clear wiped a newer validation message")
	}

	next, _ = m.Update(validationClearedMsg{seq: 2})
	m = next.(Model)
	if m.validationMsg != "" {
		t.Error("matching clear did not wipe the message")
	}
}

func TestGenerationSuccessShowsResult(t *testing.T) {
	m := newTestModel(t)
	result := &types.GenerationResult{
		Topic: "the printing press",
		Narrative: &types.NarrativePayload{
			Narrative: "A machine that changed everything.",
			Prompt:    "Write a dramatic narrative about the printing press",
		},
	}
	sections := render.Render(result, types.ToneInformative, nil)

	next, _ := m.Update(generationDoneMsg{outcome: engine.Outcome{Result: result, Sections: sections}})
	m = next.(Model)

	if m.mode != ResultView {
		t.Fatalf("mode = %v, want ResultView", m.mode)
	}
	if m.activeTab != TabNarrative {
		t.Errorf("activeTab = %v, want TabNarrative", m.activeTab)
	}
	// The prompt-embedded tone wins and propagates to the conversation.
	if got := m.tone.get(); got != types.ToneDramatic {
		t.Errorf("shared tone = %q, want dramatic", got)
	}
	if got := m.conv.Topic(); got != "the printing press" {
		t.Errorf("conversation topic = %q", got)
	}
}

func TestImageLoadStateTracksPerCard(t *testing.T) {
	m := newTestModel(t)
	result := &types.GenerationResult{
		Topic:     "volcanoes",
		Narrative: &types.NarrativePayload{Narrative: "Text."},
		Images: []types.ImagePayload{
			{URL: "images/a.png", Style: "photorealistic"},
			{URL: "images/b.png", Style: "artistic"},
		},
	}
	sections := render.Render(result, types.ToneInformative, nil)

	next, _ := m.Update(generationDoneMsg{outcome: engine.Outcome{Result: result, Sections: sections}})
	m = next.(Model)
	if len(m.imageStates) != 2 {
		t.Fatalf("imageStates = %d, want one per card", len(m.imageStates))
	}

	// One card fails its probe; the sibling keeps its own state.
	next, _ = m.Update(imageCheckedMsg{index: 1, ok: false})
	m = next.(Model)
	if m.imageStates[1] != imageFailed {
		t.Errorf("card 1 state = %v, want failed", m.imageStates[1])
	}
	if m.imageStates[0] != imageLoading {
		t.Errorf("card 0 state = %v, want still loading", m.imageStates[0])
	}

	next, _ = m.Update(imageCheckedMsg{index: 0, ok: true})
	m = next.(Model)
	if m.imageStates[0] != imageReady {
		t.Errorf("card 0 state = %v, want ready", m.imageStates[0])
	}

	pane := m.renderImages()
	if !strings.Contains(pane, "failed to load") {
		t.Error("failed card should show its error indicator")
	}
	if !strings.Contains(pane, "✓") {
		t.Error("loaded card should show its ready indicator")
	}
}

func TestGenerationValidationErrorReturnsToForm(t *testing.T) {
	m := newTestModel(t)
	m.mode = LoadingView

	verr := &types.ValidationError{Field: "topic", Message: "topic must be at least 3 characters"}
	next, cmd := m.Update(generationDoneMsg{outcome: engine.Outcome{Err: verr}})
	m = next.(Model)

	if m.mode != FormView {
		t.Fatalf("mode = %v, want FormView", m.mode)
	}
	if m.validationMsg != verr.Message {
		t.Errorf("validationMsg = %q", m.validationMsg)
	}
	if cmd == nil {
		t.Error("no auto-clear command scheduled")
	}
}

func TestGenerationFailureShowsErrorView(t *testing.T) {
	m := newTestModel(t)
	m.mode = LoadingView

	next, _ := m.Update(generationDoneMsg{outcome: engine.Outcome{
		Err: &types.RequestError{Status: 500, Message: "boom"},
	}})
	m = next.(Model)
	if m.mode != ErrorView {
		t.Fatalf("mode = %v, want ErrorView", m.mode)
	}
}

func TestVisualizationTabMaterializesOnce(t *testing.T) {
	m := newTestModel(t)
	m.mode = ResultView

	next, _ := m.switchTab(TabVisualizations)
	m = next.(Model)
	if m.activeTab != TabVisualizations {
		t.Fatalf("activeTab = %v", m.activeTab)
	}
	// The switch already materialized; a second activation is a no-op.
	if got := m.store.Materialize(true); got != viz.OutcomeAlreadyRendered {
		t.Errorf("second activation = %v, want already-rendered", got)
	}
}

func TestToneCycleWithoutResultIsNoop(t *testing.T) {
	m := newTestModel(t)
	before := m.toneIdx
	next, _ := m.cycleTone()
	m = next.(Model)
	if m.toneIdx != before {
		t.Error("tone cycled with no stored result")
	}
}

func TestChartPaneMixedAvailability(t *testing.T) {
	pane := newChartPane(ui.DefaultStyles())
	payload := &types.VisualizationPayload{
		Timeline: &types.Chart{Series: []types.ChartSeries{{}}}, // present but empty
		CategoryBar: &types.Chart{Series: []types.ChartSeries{{
			X:       []float64{3, 1},
			YLabels: []string{"Religion", "Science"},
		}}},
	}
	if err := pane.RenderCharts(payload); err != nil {
		t.Fatalf("RenderCharts: %v", err)
	}
	timeline, bars, _ := pane.Rendered()
	if !strings.Contains(timeline, "No data available") {
		t.Errorf("empty timeline should show its own no-data copy, got %q", timeline)
	}
	if !strings.Contains(bars, "Religion") {
		t.Errorf("populated bars should still render, got %q", bars)
	}
}

func TestChartPaneRendersPlaceholder(t *testing.T) {
	pane := newChartPane(ui.DefaultStyles())
	if err := pane.RenderCharts(viz.PlaceholderVisualizations()); err != nil {
		t.Fatalf("RenderCharts: %v", err)
	}
	timeline, bars, concepts := pane.Rendered()
	for name, out := range map[string]string{"timeline": timeline, "bars": bars, "concepts": concepts} {
		if strings.TrimSpace(out) == "" {
			t.Errorf("%s rendered empty", name)
		}
	}
}
