package render

import (
	"errors"
	"strings"
	"testing"

	"contra/internal/tone"
	"contra/internal/types"
)

func narrativeResult(topic, text, bullets string) *types.GenerationResult {
	return &types.GenerationResult{
		Topic: topic,
		Narrative: &types.NarrativePayload{
			Narrative: text,
			Bullets:   bullets,
		},
	}
}

func TestRenderAllTonesNeverEmpty(t *testing.T) {
	inputs := []string{
		"One paragraph only.",
		"First.\n\nSecond.\n\nThird.\n\nFourth.",
	}
	for _, tn := range types.AllTones() {
		for _, text := range inputs {
			s := Render(narrativeResult("volcanoes", text, ""), tn, nil)
			if s.Narrative.Err != nil {
				t.Fatalf("tone %q: %v", tn, s.Narrative.Err)
			}
			if len(s.Narrative.View.Blocks) == 0 && s.Narrative.Fallback == "" {
				t.Errorf("tone %q: empty narrative section", tn)
			}
		}
	}
}

func TestRenderScenarioDramatic(t *testing.T) {
	result := narrativeResult("French Revolution", "P1\n\nP2", "- a\n- b")
	s := Render(result, types.ToneDramatic, nil)

	if s.Tone != types.ToneDramatic {
		t.Errorf("tone = %q", s.Tone)
	}
	if got := len(s.Narrative.View.Blocks); got != 2 {
		t.Errorf("narrative blocks = %d, want 2", got)
	}
	if !s.Bullets.Present || len(s.Bullets.View.Items) != 2 {
		t.Errorf("bullets present=%v items=%d, want 2", s.Bullets.Present, len(s.Bullets.View.Items))
	}
	if s.Bullets.View.Marker != "‣" {
		t.Errorf("bullet marker = %q", s.Bullets.View.Marker)
	}
	if s.Images.View.Empty == "" || len(s.Images.View.Cards) != 0 {
		t.Errorf("image section should be the dramatic empty-state, got %+v", s.Images.View)
	}
}

func TestRenderMissingNarrativeShowsPlaceholder(t *testing.T) {
	s := Render(&types.GenerationResult{Topic: "x"}, types.ToneInformative, nil)
	if s.Narrative.Fallback == "" {
		t.Error("expected narrative fallback copy")
	}
	if s.Bullets.Present {
		t.Error("bullets should be suppressed")
	}
	if s.Images.View.Empty == "" {
		t.Error("expected empty-image copy")
	}
}

func TestRenderNilResult(t *testing.T) {
	s := Render(nil, types.TonePoetic, nil)
	if s.Narrative.Fallback == "" {
		t.Error("nil result should render the narrative placeholder")
	}
}

func TestResolveTonePrecedence(t *testing.T) {
	withPrompt := &types.GenerationResult{
		Narrative: &types.NarrativePayload{
			Prompt: "Write a poetic narrative about volcanoes for an advanced reader",
		},
	}
	if got := ResolveTone(withPrompt, types.ToneDramatic); got != types.TonePoetic {
		t.Errorf("prompt tone should win, got %q", got)
	}
	noPrompt := &types.GenerationResult{Narrative: &types.NarrativePayload{}}
	if got := ResolveTone(noPrompt, types.ToneHumorous); got != types.ToneHumorous {
		t.Errorf("active tone should apply, got %q", got)
	}
	if got := ResolveTone(nil, ""); got != types.ToneInformative {
		t.Errorf("default should be informative, got %q", got)
	}
}

// panicStrategy blows up in one formatter to prove the blast radius stays
// inside that section.
type panicStrategy struct{ tone.Strategy }

func (p panicStrategy) Narrative(paragraphs []string, topic string) tone.NarrativeView {
	panic("formatter bug")
}

func TestSectionFaultIsolation(t *testing.T) {
	result := narrativeResult("ducks", "Some text.", "- fact")
	s := RenderWith(panicStrategy{tone.Lookup(types.ToneInformative)}, result, nil)

	var sre *types.SectionRenderError
	if s.Narrative.Err == nil {
		t.Fatal("expected narrative section error")
	}
	if !errors.As(s.Narrative.Err, &sre) || sre.Section != "narrative" {
		t.Errorf("narrative err = %v", s.Narrative.Err)
	}
	if s.Narrative.Fallback == "" {
		t.Error("failed narrative should show fallback copy")
	}
	if !s.Bullets.Present || s.Bullets.Err != nil {
		t.Error("bullets should be unaffected by the narrative failure")
	}
	if s.Images.Err != nil || s.Sources.Err != nil {
		t.Error("images/sources should be unaffected")
	}
}

// sourcesPanicStrategy blows up in the sources formatter only.
type sourcesPanicStrategy struct{ tone.Strategy }

func (sourcesPanicStrategy) Sources(src *types.SourceData) tone.SourceView {
	panic("formatter bug")
}

func TestSourcesFaultShowsFallbackPanels(t *testing.T) {
	result := narrativeResult("ducks", "Some text.", "")
	s := RenderWith(sourcesPanicStrategy{tone.Lookup(types.ToneInformative)}, result, nil)

	var sre *types.SectionRenderError
	if !errors.As(s.Sources.Err, &sre) || sre.Section != "sources" {
		t.Fatalf("sources err = %v", s.Sources.Err)
	}
	panels := []tone.SourcePanel{
		s.Sources.View.Encyclopedia,
		s.Sources.View.News,
		s.Sources.View.Categories,
	}
	for i, p := range panels {
		if p.Heading == "" {
			t.Errorf("panel %d: failed section lost its heading", i)
		}
		if p.Empty == "" {
			t.Errorf("panel %d: failed section has no fallback copy", i)
		}
	}
	if s.Narrative.Err != nil || s.Images.Err != nil {
		t.Error("narrative/images should be unaffected by the sources failure")
	}
}

func TestSplitParagraphs(t *testing.T) {
	got := SplitParagraphs("A\r\n\r\nB\n\n\n\nC\n\n")
	want := []string{"A", "B", "C"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("paragraph %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitBulletsStripsMarkers(t *testing.T) {
	got := SplitBullets("• first\n- second\n2) third\n\n   * fourth")
	want := []string{"first", "second", "third", "fourth"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d = %q, want %q", i, got[i], want[i])
		}
	}
	if strings.Join(SplitBullets("  \n \n"), "") != "" {
		t.Error("blank input should yield no items")
	}
}
