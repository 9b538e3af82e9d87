// Package render turns a normalized generation result into the four
// presentation sections. Each section is built inside its own fault boundary:
// a panic in one section's formatter becomes a SectionRenderError and
// fallback copy for that section only, never a blank screen and never a
// crash that takes sibling sections with it.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"contra/internal/tone"
	"contra/internal/types"
)

// Copy shown in place of a section that failed.
const (
	narrativeFailedCopy = "Generation failed for this section. Try again, or try a different tone."
	sectionFailedCopy   = "This section could not be displayed."
)

// Sections is the fully rendered result. Every field has a defined state for
// any subset of input data.
type Sections struct {
	Tone  types.Tone
	Topic string
	Title string

	Narrative NarrativeSection
	Bullets   BulletSection
	Images    ImageSection
	Sources   SourceSection
}

// NarrativeSection always renders something: the formatted view, or Fallback
// when the payload had no narrative text or the formatter failed.
type NarrativeSection struct {
	View     tone.NarrativeView
	Fallback string
	Err      error
}

// BulletSection is suppressed entirely (Present=false) when the payload has
// no bullets. Absent bullets are a valid state, not a failure.
type BulletSection struct {
	Present bool
	View    tone.BulletView
	Err     error
}

// ImageSection renders cards, or the tone's empty-state copy.
type ImageSection struct {
	View tone.ImageView
	Err  error
}

// SourceSection holds the three citation sub-panels.
type SourceSection struct {
	View tone.SourceView
	Err  error
}

// ResolveTone applies the tone precedence: the tone embedded in the
// narrative's generation prompt wins over the active selection, which wins
// over the informative default.
func ResolveTone(result *types.GenerationResult, active types.Tone) types.Tone {
	if result != nil && result.Narrative != nil {
		if embedded, ok := types.ToneFromPrompt(result.Narrative.Prompt); ok {
			return embedded
		}
	}
	return types.ParseTone(string(active))
}

// Render builds all four sections using the tone resolved from the result
// and the active selection. logger may be nil.
func Render(result *types.GenerationResult, active types.Tone, logger *zap.Logger) Sections {
	resolved := ResolveTone(result, active)
	return RenderWith(tone.Lookup(resolved), result, logger)
}

// RenderWith renders using an explicit strategy.
func RenderWith(strategy tone.Strategy, result *types.GenerationResult, logger *zap.Logger) Sections {
	if logger == nil {
		logger = zap.NewNop()
	}
	if result == nil {
		result = &types.GenerationResult{}
	}

	out := Sections{
		Tone:  strategy.Tone(),
		Topic: result.Topic,
		Title: types.FormatTitle(result.Topic),
	}

	out.Narrative.Err = section("narrative", logger, func() {
		if !result.Narrative.HasNarrative() {
			out.Narrative.Fallback = narrativeFailedCopy
			return
		}
		paragraphs := SplitParagraphs(result.Narrative.Narrative)
		out.Narrative.View = strategy.Narrative(paragraphs, result.Topic)
	})
	if out.Narrative.Err != nil {
		out.Narrative.Fallback = narrativeFailedCopy
	}

	out.Bullets.Err = section("bullets", logger, func() {
		if !result.Narrative.HasBullets() {
			return
		}
		items := SplitBullets(result.Narrative.Bullets)
		if len(items) == 0 {
			return
		}
		out.Bullets.Present = true
		out.Bullets.View = strategy.Bullets(items)
	})
	if out.Bullets.Err != nil {
		out.Bullets.Present = false
	}

	out.Images.Err = section("images", logger, func() {
		out.Images.View = strategy.Images(result.Images, result.Topic)
	})
	if out.Images.Err != nil {
		out.Images.View = tone.ImageView{Empty: sectionFailedCopy}
	}

	out.Sources.Err = section("sources", logger, func() {
		out.Sources.View = strategy.Sources(result.Sources)
	})
	if out.Sources.Err != nil {
		out.Sources.View = fallbackSourceView()
	}

	return out
}

// fallbackSourceView stands in for a failed sources formatter: neutral
// headings with the failure copy in every panel, so the section still renders
// instead of going blank.
func fallbackSourceView() tone.SourceView {
	panel := func(heading string) tone.SourcePanel {
		return tone.SourcePanel{Heading: heading, Empty: sectionFailedCopy}
	}
	return tone.SourceView{
		Encyclopedia: panel("Encyclopedic Summary"),
		News:         panel("In the News"),
		Categories:   panel("Categories"),
	}
}

// section runs fn inside the per-section fault boundary.
func section(name string, logger *zap.Logger, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &types.SectionRenderError{Section: name, Cause: fmt.Errorf("%v", r)}
			logger.Warn("section render failed",
				zap.String("section", name),
				zap.Any("panic", r))
		}
	}()
	fn()
	return nil
}

// SplitParagraphs breaks narrative text on blank-line boundaries.
func SplitParagraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var bulletMarker = regexp.MustCompile(`^\s*(?:[•*\-]|\d+[.)])\s*`)

// SplitBullets breaks bullet text on line boundaries and strips leading
// markers; the tone strategy chooses its own markers.
func SplitBullets(text string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = bulletMarker.ReplaceAllString(strings.TrimSpace(line), "")
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
