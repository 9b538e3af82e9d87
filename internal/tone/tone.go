// Package tone maps each narrative tone to a presentation strategy. Every
// strategy is pure: formatters take normalized payload data and return view
// structures, never touching I/O or shared state. The tone set is closed and
// the registry is complete; Lookup falls back to the informative strategy for
// anything unknown.
package tone

import "contra/internal/types"

// =============================================================================
// VIEW TYPES
// =============================================================================

// NarrativeView is a formatted narrative section. Blocks are ordered; the
// pull quote and sign-off are optional and tone-dependent.
type NarrativeView struct {
	PullQuote string
	Blocks    []Block
	SignOff   string
}

// Block is one unit of narrative content. A non-empty Heading renders above
// the lines. Poetic blocks carry one line per poetic pause; prose blocks
// carry a single line holding the whole paragraph.
type Block struct {
	Heading string
	Lines   []string
}

// BulletView is a formatted bullet list. Ordered lists ignore Marker and
// number the items instead.
type BulletView struct {
	Marker  string
	Ordered bool
	Items   []BulletItem
}

// BulletItem is one list entry.
type BulletItem struct {
	Text       string
	Emphasized bool
}

// ImageView is the image section: either cards or a single empty-state line.
type ImageView struct {
	Empty string
	Cards []ImageCard
}

// ImageCard is one image with its tone-specific caption.
type ImageCard struct {
	URL     string
	Caption string
	Style   string
}

// SourceView holds the three source sub-panels. Each degrades independently:
// a panel with no lines renders its Empty copy under its heading.
type SourceView struct {
	Encyclopedia SourcePanel
	News         SourcePanel
	Categories   SourcePanel
}

// SourcePanel is one citation sub-panel.
type SourcePanel struct {
	Heading string
	Empty   string
	Lines   []string
	Links   []string
}

// HasData reports whether the panel carries content lines.
func (p SourcePanel) HasData() bool { return len(p.Lines) > 0 }

// =============================================================================
// STRATEGY
// =============================================================================

// Strategy is one tone's complete presentation behavior.
type Strategy interface {
	Tone() types.Tone

	// Narrative formats pre-split paragraphs. paragraphs is never empty;
	// the caller handles the missing-narrative placeholder.
	Narrative(paragraphs []string, topic string) NarrativeView

	// Bullets formats pre-split, marker-stripped bullet lines.
	Bullets(items []string) BulletView

	// Images formats image cards, or the tone's empty-state copy when the
	// slice is empty.
	Images(images []types.ImagePayload, topic string) ImageView

	// Sources builds the three citation sub-panels. src may be nil.
	Sources(src *types.SourceData) SourceView
}
