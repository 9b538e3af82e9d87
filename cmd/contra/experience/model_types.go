// Package experience provides the interactive TUI for the CONTRA topic
// experience: topic submission, tone-adaptive result presentation, and the
// follow-up conversation.
package experience

import (
	"contra/internal/engine"
	"contra/internal/types"
)

// ViewMode determines which screen is active.
type ViewMode int

const (
	FormView ViewMode = iota
	LoadingView
	ResultView
	ErrorView
)

// Tab is one pane of the result view. The visualization tab is always
// present and selectable regardless of data availability.
type Tab int

const (
	TabNarrative Tab = iota
	TabImages
	TabVisualizations
	TabSources
	TabConversation
)

var tabLabels = map[Tab]string{
	TabNarrative:      "Narrative",
	TabImages:         "Images",
	TabVisualizations: "Visualizations",
	TabSources:        "Sources",
	TabConversation:   "Ask",
}

func allTabs() []Tab {
	return []Tab{TabNarrative, TabImages, TabVisualizations, TabSources, TabConversation}
}

// imageLoadState is one card's asynchronous load state. Every card probes its
// URL independently, so a failed probe flips its own indicator and never
// touches a sibling card.
type imageLoadState int

const (
	imageLoading imageLoadState = iota
	imageReady
	imageFailed
)

// =============================================================================
// MESSAGES
// =============================================================================

// generationDoneMsg carries the terminal outcome of one submission.
type generationDoneMsg struct {
	outcome engine.Outcome
}

// probeDoneMsg carries the startup (or hard-retry) health probe result.
type probeDoneMsg struct {
	report types.StatusReport
}

// relatedDoneMsg carries best-effort follow-up suggestions.
type relatedDoneMsg struct {
	topics []string
}

// imageCheckedMsg carries one card's probe outcome.
type imageCheckedMsg struct {
	index int
	ok    bool
}

// turnDoneMsg signals that a conversation turn finished, success or not;
// the transcript itself is read from the controller.
type turnDoneMsg struct {
	err error
}

// validationClearedMsg fires when a local validation error's display TTL
// expires.
type validationClearedMsg struct {
	seq int
}

// typingTickMsg drives transcript redraws while a reply is outstanding, so
// the typing indicator animates and the user turn appears promptly.
type typingTickMsg struct{}
