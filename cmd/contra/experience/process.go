package experience

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"contra/internal/engine"
	"contra/internal/status"
	"contra/internal/types"
)

// =============================================================================
// ASYNC COMMANDS
// =============================================================================

// submitCmd runs one generation to its terminal outcome. The client applies
// the configured timeout; the controller rejects concurrent submissions.
func (m Model) submitCmd(req types.GenerationRequest) tea.Cmd {
	eng := m.engine
	return func() tea.Msg {
		return generationDoneMsg{outcome: eng.Submit(context.Background(), req)}
	}
}

// retryCmd runs the hard-retry bootstrap: health probe, state reset, back to
// the form. Probe failure is non-fatal; the warnings row reports it.
func (m Model) retryCmd() tea.Cmd {
	eng := m.engine
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		report, err := eng.Retry(ctx)
		if err != nil {
			report.Overall = "unknown"
		}
		return probeDoneMsg{report: report}
	}
}

// probeCmd runs the startup health probe. Probe never fails; an unreachable
// backend comes back as an unknown report with a warning line.
func (m Model) probeCmd() tea.Cmd {
	client := m.client
	logger := m.logger
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return probeDoneMsg{report: status.Probe(ctx, client, logger)}
	}
}

// relatedCmd fetches follow-up suggestions, best effort. Errors are dropped:
// the suggestions row simply stays empty.
func (m Model) relatedCmd(topic string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		topics, err := client.RelatedTopics(ctx, topic)
		if err != nil {
			return relatedDoneMsg{}
		}
		return relatedDoneMsg{topics: topics}
	}
}

// checkImagesCmd probes each image card's URL with its own command, so every
// card resolves its load state independently.
func (m Model) checkImagesCmd() tea.Cmd {
	client := m.client
	cards := m.sections.Images.View.Cards
	cmds := make([]tea.Cmd, 0, len(cards))
	for i, card := range cards {
		i, url := i, card.URL
		cmds = append(cmds, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return imageCheckedMsg{index: i, ok: client.CheckImage(ctx, url) == nil}
		})
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// sendTurnCmd submits one follow-up question. The transcript is read back
// from the controller when the message lands.
func (m Model) sendTurnCmd(message string) tea.Cmd {
	conv := m.conv
	return func() tea.Msg {
		return turnDoneMsg{err: conv.SendTurn(context.Background(), message)}
	}
}

// pollTypingCmd schedules the next transcript redraw while a reply is
// outstanding.
func (m Model) pollTypingCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return typingTickMsg{}
	})
}

// clearValidationCmd mirrors the controller's auto-clear so the form redraws
// when the validation message expires.
func (m Model) clearValidationCmd(seq int) tea.Cmd {
	return tea.Tick(engine.ValidationErrorTTL, func(time.Time) tea.Msg {
		return validationClearedMsg{seq: seq}
	})
}
