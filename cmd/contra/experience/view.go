package experience

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"contra/internal/conversation"
	"contra/internal/tone"
	"contra/internal/types"
)

// View renders the active screen. All content lives in the viewport; the
// chrome around it stays a fixed height so resize math holds.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	for _, w := range m.warnings {
		b.WriteString(m.styles.Warning.Render("⚠ " + w))
		b.WriteString("\n")
	}

	switch m.mode {
	case FormView:
		b.WriteString(m.renderForm())
	case LoadingView:
		b.WriteString(m.renderLoading())
	case ErrorView:
		b.WriteString(m.renderError())
	case ResultView:
		b.WriteString(m.renderTabs())
		b.WriteString("\n")
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
		if m.activeTab == TabConversation {
			b.WriteString(m.renderAskInput())
			b.WriteString("\n")
		}
		b.WriteString(m.renderFooter())
	}

	return b.String()
}

// =============================================================================
// CHROME
// =============================================================================

func (m Model) renderHeader() string {
	title := m.styles.Header.Render("CONTRA")
	parts := []string{title}
	if m.mode == ResultView && m.sections.Title != "" {
		parts = append(parts, m.styles.Title.Render(m.sections.Title))
		parts = append(parts, m.styles.Badge.Render(string(m.sections.Tone)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, strings.Join(parts, " "))
}

func (m Model) renderTabs() string {
	var parts []string
	for _, t := range allTabs() {
		label := fmt.Sprintf("%d %s", int(t)+1, tabLabels[t])
		if t == m.activeTab {
			parts = append(parts, m.styles.TabActive.Render(label))
		} else {
			parts = append(parts, m.styles.TabInactive.Render(label))
		}
	}
	return strings.Join(parts, "")
}

func (m Model) renderFooter() string {
	if m.activeTab == TabConversation {
		return m.styles.Footer.Render("enter send · tab next pane · esc new topic · ctrl+c quit")
	}
	return m.styles.Footer.Render("tab/1-5 panes · t tone · n new topic · ↑/↓ scroll · q quit")
}

// =============================================================================
// SCREENS
// =============================================================================

func (m Model) renderForm() string {
	var b strings.Builder
	b.WriteString(m.styles.Content.Render(
		m.styles.Title.Render("Explore a topic") + "\n" +
			m.topicInput.View()))
	b.WriteString("\n\n")

	b.WriteString("  " + m.styles.Subtitle.Render("tone") + " ")
	for i, t := range types.AllTones() {
		label := string(t)
		if i == m.toneIdx {
			b.WriteString(m.styles.Badge.Render(label))
		} else {
			b.WriteString(m.styles.Muted.Render(label))
		}
		b.WriteString(" ")
	}
	b.WriteString("\n  " + m.styles.Subtitle.Render("expertise") + " ")
	for i, e := range expertiseLevels {
		label := string(e)
		if i == m.expertiseIdx {
			b.WriteString(m.styles.Badge.Render(label))
		} else {
			b.WriteString(m.styles.Muted.Render(label))
		}
		b.WriteString(" ")
	}
	b.WriteString("\n\n")

	if m.validationMsg != "" {
		b.WriteString("  " + m.styles.Error.Render(m.validationMsg) + "\n\n")
	}

	b.WriteString(m.styles.Footer.Render("enter generate · tab tone · shift+tab expertise · esc quit"))
	return b.String()
}

func (m Model) renderLoading() string {
	topic := types.FormatTitle(strings.TrimSpace(m.topicInput.Value()))
	return m.styles.Content.Render(fmt.Sprintf("%s Generating your %s experience of %s...",
		m.spinner.View(), m.activeTone(), topic))
}

func (m Model) renderError() string {
	msg := "Something went wrong."
	if err := m.engine.Err(); err != nil {
		msg = err.Error()
	}
	var b strings.Builder
	b.WriteString(m.styles.Content.Render(
		m.styles.Error.Render("Generation failed") + "\n" + m.styles.Body.Render(msg)))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Footer.Render("r retry · n new topic · q quit"))
	return b.String()
}

func (m Model) renderAskInput() string {
	if m.conv.Busy() {
		return m.styles.Muted.Render("  waiting for reply...")
	}
	return m.askInput.View()
}

// =============================================================================
// VIEWPORT CONTENT
// =============================================================================

// refreshViewport rebuilds the viewport content for the active tab. Pointer
// receiver: viewport.SetContent mutates the model copy being returned.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	var content string
	switch m.activeTab {
	case TabNarrative:
		content = m.renderNarrative()
	case TabImages:
		content = m.renderImages()
	case TabVisualizations:
		content = m.renderVisualizations()
	case TabSources:
		content = m.renderSources()
	case TabConversation:
		content = m.renderTranscript()
	}
	m.viewport.SetContent(content)
}

func (m Model) renderNarrative() string {
	s := m.styles
	sec := m.sections.Narrative
	var b strings.Builder

	if sec.Fallback != "" {
		b.WriteString(s.Muted.Render(sec.Fallback))
		return b.String()
	}

	if sec.View.PullQuote != "" {
		b.WriteString(s.PullQuote.Render(sec.View.PullQuote))
		b.WriteString("\n\n")
	}
	for _, block := range sec.View.Blocks {
		if block.Heading != "" {
			b.WriteString(s.SectionHeading.Render(block.Heading))
			b.WriteString("\n")
		}
		for _, line := range block.Lines {
			b.WriteString(m.renderMarkdown(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	if sec.View.SignOff != "" {
		b.WriteString(s.Subtitle.Render(sec.View.SignOff))
		b.WriteString("\n")
	}

	if m.sections.Bullets.Present {
		b.WriteString("\n")
		b.WriteString(s.SectionHeading.Render("Key Points"))
		b.WriteString("\n")
		bv := m.sections.Bullets.View
		for i, item := range bv.Items {
			marker := bv.Marker
			if bv.Ordered {
				marker = fmt.Sprintf("%d.", i+1)
			}
			text := item.Text
			if item.Emphasized {
				text = s.Emphasis.Render(text)
			}
			b.WriteString(fmt.Sprintf("  %s %s\n", s.BulletMarker.Render(marker), text))
		}
	}

	if len(m.related) > 0 {
		b.WriteString("\n")
		b.WriteString(s.SectionHeading.Render("Related Topics"))
		b.WriteString("\n  " + s.Muted.Render(strings.Join(m.related, " · ")) + "\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderImages() string {
	s := m.styles
	view := m.sections.Images.View
	if view.Empty != "" || len(view.Cards) == 0 {
		empty := view.Empty
		if empty == "" {
			empty = "No images were generated."
		}
		return s.Muted.Render(empty)
	}

	var b strings.Builder
	for i, card := range view.Cards {
		b.WriteString(s.PanelHeading.Render(fmt.Sprintf("Image %d", i+1)))
		if card.Style != "" {
			b.WriteString(" " + s.Badge.Render(card.Style))
		}
		b.WriteString(" " + m.renderImageState(i))
		b.WriteString("\n")
		b.WriteString(s.Reference.Render(card.URL))
		b.WriteString("\n")
		b.WriteString(s.Caption.Render(card.Caption))
		if i < len(view.Cards)-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

// renderImageState draws one card's load indicator. A card whose probe has
// not landed yet still shows as loading.
func (m Model) renderImageState(i int) string {
	s := m.styles
	state := imageLoading
	if i < len(m.imageStates) {
		state = m.imageStates[i]
	}
	switch state {
	case imageReady:
		return s.Success.Render("✓")
	case imageFailed:
		return s.Error.Render("✗ failed to load")
	default:
		return s.Muted.Render("… loading")
	}
}

func (m Model) renderVisualizations() string {
	s := m.styles
	var b strings.Builder

	if !m.store.IsAvailable() {
		b.WriteString(s.Muted.Render("Showing sample data; generate a topic for real charts."))
		b.WriteString("\n\n")
	}

	if payload := m.store.Payload(); payload.HasError() {
		// The backend error replaces every chart region verbatim.
		errLine := s.Error.Render(payload.Err)
		for i := 0; i < 3; i++ {
			b.WriteString(errLine)
			if i < 2 {
				b.WriteString("\n\n")
			}
		}
		return b.String()
	}

	timeline, bars, concepts := m.charts.Rendered()
	if timeline == "" && bars == "" && concepts == "" {
		return b.String() + s.Muted.Render("Charts are building...")
	}

	divider := m.styles.RenderDivider(m.viewport.Width - 2)
	b.WriteString(timeline)
	b.WriteString("\n" + divider + "\n")
	b.WriteString(bars)
	b.WriteString("\n" + divider + "\n")
	b.WriteString(concepts)
	return b.String()
}

func (m Model) renderSources() string {
	view := m.sections.Sources.View
	panels := []tone.SourcePanel{view.Encyclopedia, view.News, view.Categories}
	var parts []string
	for _, p := range panels {
		parts = append(parts, m.renderSourcePanel(p))
	}
	return strings.Join(parts, "\n\n")
}

func (m Model) renderSourcePanel(p tone.SourcePanel) string {
	s := m.styles
	var b strings.Builder
	b.WriteString(s.PanelHeading.Render(p.Heading))
	b.WriteString("\n")
	if !p.HasData() {
		b.WriteString(s.Muted.Render(p.Empty))
		return b.String()
	}
	for _, line := range p.Lines {
		b.WriteString(s.Body.Render(line))
		b.WriteString("\n")
	}
	for _, link := range p.Links {
		b.WriteString(s.Reference.Render(conversation.FormatReference(link)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderTranscript() string {
	s := m.styles
	entries := m.conv.Transcript()
	if len(entries) == 0 && !m.conv.Typing() {
		return s.Muted.Render(fmt.Sprintf("Ask anything about %s.", types.FormatTitle(m.conv.Topic())))
	}

	var b strings.Builder
	for _, e := range entries {
		switch e.Role {
		case types.RoleUser:
			b.WriteString(s.UserTurn.Render("You: " + e.Content))
		case types.RoleAI:
			b.WriteString(s.AITurn.Render(m.renderMarkdown(e.Content)))
			for _, ref := range e.References {
				b.WriteString("\n  " + s.Reference.Render(conversation.FormatReference(ref)))
			}
		default:
			b.WriteString(s.SystemTurn.Render(e.Content))
		}
		b.WriteString("\n\n")
	}

	if m.conv.Typing() {
		b.WriteString(s.Muted.Render(m.spinner.View() + " thinking..."))
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderMarkdown renders content through glamour, falling back to the plain
// text if the renderer is missing or panics.
func (m Model) renderMarkdown(content string) (result string) {
	if m.renderer == nil {
		return content
	}
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()
	rendered, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimSpace(rendered)
}
