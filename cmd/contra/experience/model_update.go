package experience

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"contra/internal/render"
	"contra/internal/status"
	"contra/internal/tone"
	"contra/internal/types"
)

// Update is the single event loop. Every state change flows through here.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case generationDoneMsg:
		return m.handleGenerationDone(msg)

	case probeDoneMsg:
		m.warnings = status.Warnings(msg.report)
		if m.mode == ErrorView {
			// Hard retry landed: back to a clean form.
			m.mode = FormView
			m.topicInput.Reset()
			m.topicInput.Focus()
		}
		return m, nil

	case relatedDoneMsg:
		m.related = msg.topics
		m.refreshViewport()
		return m, nil

	case turnDoneMsg:
		// Transcript and typing state live in the controller; failures are
		// already recorded there as system turns.
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, nil

	case typingTickMsg:
		m.refreshViewport()
		if m.conv.Busy() {
			m.viewport.GotoBottom()
			return m, m.pollTypingCmd()
		}
		return m, nil

	case imageCheckedMsg:
		if msg.index >= 0 && msg.index < len(m.imageStates) {
			if msg.ok {
				m.imageStates[msg.index] = imageReady
			} else {
				m.imageStates[msg.index] = imageFailed
			}
		}
		m.refreshViewport()
		return m, nil

	case validationClearedMsg:
		if msg.seq == m.valSeq {
			m.validationMsg = ""
		}
		return m, nil
	}

	return m, nil
}

// =============================================================================
// RESIZE
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	contentWidth := m.width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}
	contentHeight := m.height - 7 // header, tabs, input, footer
	if contentHeight < 5 {
		contentHeight = 5
	}

	if !m.ready {
		m.viewport = viewport.New(contentWidth, contentHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = contentHeight
	}

	if r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(contentWidth),
	); err == nil {
		m.renderer = r
	} else {
		m.logger.Warn("markdown renderer init failed", zap.Error(err))
	}

	m.topicInput.Width = contentWidth - 4
	m.askInput.SetWidth(contentWidth)
	m.charts.Resize(contentWidth)

	m.refreshViewport()
	return m, nil
}

// =============================================================================
// KEYS
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.mode {
	case FormView:
		return m.handleFormKey(msg)
	case LoadingView:
		// No cancel: one submission runs to its terminal outcome.
		return m, nil
	case ResultView:
		return m.handleResultKey(msg)
	case ErrorView:
		return m.handleErrorKey(msg)
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return m.submitTopic()
	case tea.KeyTab:
		m.toneIdx = (m.toneIdx + 1) % len(types.AllTones())
		m.tone.set(m.activeTone())
		return m, nil
	case tea.KeyShiftTab:
		m.expertiseIdx = (m.expertiseIdx + 1) % len(expertiseLevels)
		return m, nil
	case tea.KeyEsc:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.topicInput, cmd = m.topicInput.Update(msg)
	return m, cmd
}

// submitTopic validates locally before any network effect. An invalid topic
// flags a message that auto-clears; a valid one enters the loading phase.
func (m Model) submitTopic() (tea.Model, tea.Cmd) {
	req := m.buildRequest().Normalize()
	if verr := req.Validate(); verr != nil {
		m.valSeq++
		m.validationMsg = verr.Message
		return m, m.clearValidationCmd(m.valSeq)
	}

	m.validationMsg = ""
	m.mode = LoadingView
	return m, tea.Batch(m.submitCmd(req), m.spinner.Tick)
}

func (m Model) handleResultKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	asking := m.activeTab == TabConversation

	switch msg.Type {
	case tea.KeyTab:
		return m.switchTab(Tab((int(m.activeTab) + 1) % len(allTabs())))
	case tea.KeyShiftTab:
		return m.switchTab(Tab((int(m.activeTab) + len(allTabs()) - 1) % len(allTabs())))
	case tea.KeyEnter:
		if asking {
			return m.sendQuestion()
		}
	case tea.KeyEsc:
		return m.newTopic()
	}

	if !asking {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "n":
			return m.newTopic()
		case "t":
			return m.cycleTone()
		case "1", "2", "3", "4", "5":
			return m.switchTab(Tab(int(msg.String()[0] - '1')))
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.conv.Busy() {
		return m, nil
	}
	var cmd tea.Cmd
	m.askInput, cmd = m.askInput.Update(msg)
	return m, cmd
}

func (m Model) handleErrorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "r":
		return m, m.retryCmd()
	case "n", "esc":
		return m.newTopic()
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

// =============================================================================
// TRANSITIONS
// =============================================================================

func (m Model) handleGenerationDone(msg generationDoneMsg) (tea.Model, tea.Cmd) {
	if err := msg.outcome.Err; err != nil {
		var verr *types.ValidationError
		if errors.As(err, &verr) {
			m.mode = FormView
			m.valSeq++
			m.validationMsg = verr.Message
			return m, m.clearValidationCmd(m.valSeq)
		}
		m.mode = ErrorView
		return m, nil
	}

	m.sections = msg.outcome.Sections
	m.tone.set(m.sections.Tone)
	m.toneIdx = indexOfTone(m.sections.Tone)
	m.conv.Reset(m.sections.Topic)
	m.related = nil
	m.askInput.Reset()
	m.imageStates = make([]imageLoadState, len(m.sections.Images.View.Cards))

	m.mode = ResultView
	m.activeTab = TabNarrative
	m.refreshViewport()
	m.viewport.GotoTop()
	return m, tea.Batch(m.relatedCmd(m.sections.Topic), m.checkImagesCmd())
}

func (m Model) switchTab(tab Tab) (tea.Model, tea.Cmd) {
	if int(tab) < 0 || int(tab) >= len(allTabs()) {
		return m, nil
	}
	m.activeTab = tab

	// First activation builds the charts; later ones are no-ops.
	if tab == TabVisualizations {
		m.store.Materialize(true)
	}
	if tab == TabConversation {
		m.askInput.Focus()
	} else {
		m.askInput.Blur()
	}

	m.refreshViewport()
	m.viewport.GotoTop()
	return m, nil
}

// cycleTone re-presents the stored result in the next tone. Formatting is
// pure, so no network round trip happens.
func (m Model) cycleTone() (tea.Model, tea.Cmd) {
	result := m.engine.Result()
	if result == nil {
		return m, nil
	}
	m.toneIdx = (m.toneIdx + 1) % len(types.AllTones())
	next := m.activeTone()
	m.tone.set(next)

	m.sections = render.RenderWith(tone.Lookup(next), result, m.logger)
	m.refreshViewport()
	return m, nil
}

func (m Model) newTopic() (tea.Model, tea.Cmd) {
	m.mode = FormView
	m.topicInput.Reset()
	m.topicInput.Focus()
	m.askInput.Blur()
	m.validationMsg = ""
	return m, nil
}

func (m Model) sendQuestion() (tea.Model, tea.Cmd) {
	question := strings.TrimSpace(m.askInput.Value())
	if question == "" || m.conv.Busy() {
		return m, nil
	}
	m.askInput.Reset()
	// The user turn appears immediately; the controller appends it before
	// the network call and keeps it even on failure.
	return m, tea.Batch(m.sendTurnCmd(question), m.spinner.Tick, m.pollTypingCmd())
}
