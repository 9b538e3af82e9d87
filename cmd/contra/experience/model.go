package experience

import (
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"contra/cmd/contra/ui"
	"contra/internal/api"
	"contra/internal/config"
	"contra/internal/conversation"
	"contra/internal/engine"
	"contra/internal/render"
	"contra/internal/types"
	"contra/internal/viz"
)

// toneRef shares the resolved tone with the conversation controller.
// bubbletea copies the model on every update, so the tone source has to live
// behind a pointer the copies share.
type toneRef struct {
	mu sync.Mutex
	t  types.Tone
}

func (r *toneRef) get() types.Tone {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.t
}

func (r *toneRef) set(t types.Tone) {
	r.mu.Lock()
	r.t = t
	r.mu.Unlock()
}

// Model is the top-level bubbletea model for the experience client.
type Model struct {
	cfg    config.Config
	logger *zap.Logger
	styles ui.Styles

	// Controllers. The engine owns the generation lifecycle, the conversation
	// controller owns the follow-up transcript, the store owns chart
	// materialization.
	client *api.Client
	engine *engine.Controller
	conv   *conversation.Controller
	store  *viz.Store
	charts *chartPane
	tone   *toneRef

	// Active screen and result tab.
	mode      ViewMode
	activeTab Tab

	// Widgets.
	topicInput textinput.Model
	askInput   textarea.Model
	viewport   viewport.Model
	spinner    spinner.Model
	renderer   *glamour.TermRenderer

	// Form state. The tone and expertise selectors cycle through the fixed
	// sets; toneIdx doubles as the active tone for regeneration.
	toneIdx      int
	expertiseIdx int

	// Last completed generation. imageStates tracks each card's asynchronous
	// load probe, index-aligned with the rendered cards.
	sections    render.Sections
	imageStates []imageLoadState

	// Local validation display state. The sequence number stops a stale
	// auto-clear from wiping a newer message.
	validationMsg string
	valSeq        int

	// Startup health warnings and follow-up suggestions.
	warnings []string
	related  []string

	width  int
	height int
	ready  bool
}

var expertiseLevels = []types.ExpertiseLevel{
	types.ExpertiseBeginner,
	types.ExpertiseIntermediate,
	types.ExpertiseAdvanced,
}

// NewModel wires the full client: one API client shared by all controllers,
// one visualization store bridged to the chart pane.
func NewModel(cfg config.Config, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	styles := ui.DefaultStyles()

	client := api.NewClient(cfg.Backend, logger)
	charts := newChartPane(styles)
	store := viz.NewStore(charts, logger)
	eng := engine.New(client, store, logger)

	tone := &toneRef{t: cfg.Content.DefaultTone}
	m := Model{
		cfg:    cfg,
		logger: logger,
		styles: styles,
		client: client,
		engine: eng,
		store:  store,
		charts: charts,
		tone:   tone,
		mode:   FormView,
	}

	// The conversation re-reads the resolved tone on every turn so a
	// regeneration with a different tone carries over mid-session.
	m.conv = conversation.New(client, tone.get, logger)
	m.conv.SetTemperature(cfg.Content.ConversationTemperature)

	m.toneIdx = indexOfTone(cfg.Content.DefaultTone)
	m.expertiseIdx = indexOfExpertise(cfg.Content.DefaultExpertise)

	ti := textinput.New()
	ti.Placeholder = "Enter a topic (3-100 characters)..."
	ti.CharLimit = 100
	ti.Focus()
	m.topicInput = ti

	ta := textarea.New()
	ta.Placeholder = "Ask a follow-up question..."
	ta.SetHeight(2)
	ta.ShowLineNumbers = false
	m.askInput = ta

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner
	m.spinner = sp

	return m
}

// Run starts the interactive client and blocks until it exits.
func Run(cfg config.Config, logger *zap.Logger) error {
	p := tea.NewProgram(NewModel(cfg, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init starts the cursor blink, the spinner tick, and the startup health
// probe.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.probeCmd())
}

func (m *Model) activeTone() types.Tone {
	return types.AllTones()[m.toneIdx]
}

func (m *Model) activeExpertise() types.ExpertiseLevel {
	return expertiseLevels[m.expertiseIdx]
}

// buildRequest assembles the generation request from the form state with the
// configured defaults for everything the form does not expose.
func (m *Model) buildRequest() types.GenerationRequest {
	req := m.cfg.DefaultRequest(m.topicInput.Value())
	req.Tone = m.activeTone()
	req.ExpertiseLevel = m.activeExpertise()
	return req
}

func indexOfTone(t types.Tone) int {
	for i, candidate := range types.AllTones() {
		if candidate == t {
			return i
		}
	}
	return len(types.AllTones()) - 1 // informative
}

func indexOfExpertise(e types.ExpertiseLevel) int {
	for i, candidate := range expertiseLevels {
		if candidate == e {
			return i
		}
	}
	return 1 // intermediate
}
