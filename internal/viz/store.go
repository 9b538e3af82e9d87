// Package viz owns the visualization payload for the current generation.
// Storage is eager; chart construction is lazy and happens at most once per
// generation, the first time the visualization tab is activated.
package viz

import (
	"sync"

	"go.uber.org/zap"

	"contra/internal/types"
)

// ChartRenderer constructs the widgets for one payload. The TUI provides the
// real implementation; tests count invocations.
type ChartRenderer interface {
	RenderCharts(payload *types.VisualizationPayload) error
}

// Outcome reports what Materialize did for this activation.
type Outcome int

const (
	// OutcomeSkipped: the tab was not activated, nothing happened.
	OutcomeSkipped Outcome = iota
	// OutcomeRendered: charts were constructed on this call.
	OutcomeRendered
	// OutcomeAlreadyRendered: a previous activation already built them.
	OutcomeAlreadyRendered
	// OutcomeError: the payload carries a backend error; regions show it.
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeRendered:
		return "rendered"
	case OutcomeAlreadyRendered:
		return "already-rendered"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// Store holds the payload between generation success and first tab
// activation.
type Store struct {
	mu          sync.Mutex
	payload     *types.VisualizationPayload
	initialized bool

	renderer ChartRenderer
	logger   *zap.Logger
}

// NewStore builds a store around the given renderer. logger may be nil.
func NewStore(renderer ChartRenderer, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{renderer: renderer, logger: logger}
}

// Put stores the payload for the current generation and resets the
// initialized flag so the next tab activation renders fresh charts. A nil
// payload is a valid state: Materialize will fall back to the placeholder
// dataset.
func (s *Store) Put(payload *types.VisualizationPayload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payload = payload
	s.initialized = false
}

// IsAvailable reports whether a real (non-placeholder) payload is stored.
// The visualization tab stays visible either way.
func (s *Store) IsAvailable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payload != nil
}

// Payload returns what the tab will render: the stored payload, or the
// placeholder dataset when nothing was stored.
func (s *Store) Payload() *types.VisualizationPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.effectivePayload()
}

func (s *Store) effectivePayload() *types.VisualizationPayload {
	if s.payload != nil {
		return s.payload
	}
	return PlaceholderVisualizations()
}

// Materialize constructs the charts if the visualization tab was activated
// and they have not been built for this generation yet. Subsequent
// activations are no-ops.
func (s *Store) Materialize(tabActivated bool) Outcome {
	if !tabActivated {
		return OutcomeSkipped
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return OutcomeAlreadyRendered
	}

	payload := s.effectivePayload()
	if payload.HasError() {
		// Regions show the backend error verbatim; no chart construction.
		s.initialized = true
		s.logger.Warn("visualization payload carries error", zap.String("error", payload.Err))
		return OutcomeError
	}

	s.initialized = true
	if err := s.renderer.RenderCharts(payload); err != nil {
		s.logger.Warn("chart construction failed", zap.Error(err))
		return OutcomeError
	}
	return OutcomeRendered
}
