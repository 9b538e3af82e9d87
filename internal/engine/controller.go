// Package engine owns the generation lifecycle: one state machine per
// session, one outstanding request at a time, every transition through a
// single choke point.
package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"contra/internal/api"
	"contra/internal/render"
	"contra/internal/types"
	"contra/internal/viz"
)

// Phase is the generation lifecycle state. The phases are mutually
// exclusive.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// ValidationErrorTTL is how long a local validation error stays visible
// before auto-clearing. The form stays under operator control throughout.
const ValidationErrorTTL = 3 * time.Second

// ErrSubmissionInFlight rejects a duplicate submit while one generation is
// outstanding.
var ErrSubmissionInFlight = errors.New("a generation is already in progress")

// Backend is the slice of the API client the controller needs.
type Backend interface {
	Generate(ctx context.Context, req types.GenerationRequest) (*types.GenerationResult, error)
	Status(ctx context.Context) (types.StatusReport, error)
}

var _ Backend = (*api.Client)(nil)

// Outcome is the terminal result of one submission.
type Outcome struct {
	Result   *types.GenerationResult
	Sections render.Sections
	Err      error
}

// Controller drives the generation state machine.
type Controller struct {
	backend Backend
	store   *viz.Store
	logger  *zap.Logger

	mu      sync.Mutex
	phase   Phase
	result  *types.GenerationResult
	lastErr error

	validationErr   *types.ValidationError
	validationSeq   int
	validationClear func(d time.Duration, f func()) *time.Timer

	flight singleflight.Group
}

// New builds a controller. store and logger may be nil.
func New(backend Backend, store *viz.Store, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		store = viz.NewStore(noopRenderer{}, logger)
	}
	return &Controller{
		backend:         backend,
		store:           store,
		logger:          logger,
		phase:           PhaseIdle,
		validationClear: time.AfterFunc,
	}
}

type noopRenderer struct{}

func (noopRenderer) RenderCharts(*types.VisualizationPayload) error { return nil }

// Phase returns the current lifecycle phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Result returns the stored result of the last successful generation.
func (c *Controller) Result() *types.GenerationResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Err returns the terminal error of the last failed generation.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// ValidationErr returns the active validation error, if it has not
// auto-cleared yet.
func (c *Controller) ValidationErr() *types.ValidationError {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validationErr
}

// Store exposes the visualization store for tab activation.
func (c *Controller) Store() *viz.Store { return c.store }

// Submit runs one generation end to end. Invalid input fails locally with no
// network call; while a generation is loading, further submissions are
// rejected with ErrSubmissionInFlight.
func (c *Controller) Submit(ctx context.Context, req types.GenerationRequest) Outcome {
	req = req.Normalize()
	if verr := req.Validate(); verr != nil {
		c.flagValidationError(verr)
		return Outcome{Err: verr}
	}

	if err := c.transition(PhaseLoading); err != nil {
		return Outcome{Err: err}
	}

	// singleflight collapses racing submits that slipped past the phase
	// check into one network call.
	v, err, _ := c.flight.Do("generate", func() (any, error) {
		return c.backend.Generate(ctx, req)
	})
	if err != nil {
		c.fail(err)
		return Outcome{Err: err}
	}

	result := v.(*types.GenerationResult)
	sections := c.succeed(result, req.Tone)
	return Outcome{Result: result, Sections: sections}
}

// Retry re-runs the full bootstrap for the last failed request: health probe
// first, then state reset to Idle. It is a hard retry, not a resubmission.
func (c *Controller) Retry(ctx context.Context) (types.StatusReport, error) {
	report, err := c.backend.Status(ctx)
	if err != nil {
		c.logger.Warn("bootstrap health probe failed", zap.Error(err))
	}

	c.mu.Lock()
	c.phase = PhaseIdle
	c.result = nil
	c.lastErr = nil
	c.mu.Unlock()
	c.store.Put(nil)

	return report, err
}

// transition is the single choke point for phase changes.
func (c *Controller) transition(to Phase) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if to == PhaseLoading && c.phase == PhaseLoading {
		return ErrSubmissionInFlight
	}
	c.logger.Debug("phase transition",
		zap.Stringer("from", c.phase),
		zap.Stringer("to", to))
	c.phase = to
	return nil
}

func (c *Controller) succeed(result *types.GenerationResult, active types.Tone) render.Sections {
	// Sections render in order (narrative, images gate, sources) but each
	// carries its own fault boundary inside render.Render.
	sections := render.Render(result, active, c.logger)

	c.mu.Lock()
	c.phase = PhaseSuccess
	c.result = result
	c.lastErr = nil
	c.mu.Unlock()

	// Eager store, lazy materialization on tab activation.
	c.store.Put(result.Visualizations)

	c.logger.Info("generation complete",
		zap.String("topic", result.Topic),
		zap.String("tone", string(sections.Tone)),
		zap.Bool("has_narrative", result.Narrative.HasNarrative()),
		zap.Int("images", len(result.Images)))
	return sections
}

func (c *Controller) fail(err error) {
	c.mu.Lock()
	c.phase = PhaseError
	c.lastErr = err
	c.mu.Unlock()
	c.logger.Warn("generation failed", zap.Error(err))
}

// flagValidationError surfaces a local validation failure and schedules its
// auto-clear. A newer error supersedes the pending clear of an older one.
func (c *Controller) flagValidationError(verr *types.ValidationError) {
	c.mu.Lock()
	c.validationSeq++
	seq := c.validationSeq
	c.validationErr = verr
	clear := c.validationClear
	c.mu.Unlock()

	clear(ValidationErrorTTL, func() {
		c.mu.Lock()
		if c.validationSeq == seq {
			c.validationErr = nil
		}
		c.mu.Unlock()
	})
}
