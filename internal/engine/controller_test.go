package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"contra/internal/types"
	"contra/internal/viz"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeBackend struct {
	mu        sync.Mutex
	calls     int
	result    *types.GenerationResult
	err       error
	block     chan struct{}
	statusRep types.StatusReport
	statusErr error
}

func (f *fakeBackend) Generate(ctx context.Context, req types.GenerationRequest) (*types.GenerationResult, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	f.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeBackend) Status(ctx context.Context) (types.StatusReport, error) {
	return f.statusRep, f.statusErr
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type nopChartRenderer struct{}

func (nopChartRenderer) RenderCharts(*types.VisualizationPayload) error { return nil }

func newTestController(b *fakeBackend) *Controller {
	return New(b, viz.NewStore(nopChartRenderer{}, nil), nil)
}

func TestSubmitEmptyTopicFailsLocally(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestController(backend)

	// Make the auto-clear synchronous and observable.
	var clearFn func()
	c.validationClear = func(d time.Duration, f func()) *time.Timer {
		if d != ValidationErrorTTL {
			t.Errorf("clear delay = %v, want %v", d, ValidationErrorTTL)
		}
		clearFn = f
		return nil
	}

	out := c.Submit(context.Background(), types.GenerationRequest{Topic: "", Tone: types.ToneInformative})
	if _, ok := out.Err.(*types.ValidationError); !ok {
		t.Fatalf("err = %v, want ValidationError", out.Err)
	}
	if backend.callCount() != 0 {
		t.Error("validation failure must not reach the backend")
	}
	if c.Phase() != PhaseIdle {
		t.Errorf("phase = %v, want idle", c.Phase())
	}
	if c.ValidationErr() == nil {
		t.Fatal("validation error should be visible")
	}
	clearFn()
	if c.ValidationErr() != nil {
		t.Error("validation error should auto-clear")
	}
}

func TestSubmitSuccessTransitionsAndStores(t *testing.T) {
	backend := &fakeBackend{
		result: &types.GenerationResult{
			Topic:     "Volcanoes",
			Narrative: &types.NarrativePayload{Narrative: "Hot rocks.\n\nVery hot."},
			Visualizations: &types.VisualizationPayload{
				Timeline: &types.Chart{Series: []types.ChartSeries{{X: []float64{1980}}}},
			},
		},
	}
	c := newTestController(backend)

	out := c.Submit(context.Background(), types.GenerationRequest{Topic: "Volcanoes", Tone: types.ToneSimple})
	if out.Err != nil {
		t.Fatalf("submit: %v", out.Err)
	}
	if c.Phase() != PhaseSuccess {
		t.Errorf("phase = %v", c.Phase())
	}
	if c.Result() == nil || c.Result().Topic != "Volcanoes" {
		t.Error("result not stored")
	}
	if len(out.Sections.Narrative.View.Blocks) != 2 {
		t.Errorf("narrative blocks = %d, want 2", len(out.Sections.Narrative.View.Blocks))
	}
	if !c.Store().IsAvailable() {
		t.Error("visualization payload should be stored eagerly")
	}
	if got := c.Store().Materialize(true); got != viz.OutcomeRendered {
		t.Errorf("materialize = %v", got)
	}
}

func TestSubmitRejectsConcurrentSubmission(t *testing.T) {
	backend := &fakeBackend{
		block:  make(chan struct{}),
		result: &types.GenerationResult{Topic: "x"},
	}
	c := newTestController(backend)

	done := make(chan Outcome, 1)
	go func() {
		done <- c.Submit(context.Background(), types.GenerationRequest{Topic: "volcanoes"})
	}()

	// Wait for the first submission to reach Loading.
	deadline := time.After(2 * time.Second)
	for c.Phase() != PhaseLoading {
		select {
		case <-deadline:
			t.Fatal("first submission never reached loading")
		case <-time.After(time.Millisecond):
		}
	}

	out := c.Submit(context.Background(), types.GenerationRequest{Topic: "earthquakes"})
	if out.Err != ErrSubmissionInFlight {
		t.Errorf("second submit err = %v, want ErrSubmissionInFlight", out.Err)
	}

	close(backend.block)
	first := <-done
	if first.Err != nil {
		t.Errorf("first submit: %v", first.Err)
	}
	if backend.callCount() != 1 {
		t.Errorf("backend called %d times, want 1", backend.callCount())
	}
}

func TestSubmitFailureThenHardRetry(t *testing.T) {
	backend := &fakeBackend{
		err: &types.RequestError{Status: 500, Message: "server error"},
		statusRep: types.StatusReport{
			Overall:  "degraded",
			Services: []types.ServiceStatus{{Name: "LLaMA API", Available: false}},
		},
	}
	c := newTestController(backend)

	out := c.Submit(context.Background(), types.GenerationRequest{Topic: "volcanoes"})
	if _, ok := out.Err.(*types.RequestError); !ok {
		t.Fatalf("err = %v, want RequestError", out.Err)
	}
	if c.Phase() != PhaseError {
		t.Errorf("phase = %v, want error", c.Phase())
	}

	report, err := c.Retry(context.Background())
	if err != nil {
		t.Fatalf("retry probe: %v", err)
	}
	if !report.Degraded() {
		t.Error("probe report should be degraded")
	}
	if c.Phase() != PhaseIdle {
		t.Errorf("phase after retry = %v, want idle", c.Phase())
	}
	if c.Err() != nil || c.Result() != nil {
		t.Error("retry should reset error and result state")
	}

	// A fresh submission works after the hard retry.
	backend.err = nil
	backend.result = &types.GenerationResult{Topic: "volcanoes"}
	out = c.Submit(context.Background(), types.GenerationRequest{Topic: "volcanoes"})
	if out.Err != nil {
		t.Errorf("resubmit after retry: %v", out.Err)
	}
}

func TestNewerValidationErrorSupersedesOlderClear(t *testing.T) {
	c := newTestController(&fakeBackend{})

	var clears []func()
	c.validationClear = func(d time.Duration, f func()) *time.Timer {
		clears = append(clears, f)
		return nil
	}

	c.Submit(context.Background(), types.GenerationRequest{Topic: ""})
	c.Submit(context.Background(), types.GenerationRequest{Topic: "ab"})

	// Firing the first error's clear must not wipe the newer error.
	clears[0]()
	if c.ValidationErr() == nil {
		t.Fatal("newer validation error should survive the older clear")
	}
	clears[1]()
	if c.ValidationErr() != nil {
		t.Error("newest clear should remove the error")
	}
}
