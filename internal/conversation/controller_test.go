package conversation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"contra/internal/types"
)

type fakeBackend struct {
	mu      sync.Mutex
	calls   int
	history [][]types.ConversationTurn
	reply   *types.ConversationReply
	err     error
	block   chan struct{}
}

func (f *fakeBackend) Converse(ctx context.Context, topic, question string, history []types.ConversationTurn, tn types.Tone, temperature float64) (*types.ConversationReply, error) {
	f.mu.Lock()
	f.calls++
	snapshot := make([]types.ConversationTurn, len(history))
	copy(snapshot, history)
	f.history = append(f.history, snapshot)
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.reply, nil
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestController(b Backend) *Controller {
	c := New(b, func() types.Tone { return types.ToneInformative }, nil)
	c.Reset("Volcanoes")
	return c
}

func TestEmptyMessageNoNetworkEffect(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestController(backend)

	if err := c.SendTurn(context.Background(), "   "); err != ErrEmptyMessage {
		t.Fatalf("err = %v, want ErrEmptyMessage", err)
	}
	if backend.callCount() != 0 {
		t.Error("empty message must not reach the backend")
	}
	if len(c.Transcript()) != 0 {
		t.Error("empty message must not append a turn")
	}
	if c.Busy() {
		t.Error("input must stay enabled")
	}
}

func TestSendTurnAppendsAndReplaysFullHistory(t *testing.T) {
	backend := &fakeBackend{reply: &types.ConversationReply{
		Response:   "Because pressure builds.",
		References: []string{"https://example.com/v"},
	}}
	c := newTestController(backend)

	if err := c.SendTurn(context.Background(), "Why do they erupt?"); err != nil {
		t.Fatalf("first turn: %v", err)
	}
	backend.reply = &types.ConversationReply{Response: "About 1500 are active."}
	if err := c.SendTurn(context.Background(), "How many are active?"); err != nil {
		t.Fatalf("second turn: %v", err)
	}

	wantSecond := []types.ConversationTurn{
		{Role: types.RoleUser, Content: "Why do they erupt?"},
		{Role: types.RoleAI, Content: "Because pressure builds."},
		{Role: types.RoleUser, Content: "How many are active?"},
	}
	if diff := cmp.Diff(wantSecond, backend.history[1]); diff != "" {
		t.Errorf("replayed history mismatch (-want +got):\n%s", diff)
	}

	transcript := c.Transcript()
	if len(transcript) != 4 {
		t.Fatalf("transcript has %d entries, want 4", len(transcript))
	}
	if transcript[1].References[0] != "https://example.com/v" {
		t.Error("references lost from AI entry")
	}
}

func TestFailureKeepsUserTurnAndAppendsSystemError(t *testing.T) {
	backend := &fakeBackend{err: &types.RequestError{Status: 500, Message: "server error"}}
	c := newTestController(backend)

	err := c.SendTurn(context.Background(), "why?")
	if err == nil {
		t.Fatal("expected error")
	}

	transcript := c.Transcript()
	if len(transcript) != 2 {
		t.Fatalf("transcript has %d entries, want user + system", len(transcript))
	}
	if transcript[0].Role != types.RoleUser || transcript[0].Content != "why?" {
		t.Errorf("user turn not preserved: %+v", transcript[0])
	}
	if transcript[1].Role != types.RoleSystem {
		t.Errorf("second entry role = %q, want system", transcript[1].Role)
	}
	if c.Typing() {
		t.Error("typing indicator must be removed after failure")
	}
	if c.Busy() {
		t.Error("input must be re-enabled after failure")
	}

	// The failed exchange's system turn is excluded from the next replay;
	// the unanswered user turn is not.
	backend.err = nil
	backend.reply = &types.ConversationReply{Response: "ok"}
	if err := c.SendTurn(context.Background(), "still there?"); err != nil {
		t.Fatalf("recovery turn: %v", err)
	}
	want := []types.ConversationTurn{
		{Role: types.RoleUser, Content: "why?"},
		{Role: types.RoleUser, Content: "still there?"},
	}
	if diff := cmp.Diff(want, backend.history[1]); diff != "" {
		t.Errorf("replay after failure (-want +got):\n%s", diff)
	}
}

func TestConcurrentTurnRejected(t *testing.T) {
	backend := &fakeBackend{
		block: make(chan struct{}),
		reply: &types.ConversationReply{Response: "r"},
	}
	c := newTestController(backend)

	done := make(chan error, 1)
	go func() { done <- c.SendTurn(context.Background(), "first") }()

	for !c.Typing() {
		time.Sleep(time.Millisecond)
	}

	if err := c.SendTurn(context.Background(), "second"); err != ErrTurnInFlight {
		t.Errorf("concurrent turn err = %v, want ErrTurnInFlight", err)
	}
	if backend.callCount() != 1 {
		t.Errorf("backend called %d times, want 1", backend.callCount())
	}

	close(backend.block)
	if err := <-done; err != nil {
		t.Errorf("first turn: %v", err)
	}
	if c.Typing() || c.Busy() {
		t.Error("state not cleared after completion")
	}
}

func TestTopicCapturedOncePerSession(t *testing.T) {
	backend := &fakeBackend{reply: &types.ConversationReply{Response: "r"}}
	c := New(backend, nil, nil)

	if err := c.SendTurn(context.Background(), "hello"); err != ErrNoTopic {
		t.Fatalf("err = %v, want ErrNoTopic", err)
	}

	c.Reset("Volcanoes")
	if err := c.SendTurn(context.Background(), "q1"); err != nil {
		t.Fatal(err)
	}
	if c.Topic() != "Volcanoes" {
		t.Errorf("topic = %q", c.Topic())
	}

	c.Reset("Earthquakes")
	if len(c.Transcript()) != 0 {
		t.Error("reset should clear the transcript")
	}
	if err := c.SendTurn(context.Background(), "q2"); err != nil {
		t.Fatal(err)
	}
	if c.Topic() != "Earthquakes" {
		t.Errorf("topic after rebind = %q", c.Topic())
	}
}

func TestEmphasizeNormalizes(t *testing.T) {
	got := Emphasize("A **bold** claim.\r\n\r\n\r\nAnd *more*.\n")
	want := "A **bold** claim.\n\nAnd *more*."
	if got != want {
		t.Errorf("Emphasize = %q, want %q", got, want)
	}
}

func TestFormatReferenceLinkifiesURLs(t *testing.T) {
	url := "https://example.com/a"
	got := FormatReference(url)
	if got == url {
		t.Error("http reference should be linkified")
	}
	plain := FormatReference("Jones, 1998")
	if plain != "Jones, 1998" {
		t.Errorf("plain reference changed: %q", plain)
	}
}
