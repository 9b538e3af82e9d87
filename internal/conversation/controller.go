// Package conversation owns the follow-up transcript for the active topic.
// The transcript is append-only: no turn is ever removed, including user
// turns whose request failed. Every request replays the full user/ai history.
package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"contra/internal/types"
)

var (
	// ErrEmptyMessage rejects a blank submission with no network effect.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrNoTopic means no generation has completed yet.
	ErrNoTopic = errors.New("no active topic")
	// ErrTurnInFlight rejects a turn while another is outstanding.
	ErrTurnInFlight = errors.New("a reply is still pending")
)

// DefaultTemperature applies when the advanced control is untouched.
const DefaultTemperature = 0.7

// Backend is the slice of the API client the controller needs.
type Backend interface {
	Converse(ctx context.Context, topic, question string, history []types.ConversationTurn, tn types.Tone, temperature float64) (*types.ConversationReply, error)
}

// ToneSource supplies the tone for each turn. It is re-read on every turn
// because a regeneration may have changed the active tone mid-session.
type ToneSource func() types.Tone

// Entry is one transcript line. References only appear on AI entries.
type Entry struct {
	Role       string
	Content    string
	References []string
}

// Controller drives one conversation session.
type Controller struct {
	backend Backend
	tone    ToneSource
	logger  *zap.Logger

	mu          sync.Mutex
	sessionID   string
	topic       string
	boundTopic  string
	transcript  []Entry
	typing      bool
	busy        bool
	temperature float64
}

// New builds a controller. tone may be nil (informative); logger may be nil.
func New(backend Backend, tone ToneSource, logger *zap.Logger) *Controller {
	if tone == nil {
		tone = func() types.Tone { return types.ToneInformative }
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		backend:     backend,
		tone:        tone,
		logger:      logger,
		temperature: DefaultTemperature,
	}
}

// Reset binds the controller to a freshly generated topic and clears the
// transcript. The session itself is created lazily on the first turn.
func (c *Controller) Reset(topic string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.boundTopic = strings.TrimSpace(topic)
	c.sessionID = ""
	c.topic = ""
	c.transcript = nil
	c.typing = false
}

// SetTemperature overrides the follow-up temperature. Values are clamped to
// the backend's accepted range.
func (c *Controller) SetTemperature(t float64) {
	if t < 0.1 {
		t = 0.1
	} else if t > 1.0 {
		t = 1.0
	}
	c.mu.Lock()
	c.temperature = t
	c.mu.Unlock()
}

// Transcript returns a snapshot of all entries, system turns included.
func (c *Controller) Transcript() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.transcript))
	copy(out, c.transcript)
	return out
}

// Typing reports whether a reply is outstanding. It stays true for the whole
// duration of the network call and flips back exactly once.
func (c *Controller) Typing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.typing
}

// Busy reports whether the input surface should be disabled.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Topic returns the topic captured for this session, or the bound topic if
// the session has not started.
func (c *Controller) Topic() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.topic != "" {
		return c.topic
	}
	return c.boundTopic
}

// SendTurn submits one follow-up question and blocks until the reply lands.
// The user's turn stays in the transcript even when the request fails; a
// failure appends a system error turn instead of rolling back.
func (c *Controller) SendTurn(ctx context.Context, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return ErrEmptyMessage
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrTurnInFlight
	}
	if c.boundTopic == "" && c.topic == "" {
		c.mu.Unlock()
		return ErrNoTopic
	}
	// Lazy session creation: topic is captured once and never changes
	// mid-session, even if a new generation rebinds later.
	if c.sessionID == "" {
		c.sessionID = uuid.NewString()
		c.topic = c.boundTopic
		c.logger.Debug("conversation session started",
			zap.String("session", c.sessionID),
			zap.String("topic", c.topic))
	}
	c.busy = true
	c.typing = true
	c.transcript = append(c.transcript, Entry{Role: types.RoleUser, Content: message})
	topic := c.topic
	history := c.replayHistoryLocked()
	temperature := c.temperature
	c.mu.Unlock()

	// Input re-enable and typing removal are unconditional.
	defer func() {
		c.mu.Lock()
		c.typing = false
		c.busy = false
		c.mu.Unlock()
	}()

	reply, err := c.backend.Converse(ctx, topic, message, history, c.tone(), temperature)
	if err != nil {
		c.mu.Lock()
		c.transcript = append(c.transcript, Entry{
			Role:    types.RoleSystem,
			Content: "Sorry, I couldn't answer that: " + err.Error(),
		})
		c.mu.Unlock()
		c.logger.Warn("conversation turn failed", zap.Error(err))
		return err
	}

	c.mu.Lock()
	c.transcript = append(c.transcript, Entry{
		Role:       types.RoleAI,
		Content:    Emphasize(reply.Response),
		References: reply.References,
	})
	c.mu.Unlock()
	return nil
}

// replayHistoryLocked builds the upstream history: every user and ai turn in
// order, system turns excluded. Caller holds c.mu.
func (c *Controller) replayHistoryLocked() []types.ConversationTurn {
	var out []types.ConversationTurn
	for _, e := range c.transcript {
		if e.Role == types.RoleSystem {
			continue
		}
		out = append(out, types.ConversationTurn{Role: e.Role, Content: e.Content})
	}
	return out
}

// Emphasize applies the minimal text transform for AI replies: normalized
// line endings and collapsed blank runs. Bold and italic markers pass
// through untouched for the markdown renderer.
func Emphasize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for strings.Contains(text, "\n\n\n") {
		text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(text)
}

// FormatReference renders one citation with best-effort linkification:
// http(s) URLs become terminal hyperlinks, anything else passes through.
func FormatReference(ref string) string {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		// OSC 8 hyperlink; terminals without support show the plain URL.
		return "\x1b]8;;" + ref + "\x1b\\" + ref + "\x1b]8;;\x1b\\"
	}
	return ref
}
