// Package types holds the canonical data model for the CONTRA experience
// client. Everything here is produced by the network boundary (internal/api)
// after normalization; the rest of the engine never sees raw wire shapes.
package types

import "strings"

// =============================================================================
// TONE
// =============================================================================

// Tone is a named narrative/voice style. The set is closed: every tone has a
// complete presentation strategy registered in internal/tone, and Informative
// is the fallback for anything unknown.
type Tone string

const (
	ToneDramatic    Tone = "dramatic"
	TonePoetic      Tone = "poetic"
	ToneHumorous    Tone = "humorous"
	ToneTechnical   Tone = "technical"
	ToneSimple      Tone = "simple"
	ToneInformative Tone = "informative"
)

// AllTones lists every tone in presentation order.
func AllTones() []Tone {
	return []Tone{
		ToneDramatic,
		TonePoetic,
		ToneHumorous,
		ToneTechnical,
		ToneSimple,
		ToneInformative,
	}
}

// ParseTone maps a raw string to a Tone, falling back to Informative for
// unknown or empty input.
func ParseTone(s string) Tone {
	switch Tone(strings.ToLower(strings.TrimSpace(s))) {
	case ToneDramatic:
		return ToneDramatic
	case TonePoetic:
		return TonePoetic
	case ToneHumorous:
		return ToneHumorous
	case ToneTechnical:
		return ToneTechnical
	case ToneSimple:
		return ToneSimple
	case ToneInformative:
		return ToneInformative
	default:
		return ToneInformative
	}
}

// toneFromPromptPrefix is the generation prompt pattern the backend embeds in
// every narrative payload: "Write a {tone} narrative about ...".
const toneFromPromptPrefix = "write a "

// ToneFromPrompt recovers the tone embedded in a narrative generation prompt.
// Returns ("", false) when the prompt does not carry the pattern or names an
// unknown tone.
func ToneFromPrompt(prompt string) (Tone, bool) {
	lower := strings.ToLower(prompt)
	idx := strings.Index(lower, toneFromPromptPrefix)
	if idx < 0 {
		return "", false
	}
	rest := lower[idx+len(toneFromPromptPrefix):]
	end := strings.Index(rest, " narrative about")
	if end <= 0 {
		return "", false
	}
	candidate := strings.TrimSpace(rest[:end])
	for _, t := range AllTones() {
		if candidate == string(t) {
			return t, true
		}
	}
	return "", false
}

// =============================================================================
// EXPERTISE
// =============================================================================

// ExpertiseLevel is the target audience level for generated content.
type ExpertiseLevel string

const (
	ExpertiseBeginner     ExpertiseLevel = "beginner"
	ExpertiseIntermediate ExpertiseLevel = "intermediate"
	ExpertiseAdvanced     ExpertiseLevel = "advanced"
)

// ParseExpertiseLevel falls back to intermediate for anything unknown, which
// mirrors the backend's own defaulting.
func ParseExpertiseLevel(s string) ExpertiseLevel {
	switch ExpertiseLevel(strings.ToLower(strings.TrimSpace(s))) {
	case ExpertiseBeginner:
		return ExpertiseBeginner
	case ExpertiseAdvanced:
		return ExpertiseAdvanced
	default:
		return ExpertiseIntermediate
	}
}

// =============================================================================
// REQUEST
// =============================================================================

// GenerationRequest is one topic submission. Topic is required; everything
// else falls back to server defaults when zero.
type GenerationRequest struct {
	Topic          string
	Tone           Tone
	ExpertiseLevel ExpertiseLevel
	Variants       int
	MaxLength      int     // 0 = server default
	Temperature    float64 // 0 = server default
}

// Normalize clamps the tunable fields into the ranges the backend accepts:
// variants 1..5, temperature 0.1..1.0. Zero values are preserved so the
// server default still applies.
func (r GenerationRequest) Normalize() GenerationRequest {
	r.Topic = strings.TrimSpace(r.Topic)
	r.Tone = ParseTone(string(r.Tone))
	r.ExpertiseLevel = ParseExpertiseLevel(string(r.ExpertiseLevel))
	if r.Variants < 1 {
		r.Variants = 1
	} else if r.Variants > 5 {
		r.Variants = 5
	}
	if r.Temperature != 0 {
		if r.Temperature < 0.1 {
			r.Temperature = 0.1
		} else if r.Temperature > 1.0 {
			r.Temperature = 1.0
		}
	}
	return r
}

// =============================================================================
// RESULT
// =============================================================================

// GenerationResult is the normalized response of one generation. Every field
// besides Topic is independently optional; presence of one never implies
// presence of another, and the renderer must produce a defined state for any
// subset.
type GenerationResult struct {
	Topic          string
	ExpertiseLevel ExpertiseLevel
	Narrative      *NarrativePayload
	Images         []ImagePayload
	Visualizations *VisualizationPayload
	Sources        *SourceData
}

// NarrativePayload carries the generated narrative text plus the prompt that
// produced it. The prompt embeds the tone actually used, which wins over the
// tone the user had selected (the backend may have substituted a fallback).
type NarrativePayload struct {
	Narrative      string
	Bullets        string
	Prompt         string
	Model          string
	ExpertiseLevel ExpertiseLevel
	CreatedAt      string
}

// HasNarrative reports whether there is narrative text worth rendering.
func (n *NarrativePayload) HasNarrative() bool {
	return n != nil && strings.TrimSpace(n.Narrative) != ""
}

// HasBullets reports whether a bullet block is present. Absent bullets are a
// valid state, not a failure: the bullet region is suppressed entirely.
func (n *NarrativePayload) HasBullets() bool {
	return n != nil && strings.TrimSpace(n.Bullets) != ""
}

// ImagePayload describes one generated image variant.
type ImagePayload struct {
	URL          string
	Style        string
	Prompt       string
	FilePath     string
	ModelVersion string
	Width        int
	Height       int
	TopicID      string
}

// ResolvedURL rewrites a URL lacking a scheme or leading path separator to a
// root-relative path. URLs are otherwise opaque.
func (i ImagePayload) ResolvedURL() string {
	u := strings.TrimSpace(i.URL)
	if u == "" {
		return ""
	}
	if strings.Contains(u, "://") || strings.HasPrefix(u, "/") {
		return u
	}
	return "/" + u
}

// =============================================================================
// SOURCES
// =============================================================================

// SourceData is the raw topic data the backend gathered, feeding the three
// source-citation sub-panels. Each sub-panel degrades independently.
type SourceData struct {
	Wikipedia *WikipediaData
	DBpedia   *DBpediaData
	News      []NewsArticle
}

// WikipediaData is the encyclopedic summary sub-panel payload.
type WikipediaData struct {
	Summary string
	URL     string
}

// DBpediaData is the category-list sub-panel payload.
type DBpediaData struct {
	Abstract    string
	Categories  []string
	ResourceURI string
}

// NewsArticle is one entry of the news sub-panel.
type NewsArticle struct {
	Title       string
	URL         string
	Publisher   string
	PublishedAt string
	Description string
}

// =============================================================================
// CONVERSATION
// =============================================================================

// Conversation roles. System turns are shown in the transcript but never
// replayed upstream.
const (
	RoleUser   = "user"
	RoleAI     = "ai"
	RoleSystem = "system"
)

// ConversationTurn is one message of the follow-up transcript.
type ConversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ConversationReply is the backend's answer to one follow-up turn.
type ConversationReply struct {
	Response   string
	References []string
}

// =============================================================================
// SERVICE STATUS
// =============================================================================

// ServiceStatus describes one backend dependency as reported by the startup
// health probe.
type ServiceStatus struct {
	Name      string
	Available bool
	Message   string
}

// StatusReport is the normalized /api/status response.
type StatusReport struct {
	Overall  string // ok, degraded, incomplete, down
	Services []ServiceStatus
}

// Degraded reports whether any service is unavailable.
func (s StatusReport) Degraded() bool {
	for _, svc := range s.Services {
		if !svc.Available {
			return true
		}
	}
	return s.Overall != "" && s.Overall != "ok"
}
