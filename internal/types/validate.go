package types

import (
	"regexp"
	"strings"
)

const (
	topicMinLen = 3
	topicMaxLen = 100
)

var (
	topicPattern = regexp.MustCompile(`^[\p{L}\p{N}_\s\-',.!?&:()]+$`)

	// Inputs that look like markup or script injection are rejected outright
	// rather than sanitized.
	harmfulPatterns = []*regexp.Regexp{
		regexp.MustCompile(`<[^>]*>`),
		regexp.MustCompile(`(?i)javascript:`),
		regexp.MustCompile(`(?i)data:`),
		regexp.MustCompile(`(?i)eval\s*\(`),
		regexp.MustCompile(`(?i)document\.\w+\s*\(`),
		regexp.MustCompile(`(?i)window\.\w+\s*\(`),
	}
)

// ValidateTopic checks a user-typed topic before any network call. A nil
// return means the topic is acceptable as trimmed.
func ValidateTopic(topic string) *ValidationError {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return &ValidationError{Field: "topic", Message: "topic cannot be empty"}
	}
	if len([]rune(topic)) < topicMinLen {
		return &ValidationError{Field: "topic", Message: "topic must be at least 3 characters"}
	}
	if len([]rune(topic)) > topicMaxLen {
		return &ValidationError{Field: "topic", Message: "topic must be less than 100 characters"}
	}
	if !topicPattern.MatchString(topic) {
		return &ValidationError{Field: "topic", Message: "topic contains invalid characters"}
	}
	for _, p := range harmfulPatterns {
		if p.MatchString(topic) {
			return &ValidationError{Field: "topic", Message: "topic contains potentially harmful content"}
		}
	}
	return nil
}

// Validate normalizes the request and checks its topic.
func (r GenerationRequest) Validate() *ValidationError {
	return ValidateTopic(r.Topic)
}

// smallWords stay lowercase in title case unless first or last.
var smallWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "but": true,
	"or": true, "for": true, "nor": true, "on": true, "at": true,
	"to": true, "from": true, "by": true, "of": true, "in": true,
	"with": true, "within": true, "about": true, "as": true,
}

// FormatTitle renders a topic in smart title case for display. The submitted
// topic string itself is sent to the backend as typed.
func FormatTitle(text string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	for i, w := range words {
		first := i == 0
		last := i == len(words)-1
		prevEndsSentence := i > 0 && strings.ContainsAny(words[i-1][len(words[i-1])-1:], ".!?:;")
		if !first && !last && smallWords[strings.ToLower(w)] && !prevEndsSentence {
			words[i] = strings.ToLower(w)
			continue
		}
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func capitalize(w string) string {
	r := []rune(w)
	if len(r) == 0 {
		return w
	}
	return strings.ToUpper(string(r[0])) + strings.ToLower(string(r[1:]))
}
