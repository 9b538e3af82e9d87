package types

import "fmt"

// Error taxonomy for the orchestration engine.
//
// ValidationError and RequestError are terminal for the current attempt and
// surface to the user with a retry path. SectionRenderError and
// PartialDataError are caught at the section boundary and converted to
// in-place fallback copy; they never escalate past their own section.

// ValidationError is a locally rejected submission. It never reaches the
// network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// RequestError is a failed backend call: a non-success HTTP status, a
// logical success:false body, or a transport failure (including timeout).
type RequestError struct {
	Status  int // 0 when the failure happened before a status was received
	Message string
}

func (e *RequestError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("request failed (%d): %s", e.Status, e.Message)
	}
	return "request failed: " + e.Message
}

// SectionRenderError marks a single presentation section that failed to
// build from otherwise-valid data. The other sections are unaffected.
type SectionRenderError struct {
	Section string
	Cause   error
}

func (e *SectionRenderError) Error() string {
	return fmt.Sprintf("section %q failed to render: %v", e.Section, e.Cause)
}

func (e *SectionRenderError) Unwrap() error { return e.Cause }

// PartialDataError marks a field that was absent or malformed on an
// otherwise successful response. It is a degraded-content case, not a true
// failure; the section renders its fallback copy.
type PartialDataError struct {
	Field string
}

func (e *PartialDataError) Error() string {
	return fmt.Sprintf("no usable data for %q", e.Field)
}

// VisualizationError carries an explicit error string inside the
// visualization payload. All three chart regions render it verbatim.
type VisualizationError struct {
	Message string
}

func (e *VisualizationError) Error() string { return e.Message }
