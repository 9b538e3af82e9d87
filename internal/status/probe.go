// Package status runs the startup health probe. The probe is advisory: its
// failure produces a warning, never a fatal error, and generation is still
// attempted against a degraded backend.
package status

import (
	"context"

	"go.uber.org/zap"

	"contra/internal/types"
)

// Prober is the slice of the API client the probe needs.
type Prober interface {
	Status(ctx context.Context) (types.StatusReport, error)
}

// Probe checks backend health once. On probe failure it returns a report
// with Overall "unknown" and a warning line; it never returns an error.
func Probe(ctx context.Context, backend Prober, logger *zap.Logger) types.StatusReport {
	if logger == nil {
		logger = zap.NewNop()
	}
	report, err := backend.Status(ctx)
	if err != nil {
		logger.Warn("health probe failed", zap.Error(err))
		return types.StatusReport{Overall: "unknown"}
	}
	if report.Degraded() {
		logger.Warn("backend degraded", zap.String("overall", report.Overall))
	}
	return report
}

// Warnings renders user-facing warning lines for a report. An empty slice
// means everything is healthy.
func Warnings(report types.StatusReport) []string {
	var out []string
	switch report.Overall {
	case "ok", "":
	case "degraded":
		out = append(out, "Some services are degraded; content may be limited.")
	case "incomplete":
		out = append(out, "Some services are not configured; parts of each result will be missing.")
	case "down":
		out = append(out, "The backend reports all services down; generation will likely fail.")
	default:
		out = append(out, "Backend health is unknown; continuing anyway.")
	}
	for _, svc := range report.Services {
		if svc.Available {
			continue
		}
		line := svc.Name + " unavailable"
		if svc.Message != "" {
			line += ": " + svc.Message
		}
		out = append(out, line)
	}
	return out
}
