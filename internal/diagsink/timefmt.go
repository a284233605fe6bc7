// Package diagsink implements the diagnostic sink collaborator of the
// detector: console and serial rendering of the DISP_THRESHOLDS /
// DISP_EVENTS / DISP_PEAKS text lines described by the analyzer's
// DiagnosticSink interface.
package diagsink

import (
	"time"

	"github.com/lestrrat-go/strftime"
)

// defaultTimeFormat renders timestamps the way the original firmware's
// time_format helper did: a compact, sortable local timestamp.
const defaultTimeFormat = "%Y-%m-%d %H:%M:%S"

// formatTime returns an owned string for t using the given strftime
// layout, falling back to defaultTimeFormat on a bad layout. It shares
// no mutable state across calls.
func formatTime(layout string, t time.Time) string {
	if layout == "" {
		layout = defaultTimeFormat
	}

	s, err := strftime.Format(layout, t)
	if err != nil {
		s, _ = strftime.Format(defaultTimeFormat, t)
	}

	return s
}
