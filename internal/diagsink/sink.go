package diagsink

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/doorwatch/doorwatch/internal/analyzer"
)

// sampleRate is the analyzer's sample rate, used to convert sample
// indices to wall-clock offsets.
const sampleRate = analyzer.SampleRate

// Sink renders analyzer.DiagnosticSink events to a charmbracelet/log
// logger and, optionally, mirrors the same lines to a serial console.
// An absent serial device is skipped and serial write errors are
// dropped. Serial writes are synchronous: a device that stops
// accepting data blocks the calling analyzer until the write returns.
type Sink struct {
	log    *log.Logger
	serial io.Writer // optional; nil disables the mirror
	layout string    // strftime layout for timestamps
	epoch  time.Time // wall-clock time analyzer sample 0 corresponds to
}

// New returns a Sink that logs to w (typically os.Stderr) and mirrors
// lines to serial if non-nil.
func New(w io.Writer, serial io.Writer, timeLayout string) *Sink {
	return &Sink{
		log:    log.NewWithOptions(w, log.Options{ReportTimestamp: true}),
		serial: serial,
		layout: timeLayout,
		epoch:  time.Now(),
	}
}

func (s *Sink) at(sample int64) time.Time {
	return s.epoch.Add(time.Duration(sample) * time.Second / sampleRate)
}

func (s *Sink) mirror(line string) {
	if s.serial == nil {
		return
	}
	// Best-effort: write errors are dropped. The write itself is
	// synchronous.
	_, _ = io.WriteString(s.serial, line+"\r\n")
}

// Threshold implements analyzer.DiagnosticSink.
func (s *Sink) Threshold(now int64, peakThreshold float64, bufferLen int) {
	line := fmt.Sprintf("[%s] threshold=%.2f buffer=%d/16",
		formatTime(s.layout, s.at(now)), peakThreshold, bufferLen)

	s.log.Info("threshold", "threshold", peakThreshold, "buffer_len", bufferLen)
	s.mirror(line)
}

// Event implements analyzer.DiagnosticSink.
func (s *Sink) Event(now int64, kind string, detail string) {
	line := fmt.Sprintf("[%s] event=%s %s", formatTime(s.layout, s.at(now)), kind, detail)

	switch kind {
	case "knock", "ring":
		s.log.Info("detection", "kind", kind, "detail", detail)
	case "buffer-full", "overflow":
		s.log.Warn("event", "kind", kind, "detail", detail)
	default:
		s.log.Debug("event", "kind", kind, "detail", detail)
	}
	s.mirror(line)
}

// Peak implements analyzer.DiagnosticSink.
func (s *Sink) Peak(now int64, p analyzer.Peak) {
	line := fmt.Sprintf("[%s] peak height=%.1f width=%.1f area=%.1f",
		formatTime(s.layout, s.at(now)), p.Height, p.Width, p.Area)

	s.log.Debug("peak", "height", p.Height, "width", p.Width, "area", p.Area)
	s.mirror(line)
}
