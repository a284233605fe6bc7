// Package response drives doorwatch's physical outputs: the
// sensitivity mode button and status LED on GPIO, and playback of the
// canned bark clips a confirmed knock or ring triggers. It plays the
// same role the original TNC's ptt.go played for keying a radio, with
// the signal direction reversed (doorwatch reacts to detections rather
// than keying a transmitter for one).
package response

import (
	"context"
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"

	"github.com/doorwatch/doorwatch/internal/analyzer"
)

// ModeController watches a debounced push-button GPIO line and
// toggles HighSensitivity on each press, mirroring the current state
// on a status LED line.
type ModeController struct {
	button *gpiocdev.Line
	led    *gpiocdev.Line

	highSensitivity bool
	onChange        func(highSensitivity bool)
}

// NewModeController requests the button line as a debounced, falling-edge
// input and the LED line as an output, both on chip. onChange is
// invoked (from the event-handling goroutine) every time the button
// toggles sensitivity.
func NewModeController(chip string, buttonLine, ledLine int, onChange func(bool)) (*ModeController, error) {
	m := &ModeController{onChange: onChange}

	button, err := gpiocdev.RequestLine(chip, buttonLine,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithDebounce(20*time.Millisecond),
		gpiocdev.WithFallingEdge,
		gpiocdev.WithEventHandler(m.handleButton),
	)
	if err != nil {
		return nil, fmt.Errorf("response: request button line %d: %w", buttonLine, err)
	}
	m.button = button

	led, err := gpiocdev.RequestLine(chip, ledLine, gpiocdev.AsOutput(0))
	if err != nil {
		button.Close()
		return nil, fmt.Errorf("response: request led line %d: %w", ledLine, err)
	}
	m.led = led

	return m, nil
}

func (m *ModeController) handleButton(evt gpiocdev.LineEvent) {
	if evt.Type != gpiocdev.LineEventFallingEdge {
		return
	}

	m.highSensitivity = !m.highSensitivity
	m.setLED(m.highSensitivity)

	if m.onChange != nil {
		m.onChange(m.highSensitivity)
	}
}

func (m *ModeController) setLED(on bool) {
	v := 0
	if on {
		v = 1
	}
	m.led.SetValue(v)
}

// Flags returns the analyzer flag bit for the controller's current
// sensitivity mode, to be OR'd into the bits passed to Process.
func (m *ModeController) Flags() uint32 {
	if m.highSensitivity {
		return analyzer.HighSensitivity
	}
	return 0
}

// Close releases both GPIO lines.
func (m *ModeController) Close() error {
	berr := m.button.Close()
	lerr := m.led.Close()
	if berr != nil {
		return berr
	}
	return lerr
}

// BlinkStatus flashes the LED n times, used to acknowledge a
// confirmed knock or ring independently of the steady sensitivity
// indication. It blocks for the duration of the blink sequence, so
// callers should run it from its own goroutine.
func (m *ModeController) BlinkStatus(ctx context.Context, n int, on time.Duration) {
	steady := 0
	if m.highSensitivity {
		steady = 1
	}

	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			return
		}
		m.led.SetValue(1 - steady)
		time.Sleep(on)
		m.led.SetValue(steady)
		time.Sleep(on)
	}
}
