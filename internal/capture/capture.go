// Package capture opens the microphone PortAudio stream the analyzer
// reads from. It is the sound-card collaborator the original TNC's
// audio package played for AFSK demodulation, narrowed to a single
// mono 16kHz input channel. Clip playback output lives in
// internal/response.
package capture

import (
	"fmt"
	"strings"

	"github.com/gordonklaus/portaudio"

	"github.com/doorwatch/doorwatch/internal/analyzer"
)

const (
	sampleRate = analyzer.SampleRate
	frameSize  = 256 // samples per callback (16ms at 16kHz)
)

// Mic is a mono 16kHz PortAudio input stream. Samples arrive on
// Samples as they're captured; callers should drain it promptly or
// risk the bounded channel filling and callbacks being dropped.
type Mic struct {
	stream  *portaudio.Stream
	Samples chan []int16
}

// OpenMic opens the named input device (a substring match against
// PortAudio's device list; empty string selects the default input
// device).
func OpenMic(deviceName string) (*Mic, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("capture: portaudio init: %w", err)
	}

	dev, err := findInputDevice(deviceName)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}

	m := &Mic{Samples: make(chan []int16, 64)}

	params := portaudio.LowLatencyParameters(dev, nil)
	params.Input.Channels = 1
	params.SampleRate = float64(sampleRate)
	params.FramesPerBuffer = frameSize

	stream, err := portaudio.OpenStream(params, m.onSamples)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("capture: open stream on %s: %w", dev.Name, err)
	}

	m.stream = stream
	return m, nil
}

func findInputDevice(name string) (*portaudio.DeviceInfo, error) {
	if name == "" {
		return portaudio.DefaultInputDevice()
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("capture: list devices: %w", err)
	}

	for _, d := range devices {
		if d.MaxInputChannels > 0 && strings.Contains(strings.ToLower(d.Name), strings.ToLower(name)) {
			return d, nil
		}
	}

	return nil, fmt.Errorf("capture: no input device matching %q", name)
}

func (m *Mic) onSamples(in []int16) {
	buf := make([]int16, len(in))
	copy(buf, in)

	select {
	case m.Samples <- buf:
	default:
		// Channel full: the consumer has fallen behind. Dropping a
		// frame here beats blocking the audio callback.
	}
}

// Start begins capture.
func (m *Mic) Start() error {
	if err := m.stream.Start(); err != nil {
		return fmt.Errorf("capture: start stream: %w", err)
	}
	return nil
}

// Close stops capture and releases the stream and PortAudio.
func (m *Mic) Close() error {
	close(m.Samples)
	if err := m.stream.Stop(); err != nil {
		m.stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("capture: stop stream: %w", err)
	}
	if err := m.stream.Close(); err != nil {
		portaudio.Terminate()
		return fmt.Errorf("capture: close stream: %w", err)
	}
	return portaudio.Terminate()
}
