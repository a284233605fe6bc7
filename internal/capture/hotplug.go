package capture

import (
	"context"
	"fmt"

	"github.com/jochenvg/go-udev"
)

// HotplugEvent reports a sound-subsystem device being added or
// removed, so the caller can decide whether to reopen Mic against a
// different device name.
type HotplugEvent struct {
	Action string // "add", "remove", "change"
	Name   string
}

// WatchHotplug streams udev "sound" subsystem events on the returned
// channel until ctx is cancelled. It's how doorwatch notices a USB
// microphone being unplugged and replugged without needing a polling
// loop.
func WatchHotplug(ctx context.Context) (<-chan HotplugEvent, error) {
	u := udev.Udev{}
	mon := u.NewMonitorFromNetlink("udev")
	if err := mon.FilterAddMatchSubsystem("sound"); err != nil {
		return nil, fmt.Errorf("capture: filter udev monitor: %w", err)
	}

	devices, err := mon.DeviceChan(ctx)
	if err != nil {
		return nil, fmt.Errorf("capture: start udev monitor: %w", err)
	}

	events := make(chan HotplugEvent, 8)
	go func() {
		defer close(events)
		for d := range devices {
			select {
			case events <- HotplugEvent{Action: d.Action(), Name: d.Sysname()}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}
