// Command doorwatch listens to a microphone for door knocks and
// doorbell rings and reacts to them: blinking a status LED, playing a
// bark clip, and logging what it heard. See internal/analyzer for the
// detection pipeline itself.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/charmbracelet/log"

	"github.com/doorwatch/doorwatch/internal/analyzer"
	"github.com/doorwatch/doorwatch/internal/buildinfo"
	"github.com/doorwatch/doorwatch/internal/capture"
	"github.com/doorwatch/doorwatch/internal/config"
	"github.com/doorwatch/doorwatch/internal/diagsink"
	"github.com/doorwatch/doorwatch/internal/discovery"
	"github.com/doorwatch/doorwatch/internal/response"
)

func main() {
	fs := pflag.NewFlagSet("doorwatch", pflag.ExitOnError)
	configFile := fs.StringP("config-file", "c", "doorwatch.yaml", "Configuration file name.")
	showVersion := fs.BoolP("version", "V", false, "Print version and exit.")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - acoustic door knock and doorbell detector.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: doorwatch [options]\n")
		fs.PrintDefaults()
	}

	// config.Load registers the remaining flags on fs and parses the
	// raw arguments itself, so the config file name has to be known
	// before that parse: a first pass over the same arguments picks
	// out only -c/--config-file.
	pre := pflag.NewFlagSet("doorwatch", pflag.ContinueOnError)
	pre.ParseErrorsWhitelist.UnknownFlags = true
	pre.SetOutput(io.Discard)
	pre.Usage = func() {}
	preConfigFile := pre.StringP("config-file", "c", *configFile, "")
	_ = pre.Parse(os.Args[1:])

	cfg, err := config.Load(*preConfigFile, fs, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(buildinfo.String())
		return
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("doorwatch exited", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *log.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var serial *diagsink.SerialConn
	if cfg.SerialPort != "" {
		var err error
		serial, err = diagsink.OpenSerial(cfg.SerialPort, cfg.SerialBaud)
		if err != nil {
			logger.Warn("serial diagnostic mirror disabled", "err", err)
			serial = nil
		} else {
			defer serial.Close()
		}
	}

	var serialWriter io.Writer
	if serial != nil {
		serialWriter = serial
	}
	sink := diagsink.New(os.Stderr, serialWriter, cfg.TimeFormat)

	a := analyzer.New()
	a.Sink = sink

	flags := uint32(analyzer.DispEvents)
	if cfg.HighSensitivity {
		flags |= analyzer.HighSensitivity
	}

	var announcer *discovery.Announcer

	var mode *response.ModeController
	if cfg.GPIOChip != "" && cfg.ModeButtonLine >= 0 && cfg.StatusLEDLine >= 0 {
		var err error
		mode, err = response.NewModeController(cfg.GPIOChip, cfg.ModeButtonLine, cfg.StatusLEDLine, func(high bool) {
			logger.Info("sensitivity mode changed", "high_sensitivity", high)
			if announcer != nil {
				if err := announcer.UpdateText(map[string]string{
					"version":          buildinfo.String(),
					"high_sensitivity": fmt.Sprintf("%t", high),
				}); err != nil {
					logger.Warn("mDNS text update failed", "err", err)
				}
			}
		})
		if err != nil {
			logger.Warn("GPIO mode controller disabled", "err", err)
			mode = nil
		} else {
			defer mode.Close()
		}
	}

	var clips *response.ClipPlayer
	if cfg.ClipDir != "" {
		var err error
		clips, err = response.NewClipPlayer(cfg.ClipDir)
		if err != nil {
			logger.Warn("clip playback disabled", "err", err)
			clips = nil
		} else {
			defer clips.Close()
		}
	}

	if cfg.Advertise {
		// doorwatch has no network service of its own to advertise a
		// real port for; the DNS-SD record exists purely so a
		// companion app can discover the unit's presence and current
		// mode on the LAN, so a nominal fixed port is published.
		const advertisedPort = 7528

		txt := map[string]string{
			"version":          buildinfo.String(),
			"high_sensitivity": fmt.Sprintf("%t", cfg.HighSensitivity),
		}
		a, err := discovery.Announce(ctx, cfg.DeviceName, advertisedPort, txt, logger)
		if err != nil {
			logger.Warn("mDNS advertisement disabled", "err", err)
		} else {
			announcer = a
		}
	}

	mic, err := capture.OpenMic(cfg.InputDevice)
	if err != nil {
		return fmt.Errorf("open microphone: %w", err)
	}
	defer func() { mic.Close() }()

	runtime.LockOSThread()
	if err := capture.RaiseThreadPriority(); err != nil {
		logger.Debug("could not raise capture thread priority", "err", err)
	}

	if err := mic.Start(); err != nil {
		return fmt.Errorf("start microphone: %w", err)
	}

	hotplug, err := capture.WatchHotplug(ctx)
	if err != nil {
		logger.Debug("hotplug watch disabled", "err", err)
		hotplug = nil
	}

	logger.Info("doorwatch listening", "version", buildinfo.String())

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-hotplug:
			if !ok {
				hotplug = nil
				continue
			}
			logger.Info("sound device event", "action", evt.Action, "name", evt.Name)
			if evt.Action != "add" {
				continue
			}
			reopened, err := capture.OpenMic(cfg.InputDevice)
			if err != nil {
				logger.Debug("reopen microphone after hotplug failed", "err", err)
				continue
			}
			if err := reopened.Start(); err != nil {
				logger.Warn("start reopened microphone failed", "err", err)
				reopened.Close()
				continue
			}
			mic.Close()
			mic = reopened
			logger.Info("microphone reopened after hotplug event")
		case samples, ok := <-mic.Samples:
			if !ok {
				return nil
			}

			effectiveFlags := flags
			if mode != nil {
				effectiveFlags |= mode.Flags()
			}

			result := a.Process(samples, nil, effectiveFlags)

			if result&analyzer.KnockDetected != 0 {
				logger.Info("knock detected")
				if mode != nil {
					go mode.BlinkStatus(ctx, 2, 150*time.Millisecond)
				}
				if clips != nil {
					if err := clips.PlayNext(); err != nil {
						logger.Warn("clip playback failed", "err", err)
					}
				}
			}
			if result&analyzer.RingDetected != 0 {
				logger.Info("ring detected")
				if mode != nil {
					go mode.BlinkStatus(ctx, 4, 100*time.Millisecond)
				}
				if clips != nil {
					if err := clips.PlayNext(); err != nil {
						logger.Warn("clip playback failed", "err", err)
					}
				}
			}
		}
	}
}
