// Package config loads doorwatch's runtime settings from a YAML file
// with command-line flag overrides layered on top, in the same
// two-tier arrangement the original TNC used (a config file for the
// durable settings, flags for the things you want to tweak for one
// run).
package config

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config holds everything doorwatch needs to wire up its
// collaborators: audio capture, GPIO response, mDNS advertisement,
// and the analyzer's own flag bits.
type Config struct {
	// Audio capture.
	InputDevice string `yaml:"input_device"` // PortAudio device name substring, "" for default
	ClipDir     string `yaml:"clip_dir"`     // directory of canned bark clips to play back

	// Detector.
	HighSensitivity bool `yaml:"high_sensitivity"`

	// Diagnostics.
	LogLevel   string `yaml:"log_level"`   // debug, info, warn, error
	SerialPort string `yaml:"serial_port"` // "" disables the serial mirror
	SerialBaud int    `yaml:"serial_baud"`
	TimeFormat string `yaml:"time_format"` // strftime layout, "" for default

	// GPIO response.
	GPIOChip       string `yaml:"gpio_chip"`        // e.g. "gpiochip0", "" disables GPIO
	ModeButtonLine int    `yaml:"mode_button_line"` // line number toggling sensitivity
	StatusLEDLine  int    `yaml:"status_led_line"`

	// Service discovery.
	Advertise  bool   `yaml:"advertise"`
	DeviceName string `yaml:"device_name"`
}

// Default returns the built-in defaults, used when no config file is
// present and no flags override them.
func Default() Config {
	return Config{
		LogLevel:       "info",
		SerialBaud:     9600,
		TimeFormat:     "%Y-%m-%d %H:%M:%S",
		ModeButtonLine: -1,
		StatusLEDLine:  -1,
		DeviceName:     "doorwatch",
	}
}

// Load reads path (if non-empty and present) over top of Default, then
// lets flags on fs override individual fields. fs must not have been
// Parse()d yet; Load calls fs.Parse(args) itself.
func Load(path string, fs *pflag.FlagSet, args []string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// A missing file is fine; flags and defaults still apply.
		default:
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	highSensitivity := fs.BoolP("high-sensitivity", "s", cfg.HighSensitivity, "Use the relaxed knock-detection thresholds.")
	inputDevice := fs.StringP("input-device", "i", cfg.InputDevice, "PortAudio input device name substring.")
	logLevel := fs.StringP("log-level", "l", cfg.LogLevel, "Diagnostic log level: debug, info, warn, error.")
	serialPort := fs.StringP("serial-port", "p", cfg.SerialPort, "Serial device to mirror diagnostics to, empty to disable.")
	advertise := fs.BoolP("advertise", "A", cfg.Advertise, "Advertise doorwatch over mDNS/DNS-SD.")

	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("config: parse flags: %w", err)
	}

	cfg.HighSensitivity = *highSensitivity
	cfg.InputDevice = *inputDevice
	cfg.LogLevel = *logLevel
	cfg.SerialPort = *serialPort
	cfg.Advertise = *advertise

	return cfg, nil
}
