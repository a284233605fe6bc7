// Package buildinfo reports doorwatch's version string, derived the
// same way the original TNC did: an ldflags-injected version joined
// with the VCS metadata Go's own build embeds.
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"strconv"
)

// Version is set at build time via
// -ldflags "-X 'github.com/doorwatch/doorwatch/internal/buildinfo.Version=X'".
var Version string

func settingOrDefault(bi *debug.BuildInfo, key, def string) string {
	for _, s := range bi.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return def
}

// String returns a one-line identifier such as
// "doorwatch 1.2.0 (revision abc123, built at 2026-01-01T00:00:00Z)",
// suitable for a --version flag or a DNS-SD TXT record.
func String() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "doorwatch UNKNOWN"
	}

	buildTime := settingOrDefault(bi, "vcs.time", "UNKNOWN")
	commit := settingOrDefault(bi, "vcs.revision", "UNKNOWN")

	dirtyStr := settingOrDefault(bi, "vcs.modified", "")
	if dirty, err := strconv.ParseBool(dirtyStr); err == nil && dirty {
		commit += "-dirty"
	}

	version := Version
	if version == "" {
		version = "dev"
	}

	return fmt.Sprintf("doorwatch %s (revision %s, built at %s)", version, commit, buildTime)
}
