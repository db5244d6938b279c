// Package buildinfo holds identifiers stamped in at link time:
//
//	go build -ldflags "-X github.com/Raysphere24/HenonViewer4D/internal/buildinfo.Version=v1.2.0"
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// Commit is set at build time via -ldflags.
var Commit = "unknown"

// Date is set at build time via -ldflags.
var Date = "unknown"

// Short returns a compact build identifier for the HUD and window title.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if c := commit(); c != "" {
		return c
	}
	return "dev"
}

// String is the full identifier printed by -version.
func String() string {
	c := commit()
	if c == "" {
		c = "unknown"
	}
	return fmt.Sprintf("%s (commit %s, built %s)", Version, c, Date)
}

// commit prefers the ldflags value and falls back to the VCS stamp the go
// tool embeds, shortened to 12 characters.
func commit() string {
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			if len(s.Value) > 12 {
				return s.Value[:12]
			}
			return s.Value
		}
	}
	return ""
}
