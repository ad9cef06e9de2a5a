// ============================================================================
// rexbot - Zufallsstrings aus Mustern fuer traQ
// ============================================================================
//
// Package:     version
// Description: Central version management for binary and components
// Author:      Mike Stoffels
// Created:     2026-09-28
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version constants
const (
	// Platform version
	Platform = "1.0.0"

	// Component versions
	Bot     = "1.0.0"
	Pattern = "1.1.0"
	Store   = "1.0.0"
)

// Set at build time via -ldflags "-X github.com/msto63/rexbot/pkg/core/version.Commit=..."
var (
	Commit    = "dev"
	BuildDate = "unknown"
)

// ComponentVersion returns the version for a given component name
func ComponentVersion(name string) string {
	switch name {
	case "bot":
		return Bot
	case "pattern":
		return Pattern
	case "store":
		return Store
	default:
		return Platform
	}
}

// Info describes the running binary
type Info struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// Get returns the build information
func Get() Info {
	return Info{
		Version:   Platform,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func (i Info) String() string {
	return fmt.Sprintf("rexbot %s (%s, %s) %s %s", i.Version, i.Commit, i.BuildDate, i.GoVersion, i.Platform)
}
