// Copyright 2026 The Termtap Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports the termtap build version.
package version

import "runtime/debug"

// Version is the release version, overridden at link time via
// -ldflags "-X github.com/termtap/termtap/lib/version.Version=...".
var Version = "dev"

// Info returns the version string for --version output, including VCS
// revision information when the binary was built from a checkout.
func Info() string {
	if Version != "dev" {
		return Version
	}
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return Version
	}
	for _, setting := range buildInfo.Settings {
		if setting.Key == "vcs.revision" && len(setting.Value) >= 12 {
			return Version + "+" + setting.Value[:12]
		}
	}
	return Version
}
