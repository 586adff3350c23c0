// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package version reports the build of the piishield binaries. Release builds
// stamp Version, Commit and Date with -ldflags; other builds fall back to the
// VCS settings the Go toolchain embeds.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
)

// Set with -ldflags "-X piishield/internal/version.Version=..."
var (
	Version = "0.0.0-development"
	Commit  = ""
	Date    = ""
)

// Build describes the running binary
type Build struct {
	Version  string
	Commit   string
	Date     string
	Modified bool
	Go       string
	Platform string
}

var (
	once    sync.Once
	current Build
)

// Current returns the build of the running binary
func Current() Build {
	once.Do(func() {
		current = resolve(Version, Commit, Date, debug.ReadBuildInfo)
	})
	return current
}

func resolve(v, commit, date string, read func() (*debug.BuildInfo, bool)) Build {
	b := Build{
		Version:  v,
		Commit:   commit,
		Date:     date,
		Go:       runtime.Version(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}
	info, ok := read()
	if !ok {
		return b
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if b.Commit == "" {
				b.Commit = s.Value
			}
		case "vcs.time":
			if b.Date == "" {
				b.Date = s.Value
			}
		case "vcs.modified":
			b.Modified = s.Value == "true"
		}
	}
	if info.GoVersion != "" {
		b.Go = info.GoVersion
	}
	return b
}

// String renders the build on one line
func (b Build) String() string {
	var details []string
	if b.Commit != "" {
		commit := b.Commit
		if len(commit) > 12 {
			commit = commit[:12]
		}
		if b.Modified {
			commit += "-dirty"
		}
		details = append(details, "commit "+commit)
	}
	if b.Date != "" {
		details = append(details, "built "+b.Date)
	}
	details = append(details, b.Go, b.Platform)
	return fmt.Sprintf("piishield %s (%s)", b.Version, strings.Join(details, ", "))
}

// Info returns the one-line build description
func Info() string {
	return Current().String()
}

// Short returns the version number only
func Short() string {
	return Current().Version
}
