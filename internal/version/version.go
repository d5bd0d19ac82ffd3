// Package version reports build metadata stamped in via ldflags.
package version

import (
	"fmt"
	"runtime"
)

// Set with -ldflags "-X github.com/andywolf/issuerace/internal/version.Version=v0.2.0".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

const name = "issuerace"

// Short returns the bare version, e.g. "v0.2.0" or "dev".
func Short() string {
	return Version
}

// UserAgent is sent on every GitHub request.
func UserAgent() string {
	return name + "/" + Version
}

func shortCommit() string {
	if len(Commit) > 7 {
		return Commit[:7]
	}
	return Commit
}

// Info returns a one-line summary: "issuerace v0.2.0 (abc1234, go1.23.4)".
func Info() string {
	return fmt.Sprintf("%s %s (%s, %s)", name, Version, shortCommit(), runtime.Version())
}

// Full returns the verbose multi-line form used by "version -v".
func Full() string {
	return fmt.Sprintf("%s %s\n  Commit:     %s\n  Built:      %s\n  Go version: %s\n  Platform:   %s/%s",
		name, Version, Commit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
