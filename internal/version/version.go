// Package version reports the build of the see binary.
package version

import "fmt"

// Set at build time with -ldflags "-X github.com/example/see/internal/version.Version=...".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String returns the version line shown by `see --version`.
func String() string {
	return fmt.Sprintf("see %s (commit: %s, built: %s)", Version, shortCommit(), BuildTime)
}

func shortCommit() string {
	if len(Commit) > 7 {
		return Commit[:7]
	}
	return Commit
}
