// Package version holds build metadata injected at link time:
//
//	go build -ldflags "-X git.home.luguber.info/inful/remotedocs/internal/version.Version=v1.0.0 \
//	  -X git.home.luguber.info/inful/remotedocs/internal/version.GitCommit=$(git rev-parse --short HEAD)"
package version

import "fmt"

// Version is the release version, "dev" for local builds.
var Version = "dev"

// Build metadata; "unknown" unless set via ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version.
func String() string {
	if GitCommit == "unknown" {
		return Version
	}
	return fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
