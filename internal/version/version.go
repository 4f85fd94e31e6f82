// Package version reports build information for the pegplot tools
package version

import (
	"fmt"
	"runtime"
	"strings"
)

// Build-time variables, set with -ldflags "-X peg-plot/internal/version.Version=..."
var (
	Version   = "0.3.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the build information of the running binary
func Get() BuildInfo {
	return BuildInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// Short returns the version with an abbreviated commit, e.g. 0.3.0-1a2b3c4
func (b BuildInfo) Short() string {
	if b.GitCommit == "unknown" || b.GitCommit == "" {
		return b.Version
	}
	commit := b.GitCommit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return b.Version + "-" + commit
}

// Describe returns the multi-line banner printed by --version
func Describe(appName string) string {
	info := Get()

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s version %s", appName, info.Short())
	if info.BuildDate != "unknown" {
		fmt.Fprintf(&sb, "\nBuilt: %s", info.BuildDate)
	}
	fmt.Fprintf(&sb, "\nGo: %s", info.GoVersion)
	fmt.Fprintf(&sb, "\nPlatform: %s", info.Platform)
	return sb.String()
}
