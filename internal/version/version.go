// Package version holds build version metadata.
package version

// Version is the current released version.
// This value can be overridden at build time using ldflags:
//
//	go build -ldflags "-X github.com/emberkit/vecstore/internal/version.Version=v0.2.0"
var Version = "0.0.0-dev"

// GitCommit is the git commit hash at build time.
// Set via ldflags: -X github.com/emberkit/vecstore/internal/version.GitCommit=$(git rev-parse HEAD)
var GitCommit = "unknown"

// DevVersion is the current development version.
var DevVersion = Version

// GetCurrentVersion returns the version string reported by the CLI.
func GetCurrentVersion(mode string) string {
	if mode == "dev" || mode == "demo" {
		return DevVersion
	}
	return Version
}
