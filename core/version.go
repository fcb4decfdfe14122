package core

// Version is the release version, set at build time via ldflags:
//
//	go build -ldflags "-X mediaskills/core.Version=$(git describe --tags --always)" ./cmd/...
var Version = "dev"

// GitCommit is the git commit hash, set at build time via ldflags.
var GitCommit = "unknown"

// GetVersionInfo returns a formatted version string for --version output.
//
// Examples:
//   - "banana-proxy v1.0.0 (commit abc1234)"
//   - "sora-video dev (commit unknown)"
func GetVersionInfo(tool string) string {
	return tool + " " + Version + " (commit " + GitCommit + ")"
}
