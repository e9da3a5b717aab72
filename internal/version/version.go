// Package version holds the build information of fibersec
package version

// These variables are set at build time using -ldflags
// Example: go build -ldflags "-X github.com/xcfem/xc-sub010/internal/version.Version=0.3.0"
var (
	// Version is the semantic version of the application
	Version = "0.3.0"

	// BuildTime is the time the binary was built (set via ldflags)
	BuildTime = "unknown"

	// GitCommit is the git commit hash (set via ldflags)
	GitCommit = "unknown"

	// Author of the application
	Author = "The xc-sub010 authors"

	// Year of release
	Year = "2026"
)

// String returns the one-line version banner
func String() string {
	return "fibersec v" + Version + " (" + GitCommit + ", built " + BuildTime + ")"
}
