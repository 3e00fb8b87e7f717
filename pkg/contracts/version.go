package contracts

import (
	"fmt"
	"runtime"
)

const (
	// Version is the current version of the pipeline tools.
	Version = "0.1.0"

	// DataFormatVersion is the version of the CSV data layout.
	DataFormatVersion = "v1"
)

var (
	// BuildTime is set during build using ldflags
	BuildTime = "unknown"

	// GitCommit is set during build using ldflags
	GitCommit = "unknown"
)

// GetVersionString returns a formatted version string.
func GetVersionString() string {
	return fmt.Sprintf("apartment pipeline v%s", Version)
}

// GetFullVersionString returns a detailed version string.
func GetFullVersionString() string {
	return fmt.Sprintf("%s (built: %s, commit: %s, go: %s, os: %s/%s)",
		GetVersionString(), BuildTime, GitCommit,
		runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
