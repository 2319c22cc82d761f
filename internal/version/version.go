// Package version provides centralized version management for groundlab.
// It supports semantic versioning and build-time injection of commit metadata.
package version

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

// Build information that can be set at compile time via -ldflags
var (
	// Version is the semantic version of the application
	Version = "0.3.0"

	// GitCommit is the git commit hash when the binary was built
	GitCommit = "unknown"

	// BuildDate is the date when the binary was built
	BuildDate = "unknown"
)

// Info represents comprehensive version information
type Info struct {
	Version   string          `json:"version"`
	GitCommit string          `json:"gitCommit"`
	BuildDate string          `json:"buildDate"`
	GoVersion string          `json:"goVersion"`
	Platform  string          `json:"platform"`
	SemVer    *semver.Version `json:"-"`
}

// GetVersion returns the current version string
func GetVersion() string {
	return Version
}

// GetInfo returns comprehensive version information, or an error when the
// compiled-in version string is not valid semver.
func GetInfo() (*Info, error) {
	sv, err := semver.NewVersion(Version)
	if err != nil {
		return nil, fmt.Errorf("invalid semantic version '%s': %w", Version, err)
	}

	return &Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		SemVer:    sv,
	}, nil
}

// GetDetailedVersion returns detailed version information for debugging
func GetDetailedVersion() string {
	info, err := GetInfo()
	if err != nil {
		return fmt.Sprintf("groundlab v%s (error: %v)", Version, err)
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("groundlab v%s", info.Version))
	lines = append(lines, fmt.Sprintf("Git Commit: %s", info.GitCommit))
	lines = append(lines, fmt.Sprintf("Build Date: %s", info.BuildDate))
	lines = append(lines, fmt.Sprintf("Go Version: %s", info.GoVersion))
	lines = append(lines, fmt.Sprintf("Platform: %s", info.Platform))

	return strings.Join(lines, "\n")
}

// ValidateVersion validates that the current version is a valid semantic version
func ValidateVersion() error {
	_, err := semver.NewVersion(Version)
	if err != nil {
		return fmt.Errorf("invalid semantic version '%s': %w", Version, err)
	}
	return nil
}

// IsDevelopment returns true if this appears to be a development build
func IsDevelopment() bool {
	return GitCommit == "unknown" || BuildDate == "unknown"
}

// SetBuildInfo overrides the build metadata; intended for tests.
func SetBuildInfo(version, gitCommit, buildDate string) {
	Version = version
	GitCommit = gitCommit
	BuildDate = buildDate
}

// GetBuildTime parses BuildDate into a time.Time. The build pipeline writes
// RFC3339 timestamps; anything else is reported as an error.
func GetBuildTime() (time.Time, error) {
	if BuildDate == "unknown" || BuildDate == "" {
		return time.Time{}, fmt.Errorf("build date not available")
	}
	return time.Parse(time.RFC3339, BuildDate)
}
