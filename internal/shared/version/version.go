// Package version reports the build version stamped in with -ldflags.
package version

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// Set at build time:
//
//	go build -ldflags "-X github.com/orris-inc/vipgate/internal/shared/version.Version=1.2.0 -X github.com/orris-inc/vipgate/internal/shared/version.Commit=abc123"
var (
	Version = "dev"
	Commit  = ""
)

// Normalize ensures version string has "v" prefix for semver compatibility.
// Examples: "1.2.3" -> "v1.2.3", "v1.2.3" -> "v1.2.3"
func Normalize(version string) string {
	if version == "" {
		return ""
	}
	version = strings.TrimSpace(version)
	if !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}

// IsRelease reports whether v is a valid semantic version rather than a dev build.
func IsRelease(v string) bool {
	return semver.IsValid(Normalize(v))
}

// String renders the version for --version output.
func String() string {
	v := Version
	if IsRelease(v) {
		v = semver.Canonical(Normalize(v))
	}
	if Commit != "" {
		return fmt.Sprintf("%s (%s)", v, Commit)
	}
	return v
}
