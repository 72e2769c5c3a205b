// Package version works out which partman build is running.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Current returns the version to report for a build stamped with v.
func Current(v string) string {
	info, _ := debug.ReadBuildInfo()
	return Resolve(v, info)
}

// Resolve prefers a version injected at build time, then the module
// version from go install, then a devel+<revision> string from VCS stamps.
func Resolve(v string, info *debug.BuildInfo) string {
	if v != "" && v != "dev" {
		return v
	}
	if info == nil {
		return v
	}

	// When installed via `go install module@vX.Y.Z`, this will typically be `vX.Y.Z`.
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	var rev, modified string
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			modified = s.Value
		}
	}
	if rev == "" {
		return v
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	parts := []string{"devel", rev}
	if modified == "true" {
		parts = append(parts, "dirty")
	}
	return strings.Join(parts, "+")
}

// IsDevelopmentVersion returns true for non-release versions.
func IsDevelopmentVersion(v string) bool {
	if v == "" || v == "unknown" || v == "dev" || v == "devel" {
		return true
	}
	return strings.HasPrefix(v, "devel+")
}

// Describe is the one-line banner printed by "partman version".
func Describe(v string) string {
	return fmt.Sprintf("partman %s (%s %s/%s)", v, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
