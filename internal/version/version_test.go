package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestIsDevelopmentVersion(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"", true},
		{"unknown", true},
		{"dev", true},
		{"devel", true},
		{"devel+abc123", true},
		{"devel+abc+dirty", true},

		{"v0.1.0", false},
		{"1.0.0-beta", false},
		{"v1.0.0-rc.1", false},

		// partial matches are releases
		{"develop", false},
		{"my-devel", false},
		{"DEV", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := IsDevelopmentVersion(tt.input)
			if got != tt.expected {
				t.Errorf("IsDevelopmentVersion(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	vcs := func(rev, modified string) *debug.BuildInfo {
		info := &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}
		info.Settings = []debug.BuildSetting{
			{Key: "vcs.revision", Value: rev},
			{Key: "vcs.modified", Value: modified},
		}
		return info
	}

	tests := []struct {
		name string
		v    string
		info *debug.BuildInfo
		want string
	}{
		{"injected wins", "v1.2.3", vcs("abc", "false"), "v1.2.3"},
		{"no build info", "dev", nil, "dev"},
		{"go install version", "dev", &debug.BuildInfo{Main: debug.Module{Version: "v0.4.0"}}, "v0.4.0"},
		{"vcs clean", "dev", vcs("0123456789abcdef", "false"), "devel+0123456789ab"},
		{"vcs dirty", "dev", vcs("abc123", "true"), "devel+abc123+dirty"},
		{"no vcs stamp", "dev", &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, "dev"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.v, tt.info); got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	got := Describe("v1.0.0")
	if !strings.HasPrefix(got, "partman v1.0.0 (go") {
		t.Errorf("Describe() = %q", got)
	}
}
