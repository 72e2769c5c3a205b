package suggest

import "testing"

func TestMatches(t *testing.T) {
	actions := []string{"Login", "SelectProfile", "ImportTab", "SearchTab", "Quit"}

	tests := []struct {
		name    string
		unknown string
		want    string
	}{
		{"case only", "quit", "Quit"},
		{"one typo", "Qiut", "Quit"},
		{"missing letter", "Logn", "Login"},
		{"closer tab wins", "SearchTb", "SearchTab"},
		{"nothing close", "Frobnicate", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Closest(tt.unknown, actions); got != tt.want {
				t.Errorf("Closest(%q) = %q, want %q", tt.unknown, got, tt.want)
			}
		})
	}
}

func TestMatchesLimit(t *testing.T) {
	got := Matches("ab", []string{"aa", "ab", "ac", "ad", "ae"})
	if len(got) != 3 {
		t.Fatalf("expected 3 suggestions, got %v", got)
	}
	if got[0] != "ab" {
		t.Errorf("exact match should rank first, got %v", got)
	}
}

func TestFlag(t *testing.T) {
	got := Flag("--confg", []string{"--config", "--log-level", "--log-file"})
	if len(got) == 0 || got[0] != "--config" {
		t.Errorf("Flag(--confg) = %v, want --config first", got)
	}
}

func TestGetFlagHint(t *testing.T) {
	if GetFlagHint("--Verbose") == "" {
		t.Error("expected hint for --verbose")
	}
	if GetFlagHint("--nothing") != "" {
		t.Error("expected no hint for unknown flag")
	}
}
