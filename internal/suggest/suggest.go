// Package suggest provides fuzzy "did you mean" matching for settings
// symbols and CLI flags using Levenshtein distance.
package suggest

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Matches returns candidates close to unknown, best first, at most three.
// A case-insensitive exact match always ranks first.
func Matches(unknown string, candidates []string) []string {
	type scored struct {
		value string
		score int
	}
	var found []scored

	maxDist := max(2, len(unknown)/3)
	for _, c := range candidates {
		if strings.EqualFold(c, unknown) {
			found = append(found, scored{c, -1})
			continue
		}
		dist := levenshtein.ComputeDistance(strings.ToLower(unknown), strings.ToLower(c))
		if dist <= maxDist {
			found = append(found, scored{c, dist})
		}
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].score < found[j].score })

	var result []string
	for i := 0; i < len(found) && i < 3; i++ {
		result = append(result, found[i].value)
	}
	return result
}

// Closest returns the single best match, or "" when nothing is close.
func Closest(unknown string, candidates []string) string {
	if m := Matches(unknown, candidates); len(m) > 0 {
		return m[0]
	}
	return ""
}

// Flag finds similar flags from a list of valid flags.
func Flag(unknown string, validFlags []string) []string {
	unknown = strings.TrimLeft(unknown, "-")
	normalized := make([]string, len(validFlags))
	byNormalized := make(map[string]string, len(validFlags))
	for i, f := range validFlags {
		normalized[i] = strings.TrimLeft(f, "-")
		byNormalized[normalized[i]] = f
	}

	var result []string
	for _, m := range Matches(unknown, normalized) {
		result = append(result, byNormalized[m])
	}
	return result
}

// CommonFlagAliases maps commonly attempted flags to their correct names
var CommonFlagAliases = map[string]string{
	"conf":     "--config, -c",
	"settings": "--config, -c",
	"file":     "--config, -c",
	"verbose":  "--log-level debug",
	"debug":    "--log-level debug",
	"server":   "use a SetServer statement in the settings file",
	"desc":     "--description, -d",
}

// GetFlagHint returns a hint for a commonly misused flag
func GetFlagHint(flag string) string {
	flag = strings.TrimLeft(flag, "-")
	flag = strings.ToLower(flag)

	if hint, ok := CommonFlagAliases[flag]; ok {
		return hint
	}
	return ""
}
