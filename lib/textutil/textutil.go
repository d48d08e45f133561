package textutil

import (
	"regexp"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// the lowest Jaro-Winkler similarity that still counts as a near miss.
const suggestThreshold = 0.85

// Suggest returns up to limit candidates that look like name, most similar
// first. Candidates are compared after normalization, so a difference
// in case alone is always suggested.
func Suggest(name string, candidates []string, limit int) []string {
	type scored struct {
		candidate  string
		similarity float64
	}

	target := NormalizeName(name)
	var matches []scored
	for _, c := range candidates {
		similarity := matchr.JaroWinkler(target, NormalizeName(c), false)
		if similarity < suggestThreshold {
			continue
		}
		matches = append(matches, scored{candidate: c, similarity: similarity})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].similarity > matches[j].similarity
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.candidate
	}
	return out
}
