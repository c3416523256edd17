// Package suggest ranks known names by similarity to a mistyped one.
package suggest

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

type scored struct {
	name string
	dist int
}

// Closest returns up to max candidates close to token, nearest first.
// Comparison is case-insensitive; a case-only mismatch has distance zero.
func Closest(token string, candidates []string, max int) []string {
	needle := strings.ToLower(strings.TrimSpace(token))
	if needle == "" || max <= 0 {
		return nil
	}

	var hits []scored
	for _, cand := range candidates {
		lower := strings.ToLower(cand)
		if strings.HasPrefix(lower, needle) && len(needle) >= 2 {
			hits = append(hits, scored{name: cand, dist: 0})
			continue
		}
		dist := levenshtein.ComputeDistance(needle, lower)
		if dist > limit(len(lower)) {
			continue
		}
		hits = append(hits, scored{name: cand, dist: dist})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].dist == hits[j].dist {
			return hits[i].name < hits[j].name
		}
		return hits[i].dist < hits[j].dist
	})

	if len(hits) > max {
		hits = hits[:max]
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.name
	}
	return out
}

func limit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
