// Package skillmatch implements the skill comparison used by mentor search.
// Everything here is a pure function over strings: no I/O, no state.
package skillmatch

import (
	"math"
	"strings"
)

// Normalize canonicalizes a skill string: lowercase, strip every character
// outside [a-z0-9 ], trim surrounding spaces. Normalize is idempotent.
func Normalize(skill string) string {
	lower := strings.ToLower(skill)
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// Matches reports whether two skills refer to the same thing. Two skills
// match when their normal forms are equal, one contains the other, or any
// token of one equals, contains or is contained by any token of the other.
// Matches is symmetric.
func Matches(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return na == nb
	}
	if na == nb || strings.Contains(na, nb) || strings.Contains(nb, na) {
		return true
	}

	for _, ta := range strings.Fields(na) {
		for _, tb := range strings.Fields(nb) {
			if ta == tb || strings.Contains(ta, tb) || strings.Contains(tb, ta) {
				return true
			}
		}
	}
	return false
}

// Score rates how well a candidate's offered skills (has) cover the seeker's
// wanted skills. Each wanted skill contributes at most one match: has is
// scanned in its given order and the first entry that matches wins, not the
// best one. The matched has entries are returned deduplicated, in
// first-match order.
//
// The score is round(100 * matched / len(wanted)), so it always lands in
// [0, 100], and it is 0 exactly when no skills matched.
func Score(wanted, has []string) (int, []string) {
	if len(wanted) == 0 || len(has) == 0 {
		return 0, nil
	}

	matched := 0
	seen := make(map[string]bool)
	var matchedSkills []string

	for _, w := range wanted {
		for _, h := range has {
			if !Matches(w, h) {
				continue
			}
			matched++
			if !seen[h] {
				seen[h] = true
				matchedSkills = append(matchedSkills, h)
			}
			break
		}
	}

	score := int(math.Round(100 * float64(matched) / float64(len(wanted))))
	return score, matchedSkills
}
