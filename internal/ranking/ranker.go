// Package ranking turns a seeker's wanted skills into a ranked mentor list.
package ranking

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"campusmentor/backend/internal/config"
	"campusmentor/backend/internal/models"
	"campusmentor/backend/internal/skillmatch"
)

// ProfileSource provides the profiles the ranker scores. Satisfied by the
// storage service and by the read-through ProfileCache that wraps it.
type ProfileSource interface {
	GetProfileByID(ctx context.Context, id string) (*models.Profile, error)
	ListMentorCandidates(ctx context.Context) ([]models.Profile, error)
}

// RankedMentor is one search result.
type RankedMentor struct {
	Profile       models.Profile `json:"profile"`
	Score         int            `json:"score"`
	MatchedSkills []string       `json:"matched_skills"`
	Reason        string         `json:"reason"`
}

// Ranker scores and orders mentor candidates for a search.
type Ranker struct {
	profiles ProfileSource
}

func NewRanker(profiles ProfileSource) *Ranker {
	return &Ranker{profiles: profiles}
}

// Search ranks every mentor candidate against the resolved skill set.
// A non-empty free-text query (comma/semicolon separated) replaces the
// seeker's profile skills entirely; it is not merged with them. Candidates
// with a zero score are dropped, the rest are ordered by score, then by
// matched-skill count, and truncated to the result limit. Residual ties
// keep the candidate enumeration order.
func (r *Ranker) Search(ctx context.Context, searcherID, freeTextQuery string, profileWantedSkills []string) ([]RankedMentor, error) {
	wanted := resolveWantedSkills(freeTextQuery, profileWantedSkills)
	if len(wanted) == 0 {
		return nil, nil
	}

	candidates, err := r.profiles.ListMentorCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("load mentor candidates: %w", err)
	}

	var results []RankedMentor
	for _, candidate := range candidates {
		if candidate.ID == searcherID || !candidate.IsMentorCandidate() {
			continue
		}
		score, matched := skillmatch.Score(wanted, candidate.SkillsHave)
		if score == 0 {
			continue
		}
		results = append(results, RankedMentor{
			Profile:       candidate,
			Score:         score,
			MatchedSkills: matched,
			Reason:        reasonText(matched),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return len(results[i].MatchedSkills) > len(results[j].MatchedSkills)
	})

	if len(results) > config.MaxSearchResults {
		results = results[:config.MaxSearchResults]
	}
	return results, nil
}

// resolveWantedSkills picks the skill set to search with: the parsed
// free-text query when present, the profile skills otherwise.
func resolveWantedSkills(freeTextQuery string, profileWantedSkills []string) []string {
	if strings.TrimSpace(freeTextQuery) == "" {
		return profileWantedSkills
	}

	var wanted []string
	for _, part := range strings.FieldsFunc(freeTextQuery, func(r rune) bool {
		return r == ',' || r == ';'
	}) {
		if skill := strings.TrimSpace(part); skill != "" {
			wanted = append(wanted, skill)
		}
	}
	return wanted
}

// reasonText renders the deterministic explanation for a result, keyed by
// how many skills matched.
func reasonText(matched []string) string {
	switch n := len(matched); {
	case n == 0:
		return "Has relevant experience in this area"
	case n == 1:
		return fmt.Sprintf("Can help you with %s", matched[0])
	case n <= config.ReasonMaxListedSkills:
		listed := strings.Join(matched[:n-1], ", ")
		return fmt.Sprintf("Can help you with %s and %s", listed, matched[n-1])
	default:
		listed := strings.Join(matched[:config.ReasonMaxListedSkills], ", ")
		return fmt.Sprintf("Can help you with %s and %d more", listed, n-config.ReasonMaxListedSkills)
	}
}
