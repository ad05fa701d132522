package models

import "time"

// Profile represents a user's mentorship profile.
// SkillsHave is what the user can mentor in, SkillsToLearn what they are
// looking for. A profile is owned by its user and mutated only by the owner.
type Profile struct {
	// ID is the user's unique identifier (UUID).
	ID string `bson:"_id" json:"id"`
	// SkillsHave are the skills the user offers as a mentor.
	SkillsHave []string `bson:"skills_have" json:"skills_have"`
	// SkillsToLearn are the skills the user wants to learn.
	SkillsToLearn []string `bson:"skills_to_learn" json:"skills_to_learn"`
	// Bio is a free-text self description.
	Bio string `bson:"bio" json:"bio"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsMentorCandidate reports whether the profile can appear in search results,
// i.e. it offers at least one skill.
func (p *Profile) IsMentorCandidate() bool {
	return len(p.SkillsHave) > 0
}
