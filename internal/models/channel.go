package models

import "time"

// Channel is the private two-party message log created when a mentorship
// request is accepted. It is created exactly once per accepted request and
// never deleted by the core.
//
// The participant pair is stored twice on purpose: Participants (a map used
// as a set) backs access checks, ParticipantIDs keeps a stable list for
// metadata views and report snapshots.
type Channel struct {
	ID string `bson:"_id" json:"id"`

	Participants   map[string]bool `bson:"participants" json:"-"`
	ParticipantIDs []string        `bson:"participant_ids" json:"participant_ids"`

	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	LastMessageAt time.Time `bson:"last_message_at" json:"last_message_at"`
}

// HasParticipant reports whether userID belongs to the channel.
func (c *Channel) HasParticipant(userID string) bool {
	return c.Participants[userID]
}

// NewChannel builds a channel for the two given participants.
func NewChannel(id, userA, userB string, now time.Time) *Channel {
	return &Channel{
		ID:             id,
		Participants:   map[string]bool{userA: true, userB: true},
		ParticipantIDs: []string{userA, userB},
		CreatedAt:      now,
		LastMessageAt:  now,
	}
}
