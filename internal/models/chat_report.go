package models

import "time"

// ReportStatus enumerates the reviewer workflow states of a ChatReport.
// The only allowed order is pending -> reviewed -> action_taken.
type ReportStatus string

const (
	ReportPending     ReportStatus = "pending"
	ReportReviewed    ReportStatus = "reviewed"
	ReportActionTaken ReportStatus = "action_taken"
)

// Valid reports whether s is a known report status.
func (s ReportStatus) Valid() bool {
	switch s {
	case ReportPending, ReportReviewed, ReportActionTaken:
		return true
	}
	return false
}

// CanTransitionTo reports whether next is the single allowed successor of s.
// Skipping a step or regressing is never allowed, regardless of caller.
func (s ReportStatus) CanTransitionTo(next ReportStatus) bool {
	switch s {
	case ReportPending:
		return next == ReportReviewed
	case ReportReviewed:
		return next == ReportActionTaken
	}
	return false
}

// ReportedMessage is the copied subset of a Message stored inside a report
// snapshot: sender, text and timestamp only.
type ReportedMessage struct {
	SenderID  string    `bson:"sender_id" json:"sender_id"`
	Text      string    `bson:"text" json:"text"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// ChatReport is an immutable snapshot of a channel taken when a participant
// escalates abuse. Participants and Messages are copied at capture time and
// never change afterwards, independent of the live channel's state.
type ChatReport struct {
	ID         string `bson:"_id" json:"id"`
	ChannelID  string `bson:"channel_id" json:"channel_id"`
	ReporterID string `bson:"reporter_id" json:"reporter_id"`
	Reason     string `bson:"reason" json:"reason"`

	Participants []string          `bson:"participants" json:"participants"`
	Messages     []ReportedMessage `bson:"messages" json:"messages"`

	Status    ReportStatus `bson:"status" json:"status"`
	CreatedAt time.Time    `bson:"created_at" json:"created_at"`

	// Reviewer fields, set only by reviewer transitions.
	ReviewedAt  *time.Time `bson:"reviewed_at,omitempty" json:"reviewed_at,omitempty"`
	ReviewedBy  string     `bson:"reviewed_by,omitempty" json:"reviewed_by,omitempty"`
	AdminNotes  string     `bson:"admin_notes,omitempty" json:"admin_notes,omitempty"`
	ActionTaken string     `bson:"action_taken,omitempty" json:"action_taken,omitempty"`
}
