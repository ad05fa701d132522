package models

import "time"

// RequestStatus enumerates the states of a mentorship request.
// A request starts as pending and moves to exactly one terminal state.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

// Valid reports whether s is a known request status.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestAccepted, RequestRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed out of s.
func (s RequestStatus) Terminal() bool {
	return s == RequestAccepted || s == RequestRejected
}

// MentorRequest is a mentorship request from SenderID to ReceiverID.
// The pair is ordered: (A, B) and (B, A) are distinct keys, and the
// duplicate check only applies to the exact ordered pair.
// Requests are created by the sender, mutated only by the receiver's
// accept/reject action and never deleted.
type MentorRequest struct {
	ID         string        `bson:"_id" json:"id"`
	SenderID   string        `bson:"sender_id" json:"sender_id"`
	ReceiverID string        `bson:"receiver_id" json:"receiver_id"`
	// Message is an optional note from the sender; it passes blocking
	// moderation before the request is persisted.
	Message    string        `bson:"message,omitempty" json:"message,omitempty"`
	Status     RequestStatus `bson:"status" json:"status"`
	CreatedAt  time.Time     `bson:"created_at" json:"created_at"`
	// RespondedAt is set once, when the receiver accepts or rejects.
	RespondedAt *time.Time `bson:"responded_at,omitempty" json:"responded_at,omitempty"`
}

// Active reports whether the request blocks creation of another request for
// the same ordered pair (pending or accepted).
func (r *MentorRequest) Active() bool {
	return r.Status == RequestPending || r.Status == RequestAccepted
}
