// Package request implements the mentorship request state machine:
// pending -> accepted | rejected, with channel provisioning on acceptance.
package request

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campusmentor/backend/internal/config"
	"campusmentor/backend/internal/errs"
	"campusmentor/backend/internal/models"

	"github.com/google/uuid"
)

// channelNamespace seeds the deterministic request-id -> channel-id mapping.
// A retried accept derives the same channel id and the upsert in the store
// turns the second provisioning into a no-op.
var channelNamespace = uuid.MustParse("8a4021be-6f2c-4b0a-9c52-6f3d5e1a7c90")

// Store is the slice of storage the lifecycle needs.
type Store interface {
	FindActiveRequest(ctx context.Context, senderID, receiverID string) (*models.MentorRequest, error)
	SaveRequest(ctx context.Context, req *models.MentorRequest) error
	GetRequestByID(ctx context.Context, id string) (*models.MentorRequest, error)
	UpdateRequestStatus(ctx context.Context, id string, status models.RequestStatus, respondedAt time.Time) error
	EnsureChannel(ctx context.Context, channel *models.Channel) error
}

// Moderator is the moderation gate for request messages. Satisfied by
// *moderation.Gate configured with the blocking policy.
type Moderator interface {
	Check(ctx context.Context, text, contextKind string) error
}

// Lifecycle drives mentorship requests from creation to a terminal state.
type Lifecycle struct {
	store Store
	gate  Moderator
	now   func() time.Time
}

func NewLifecycle(store Store, gate Moderator) *Lifecycle {
	return &Lifecycle{store: store, gate: gate, now: time.Now}
}

// Create validates and persists a new pending request from sender to
// receiver. The optional message passes blocking moderation first: an unsafe
// verdict or a moderation outage both fail the call and nothing is written.
//
// Only the exact ordered (sender, receiver) pair is checked for an active
// duplicate. The reverse pair is a distinct key, so simultaneous mutual
// requests are allowed to coexist.
func (l *Lifecycle) Create(ctx context.Context, senderID, receiverID, message string) (*models.MentorRequest, error) {
	if senderID == "" || receiverID == "" {
		return nil, errs.Validation("sender and receiver are required")
	}
	if senderID == receiverID {
		return nil, errs.Validation("cannot send a mentorship request to yourself")
	}

	message = strings.TrimSpace(message)
	if message != "" {
		if err := l.gate.Check(ctx, message, config.ModerationKindRequestMessage); err != nil {
			return nil, err
		}
	}

	existing, err := l.store.FindActiveRequest(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errs.ErrDuplicateRequest
	}

	req := &models.MentorRequest{
		ID:         uuid.New().String(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Message:    message,
		Status:     models.RequestPending,
		CreatedAt:  l.now().UTC(),
	}
	if err := l.store.SaveRequest(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// Respond moves a pending request into a terminal state. Accepting also
// provisions the private channel for both participants; the status update
// and the channel write are two separate operations, so a reader can observe
// an accepted request before its channel exists.
//
// On accept the channel id is returned alongside the updated request.
func (l *Lifecycle) Respond(ctx context.Context, requestID string, accept bool) (*models.MentorRequest, string, error) {
	req, err := l.store.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, "", err
	}
	if req.Status.Terminal() {
		return nil, "", errs.Validation("request already %s", req.Status)
	}

	status := models.RequestRejected
	if accept {
		status = models.RequestAccepted
	}
	respondedAt := l.now().UTC()

	if err := l.store.UpdateRequestStatus(ctx, requestID, status, respondedAt); err != nil {
		return nil, "", err
	}
	req.Status = status
	req.RespondedAt = &respondedAt

	if !accept {
		return req, "", nil
	}

	channel := models.NewChannel(ChannelIDForRequest(requestID), req.SenderID, req.ReceiverID, respondedAt)
	if err := l.store.EnsureChannel(ctx, channel); err != nil {
		// The request is already accepted; the caller sees the partial
		// state rather than a rolled-back one.
		return req, "", fmt.Errorf("provision channel: %w", err)
	}
	return req, channel.ID, nil
}

// ChannelIDForRequest derives the channel id provisioned for an accepted
// request. Deterministic so retries are idempotent.
func ChannelIDForRequest(requestID string) string {
	return uuid.NewSHA1(channelNamespace, []byte(requestID)).String()
}
