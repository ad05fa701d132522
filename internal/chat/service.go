// Package chat implements the moderated append-only message log behind a
// channel. Live delivery to subscribers is the hub's job (internal/chathub);
// this package owns the write path and pull reads.
package chat

import (
	"context"
	"strings"
	"time"

	"campusmentor/backend/internal/config"
	"campusmentor/backend/internal/errs"
	"campusmentor/backend/internal/models"

	"go.uber.org/zap"
)

// Store is the slice of storage the chat service needs.
type Store interface {
	GetChannelByID(ctx context.Context, id string) (*models.Channel, error)
	SaveMessage(ctx context.Context, msg *models.Message) error
	TouchChannel(ctx context.Context, id string, at time.Time) error
	ListMessages(ctx context.Context, channelID string) ([]models.Message, error)
	PublishChannelEvent(ctx context.Context, event models.ChannelEvent) error
}

// Moderator is the moderation gate for chat messages. Satisfied by
// *moderation.Gate configured with the advisory policy, so a moderation
// outage lets messages through with a logged warning.
type Moderator interface {
	Check(ctx context.Context, text, contextKind string) error
}

type Service struct {
	store Store
	gate  Moderator
	log   *zap.Logger
}

func NewService(store Store, gate Moderator, log *zap.Logger) *Service {
	return &Service{store: store, gate: gate, log: log}
}

// Send appends a message to the channel's log. The text passes advisory
// moderation, the timestamp is assigned by the store, and a mutation event
// is published so live subscribers re-read the log. The message write,
// the lastMessageAt update and the publish are three independent
// operations; a failure in between leaves the earlier writes in place.
func (s *Service) Send(ctx context.Context, channelID, senderID, text string) (*models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errs.Validation("message text is required")
	}

	channel, err := s.store.GetChannelByID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if !channel.HasParticipant(senderID) {
		return nil, errs.ErrPermissionDenied
	}

	if err := s.gate.Check(ctx, text, config.ModerationKindChatMessage); err != nil {
		return nil, err
	}

	msg := &models.Message{
		ChannelID: channelID,
		SenderID:  senderID,
		Text:      text,
	}
	if err := s.store.SaveMessage(ctx, msg); err != nil {
		return nil, err
	}
	if err := s.store.TouchChannel(ctx, channelID, msg.CreatedAt); err != nil {
		return nil, err
	}
	if err := s.store.PublishChannelEvent(ctx, models.ChannelEvent{
		ChannelID: channelID,
		MessageID: msg.ID.Hex(),
	}); err != nil {
		// The message is durably stored; only the live push is degraded.
		s.log.Warn("failed to publish channel event",
			zap.String("channel_id", channelID),
			zap.Error(err))
	}
	return msg, nil
}

// List returns the channel's full ordered message list, ascending by
// creation time. Pull-based: no subscription is opened.
func (s *Service) List(ctx context.Context, channelID string) ([]models.Message, error) {
	if _, err := s.store.GetChannelByID(ctx, channelID); err != nil {
		return nil, err
	}
	return s.store.ListMessages(ctx, channelID)
}

// Channel loads channel metadata, used by handlers for access checks before
// opening a subscription.
func (s *Service) Channel(ctx context.Context, channelID string) (*models.Channel, error) {
	return s.store.GetChannelByID(ctx, channelID)
}
