// Package report captures abuse reports as immutable channel snapshots and
// drives the reviewer workflow over them.
package report

import (
	"context"
	"sort"
	"strings"
	"time"

	"campusmentor/backend/internal/errs"
	"campusmentor/backend/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store is the storage surface the report service needs.
type Store interface {
	GetChannelByID(ctx context.Context, id string) (*models.Channel, error)
	ListMessages(ctx context.Context, channelID string) ([]models.Message, error)
	SaveReport(ctx context.Context, report *models.ChatReport) error
	GetReportByID(ctx context.Context, id string) (*models.ChatReport, error)
	UpdateReport(ctx context.Context, report *models.ChatReport) error
}

// Notifier tells reviewers a new report exists. Delivery is best effort.
type Notifier interface {
	NotifyNewReport(report *models.ChatReport)
}

type Service struct {
	store    Store
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time
}

// NewService creates the report service. notifier may be nil.
func NewService(store Store, notifier Notifier, log *zap.Logger) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Capture freezes the channel's current state into a new pending report.
// The copied participant list and message log belong to the report from this
// point on; later channel activity never changes them.
func (s *Service) Capture(ctx context.Context, channelID, reporterID, reason string) (*models.ChatReport, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, errs.Validation("report reason must not be empty")
	}
	if reporterID == "" {
		return nil, errs.Validation("reporter id must not be empty")
	}

	channel, err := s.store.GetChannelByID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if !channel.HasParticipant(reporterID) {
		return nil, errs.ErrPermissionDenied
	}

	messages, err := s.store.ListMessages(ctx, channelID)
	if err != nil {
		return nil, err
	}

	snapshot := make([]models.ReportedMessage, len(messages))
	for i, msg := range messages {
		snapshot[i] = models.ReportedMessage{
			SenderID:  msg.SenderID,
			Text:      msg.Text,
			CreatedAt: msg.CreatedAt,
		}
	}
	sort.SliceStable(snapshot, func(i, j int) bool {
		return snapshot[i].CreatedAt.Before(snapshot[j].CreatedAt)
	})

	participants := append([]string(nil), channel.ParticipantIDs...)
	sort.Strings(participants)

	rep := &models.ChatReport{
		ID:           uuid.New().String(),
		ChannelID:    channelID,
		ReporterID:   reporterID,
		Reason:       reason,
		Participants: participants,
		Messages:     snapshot,
		Status:       models.ReportPending,
		CreatedAt:    s.now(),
	}

	if err := s.store.SaveReport(ctx, rep); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyNewReport(rep)
	}

	s.log.Info("captured chat report",
		zap.String("report_id", rep.ID),
		zap.String("channel_id", channelID),
		zap.Int("messages", len(snapshot)))
	return rep, nil
}

// Get returns a stored report.
func (s *Service) Get(ctx context.Context, reportID string) (*models.ChatReport, error) {
	return s.store.GetReportByID(ctx, reportID)
}

// Advance moves a report one step along the reviewer workflow. Only
// pending -> reviewed and reviewed -> action_taken are accepted; every other
// transition fails validation, including no-ops and regressions.
func (s *Service) Advance(ctx context.Context, reportID string, next models.ReportStatus, reviewerID, notes, action string) (*models.ChatReport, error) {
	if !next.Valid() {
		return nil, errs.Validation("unknown report status %q", next)
	}

	rep, err := s.store.GetReportByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if !rep.Status.CanTransitionTo(next) {
		return nil, errs.Validation("report cannot move from %s to %s", rep.Status, next)
	}

	now := s.now()
	rep.Status = next
	switch next {
	case models.ReportReviewed:
		rep.ReviewedAt = &now
		rep.ReviewedBy = reviewerID
		rep.AdminNotes = notes
	case models.ReportActionTaken:
		rep.ActionTaken = action
		if notes != "" {
			rep.AdminNotes = notes
		}
	}

	if err := s.store.UpdateReport(ctx, rep); err != nil {
		return nil, err
	}

	s.log.Info("advanced chat report",
		zap.String("report_id", rep.ID),
		zap.String("status", string(next)))
	return rep, nil
}
