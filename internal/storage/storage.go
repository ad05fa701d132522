// Package storage is the access layer for the hosted document store and the
// pub/sub backend. MongoDB holds the documents, Redis carries channel
// mutation events to the subscription hub.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"campusmentor/backend/internal/errs"
	"campusmentor/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	CollProfiles = "profiles"
	CollRequests = "mentorRequests"
	CollChannels = "chatRooms"
	CollMessages = "messages"
	CollReports  = "chatReports"
)

// channelEventTopic is the Redis pub/sub topic prefix for channel mutations.
const channelEventTopic = "channel:"

const opTimeout = 10 * time.Second

type Storage interface {
	GetProfileByID(ctx context.Context, id string) (*models.Profile, error)
	ListMentorCandidates(ctx context.Context) ([]models.Profile, error)
	SaveProfile(ctx context.Context, profile *models.Profile) error

	FindActiveRequest(ctx context.Context, senderID, receiverID string) (*models.MentorRequest, error)
	SaveRequest(ctx context.Context, req *models.MentorRequest) error
	GetRequestByID(ctx context.Context, id string) (*models.MentorRequest, error)
	UpdateRequestStatus(ctx context.Context, id string, status models.RequestStatus, respondedAt time.Time) error

	EnsureChannel(ctx context.Context, channel *models.Channel) error
	GetChannelByID(ctx context.Context, id string) (*models.Channel, error)
	TouchChannel(ctx context.Context, id string, at time.Time) error

	SaveMessage(ctx context.Context, msg *models.Message) error
	ListMessages(ctx context.Context, channelID string) ([]models.Message, error)

	SaveReport(ctx context.Context, report *models.ChatReport) error
	GetReportByID(ctx context.Context, id string) (*models.ChatReport, error)
	UpdateReport(ctx context.Context, report *models.ChatReport) error

	PublishChannelEvent(ctx context.Context, event models.ChannelEvent) error
}

type Service struct {
	DB    *mongo.Database
	Redis *redis.Client

	// clockMu guards lastWrite so message timestamps never regress within
	// a channel, even if the wall clock does.
	clockMu   sync.Mutex
	lastWrite map[string]time.Time
}

// NewService creates the storage service over an open Mongo database and an
// optional Redis client (nil disables pub/sub, e.g. for the admin CLI).
func NewService(db *mongo.Database, rdb *redis.Client) *Service {
	return &Service{
		DB:        db,
		Redis:     rdb,
		lastWrite: make(map[string]time.Time),
	}
}

// --- Profiles ---

func (s *Service) GetProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var profile models.Profile
	err := s.DB.Collection(CollProfiles).FindOne(ctx, bson.M{"_id": id}).Decode(&profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, storeErr("get profile", err)
	}
	return &profile, nil
}

// ListMentorCandidates returns every profile offering at least one skill.
// Excluding the searcher is the ranker's job.
func (s *Service) ListMentorCandidates(ctx context.Context) ([]models.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"skills_have.0": bson.M{"$exists": true}}
	cursor, err := s.DB.Collection(CollProfiles).Find(ctx, filter)
	if err != nil {
		return nil, storeErr("list mentor candidates", err)
	}
	defer cursor.Close(ctx)

	var profiles []models.Profile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, storeErr("decode mentor candidates", err)
	}
	return profiles, nil
}

func (s *Service) SaveProfile(ctx context.Context, profile *models.Profile) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	_, err := s.DB.Collection(CollProfiles).ReplaceOne(ctx, bson.M{"_id": profile.ID}, profile, opts)
	if err != nil {
		return storeErr("save profile", err)
	}
	return nil
}

// --- Mentor requests ---

// FindActiveRequest looks up a pending or accepted request for the exact
// ordered (sender, receiver) pair. The reverse direction is a distinct key
// and is deliberately not checked here. Returns (nil, nil) when none exists.
func (s *Service) FindActiveRequest(ctx context.Context, senderID, receiverID string) (*models.MentorRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{
		"sender_id":   senderID,
		"receiver_id": receiverID,
		"status":      bson.M{"$in": []models.RequestStatus{models.RequestPending, models.RequestAccepted}},
	}
	var req models.MentorRequest
	err := s.DB.Collection(CollRequests).FindOne(ctx, filter).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("find active request", err)
	}
	return &req, nil
}

func (s *Service) SaveRequest(ctx context.Context, req *models.MentorRequest) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := s.DB.Collection(CollRequests).InsertOne(ctx, req); err != nil {
		return storeErr("save request", err)
	}
	return nil
}

func (s *Service) GetRequestByID(ctx context.Context, id string) (*models.MentorRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var req models.MentorRequest
	err := s.DB.Collection(CollRequests).FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, storeErr("get request", err)
	}
	return &req, nil
}

func (s *Service) UpdateRequestStatus(ctx context.Context, id string, status models.RequestStatus, respondedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "responded_at": respondedAt}}
	res, err := s.DB.Collection(CollRequests).UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return storeErr("update request status", err)
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// --- Channels ---

// EnsureChannel inserts the channel if no document with its id exists yet.
// Channel ids are derived deterministically from the request id, so a
// retried accept hits the same document instead of creating a second one.
func (s *Service) EnsureChannel(ctx context.Context, channel *models.Channel) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Update().SetUpsert(true)
	update := bson.M{"$setOnInsert": bson.M{
		"participants":    channel.Participants,
		"participant_ids": channel.ParticipantIDs,
		"created_at":      channel.CreatedAt,
		"last_message_at": channel.LastMessageAt,
	}}
	_, err := s.DB.Collection(CollChannels).UpdateOne(ctx, bson.M{"_id": channel.ID}, update, opts)
	if err != nil {
		return storeErr("ensure channel", err)
	}
	return nil
}

func (s *Service) GetChannelByID(ctx context.Context, id string) (*models.Channel, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var channel models.Channel
	err := s.DB.Collection(CollChannels).FindOne(ctx, bson.M{"_id": id}).Decode(&channel)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, storeErr("get channel", err)
	}
	return &channel, nil
}

func (s *Service) TouchChannel(ctx context.Context, id string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"last_message_at": at}}
	_, err := s.DB.Collection(CollChannels).UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return storeErr("touch channel", err)
	}
	return nil
}

// --- Messages ---

// SaveMessage appends an immutable message. The timestamp is assigned here,
// never by the caller, and is kept non-decreasing per channel.
func (s *Service) SaveMessage(ctx context.Context, msg *models.Message) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}
	msg.CreatedAt = s.assignTimestamp(msg.ChannelID)

	if _, err := s.DB.Collection(CollMessages).InsertOne(ctx, msg); err != nil {
		return storeErr("save message", err)
	}
	return nil
}

func (s *Service) assignTimestamp(channelID string) time.Time {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()

	now := time.Now().UTC()
	if last, ok := s.lastWrite[channelID]; ok && now.Before(last) {
		now = last
	}
	s.lastWrite[channelID] = now
	return now
}

// ListMessages returns the channel's full log ascending by creation time,
// with insertion order breaking timestamp ties.
func (s *Service) ListMessages(ctx context.Context, channelID string) ([]models.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.DB.Collection(CollMessages).Find(ctx, bson.M{"channel_id": channelID}, opts)
	if err != nil {
		return nil, storeErr("list messages", err)
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, storeErr("decode messages", err)
	}
	return messages, nil
}

// --- Reports ---

func (s *Service) SaveReport(ctx context.Context, report *models.ChatReport) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := s.DB.Collection(CollReports).InsertOne(ctx, report); err != nil {
		return storeErr("save report", err)
	}
	return nil
}

func (s *Service) GetReportByID(ctx context.Context, id string) (*models.ChatReport, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var report models.ChatReport
	err := s.DB.Collection(CollReports).FindOne(ctx, bson.M{"_id": id}).Decode(&report)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, storeErr("get report", err)
	}
	return &report, nil
}

// UpdateReport replaces the reviewer-owned fields of an existing report.
// The captured snapshot itself is immutable and is written only once, by
// SaveReport.
func (s *Service) UpdateReport(ctx context.Context, report *models.ChatReport) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":       report.Status,
		"reviewed_at":  report.ReviewedAt,
		"reviewed_by":  report.ReviewedBy,
		"admin_notes":  report.AdminNotes,
		"action_taken": report.ActionTaken,
	}}
	res, err := s.DB.Collection(CollReports).UpdateOne(ctx, bson.M{"_id": report.ID}, update)
	if err != nil {
		return storeErr("update report", err)
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// --- Pub/sub ---

// PublishChannelEvent announces a channel mutation over Redis.
func (s *Service) PublishChannelEvent(ctx context.Context, event models.ChannelEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := s.Redis.Publish(ctx, channelEventTopic+event.ChannelID, payload).Err(); err != nil {
		return fmt.Errorf("publish channel event: %w", err)
	}
	return nil
}

// SubscribeChannelEvents opens a pattern subscription over every channel
// topic. The hub consumes it; closing the returned PubSub releases the
// server-side registration.
func (s *Service) SubscribeChannelEvents(ctx context.Context) *redis.PubSub {
	return s.Redis.PSubscribe(ctx, channelEventTopic+"*")
}

func storeErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %v", op, errs.ErrTransientStore, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
