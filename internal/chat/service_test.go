package chat_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"campusmentor/backend/internal/chat"
	"campusmentor/backend/internal/errs"
	"campusmentor/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetChannelByID(ctx context.Context, id string) (*models.Channel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Channel), args.Error(1)
}

func (m *MockStore) SaveMessage(ctx context.Context, msg *models.Message) error {
	args := m.Called(ctx, msg)
	// Mirror the storage service: assign id and timestamp on write.
	msg.ID = primitive.NewObjectID()
	msg.CreatedAt = time.Now().UTC()
	return args.Error(0)
}

func (m *MockStore) TouchChannel(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockStore) ListMessages(ctx context.Context, channelID string) ([]models.Message, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockStore) PublishChannelEvent(ctx context.Context, event models.ChannelEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockModerator struct {
	mock.Mock
}

func (m *MockModerator) Check(ctx context.Context, text, contextKind string) error {
	args := m.Called(ctx, text, contextKind)
	return args.Error(0)
}

func testChannel() *models.Channel {
	return models.NewChannel("chan_1", "user_A", "user_B", time.Now().UTC())
}

func TestSend_AppendsAndPublishes(t *testing.T) {
	store := new(MockStore)
	gate := new(MockModerator)
	store.On("GetChannelByID", mock.Anything, "chan_1").Return(testChannel(), nil)
	gate.On("Check", mock.Anything, "hello", mock.Anything).Return(nil)
	store.On("SaveMessage", mock.Anything, mock.AnythingOfType("*models.Message")).Return(nil)
	store.On("TouchChannel", mock.Anything, "chan_1", mock.AnythingOfType("time.Time")).Return(nil)
	store.On("PublishChannelEvent", mock.Anything, mock.AnythingOfType("models.ChannelEvent")).Return(nil)

	svc := chat.NewService(store, gate, zap.NewNop())

	msg, err := svc.Send(context.Background(), "chan_1", "user_A", "hello")
	assert.NoError(t, err)
	assert.Equal(t, "user_A", msg.SenderID)
	assert.False(t, msg.CreatedAt.IsZero())
	store.AssertExpectations(t)
}

func TestSend_EmptyTextRejected(t *testing.T) {
	svc := chat.NewService(new(MockStore), new(MockModerator), zap.NewNop())

	_, err := svc.Send(context.Background(), "chan_1", "user_A", "   ")
	assert.True(t, errs.IsValidation(err))
}

func TestSend_NonParticipantDenied(t *testing.T) {
	store := new(MockStore)
	store.On("GetChannelByID", mock.Anything, "chan_1").Return(testChannel(), nil)

	svc := chat.NewService(store, new(MockModerator), zap.NewNop())

	_, err := svc.Send(context.Background(), "chan_1", "user_C", "hi")
	assert.ErrorIs(t, err, errs.ErrPermissionDenied)
	store.AssertNotCalled(t, "SaveMessage", mock.Anything, mock.Anything)
}

func TestSend_UnsafeContentRejected(t *testing.T) {
	store := new(MockStore)
	gate := new(MockModerator)
	store.On("GetChannelByID", mock.Anything, "chan_1").Return(testChannel(), nil)
	gate.On("Check", mock.Anything, "abuse", mock.Anything).
		Return(&errs.ContentRejectedError{Reason: "abusive"})

	svc := chat.NewService(store, gate, zap.NewNop())

	_, err := svc.Send(context.Background(), "chan_1", "user_A", "abuse")
	assert.True(t, errs.IsContentRejected(err))
	store.AssertNotCalled(t, "SaveMessage", mock.Anything, mock.Anything)
}

// TestSend_SurvivesPublishFailure verifies a pub/sub outage degrades live
// delivery but does not fail the send: the message is already durable.
func TestSend_SurvivesPublishFailure(t *testing.T) {
	store := new(MockStore)
	gate := new(MockModerator)
	store.On("GetChannelByID", mock.Anything, "chan_1").Return(testChannel(), nil)
	gate.On("Check", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	store.On("SaveMessage", mock.Anything, mock.AnythingOfType("*models.Message")).Return(nil)
	store.On("TouchChannel", mock.Anything, "chan_1", mock.AnythingOfType("time.Time")).Return(nil)
	store.On("PublishChannelEvent", mock.Anything, mock.Anything).Return(errors.New("redis down"))

	svc := chat.NewService(store, gate, zap.NewNop())

	msg, err := svc.Send(context.Background(), "chan_1", "user_A", "hello")
	assert.NoError(t, err)
	assert.NotNil(t, msg)
}

func TestSend_UnknownChannel(t *testing.T) {
	store := new(MockStore)
	store.On("GetChannelByID", mock.Anything, "missing").Return(nil, errs.ErrNotFound)

	svc := chat.NewService(store, new(MockModerator), zap.NewNop())

	_, err := svc.Send(context.Background(), "missing", "user_A", "hi")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestList_ReturnsOrderedLog(t *testing.T) {
	base := time.Now().UTC()
	ordered := []models.Message{
		{SenderID: "user_A", Text: "m1", CreatedAt: base},
		{SenderID: "user_B", Text: "m2", CreatedAt: base.Add(time.Second)},
		{SenderID: "user_A", Text: "m3", CreatedAt: base.Add(2 * time.Second)},
	}

	store := new(MockStore)
	store.On("GetChannelByID", mock.Anything, "chan_1").Return(testChannel(), nil)
	store.On("ListMessages", mock.Anything, "chan_1").Return(ordered, nil)

	svc := chat.NewService(store, new(MockModerator), zap.NewNop())

	messages, err := svc.List(context.Background(), "chan_1")
	assert.NoError(t, err)
	assert.Len(t, messages, 3)
	for i := 1; i < len(messages); i++ {
		assert.False(t, messages[i].CreatedAt.Before(messages[i-1].CreatedAt))
	}
	assert.Equal(t, "m1", messages[0].Text)
	assert.Equal(t, "m3", messages[2].Text)
}
