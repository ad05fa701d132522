package moderation_test

import (
	"context"
	"errors"
	"testing"

	"campusmentor/backend/internal/errs"
	"campusmentor/backend/internal/moderation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockModerationService struct {
	mock.Mock
}

func (m *MockModerationService) Moderate(ctx context.Context, text, contextKind string) (moderation.Result, error) {
	args := m.Called(ctx, text, contextKind)
	return args.Get(0).(moderation.Result), args.Error(1)
}

func TestGate_SafeContentPasses(t *testing.T) {
	svc := new(MockModerationService)
	svc.On("Moderate", mock.Anything, "hello", "chat_message").
		Return(moderation.Result{Safe: true}, nil)

	gate := moderation.NewGate(svc, moderation.PolicyBlocking, zap.NewNop())

	err := gate.Check(context.Background(), "hello", "chat_message")
	assert.NoError(t, err)
}

// TestGate_UnsafeRejectsUnderBothPolicies verifies an unsafe verdict always
// rejects; the policy only governs service failures.
func TestGate_UnsafeRejectsUnderBothPolicies(t *testing.T) {
	for _, policy := range []moderation.Policy{moderation.PolicyBlocking, moderation.PolicyAdvisory} {
		svc := new(MockModerationService)
		svc.On("Moderate", mock.Anything, "bad text", mock.Anything).
			Return(moderation.Result{Safe: false, Reason: "harassment"}, nil)

		gate := moderation.NewGate(svc, policy, zap.NewNop())

		err := gate.Check(context.Background(), "bad text", "chat_message")
		assert.True(t, errs.IsContentRejected(err), "policy %s", policy)

		var rejected *errs.ContentRejectedError
		assert.True(t, errors.As(err, &rejected))
		assert.Equal(t, "harassment", rejected.Reason)
	}
}

func TestGate_ServiceErrorBlocking(t *testing.T) {
	svc := new(MockModerationService)
	svc.On("Moderate", mock.Anything, mock.Anything, mock.Anything).
		Return(moderation.Result{}, errors.New("connection refused"))

	gate := moderation.NewGate(svc, moderation.PolicyBlocking, zap.NewNop())

	err := gate.Check(context.Background(), "anything", "mentorship_request")
	assert.Error(t, err)
	assert.False(t, errs.IsContentRejected(err))
}

// TestGate_ServiceErrorAdvisory verifies the fail-open path: a moderation
// outage lets chat content through.
func TestGate_ServiceErrorAdvisory(t *testing.T) {
	svc := new(MockModerationService)
	svc.On("Moderate", mock.Anything, mock.Anything, mock.Anything).
		Return(moderation.Result{}, errors.New("connection refused"))

	gate := moderation.NewGate(svc, moderation.PolicyAdvisory, zap.NewNop())

	err := gate.Check(context.Background(), "anything", "chat_message")
	assert.NoError(t, err)
}
