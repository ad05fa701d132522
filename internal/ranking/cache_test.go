package ranking_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"campusmentor/backend/internal/models"
	"campusmentor/backend/internal/ranking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// fakeBackend is an in-memory CacheBackend; failing flips every call into
// an error to exercise the fall-through path.
type fakeBackend struct {
	data    map[string]string
	failing bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{data: make(map[string]string)}
}

func (f *fakeBackend) Get(_ context.Context, key string) (string, error) {
	if f.failing {
		return "", errors.New("backend down")
	}
	val, ok := f.data[key]
	if !ok {
		return "", ranking.ErrCacheMiss
	}
	return val, nil
}

func (f *fakeBackend) Set(_ context.Context, key, value string, _ time.Duration) error {
	if f.failing {
		return errors.New("backend down")
	}
	f.data[key] = value
	return nil
}

func (f *fakeBackend) Del(_ context.Context, keys ...string) error {
	if f.failing {
		return errors.New("backend down")
	}
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func TestProfileCache_ReadThrough(t *testing.T) {
	inner := new(MockProfileSource)
	inner.On("GetProfileByID", mock.Anything, "user_1").
		Return(&models.Profile{ID: "user_1", Bio: "hi"}, nil).Once()

	cache := ranking.NewProfileCache(inner, newFakeBackend(), time.Minute, zap.NewNop())

	// First read misses and hits the source.
	profile, err := cache.GetProfileByID(context.Background(), "user_1")
	assert.NoError(t, err)
	assert.Equal(t, "user_1", profile.ID)

	// Second read is served from the cache; the Once() above would fail
	// the test if the source were consulted again.
	profile, err = cache.GetProfileByID(context.Background(), "user_1")
	assert.NoError(t, err)
	assert.Equal(t, "hi", profile.Bio)

	inner.AssertExpectations(t)
}

func TestProfileCache_CandidateListCached(t *testing.T) {
	inner := new(MockProfileSource)
	inner.On("ListMentorCandidates", mock.Anything).
		Return([]models.Profile{{ID: "mentor", SkillsHave: []string{"go"}}}, nil).Once()

	cache := ranking.NewProfileCache(inner, newFakeBackend(), time.Minute, zap.NewNop())

	for i := 0; i < 3; i++ {
		candidates, err := cache.ListMentorCandidates(context.Background())
		assert.NoError(t, err)
		assert.Len(t, candidates, 1)
	}

	inner.AssertExpectations(t)
}

// TestProfileCache_BustInvalidates verifies the explicit bust-on-write rule:
// after Bust, the next read goes back to the source.
func TestProfileCache_BustInvalidates(t *testing.T) {
	inner := new(MockProfileSource)
	inner.On("GetProfileByID", mock.Anything, "user_1").
		Return(&models.Profile{ID: "user_1"}, nil).Twice()
	inner.On("ListMentorCandidates", mock.Anything).
		Return([]models.Profile{{ID: "user_1", SkillsHave: []string{"go"}}}, nil).Twice()

	cache := ranking.NewProfileCache(inner, newFakeBackend(), time.Minute, zap.NewNop())
	ctx := context.Background()

	_, _ = cache.GetProfileByID(ctx, "user_1")
	_, _ = cache.ListMentorCandidates(ctx)

	cache.Bust(ctx, "user_1")

	_, err := cache.GetProfileByID(ctx, "user_1")
	assert.NoError(t, err)
	_, err = cache.ListMentorCandidates(ctx)
	assert.NoError(t, err)

	inner.AssertExpectations(t)
}

// TestProfileCache_BackendFailureFallsThrough verifies a broken cache
// backend degrades to direct reads instead of failing the search.
func TestProfileCache_BackendFailureFallsThrough(t *testing.T) {
	inner := new(MockProfileSource)
	inner.On("GetProfileByID", mock.Anything, "user_1").
		Return(&models.Profile{ID: "user_1"}, nil)

	backend := newFakeBackend()
	backend.failing = true
	cache := ranking.NewProfileCache(inner, backend, time.Minute, zap.NewNop())

	profile, err := cache.GetProfileByID(context.Background(), "user_1")
	assert.NoError(t, err)
	assert.Equal(t, "user_1", profile.ID)
}
