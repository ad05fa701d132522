package chathub_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"campusmentor/backend/internal/chathub"
	"campusmentor/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeLister is an in-memory message log the tests mutate between events.
type fakeLister struct {
	mu   sync.Mutex
	logs map[string][]models.Message
}

func newFakeLister() *fakeLister {
	return &fakeLister{logs: make(map[string][]models.Message)}
}

func (f *fakeLister) append(channelID, sender, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs[channelID] = append(f.logs[channelID], models.Message{
		ChannelID: channelID,
		SenderID:  sender,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	})
}

func (f *fakeLister) ListMessages(_ context.Context, channelID string) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Message(nil), f.logs[channelID]...), nil
}

func recvSnapshot(t *testing.T, sub *chathub.Subscription) models.Snapshot {
	t.Helper()
	select {
	case snapshot, ok := <-sub.Updates():
		require.True(t, ok, "subscription closed unexpectedly")
		return snapshot
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return models.Snapshot{}
	}
}

func startHub(t *testing.T, lister chathub.MessageLister) *chathub.Hub {
	t.Helper()
	hub := chathub.NewHub(lister, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func TestSubscribe_DeliversCurrentSnapshotFirst(t *testing.T) {
	lister := newFakeLister()
	lister.append("chan_1", "user_A", "m1")
	lister.append("chan_1", "user_B", "m2")

	hub := startHub(t, lister)

	sub := hub.Subscribe("chan_1")
	defer sub.Close()

	snapshot := recvSnapshot(t, sub)
	assert.Equal(t, "chan_1", snapshot.ChannelID)
	require.Len(t, snapshot.Messages, 2)
	assert.Equal(t, "m1", snapshot.Messages[0].Text)
	assert.Equal(t, "m2", snapshot.Messages[1].Text)
}

// TestEvent_RedeliversEntireList verifies the stream semantics: every
// mutation re-delivers the whole ordered list, not an incremental diff.
func TestEvent_RedeliversEntireList(t *testing.T) {
	lister := newFakeLister()
	lister.append("chan_1", "user_A", "m1")

	hub := startHub(t, lister)

	sub := hub.Subscribe("chan_1")
	defer sub.Close()

	first := recvSnapshot(t, sub)
	require.Len(t, first.Messages, 1)

	lister.append("chan_1", "user_B", "m2")
	lister.append("chan_1", "user_A", "m3")
	hub.EventsCh <- models.ChannelEvent{ChannelID: "chan_1"}

	second := recvSnapshot(t, sub)
	require.Len(t, second.Messages, 3)
	assert.Equal(t, "m1", second.Messages[0].Text)
	assert.Equal(t, "m2", second.Messages[1].Text)
	assert.Equal(t, "m3", second.Messages[2].Text)
}

// TestClose_ReleasesRegistration verifies the unsubscribe contract: the
// updates channel is closed and later events deliver nothing.
func TestClose_ReleasesRegistration(t *testing.T) {
	lister := newFakeLister()
	hub := startHub(t, lister)

	sub := hub.Subscribe("chan_1")
	recvSnapshot(t, sub) // initial (empty) snapshot

	sub.Close()

	// The updates channel closes once the hub processes the release.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-sub.Updates():
			if !ok {
				// Released. Later events must not reach this subscription;
				// pushing one exercises the already-removed path.
				lister.append("chan_1", "user_A", "late")
				hub.EventsCh <- models.ChannelEvent{ChannelID: "chan_1"}
				time.Sleep(50 * time.Millisecond)
				return
			}
		case <-deadline:
			t.Fatal("subscription was not released")
		}
	}
}

func TestEvents_AreScopedToTheirChannel(t *testing.T) {
	lister := newFakeLister()
	lister.append("chan_1", "user_A", "m1")
	lister.append("chan_2", "user_C", "other")

	hub := startHub(t, lister)

	sub1 := hub.Subscribe("chan_1")
	defer sub1.Close()
	sub2 := hub.Subscribe("chan_2")
	defer sub2.Close()

	recvSnapshot(t, sub1)
	recvSnapshot(t, sub2)

	lister.append("chan_2", "user_D", "more")
	hub.EventsCh <- models.ChannelEvent{ChannelID: "chan_2"}

	updated := recvSnapshot(t, sub2)
	assert.Len(t, updated.Messages, 2)

	select {
	case snapshot, ok := <-sub1.Updates():
		if ok {
			t.Fatalf("chan_1 subscriber received foreign snapshot for %s", snapshot.ChannelID)
		}
	case <-time.After(100 * time.Millisecond):
		// Nothing delivered, as expected.
	}
}

// TestSlowSubscriberGetsFreshestSnapshot verifies stale snapshots are
// replaced rather than queued for a consumer that is not keeping up.
func TestSlowSubscriberGetsFreshestSnapshot(t *testing.T) {
	lister := newFakeLister()
	lister.append("chan_1", "user_A", "m1")

	hub := startHub(t, lister)

	sub := hub.Subscribe("chan_1")
	defer sub.Close()
	recvSnapshot(t, sub)

	// Two events without the consumer reading in between.
	lister.append("chan_1", "user_B", "m2")
	hub.EventsCh <- models.ChannelEvent{ChannelID: "chan_1"}
	lister.append("chan_1", "user_A", "m3")
	hub.EventsCh <- models.ChannelEvent{ChannelID: "chan_1"}

	// Give the hub time to process both events, then read once: the
	// surviving snapshot is the freshest one.
	assert.Eventually(t, func() bool {
		select {
		case snapshot := <-sub.Updates():
			return len(snapshot.Messages) == 3
		default:
			return false
		}
	}, 2*time.Second, 20*time.Millisecond)
}
