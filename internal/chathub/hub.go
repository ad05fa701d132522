// Package chathub fans channel mutations out to live subscribers. Every
// mutation event triggers a re-read of the channel's full ordered log, and
// subscribers receive the whole snapshot, not a diff. Channels are small,
// so re-delivering the full list is cheaper than tracking per-client state.
package chathub

import (
	"context"

	"campusmentor/backend/internal/models"

	"go.uber.org/zap"
)

// MessageLister loads a channel's full ordered log. Satisfied by the
// storage service.
type MessageLister interface {
	ListMessages(ctx context.Context, channelID string) ([]models.Message, error)
}

// Subscription is one live stream over a channel's log. Snapshots arrive on
// Updates; the buffer holds a single snapshot and stale ones are replaced,
// so a slow consumer always wakes up to the freshest state.
type Subscription struct {
	ChannelID string

	updates chan models.Snapshot
	hub     *Hub
}

// Updates is the snapshot stream. It is closed when the subscription is
// released; after that, no further deliveries happen.
func (s *Subscription) Updates() <-chan models.Snapshot {
	return s.updates
}

// Close releases the subscription's hub registration. Safe to call from any
// goroutine; the hub closes the updates channel exactly once.
func (s *Subscription) Close() {
	s.hub.unregisterCh <- s
}

// Hub owns all live subscriptions. A single goroutine (Run) serializes
// registration, release and fan-out, so no locks are needed around the
// subscription table.
type Hub struct {
	lister MessageLister
	log    *zap.Logger

	// EventsCh receives channel mutation notices, normally from the Redis
	// bridge (ListenEvents). Exported so in-process callers and tests can
	// feed events directly.
	EventsCh chan models.ChannelEvent

	registerCh   chan *Subscription
	unregisterCh chan *Subscription

	subs map[string]map[*Subscription]bool
}

func NewHub(lister MessageLister, log *zap.Logger) *Hub {
	return &Hub{
		lister:       lister,
		log:          log,
		EventsCh:     make(chan models.ChannelEvent, 64),
		registerCh:   make(chan *Subscription),
		unregisterCh: make(chan *Subscription),
		subs:         make(map[string]map[*Subscription]bool),
	}
}

// Subscribe opens a live stream over the channel's log. The current snapshot
// is delivered first, then one snapshot per mutation. Callers must Close the
// subscription when done.
func (h *Hub) Subscribe(channelID string) *Subscription {
	sub := &Subscription{
		ChannelID: channelID,
		updates:   make(chan models.Snapshot, 1),
		hub:       h,
	}
	h.registerCh <- sub
	return sub
}

// Run is the hub's dispatcher loop. It exits when ctx is cancelled, closing
// every open subscription.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for _, channelSubs := range h.subs {
				for sub := range channelSubs {
					close(sub.updates)
				}
			}
			h.subs = make(map[string]map[*Subscription]bool)
			return

		case sub := <-h.registerCh:
			if h.subs[sub.ChannelID] == nil {
				h.subs[sub.ChannelID] = make(map[*Subscription]bool)
			}
			h.subs[sub.ChannelID][sub] = true
			h.deliverSnapshot(ctx, sub.ChannelID, map[*Subscription]bool{sub: true})

		case sub := <-h.unregisterCh:
			if channelSubs, ok := h.subs[sub.ChannelID]; ok && channelSubs[sub] {
				delete(channelSubs, sub)
				if len(channelSubs) == 0 {
					delete(h.subs, sub.ChannelID)
				}
				close(sub.updates)
			}

		case event := <-h.EventsCh:
			channelSubs := h.subs[event.ChannelID]
			if len(channelSubs) == 0 {
				continue
			}
			h.deliverSnapshot(ctx, event.ChannelID, channelSubs)
		}
	}
}

func (h *Hub) deliverSnapshot(ctx context.Context, channelID string, targets map[*Subscription]bool) {
	messages, err := h.lister.ListMessages(ctx, channelID)
	if err != nil {
		h.log.Warn("failed to load channel snapshot",
			zap.String("channel_id", channelID),
			zap.Error(err))
		return
	}

	snapshot := models.Snapshot{ChannelID: channelID, Messages: messages}
	for sub := range targets {
		select {
		case sub.updates <- snapshot:
		default:
			// Replace the stale buffered snapshot with the fresh one.
			select {
			case <-sub.updates:
			default:
			}
			select {
			case sub.updates <- snapshot:
			default:
			}
		}
	}
}
