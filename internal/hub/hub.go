// Package hub maintains live per-user delivery channels and funnels every
// domain event through a single push entry point.
//
// A push has two independent, best-effort side effects:
//
//  1. Durable: a Notification row is always written, so the event is
//     retrievable from the inbox even when it was also delivered live.
//  2. Live: the event is handed to every currently registered channel of the
//     target user without blocking the caller. Slow or full channels drop
//     the event; the durable record is the fallback.
//
// Neither path waits for, or rolls back on, the other. A storage failure is
// logged and live delivery still proceeds, and vice versa.
//
// Both chat delivery and unrelated domain events (appointment status
// changes) use the same entry point, which is why the hub knows nothing
// about conversations.
package hub

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Event is what a live channel receives. It mirrors the durable notification
// content; ID is empty when the durable write failed.
type Event struct {
	ID        string `json:"id,omitempty"`
	UserID    string `json:"user_id"`
	Category  string `json:"category"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
}

// Channel is one user's live delivery handle: a single connected session
// (device, tab). A user may hold any number of channels concurrently.
// Channels are created by Register and torn down by Unregister; they are
// never persisted.
type Channel struct {
	id     string
	userID string
	events chan Event
}

// Events returns the receive side of the channel. It is closed by
// Unregister; consumers should range over it.
func (c *Channel) Events() <-chan Event { return c.events }

// UserID returns the user this channel delivers to.
func (c *Channel) UserID() string { return c.userID }

// Store is the durable side of a push. Implemented by the notification
// repository; faked in tests.
type Store interface {
	// SaveNotification persists one notification and returns its generated id
	// and creation time formatted for the wire.
	SaveNotification(ctx context.Context, userID, category, title, body string) (id, createdAt string, err error)
}

// Hub routes pushes to durable storage and live channels.
//
// The registry is a map from user id to that user's open channels, guarded
// by a single mutex. Connect, disconnect, and push for any mix of users are
// safe to run concurrently; pushes deliver under the read lock with
// non-blocking sends, so the lock is never held across a stalled consumer.
type Hub struct {
	store   Store
	log     zerolog.Logger
	bufSize int

	mu       sync.RWMutex
	channels map[string]map[string]*Channel
}

// New constructs a Hub delivering through channels buffered to bufSize
// events. A bufSize below 1 is coerced to 1.
func New(store Store, log zerolog.Logger, bufSize int) *Hub {
	if bufSize < 1 {
		bufSize = 1
	}
	return &Hub{
		store:    store,
		log:      log,
		bufSize:  bufSize,
		channels: make(map[string]map[string]*Channel),
	}
}

// Register adds a live channel for userID and returns its handle.
func (h *Hub) Register(userID string) *Channel {
	c := &Channel{
		id:     uuid.NewString(),
		userID: userID,
		events: make(chan Event, h.bufSize),
	}

	h.mu.Lock()
	set, ok := h.channels[userID]
	if !ok {
		set = make(map[string]*Channel)
		h.channels[userID] = set
	}
	set[c.id] = c
	h.mu.Unlock()

	channelsConnected.Inc()
	h.log.Debug().Str("user_id", userID).Str("channel_id", c.id).Msg("channel registered")
	return c
}

// Unregister removes a channel and closes its event stream. It is
// idempotent: unregistering an already-removed channel is a no-op, and other
// channels of the same user are unaffected.
func (h *Hub) Unregister(c *Channel) {
	if c == nil {
		return
	}

	h.mu.Lock()
	set, ok := h.channels[c.userID]
	if ok {
		if _, live := set[c.id]; !live {
			ok = false
		} else {
			delete(set, c.id)
			if len(set) == 0 {
				delete(h.channels, c.userID)
			}
		}
	}
	h.mu.Unlock()

	if !ok {
		return
	}
	close(c.events)
	channelsConnected.Dec()
	h.log.Debug().Str("user_id", c.userID).Str("channel_id", c.id).Msg("channel unregistered")
}

// Push records a durable notification for userID and delivers the event to
// each of the user's live channels.
//
// The durable write happens first but its failure only logs; the live pass
// always runs. Delivery to a channel is a non-blocking send: per channel,
// events arrive exactly once and in push order, but a full buffer drops the
// event rather than stalling the caller.
func (h *Hub) Push(ctx context.Context, userID, category, title, body string) {
	pushesTotal.WithLabelValues(category).Inc()

	ev := Event{UserID: userID, Category: category, Title: title, Body: body}
	id, createdAt, err := h.store.SaveNotification(ctx, userID, category, title, body)
	if err != nil {
		durableFailures.Inc()
		h.log.Error().Err(err).
			Str("user_id", userID).
			Str("category", category).
			Msg("durable notification write failed")
	} else {
		ev.ID = id
		ev.CreatedAt = createdAt
	}

	// Deliver while holding the read lock: Unregister closes the event
	// channel only under the write lock, so a send can never hit a closed
	// channel. Sends are non-blocking, so the lock is held only briefly.
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.channels[userID] {
		select {
		case c.events <- ev:
			liveDeliveries.Inc()
		default:
			liveDrops.Inc()
			h.log.Warn().
				Str("user_id", userID).
				Str("channel_id", c.id).
				Msg("live channel full, event dropped")
		}
	}
}

// ConnectedChannels reports how many live channels userID currently holds.
func (h *Hub) ConnectedChannels(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[userID])
}
