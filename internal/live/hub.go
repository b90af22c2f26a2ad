package live

import (
	"sync"

	"github.com/Sirlahm/vm-poll/internal/model"
)

// Event is one live update pushed to subscribers of a poll's channel.
type Event struct {
	PollID  string            `json:"pollId"`
	Results *model.ResultView `json:"results"`
}

// subscriberBuffer bounds how far a subscriber may lag before updates are
// dropped for it. Result views are snapshots, so dropping an intermediate
// update loses nothing once the next one lands.
const subscriberBuffer = 8

// Hub is the process-scoped registry of live-update subscribers, keyed by
// poll ID. Publishing to a poll with no subscribers is a no-op.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan Event]struct{})}
}

// Subscribe registers interest in a poll's updates and returns the channel
// events arrive on. The caller must Unsubscribe when done.
func (h *Hub) Subscribe(pollID string) chan Event {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[pollID] == nil {
		h.subs[pollID] = make(map[chan Event]struct{})
	}
	h.subs[pollID][ch] = struct{}{}
	return ch
}

// Unsubscribe removes the subscription and closes its channel. Safe to call
// for a channel that was never subscribed.
func (h *Hub) Unsubscribe(pollID string, ch chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subs[pollID]
	if !ok {
		return
	}
	if _, ok := set[ch]; !ok {
		return
	}
	delete(set, ch)
	if len(set) == 0 {
		delete(h.subs, pollID)
	}
	close(ch)
}

// Publish delivers an event to every subscriber of the poll. Sends are
// non-blocking: a subscriber that cannot keep up misses the update.
func (h *Hub) Publish(pollID string, view *model.ResultView) {
	evt := Event{PollID: pollID, Results: view}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[pollID] {
		select {
		case ch <- evt:
		default:
		}
	}
}

// Subscribers returns the current subscriber count for a poll.
func (h *Hub) Subscribers(pollID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[pollID])
}

// TotalSubscribers returns the subscriber count across all polls.
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, set := range h.subs {
		total += len(set)
	}
	return total
}
