package live

import (
	"testing"

	"github.com/Sirlahm/vm-poll/internal/model"
)

func TestHub_PublishReachesSubscriber(t *testing.T) {
	hub := NewHub()
	ch := hub.Subscribe("poll-1")
	defer hub.Unsubscribe("poll-1", ch)

	view := &model.ResultView{PollID: "poll-1", TotalVotes: 3}
	hub.Publish("poll-1", view)

	select {
	case evt := <-ch:
		if evt.PollID != "poll-1" || evt.Results.TotalVotes != 3 {
			t.Fatalf("event = %+v, want poll-1 with 3 votes", evt)
		}
	default:
		t.Fatal("expected a buffered event")
	}
}

func TestHub_PublishUnknownPollIsNoop(t *testing.T) {
	hub := NewHub()
	// Must not panic or block.
	hub.Publish("nobody-listening", &model.ResultView{})
}

func TestHub_SubscribersScopedByPoll(t *testing.T) {
	hub := NewHub()
	a := hub.Subscribe("poll-a")
	defer hub.Unsubscribe("poll-a", a)
	b := hub.Subscribe("poll-b")
	defer hub.Unsubscribe("poll-b", b)

	hub.Publish("poll-a", &model.ResultView{PollID: "poll-a"})

	select {
	case <-b:
		t.Fatal("poll-b subscriber must not receive poll-a events")
	default:
	}
	select {
	case <-a:
	default:
		t.Fatal("poll-a subscriber should have received the event")
	}
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub()
	ch := hub.Subscribe("poll-1")
	hub.Unsubscribe("poll-1", ch)

	if _, ok := <-ch; ok {
		t.Fatal("unsubscribed channel must be closed")
	}
	if hub.Subscribers("poll-1") != 0 {
		t.Fatal("subscriber count should drop to zero")
	}

	// Double unsubscribe is safe.
	hub.Unsubscribe("poll-1", ch)
}

func TestHub_SlowSubscriberDropsUpdates(t *testing.T) {
	hub := NewHub()
	ch := hub.Subscribe("poll-1")
	defer hub.Unsubscribe("poll-1", ch)

	// Overflow the buffer; Publish must never block.
	for i := 0; i < subscriberBuffer+5; i++ {
		hub.Publish("poll-1", &model.ResultView{TotalVotes: i})
	}

	if got := len(ch); got != subscriberBuffer {
		t.Fatalf("buffered events = %d, want %d", got, subscriberBuffer)
	}
}

func TestHub_TotalSubscribers(t *testing.T) {
	hub := NewHub()
	a := hub.Subscribe("poll-a")
	b := hub.Subscribe("poll-a")
	c := hub.Subscribe("poll-b")

	if got := hub.TotalSubscribers(); got != 3 {
		t.Fatalf("total subscribers = %d, want 3", got)
	}

	hub.Unsubscribe("poll-a", a)
	hub.Unsubscribe("poll-a", b)
	hub.Unsubscribe("poll-b", c)

	if got := hub.TotalSubscribers(); got != 0 {
		t.Fatalf("total subscribers = %d, want 0", got)
	}
}
