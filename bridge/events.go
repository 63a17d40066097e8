package bridge

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	// EventCommand is a command accepted for dispatch.
	EventCommand EventType = "command"
	// EventReply is a status line sent back to a peer.
	EventReply EventType = "reply"
	// EventAction is an action handle state transition.
	EventAction EventType = "action"
)

// Event is one observable bridge occurrence, fanned out to the web UI and
// any other subscribers.
type Event struct {
	ID   string    `json:"id"`
	Type EventType `json:"type"`
	Time time.Time `json:"time"`
	Addr string    `json:"addr,omitempty"`
	Text string    `json:"text"`
}

// Feed fans bridge events out to subscriber channels. Sends never block; a
// subscriber that falls behind loses events.
type Feed struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

func NewFeed() *Feed {
	return &Feed{subs: make(map[chan Event]struct{})}
}

func (f *Feed) Subscribe(ch chan Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs[ch] = struct{}{}
}

func (f *Feed) Unsubscribe(ch chan Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.subs, ch)
}

func (f *Feed) Publish(ev Event) {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	for ch := range f.subs {
		select {
		case ch <- ev:
		default:
			slog.Warn("Dropped event to slow subscriber", "type", ev.Type)
		}
	}
}
