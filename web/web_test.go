package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mbocsi/roverlink/bridge"
)

// mockBridge is a canned Bridge for handler tests.
type mockBridge struct {
	stats   bridge.Stats
	actions []bridge.ActionInfo
	feed    *bridge.Feed
}

func (m *mockBridge) Stats() bridge.Stats          { return m.stats }
func (m *mockBridge) Actions() []bridge.ActionInfo { return m.actions }
func (m *mockBridge) Events() *bridge.Feed         { return m.feed }

func newMockBridge() *mockBridge {
	return &mockBridge{
		stats: bridge.Stats{Datagrams: 10, Messages: 2, Commands: 5, Replies: 5},
		actions: []bridge.ActionInfo{
			{ID: "abc", Verb: "drive", State: "accepted", Amount: 0.5, Speed: 0.25},
		},
		feed: bridge.NewFeed(),
	}
}

func TestHandleStatus(t *testing.T) {
	s := NewServer("127.0.0.1:0", newMockBridge())

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body struct {
		Stats   bridge.Stats `json:"stats"`
		Actions int          `json:"actions_outstanding"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.Stats.Datagrams != 10 || body.Stats.Commands != 5 {
		t.Errorf("Unexpected stats %+v", body.Stats)
	}
	if body.Actions != 1 {
		t.Errorf("Expected 1 outstanding action, got %d", body.Actions)
	}
}

func TestHandleActions(t *testing.T) {
	s := NewServer("127.0.0.1:0", newMockBridge())

	req := httptest.NewRequest(http.MethodGet, "/actions", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var actions []bridge.ActionInfo
	if err := json.NewDecoder(rec.Body).Decode(&actions); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(actions) != 1 || actions[0].Verb != "drive" || actions[0].State != "accepted" {
		t.Errorf("Unexpected actions %+v", actions)
	}
}

func TestHandleHistoryCollectsEvents(t *testing.T) {
	mb := newMockBridge()
	s := NewServer("127.0.0.1:0", mb)

	// Wire the event pipeline without a listener.
	mb.feed.Subscribe(s.events)
	defer mb.feed.Unsubscribe(s.events)
	go s.consumeEvents()

	mb.feed.Publish(bridge.Event{Type: bridge.EventCommand, Text: "stop"})
	mb.feed.Publish(bridge.Event{Type: bridge.EventReply, Text: "ok: stopped"})

	timeout := time.After(2 * time.Second)
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for {
		req := httptest.NewRequest(http.MethodGet, "/history", nil)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)

		var events []bridge.Event
		if err := json.NewDecoder(rec.Body).Decode(&events); err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if len(events) == 2 {
			if events[0].Text != "stop" || events[1].Text != "ok: stopped" {
				t.Errorf("Unexpected history %+v", events)
			}
			return
		}

		select {
		case <-timeout:
			t.Fatalf("History never reached 2 events, got %d", len(events))
		case <-ticker.C:
		}
	}
}
