package bridge

import (
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mbocsi/roverlink/motion"
)

// ActionState is the lifecycle phase of one asynchronous motion goal.
type ActionState int

const (
	ActionSubmitted ActionState = iota
	ActionAccepted
	ActionRejected
	ActionCompleted
)

func (s ActionState) String() string {
	switch s {
	case ActionSubmitted:
		return "submitted"
	case ActionAccepted:
		return "accepted"
	case ActionRejected:
		return "rejected"
	case ActionCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// ActionHandle tracks one outstanding motion goal from submission until its
// terminal reply. It is advanced by discrete events: the submission
// acknowledgement and the completion result.
type ActionHandle struct {
	ID      string
	Verb    string // "drive" or "rotate"
	Goal    motion.Goal
	Addr    net.Addr
	Created time.Time

	mu    sync.Mutex
	state ActionState
}

func newActionHandle(verb string, goal motion.Goal, addr net.Addr) *ActionHandle {
	return &ActionHandle{
		ID:      uuid.New().String(),
		Verb:    verb,
		Goal:    goal,
		Addr:    addr,
		Created: time.Now(),
		state:   ActionSubmitted,
	}
}

func (h *ActionHandle) State() ActionState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *ActionHandle) advance(s ActionState) {
	h.mu.Lock()
	h.state = s
	h.mu.Unlock()
}

// ActionInfo is a read-only snapshot of a handle for the status surfaces.
type ActionInfo struct {
	ID      string    `json:"id"`
	Verb    string    `json:"verb"`
	State   string    `json:"state"`
	Amount  float64   `json:"amount"`
	Speed   float64   `json:"speed"`
	Created time.Time `json:"created"`
}

// actionTracker holds the outstanding handles. Handles are removed after
// their terminal reply is sent; there is no cross-command cancellation.
type actionTracker struct {
	mu      sync.RWMutex
	handles map[string]*ActionHandle
}

func newActionTracker() *actionTracker {
	return &actionTracker{handles: make(map[string]*ActionHandle)}
}

func (t *actionTracker) add(h *ActionHandle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handles[h.ID] = h
}

func (t *actionTracker) remove(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.handles, id)
}

func (t *actionTracker) list() []ActionInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()

	infos := make([]ActionInfo, 0, len(t.handles))
	for _, h := range t.handles {
		infos = append(infos, ActionInfo{
			ID:      h.ID,
			Verb:    h.Verb,
			State:   h.State().String(),
			Amount:  h.Goal.Amount,
			Speed:   h.Goal.Speed,
			Created: h.Created,
		})
	}
	return infos
}
