package motion

import (
	"log/slog"
	"sync"
	"time"
)

// LoopbackAction simulates a motion action server: every goal is accepted
// and completes after the time the motion would take (amount / speed). It
// stands in for the real actuator transport so the bridge can run and be
// tested without hardware.
type LoopbackAction struct {
	name string
}

func NewLoopbackAction(name string) *LoopbackAction {
	return &LoopbackAction{name: name}
}

func (a *LoopbackAction) Name() string {
	return a.name
}

func (a *LoopbackAction) WaitReady(timeout time.Duration) bool {
	return true
}

func (a *LoopbackAction) Submit(goal Goal) Ack {
	d := goalDuration(goal)
	slog.Info("Simulating motion goal", "action", a.name, "amount", goal.Amount, "speed", goal.Speed, "duration", d)

	ch := make(chan Result, 1)
	go func() {
		time.Sleep(d)
		ch <- Result{Payload: d}
	}()
	return Ack{Accepted: true, Result: ch}
}

func goalDuration(goal Goal) time.Duration {
	if goal.Speed <= 0 {
		return 0
	}
	amount := goal.Amount
	if amount < 0 {
		amount = -amount
	}
	return time.Duration(amount / goal.Speed * float64(time.Second))
}

// LoopbackVelocity logs velocity commands and remembers the last one, for
// the status surface and for tests.
type LoopbackVelocity struct {
	mu       sync.Mutex
	linearX  float64
	angularZ float64
	count    int
}

func NewLoopbackVelocity() *LoopbackVelocity {
	return &LoopbackVelocity{}
}

func (v *LoopbackVelocity) Publish(linearX, angularZ float64) {
	slog.Info("Publishing velocity", "linear_x", linearX, "angular_z", angularZ)
	v.mu.Lock()
	v.linearX = linearX
	v.angularZ = angularZ
	v.count++
	v.mu.Unlock()
}

// Last returns the most recent velocity command and how many have been
// published.
func (v *LoopbackVelocity) Last() (linearX, angularZ float64, count int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.linearX, v.angularZ, v.count
}
