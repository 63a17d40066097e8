// Package motion defines the contracts for the external motion collaborators:
// an action server that executes long-running drive/rotate goals, and a
// velocity publisher for immediate velocity commands. Loopback
// implementations let the bridge run without robot hardware attached.
package motion

import "time"

// Goal is one motion request. Amount is meters for a drive goal and radians
// for a rotate goal; its sign encodes the direction.
type Goal struct {
	Amount float64
	Speed  float64
}

// Result is the completion payload of a finished goal. The bridge treats it
// as opaque; it only cares that the goal finished.
type Result struct {
	Payload any
}

// Ack is the submission acknowledgement for a goal. When Accepted, Result
// eventually yields exactly one completion event; when rejected, Result is
// nil.
type Ack struct {
	Accepted bool
	Result   <-chan Result
}

// ActionClient is one long-running motion action server, e.g. drive-distance
// or rotate-angle. Implementations must allow Submit from multiple
// goroutines, with each returned Ack tracking its own goal independently.
type ActionClient interface {
	// Name identifies the action server in diagnostics and replies.
	Name() string
	// WaitReady blocks until the server is reachable or the timeout
	// elapses, reporting which.
	WaitReady(timeout time.Duration) bool
	// Submit sends a goal and returns its acknowledgement.
	Submit(goal Goal) Ack
}

// VelocityPublisher publishes an instantaneous velocity command.
type VelocityPublisher interface {
	Publish(linearX, angularZ float64)
}
