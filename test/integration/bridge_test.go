//go:build integration

package integration

import (
	"strings"
	"testing"
	"time"

	"github.com/mbocsi/roverlink/bridge"
	"github.com/mbocsi/roverlink/client"
	"github.com/mbocsi/roverlink/motion"
	"github.com/mbocsi/roverlink/transport"
)

// startBridge brings up a full bridge on a loopback UDP port and returns
// its address.
func startBridge(t *testing.T) (string, *bridge.Bridge, *motion.LoopbackVelocity, func()) {
	t.Helper()

	vel := motion.NewLoopbackVelocity()
	drive := motion.NewLoopbackAction("/drive_distance")
	rotate := motion.NewLoopbackAction("/rotate_angle")

	b := bridge.NewBridge(vel, drive, rotate, bridge.Options{})

	udp := transport.NewUDPTransport("127.0.0.1:0", 1024)
	b.AttachTransport(udp)

	go func() {
		if err := udp.Start(); err != nil {
			t.Errorf("Transport failed: %v", err)
		}
	}()

	timeout := time.After(2 * time.Second)
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for udp.LocalAddr() == nil {
		select {
		case <-timeout:
			t.Fatal("Transport never bound")
		case <-ticker.C:
		}
	}

	return udp.LocalAddr().String(), b, vel, func() { udp.Shutdown() }
}

func TestVelocityOverUDP(t *testing.T) {
	addr, _, vel, shutdown := startBridge(t)
	defer shutdown()

	s, err := client.Dial(addr, 64, 0)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer s.Close()

	if _, err := s.Send("vel 0.2 -0.3"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	replies := s.Replies(500 * time.Millisecond)
	if len(replies) != 1 || replies[0] != "ok: vel 0.200 -0.300" {
		t.Fatalf("Unexpected replies %v", replies)
	}

	x, z, count := vel.Last()
	if count != 1 || x != 0.2 || z != -0.3 {
		t.Errorf("Expected one publish of (0.2, -0.3), got (%v, %v) after %d", x, z, count)
	}
}

func TestRotateLifecycleOverUDP(t *testing.T) {
	addr, _, _, shutdown := startBridge(t)
	defer shutdown()

	s, err := client.Dial(addr, 64, 0)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer s.Close()

	// Tiny angle at high speed so the simulated motion finishes quickly.
	if _, err := s.Send("rotate counterclockwise 1 speed 1.5"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	replies := s.Replies(2 * time.Second)
	if len(replies) != 2 {
		t.Fatalf("Expected accept and done replies, got %v", replies)
	}
	if replies[0] != "ok: rotate goal accepted" {
		t.Errorf("Expected acceptance first, got %q", replies[0])
	}
	if replies[1] != "ok: rotate done" {
		t.Errorf("Expected completion second, got %q", replies[1])
	}
}

func TestMultiSegmentMessageOverUDP(t *testing.T) {
	addr, b, _, shutdown := startBridge(t)
	defer shutdown()

	// 8-byte segments force the command across several datagrams.
	s, err := client.Dial(addr, 8, 400000)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer s.Close()

	n, err := s.Send("drive forward 0.01 speed 0.5")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if n < 4 {
		t.Fatalf("Expected several segments, got %d", n)
	}

	replies := s.Replies(2 * time.Second)
	if len(replies) != 2 || replies[0] != "ok: drive goal accepted" || replies[1] != "ok: drive done" {
		t.Fatalf("Unexpected replies %v", replies)
	}

	stats := b.Stats()
	if stats.Messages != 1 {
		t.Errorf("Expected 1 reassembled message, got %d", stats.Messages)
	}
	if stats.Datagrams != int64(n) {
		t.Errorf("Expected %d datagrams, got %d", n, stats.Datagrams)
	}
}

func TestParseErrorOverUDP(t *testing.T) {
	addr, _, vel, shutdown := startBridge(t)
	defer shutdown()

	s, err := client.Dial(addr, 64, 0)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer s.Close()

	if _, err := s.Send("dance now"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	replies := s.Replies(500 * time.Millisecond)
	joined := strings.Join(replies, "\n")
	if !strings.Contains(joined, "error: could not parse command") {
		t.Errorf("Expected parse error, got %v", replies)
	}
	if !strings.Contains(joined, "drive forward <meters>") {
		t.Errorf("Expected help text in reply, got %v", replies)
	}

	if _, _, count := vel.Last(); count != 0 {
		t.Errorf("Parse error must not publish velocity, got %d publishes", count)
	}
}
