package client

import (
	"net"
	"testing"
	"time"

	"github.com/mbocsi/roverlink/frame"
)

func TestSenderRoundTrip(t *testing.T) {
	server, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("ListenUDP: %v", err)
	}
	defer server.Close()

	s, err := Dial(server.LocalAddr().String(), 16, 0)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer s.Close()

	n, err := s.Send("vel 0.2 -0.3")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	// "<START>vel 0.2 -0.3<END>" is 24 bytes, two 16-byte segments.
	if n != 2 {
		t.Errorf("Expected 2 segments, got %d", n)
	}

	asm := frame.NewAssembler()
	buf := make([]byte, 64)
	var from *net.UDPAddr
	for {
		server.SetReadDeadline(time.Now().Add(2 * time.Second))
		nr, addr, err := server.ReadFromUDP(buf)
		if err != nil {
			t.Fatalf("ReadFromUDP: %v", err)
		}
		if nr != 16 {
			t.Errorf("Expected 16-byte segment, got %d", nr)
		}
		from = addr
		if msg, res := asm.Push(buf[:nr]); res == frame.Completed {
			if msg != "vel 0.2 -0.3" {
				t.Errorf("Expected %q, got %q", "vel 0.2 -0.3", msg)
			}
			break
		}
	}

	// Reply path.
	if _, err := server.WriteToUDP([]byte("ok: vel 0.200 -0.300\n"), from); err != nil {
		t.Fatalf("WriteToUDP: %v", err)
	}
	replies := s.Replies(500 * time.Millisecond)
	if len(replies) != 1 || replies[0] != "ok: vel 0.200 -0.300" {
		t.Errorf("Unexpected replies %v", replies)
	}
}

func TestDialRejectsBadSegmentSize(t *testing.T) {
	if _, err := Dial("127.0.0.1:10001", 0, 0); err == nil {
		t.Error("Expected error for zero segment size")
	}
}
