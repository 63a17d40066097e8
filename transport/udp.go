package transport

import (
	"fmt"
	"log/slog"
	"net"
	"sync"
)

// UDPTransport implements Transport over a bound UDP socket. One reception
// loop reads datagrams and hands them to the OnDatagram callback; replies go
// back out the same socket. There are no delivery guarantees on either
// direction.
type UDPTransport struct {
	Addr string

	mu         sync.Mutex
	conn       *net.UDPConn
	running    bool
	onDatagram func(Datagram)

	readSize int
}

// NewUDPTransport returns a transport that will bind addr. readSize bounds
// the largest datagram accepted; anything longer is truncated by the socket.
func NewUDPTransport(addr string, readSize int) *UDPTransport {
	if readSize <= 0 {
		readSize = 4096
	}
	return &UDPTransport{Addr: addr, readSize: readSize}
}

// Start binds the socket and runs the reception loop. A bind failure is
// returned immediately; after a successful bind, Start blocks until
// Shutdown closes the socket.
func (t *UDPTransport) Start() error {
	if t.onDatagram == nil {
		panic("UDPTransport OnDatagram callback is not defined")
	}

	udpAddr, err := net.ResolveUDPAddr("udp", t.Addr)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", t.Addr, err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", t.Addr, err)
	}

	t.mu.Lock()
	t.conn = conn
	t.running = true
	t.mu.Unlock()

	slog.Info("Listening for commands", "addr", conn.LocalAddr().String(), "proto", "udp")

	buf := make([]byte, t.readSize)
	for {
		n, addr, err := conn.ReadFromUDP(buf)
		if err != nil {
			// A receive failure is a shutdown signal, not a crash.
			t.mu.Lock()
			running := t.running
			t.mu.Unlock()
			if running {
				slog.Warn("Receive failed, stopping reception loop", "error", err.Error())
			}
			return nil
		}

		data := make([]byte, n)
		copy(data, buf[:n])
		t.onDatagram(Datagram{Data: data, Addr: addr})
	}
}

// LocalAddr returns the bound address, or nil before Start has bound the
// socket.
func (t *UDPTransport) LocalAddr() net.Addr {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return nil
	}
	return t.conn.LocalAddr()
}

// Reply sends text, newline-terminated, back to addr. Safe for concurrent
// use; WriteToUDP is atomic per datagram.
func (t *UDPTransport) Reply(addr net.Addr, text string) error {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("transport not started")
	}
	udpAddr, ok := addr.(*net.UDPAddr)
	if !ok {
		return fmt.Errorf("reply target %v is not a UDP address", addr)
	}
	_, err := conn.WriteToUDP([]byte(text+"\n"), udpAddr)
	return err
}

func (t *UDPTransport) OnDatagram(fn func(Datagram)) {
	t.onDatagram = fn
}

// Shutdown closes the socket, unblocking the reception loop.
func (t *UDPTransport) Shutdown() error {
	slog.Debug("Shutting down udp transport", "addr", t.Addr)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	if t.conn != nil {
		return t.conn.Close()
	}
	return nil
}
