// Package transport provides the datagram listener the bridge receives
// commands on and replies through.
package transport

import "net"

// Datagram is one raw packet together with its origin address, so a reply
// can find its way back to the sender.
type Datagram struct {
	Data []byte
	Addr net.Addr
}

// Transport is a datagram listener. Start blocks running the reception loop
// until Shutdown is called; every received packet is handed to the
// OnDatagram callback. Reply must be safe for concurrent use by multiple
// goroutines.
type Transport interface {
	Start() error
	OnDatagram(func(Datagram))
	Reply(addr net.Addr, text string) error
	Shutdown() error
}
