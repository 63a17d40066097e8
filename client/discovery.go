package client

import (
	"fmt"
	"time"

	"github.com/hashicorp/mdns"

	"github.com/mbocsi/roverlink/transport"
)

// Discover finds a bridge advertising itself over mDNS and returns its UDP
// address. It waits for the first answer or the timeout.
func Discover(timeout time.Duration) (string, error) {
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	entriesCh := make(chan *mdns.ServiceEntry, 4)
	go func() {
		defer close(entriesCh)
		mdns.Lookup(transport.ServiceName, entriesCh)
	}()

	select {
	case entry := <-entriesCh:
		if entry == nil {
			return "", fmt.Errorf("no %s service found", transport.ServiceName)
		}

		var address string
		if entry.AddrV4 != nil {
			address = entry.AddrV4.String()
		} else if entry.AddrV6 != nil {
			address = fmt.Sprintf("[%s]", entry.AddrV6.String())
		} else {
			return "", fmt.Errorf("no valid address for %s", entry.Name)
		}

		return fmt.Sprintf("%s:%d", address, entry.Port), nil

	case <-time.After(timeout):
		return "", fmt.Errorf("discovery timed out after %v", timeout)
	}
}
