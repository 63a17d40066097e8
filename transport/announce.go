package transport

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/hashicorp/mdns"
)

// ServiceName is the mDNS service type senders look up to find a bridge.
const ServiceName = "_roverlink._udp"

// Announcer advertises the bridge's UDP endpoint over mDNS so sender tools
// can discover it without configuration.
type Announcer struct {
	server *mdns.Server
}

// NewAnnouncer starts advertising the given UDP port under ServiceName.
func NewAnnouncer(instance string, port int) (*Announcer, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("hostname: %w", err)
	}

	service, err := mdns.NewMDNSService(instance, ServiceName, "", "", port, nil,
		[]string{"rover teleop bridge"})
	if err != nil {
		return nil, fmt.Errorf("mdns service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("mdns server: %w", err)
	}

	slog.Info("Advertising bridge over mDNS", "service", ServiceName, "host", host, "port", port)
	return &Announcer{server: server}, nil
}

func (a *Announcer) Shutdown() error {
	return a.server.Shutdown()
}
