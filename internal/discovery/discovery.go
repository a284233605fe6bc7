// Package discovery announces doorwatch on the local network over
// mDNS/DNS-SD, so a companion app can find a unit without the user
// typing in an IP address. Adapted directly from the original TNC's
// KISS-over-TCP announcement, which used the same pure-Go
// github.com/brutella/dnssd package for the same reason: no system
// daemon or C library dependency.
package discovery

import (
	"context"
	"fmt"

	"github.com/brutella/dnssd"

	"github.com/charmbracelet/log"
)

// ServiceType is doorwatch's DNS-SD service type, advertised so
// clients can browse for "_doorwatch._tcp" instead of needing to know
// a hostname.
const ServiceType = "_doorwatch._tcp"

// Announcer advertises doorwatch's presence and status over DNS-SD.
type Announcer struct {
	responder dnssd.Responder
	handle    dnssd.ServiceHandle
	name      string
	port      int
	logger    *log.Logger
}

// Announce registers name.ServiceType on port with the given TXT
// records (e.g. sensitivity mode, firmware version) and starts
// responding to queries in the background until ctx is cancelled.
func Announce(ctx context.Context, name string, port int, txt map[string]string, logger *log.Logger) (*Announcer, error) {
	rp, err := dnssd.NewResponder()
	if err != nil {
		return nil, fmt.Errorf("discovery: create responder: %w", err)
	}

	a := &Announcer{responder: rp, name: name, port: port, logger: logger}

	if err := a.publish(txt); err != nil {
		return nil, err
	}

	logger.Info("dns-sd: announcing", "name", name, "type", ServiceType, "port", port)

	go func() {
		if err := rp.Respond(ctx); err != nil && ctx.Err() == nil {
			logger.Error("dns-sd: responder stopped", "err", err)
		}
	}()

	return a, nil
}

func (a *Announcer) publish(txt map[string]string) error {
	cfg := dnssd.Config{
		Name: a.name,
		Type: ServiceType,
		Port: a.port,
		Text: txt,
	}

	sv, err := dnssd.NewService(cfg)
	if err != nil {
		return fmt.Errorf("discovery: create service: %w", err)
	}

	handle, err := a.responder.Add(sv)
	if err != nil {
		return fmt.Errorf("discovery: add service: %w", err)
	}

	a.handle = handle
	return nil
}

// UpdateText re-publishes the service with txt, e.g. after the
// sensitivity mode button is pressed. DNS-SD has no in-place field
// update, so this removes and re-adds the service record.
func (a *Announcer) UpdateText(txt map[string]string) error {
	a.responder.Remove(a.handle)
	return a.publish(txt)
}
