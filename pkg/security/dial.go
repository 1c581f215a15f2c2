package security

import (
	"fmt"
	"net"
	"syscall"
)

// PublicDialControl is a net.Dialer Control hook refusing connections to
// non-public addresses. It runs after DNS resolution, on every dial,
// redirects included.
func PublicDialControl(network, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return fmt.Errorf("invalid dial address %q: %w", address, err)
	}
	if ip := net.ParseIP(host); !IsPublicIP(ip) {
		return fmt.Errorf("refusing to dial non-public address %s", address)
	}
	return nil
}
