// Package security validates caller-supplied URLs before they are fetched or forwarded.
package security

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// URLValidator checks that references handed to us point at plain web resources.
type URLValidator struct {
	maxLength  int
	schemes    map[string]bool
	publicOnly bool
	lookupIP   func(host string) ([]net.IP, error)
}

// NewURLValidator creates a validator accepting http and https URLs up to 2048 bytes.
func NewURLValidator() *URLValidator {
	return &URLValidator{
		maxLength: 2048,
		schemes:   map[string]bool{"http": true, "https": true},
		lookupIP:  net.LookupIP,
	}
}

// NewPublicURLValidator is NewURLValidator that also resolves the host and
// rejects URLs reaching loopback, private, link-local or unspecified addresses.
func NewPublicURLValidator() *URLValidator {
	v := NewURLValidator()
	v.publicOnly = true
	return v
}

// Validate parses raw and rejects empty, oversized, relative or non-web URLs.
func (v *URLValidator) Validate(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty url")
	}
	if len(raw) > v.maxLength {
		return nil, fmt.Errorf("url exceeds %d bytes", v.maxLength)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	if !v.schemes[strings.ToLower(u.Scheme)] {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("url has no host")
	}
	if v.publicOnly {
		if err := v.checkPublicHost(u.Hostname()); err != nil {
			return nil, err
		}
	}
	return u, nil
}

func (v *URLValidator) checkPublicHost(host string) error {
	ips := []net.IP{net.ParseIP(host)}
	if ips[0] == nil {
		var err error
		if ips, err = v.lookupIP(host); err != nil {
			return fmt.Errorf("cannot resolve %s: %w", host, err)
		}
		if len(ips) == 0 {
			return fmt.Errorf("cannot resolve %s", host)
		}
	}
	for _, ip := range ips {
		if !IsPublicIP(ip) {
			return fmt.Errorf("host %s resolves to non-public address %s", host, ip)
		}
	}
	return nil
}

// IsPublicIP reports whether ip is routable on the public internet as far as
// the proxy is concerned.
func IsPublicIP(ip net.IP) bool {
	if ip == nil {
		return false
	}
	return !(ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() || ip.IsMulticast())
}

// IsValid reports whether raw passes Validate.
func (v *URLValidator) IsValid(raw string) bool {
	_, err := v.Validate(raw)
	return err == nil
}

// MaskURL drops query and fragment so references can be logged safely.
func (v *URLValidator) MaskURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "[invalid]"
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.User = nil
	return u.String()
}
