package security

import (
	"errors"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURLValidator(t *testing.T) {
	v := NewURLValidator()

	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"https", "https://cdn.example.com/a.jpg", true},
		{"http with query", "http://example.com/a.jpg?x=1", true},
		{"empty", "   ", false},
		{"relative", "/api/proxy", false},
		{"file scheme", "file:///etc/passwd", false},
		{"javascript", "javascript:alert(1)", false},
		{"too long", "https://example.com/" + strings.Repeat("a", 3000), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, v.IsValid(tt.input))
		})
	}
}

func TestMaskURL(t *testing.T) {
	v := NewURLValidator()
	assert.Equal(t, "https://example.com/watch", v.MaskURL("https://user:pw@example.com/watch?token=abc#t"))
	assert.Equal(t, "[invalid]", v.MaskURL("not a url"))
}

func TestIsPublicIP(t *testing.T) {
	tests := []struct {
		ip     string
		public bool
	}{
		{"93.184.216.34", true},
		{"2606:2800:220:1::1", true},
		{"127.0.0.1", false},
		{"::1", false},
		{"10.1.2.3", false},
		{"172.16.0.1", false},
		{"192.168.1.1", false},
		{"169.254.169.254", false},
		{"fe80::1", false},
		{"fd00::1", false},
		{"0.0.0.0", false},
		{"::", false},
		{"224.0.0.1", false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			assert.Equal(t, tt.public, IsPublicIP(net.ParseIP(tt.ip)))
		})
	}
	assert.False(t, IsPublicIP(nil))
}

func TestPublicURLValidator(t *testing.T) {
	v := NewPublicURLValidator()
	v.lookupIP = func(host string) ([]net.IP, error) {
		switch host {
		case "cdn.example.com":
			return []net.IP{net.ParseIP("93.184.216.34")}, nil
		case "rebind.example.com":
			return []net.IP{net.ParseIP("93.184.216.34"), net.ParseIP("127.0.0.1")}, nil
		case "localhost":
			return []net.IP{net.ParseIP("127.0.0.1")}, nil
		}
		return nil, errors.New("no such host")
	}

	assert.True(t, v.IsValid("https://cdn.example.com/a.jpg"))
	assert.True(t, v.IsValid("http://93.184.216.34/a.jpg"))

	for _, raw := range []string{
		"http://127.0.0.1/admin",
		"http://localhost:8080/",
		"http://10.0.0.5/a.jpg",
		"http://[::1]/a.jpg",
		"http://169.254.169.254/latest/meta-data/",
		"http://0.0.0.0/",
		"https://rebind.example.com/a.jpg",
		"https://unknown.example.com/a.jpg",
	} {
		assert.False(t, v.IsValid(raw), raw)
	}
}

func TestPublicDialControl(t *testing.T) {
	assert.NoError(t, PublicDialControl("tcp", "93.184.216.34:443", nil))
	assert.Error(t, PublicDialControl("tcp", "127.0.0.1:80", nil))
	assert.Error(t, PublicDialControl("tcp6", "[::1]:80", nil))
	assert.Error(t, PublicDialControl("tcp", "192.168.0.10:8080", nil))
	assert.Error(t, PublicDialControl("tcp", "garbage", nil))
}
