package network

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeResolver map[string][]string

func (r fakeResolver) LookupIPAddr(_ context.Context, host string) ([]net.IPAddr, error) {
	ips, ok := r[host]
	if !ok {
		return nil, &net.DNSError{Err: "no such host", Name: host, IsNotFound: true}
	}
	addrs := make([]net.IPAddr, 0, len(ips))
	for _, ip := range ips {
		addrs = append(addrs, net.IPAddr{IP: net.ParseIP(ip)})
	}
	return addrs, nil
}

type panicResolver struct{}

func (panicResolver) LookupIPAddr(context.Context, string) ([]net.IPAddr, error) {
	panic("boom")
}

func testResolver() fakeResolver {
	return fakeResolver{
		"example.com":          {"93.184.216.34"},
		"blog.example.org":     {"93.184.216.35", "2606:2800:220:1:248:1893:25c8:1946"},
		"someone.github.io":    {"185.199.108.153"},
		"internal.example.com": {"10.0.0.5"},
		"metadata.example.com": {"169.254.169.254"},
		"loop.example.com":     {"127.0.0.1"},
		"mixed.example.com":    {"93.184.216.34", "192.168.1.10"},
		"mapped.example.com":   {"::ffff:127.0.0.1"},
		"cgnat.example.com":    {"100.64.3.4"},
		"ula.example.com":      {"fd12:3456::1"},
		"myserver.local":       {"93.184.216.34"},
		"app.internal":         {"93.184.216.34"},
	}
}

func TestValidatorCheck(t *testing.T) {
	v := NewValidator(testResolver())

	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "https url", url: "https://example.com/feed.xml", wantErr: false},
		{name: "http url", url: "http://example.com/", wantErr: false},
		{name: "dual stack public host", url: "https://blog.example.org/rss?x=1&y=2", wantErr: false},
		{name: "private suffix host", url: "https://someone.github.io/atom.xml", wantErr: false},
		{name: "ftp scheme rejected", url: "ftp://example.com/feed", wantErr: true},
		{name: "file scheme rejected", url: "file:///etc/passwd", wantErr: true},
		{name: "javascript scheme rejected", url: "javascript:alert(1)", wantErr: true},
		{name: "no host rejected", url: "https:///feed", wantErr: true},
		{name: "single label host rejected", url: "https://localhost:8080/", wantErr: true},
		{name: "local tld rejected", url: "https://myserver.local/api", wantErr: true},
		{name: "internal tld rejected", url: "https://app.internal/api", wantErr: true},
		{name: "ipv4 literal rejected", url: "https://127.0.0.1/path", wantErr: true},
		{name: "public ipv4 literal rejected", url: "https://8.8.8.8/", wantErr: true},
		{name: "ipv6 literal rejected", url: "https://[::1]/", wantErr: true},
		{name: "unresolvable host rejected", url: "https://missing.example.net/", wantErr: true},
		{name: "private address rejected", url: "https://internal.example.com/", wantErr: true},
		{name: "link local metadata rejected", url: "http://metadata.example.com/latest", wantErr: true},
		{name: "loopback rejected", url: "https://loop.example.com/", wantErr: true},
		{name: "any private address rejected", url: "https://mixed.example.com/", wantErr: true},
		{name: "ipv4 mapped loopback rejected", url: "https://mapped.example.com/", wantErr: true},
		{name: "carrier nat rejected", url: "https://cgnat.example.com/", wantErr: true},
		{name: "unique local ipv6 rejected", url: "https://ula.example.com/", wantErr: true},
		{name: "too long rejected", url: "https://example.com/" + strings.Repeat("a", MaxURLLength), wantErr: true},
		{name: "non ascii rejected", url: "https://example.com/café", wantErr: true},
		{name: "pipe rejected", url: "https://example.com/a|b", wantErr: true},
		{name: "not a url", url: "not-a-url", wantErr: true},
		{name: "empty", url: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Check(context.Background(), tt.url)
			if tt.wantErr {
				require.Error(t, err)
				require.True(t, errors.Is(err, ErrUnsafeURL))
				require.False(t, v.IsSafe(context.Background(), tt.url))
				return
			}
			require.NoError(t, err)
			require.True(t, v.IsSafe(context.Background(), tt.url))
		})
	}
}

func TestValidatorMaxLengthBoundary(t *testing.T) {
	v := NewValidator(testResolver())
	prefix := "https://example.com/"

	atLimit := prefix + strings.Repeat("a", MaxURLLength-len(prefix))
	require.Len(t, atLimit, MaxURLLength)
	require.True(t, v.IsSafe(context.Background(), atLimit))

	require.False(t, v.IsSafe(context.Background(), atLimit+"a"))
}

func TestValidatorFailsClosedOnPanic(t *testing.T) {
	v := NewValidator(panicResolver{})

	err := v.Check(context.Background(), "https://example.com/")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnsafeURL)

	var unsafeErr *UnsafeURLError
	require.ErrorAs(t, err, &unsafeErr)
	require.Contains(t, unsafeErr.Reason, "panic")
}

func TestIsPublicIP(t *testing.T) {
	tests := []struct {
		ip       string
		expected bool
	}{
		{"8.8.8.8", true},
		{"1.1.1.1", true},
		{"93.184.216.34", true},
		{"2606:4700:4700::1111", true},
		{"::ffff:8.8.8.8", true},
		{"10.0.0.1", false},
		{"172.16.0.1", false},
		{"172.31.255.255", false},
		{"192.168.1.1", false},
		{"127.0.0.1", false},
		{"169.254.169.254", false},
		{"0.0.0.0", false},
		{"100.64.0.1", false},
		{"192.0.2.10", false},
		{"224.0.0.1", false},
		{"240.0.0.1", false},
		{"255.255.255.255", false},
		{"::1", false},
		{"::", false},
		{"fc00::1", false},
		{"fe80::1", false},
		{"ff02::1", false},
		{"2001:db8::1", false},
		{"::ffff:10.1.2.3", false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			require.Equal(t, tt.expected, IsPublicIP(net.ParseIP(tt.ip)))
		})
	}

	require.False(t, IsPublicIP(nil))
}
