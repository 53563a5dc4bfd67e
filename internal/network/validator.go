package network

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

// MaxURLLength is the longest URL the validator accepts.
const MaxURLLength = 2048

const resolveTimeout = 5 * time.Second

var allowedURLChars = regexp.MustCompile(`^[A-Za-z0-9\-._~:/?#\[\]@!$&'()*+,;=%]+$`)

// reservedNets are non-public ranges that net.IP's predicates do not cover.
var reservedNets = mustParseCIDRs(
	"0.0.0.0/8",       // "this" network
	"100.64.0.0/10",   // carrier-grade NAT
	"192.0.0.0/24",    // IETF protocol assignments
	"192.0.2.0/24",    // TEST-NET-1
	"198.18.0.0/15",   // benchmarking
	"198.51.100.0/24", // TEST-NET-2
	"203.0.113.0/24",  // TEST-NET-3
	"240.0.0.0/4",     // reserved, includes broadcast
	"100::/64",        // discard
	"2001:db8::/32",   // documentation
	"fc00::/7",        // unique local
	"fe80::/10",       // link-local
)

func mustParseCIDRs(cidrs ...string) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(cidrs))
	for _, c := range cidrs {
		_, n, err := net.ParseCIDR(c)
		if err != nil {
			panic("invalid CIDR " + c + ": " + err.Error())
		}
		nets = append(nets, n)
	}
	return nets
}

// Resolver looks up host addresses. *net.Resolver satisfies it.
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// Guard decides whether a URL may be fetched.
type Guard interface {
	Check(ctx context.Context, rawURL string) error
}

// Validator rejects URLs that could reach non-public hosts. It never makes a
// request; the only I/O is DNS resolution.
type Validator struct {
	resolver Resolver
}

func NewValidator(resolver Resolver) *Validator {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	return &Validator{resolver: resolver}
}

// IsSafe reports whether rawURL passes every check.
func (v *Validator) IsSafe(ctx context.Context, rawURL string) bool {
	return v.Check(ctx, rawURL) == nil
}

// Check returns nil for safe URLs and an *UnsafeURLError otherwise. Checks run
// in order and stop at the first failure; any panic fails closed.
func (v *Validator) Check(ctx context.Context, rawURL string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = rejectURL(rawURL, fmt.Sprintf("validator panic: %v", r))
		}
	}()

	parsed, perr := url.Parse(rawURL)
	if perr != nil {
		return rejectURL(rawURL, "malformed url")
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return rejectURL(rawURL, "scheme must be http or https")
	}

	host := strings.TrimSuffix(strings.ToLower(parsed.Hostname()), ".")
	if host == "" || !strings.Contains(host, ".") {
		return rejectURL(rawURL, "host missing or not a domain")
	}
	if !hasPublicSuffix(host) {
		return rejectURL(rawURL, "host has no public suffix")
	}

	lookupCtx, cancel := context.WithTimeout(ctx, resolveTimeout)
	defer cancel()
	addrs, lerr := v.resolver.LookupIPAddr(lookupCtx, host)
	if lerr != nil || len(addrs) == 0 {
		return rejectURL(rawURL, "host does not resolve")
	}
	for _, addr := range addrs {
		if !IsPublicIP(addr.IP) {
			return rejectURL(rawURL, "host resolves to non-public address "+addr.IP.String())
		}
	}

	if len(rawURL) > MaxURLLength {
		return rejectURL(rawURL, fmt.Sprintf("longer than %d characters", MaxURLLength))
	}
	if !allowedURLChars.MatchString(rawURL) {
		return rejectURL(rawURL, "disallowed characters")
	}

	return nil
}

// hasPublicSuffix requires a suffix listed in the public suffix list plus at
// least one label in front of it. IP literals and unlisted TLDs like .local or
// .internal fail. Unlisted TLDs come back from PublicSuffix as a single label
// with icann unset; listed private suffixes (github.io) always contain a dot.
func hasPublicSuffix(host string) bool {
	if net.ParseIP(host) != nil {
		return false
	}
	suffix, icann := publicsuffix.PublicSuffix(host)
	if !icann && !strings.Contains(suffix, ".") {
		return false
	}
	if suffix == host {
		return false
	}
	_, err := publicsuffix.EffectiveTLDPlusOne(host)
	return err == nil
}

// IsPublicIP reports whether ip is globally routable. IPv4-mapped IPv6
// addresses are judged by their IPv4 form.
func IsPublicIP(ip net.IP) bool {
	if ip == nil {
		return false
	}
	if v4 := ip.To4(); v4 != nil {
		ip = v4
	}
	if ip.IsUnspecified() ||
		ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() ||
		ip.IsMulticast() {
		return false
	}
	for _, n := range reservedNets {
		if n.Contains(ip) {
			return false
		}
	}
	return true
}

func rejectURL(rawURL, reason string) error {
	return &UnsafeURLError{URL: rawURL, Reason: reason}
}
