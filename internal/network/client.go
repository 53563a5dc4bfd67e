package network

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"golang.org/x/net/proxy"
)

const maxRedirects = 10

// ClientFactory creates HTTP clients whose connections can only reach public
// addresses, or go through the configured outbound proxy.
type ClientFactory struct {
	proxyURL       string
	testHTTPClient *http.Client // For testing only
}

// NewClientFactory creates a factory. proxyURL may be empty, http(s):// or socks5://.
func NewClientFactory(proxyURL string) *ClientFactory {
	return &ClientFactory{proxyURL: strings.TrimSpace(proxyURL)}
}

// NewClientFactoryForTest creates a client factory that hands out the given client.
// The dial-time address check is bypassed, so tests can target httptest servers.
func NewClientFactoryForTest(client *http.Client) *ClientFactory {
	return &ClientFactory{testHTTPClient: client}
}

// NewHTTPClient returns a client with the given timeout. checkRedirect, when
// non-nil, runs for every redirect hop after the hop limit check.
func (f *ClientFactory) NewHTTPClient(timeout time.Duration, checkRedirect func(*http.Request) error) *http.Client {
	redirectPolicy := func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return http.ErrUseLastResponse
		}
		if checkRedirect != nil {
			return checkRedirect(req)
		}
		return nil
	}

	if f.testHTTPClient != nil {
		client := *f.testHTTPClient
		client.Timeout = timeout
		client.CheckRedirect = redirectPolicy
		return &client
	}

	var transport *http.Transport
	if f.proxyURL != "" {
		transport = newTransportWithProxy(f.proxyURL)
	} else {
		transport = newSafeTransport()
	}

	return &http.Client{
		Timeout:       timeout,
		Transport:     transport,
		CheckRedirect: redirectPolicy,
	}
}

// newSafeTransport refuses to connect to non-public addresses. The check runs on
// the resolved address at connect time, which covers DNS answers that changed
// after validation.
func newSafeTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
		Control: func(network, address string, _ syscall.RawConn) error {
			host, _, err := net.SplitHostPort(address)
			if err != nil {
				return rejectURL(address, "unparseable dial address")
			}
			if !IsPublicIP(net.ParseIP(host)) {
				return rejectURL(address, "dial to non-public address")
			}
			return nil
		},
	}
	return &http.Transport{
		DialContext:           dialer.DialContext,
		TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
		MaxIdleConns:          50,
		IdleConnTimeout:       90 * time.Second,
		ForceAttemptHTTP2:     true,
	}
}

// newTransportWithProxy creates an http.Transport with proxy support.
// SOCKS proxies go through golang.org/x/net/proxy, HTTP proxies through http.ProxyURL.
func newTransportWithProxy(proxyURL string) *http.Transport {
	base := &http.Transport{
		TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
		TLSHandshakeTimeout: 10 * time.Second,
	}

	parsed, err := url.Parse(proxyURL)
	if err != nil {
		return newSafeTransport()
	}

	if strings.HasPrefix(parsed.Scheme, "socks") {
		var auth *proxy.Auth
		if parsed.User != nil {
			auth = &proxy.Auth{User: parsed.User.Username()}
			if password, ok := parsed.User.Password(); ok {
				auth.Password = password
			}
		}

		dialer, err := proxy.SOCKS5("tcp", parsed.Host, auth, proxy.Direct)
		if err != nil {
			return newSafeTransport()
		}

		if cd, ok := dialer.(proxy.ContextDialer); ok {
			base.DialContext = cd.DialContext
		} else {
			base.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			}
		}
		return base
	}

	base.Proxy = http.ProxyURL(parsed)
	return base
}
