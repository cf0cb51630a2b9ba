// Package httpclient provides the outbound HTTP client used to reach the scoring service.
package httpclient

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"time"

	"github.com/teranos/cleaner/errors"
)

// Options tunes URL validation. The zero value allows http and https,
// follows up to 10 redirects and blocks private networks.
type Options struct {
	AllowedSchemes []string
	MaxRedirects   int
	// AllowPrivate permits loopback and private addresses. The scoring
	// service usually runs next to the CLI, so callers enable this explicitly.
	AllowPrivate bool
}

// Client wraps http.Client with URL validation on every request and redirect.
type Client struct {
	*http.Client
	allowedSchemes []string
	allowPrivate   bool
	maxRedirects   int
}

// New builds a Client with the given timeout.
func New(timeout time.Duration, opts Options) *Client {
	c := &Client{
		Client:         &http.Client{Timeout: timeout},
		allowedSchemes: opts.AllowedSchemes,
		allowPrivate:   opts.AllowPrivate,
		maxRedirects:   opts.MaxRedirects,
	}
	if len(c.allowedSchemes) == 0 {
		c.allowedSchemes = []string{"http", "https"}
	}
	if c.maxRedirects <= 0 {
		c.maxRedirects = 10
	}

	c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= c.maxRedirects {
			return errors.Newf("stopped after %d redirects", c.maxRedirects)
		}
		if err := c.validate(req.URL); err != nil {
			return errors.Wrap(err, "redirect blocked")
		}
		return nil
	}

	if !c.allowPrivate {
		dialer := &net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}
		c.Transport = &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				host, _, err := net.SplitHostPort(addr)
				if err != nil {
					return nil, errors.Wrap(err, "invalid address")
				}
				addrs, err := net.DefaultResolver.LookupNetIP(ctx, "ip", host)
				if err != nil {
					return nil, errors.Wrapf(err, "failed to resolve host %q", host)
				}
				for _, a := range addrs {
					if isPrivate(a) {
						return nil, errors.Newf("private address blocked: %s", a)
					}
				}
				return dialer.DialContext(ctx, network, addr)
			},
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		}
	}
	return c
}

// Wrap adopts an existing http.Client, allowing private addresses.
// Tests use it with httptest servers.
func Wrap(client *http.Client) *Client {
	return &Client{
		Client:         client,
		allowedSchemes: []string{"http", "https"},
		allowPrivate:   true,
		maxRedirects:   10,
	}
}

// ParseBaseURL validates a service base URL and strips any trailing slash.
func (c *Client) ParseBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrap(err, "invalid URL")
	}
	if err := c.validate(u); err != nil {
		return nil, err
	}
	u.Path = strings.TrimRight(u.Path, "/")
	return u, nil
}

func (c *Client) validate(u *url.URL) error {
	scheme := strings.ToLower(u.Scheme)
	allowed := false
	for _, s := range c.allowedSchemes {
		if scheme == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return errors.Newf("scheme %q not allowed (allowed: %v)", scheme, c.allowedSchemes)
	}
	if u.User != nil {
		return errors.New("URL must not carry credentials")
	}
	host := u.Hostname()
	if host == "" {
		return errors.New("URL missing hostname")
	}
	if c.allowPrivate {
		return nil
	}
	if isLocalhost(host) {
		return errors.New("localhost access blocked")
	}
	if a, err := netip.ParseAddr(host); err == nil && isPrivate(a) {
		return errors.Newf("private address blocked: %s", host)
	}
	return nil
}

// Do validates the request URL before sending it.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if err := c.validate(req.URL); err != nil {
		return nil, errors.Wrap(err, "request blocked")
	}
	return c.Client.Do(req)
}

func isPrivate(a netip.Addr) bool {
	a = a.Unmap()
	return a.IsLoopback() ||
		a.IsPrivate() ||
		a.IsLinkLocalUnicast() ||
		a.IsLinkLocalMulticast() ||
		a.IsMulticast() ||
		a.IsUnspecified() ||
		(a.Is4() && a.As4()[0] == 0) ||
		(a.Is4() && a.As4()[0] >= 240)
}

func isLocalhost(host string) bool {
	host = strings.ToLower(host)
	return host == "localhost" ||
		host == "localhost.localdomain" ||
		strings.HasSuffix(host, ".localhost")
}
