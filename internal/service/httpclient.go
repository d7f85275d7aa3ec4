package service

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// ErrTLSUnavailable marks failures to assemble the TLS side of the transport
// (unreadable CA bundle, broken system cert pool). Requests cannot be made at
// all in that case, as opposed to a certificate failing verification.
var ErrTLSUnavailable = errors.New("TLS support unavailable")

// ProxyConnectError wraps a failure to reach or speak to the configured proxy.
type ProxyConnectError struct {
	Proxy string
	Err   error
}

func (e *ProxyConnectError) Error() string {
	if e.Proxy != "" {
		return fmt.Sprintf("proxy connection to %s failed: %v", e.Proxy, e.Err)
	}
	return fmt.Sprintf("proxy connection failed: %v", e.Err)
}

func (e *ProxyConnectError) Unwrap() error { return e.Err }

// SchemeError wraps a request that failed because the transport does not
// understand a URL or proxy scheme.
type SchemeError struct {
	Err error
}

func (e *SchemeError) Error() string { return e.Err.Error() }

func (e *SchemeError) Unwrap() error { return e.Err }

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Settings carries the caller-supplied transport knobs. Warning suppression
// for ssl_verify=false is a consequence of this value, not a global toggle.
type Settings struct {
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	Proxy          string // proxy URL; empty means honor the process environment
	SSLVerify      bool
	CABundle       string // extra PEM bundle appended to the system roots
}

type DefaultHTTPClient struct {
	*http.Client
	proxy string
}

// NewHTTPClient builds a client for a single synchronous GET. A failure to
// assemble the TLS configuration wraps ErrTLSUnavailable.
func NewHTTPClient(s Settings) (*DefaultHTTPClient, error) {
	tlsCfg, err := buildTLSConfig(s)
	if err != nil {
		return nil, err
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		TLSClientConfig:     tlsCfg,
		TLSHandshakeTimeout: s.ConnectTimeout,
	}
	if s.Proxy != "" {
		proxyURL, err := url.Parse(s.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", s.Proxy, err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	timeout := s.ConnectTimeout + s.ReadTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &DefaultHTTPClient{
		Client: &http.Client{Timeout: timeout, Transport: transport},
		proxy:  s.Proxy,
	}, nil
}

// NewDefaultHTTPClient builds a client with environment proxy settings and
// standard certificate verification. Without a CA bundle the TLS setup cannot
// fail, so no error is returned.
func NewDefaultHTTPClient(timeout time.Duration) *DefaultHTTPClient {
	c, _ := NewHTTPClient(Settings{
		ConnectTimeout: timeout / 2,
		ReadTimeout:    timeout / 2,
		SSLVerify:      true,
	})
	return c
}

// Do performs the request and classifies transport failures so callers can
// tell proxy, scheme and TLS problems apart without string matching.
func (c *DefaultHTTPClient) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, c.classify(err)
	}
	return resp, nil
}

func (c *DefaultHTTPClient) classify(err error) error {
	msg := err.Error()
	switch {
	// net/http prefixes proxy dial failures with "proxyconnect"
	case strings.Contains(msg, "proxyconnect"):
		return &ProxyConnectError{Proxy: c.proxy, Err: err}
	case strings.Contains(msg, "unsupported protocol scheme"),
		strings.Contains(msg, "proxy scheme"):
		return &SchemeError{Err: err}
	}
	return err
}

func buildTLSConfig(s Settings) (*tls.Config, error) {
	cfg := &tls.Config{
		InsecureSkipVerify: !s.SSLVerify, //nolint:gosec // explicit ssl_verify=false opt-out
	}

	if s.CABundle == "" {
		return cfg, nil
	}

	pool, err := x509.SystemCertPool()
	if err != nil {
		return nil, fmt.Errorf("%w: system cert pool: %w", ErrTLSUnavailable, err)
	}
	pem, err := os.ReadFile(s.CABundle)
	if err != nil {
		return nil, fmt.Errorf("%w: read CA bundle %s: %w", ErrTLSUnavailable, s.CABundle, err)
	}
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("%w: no certificates found in %s", ErrTLSUnavailable, s.CABundle)
	}
	cfg.RootCAs = pool
	return cfg, nil
}
