// Package netx provides small networking helpers shared by the client.
package netx

import (
	"context"
	"net"
	"net/url"
	"time"
)

// IsReachable reports whether a TCP connection to the host behind baseURL can
// be established within timeout. It is a cheap liveness probe; it says nothing
// about whether the API behind the address is healthy.
func IsReachable(ctx context.Context, baseURL string, timeout time.Duration) bool {
	addr, err := hostPort(baseURL)
	if err != nil {
		return false
	}

	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// hostPort extracts "host:port" from an HTTP base URL, filling in the default
// port for the scheme when the URL does not carry one.
func hostPort(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Hostname() == "" {
		// Bare "host:port" strings are accepted too.
		if h, p, splitErr := net.SplitHostPort(baseURL); splitErr == nil && h != "" {
			return net.JoinHostPort(h, p), nil
		}
		return "", &url.Error{Op: "parse", URL: baseURL, Err: net.InvalidAddrError("missing host")}
	}
	host := u.Hostname()

	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "https":
			port = "443"
		default:
			port = "80"
		}
	}
	return net.JoinHostPort(host, port), nil
}
