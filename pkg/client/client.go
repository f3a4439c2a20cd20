// Package client talks to a running ventd daemon over its HTTP API. It is
// used by the CLI subcommands and can be embedded by other supervisors.
package client

import (
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Client is a struct for communicating with the ventd daemon.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the daemon at host (e.g. "192.168.1.50" or
// "http://vent.local"). A bare host gets the http scheme prepended.
func New(host string) *Client {
	base := host
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	base = strings.TrimRight(base, "/")

	return &Client{
		baseURL: base,
		httpClient: &http.Client{
			// The off transition blocks through the damper settle interval
			// before the daemon acknowledges, so leave generous headroom.
			Timeout: 10 * time.Second,
		},
	}
}

// Send sends one request to the daemon and returns the response body.
func (c *Client) Send(method, path, data string) (string, error) {
	logrus.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
		"data":   data,
		"base":   c.baseURL,
	}).Debug("sending request")

	var body io.Reader
	if data != "" {
		body = strings.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return "", pkgerrors.Wrap(err, "failed to create request")
	}
	if data != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isUnreachable(err) {
			return "", ErrDaemonUnreachable
		}
		return "", pkgerrors.Wrap(err, "failed to send request")
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logrus.Errorf("failed to close response body: %v", err)
		}
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", pkgerrors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", pkgerrors.Errorf("got %d: %s", resp.StatusCode, string(b))
	}

	return string(b), nil
}

// isUnreachable reports whether err means the daemon could not be reached at
// all: the name did not resolve or the dial failed (refused, no route, dial
// timeout). A timeout on an already-established connection is not unreachable;
// the off transition legitimately blocks before the daemon responds.
func isUnreachable(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

// Get sends a GET request to the daemon.
func (c *Client) Get(path string) (string, error) {
	return c.Send(http.MethodGet, path, "")
}

// Post sends a POST request to the daemon.
func (c *Client) Post(path, data string) (string, error) {
	return c.Send(http.MethodPost, path, data)
}
