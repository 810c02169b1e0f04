package pulumi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulumi-connector/pkg/domain/types"
	"github.com/secmon-lab/pulumi-connector/pkg/utils/safe"
)

const (
	defaultBaseURL        = "https://api.pulumi.com"
	defaultConnectTimeout = 10 * time.Second
	defaultRequestTimeout = 30 * time.Second

	// The API version the connector speaks, sent on every request.
	acceptHeader = "application/vnd.pulumi+4"
)

// Client implements interfaces.Client against the Pulumi Cloud REST API.
// It is stateless between calls apart from the shared transport handle, so
// concurrent invocations need no coordination.
type Client struct {
	organization string
	token        func() string
	baseURL      string
	httpClient   *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient replaces the transport, e.g. to add a proxy.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeouts sets the connect and request timeouts of the default
// transport. It has no effect when WithHTTPClient is also given.
func WithTimeouts(connect, request time.Duration) Option {
	return func(c *Client) {
		c.httpClient = newHTTPClient(connect, request, nil)
	}
}

// WithProxy routes all requests through an HTTP proxy with the given
// timeouts. It has no effect when WithHTTPClient is also given.
func WithProxy(proxyURL *url.URL, connect, request time.Duration) Option {
	return func(c *Client) {
		c.httpClient = newHTTPClient(connect, request, proxyURL)
	}
}

func newHTTPClient(connect, request time.Duration, proxy *url.URL) *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: connect,
		}).DialContext,
	}
	if proxy != nil {
		transport.Proxy = http.ProxyURL(proxy)
	}
	return &http.Client{
		Transport: transport,
		Timeout:   request,
	}
}

// New creates a Client for the given organization. The token is read through
// an accessor on every request so that rotated credentials take effect
// without rebuilding the client.
func New(organization string, token func() string, options ...Option) (*Client, error) {
	if organization == "" {
		return nil, goerr.New("organization is required", goerr.T(types.ErrTagInvalidInput))
	}
	if token == nil {
		return nil, goerr.New("access token is required", goerr.T(types.ErrTagInvalidInput))
	}

	client := &Client{
		organization: organization,
		token:        token,
		baseURL:      defaultBaseURL,
		httpClient:   newHTTPClient(defaultConnectTimeout, defaultRequestTimeout, nil),
	}
	for _, opt := range options {
		opt(client)
	}

	return client, nil
}

// apiURL is the base path of the organization API.
func (x *Client) apiURL(path string, args ...any) string {
	return x.baseURL + "/api/orgs/" + x.organization + fmt.Sprintf(path, args...)
}

// consoleURL is the base path of the console API serving invitations.
func (x *Client) consoleURL(path string, args ...any) string {
	return x.baseURL + "/api/console/orgs/" + x.organization + fmt.Sprintf(path, args...)
}

// selfURL is the authenticated-user endpoint used by Test.
func (x *Client) selfURL() string {
	return x.baseURL + "/api/user"
}

// Test verifies that the configured token can reach the API.
func (x *Client) Test(ctx context.Context) error {
	resp, err := x.get(ctx, x.selfURL())
	if err != nil {
		return err
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return goerr.New("unexpected authentication response",
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(body)),
			goerr.T(types.ErrTagAuthFailed))
	}

	return nil
}

func (x *Client) get(ctx context.Context, url string) (*http.Response, error) {
	return x.do(ctx, http.MethodGet, url, nil)
}

func (x *Client) post(ctx context.Context, url string, body any) (*http.Response, error) {
	return x.do(ctx, http.MethodPost, url, body)
}

func (x *Client) patch(ctx context.Context, url string, body any) (*http.Response, error) {
	return x.do(ctx, http.MethodPatch, url, body)
}

func (x *Client) delete(ctx context.Context, url string) (*http.Response, error) {
	return x.do(ctx, http.MethodDelete, url, nil)
}

// do performs one HTTP exchange. A transient transport failure (dial error,
// reset, timeout before any response) is retried once; once a response has
// been received no retry happens, so non-idempotent verbs never run twice
// against a server that already processed them. 401 and 5xx responses are
// classified here because no caller interprets them differently; everything
// else is returned raw for the caller to map by status code.
func (x *Client) do(ctx context.Context, method, url string, body any) (*http.Response, error) {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, goerr.Wrap(err, "failed to encode request body",
				goerr.V("url", url), goerr.T(types.ErrTagTransport))
		}
	}

	const maxAttempts = 2
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to build request",
				goerr.V("method", method), goerr.V("url", url), goerr.T(types.ErrTagTransport))
		}

		req.Header.Set("Authorization", "token "+x.token())
		req.Header.Set("Accept", acceptHeader)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json; charset=UTF-8")
		}

		resp, err := x.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, goerr.Wrap(err, "request canceled",
					goerr.V("method", method), goerr.V("url", url), goerr.T(types.ErrTagTransport))
			}
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusUnauthorized {
			safe.Close(ctx, resp.Body)
			return nil, goerr.New("cannot authenticate to the pulumi REST API",
				goerr.V("method", method), goerr.V("url", url), goerr.T(types.ErrTagAuthFailed))
		}

		if resp.StatusCode >= 500 && resp.StatusCode <= 599 {
			msg, _ := io.ReadAll(resp.Body)
			safe.Close(ctx, resp.Body)
			return nil, goerr.New("pulumi server error",
				goerr.V("method", method), goerr.V("url", url),
				goerr.V("status", resp.StatusCode), goerr.V("body", string(msg)),
				goerr.T(types.ErrTagRemoteServer))
		}

		return resp, nil
	}

	return nil, goerr.Wrap(lastErr, "failed to call pulumi REST API",
		goerr.V("method", method), goerr.V("url", url),
		goerr.V("attempts", maxAttempts), goerr.T(types.ErrTagTransport))
}

// readBody drains the response for diagnostics. Decode failures degrade to a
// placeholder because the body only feeds error messages.
func readBody(resp *http.Response) string {
	if resp.Body == nil {
		return ""
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "<failed_to_read_response>"
	}
	return string(body)
}

func decodeBody(resp *http.Response, v any) error {
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return goerr.Wrap(err, "failed to decode response body",
			goerr.V("status", resp.StatusCode), goerr.T(types.ErrTagTransport))
	}
	return nil
}
