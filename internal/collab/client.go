package collab

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
)

// Response is a completed HTTP exchange. Non-2xx statuses are not errors at
// this level; callers decide what a status means.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// DecodeJSON decodes the body into v, keeping numbers as json.Number so
// they can be echoed back exactly as the service sent them.
func (r *Response) DecodeJSON(v any) error {
	dec := json.NewDecoder(bytes.NewReader(r.Body))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: decoding json: %v", ErrBadResponse, err)
	}
	return nil
}

// Client performs GET requests against collaborators.
type Client interface {
	Get(ctx context.Context, kind CallKind, rawURL string) (*Response, error)
}

// httpClient implements Client with net/http, one timeout per call.
type httpClient struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewHTTPClient creates a Client. A nil observer discards events.
func NewHTTPClient(cfg Config, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &httpClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout: cfg.CallTimeout(""),
				}).DialContext,
			},
		},
		observer: observer,
	}
}

func (c *httpClient) Get(ctx context.Context, kind CallKind, rawURL string) (*Response, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout(kind))
	defer cancel()

	resp, err := c.do(ctx, rawURL)

	event := CallEvent{
		Kind:      kind,
		Host:      hostOf(rawURL),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil && resp.OK(),
	}
	if resp != nil {
		event.StatusCode = resp.StatusCode
	}

	if err != nil {
		switch {
		case ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded):
			err = fmt.Errorf("%w: %s", ErrTimeout, kind)
		case isConnectionError(err):
			err = fmt.Errorf("%w: %s: %v", ErrUnavailable, kind, err)
		default:
			err = fmt.Errorf("%s request: %w", kind, err)
		}
		event.ErrorCode = errorCode(err)
	} else if !resp.OK() {
		event.ErrorCode = "STATUS"
	}
	c.observer.OnCallComplete(event)

	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *httpClient) do(ctx context.Context, rawURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	limit := c.cfg.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultConfig().MaxBodyBytes
	}
	body, err := io.ReadAll(io.LimitReader(httpResp.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return &Response{StatusCode: httpResp.StatusCode, Body: body}, nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrBadResponse):
		return "BAD_RESPONSE"
	default:
		return "UNKNOWN"
	}
}
