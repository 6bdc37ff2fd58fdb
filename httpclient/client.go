package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client sends Requests with a shared configuration.
type Client struct {
	http *http.Client
	cfg  Config
}

// New validates cfg and creates a client.
func New(cfg Config) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		http: &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
			Timeout:   cfg.Timeout,
		},
		cfg: cfg,
	}, nil
}

// Unwrap returns the underlying *http.Client.
func (c *Client) Unwrap() *http.Client { return c.http }

// Do sends req and reads the full response. A non-2xx response is returned
// together with an *Error so callers can inspect the body.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := c.build(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil || isTimeout(err) {
			return nil, newTransportError(ErrCodeTimeout, err)
		}
		return nil, newTransportError(ErrCodeConnection, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newTransportError(ErrCodeConnection, fmt.Errorf("read response body: %w", err))
	}
	out := &Response{StatusCode: resp.StatusCode, Headers: flatten(resp.Header), Body: body}
	if e := ClassifyStatusCode(resp.StatusCode, body); e != nil {
		return out, e
	}
	return out, nil
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

func (c *Client) build(ctx context.Context, req Request) (*http.Request, error) {
	target := req.Path
	if c.cfg.BaseURL != "" && !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = strings.TrimRight(c.cfg.BaseURL, "/") + "/" + strings.TrimLeft(target, "/")
	}

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, &Error{Code: ErrCodeRequest, Message: "encode body: " + err.Error(), Err: err}
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, &Error{Code: ErrCodeRequest, Message: err.Error(), Err: err}
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}
	if c.cfg.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	for k, v := range c.cfg.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	return httpReq, nil
}

func encodeBody(body any) (io.Reader, string, error) {
	switch v := body.(type) {
	case nil:
		return nil, "", nil
	case *MultipartBody:
		return v.encode()
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), "text/plain", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

func flatten(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}
