// Package jsonbin implements store.Client against a JSONBin-style HTTP
// record: GET {base}/{bin}/latest returns {"record": ...} and PUT {base}/{bin}
// overwrites the record with the request body.
package jsonbin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/playperu/secretdraw/internal/store"
)

const (
	DefaultBaseURL = "https://api.jsonbin.io/v3/b"
	keyHeader      = "X-Master-Key"

	// DefaultMaxResponseBytes caps how much of a response body is read.
	DefaultMaxResponseBytes = 8 << 20
)

var ErrMissingConfig = errors.New("jsonbin: bin id and api key are required")

type Client struct {
	baseURL string
	binID   string
	apiKey  string
	maxBody int64
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithMaxResponseBytes overrides DefaultMaxResponseBytes.
func WithMaxResponseBytes(n int64) Option {
	return func(c *Client) { c.maxBody = n }
}

// WithBaseURL points the client at another JSONBin-compatible service.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func New(binID, apiKey string, timeout time.Duration, opts ...Option) (*Client, error) {
	if binID == "" || apiKey == "" {
		return nil, ErrMissingConfig
	}
	c := &Client{
		baseURL: DefaultBaseURL,
		binID:   binID,
		apiKey:  apiKey,
		maxBody: DefaultMaxResponseBytes,
		http:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type latestResponse struct {
	Record json.RawMessage `json:"record"`
}

func (c *Client) FetchCollection(ctx context.Context) (store.Collection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.binURL()+"/latest", nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var resp latestResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", store.ErrUnavailable, err)
	}
	coll, err := store.Decode(resp.Record)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding record: %v", store.ErrUnavailable, err)
	}
	return coll, nil
}

func (c *Client) ReplaceCollection(ctx context.Context, coll store.Collection) error {
	if coll == nil {
		coll = store.Collection{}
	}
	data, err := json.Marshal(coll)
	if err != nil {
		return fmt.Errorf("encoding collection: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.binURL(), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	_, err = c.do(req)
	return err
}

// Check fetches the record; it lets the client serve as a health checker.
func (c *Client) Check(ctx context.Context) error {
	_, err := c.FetchCollection(ctx)
	return err
}

func (c *Client) binURL() string {
	return c.baseURL + "/" + c.binID
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(keyHeader, c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", store.ErrUnavailable, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", store.ErrUnavailable, err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("%w: %s %s: response exceeds %d bytes", store.ErrUnavailable, req.Method, req.URL.Path, c.maxBody)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s %s: status %d", store.ErrAuth, req.Method, req.URL.Path, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: %s %s: status %d", store.ErrUnavailable, req.Method, req.URL.Path, resp.StatusCode)
	}
	return body, nil
}
