package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"kazikapp/internal/logging"
)

// Error is a failed API call: either a transport-level failure status or a
// domain rejection code from the {ok:false, error:...} envelope.
type Error struct {
	Status int
	Code   string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api: %s (status %d)", e.Code, e.Status)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

// ErrorCode extracts the domain rejection code from an error, or "" when the
// error is not an API rejection.
func ErrorCode(err error) string {
	if apiErr, ok := err.(*Error); ok {
		return apiErr.Code
	}
	return ""
}

// Client calls the mini-app backend. Every request carries the Telegram init
// data so the server can authenticate the user.
type Client struct {
	BaseURL    string
	InitData   string
	HTTPClient *http.Client
}

// NewClient creates a client for the given backend base URL.
func NewClient(baseURL, initData string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		InitData:   initData,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type envelope struct {
	OK  bool   `json:"ok"`
	Err string `json:"error"`
}

func (c *Client) call(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("X-Init-Data", c.InitData)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 300 {
			return &Error{Status: resp.StatusCode}
		}
		return err
	}
	if !env.OK {
		logging.Debugf("api: %s %s rejected: %s", method, path, env.Err)
		return &Error{Status: resp.StatusCode, Code: env.Err}
	}
	if out != nil {
		return json.Unmarshal(raw, out)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.call(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.call(ctx, http.MethodPost, path, nil, body, out)
}
