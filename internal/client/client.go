// Package client provides the HTTP client the CLI uses to talk to a running
// sounddrop daemon.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"sounddrop/internal/api"
)

// Client talks to the sounddrop HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New constructs a client for the given base URL, e.g. "http://127.0.0.1:8000".
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// NewForBind derives a client from a server bind address, substituting a
// loopback host for wildcard binds.
func NewForBind(bind string) *Client {
	host, port, err := net.SplitHostPort(strings.TrimSpace(bind))
	if err != nil {
		return New("http://" + bind)
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
	}
	return New("http://" + net.JoinHostPort(host, port))
}

// BaseURL returns the normalized endpoint the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// WithTimeout overrides the request timeout; useful for long downloads.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.http.Timeout = timeout
	return c
}

// Status fetches daemon runtime state.
func (c *Client) Status(ctx context.Context) (*api.DaemonStatus, error) {
	var status api.DaemonStatus
	if err := c.getJSON(ctx, "/api/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// History lists download records, optionally filtered by status.
func (c *Client) History(ctx context.Context, limit int, statuses ...string) ([]api.HistoryItem, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	for _, status := range statuses {
		query.Add("status", status)
	}
	var resp api.HistoryResponse
	if err := c.getJSON(ctx, "/api/history", query, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// Health checks daemon liveness.
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.getJSON(ctx, "/healthz", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Download requests a track download and returns the server's response.
func (c *Client) Download(ctx context.Context, trackURL string) (*api.DownloadResponse, error) {
	body, err := json.Marshal(api.DownloadRequest{URL: trackURL})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/download", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var resp api.DownloadResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Cleanup purges the download directory on the daemon.
func (c *Client) Cleanup(ctx context.Context) (*api.CleanupResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/cleanup", nil)
	if err != nil {
		return nil, err
	}
	var resp api.CleanupResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchFile streams a served file to the writer and returns the byte count.
func (c *Client) FetchFile(ctx context.Context, downloadURL string, out io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+downloadURL, nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("daemon unreachable at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, decodeError(resp)
	}
	return io.Copy(out, resp.Body)
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("daemon unreachable at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var payload api.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		return fmt.Errorf("%s (HTTP %d)", payload.Error, resp.StatusCode)
	}
	return fmt.Errorf("unexpected status %d", resp.StatusCode)
}
