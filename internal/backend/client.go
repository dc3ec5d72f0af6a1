// Package backend talks to the exhibition REST service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gallery-engine/internal/gallery"
)

// envelope is the service's response wrapper.
type envelope struct {
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	StatusCode int             `json:"statusCode"`
	ErrorCode  string          `json:"errorCode"`
	Details    json.RawMessage `json:"details,omitempty"`
}

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	ErrorCode  string
	Message    string
}

// ErrNotFound matches an APIError carrying a 404 status.
var ErrNotFound = errors.New("backend: not found")

func (e *APIError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("backend: %d %s: %s", e.StatusCode, e.ErrorCode, e.Message)
	}
	return fmt.Sprintf("backend: %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Client is an exhibition API client.
type Client struct {
	base  *url.URL
	token string
	http  *http.Client
}

// NewClient returns a client for the API rooted at baseURL. token, when set,
// is sent as a bearer token. A nil hc uses a client with a 10 s timeout.
func NewClient(baseURL, token string, hc *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("backend: parse base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend: base url %q is not absolute", baseURL)
	}
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{base: u, token: token, http: hc}, nil
}

// Exhibition fetches an exhibition by id.
func (c *Client) Exhibition(ctx context.Context, id string) (gallery.Exhibition, error) {
	return c.exhibition(ctx, "/exhibition/"+url.PathEscape(id))
}

// ExhibitionByLink fetches a public exhibition by its link name.
func (c *Client) ExhibitionByLink(ctx context.Context, linkName string) (gallery.Exhibition, error) {
	return c.exhibition(ctx, "/exhibition/public/link/"+url.PathEscape(linkName))
}

func (c *Client) exhibition(ctx context.Context, path string) (gallery.Exhibition, error) {
	var out struct {
		Exhibition gallery.Exhibition `json:"exhibition"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return gallery.Exhibition{}, err
	}
	return out.Exhibition, nil
}

// RecordTime adds seconds to the exhibition's total viewing time.
func (c *Client) RecordTime(ctx context.Context, exhibitionID string, seconds float64) error {
	body := struct {
		TotalTime float64 `json:"totalTime"`
	}{seconds}
	return c.do(ctx, http.MethodPatch, "/exhibition/"+url.PathEscape(exhibitionID)+"/analytics", body, nil)
}

// ToggleLike likes or unlikes an artwork for the token's user.
func (c *Client) ToggleLike(ctx context.Context, exhibitionID, artworkID string) error {
	body := struct {
		ArtworkID string `json:"artworkId"`
	}{artworkID}
	return c.do(ctx, http.MethodPost, "/exhibition/"+url.PathEscape(exhibitionID)+"/artwork/like", body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("backend: encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return fmt.Errorf("backend: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, ErrorCode: env.ErrorCode, Message: env.Message}
		if apiErr.Message == "" {
			apiErr.Message = resp.Status
		}
		return apiErr
	}
	if decodeErr != nil && decodeErr != io.EOF {
		return fmt.Errorf("backend: decode %s %s: %w", method, path, decodeErr)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("backend: decode %s %s data: %w", method, path, err)
	}
	return nil
}
