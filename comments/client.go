package comments

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
)

// Client talks to a comment service over its HTTP API.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a client for the comment API mounted at
// baseURL + "/api/comments". Every request is bounded by timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		endpoint: strings.TrimSuffix(baseURL, "/") + "/api/comments",
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// StatusError is a non-success answer from the comment service.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("comments: unexpected status %d", e.Code)
}

// List fetches the comments of post in the order the service returns them.
func (c *Client) List(ctx context.Context, post string) ([]Comment, error) {
	u := c.endpoint + "?post=" + url.QueryEscape(post)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get comments: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var records []record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}
	out := make([]Comment, 0, len(records))
	for _, r := range records {
		out = append(out, Comment{
			ID:        r.ID,
			Content:   r.Content,
			Post:      post,
			AuthorID:  r.Author.ID,
			Author:    r.Author,
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}

// Create posts a new comment and returns its id. A rejected payload comes
// back as *ValidationError; any other failure wraps ErrTransport.
func (c *Client) Create(ctx context.Context, n NewComment) (string, error) {
	payload, err := json.Marshal(n)
	if err != nil {
		return "", fmt.Errorf("marshal comment: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity:
		var fields []FieldError
		if err := json.NewDecoder(resp.Body).Decode(&fields); err != nil || len(fields) == 0 {
			return "", fmt.Errorf("%w: unreadable validation response", ErrTransport)
		}
		return "", &ValidationError{Fields: fields}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("%w: status %d", ErrTransport, resp.StatusCode)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil || created.ID == "" {
		return "", fmt.Errorf("%w: unreadable create response", ErrTransport)
	}
	return created.ID, nil
}
