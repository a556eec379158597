// Package client talks to the catalog HTTP API and keeps a per-session
// replica of the listing in step with successful mutations.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"site-catalog/internal/domain"
)

// APIError is a non-2xx answer from the catalog API.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%d: %s", e.Status, e.Message)
	}
	parts := make([]string, 0, len(e.Fields))
	for k, v := range e.Fields {
		parts = append(parts, k+": "+v)
	}
	return fmt.Sprintf("%d: %s (%s)", e.Status, e.Message, strings.Join(parts, "; "))
}

// Is lets callers match API failures against the domain sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case domain.ErrNotFound:
		return e.Status == http.StatusNotFound
	case domain.ErrConflict:
		return e.Status == http.StatusConflict
	case domain.ErrValidation:
		return e.Status == http.StatusUnprocessableEntity
	case domain.ErrDuplicateName:
		return e.Status == http.StatusUnprocessableEntity && e.Fields["name"] == domain.MsgNameTaken
	case domain.ErrInvalidReference:
		return e.Status == http.StatusUnprocessableEntity && e.Fields["category_id"] == domain.MsgInvalidCategory
	}
	return false
}

// SiteInput is the body of site create and update calls.
type SiteInput struct {
	Name       string `json:"name"`
	URL        string `json:"url"`
	CategoryID int64  `json:"category_id"`
}

// Client is a typed catalog API client.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

type Option func(*Client)

// WithToken sends a bearer token on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Listing(ctx context.Context) (*domain.Catalog, error) {
	var out domain.Catalog
	if err := c.do(ctx, http.MethodGet, "/catalog", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCategory(ctx context.Context, name string) (int64, error) {
	var out createdResponse
	if err := c.do(ctx, http.MethodPost, "/category", map[string]string{"name": name}, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id int64, name string) error {
	return c.do(ctx, http.MethodPut, categoryPath(id), map[string]string{"name": name}, nil)
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, categoryPath(id), nil, nil)
}

func (c *Client) CreateSite(ctx context.Context, in SiteInput) (int64, error) {
	var out createdResponse
	if err := c.do(ctx, http.MethodPost, "/site", in, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

func (c *Client) UpdateSite(ctx context.Context, id int64, in SiteInput) error {
	return c.do(ctx, http.MethodPut, sitePath(id), in, nil)
}

func (c *Client) DeleteSite(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, sitePath(id), nil, nil)
}

type createdResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

type errorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

func categoryPath(id int64) string { return "/category/" + strconv.FormatInt(id, 10) }
func sitePath(id int64) string     { return "/site/" + strconv.FormatInt(id, 10) }

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var er errorResponse
		if json.Unmarshal(raw, &er) == nil {
			if er.Message != "" {
				apiErr.Message = er.Message
			}
			apiErr.Fields = er.Errors
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
