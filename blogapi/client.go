// Package blogapi is a typed client for the travel backend's blog REST API.
// All responses use the backend's {success, data, message} envelope; failed
// calls surface the backend message as an *APIError.
package blogapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const requestTimeout = 30 * time.Second

// CredentialProvider supplies the bearer token attached to API requests.
// Injecting it (instead of reading process-wide storage on every call)
// lets tests and tools supply fake credentials.
type CredentialProvider interface {
	Token() string
}

// StaticCredentials is a CredentialProvider with a fixed token.
// The empty string means unauthenticated.
type StaticCredentials string

// Token returns the fixed token.
func (s StaticCredentials) Token() string { return string(s) }

// APIError is a failed backend call: either a transport-level failure or a
// {success:false} envelope. Message carries the backend's user-facing text.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend request failed with status %d", e.StatusCode)
}

// IsNotFound reports whether err is a 404-shaped backend error.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client calls the travel backend's blog endpoints under baseURL + /api.
type Client struct {
	baseURL string
	http    *http.Client
	creds   CredentialProvider
}

// NewClient creates a Client for the backend at baseURL. creds may be nil
// for a purely public (unauthenticated) client.
func NewClient(baseURL string, creds CredentialProvider) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		creds: creds,
	}
}

// ListParams are the query parameters of the published listing endpoint.
type ListParams struct {
	Page      int
	Limit     int
	Category  string
	Tags      []string // joined with commas on the wire
	Search    string
	SortBy    string
	SortOrder string
}

func (p ListParams) values() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Category != "" {
		q.Set("category", p.Category)
	}
	if len(p.Tags) > 0 {
		q.Set("tags", strings.Join(p.Tags, ","))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.SortBy != "" {
		q.Set("sortBy", p.SortBy)
	}
	if p.SortOrder != "" {
		q.Set("sortOrder", p.SortOrder)
	}
	return q
}

// ListPublished returns one page of published posts, filtered and sorted
// per params.
func (c *Client) ListPublished(ctx context.Context, params ListParams) (ListResult, error) {
	var out ListResult
	err := c.get(ctx, "/blogs/public", params.values(), &out)
	return out, err
}

// SearchPublished runs a full-text search over published posts. It hits the
// same listing endpoint but is a distinct operation so browse and search
// can load and fail independently.
func (c *Client) SearchPublished(ctx context.Context, query string, params ListParams) (ListResult, error) {
	params.Search = query
	var out ListResult
	err := c.get(ctx, "/blogs/public", params.values(), &out)
	return out, err
}

// GetBySlug returns a single published post by its public slug.
func (c *Client) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	var out Post
	if err := c.get(ctx, "/blogs/public/"+url.PathEscape(slug), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Related returns up to limit posts related to the post with the given
// internal ID.
func (c *Client) Related(ctx context.Context, id string, limit int) ([]Post, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out []Post
	if err := c.get(ctx, "/blogs/public/"+url.PathEscape(id)+"/related", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Like increments the like counter of a post and returns the new count.
func (c *Client) Like(ctx context.Context, id string) (int, error) {
	var out struct {
		Likes int `json:"likes"`
	}
	if err := c.do(ctx, http.MethodPost, "/blogs/public/"+url.PathEscape(id)+"/like", nil, nil, &out); err != nil {
		return 0, err
	}
	return out.Likes, nil
}

// Categories returns the server-computed category aggregates.
func (c *Client) Categories(ctx context.Context) ([]CategoryCount, error) {
	var out []CategoryCount
	if err := c.get(ctx, "/blogs/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PopularTags returns up to limit server-computed tag aggregates.
func (c *Client) PopularTags(ctx context.Context, limit int) ([]TagCount, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out []TagCount
	if err := c.get(ctx, "/blogs/tags", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create creates a post (admin). The returned post carries the
// backend-assigned ID and timestamps.
func (c *Client) Create(ctx context.Context, post Post) (*Post, error) {
	var out Post
	if err := c.doJSON(ctx, http.MethodPost, "/blogs", post, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces a post by internal ID (admin).
func (c *Client) Update(ctx context.Context, id string, post Post) (*Post, error) {
	var out Post
	if err := c.doJSON(ctx, http.MethodPut, "/blogs/"+url.PathEscape(id), post, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByID returns a post by internal ID regardless of status (admin edit flow).
func (c *Client) GetByID(ctx context.Context, id string) (*Post, error) {
	var out Post
	if err := c.get(ctx, "/blogs/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadImage uploads image bytes as a multipart form (admin) and returns
// the hosted URL.
func (c *Client) UploadImage(ctx context.Context, filename string, data io.Reader) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return "", fmt.Errorf("build upload form: %w", err)
	}
	if _, err := io.Copy(part, data); err != nil {
		return "", fmt.Errorf("copy upload data: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close upload form: %w", err)
	}
	var out struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodPost, "/blogs/upload-image", &body, map[string]string{
		"Content-Type": mw.FormDataContentType(),
	}, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	p := path
	if len(query) > 0 {
		p += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, p, nil, nil, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.do(ctx, method, path, bytes.NewReader(payload), map[string]string{
		"Content-Type": "application/json",
	}, out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api"+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if c.creds != nil {
		if token := c.creds.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 400 {
			return &APIError{StatusCode: resp.StatusCode}
		}
		return fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= 400 || !env.Success {
		code := resp.StatusCode
		if code < 400 {
			code = http.StatusBadRequest
		}
		return &APIError{StatusCode: code, Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}
