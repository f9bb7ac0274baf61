// Package bibsonomy implements a rate-limited client for the BibSonomy
// REST API: post listings, attached documents, preview images, BibTeX
// source, and layout-rendered citations.
package bibsonomy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bibsonomy/publist/internal/post"
)

const (
	// BaseURL is the BibSonomy REST API base URL.
	BaseURL = "https://www.bibsonomy.org/api"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 60 * time.Second

	// RateLimit keeps the client polite toward the public API.
	RateLimit = 5.0

	// DefaultCount is the default number of posts requested per render.
	DefaultCount = 100
)

// Client is a rate-limited HTTP client for the BibSonomy REST API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	authUser   string
	apiKey     string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAuth sets the account name and API key used for basic auth.
func WithAuth(user, key string) ClientOption {
	return func(c *Client) {
		c.authUser = user
		c.apiKey = key
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// NewClient creates a new BibSonomy REST API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
	}

	// Environment credentials are the fallback; options override.
	if user := os.Getenv("PUBLIST_USER"); user != "" {
		c.authUser = user
	}
	if key := os.Getenv("PUBLIST_API_KEY"); key != "" {
		c.apiKey = key
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// PageURL returns the canonical BibSonomy page for a post, used by the
// assembler for the service link action.
func (c *Client) PageURL(id post.ID) string {
	base := strings.TrimSuffix(c.baseURL, "/api")
	return fmt.Sprintf("%s/bibtex/%s/%s", base, id.IntraHash(), url.PathEscape(id.User()))
}

// BibTeXURL returns the remote BibTeX rendering endpoint for a post.
func (c *Client) BibTeXURL(id post.ID) string {
	base := strings.TrimSuffix(c.baseURL, "/api")
	return fmt.Sprintf("%s/bib/bibtex/2%s/%s", base, id.IntraHash(), url.PathEscape(id.User()))
}

// Posts fetches the bibliographic posts of a user, optionally restricted
// to a set of tags, covering list positions [start, end).
func (c *Client) Posts(ctx context.Context, user string, tags []string, start, end int) (map[post.ID]post.Post, error) {
	if end <= start {
		end = start + DefaultCount
	}

	q := url.Values{}
	q.Set("resourcetype", "bibtex")
	q.Set("format", "json")
	q.Set("start", fmt.Sprint(start))
	q.Set("end", fmt.Sprint(end))
	if len(tags) > 0 {
		q.Set("tags", strings.Join(tags, " "))
	}

	path := fmt.Sprintf("/users/%s/posts", url.PathEscape(user))
	body, err := c.get(ctx, path, q)
	if err != nil {
		return nil, err
	}

	var resp postsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	posts := make(map[post.ID]post.Post, len(resp.Posts.Post))
	for _, wp := range resp.Posts.Post {
		p := convertPost(wp)
		posts[p.ID] = p
	}
	return posts, nil
}

// Document fetches the raw bytes of a document attached to a post.
// Returns ErrNotFound (wrapped) when the file does not exist.
func (c *Client) Document(ctx context.Context, user, intraHash, fileName string) ([]byte, error) {
	path := fmt.Sprintf("/users/%s/posts/%s/documents/%s",
		url.PathEscape(user), url.PathEscape(intraHash), url.PathEscape(fileName))
	return c.get(ctx, path, nil)
}

// Preview fetches a preview image for a document. The size selects the
// server-side rendering (small, medium, large).
func (c *Client) Preview(ctx context.Context, user, intraHash, fileName, size string) ([]byte, error) {
	path := fmt.Sprintf("/users/%s/posts/%s/documents/%s",
		url.PathEscape(user), url.PathEscape(intraHash), url.PathEscape(fileName))
	q := url.Values{}
	q.Set("preview", strings.ToUpper(size))
	return c.get(ctx, path, q)
}

// BibTeX fetches the BibTeX source of a single post.
func (c *Client) BibTeX(ctx context.Context, user, intraHash string) (string, error) {
	path := fmt.Sprintf("/users/%s/posts/%s", url.PathEscape(user), url.PathEscape(intraHash))
	q := url.Values{}
	q.Set("format", "bibtex")
	body, err := c.get(ctx, path, q)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Layout fetches the server-rendered citation fragment for a single post
// in the given layout style.
func (c *Client) Layout(ctx context.Context, user, intraHash, style string) (string, error) {
	path := fmt.Sprintf("/users/%s/posts/%s", url.PathEscape(user), url.PathEscape(intraHash))
	q := url.Values{}
	q.Set("format", "layout")
	q.Set("layout", style)
	body, err := c.get(ctx, path, q)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// get performs a rate-limited GET against the API and returns the body.
func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json, */*")
	if c.authUser != "" && c.apiKey != "" {
		req.SetBasicAuth(c.authUser, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if err := checkHTTPErrors(resp, path); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response, resource string) error {
	switch {
	case resp.StatusCode == 401 || resp.StatusCode == 403:
		return fmt.Errorf("%w: status %d", ErrAuthError, resp.StatusCode)
	case resp.StatusCode == 404:
		return fmt.Errorf("%w: %s", ErrNotFound, resource)
	case resp.StatusCode == 429:
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode >= 400:
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP %d", resp.StatusCode),
			Resource:   resource,
		}
	}
	return nil
}
