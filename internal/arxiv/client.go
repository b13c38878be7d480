// Package arxiv is a client for the arXiv Atom query API.
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/resurch-labs/resurch/internal/domain"
)

const (
	// BaseURL is the arXiv export API endpoint.
	BaseURL = "http://export.arxiv.org/api/query"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// requestInterval follows the arXiv API terms of use: no more than one
	// request every three seconds.
	requestInterval = 3 * time.Second

	// pageSize is how many entries one API page requests.
	pageSize = 100

	// DefaultMaxResults caps a fetch when the caller does not set a limit.
	DefaultMaxResults = 100
)

// Client is a rate-limited client for the arXiv query API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// NewClient creates an arXiv API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Every(requestInterval), 1),
		baseURL:    BaseURL,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// atomFeed mirrors the arXiv Atom response.
type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID      string `xml:"id"`
	Title   string `xml:"title"`
	Summary string `xml:"summary"`
}

// Fetch returns up to maxResults papers matching the search query, newest
// first, walking the API pages as needed.
func (c *Client) Fetch(ctx context.Context, query string, maxResults int) ([]domain.Paper, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is required: %w", domain.ErrInvalidArgument)
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	var papers []domain.Paper
	for start := 0; start < maxResults; start += pageSize {
		count := pageSize
		if remaining := maxResults - start; remaining < count {
			count = remaining
		}

		page, err := c.fetchPage(ctx, query, start, count)
		if err != nil {
			return nil, err
		}

		papers = append(papers, page...)
		if len(page) < count {
			break
		}
	}
	return papers, nil
}

func (c *Client) fetchPage(ctx context.Context, query string, start, count int) ([]domain.Paper, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("search_query", query)
	params.Set("start", fmt.Sprintf("%d", start))
	params.Set("max_results", fmt.Sprintf("%d", count))
	params.Set("sortBy", "submittedDate")
	params.Set("sortOrder", "descending")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("arxiv API returned status %d", resp.StatusCode)
	}

	var feed atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing atom feed: %w", err)
	}

	papers := make([]domain.Paper, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		id := paperIDFromURL(e.ID)
		if id == "" {
			continue
		}
		papers = append(papers, domain.Paper{
			ID:       id,
			Title:    collapseWhitespace(e.Title),
			Abstract: collapseWhitespace(e.Summary),
			URL:      e.ID,
		})
	}
	return papers, nil
}

// paperIDFromURL extracts the arXiv id from an abs URL like
// http://arxiv.org/abs/2301.00001v2.
func paperIDFromURL(u string) string {
	idx := strings.Index(u, "/abs/")
	if idx < 0 {
		return ""
	}
	return u[idx+len("/abs/"):]
}

// collapseWhitespace flattens the newline-wrapped text arXiv serves.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
