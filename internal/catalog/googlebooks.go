// Package catalog implements the online book-search client against the
// Google Books volumes API.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// DefaultBaseURL is the public Google Books API endpoint.
const DefaultBaseURL = "https://www.googleapis.com/books/v1"

// Volume is one search hit. All metadata fields are optional in the API
// payload; consumers must handle absent values.
type Volume struct {
	ID            string   `json:"id"`
	Title         string   `json:"title,omitempty"`
	Authors       []string `json:"authors,omitempty"`
	Description   string   `json:"description,omitempty"`
	PageCount     int      `json:"page_count,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	AverageRating float64  `json:"average_rating,omitempty"`
	ThumbnailURL  string   `json:"thumbnail_url,omitempty"`
}

// Client fetches book search results from the Google Books API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rateLimiter
}

type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval}
}

func (r *rateLimiter) wait() {
	r.mu.Lock()
	defer r.mu.Unlock()

	since := time.Since(r.lastCall)
	if since < r.interval {
		time.Sleep(r.interval - since)
	}
	r.lastCall = time.Now()
}

// NewClient creates a Google Books client with rate limiting against the
// given base URL. An empty baseURL selects the public endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:     baseURL,
		rateLimiter: newRateLimiter(time.Second),
	}
}

// Search performs a free-text volume search, returning up to maxResults hits.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]Volume, error) {
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}
	if maxResults <= 0 {
		maxResults = 20
	}

	c.rateLimiter.wait()

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(maxResults))
	searchURL := fmt.Sprintf("%s/volumes?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "BookNest/1.0 (https://github.com/lydia-karungi/booknest)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	volumes := make([]Volume, 0, len(result.Items))
	for _, item := range result.Items {
		volumes = append(volumes, convertItem(item))
	}
	return volumes, nil
}

func convertItem(item volumeItem) Volume {
	v := Volume{
		ID:            item.ID,
		Title:         item.VolumeInfo.Title,
		Authors:       item.VolumeInfo.Authors,
		Description:   item.VolumeInfo.Description,
		PageCount:     item.VolumeInfo.PageCount,
		Categories:    item.VolumeInfo.Categories,
		AverageRating: item.VolumeInfo.AverageRating,
	}
	if item.VolumeInfo.ImageLinks != nil {
		v.ThumbnailURL = item.VolumeInfo.ImageLinks.Thumbnail
		if v.ThumbnailURL == "" {
			v.ThumbnailURL = item.VolumeInfo.ImageLinks.SmallThumbnail
		}
	}
	return v
}

// Google Books API response types (internal)

type volumesResponse struct {
	TotalItems int          `json:"totalItems"`
	Items      []volumeItem `json:"items"`
}

type volumeItem struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title         string      `json:"title"`
	Authors       []string    `json:"authors"`
	Description   string      `json:"description"`
	PageCount     int         `json:"pageCount"`
	Categories    []string    `json:"categories"`
	AverageRating float64     `json:"averageRating"`
	ImageLinks    *imageLinks `json:"imageLinks"`
	PublishedDate string      `json:"publishedDate"`
}

type imageLinks struct {
	Thumbnail      string `json:"thumbnail"`
	SmallThumbnail string `json:"smallThumbnail"`
}
