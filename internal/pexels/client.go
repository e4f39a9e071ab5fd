// Package pexels provides a client for the Pexels video and photo APIs.
package pexels

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.pexels.com"

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL sets a custom base URL (useful for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithRateLimit paces outgoing requests. A nil limiter disables pacing.
func WithRateLimit(limiter *rate.Limiter) ClientOption {
	return func(c *Client) {
		c.limiter = limiter
	}
}

// Client is a Pexels API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPClient
	limiter    *rate.Limiter
}

// NewClient creates a new Pexels client authenticated with apiKey.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(250*time.Millisecond), 2),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchVideos searches videos matching query.
func (c *Client) FetchVideos(ctx context.Context, query string, perPage int) ([]Video, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("per_page", strconv.Itoa(perPage))
	endpoint := fmt.Sprintf("%s/videos/search?%s", c.baseURL, q.Encode())

	body, err := c.doRequest(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var response videosResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse videos response: %w", err)
	}

	videos := make([]Video, 0, len(response.Videos))
	for _, v := range response.Videos {
		files := make([]VideoFile, 0, len(v.VideoFiles))
		for _, f := range v.VideoFiles {
			files = append(files, VideoFile{
				Link:    f.Link,
				Quality: f.Quality,
				Width:   f.Width,
				Height:  f.Height,
			})
		}
		videos = append(videos, Video{
			ID:       strconv.FormatInt(v.ID, 10),
			URL:      v.URL,
			Image:    v.Image,
			Duration: v.Duration,
			Author:   v.User.Name,
			Files:    files,
		})
	}

	return videos, nil
}

// FetchCurated returns the curated photo listing.
func (c *Client) FetchCurated(ctx context.Context, perPage int) ([]Photo, error) {
	endpoint := fmt.Sprintf("%s/v1/curated?per_page=%d", c.baseURL, perPage)

	body, err := c.doRequest(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var response photosResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse photos response: %w", err)
	}

	photos := make([]Photo, 0, len(response.Photos))
	for _, p := range response.Photos {
		photos = append(photos, Photo{
			ID:           strconv.FormatInt(p.ID, 10),
			Photographer: p.Photographer,
			Alt:          p.Alt,
			Large:        p.Src.Large,
			Original:     p.Src.Original,
		})
	}

	return photos, nil
}

func (c *Client) doRequest(ctx context.Context, url string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Pexels takes the raw key, no scheme.
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleAPIError(resp.StatusCode)
	}

	return body, nil
}

// API response types (private - implementation detail)

type videosResponse struct {
	Videos []struct {
		ID       int64  `json:"id"`
		URL      string `json:"url"`
		Image    string `json:"image"`
		Duration int    `json:"duration"`
		User     struct {
			Name string `json:"name"`
		} `json:"user"`
		VideoFiles []struct {
			Link    string `json:"link"`
			Quality string `json:"quality"`
			Width   int    `json:"width"`
			Height  int    `json:"height"`
		} `json:"video_files"`
	} `json:"videos"`
}

type photosResponse struct {
	Photos []struct {
		ID           int64  `json:"id"`
		Photographer string `json:"photographer"`
		Alt          string `json:"alt"`
		Src          struct {
			Large    string `json:"large"`
			Original string `json:"original"`
		} `json:"src"`
	} `json:"photos"`
}

func (c *Client) handleAPIError(statusCode int) error {
	switch statusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("Pexels API authentication failed - check the PEXELS_API_KEY credential")
	case http.StatusForbidden:
		return fmt.Errorf("Pexels API access denied - check your API key permissions")
	case http.StatusTooManyRequests:
		return fmt.Errorf("Pexels API rate limit exceeded - please try again later")
	case http.StatusServiceUnavailable:
		return fmt.Errorf("Pexels API temporarily unavailable - please try again in a few minutes")
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusGatewayTimeout:
		return fmt.Errorf("Pexels API server error - please try again later")
	default:
		return fmt.Errorf("Pexels API error (status %d) - please try again", statusCode)
	}
}
