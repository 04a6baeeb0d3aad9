package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// Dataset names served by the content host.
const (
	DatasetVerbs      = "data_verbs.json"
	DatasetAdjectives = "data_adjectives.json"
	DatasetKana       = "kana-data.json"
)

const defaultBaseURL = "https://content.kotobanexus.app"

// Client fetches seed datasets from the content host. Every call goes
// to the network; callers that need caching layer it on top.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient() *Client {
	baseURL := os.Getenv("CONTENT_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientWithBaseURL is used by tests to point at a local server.
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchDataset retrieves /seed/{name} and returns the raw JSON body.
func (c *Client) FetchDataset(ctx context.Context, name string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/seed/%s", c.baseURL, url.PathEscape(name))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build dataset request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch dataset %s: unexpected status %d", name, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", name, err)
	}
	return body, nil
}
