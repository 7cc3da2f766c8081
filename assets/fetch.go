package assets

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrNetwork indicates a remote asset could not be fetched. Callers
// recover per-asset: the reference degrades to alt text and the rest
// of the document converts normally.
var ErrNetwork = errors.New("network fetch failed")

// Fetcher retrieves remote asset bytes. It is the narrow seam for the
// network collaborator; tests substitute their own implementation.
type Fetcher interface {
	Fetch(url string) ([]byte, error)
}

// HTTPFetcher fetches assets over HTTP(S).
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher returns a fetcher with a bounded request timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPFetcher{Client: &http.Client{Timeout: timeout}}
}

// Fetch performs a GET and returns the response body. Any transport
// error or non-200 status wraps ErrNetwork.
func (f *HTTPFetcher) Fetch(url string) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNetwork, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: status %d", ErrNetwork, url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNetwork, url, err)
	}
	return data, nil
}
