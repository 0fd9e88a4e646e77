package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lamchakchan/fastmac/internal/logging"
)

const (
	defaultRetries    = 3
	defaultRetryDelay = 2 * time.Second
	defaultTimeout    = 10 * time.Second
)

// FetchError reports a failed request against the document store.
type FetchError struct {
	URL        string
	StatusCode int // 0 when the request never got a response
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client reads categories and tools from the remote document store.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Retries    int           // attempts per request; 0 means 3
	RetryDelay time.Duration // pause between attempts; 0 means 2s
}

// NewClient returns a client for baseURL with default timeout and retries.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Fetch downloads both collections, validates them against the catalog
// schema as one document and assembles a catalog.
func (c *Client) Fetch(ctx context.Context) (*Catalog, error) {
	var cats struct {
		Categories json.RawMessage `json:"categories"`
	}
	if err := c.getJSON(ctx, "/categories", &cats); err != nil {
		return nil, err
	}
	var tools struct {
		Tools json.RawMessage `json:"tools"`
	}
	if err := c.getJSON(ctx, "/tools", &tools); err != nil {
		return nil, err
	}

	doc, err := json.Marshal(map[string]json.RawMessage{
		"categories": orEmpty(cats.Categories),
		"tools":      orEmpty(tools.Tools),
	})
	if err != nil {
		return nil, fmt.Errorf("assembling catalog: %w", err)
	}
	if err := Validate(doc, FormatJSON); err != nil {
		return nil, fmt.Errorf("%s: %w", c.BaseURL, err)
	}
	cat, err := Decode(doc, FormatJSON)
	if err != nil {
		return nil, err
	}
	logging.Info("Catalog", "Fetched %d categories and %d tools from %s",
		len(cat.Categories), len(cat.Tools), c.BaseURL)
	return cat, nil
}

// orEmpty treats a missing collection as an empty one.
func orEmpty(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || string(raw) == "null" {
		return json.RawMessage("[]")
	}
	return raw
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	attempts := c.Retries
	if attempts <= 0 {
		attempts = defaultRetries
	}
	delay := c.RetryDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := c.getOnce(ctx, path, v)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable(err) || attempt == attempts {
			break
		}
		logging.Warn("Catalog", "Attempt %d/%d for %s failed: %v", attempt, attempts, path, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return lastErr
}

func (c *Client) getOnce(ctx context.Context, path string, v any) error {
	url := c.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	hc := c.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &FetchError{URL: url, StatusCode: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("parsing %s: %w", url, err)
	}
	return nil
}

// retryable reports whether another attempt could succeed: network errors
// and server-side statuses are retried, client errors and bad bodies are not.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var fe *FetchError
	if !errors.As(err, &fe) {
		return false
	}
	return fe.StatusCode == 0 || fe.StatusCode >= 500 || fe.StatusCode == http.StatusTooManyRequests
}
