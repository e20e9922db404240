package orcid

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const DefaultBaseURL = "https://pub.orcid.org/v2.0"

// ErrNotFound is returned when the registry has no public record for an iD.
var ErrNotFound = errors.New("orcid record not found")

// Client fetches public records.
type Client struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
	MaxTries   uint
}

// NewClient creates a client for the public API.
func NewClient() *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		MaxTries: 3,
	}
}

// Get fetches and decodes the record for id. 429 and 5xx responses are retried
// with exponential backoff.
func (c *Client) Get(ctx context.Context, id string) (*Record, error) {
	url := strings.TrimSuffix(c.BaseURL, "/") + "/" + id

	operation := func() (*Record, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")
		if c.UserAgent != "" {
			req.Header.Set("User-Agent", c.UserAgent)
		}

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, backoff.Permanent(fmt.Errorf("%s: %w", id, ErrNotFound))
		case isRetryableStatus(resp.StatusCode):
			slog.Debug("orcid request failed, retrying", "orcid", id, "status", resp.StatusCode)
			return nil, fmt.Errorf("status %d", resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			return nil, backoff.Permanent(fmt.Errorf("status %d", resp.StatusCode))
		}

		var r Record
		if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
			return nil, backoff.Permanent(fmt.Errorf("decoding record: %w", err))
		}
		return &r, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 10 * time.Second

	tries := c.MaxTries
	if tries == 0 {
		tries = 1
	}
	r, err := backoff.Retry(ctx, operation, backoff.WithBackOff(bo), backoff.WithMaxTries(tries), backoff.WithMaxElapsedTime(time.Minute))
	if err != nil {
		return nil, fmt.Errorf("fetching orcid record %s: %w", id, err)
	}
	return r, nil
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}
