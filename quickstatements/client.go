package quickstatements

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrMissingCredentials is returned when an upload is attempted without a username and token.
var ErrMissingCredentials = errors.New("quickstatements username and token are required")

// Client posts batches to the QuickStatements API.
type Client struct {
	BaseURL    string
	Username   string
	Token      string
	UserAgent  string
	HTTPClient *http.Client
}

// NewClient creates a client for the public QuickStatements tool.
func NewClient(username, token string) *Client {
	return &Client{
		BaseURL:  DefaultBaseURL,
		Username: username,
		Token:    token,
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Batch identifies a submitted batch.
type Batch struct {
	ID  int64
	URL string
}

type importResponse struct {
	Status  string          `json:"status"`
	BatchID json.RawMessage `json:"batch_id"`
}

// Post submits the lines as a new batch and returns its id and status page.
func (c *Client) Post(ctx context.Context, lines []Line, batchName string) (*Batch, error) {
	if c.Username == "" || c.Token == "" {
		return nil, ErrMissingCredentials
	}

	form := url.Values{}
	form.Set("action", "import")
	form.Set("submit", "1")
	form.Set("format", "v1")
	form.Set("site", "wikidata")
	form.Set("data", Render(lines))
	form.Set("username", c.Username)
	form.Set("token", c.Token)
	if batchName != "" {
		form.Set("batchname", batchName)
	}

	base := strings.TrimSuffix(c.BaseURL, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/api.php", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	slog.Debug("posting quickstatements batch", "lines", len(lines), "batchName", batchName)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("posting batch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quickstatements returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var ir importResponse
	if err := json.Unmarshal(body, &ir); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if ir.Status != "OK" {
		return nil, fmt.Errorf("quickstatements rejected batch: %s", ir.Status)
	}

	id, err := strconv.ParseInt(strings.Trim(string(ir.BatchID), `"`), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing batch id %s: %w", ir.BatchID, err)
	}
	return &Batch{ID: id, URL: fmt.Sprintf("%s/#/batch/%d", base, id)}, nil
}
