// Package wikidata talks to the Wikidata Query Service and the MediaWiki search API.
package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultEndpoint  = "https://query.wikidata.org/sparql"
	DefaultUserAgent = "orcidator/1.0 (https://github.com/lehigh-university-libraries/orcidator)"

	entityPrefix = "http://www.wikidata.org/entity/"
)

// Client runs SPARQL queries against a query service endpoint.
type Client struct {
	Endpoint   string
	UserAgent  string
	HTTPClient *http.Client

	limiter *rate.Limiter
}

// NewClient creates a client for the public Wikidata endpoint. Queries are spaced
// at least interval apart; zero disables the limiter.
func NewClient(interval time.Duration) *Client {
	c := &Client{
		Endpoint:  DefaultEndpoint,
		UserAgent: DefaultUserAgent,
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
	if interval > 0 {
		c.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
	return c
}

// Term is one bound value in a result row.
type Term struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Lang     string `json:"xml:lang,omitempty"`
	Datatype string `json:"datatype,omitempty"`
}

// Binding maps variable names to their values for a single result row.
type Binding map[string]Term

// Results is the application/sparql-results+json document.
type Results struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []Binding `json:"bindings"`
	} `json:"results"`
}

// Query runs a SELECT query and returns its bindings.
func (c *Client) Query(ctx context.Context, query string) ([]Binding, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	form := url.Values{}
	form.Set("query", query)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/sparql-results+json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	slog.Debug("running sparql query", "endpoint", c.Endpoint, "query", query)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", c.Endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("query service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var res Results
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("decoding query results: %w", err)
	}
	return res.Results.Bindings, nil
}

// EntityID returns the last path segment of an entity URI (Q42 for
// http://www.wikidata.org/entity/Q42). Plain ids are returned unchanged.
func EntityID(uri string) string {
	if i := strings.LastIndex(uri, "/"); i >= 0 {
		return uri[i+1:]
	}
	return uri
}

var literalEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`)

// Literal quotes s as a SPARQL string literal.
func Literal(s string) string {
	return `"` + literalEscaper.Replace(s) + `"`
}
