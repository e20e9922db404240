package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	DefaultSearchEndpoint = "https://www.wikidata.org/w/api.php"

	// NoMatch is the id of the suggestion returned when a search finds nothing.
	NoMatch = "NONE"
)

// Suggestion is the top hit of an entity search.
type Suggestion struct {
	ID          string
	Label       string
	Description string
	URL         string
}

// Searcher queries wbsearchentities.
type Searcher struct {
	Endpoint   string
	Language   string
	UserAgent  string
	HTTPClient *http.Client
}

// NewSearcher creates a searcher for English labels on wikidata.org.
func NewSearcher() *Searcher {
	return &Searcher{
		Endpoint:  DefaultSearchEndpoint,
		Language:  "en",
		UserAgent: DefaultUserAgent,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type searchResponse struct {
	Search []struct {
		ID          string `json:"id"`
		Label       string `json:"label"`
		Description string `json:"description"`
	} `json:"search"`
}

// Search returns the first hit for term, or a NoMatch suggestion when there is none.
func (s *Searcher) Search(ctx context.Context, term string) (Suggestion, error) {
	params := url.Values{}
	params.Set("action", "wbsearchentities")
	params.Set("search", term)
	params.Set("language", s.Language)
	params.Set("format", "json")
	params.Set("origin", "*")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return Suggestion{}, fmt.Errorf("creating request: %w", err)
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return Suggestion{}, fmt.Errorf("searching %q: %w", term, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Suggestion{}, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return Suggestion{}, fmt.Errorf("decoding search response: %w", err)
	}
	if len(sr.Search) == 0 {
		return Suggestion{ID: NoMatch, Label: NoMatch, Description: NoMatch, URL: ItemURL(NoMatch)}, nil
	}

	hit := sr.Search[0]
	return Suggestion{
		ID:          hit.ID,
		Label:       hit.Label,
		Description: hit.Description,
		URL:         ItemURL(hit.ID),
	}, nil
}

// ItemURL returns the wikidata.org page of an item.
func ItemURL(id string) string {
	return "https://www.wikidata.org/wiki/" + id
}
