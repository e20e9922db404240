package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// sparqlServer answers every query with the bindings returned by respond.
func sparqlServer(t *testing.T, respond func(query string) []Binding) (*Client, *[]string) {
	t.Helper()
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST only", http.StatusMethodNotAllowed)
			return
		}
		if got := r.Header.Get("Accept"); got != "application/sparql-results+json" {
			http.Error(w, "bad accept "+got, http.StatusBadRequest)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		q := r.PostForm.Get("query")
		queries = append(queries, q)

		var res Results
		res.Results.Bindings = respond(q)
		w.Header().Set("Content-Type", "application/sparql-results+json")
		_ = json.NewEncoder(w).Encode(res)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(0)
	c.Endpoint = srv.URL
	return c, &queries
}

func item(id string) Binding {
	return Binding{"item": {Type: "uri", Value: entityPrefix + id}}
}

func TestFindByExternalID(t *testing.T) {
	tests := []struct {
		name     string
		bindings []Binding
		wantID   string
		wantOK   bool
	}{
		{name: "single match", bindings: []Binding{item("Q42")}, wantID: "Q42", wantOK: true},
		{name: "no match"},
		{name: "ambiguous", bindings: []Binding{item("Q1"), item("Q2")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, queries := sparqlServer(t, func(string) []Binding { return tt.bindings })

			id, ok, err := c.FindByExternalID(context.Background(), "P496", "0000-0003-4423-4370")
			if err != nil {
				t.Fatalf("FindByExternalID: %v", err)
			}
			if id != tt.wantID || ok != tt.wantOK {
				t.Errorf("got %q, %v; want %q, %v", id, ok, tt.wantID, tt.wantOK)
			}
			if !strings.HasPrefix((*queries)[0], "SELECT DISTINCT ?item") {
				t.Errorf("query %q should select distinct items", (*queries)[0])
			}
			want := `?item wdt:P496 "0000-0003-4423-4370"`
			if !strings.Contains((*queries)[0], want) {
				t.Errorf("query %q does not contain %q", (*queries)[0], want)
			}
		})
	}
}

func TestFindByExternalIDRejectsBadProperty(t *testing.T) {
	c := NewClient(0)
	if _, _, err := c.FindByExternalID(context.Background(), "wdt:P1 ?x", "v"); err == nil {
		t.Error("expected error for malformed property")
	}
}

func TestFindByDOIsBatches(t *testing.T) {
	c, queries := sparqlServer(t, func(q string) []Binding {
		if strings.Contains(q, `"10.1/A"`) {
			return []Binding{item("Q100")}
		}
		return []Binding{item("Q200")}
	})

	dois := make([]string, 0, 150)
	dois = append(dois, "10.1/a")
	for i := 1; i < 150; i++ {
		dois = append(dois, fmt.Sprintf("10.2/x%d", i))
	}

	ids, err := c.FindByDOIs(context.Background(), dois)
	if err != nil {
		t.Fatalf("FindByDOIs: %v", err)
	}
	if len(*queries) != 2 {
		t.Fatalf("expected 2 batched queries, got %d", len(*queries))
	}
	if len(ids) != 2 || ids[0] != "Q100" || ids[1] != "Q200" {
		t.Errorf("ids = %v", ids)
	}
	if strings.Contains((*queries)[0], "10.1/a") {
		t.Error("DOIs should be uppercased")
	}
}

func TestFindByDOIsDeduplicates(t *testing.T) {
	c, queries := sparqlServer(t, func(string) []Binding {
		return []Binding{item("Q100"), item("Q100")}
	})

	ids, err := c.FindByDOIs(context.Background(), []string{"10.1/a", "10.1/A", "10.1/a"})
	if err != nil {
		t.Fatalf("FindByDOIs: %v", err)
	}
	if len(ids) != 1 || ids[0] != "Q100" {
		t.Errorf("ids = %v, want [Q100]", ids)
	}
	q := (*queries)[0]
	if strings.Count(q, `"10.1/A"`) != 1 {
		t.Errorf("DOI repeated in VALUES: %s", q)
	}
	if !strings.HasPrefix(q, "SELECT DISTINCT ?item") {
		t.Errorf("query %q should select distinct items", q)
	}
}

func TestFindByDOIsEmpty(t *testing.T) {
	c, queries := sparqlServer(t, func(string) []Binding { return nil })
	ids, err := c.FindByDOIs(context.Background(), nil)
	if err != nil || len(ids) != 0 || len(*queries) != 0 {
		t.Errorf("got %v, %v with %d queries", ids, err, len(*queries))
	}
}

func TestEventSpeakerORCIDs(t *testing.T) {
	c, queries := sparqlServer(t, func(string) []Binding {
		return []Binding{
			{"orcid": {Type: "literal", Value: "0000-0002-1825-0097"}},
			{"orcid": {Type: "literal", Value: "0000-0003-4423-4370"}},
		}
	})

	orcids, err := c.EventSpeakerORCIDs(context.Background(), "Q106688590")
	if err != nil {
		t.Fatalf("EventSpeakerORCIDs: %v", err)
	}
	if len(orcids) != 2 || orcids[1] != "0000-0003-4423-4370" {
		t.Errorf("orcids = %v", orcids)
	}
	if !strings.Contains((*queries)[0], "wd:Q106688590 wdt:P823 ?speaker") {
		t.Errorf("unexpected query %q", (*queries)[0])
	}
}

func TestAncestorLabels(t *testing.T) {
	c, queries := sparqlServer(t, func(string) []Binding {
		return []Binding{
			{"item": {Value: entityPrefix + "Q49108"}, "itemLabel": {Value: " Massachusetts  Institute of Technology"}},
			{"item": {Value: entityPrefix + "Q9999"}, "itemLabel": {Value: "Q9999"}},
		}
	})

	labels, err := c.AncestorLabels(context.Background(), []string{"Q4671277"}, "?item wdt:P31/wdt:P279* ?ancestor .")
	if err != nil {
		t.Fatalf("AncestorLabels: %v", err)
	}
	if len(labels) != 1 || labels["Massachusetts Institute of Technology"] != "Q49108" {
		t.Errorf("labels = %v", labels)
	}
	if !strings.Contains((*queries)[0], "VALUES ?ancestor { wd:Q4671277 }") {
		t.Errorf("unexpected query %q", (*queries)[0])
	}
}

func TestQueryErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(0)
	c.Endpoint = srv.URL
	if _, err := c.Query(context.Background(), "SELECT * WHERE {}"); err == nil {
		t.Error("expected error for non-200 response")
	}
}

func TestLiteral(t *testing.T) {
	got := Literal("a \"quoted\" \\ value\n")
	want := `"a \"quoted\" \\ value\n"`
	if got != want {
		t.Errorf("Literal = %s, want %s", got, want)
	}
}

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") != "wbsearchentities" {
			http.Error(w, "bad action", http.StatusBadRequest)
			return
		}
		if r.URL.Query().Get("search") == "Enveda Biosciences" {
			fmt.Fprint(w, `{"search":[]}`)
			return
		}
		fmt.Fprint(w, `{"search":[{"id":"Q49121","label":"Harvard Medical School","description":"medical school"},{"id":"Q1","label":"x"}]}`)
	}))
	defer srv.Close()

	s := NewSearcher()
	s.Endpoint = srv.URL

	got, err := s.Search(context.Background(), "Harvard Medical School")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	want := Suggestion{ID: "Q49121", Label: "Harvard Medical School", Description: "medical school", URL: "https://www.wikidata.org/wiki/Q49121"}
	if got != want {
		t.Errorf("Search = %+v, want %+v", got, want)
	}

	none, err := s.Search(context.Background(), "Enveda Biosciences")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if none.ID != NoMatch || none.URL != "https://www.wikidata.org/wiki/NONE" {
		t.Errorf("empty search = %+v", none)
	}
}
