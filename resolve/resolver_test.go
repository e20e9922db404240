package resolve

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/orcidator/lookup"
	"github.com/lehigh-university-libraries/orcidator/orcid"
	"github.com/lehigh-university-libraries/orcidator/wikidata"
)

type fakeOracle struct {
	answers map[string]string
	asked   []string
}

func (o *fakeOracle) Decide(_ context.Context, _, label string) (string, error) {
	o.asked = append(o.asked, label)
	return o.answers[label], nil
}

type fakeGraph struct {
	ids     map[string]string
	queries []string
}

func (g *fakeGraph) FindByExternalID(_ context.Context, property, value string) (string, bool, error) {
	g.queries = append(g.queries, property+"="+value)
	id, ok := g.ids[property+"="+value]
	return id, ok, nil
}

type fakeSearcher map[string]wikidata.Suggestion

func (s fakeSearcher) Search(_ context.Context, term string) (wikidata.Suggestion, error) {
	if sg, ok := s[term]; ok {
		return sg, nil
	}
	return wikidata.Suggestion{ID: wikidata.NoMatch, Label: wikidata.NoMatch}, nil
}

func TestResolvePassesThroughIDs(t *testing.T) {
	oracle := &fakeOracle{}
	r := New(lookup.NewMemoryStore(lookup.CategoryRole), nil, oracle)

	got, err := r.Resolve(context.Background(), lookup.CategoryRole, "Q752297")
	if err != nil || got != "Q752297" {
		t.Errorf("Resolve = %q, %v", got, err)
	}
	if len(oracle.asked) != 0 {
		t.Error("oracle should not be asked for an id")
	}
}

func TestResolveStoresOracleAnswer(t *testing.T) {
	store := lookup.NewMemoryStore(lookup.CategoryInstitutions)
	oracle := &fakeOracle{answers: map[string]string{"Enveda Biosciences": "Q104635718"}}
	r := New(store, nil, oracle)
	ctx := context.Background()

	got, err := r.Resolve(ctx, lookup.CategoryInstitutions, "Enveda Biosciences")
	if err != nil || got != "Q104635718" {
		t.Fatalf("Resolve = %q, %v", got, err)
	}
	got, err = r.Resolve(ctx, lookup.CategoryInstitutions, "Enveda Biosciences")
	if err != nil || got != "Q104635718" {
		t.Fatalf("second Resolve = %q, %v", got, err)
	}
	if len(oracle.asked) != 1 {
		t.Errorf("oracle asked %d times, want 1", len(oracle.asked))
	}
	if id, ok, _ := store.Get(lookup.CategoryInstitutions, "Enveda Biosciences"); !ok || id != "Q104635718" {
		t.Errorf("store entry = %q, %v", id, ok)
	}
}

func TestResolveNoDecision(t *testing.T) {
	store := lookup.NewMemoryStore(lookup.CategoryFields)
	r := New(store, nil, &fakeOracle{})

	got, err := r.Resolve(context.Background(), lookup.CategoryFields, "semantic web")
	if err != nil || got != "semantic web" {
		t.Errorf("Resolve = %q, %v", got, err)
	}
	if store.Len(lookup.CategoryFields) != 0 {
		t.Error("an undecided label must not be stored")
	}
}

func TestResolveUnknownCategory(t *testing.T) {
	r := New(lookup.NewMemoryStore(), nil, &fakeOracle{})
	_, err := r.Resolve(context.Background(), "planets", "Mars")
	if !errors.Is(err, lookup.ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestResolveOrganization(t *testing.T) {
	tests := []struct {
		name      string
		org       orcid.Organization
		wantID    string
		wantAsked int
	}{
		{
			name:   "grid match",
			org:    orcid.Organization{Name: "Harvard Medical School", Disambiguation: &orcid.DisambiguatedOrganization{Source: "GRID", Identifier: "grid.38142.3c"}},
			wantID: "Q49121",
		},
		{
			name:   "ror match",
			org:    orcid.Organization{Name: "MIT", Disambiguation: &orcid.DisambiguatedOrganization{Source: "ROR", Identifier: "https://ror.org/042nb2s44"}},
			wantID: "Q49108",
		},
		{
			name:   "registry miss returns raw name",
			org:    orcid.Organization{Name: "Enveda Biosciences", Disambiguation: &orcid.DisambiguatedOrganization{Source: "RINGGOLD", Identifier: "1"}},
			wantID: "Enveda Biosciences",
		},
		{
			name:   "grid miss returns raw name",
			org:    orcid.Organization{Name: "Enveda Biosciences", Disambiguation: &orcid.DisambiguatedOrganization{Source: "GRID", Identifier: "grid.1"}},
			wantID: "Enveda Biosciences",
		},
		{
			name:      "unknown source",
			org:       orcid.Organization{Name: "Enveda Biosciences", Disambiguation: &orcid.DisambiguatedOrganization{Source: "LEI", Identifier: "x"}},
			wantID:    "Q104635718",
			wantAsked: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := lookup.NewMemoryStore(lookup.CategoryInstitutions)
			graph := &fakeGraph{ids: map[string]string{
				"P2427=grid.38142.3c":            "Q49121",
				"P6782=https://ror.org/042nb2s44": "Q49108",
			}}
			oracle := &fakeOracle{answers: map[string]string{"Enveda Biosciences": "Q104635718"}}
			r := New(store, graph, oracle)

			got, err := r.ResolveOrganization(context.Background(), tt.org)
			if err != nil {
				t.Fatalf("ResolveOrganization: %v", err)
			}
			if got != tt.wantID {
				t.Errorf("got %q, want %q", got, tt.wantID)
			}
			if len(oracle.asked) != tt.wantAsked {
				t.Errorf("oracle asked %d times, want %d", len(oracle.asked), tt.wantAsked)
			}
			if tt.wantAsked == 0 && store.Len(lookup.CategoryInstitutions) != 0 {
				t.Error("registry path must not touch the lookup store")
			}
		})
	}
}

func TestResolveOrganizationRegistryMissIgnoresStore(t *testing.T) {
	store := lookup.NewMemoryStore(lookup.CategoryInstitutions)
	if err := store.Put(lookup.CategoryInstitutions, "Enveda Biosciences", "Q104635718"); err != nil {
		t.Fatal(err)
	}
	oracle := &fakeOracle{}
	r := New(store, &fakeGraph{}, oracle)

	org := orcid.Organization{Name: "Enveda Biosciences", Disambiguation: &orcid.DisambiguatedOrganization{Source: "ROR", Identifier: "https://ror.org/000000000"}}
	got, err := r.ResolveOrganization(context.Background(), org)
	if err != nil {
		t.Fatalf("ResolveOrganization: %v", err)
	}
	if got != "Enveda Biosciences" {
		t.Errorf("got %q, want the raw name", got)
	}
	if len(oracle.asked) != 0 {
		t.Errorf("oracle asked %v", oracle.asked)
	}
	if store.Len(lookup.CategoryInstitutions) != 1 {
		t.Errorf("institutions has %d entries, want 1", store.Len(lookup.CategoryInstitutions))
	}
}

func TestInteractive(t *testing.T) {
	searcher := fakeSearcher{
		"Harvard Medical School": {ID: "Q49121", Label: "Harvard Medical School", Description: "medical school", URL: wikidata.ItemURL("Q49121")},
	}

	tests := []struct {
		name  string
		label string
		input string
		want  string
	}{
		{name: "accept suggestion", label: "Harvard Medical School", input: "\n", want: "Q49121"},
		{name: "override", label: "Harvard Medical School", input: " Q13371 \n", want: "Q13371"},
		{name: "skip", label: "Harvard Medical School", input: "-\n", want: ""},
		{name: "none", label: "Harvard Medical School", input: "none\n", want: "none"},
		{name: "no suggestion", label: "Enveda Biosciences", input: "\n", want: ""},
		{name: "eof", label: "Harvard Medical School", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			o := NewInteractive(searcher, strings.NewReader(tt.input), &out)

			got, err := o.Decide(context.Background(), lookup.CategoryInstitutions, tt.label)
			if err != nil {
				t.Fatalf("Decide: %v", err)
			}
			if got != tt.want {
				t.Errorf("Decide = %q, want %q", got, tt.want)
			}
			if !strings.Contains(out.String(), tt.label) {
				t.Errorf("prompt does not mention label: %q", out.String())
			}
		})
	}
}

func TestNonInteractive(t *testing.T) {
	searcher := fakeSearcher{"PhD": {ID: "Q752297", Label: "Doctor of Philosophy"}}
	ctx := context.Background()

	accept := &NonInteractive{Searcher: searcher, AcceptSuggestions: true}
	if got, _ := accept.Decide(ctx, lookup.CategoryRole, "PhD"); got != "Q752297" {
		t.Errorf("accepting oracle = %q", got)
	}
	if got, err := accept.Decide(ctx, lookup.CategoryRole, "Magister"); got != "" || err != nil {
		t.Errorf("no suggestion = %q, %v", got, err)
	}

	placeholder := &NonInteractive{Searcher: searcher}
	if got, err := placeholder.Decide(ctx, lookup.CategoryRole, "PhD"); got != "" || err != nil {
		t.Errorf("placeholder oracle = %q, %v", got, err)
	}

	strict := &NonInteractive{Searcher: searcher, Strict: true}
	if _, err := strict.Decide(ctx, lookup.CategoryRole, "PhD"); !errors.Is(err, ErrUnresolved) {
		t.Errorf("expected ErrUnresolved, got %v", err)
	}
}
