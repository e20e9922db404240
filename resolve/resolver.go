// Package resolve turns free-text labels from a profile into Wikidata entity ids.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/lehigh-university-libraries/orcidator/lookup"
	"github.com/lehigh-university-libraries/orcidator/orcid"
	"github.com/lehigh-university-libraries/orcidator/wikidata"
)

// ErrUnresolved is returned by a strict oracle that cannot decide a label.
var ErrUnresolved = errors.New("label could not be resolved")

// NoRole is the reserved answer meaning "this label has no entity".
const NoRole = "none"

var entityIDPattern = regexp.MustCompile(`^Q\d+$`)

// RegistryProperties maps organization disambiguation sources to the Wikidata
// property holding that registry's identifier.
var RegistryProperties = map[string]string{
	"GRID":     "P2427",
	"ROR":      "P6782",
	"RINGGOLD": "P3500",
	"FUNDREF":  "P3153",
}

// Oracle decides labels the lookup store does not know. An empty answer means
// no decision was made.
type Oracle interface {
	Decide(ctx context.Context, category, label string) (string, error)
}

// GraphLookup reconciles registry identifiers to entities.
type GraphLookup interface {
	FindByExternalID(ctx context.Context, property, value string) (string, bool, error)
}

// Searcher suggests an entity for a label.
type Searcher interface {
	Search(ctx context.Context, term string) (wikidata.Suggestion, error)
}

// Resolver resolves labels through the lookup store, then the oracle.
type Resolver struct {
	store  lookup.Store
	graph  GraphLookup
	oracle Oracle
}

// New creates a resolver. graph may be nil, in which case organizations are
// always resolved by name.
func New(store lookup.Store, graph GraphLookup, oracle Oracle) *Resolver {
	return &Resolver{store: store, graph: graph, oracle: oracle}
}

// Resolve returns the entity id for label in category. Ids pass through untouched.
// Answers from the oracle are stored; an empty answer returns label unchanged.
func (r *Resolver) Resolve(ctx context.Context, category, label string) (string, error) {
	if entityIDPattern.MatchString(label) {
		return label, nil
	}

	id, ok, err := r.store.Get(category, label)
	if err != nil {
		return "", err
	}
	if ok {
		return id, nil
	}

	answer, err := r.oracle.Decide(ctx, category, label)
	if err != nil {
		return "", fmt.Errorf("resolving %s %q: %w", category, label, err)
	}
	if answer == "" {
		slog.Debug("label left unresolved", "category", category, "label", label)
		return label, nil
	}

	if err := r.store.Put(category, label, answer); err != nil {
		return "", fmt.Errorf("storing %s %q: %w", category, label, err)
	}
	slog.Info("stored new lookup entry", "category", category, "label", label, "id", answer)
	return answer, nil
}

// ResolveOrganization reconciles an organization by its registry identifier when it
// carries one from a known source. A registry miss returns the raw name without
// consulting the lookup store. Organizations without a known registry id are
// resolved by name as an institution.
func (r *Resolver) ResolveOrganization(ctx context.Context, org orcid.Organization) (string, error) {
	if d := org.Disambiguation; d != nil && r.graph != nil {
		if property, ok := RegistryProperties[d.Source]; ok {
			id, found, err := r.graph.FindByExternalID(ctx, property, d.Identifier)
			if err != nil {
				return "", fmt.Errorf("reconciling %s %s: %w", d.Source, d.Identifier, err)
			}
			if found {
				return id, nil
			}
			slog.Debug("organization identifier did not reconcile", "source", d.Source, "identifier", d.Identifier, "name", org.Name)
			return org.Name, nil
		}
	}
	return r.Resolve(ctx, lookup.CategoryInstitutions, org.Name)
}
