package wikidata

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// DOIBatchSize is the number of DOIs sent in a single VALUES clause.
const DOIBatchSize = 100

var (
	propertyPattern = regexp.MustCompile(`^P\d+$`)
	itemPattern     = regexp.MustCompile(`^Q\d+$`)
)

// FindByExternalID returns the item whose property has exactly the given value.
// Zero or several matching items is not a match.
func (c *Client) FindByExternalID(ctx context.Context, property, value string) (string, bool, error) {
	if !propertyPattern.MatchString(property) {
		return "", false, fmt.Errorf("invalid property %q", property)
	}

	query := fmt.Sprintf("SELECT DISTINCT ?item WHERE { ?item wdt:%s %s . }", property, Literal(value))
	bindings, err := c.Query(ctx, query)
	if err != nil {
		return "", false, fmt.Errorf("looking up %s %s: %w", property, value, err)
	}
	if len(bindings) != 1 {
		slog.Debug("external id did not reconcile", "property", property, "value", value, "matches", len(bindings))
		return "", false, nil
	}
	return EntityID(bindings[0]["item"].Value), true, nil
}

// FindByDOIs returns the items whose DOI (P356) matches one of dois. DOIs are
// uppercased and deduplicated before matching; each item is returned once, in
// response order.
func (c *Client) FindByDOIs(ctx context.Context, dois []string) ([]string, error) {
	unique := make([]string, 0, len(dois))
	seenDOI := make(map[string]bool, len(dois))
	for _, doi := range dois {
		doi = strings.ToUpper(doi)
		if !seenDOI[doi] {
			seenDOI[doi] = true
			unique = append(unique, doi)
		}
	}

	var ids []string
	seenItem := make(map[string]bool)
	for start := 0; start < len(unique); start += DOIBatchSize {
		end := min(start+DOIBatchSize, len(unique))

		values := make([]string, 0, end-start)
		for _, doi := range unique[start:end] {
			values = append(values, Literal(doi))
		}
		query := fmt.Sprintf("SELECT DISTINCT ?item WHERE { VALUES ?doi { %s } ?item wdt:P356 ?doi . }", strings.Join(values, " "))

		bindings, err := c.Query(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("looking up DOIs: %w", err)
		}
		for _, b := range bindings {
			id := EntityID(b["item"].Value)
			if !seenItem[id] {
				seenItem[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

// EventSpeakerORCIDs returns the ORCID iDs of the speakers (P823) of an event.
func (c *Client) EventSpeakerORCIDs(ctx context.Context, event string) ([]string, error) {
	if !itemPattern.MatchString(event) {
		return nil, fmt.Errorf("invalid event id %q", event)
	}

	query := fmt.Sprintf("SELECT DISTINCT ?orcid WHERE { wd:%s wdt:P823 ?speaker . ?speaker wdt:P496 ?orcid . }", event)
	bindings, err := c.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("looking up speakers of %s: %w", event, err)
	}

	orcids := make([]string, 0, len(bindings))
	for _, b := range bindings {
		orcids = append(orcids, b["orcid"].Value)
	}
	return orcids, nil
}

// AncestorLabels returns label -> item id for every item reached from the ancestor
// classes by clause, a triple pattern relating ?item to ?ancestor. Items whose label
// is just their id are left out.
func (c *Client) AncestorLabels(ctx context.Context, ancestors []string, clause string) (map[string]string, error) {
	values := make([]string, 0, len(ancestors))
	for _, a := range ancestors {
		if !itemPattern.MatchString(a) {
			return nil, fmt.Errorf("invalid ancestor id %q", a)
		}
		values = append(values, "wd:"+a)
	}

	query := fmt.Sprintf(`SELECT ?itemLabel ?item WHERE {
  VALUES ?ancestor { %s }
  %s
  SERVICE wikibase:label { bd:serviceParam wikibase:language "[AUTO_LANGUAGE],en". }
}`, strings.Join(values, " "), clause)

	bindings, err := c.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing items under %s: %w", strings.Join(ancestors, ","), err)
	}

	labels := make(map[string]string, len(bindings))
	for _, b := range bindings {
		label := strings.ReplaceAll(strings.TrimSpace(b["itemLabel"].Value), "  ", " ")
		id := strings.TrimPrefix(b["item"].Value, entityPrefix)
		if label == "" || label == id {
			continue
		}
		labels[label] = id
	}
	return labels, nil
}
