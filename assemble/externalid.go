package assemble

import (
	"regexp"
	"strings"

	"github.com/lehigh-university-libraries/orcidator/orcid"
)

// IdentifierProperties maps ORCID external-id types and researcher-url keys to
// Wikidata properties. Anything else is dropped.
var IdentifierProperties = map[string]string{
	"Loop profile":     "P2798",
	"Scopus Author ID": "P1153",
	"ResearcherID":     "P1053",
	"GND":              "P227",
	"github":           "P2037",
	"twitter":          "P2002",
	"scopus":           "P1153",
}

type urlPrefix struct {
	key     string
	pattern *regexp.Regexp
}

func prefixPattern(hosts ...string) *regexp.Regexp {
	quoted := make([]string, len(hosts))
	for i, h := range hosts {
		quoted[i] = regexp.QuoteMeta(h)
	}
	return regexp.MustCompile(`^(https?://)?(` + strings.Join(quoted, "|") + `)`)
}

var urlPrefixes = []urlPrefix{
	{key: "github", pattern: prefixPattern("github.com/")},
	{key: "twitter", pattern: prefixPattern("twitter.com/", "x.com/")},
	{key: "scopus", pattern: prefixPattern("www.scopus.com/authid/detail.uri?authorId=")},
}

// ExternalID is a recognized identifier of the researcher.
type ExternalID struct {
	Key      string
	Property string
	Value    string
}

// ExternalIDs collects the recognized identifiers of a record: external-identifier
// entries first, then researcher URLs. A key seen twice keeps its first position
// and takes the later value.
func ExternalIDs(record *orcid.Record) []ExternalID {
	var ids []ExternalID
	index := make(map[string]int)
	set := func(key, value string) {
		property, ok := IdentifierProperties[key]
		if !ok || value == "" {
			return
		}
		if i, seen := index[key]; seen {
			ids[i].Value = value
			return
		}
		index[key] = len(ids)
		ids = append(ids, ExternalID{Key: key, Property: property, Value: value})
	}

	for _, e := range record.ExternalIdentifiers() {
		set(e.Type, e.Value)
	}
	for _, u := range record.ResearcherURLs() {
		u = strings.TrimRight(u, "/")
		for _, p := range urlPrefixes {
			if loc := p.pattern.FindStringIndex(u); loc != nil {
				set(p.key, u[loc[1]:])
			}
		}
	}

	return dedupeValues(ids)
}

// dedupeValues drops identifiers repeating an earlier property and value pair,
// as when a Scopus id appears both as an identifier and as a profile URL.
func dedupeValues(ids []ExternalID) []ExternalID {
	seen := make(map[string]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		k := id.Property + "\x00" + id.Value
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, id)
	}
	return out
}
