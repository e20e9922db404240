// Package assemble builds the QuickStatements batch for an ORCID profile.
package assemble

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/lehigh-university-libraries/orcidator/affiliation"
	"github.com/lehigh-university-libraries/orcidator/lookup"
	"github.com/lehigh-university-libraries/orcidator/orcid"
	"github.com/lehigh-university-libraries/orcidator/quickstatements"
	"github.com/lehigh-university-libraries/orcidator/resolve"
)

// Wikidata properties and items used in the generated statements.
const (
	PropertyInstanceOf  = "P31"
	PropertyOccupation  = "P106"
	PropertyORCID       = "P496"
	PropertyEmployer    = "P108"
	PropertyEducatedAt  = "P69"
	PropertyRole        = "P2868"
	PropertyDegree      = "P512"
	PropertyFieldOfWork = "P101"
	PropertyAuthor      = "P50"

	ItemHuman      = "Q5"
	ItemResearcher = "Q1650915"

	DefaultDescription = "researcher"
)

var qualifierTargetPattern = regexp.MustCompile(`^[PQS]\d+$`)

// ProfileSource fetches ORCID records.
type ProfileSource interface {
	Get(ctx context.Context, id string) (*orcid.Record, error)
}

// GraphLookup reconciles the researcher and their papers.
type GraphLookup interface {
	FindByExternalID(ctx context.Context, property, value string) (string, bool, error)
	FindByDOIs(ctx context.Context, dois []string) ([]string, error)
}

// Resolver resolves free-text labels and organizations.
type Resolver interface {
	affiliation.Resolver
}

// Assembler turns a profile into an ordered list of statements.
type Assembler struct {
	profiles    ProfileSource
	graph       GraphLookup
	resolver    Resolver
	affiliation *affiliation.Extractor

	// Description is the Den value for newly created items.
	Description string
	// SkipPapers disables DOI reconciliation.
	SkipPapers bool
}

// New creates an assembler.
func New(profiles ProfileSource, graph GraphLookup, resolver Resolver) *Assembler {
	return &Assembler{
		profiles:    profiles,
		graph:       graph,
		resolver:    resolver,
		affiliation: &affiliation.Extractor{Resolver: resolver},
		Description: DefaultDescription,
	}
}

// block accumulates the statements of one category and remembers the first
// construction error.
type block struct {
	lines []quickstatements.Line
	err   error
}

func (b *block) add(l quickstatements.Line, err error) {
	if err != nil {
		if b.err == nil {
			b.err = err
		}
		return
	}
	b.lines = append(b.lines, l)
}

// Assemble fetches the profile for id and returns its statements: identity,
// employment, education, fields of work, external ids, then papers.
func (a *Assembler) Assemble(ctx context.Context, id string) ([]quickstatements.Line, error) {
	record, err := a.profiles.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	subject, found, err := a.graph.FindByExternalID(ctx, PropertyORCID, id)
	if err != nil {
		return nil, fmt.Errorf("reconciling researcher: %w", err)
	}
	if !found {
		subject = quickstatements.Last
	}
	slog.Info("assembling statements", "orcid", id, "subject", subject)

	reference, err := quickstatements.ReferenceURL(orcid.ProfileURL(id))
	if err != nil {
		return nil, err
	}

	var lines []quickstatements.Line
	identity, err := a.identity(record, id, subject, reference)
	if err != nil {
		return nil, err
	}
	lines = append(lines, identity...)

	employments, err := a.affiliations(ctx, record.Employments(), subject, reference, PropertyEmployer, PropertyRole, lookup.CategoryRole)
	if err != nil {
		return nil, fmt.Errorf("processing employments: %w", err)
	}
	lines = append(lines, employments...)

	educations, err := a.affiliations(ctx, record.Educations(), subject, reference, PropertyEducatedAt, PropertyDegree, lookup.CategoryRole)
	if err != nil {
		return nil, fmt.Errorf("processing educations: %w", err)
	}
	lines = append(lines, educations...)

	fields, err := a.fields(ctx, record.Keywords(), subject, reference)
	if err != nil {
		return nil, fmt.Errorf("processing keywords: %w", err)
	}
	lines = append(lines, fields...)

	externalIDs, err := a.externalIDs(record, subject, reference)
	if err != nil {
		return nil, fmt.Errorf("processing external identifiers: %w", err)
	}
	lines = append(lines, externalIDs...)

	papers, err := a.papers(ctx, record.DOIs(), subject, reference)
	if err != nil {
		return nil, fmt.Errorf("processing papers: %w", err)
	}
	lines = append(lines, papers...)

	return lines, nil
}

func (a *Assembler) identity(record *orcid.Record, id, subject string, reference quickstatements.Qualifier) ([]quickstatements.Line, error) {
	var b block
	if subject == quickstatements.Last {
		b.add(quickstatements.CreateLine{}, nil)
		if name := record.FullName(); name != "" {
			b.add(quickstatements.NewTextLine(subject, quickstatements.PredicateLabel, name))
		} else {
			slog.Warn("profile has no public name, skipping label", "orcid", id)
		}
		b.add(quickstatements.NewTextLine(subject, quickstatements.PredicateDescription, a.Description))
	}
	b.add(quickstatements.NewEntityLine(subject, PropertyInstanceOf, ItemHuman, reference))
	b.add(quickstatements.NewEntityLine(subject, PropertyOccupation, ItemResearcher, reference))
	b.add(quickstatements.NewTextLine(subject, PropertyORCID, id, reference))
	if b.err != nil {
		return nil, fmt.Errorf("building identity statements: %w", b.err)
	}
	return b.lines, nil
}

func (a *Assembler) affiliations(ctx context.Context, summaries []orcid.AffiliationSummary, subject string, reference quickstatements.Qualifier, property, roleProperty, roleCategory string) ([]quickstatements.Line, error) {
	if len(summaries) == 0 {
		return nil, nil
	}
	extractor := *a.affiliation
	extractor.RoleCategory = roleCategory
	entries, err := extractor.Extract(ctx, summaries)
	if err != nil {
		return nil, err
	}

	lines := make([]quickstatements.Line, 0, len(entries))
	for _, entry := range entries {
		line, err := affiliationLine(entry, subject, reference, property, roleProperty)
		var verr *quickstatements.ValidationError
		if errors.As(err, &verr) {
			slog.Warn("skipping affiliation with unresolved institution", "property", property, "institution", entry.InstitutionID)
			continue
		}
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func affiliationLine(entry affiliation.Entry, subject string, reference quickstatements.Qualifier, property, roleProperty string) (quickstatements.Line, error) {
	qualifiers := []quickstatements.Qualifier{reference}

	if role := entry.RoleID; role != "" && !strings.EqualFold(role, resolve.NoRole) {
		if qualifierTargetPattern.MatchString(role) {
			q, err := quickstatements.NewEntityQualifier(roleProperty, role)
			if err != nil {
				return nil, err
			}
			qualifiers = append(qualifiers, q)
		} else {
			slog.Warn("ungrounded role", "role", role, "institution", entry.InstitutionID)
		}
	}

	if entry.Start != nil {
		start, err := quickstatements.StartTime(entry.Start.Time, entry.Start.Precision)
		if err != nil {
			return nil, err
		}
		qualifiers = append(qualifiers, start)

		if entry.End != nil {
			end, err := quickstatements.EndTime(entry.End.Time, entry.End.Precision)
			if err != nil {
				return nil, err
			}
			qualifiers = append(qualifiers, end)
		}
	}

	return quickstatements.NewEntityLine(subject, property, entry.InstitutionID, qualifiers...)
}

func (a *Assembler) fields(ctx context.Context, keywords []string, subject string, reference quickstatements.Qualifier) ([]quickstatements.Line, error) {
	var lines []quickstatements.Line
	for _, keyword := range SplitKeywords(keywords) {
		id, err := a.resolver.Resolve(ctx, lookup.CategoryFields, keyword)
		if err != nil {
			return nil, err
		}
		if !quickstatements.IsEntityID(id) {
			slog.Warn("skipping unresolved field of work", "keyword", keyword, "id", id)
			continue
		}
		line, err := quickstatements.NewEntityLine(subject, PropertyFieldOfWork, id, reference)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// SplitKeywords expands keywords containing ";" into their trimmed parts, in place.
// Empty parts are dropped.
func SplitKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		for _, part := range strings.Split(k, ";") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (a *Assembler) externalIDs(record *orcid.Record, subject string, reference quickstatements.Qualifier) ([]quickstatements.Line, error) {
	var b block
	for _, id := range ExternalIDs(record) {
		b.add(quickstatements.NewTextLine(subject, id.Property, id.Value, reference))
	}
	if b.err != nil {
		return nil, b.err
	}
	return b.lines, nil
}

func (a *Assembler) papers(ctx context.Context, dois []string, subject string, reference quickstatements.Qualifier) ([]quickstatements.Line, error) {
	if a.SkipPapers {
		return nil, nil
	}
	dois = FilterDOIs(dois)
	if len(dois) == 0 {
		return nil, nil
	}
	if subject == quickstatements.Last {
		slog.Info("skipping paper authorship for a new item", "dois", len(dois))
		return nil, nil
	}

	papers, err := a.graph.FindByDOIs(ctx, dois)
	if err != nil {
		return nil, err
	}
	slog.Debug("reconciled papers", "dois", len(dois), "papers", len(papers))

	var b block
	for _, paper := range papers {
		b.add(quickstatements.NewEntityLine(paper, PropertyAuthor, subject, reference))
	}
	if b.err != nil {
		return nil, b.err
	}
	return b.lines, nil
}

// FilterDOIs keeps identifiers that start with the DOI prefix "10.".
func FilterDOIs(dois []string) []string {
	var out []string
	for _, d := range dois {
		if strings.HasPrefix(d, "10.") {
			out = append(out, d)
		}
	}
	return out
}
