// Package affiliation turns employment and education summaries into resolved entries.
package affiliation

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/orcidator/lookup"
	"github.com/lehigh-university-libraries/orcidator/orcid"
	"github.com/lehigh-university-libraries/orcidator/quickstatements"
)

// Date is a calendar date known to a given precision.
type Date struct {
	Time      time.Time
	Precision quickstatements.Precision
}

// Entry is one resolved affiliation.
type Entry struct {
	// InstitutionID is an entity id, or the organization name when it could not be resolved.
	InstitutionID string
	// RoleID is empty when the summary has no role title.
	RoleID string
	Start  *Date
	End    *Date
}

// Resolver is the part of resolve.Resolver the extractor needs.
type Resolver interface {
	Resolve(ctx context.Context, category, label string) (string, error)
	ResolveOrganization(ctx context.Context, org orcid.Organization) (string, error)
}

// Extractor builds entries from affiliation summaries.
type Extractor struct {
	Resolver Resolver
	// RoleCategory is the lookup category for role titles; defaults to "role".
	RoleCategory string
}

// Extract returns one entry per summary, in order.
func (e *Extractor) Extract(ctx context.Context, summaries []orcid.AffiliationSummary) ([]Entry, error) {
	roleCategory := e.RoleCategory
	if roleCategory == "" {
		roleCategory = lookup.CategoryRole
	}

	entries := make([]Entry, 0, len(summaries))
	for _, s := range summaries {
		var entry Entry

		if s.RoleTitle != nil {
			role, err := e.Resolver.Resolve(ctx, roleCategory, *s.RoleTitle)
			if err != nil {
				return nil, fmt.Errorf("resolving role: %w", err)
			}
			entry.RoleID = role
		}

		institution, err := e.Resolver.ResolveOrganization(ctx, s.Organization)
		if err != nil {
			return nil, fmt.Errorf("resolving organization %q: %w", s.Organization.Name, err)
		}
		entry.InstitutionID = institution

		entry.Start = ParseDate(s.StartDate)
		entry.End = ParseDate(s.EndDate)

		entries = append(entries, entry)
	}
	return entries, nil
}

// ParseDate converts a fuzzy date. It returns nil when there is no usable year.
// An impossible day falls back to month precision and an invalid month to year
// precision; a day without a month is ignored.
func ParseDate(d *orcid.FuzzyDate) *Date {
	if d == nil {
		return nil
	}
	year, ok := component(d.Year)
	if !ok || year == 0 {
		return nil
	}

	month, hasMonth := component(d.Month)
	if hasMonth && (month < 1 || month > 12) {
		hasMonth = false
	}
	if !hasMonth {
		return &Date{
			Time:      time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
			Precision: quickstatements.PrecisionYear,
		}
	}

	monthStart := &Date{
		Time:      time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC),
		Precision: quickstatements.PrecisionMonth,
	}
	day, hasDay := component(d.Day)
	if !hasDay || day == 0 {
		return monthStart
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != time.Month(month) {
		return monthStart
	}
	return &Date{Time: t, Precision: quickstatements.PrecisionDay}
}

func component(v *orcid.Value) (int, bool) {
	s := strings.TrimSpace(v.String())
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
