// Package orcid reads public ORCID records (API v2.0).
package orcid

import "strings"

// Value is the {"value": ...} wrapper ORCID uses for scalar fields.
type Value struct {
	Value string `json:"value"`
}

// String returns the wrapped value; a nil Value is empty.
func (v *Value) String() string {
	if v == nil {
		return ""
	}
	return v.Value
}

// Record is the subset of /v2.0/{orcid} read by the importer.
type Record struct {
	Identifier struct {
		URI  string `json:"uri"`
		Path string `json:"path"`
		Host string `json:"host"`
	} `json:"orcid-identifier"`
	Person     *Person     `json:"person"`
	Activities *Activities `json:"activities-summary"`
}

type Person struct {
	Name                *Name                `json:"name"`
	Keywords            *Keywords            `json:"keywords"`
	ExternalIdentifiers *ExternalIdentifiers `json:"external-identifiers"`
	ResearcherURLs      *ResearcherURLs      `json:"researcher-urls"`
}

type Name struct {
	GivenNames *Value `json:"given-names"`
	FamilyName *Value `json:"family-name"`
	CreditName *Value `json:"credit-name"`
}

type Keywords struct {
	Keyword []Keyword `json:"keyword"`
}

type Keyword struct {
	Content string `json:"content"`
}

type ExternalIdentifiers struct {
	ExternalIdentifier []ExternalIdentifier `json:"external-identifier"`
}

type ExternalIdentifier struct {
	Type  string `json:"external-id-type"`
	Value string `json:"external-id-value"`
	URL   *Value `json:"external-id-url"`
}

type ResearcherURLs struct {
	ResearcherURL []ResearcherURL `json:"researcher-url"`
}

type ResearcherURL struct {
	Name string `json:"url-name"`
	URL  *Value `json:"url"`
}

type Activities struct {
	Employments *Employments `json:"employments"`
	Educations  *Educations  `json:"educations"`
	Works       *Works       `json:"works"`
}

type Employments struct {
	Summaries []AffiliationSummary `json:"employment-summary"`
}

type Educations struct {
	Summaries []AffiliationSummary `json:"education-summary"`
}

// AffiliationSummary is an employment or education entry.
type AffiliationSummary struct {
	DepartmentName string       `json:"department-name"`
	RoleTitle      *string      `json:"role-title"`
	StartDate      *FuzzyDate   `json:"start-date"`
	EndDate        *FuzzyDate   `json:"end-date"`
	Organization   Organization `json:"organization"`
}

// FuzzyDate is a date where any component may be missing.
type FuzzyDate struct {
	Year  *Value `json:"year"`
	Month *Value `json:"month"`
	Day   *Value `json:"day"`
}

type Organization struct {
	Name           string                     `json:"name"`
	Disambiguation *DisambiguatedOrganization `json:"disambiguated-organization"`
}

type DisambiguatedOrganization struct {
	Identifier string `json:"disambiguated-organization-identifier"`
	Source     string `json:"disambiguation-source"`
}

type Works struct {
	Group []WorkGroup `json:"group"`
}

type WorkGroup struct {
	ExternalIDs *WorkExternalIDs `json:"external-ids"`
}

type WorkExternalIDs struct {
	ExternalID []WorkExternalID `json:"external-id"`
}

type WorkExternalID struct {
	Type  string `json:"external-id-type"`
	Value string `json:"external-id-value"`
}

// FullName returns "given family", trimmed.
func (r *Record) FullName() string {
	if r.Person == nil || r.Person.Name == nil {
		return ""
	}
	n := r.Person.Name
	return strings.TrimSpace(n.GivenNames.String() + " " + n.FamilyName.String())
}

// Keywords returns the keyword contents in profile order.
func (r *Record) Keywords() []string {
	if r.Person == nil || r.Person.Keywords == nil {
		return nil
	}
	out := make([]string, 0, len(r.Person.Keywords.Keyword))
	for _, k := range r.Person.Keywords.Keyword {
		out = append(out, k.Content)
	}
	return out
}

func (r *Record) Employments() []AffiliationSummary {
	if r.Activities == nil || r.Activities.Employments == nil {
		return nil
	}
	return r.Activities.Employments.Summaries
}

func (r *Record) Educations() []AffiliationSummary {
	if r.Activities == nil || r.Activities.Educations == nil {
		return nil
	}
	return r.Activities.Educations.Summaries
}

func (r *Record) ExternalIdentifiers() []ExternalIdentifier {
	if r.Person == nil || r.Person.ExternalIdentifiers == nil {
		return nil
	}
	return r.Person.ExternalIdentifiers.ExternalIdentifier
}

// ResearcherURLs returns the url values of the researcher-url entries.
func (r *Record) ResearcherURLs() []string {
	if r.Person == nil || r.Person.ResearcherURLs == nil {
		return nil
	}
	var out []string
	for _, u := range r.Person.ResearcherURLs.ResearcherURL {
		if v := u.URL.String(); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// DOIs returns every doi-typed work identifier, in work order.
func (r *Record) DOIs() []string {
	if r.Activities == nil || r.Activities.Works == nil {
		return nil
	}
	var dois []string
	for _, g := range r.Activities.Works.Group {
		if g.ExternalIDs == nil {
			continue
		}
		for _, id := range g.ExternalIDs.ExternalID {
			if id.Type == "doi" {
				dois = append(dois, id.Value)
			}
		}
	}
	return dois
}
