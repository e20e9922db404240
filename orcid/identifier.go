package orcid

import (
	"fmt"
	"regexp"
	"strings"
)

var identifierPattern = regexp.MustCompile(`^\d{4}-\d{4}-\d{4}-\d{3}[\dX]$`)

// Normalize strips a profile URL prefix and surrounding space and uppercases the check digit.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"https://orcid.org/", "http://orcid.org/", "orcid.org/"} {
		s = strings.TrimPrefix(s, prefix)
	}
	return strings.ToUpper(strings.TrimSuffix(s, "/"))
}

// Validate reports whether id is a well-formed ORCID iD with a correct
// ISO 7064 MOD 11-2 check digit.
func Validate(id string) error {
	if !identifierPattern.MatchString(id) {
		return fmt.Errorf("invalid ORCID iD %q: expected 0000-0000-0000-000X", id)
	}
	digits := strings.ReplaceAll(id, "-", "")
	if want := CheckDigit(digits[:len(digits)-1]); digits[len(digits)-1] != want {
		return fmt.Errorf("invalid ORCID iD %q: check digit should be %c", id, want)
	}
	return nil
}

// CheckDigit computes the check character for the first fifteen digits of an iD.
func CheckDigit(base string) byte {
	total := 0
	for i := 0; i < len(base); i++ {
		total = (total + int(base[i]-'0')) * 2
	}
	result := (12 - total%11) % 11
	if result == 10 {
		return 'X'
	}
	return byte('0' + result)
}

// ProfileURL returns the public profile URL for an iD.
func ProfileURL(id string) string {
	return "https://orcid.org/" + id
}
