package quickstatements

import (
	"strings"
	"testing"
)

func TestParseLineRoundTrip(t *testing.T) {
	inputs := []string{
		"CREATE",
		`LAST|Len|"Charles Tapley Hoyt"`,
		`LAST|P31|Q5|S854|"https://orcid.org/0000-0003-4423-4370"`,
		`Q47475003|P108|Q49121|S854|"https://orcid.org/0000-0003-4423-4370"|P2868|Q1706722|P580|+2021-02-15T00:00:00Z/11|P582|+2022-00-00T00:00:00Z/9`,
		`Q1|P2037|"some|handle"`,
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			l, err := ParseLine(in)
			if err != nil {
				t.Fatalf("ParseLine: %v", err)
			}
			if got := l.Render(); got != in {
				t.Errorf("round trip:\n got %s\nwant %s", got, in)
			}
		})
	}
}

func TestParseLineTabs(t *testing.T) {
	l, err := ParseLine("LAST\tP31\tQ5")
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	if got := l.Render(); got != "LAST|P31|Q5" {
		t.Errorf("got %q", got)
	}
}

func TestParseLineErrors(t *testing.T) {
	inputs := []string{
		"LAST|P31",
		"LAST|P31|Q5|S854",
		"LAST|P108|Harvard",
		"LAST|P108|Q5|P580|+2021-02-15",
		"Q5x|P31|Q5",
	}
	for _, in := range inputs {
		if _, err := ParseLine(in); err == nil {
			t.Errorf("ParseLine(%q): expected error", in)
		}
	}
}

func TestParse(t *testing.T) {
	input := "CREATE\n\nLAST|P31|Q5\nLAST|P108|Nowhere\n"
	lines, errs, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(lines) != 2 {
		t.Errorf("expected 2 lines, got %d", len(lines))
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 parse error, got %d", len(errs))
	}
	if errs[0].LineNumber != 4 {
		t.Errorf("LineNumber = %d, want 4", errs[0].LineNumber)
	}
}
