package format_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lehigh-university-libraries/orcidator/format"
	"github.com/lehigh-university-libraries/orcidator/format/qsjson"
	"github.com/lehigh-university-libraries/orcidator/format/qstext"
	"github.com/lehigh-university-libraries/orcidator/format/qsurl"
	"github.com/lehigh-university-libraries/orcidator/quickstatements"
)

func testLines(t *testing.T) []quickstatements.Line {
	t.Helper()
	ref, err := quickstatements.ReferenceURL("https://orcid.org/0000-0002-1825-0097")
	if err != nil {
		t.Fatal(err)
	}
	start, err := quickstatements.StartTime(time.Date(2021, time.February, 1, 0, 0, 0, 0, time.UTC), quickstatements.PrecisionDay)
	if err != nil {
		t.Fatal(err)
	}
	label, err := quickstatements.NewTextLine(quickstatements.Last, quickstatements.PredicateLabel, "Josiah Carberry")
	if err != nil {
		t.Fatal(err)
	}
	employer, err := quickstatements.NewEntityLine(quickstatements.Last, "P108", "Q49121", ref, start)
	if err != nil {
		t.Fatal(err)
	}
	return []quickstatements.Line{quickstatements.CreateLine{}, label, employer}
}

const wantText = `CREATE
LAST|Len|"Josiah Carberry"
LAST|P108|Q49121|S854|"https://orcid.org/0000-0002-1825-0097"|P580|+2021-02-01T00:00:00Z/11
`

func TestTextRoundTrip(t *testing.T) {
	f := &qstext.Format{}
	var buf bytes.Buffer
	if err := f.Serialize(&buf, testLines(t), format.NewSerializeOptions()); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if buf.String() != wantText {
		t.Errorf("serialized text:\n%s\nwant:\n%s", buf.String(), wantText)
	}

	lines, err := f.Parse(strings.NewReader(buf.String()), &format.ParseOptions{Strict: true})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := quickstatements.Render(lines) + "\n"; got != wantText {
		t.Errorf("round trip:\n%s\nwant:\n%s", got, wantText)
	}
}

func TestTextParseLenient(t *testing.T) {
	f := &qstext.Format{}
	input := "CREATE\nLAST|P31\nLAST|P31|Q5\n"

	lines, err := f.Parse(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(lines) != 2 {
		t.Errorf("expected malformed line to be skipped, got %d lines", len(lines))
	}

	if _, err := f.Parse(strings.NewReader(input), &format.ParseOptions{Strict: true, SourceName: "batch.qs"}); err == nil {
		t.Error("strict parse should fail on a malformed line")
	}
}

func TestURLRoundTrip(t *testing.T) {
	f := &qsurl.Format{}
	var buf bytes.Buffer
	if err := f.Serialize(&buf, testLines(t), format.NewSerializeOptions()); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	link := strings.TrimSpace(buf.String())
	if !strings.HasPrefix(link, "https://quickstatements.toolforge.org/#/v1=CREATE%7C%7CLAST%7CLen%7C%22Josiah%20Carberry%22") {
		t.Errorf("unexpected link %s", link)
	}
	if !f.CanParse([]byte(link)) {
		t.Error("CanParse should accept its own output")
	}

	lines, err := f.Parse(strings.NewReader(link), nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := quickstatements.Render(lines) + "\n"; got != wantText {
		t.Errorf("round trip:\n%s\nwant:\n%s", got, wantText)
	}
}

func TestJSONSerialize(t *testing.T) {
	f := &qsjson.Format{}
	var buf bytes.Buffer
	if err := f.Serialize(&buf, testLines(t), format.NewSerializeOptions()); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(decoded) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(decoded))
	}
	if decoded[1]["type"] != "text" || decoded[1]["target"] != "Josiah Carberry" {
		t.Errorf("label statement = %v", decoded[1])
	}
	if !f.CanParse(buf.Bytes()) {
		t.Error("CanParse should recognize statement JSON")
	}
}

func TestRegistry(t *testing.T) {
	r := format.NewRegistry()
	r.Register(&qstext.Format{})
	r.Register(&qsurl.Format{})
	r.Register(&qsjson.Format{})

	if got := strings.Join(r.List(), ","); got != "json,qs,url" {
		t.Errorf("List = %s", got)
	}
	if _, err := r.GetParser("json"); err == nil {
		t.Error("json should not be a parser")
	}
	if _, err := r.GetSerializer("QS"); err != nil {
		t.Errorf("GetSerializer is case-insensitive: %v", err)
	}
	_, err := r.GetSerializer("bibtex")
	if !errors.Is(err, format.ErrUnknownFormat) || !strings.Contains(err.Error(), "json, qs, url") {
		t.Errorf("unknown format error = %v", err)
	}

	f, err := r.Detect("batch.qs", nil)
	if err != nil || f.Name() != "qs" {
		t.Errorf("Detect by extension = %v, %v", f, err)
	}
	f, err = r.Detect("stdin", []byte("  https://quickstatements.toolforge.org/#/v1=CREATE"))
	if err != nil || f.Name() != "url" {
		t.Errorf("Detect by content = %v, %v", f, err)
	}
	if _, err := r.Detect("notes.md", nil); err == nil {
		t.Error("expected detection to fail without extension or content match")
	}
}
