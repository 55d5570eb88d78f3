package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"decklint/internal/model"
)

const testNS = "decklint:/tmp/deck.pptx"

func testRecord() *model.ScanRecord {
	return &model.ScanRecord{
		Time:       "2026-08-30T10:00:00Z",
		ScanConfig: model.ScanConfig{Mode: "all"},
		PerCheck: []model.CheckSummary{
			{Name: "slideTitles", Success: false, Message: "Found 1 slide(s) missing a clear title.", IssueCount: 1},
		},
		Issues: []model.Issue{
			{Check: "slideTitles", Severity: model.SeveritySerious, SlideNum: 2,
				Title: "Missing slide title", Description: "Add a title so screen readers can identify the slide."},
			{Check: "duplicateTitles", Severity: model.SeverityMinor, IsWarning: true, SlideNum: 1,
				Title: "Duplicate slide title", ExtraKey: "title:intro",
				Description: `The title "intro" is used on slides: 1, 3. This may be OK, but consider making titles unique.`},
		},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, testRecord()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("export should end with a newline")
	}

	var decoded model.ScanRecord
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if decoded.Time != "2026-08-30T10:00:00Z" || len(decoded.Issues) != 2 {
		t.Fatalf("round-trip mismatch: %#v", decoded)
	}
	if decoded.Issues[1].ExtraKey != "title:intro" || !decoded.Issues[1].IsWarning {
		t.Errorf("issue fields lost in export: %#v", decoded.Issues[1])
	}
}

func TestWriteJSONNilRecord(t *testing.T) {
	if err := WriteJSON(&bytes.Buffer{}, nil); err == nil {
		t.Fatal("expected an error with no scan")
	}
}

func TestWriteCSV(t *testing.T) {
	record := testRecord()
	counts := model.Counts{
		Open:         model.OpenCounts{Total: 1, Serious: 1},
		Resolved:     model.ResolvedCounts{Total: 1},
		FilteredOpen: 1,
	}
	resolvedKeys := map[string]bool{model.Key(record.Issues[1], testNS): true}
	intentionalKeys := map[string]bool{}

	var buf bytes.Buffer
	err := WriteCSV(&buf, record, counts, nil, resolvedKeys, intentionalKeys, testNS)
	if err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid CSV: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header + summary + 2 issues, got %d rows", len(rows))
	}

	wantHeader := "scan_time,check,severity,slide_num,shape_id,title,description,resolved,intentional"
	if got := strings.Join(rows[0], ","); got != wantHeader {
		t.Errorf("header = %q, want %q", got, wantHeader)
	}

	summary := rows[1]
	if summary[1] != "SUMMARY" || summary[5] != "Scoring Summary" {
		t.Errorf("summary row malformed: %#v", summary)
	}
	desc := summary[6]
	for _, want := range []string{"Open Total=1", "Resolved=1", "Serious=1", "Gate=FAIL", "Delta(Open)=—"} {
		if !strings.Contains(desc, want) {
			t.Errorf("summary description missing %q: %q", want, desc)
		}
	}

	open := rows[2]
	if open[1] != "slideTitles" || open[2] != "serious" || open[3] != "2" {
		t.Errorf("issue row malformed: %#v", open)
	}
	if open[7] != "false" || open[8] != "false" {
		t.Errorf("open issue flags wrong: %#v", open)
	}

	resolved := rows[3]
	if resolved[7] != "true" || resolved[8] != "false" {
		t.Errorf("resolved issue flags wrong: %#v", resolved)
	}
	// Commas inside the description survive the quoting round trip.
	if !strings.Contains(resolved[6], "slides: 1, 3") {
		t.Errorf("quoted description mangled: %q", resolved[6])
	}
}

func TestWriteCSVDeltasWithPrevious(t *testing.T) {
	record := testRecord()
	counts := model.Counts{Open: model.OpenCounts{Total: 2, Serious: 1, Minor: 1}}
	prev := &model.Counts{Open: model.OpenCounts{Total: 4, Serious: 2, Minor: 2}}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, record, counts, prev, nil, nil, testNS); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	desc := rows[1][6]
	if !strings.Contains(desc, "Delta(Open)=-2") || !strings.Contains(desc, "S -1") {
		t.Errorf("delta not packed into summary: %q", desc)
	}
}

func TestWriteCSVOmitsZeroSlideNum(t *testing.T) {
	record := &model.ScanRecord{
		Time: "2026-08-30T10:00:00Z",
		Issues: []model.Issue{
			{Check: "overlappingElements", Severity: model.SeverityMinor, SlideNum: 0, Title: "x", Description: "y"},
		},
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, record, model.Counts{}, nil, nil, nil, testNS); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if rows[2][3] != "" {
		t.Errorf("slide_num should be blank for deck-level issues, got %q", rows[2][3])
	}
}

func TestStamp(t *testing.T) {
	at := time.Date(2026, 8, 30, 10, 4, 5, 123_000_000, time.UTC)
	got := Stamp(at)
	want := "2026-08-30T10-04-05-123Z"
	if got != want {
		t.Errorf("Stamp = %q, want %q", got, want)
	}
	if strings.ContainsAny(got, ":.") {
		t.Errorf("stamp must be filename-safe, got %q", got)
	}
}

func TestFilename(t *testing.T) {
	at := time.Date(2026, 8, 30, 10, 4, 5, 0, time.UTC)
	got := Filename("csv", at)
	want := "decklint-scan-2026-08-30T10-04-05-000Z.csv"
	if got != want {
		t.Errorf("Filename = %q, want %q", got, want)
	}
}
