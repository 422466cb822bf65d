package keyword

import (
	"testing"
	"time"
)

var testPrefixes = Prefixes{
	StartDate: "#### Start Date:",
	DueDate:   "#### Due Date:",
	Label:     "#### Team:",
	Progress:  "#### Progress:",
}

func TestParseScenario(t *testing.T) {
	body := "#### Start Date: 2024-01-05\r\nHello\r\n#### Progress: 0.5"

	fields := Parse(body, testPrefixes)

	start, ok := fields.Date(StartDate)
	if !ok {
		t.Fatalf("expected start date to parse, fields: %#v", fields)
	}
	want := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	if !start.Equal(want) {
		t.Errorf("Expected start %v, got %v", want, start)
	}

	p := fields.Progress()
	if p == nil || *p != 0.5 {
		t.Errorf("Expected progress 0.5, got %v", p)
	}

	if _, ok := fields.Date(DueDate); ok {
		t.Errorf("Expected due date to be absent")
	}
	if fields.Label() != "" {
		t.Errorf("Expected no label, got %q", fields.Label())
	}
}

func TestParseLastMatchWins(t *testing.T) {
	body := "#### Team: frontend\n#### Team: backend\n"
	if got := Parse(body, testPrefixes).Label(); got != "backend" {
		t.Errorf("Expected label 'backend', got %q", got)
	}
}

func TestParseUntrimmedLines(t *testing.T) {
	body := "  #### Start Date: 2024-01-05\n#### Team:   ops  "
	fields := Parse(body, testPrefixes)
	if _, ok := fields[StartDate]; ok {
		t.Errorf("Expected indented line not to match")
	}
	if got := fields.Label(); got != "ops" {
		t.Errorf("Expected label 'ops', got %q", got)
	}
}

func TestParseEmptyLabelIsAbsent(t *testing.T) {
	fields := Parse("#### Team:    \r\n", testPrefixes)
	if got := fields.Label(); got != "" {
		t.Errorf("Expected empty label, got %q", got)
	}
}

func TestParseEmptyPrefixNeverMatches(t *testing.T) {
	fields := Parse("anything\nelse", Prefixes{})
	if len(fields) != 0 {
		t.Errorf("Expected no fields, got %#v", fields)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{" 2024-01-05", "2024-01-05", true},
		{"2024/01/05 ", "2024-01-05", true},
		{"01-05-2024", "2024-01-05", true},
		{"01/05/2024", "2024-01-05", true},
		{"01-05-2024 00:00", "2024-01-05", true},
		{"Jan 5, 2024", "2024-01-05", true},
		{"January 5, 2024", "2024-01-05", true},
		{"5 Jan 2024", "2024-01-05", true},
		{"2024-01-05T13:45:00Z", "2024-01-05", true},
		{"", "", false},
		{"soon", "", false},
		{"2024-13-45", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseDate(tt.raw)
		if ok != tt.ok {
			t.Errorf("ParseDate(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			continue
		}
		if ok && got.Format(DateLayout) != tt.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tt.raw, got.Format(DateLayout), tt.want)
		}
		if ok && got.Location() != time.UTC {
			t.Errorf("ParseDate(%q) location = %v, want UTC", tt.raw, got.Location())
		}
	}
}

func TestParseProgress(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"0.5", 0.5, true},
		{" 1 ", 1, true},
		{"0", 0, true},
		{"1.5", 0, false},
		{"-0.1", 0, false},
		{"NaN", 0, false},
		{"half", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseProgress(tt.raw)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseProgress(%q) = %v, %v, want %v, %v", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTerminator(t *testing.T) {
	if Terminator("a\r\nb") != "\r\n" {
		t.Errorf("Expected CRLF terminator")
	}
	if Terminator("a\nb") != "\n" {
		t.Errorf("Expected LF terminator")
	}
	if Terminator("") != "\n" {
		t.Errorf("Expected LF terminator for empty body")
	}
}
