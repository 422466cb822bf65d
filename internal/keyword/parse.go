// Package keyword reads and rewrites the scheduling lines embedded in
// issue bodies, such as "#### 🗓 Start Date: 2024-01-05".
package keyword

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Field names a scheduling value carried by a keyword line
type Field int

const (
	StartDate Field = iota
	DueDate
	Label
	Progress
)

// String returns the config name of the field
func (f Field) String() string {
	switch f {
	case StartDate:
		return "start_date"
	case DueDate:
		return "due_date"
	case Label:
		return "label"
	case Progress:
		return "progress"
	default:
		return "unknown"
	}
}

// Prefixes holds the literal line prefix for each field. An empty prefix
// disables its field.
type Prefixes struct {
	StartDate string `yaml:"start_date" json:"start_date"`
	DueDate   string `yaml:"due_date" json:"due_date"`
	Label     string `yaml:"label" json:"label"`
	Progress  string `yaml:"progress" json:"progress"`
}

// For returns the prefix configured for f
func (p Prefixes) For(f Field) string {
	switch f {
	case StartDate:
		return p.StartDate
	case DueDate:
		return p.DueDate
	case Label:
		return p.Label
	case Progress:
		return p.Progress
	}
	return ""
}

var allFields = []Field{StartDate, DueDate, Label, Progress}

// Fields maps each matched field to the raw text after its prefix
type Fields map[Field]string

// Terminator returns the line terminator used by body
func Terminator(body string) string {
	if strings.Contains(body, "\r\n") {
		return "\r\n"
	}
	return "\n"
}

// Lines splits body on its terminator
func Lines(body string) []string {
	return strings.Split(body, Terminator(body))
}

// match returns the field whose prefix starts line. Lines are not trimmed.
func (p Prefixes) match(line string) (Field, string, bool) {
	for _, f := range allFields {
		prefix := p.For(f)
		if prefix != "" && strings.HasPrefix(line, prefix) {
			return f, line[len(prefix):], true
		}
	}
	return 0, "", false
}

// Parse scans body top to bottom and returns the trailing text of every
// keyword line. When several lines share a prefix the last one wins.
func Parse(body string, p Prefixes) Fields {
	fields := Fields{}
	if body == "" {
		return fields
	}
	for _, line := range Lines(body) {
		if f, rest, ok := p.match(line); ok {
			fields[f] = rest
		}
	}
	return fields
}

// Date returns the parsed date for f, or false when missing or malformed
func (fs Fields) Date(f Field) (time.Time, bool) {
	raw, ok := fs[f]
	if !ok {
		return time.Time{}, false
	}
	return ParseDate(raw)
}

// Progress returns the parsed progress fraction, or nil
func (fs Fields) Progress() *float64 {
	raw, ok := fs[Progress]
	if !ok {
		return nil
	}
	v, ok := ParseProgress(raw)
	if !ok {
		return nil
	}
	return &v
}

// Label returns the trimmed label name, or "" when absent
func (fs Fields) Label() string {
	return strings.TrimSpace(fs[Label])
}

var dateLayouts = []string{
	DateLayout,
	"2006/01/02",
	"01-02-2006",
	"01/02/2006",
	"01-02-2006 15:04",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	time.RFC3339,
}

// DateLayout is the form dates are written back in
const DateLayout = "2006-01-02"

// ParseDate parses a calendar date and returns it at UTC midnight
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return Day(t), true
		}
	}
	return time.Time{}, false
}

// Day truncates t to midnight UTC of its calendar day
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseProgress parses a fraction between 0 and 1
func ParseProgress(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || v < 0 || v > 1 {
		return 0, false
	}
	return v, true
}

// FormatProgress renders a fraction in its shortest form
func FormatProgress(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
