package keyword

import (
	"strings"
	"time"
)

// Update carries new values for the keyword lines of a body. Nil fields
// are left alone.
type Update struct {
	StartDate *time.Time
	DueDate   *time.Time
	Progress  *float64
}

func (u Update) values() map[Field]string {
	v := map[Field]string{}
	if u.StartDate != nil {
		v[StartDate] = u.StartDate.Format(DateLayout)
	}
	if u.DueDate != nil {
		v[DueDate] = u.DueDate.Format(DateLayout)
	}
	if u.Progress != nil {
		v[Progress] = FormatProgress(*u.Progress)
	}
	return v
}

// Patch rewrites the trailing text of every keyword line named in u and
// keeps all other lines verbatim. A field with no line in the body is
// appended as a new line.
func Patch(body string, p Prefixes, u Update) string {
	values := u.values()
	if len(values) == 0 {
		return body
	}

	term := Terminator(body)
	var lines []string
	if body != "" {
		lines = strings.Split(body, term)
	}

	seen := map[Field]bool{}
	for i, line := range lines {
		f, _, ok := p.match(line)
		if !ok {
			continue
		}
		v, ok := values[f]
		if !ok {
			continue
		}
		lines[i] = p.For(f) + " " + v
		seen[f] = true
	}

	var extra []string
	for _, f := range allFields {
		v, ok := values[f]
		if !ok || seen[f] || p.For(f) == "" {
			continue
		}
		extra = append(extra, p.For(f)+" "+v)
	}
	if len(extra) > 0 {
		// keep a trailing terminator at the end of the body
		if n := len(lines); n > 0 && lines[n-1] == "" {
			tail := lines[n-1:]
			lines = append(append(lines[:n-1:n-1], extra...), tail...)
		} else {
			lines = append(lines, extra...)
		}
	}

	return strings.Join(lines, term)
}

// Rewrite swaps the leading prefix old for new on every line that starts
// with old. It reports whether anything changed.
func Rewrite(body, old, new string) (string, bool) {
	if body == "" || old == "" || old == new {
		return body, false
	}
	term := Terminator(body)
	lines := strings.Split(body, term)
	changed := false
	for i, line := range lines {
		if strings.HasPrefix(line, old) {
			lines[i] = new + line[len(old):]
			changed = true
		}
	}
	if !changed {
		return body, false
	}
	return strings.Join(lines, term), true
}
