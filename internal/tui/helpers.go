package tui

import (
	"fmt"
	"strings"
)

// truncate shortens a string to max runes with ellipsis
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// progressBar draws p in [0,1] as a bar of width cells plus a percentage
func progressBar(p *float64, width int) string {
	if p == nil {
		return strings.Repeat("·", width) + "    -"
	}
	filled := int(*p*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + fmt.Sprintf(" %3.0f%%", *p*100)
}
