package sync

import (
	"strings"

	"github.com/existflow/issuegantt/internal/model"
)

// LabelResolver looks up label names against the repository's label set
type LabelResolver struct {
	byName map[string]model.Label
}

// NewLabelResolver indexes labels by exact name. A later duplicate name
// replaces an earlier one.
func NewLabelResolver(labels []model.Label) *LabelResolver {
	r := &LabelResolver{byName: make(map[string]model.Label, len(labels))}
	for _, l := range labels {
		r.byName[l.Name] = l
	}
	return r
}

// Resolve returns the canonical label for name. Matching is exact and
// case-sensitive; the color comes back as CSS hex with a leading '#'.
func (r *LabelResolver) Resolve(name string) (model.Label, bool) {
	if r == nil || name == "" {
		return model.Label{}, false
	}
	l, ok := r.byName[name]
	if !ok {
		return model.Label{}, false
	}
	l.Color = CSSColor(l.Color)
	return l, true
}

// CSSColor prefixes a bare hex color with '#'
func CSSColor(c string) string {
	c = strings.TrimSpace(c)
	if c == "" || strings.HasPrefix(c, "#") {
		return c
	}
	return "#" + c
}
