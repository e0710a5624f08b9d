package render

import (
	"sort"

	"marketmap/internal/layout"
)

// PositionIndex maps a market label to the surface position the resolver
// chose for it. It is built once after layout and never modified, so it is
// safe to share between goroutines.
type PositionIndex struct {
	pos map[string]layout.Placement
}

// NewPositionIndex indexes placements by label.
func NewPositionIndex(placements []layout.Placement) PositionIndex {
	m := make(map[string]layout.Placement, len(placements))
	for _, p := range placements {
		m[p.Label] = p
	}
	return PositionIndex{pos: m}
}

// Lookup returns the placed position of label.
func (ix PositionIndex) Lookup(label string) (x, y float64, ok bool) {
	p, ok := ix.pos[label]
	return p.X, p.Y, ok
}

// Len returns the number of indexed labels.
func (ix PositionIndex) Len() int { return len(ix.pos) }

// Labels returns the indexed labels in lexical order.
func (ix PositionIndex) Labels() []string {
	out := make([]string, 0, len(ix.pos))
	for l := range ix.pos {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
