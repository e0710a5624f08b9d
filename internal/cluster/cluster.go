// Package cluster groups map pins that sit within a threshold distance of
// each other, directly or through a chain of neighbours (single linkage).
// The map draws a cluster badge at the mean position of its members.
package cluster

import (
	"errors"
	"fmt"
	"math"
)

// DefaultThreshold is the surface distance under which two pins join.
const DefaultThreshold = 25.0

// ErrInvalidThreshold indicates a non-positive or non-finite threshold.
var ErrInvalidThreshold = errors.New("cluster: threshold must be positive")

// Member is one pin taking part in clustering.
type Member struct {
	Label string
	X, Y  float64
}

// Cluster is a group of members with their mean position.
type Cluster struct {
	CenterX, CenterY float64
	Members          []Member
}

// Size returns the number of members.
func (c Cluster) Size() int { return len(c.Members) }

// Contains reports whether label is a member.
func (c Cluster) Contains(label string) bool {
	for _, m := range c.Members {
		if m.Label == label {
			return true
		}
	}
	return false
}

// Active reports whether any of the given labels (for example the hovered and
// the selected market) belongs to the cluster. Empty labels are ignored.
func (c Cluster) Active(labels ...string) bool {
	for _, l := range labels {
		if l != "" && c.Contains(l) {
			return true
		}
	}
	return false
}

// Group partitions members into single-link clusters.
//
// Each unassigned member seeds a new cluster; the cluster then absorbs any
// unassigned member closer than threshold to one of its members, repeating
// until nothing joins. Clusters appear in the order of their seeds and
// members in the order they joined, so output is deterministic.
//
// Complexity: O(n³) worst case, which is fine for the handful of pins a
// state map shows.
func Group(members []Member, threshold float64) ([]Cluster, error) {
	if !(threshold > 0) || math.IsInf(threshold, 1) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidThreshold, threshold)
	}

	assigned := make([]bool, len(members))
	var out []Cluster
	for i := range members {
		if assigned[i] {
			continue
		}
		assigned[i] = true
		group := []Member{members[i]}

		for grown := true; grown; {
			grown = false
			for j := range members {
				if assigned[j] {
					continue
				}
				for _, g := range group {
					if math.Hypot(g.X-members[j].X, g.Y-members[j].Y) < threshold {
						group = append(group, members[j])
						assigned[j] = true
						grown = true
						break
					}
				}
			}
		}

		var sx, sy float64
		for _, g := range group {
			sx += g.X
			sy += g.Y
		}
		n := float64(len(group))
		out = append(out, Cluster{CenterX: sx / n, CenterY: sy / n, Members: group})
	}
	return out, nil
}
