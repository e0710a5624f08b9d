package layout_test

import (
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"marketmap/internal/layout"
)

// toMarkers labels raw coordinate pairs m0, m1, ...
func toMarkers(xs, ys []float64) []layout.Marker {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	out := make([]layout.Marker, n)
	for i := 0; i < n; i++ {
		out[i] = layout.Marker{Label: fmt.Sprintf("m%d", i), X: xs[i], Y: ys[i]}
	}
	return out
}

// TestResolveProperties checks the resolver invariants on random inputs.
func TestResolveProperties(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 40
	parameters.Rng.Seed(1234)

	properties := gopter.NewProperties(parameters)

	crowded := layout.Bounds{Width: 200, Height: 160}
	coords := gen.SliceOfN(20, gen.Float64Range(-20, 220))

	// Property 1: one placement per marker, same labels, same order.
	properties.Property("cardinality and labels are preserved", prop.ForAll(
		func(xs, ys []float64) bool {
			markers := toMarkers(xs, ys)
			res, err := layout.Resolve(markers, crowded, mapParams, nil)
			if err != nil || len(res.Placements) != len(markers) {
				return false
			}
			for i, p := range res.Placements {
				if p.Label != markers[i].Label {
					return false
				}
			}
			for l := range res.Unresolved {
				found := false
				for _, m := range markers {
					found = found || m.Label == l
				}
				if !found {
					return false
				}
			}
			return true
		},
		coords, coords,
	))

	// Property 2: every placement stays inside the padded box.
	properties.Property("placements stay inside the padded surface", prop.ForAll(
		func(xs, ys []float64) bool {
			res, err := layout.Resolve(toMarkers(xs, ys), crowded, mapParams, nil)
			if err != nil {
				return false
			}
			for _, p := range res.Placements {
				if p.X < mapParams.Padding || p.X > crowded.Width-mapParams.Padding ||
					p.Y < mapParams.Padding || p.Y > crowded.Height-mapParams.Padding ||
					math.IsNaN(p.X) || math.IsNaN(p.Y) {
					return false
				}
			}
			return true
		},
		coords, coords,
	))

	// Property 3: the unresolved set is exactly the labels of too-close pairs.
	properties.Property("unresolved matches the final overlap scan", prop.ForAll(
		func(xs, ys []float64) bool {
			res, err := layout.Resolve(toMarkers(xs, ys), crowded, mapParams, nil)
			if err != nil {
				return false
			}
			want := layout.OverlapSet{}
			ps := res.Placements
			for i := range ps {
				for j := i + 1; j < len(ps); j++ {
					if math.Hypot(ps[i].X-ps[j].X, ps[i].Y-ps[j].Y) < mapParams.MinDistance {
						want[ps[i].Label] = struct{}{}
						want[ps[j].Label] = struct{}{}
					}
				}
			}
			return reflect.DeepEqual(want, res.Unresolved)
		},
		coords, coords,
	))

	// Property 4: identical inputs give identical outputs.
	properties.Property("resolution is deterministic", prop.ForAll(
		func(xs, ys []float64) bool {
			markers := toMarkers(xs, ys)
			a, errA := layout.Resolve(markers, crowded, mapParams, nil)
			b, errB := layout.Resolve(markers, crowded, mapParams, nil)
			return errA == nil && errB == nil && reflect.DeepEqual(a, b)
		},
		coords, coords,
	))

	// Property 5: a sparse map (at most 5 pins on 500x500) always separates.
	roomy := layout.Bounds{Width: 500, Height: 500}
	sparse := gen.SliceOfN(5, gen.Float64Range(0, 500))
	properties.Property("sparse maps are fully separated", prop.ForAll(
		func(xs, ys []float64) bool {
			res, err := layout.Resolve(toMarkers(xs, ys), roomy, mapParams, nil)
			return err == nil && res.Unresolved.Len() == 0 &&
				minPairDistance(res.Placements) >= mapParams.MinDistance
		},
		sparse, sparse,
	))

	// Property 6: already separated, in-bounds input is returned unchanged.
	properties.Property("separated input is a fixed point", prop.ForAll(
		func(cols, rows []int) bool {
			// Lattice points 40 units apart are always separated.
			var markers []layout.Marker
			used := map[[2]int]bool{}
			for i := 0; i < len(cols) && i < len(rows); i++ {
				cell := [2]int{cols[i], rows[i]}
				if used[cell] {
					continue
				}
				used[cell] = true
				markers = append(markers, layout.Marker{
					Label: fmt.Sprintf("c%d_%d", cell[0], cell[1]),
					X:     20 + 40*float64(cell[0]),
					Y:     20 + 40*float64(cell[1]),
				})
			}
			res, err := layout.Resolve(markers, roomy, mapParams, nil)
			if err != nil || res.Unresolved.Len() != 0 {
				return false
			}
			for i, p := range res.Placements {
				if math.Abs(p.X-markers[i].X) > 1e-9 || math.Abs(p.Y-markers[i].Y) > 1e-9 {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(10, gen.IntRange(0, 11)),
		gen.SliceOfN(10, gen.IntRange(0, 11)),
	))

	properties.TestingRun(t)
}
