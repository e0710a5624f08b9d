// Package layout keeps map pins legible by moving geographically close
// markers apart on a 2D drawing surface.
//
// What it does:
//
//	Given markers already projected to surface coordinates, a minimum
//	center-to-center distance and an edge padding, Resolve returns one
//	placement per marker such that, whenever the surface has room for it,
//	no two placements are closer than the minimum distance. Every placement
//	stays inside the padded surface and as near its true position as the
//	resolution phases allow. Markers that could not be separated are
//	reported in Result.Unresolved so the renderer can draw them smaller.
//
// Phases (each runs only while overlaps remain):
//
//   - force: damped pairwise pushes with wall-to-partner transfer
//   - direction: best of 8x8 axis/diagonal moves per overlapping pair
//   - slack: movement split by available room, pinned markers released
//   - fallback: direct pushes, optionally at relaxed padding
//
// Usage:
//
//	res, err := layout.Resolve(markers,
//	    layout.Bounds{Width: 500, Height: 420},
//	    layout.Params{MinDistance: 32, Padding: 18},
//	    nil) // DefaultOptions
//	if err != nil {
//	    // ErrInvalidBounds, ErrInvalidParams, ErrDuplicateLabel, ...
//	}
//	for _, p := range res.Placements {
//	    small := res.Unresolved.Has(p.Label)
//	    ...
//	}
//
// Resolve is pure and holds no shared state, so independent marker sets can
// be resolved concurrently. Callers that re-run it on every input change
// should debounce on their side.
package layout
