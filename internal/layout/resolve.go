package layout

import (
	"fmt"
	"math"
)

// Resolve moves possibly-overlapping markers apart until every pair of
// centers is at least params.MinDistance apart, keeping every center inside
// the padded surface and as close to its true position as the phases allow.
//
// Algorithm Outline:
//  1. Copy the markers and clamp them into the padded box.
//  2. Force-push relaxation: damped pairwise pushes, wall-blocked movement
//     handed to the partner, until a pass moves nothing.
//  3. Exhaustive-direction search: for each overlapping pair, the best of
//     the 8x8 axis/diagonal move combinations.
//  4. Slack-based separation: movement split by available room; pinned
//     markers are released along their inward normal.
//  5. Relaxed-padding fallback: direct pushes at decreasing padding levels
//     (only the configured level unless opts.RelaxPadding is set).
//  6. Scan every pair; labels of pairs still too close go to Unresolved.
//
// Each phase only runs while overlaps remain and every loop has a fixed cap,
// so crowded inputs terminate with a populated Unresolved set instead of
// hanging. The function is pure: the same input order and options always
// produce the same output, and markers is never modified.
//
// A nil opts uses DefaultOptions.
//
// Errors:
//   - ErrInvalidBounds: non-positive surface or padding with no interior.
//   - ErrInvalidParams: MinDistance <= 0, Padding < 0 or bad Options.
//   - ErrEmptyLabel: a marker without a label.
//   - ErrDuplicateLabel: two markers sharing a label.
//   - ErrNonFiniteCoordinate: NaN or infinite coordinates.
//
// Complexity: O(P·n²) for phases 1 and 4, O(P·n³·64) for phase 2 where P is
// the pass cap, O(n) memory.
func Resolve(markers []Marker, bounds Bounds, params Params, opts *Options) (Result, error) {
	o := DefaultOptions()
	if opts != nil {
		o = *opts
	}
	if err := validate(markers, bounds, params, o); err != nil {
		return Result{}, err
	}

	r := newResolver(markers, bounds, params, o)
	r.run()

	return r.result(markers), nil
}

// validate checks the preconditions of Resolve.
func validate(markers []Marker, bounds Bounds, params Params, o Options) error {
	if !(bounds.Width > 0) || !(bounds.Height > 0) || math.IsInf(bounds.Width, 0) || math.IsInf(bounds.Height, 0) {
		return fmt.Errorf("%w: surface %gx%g", ErrInvalidBounds, bounds.Width, bounds.Height)
	}
	if !(params.MinDistance > 0) || math.IsInf(params.MinDistance, 0) {
		return fmt.Errorf("%w: min distance %g", ErrInvalidParams, params.MinDistance)
	}
	if !(params.Padding >= 0) {
		return fmt.Errorf("%w: padding %g", ErrInvalidParams, params.Padding)
	}
	if 2*params.Padding >= math.Min(bounds.Width, bounds.Height) {
		return fmt.Errorf("%w: padding %g on %gx%g", ErrInvalidBounds, params.Padding, bounds.Width, bounds.Height)
	}
	switch {
	case o.ForceIterations < 0, o.DirectionPasses < 0, o.SlackPasses < 0, o.FallbackIterations < 0:
		return fmt.Errorf("%w: negative iteration cap", ErrInvalidParams)
	case !(o.Damping > 0) || o.Damping > 1:
		return fmt.Errorf("%w: damping %g outside (0,1]", ErrInvalidParams, o.Damping)
	case !(o.Epsilon > 0):
		return fmt.Errorf("%w: epsilon %g", ErrInvalidParams, o.Epsilon)
	case !(o.SafetyMargin >= 0):
		return fmt.Errorf("%w: safety margin %g", ErrInvalidParams, o.SafetyMargin)
	case o.RelaxPadding && (!(o.PaddingStep > 0) || !(o.PaddingFloor >= 0)):
		return fmt.Errorf("%w: padding step %g floor %g", ErrInvalidParams, o.PaddingStep, o.PaddingFloor)
	}

	seen := make(map[string]int, len(markers))
	for i, m := range markers {
		if m.Label == "" {
			return fmt.Errorf("%w: marker %d", ErrEmptyLabel, i)
		}
		if prev, ok := seen[m.Label]; ok {
			return fmt.Errorf("%w: %q at %d and %d", ErrDuplicateLabel, m.Label, prev, i)
		}
		seen[m.Label] = i
		if math.IsNaN(m.X) || math.IsNaN(m.Y) || math.IsInf(m.X, 0) || math.IsInf(m.Y, 0) {
			return fmt.Errorf("%w: %q at (%g, %g)", ErrNonFiniteCoordinate, m.Label, m.X, m.Y)
		}
	}
	return nil
}

// resolver holds the per-call working state. Nothing in it outlives Resolve.
type resolver struct {
	pts    []point
	bounds Bounds
	params Params
	opts   Options
	box    box
	target float64
	stats  Stats
}

func newResolver(markers []Marker, bounds Bounds, params Params, o Options) *resolver {
	r := &resolver{
		pts:    make([]point, len(markers)),
		bounds: bounds,
		params: params,
		opts:   o,
		box:    newBox(bounds, params.Padding),
		target: params.MinDistance + o.SafetyMargin,
	}
	r.stats.EffectivePadding = params.Padding
	for i, m := range markers {
		r.pts[i] = r.box.clamp(point{m.X, m.Y})
	}
	return r
}

// run applies the phases in order until no pair overlaps.
func (r *resolver) run() {
	phases := []struct {
		phase Phase
		fn    func()
	}{
		{PhaseForce, r.forcePush},
		{PhaseDirection, r.directionSearch},
		{PhaseSlack, r.slackSeparate},
		{PhaseFallback, r.relaxedFallback},
	}
	for _, p := range phases {
		if !r.hasOverlap() {
			return
		}
		r.stats.LastPhase = p.phase
		p.fn()
	}
}

// overlapping reports whether pts[i] and pts[j] are closer than MinDistance.
func (r *resolver) overlapping(i, j int) bool {
	return distance(r.pts[i], r.pts[j]) < r.params.MinDistance
}

func (r *resolver) hasOverlap() bool {
	for i := range r.pts {
		for j := i + 1; j < len(r.pts); j++ {
			if r.overlapping(i, j) {
				return true
			}
		}
	}
	return false
}

// result builds the public Result, including the final overlap scan.
func (r *resolver) result(markers []Marker) Result {
	res := Result{
		Placements: make([]Placement, len(markers)),
		Unresolved: make(OverlapSet),
		Stats:      r.stats,
	}
	for i, m := range markers {
		res.Placements[i] = Placement{Label: m.Label, X: r.pts[i].x, Y: r.pts[i].y}
	}
	for i := range r.pts {
		for j := i + 1; j < len(r.pts); j++ {
			if r.overlapping(i, j) {
				res.Unresolved[markers[i].Label] = struct{}{}
				res.Unresolved[markers[j].Label] = struct{}{}
			}
		}
	}
	return res
}
