package layout

import "math"

// forcePush is phase 1. Every pair closer than MinDistance is pushed apart
// along its connecting vector by Damping times the missing separation, so
// many overlapping pairs can settle together without oscillating.
func (r *resolver) forcePush() {
	eps := r.opts.Epsilon
	for pass := 0; pass < r.opts.ForceIterations; pass++ {
		r.stats.ForcePasses++
		moved := false
		for i := range r.pts {
			for j := i + 1; j < len(r.pts); j++ {
				ux, uy, d := direction(r.pts[i], r.pts[j], eps)
				if d >= r.params.MinDistance {
					continue
				}
				step := (r.target - d) * r.opts.Damping
				if pushApart(r.pts, i, j, ux, uy, step, r.box) {
					moved = true
				}
			}
		}
		if !moved {
			return
		}
	}
}

// directionSearch is phase 2. Force-push can settle into a local optimum,
// typically two markers wedged into a corner, so every overlapping pair tries
// all 64 combinations of the compass directions, each marker moving by the
// missing separation, and keeps the best scoring one.
func (r *resolver) directionSearch() {
	for pass := 0; pass < r.opts.DirectionPasses; pass++ {
		if !r.hasOverlap() {
			return
		}
		r.stats.DirectionPasses++
		for i := range r.pts {
			for j := i + 1; j < len(r.pts); j++ {
				d := distance(r.pts[i], r.pts[j])
				if d >= r.params.MinDistance {
					continue
				}
				need := r.target - d
				a0, b0 := r.pts[i], r.pts[j]
				best := r.pairScore(i, j, a0, b0)
				bestA, bestB := a0, b0
				for _, da := range compass {
					a := r.box.clamp(point{a0.x + da[0]*need, a0.y + da[1]*need})
					for _, db := range compass {
						b := r.box.clamp(point{b0.x + db[0]*need, b0.y + db[1]*need})
						if s := r.pairScore(i, j, a, b); s > best {
							best, bestA, bestB = s, a, b
						}
					}
				}
				r.pts[i], r.pts[j] = bestA, bestB
			}
		}
	}
}

// pairScore rates candidate positions a and b for markers i and j: their
// distance, capped at the target separation, less whatever separation the
// candidates take away from every other marker.
func (r *resolver) pairScore(i, j int, a, b point) float64 {
	score := math.Min(distance(a, b), r.target)
	for k, p := range r.pts {
		if k == i || k == j {
			continue
		}
		if d := distance(a, p); d < r.params.MinDistance {
			score -= r.params.MinDistance - d
		}
		if d := distance(b, p); d < r.params.MinDistance {
			score -= r.params.MinDistance - d
		}
	}
	return score
}

// slackSeparate is phase 3. The missing separation of an overlapping pair is
// split in proportion to how far each marker can travel along the ideal
// direction before hitting the box. When the two slacks cannot cover it,
// markers touching an edge are released inward along the edge normal for the
// next pass; a pair touching no edge is split along its connecting vector.
func (r *resolver) slackSeparate() {
	eps := r.opts.Epsilon
	for pass := 0; pass < r.opts.SlackPasses; pass++ {
		if !r.hasOverlap() {
			return
		}
		r.stats.SlackPasses++
		for i := range r.pts {
			for j := i + 1; j < len(r.pts); j++ {
				ux, uy, d := direction(r.pts[i], r.pts[j], eps)
				if d >= r.params.MinDistance {
					continue
				}
				need := r.target - d
				a, b := r.pts[i], r.pts[j]
				sa := r.box.slack(a, -ux, -uy)
				sb := r.box.slack(b, ux, uy)

				if sa+sb >= need {
					ta := need * sa / (sa + sb)
					tb := need - ta
					r.pts[i] = r.box.clamp(point{a.x - ux*ta, a.y - uy*ta})
					r.pts[j] = r.box.clamp(point{b.x + ux*tb, b.y + uy*tb})
					continue
				}

				nax, nay, pinnedA := r.box.inwardNormal(a, eps)
				nbx, nby, pinnedB := r.box.inwardNormal(b, eps)
				if !pinnedA && !pinnedB {
					pushApart(r.pts, i, j, ux, uy, need, r.box)
					continue
				}
				release := need / 2
				if pinnedA {
					r.pts[i] = r.box.clamp(point{a.x + nax*release, a.y + nay*release})
				}
				if pinnedB {
					r.pts[j] = r.box.clamp(point{b.x + nbx*release, b.y + nby*release})
				}
			}
		}
	}
}

// relaxedFallback is phase 4: undamped direct pushes, first at the configured
// padding and, when RelaxPadding is set, at successively smaller paddings.
// It stops at the first padding level that leaves no overlap.
func (r *resolver) relaxedFallback() {
	eps := r.opts.Epsilon
	for _, pad := range r.paddingLevels() {
		bx := newBox(r.bounds, pad)
		r.stats.EffectivePadding = pad
		for it := 0; it < r.opts.FallbackIterations; it++ {
			r.stats.FallbackPasses++
			moved := false
			for i := range r.pts {
				for j := i + 1; j < len(r.pts); j++ {
					ux, uy, d := direction(r.pts[i], r.pts[j], eps)
					if d >= r.params.MinDistance {
						continue
					}
					if pushApart(r.pts, i, j, ux, uy, r.target-d, bx) {
						moved = true
					}
				}
			}
			if !moved {
				break
			}
		}
		if !r.hasOverlap() {
			return
		}
	}
}

// paddingLevels lists the paddings phase 4 tries, from the configured one
// down to PaddingFloor in PaddingStep decrements.
func (r *resolver) paddingLevels() []float64 {
	pad := r.params.Padding
	levels := []float64{pad}
	if !r.opts.RelaxPadding || pad <= r.opts.PaddingFloor {
		return levels
	}
	for pad > r.opts.PaddingFloor {
		pad = math.Max(pad-r.opts.PaddingStep, r.opts.PaddingFloor)
		levels = append(levels, pad)
	}
	return levels
}
