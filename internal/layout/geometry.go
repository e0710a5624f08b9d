package layout

import "math"

// point is a mutable working position.
type point struct {
	x, y float64
}

// diagonal is the unit component of a 45° vector.
var diagonal = 1 / math.Sqrt2

// compass lists the candidate directions of the exhaustive search:
// the four axis directions followed by the four diagonals.
var compass = [8][2]float64{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{diagonal, diagonal}, {-diagonal, diagonal}, {diagonal, -diagonal}, {-diagonal, -diagonal},
}

// distance returns the planar Euclidean distance between a and b.
func distance(a, b point) float64 {
	return math.Hypot(b.x-a.x, b.y-a.y)
}

// direction returns the unit vector from a to b and their distance.
// Centers closer than eps are coincident and get the fixed 45° direction.
func direction(a, b point, eps float64) (ux, uy, d float64) {
	dx, dy := b.x-a.x, b.y-a.y
	d = math.Hypot(dx, dy)
	if d < eps {
		return diagonal, diagonal, d
	}
	return dx / d, dy / d, d
}

// box is the padded region every working position must stay in.
type box struct {
	minX, minY, maxX, maxY float64
}

func newBox(b Bounds, pad float64) box {
	return box{minX: pad, minY: pad, maxX: b.Width - pad, maxY: b.Height - pad}
}

// clamp returns p moved onto the nearest point of the box.
func (bx box) clamp(p point) point {
	return point{
		x: math.Min(math.Max(p.x, bx.minX), bx.maxX),
		y: math.Min(math.Max(p.y, bx.minY), bx.maxY),
	}
}

// slack returns how far p can travel along (ux, uy) before leaving the box.
// A zero vector has no slack.
func (bx box) slack(p point, ux, uy float64) float64 {
	t := math.Inf(1)
	switch {
	case ux > 0:
		t = math.Min(t, (bx.maxX-p.x)/ux)
	case ux < 0:
		t = math.Min(t, (bx.minX-p.x)/ux)
	}
	switch {
	case uy > 0:
		t = math.Min(t, (bx.maxY-p.y)/uy)
	case uy < 0:
		t = math.Min(t, (bx.minY-p.y)/uy)
	}
	if math.IsInf(t, 1) || t < 0 {
		return 0
	}
	return t
}

// inwardNormal returns the unit direction pointing away from every edge p
// touches (within eps). pinned is false when p touches no edge.
func (bx box) inwardNormal(p point, eps float64) (nx, ny float64, pinned bool) {
	if p.x-bx.minX <= eps {
		nx++
	}
	if bx.maxX-p.x <= eps {
		nx--
	}
	if p.y-bx.minY <= eps {
		ny++
	}
	if bx.maxY-p.y <= eps {
		ny--
	}
	l := math.Hypot(nx, ny)
	if l == 0 {
		return 0, 0, false
	}
	return nx / l, ny / l, true
}

// pushApart grows the separation of pts[i] and pts[j] along the unit vector
// (ux, uy), which points from i to j, by total. Each marker takes half;
// whatever one marker cannot take because of a wall is handed to the other.
// It reports whether either marker moved.
func pushApart(pts []point, i, j int, ux, uy, total float64, bx box) bool {
	a0, b0 := pts[i], pts[j]
	half := total / 2

	a := bx.clamp(point{a0.x - ux*half, a0.y - uy*half})
	gotA := (a0.x-a.x)*ux + (a0.y-a.y)*uy

	wantB := total - gotA
	b := bx.clamp(point{b0.x + ux*wantB, b0.y + uy*wantB})
	gotB := (b.x-b0.x)*ux + (b.y-b0.y)*uy

	if rest := wantB - gotB; rest > 0 {
		a = bx.clamp(point{a.x - ux*rest, a.y - uy*rest})
	}

	pts[i], pts[j] = a, b
	return a != a0 || b != b0
}
