package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// interior300 is the padded box of a 300x300 surface with padding 18.
var interior300 = newBox(Bounds{Width: 300, Height: 300}, 18)

func TestPushApart_WallTransfersToPartner(t *testing.T) {
	// i sits on the minX wall, so j takes the whole push.
	pts := []point{{18, 100}, {30, 100}}
	moved := pushApart(pts, 0, 1, 1, 0, 20, interior300)
	assert.True(t, moved)
	assert.Equal(t, point{18, 100}, pts[0])
	assert.InDelta(t, 50, pts[1].x, 1e-9, "j absorbs the full 20")
	assert.Equal(t, 100.0, pts[1].y)

	// j hits the maxX wall after 2 units; i takes the remaining 8.
	pts = []point{{270, 100}, {280, 100}}
	moved = pushApart(pts, 0, 1, 1, 0, 20, interior300)
	assert.True(t, moved)
	assert.InDelta(t, 252, pts[0].x, 1e-9)
	assert.InDelta(t, 282, pts[1].x, 1e-9)

	// Both pinned against opposite walls: nothing moves.
	pts = []point{{18, 100}, {282, 100}}
	assert.False(t, pushApart(pts, 0, 1, 1, 0, 10, interior300))
	assert.Equal(t, []point{{18, 100}, {282, 100}}, pts)
}

func TestPushApart_SplitsEvenlyInOpenSpace(t *testing.T) {
	pts := []point{{100, 100}, {110, 100}}
	require.True(t, pushApart(pts, 0, 1, 1, 0, 20, interior300))
	assert.InDelta(t, 90, pts[0].x, 1e-9)
	assert.InDelta(t, 120, pts[1].x, 1e-9)
}

func TestBox_Slack(t *testing.T) {
	p := point{100, 50}
	assert.InDelta(t, 182, interior300.slack(p, 1, 0), 1e-9)
	assert.InDelta(t, 82, interior300.slack(p, -1, 0), 1e-9)
	assert.InDelta(t, 232, interior300.slack(p, 0, 1), 1e-9)
	assert.InDelta(t, 32, interior300.slack(p, 0, -1), 1e-9)
	// The diagonal is limited by the nearer edge (x here).
	assert.InDelta(t, 182/diagonal, interior300.slack(p, diagonal, diagonal), 1e-9)
	assert.InDelta(t, 32/diagonal, interior300.slack(p, -diagonal, -diagonal), 1e-9)

	assert.Zero(t, interior300.slack(p, 0, 0), "zero vector")
	assert.InDelta(t, 0, interior300.slack(point{18, 100}, -1, 0), 1e-12, "on the wall, moving out")
	assert.InDelta(t, 0, interior300.slack(point{18, 18}, -diagonal, diagonal), 1e-12, "corner")
}

func TestBox_InwardNormal(t *testing.T) {
	const eps = 0.01
	cases := []struct {
		name   string
		p      point
		nx, ny float64
		pinned bool
	}{
		{"Interior", point{100, 100}, 0, 0, false},
		{"MinX", point{18, 100}, 1, 0, true},
		{"MaxX", point{282, 100}, -1, 0, true},
		{"MinY", point{100, 18}, 0, 1, true},
		{"MaxY", point{100, 282}, 0, -1, true},
		{"WithinEpsilon", point{18.005, 100}, 1, 0, true},
		{"JustOutsideEpsilon", point{18.02, 100}, 0, 0, false},
		{"CornerMinXMinY", point{18, 18}, diagonal, diagonal, true},
		{"CornerMinXMaxY", point{18, 282}, diagonal, -diagonal, true},
		{"CornerMaxXMaxY", point{282, 282}, -diagonal, -diagonal, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			nx, ny, pinned := interior300.inwardNormal(tc.p, eps)
			assert.Equal(t, tc.pinned, pinned)
			assert.InDelta(t, tc.nx, nx, 1e-12)
			assert.InDelta(t, tc.ny, ny, 1e-12)
		})
	}
}

// testResolver builds a resolver on a 300x300 surface with padding 18 and
// min distance 32 (target separation 32.5).
func testResolver(pts []point, mutate func(*Options)) *resolver {
	markers := make([]Marker, len(pts))
	for i, p := range pts {
		markers[i] = Marker{Label: string(rune('a' + i)), X: p.x, Y: p.y}
	}
	o := DefaultOptions()
	if mutate != nil {
		mutate(&o)
	}
	return newResolver(markers, Bounds{Width: 300, Height: 300}, Params{MinDistance: 32, Padding: 18}, o)
}

func TestForcePush_DampedStep(t *testing.T) {
	r := testResolver([]point{{100, 100}, {110, 100}}, func(o *Options) { o.ForceIterations = 1 })
	r.forcePush()
	// (32.5 - 10) * 0.6 = 13.5, split evenly.
	assert.InDelta(t, 93.25, r.pts[0].x, 1e-9)
	assert.InDelta(t, 116.75, r.pts[1].x, 1e-9)
	assert.Equal(t, 1, r.stats.ForcePasses)
}

func TestSlackSeparate_ProportionalSplit(t *testing.T) {
	// a has 12 units of room toward minX, b has 242 toward maxX.
	r := testResolver([]point{{30, 100}, {40, 100}}, nil)
	r.slackSeparate()

	need := 32.5 - 10.0
	ta := need * 12 / (12 + 242)
	tb := need - ta
	assert.InDelta(t, 30-ta, r.pts[0].x, 1e-9)
	assert.InDelta(t, 40+tb, r.pts[1].x, 1e-9)
	assert.Equal(t, 100.0, r.pts[0].y)
	assert.Equal(t, 100.0, r.pts[1].y)
	assert.InDelta(t, 32.5, distance(r.pts[0], r.pts[1]), 1e-9)
	assert.Equal(t, 1, r.stats.SlackPasses, "separated after one pass")
}

func TestSlackSeparate_ReleasesPinnedMarkers(t *testing.T) {
	// On a 60x60 surface the interior is 18..42. Along the vertical the pair
	// has 0 + 14 units of room for 22.5 of missing separation, so both
	// pinned markers are released along their inward normals instead.
	markers := []Marker{{Label: "a", X: 18, Y: 18}, {Label: "b", X: 18, Y: 28}}
	o := DefaultOptions()
	o.SlackPasses = 1
	r := newResolver(markers, Bounds{Width: 60, Height: 60}, Params{MinDistance: 32, Padding: 18}, o)
	r.slackSeparate()

	release := (32.5 - 10.0) / 2
	// a is in the corner and moves along the diagonal; b is on the minX edge.
	assert.InDelta(t, 18+diagonal*release, r.pts[0].x, 1e-9)
	assert.InDelta(t, 18+diagonal*release, r.pts[0].y, 1e-9)
	assert.InDelta(t, 18+release, r.pts[1].x, 1e-9)
	assert.InDelta(t, 28, r.pts[1].y, 1e-9)
}

func TestResolve_DirectionSearchAlone(t *testing.T) {
	markers := []Marker{{Label: "a", X: 18, Y: 18}, {Label: "b", X: 20, Y: 18}}
	o := DefaultOptions()
	o.ForceIterations = 0
	o.SlackPasses = 0
	o.FallbackIterations = 0

	res, err := Resolve(markers, Bounds{Width: 300, Height: 300}, Params{MinDistance: 32, Padding: 18}, &o)
	require.NoError(t, err)
	assert.Zero(t, res.Unresolved.Len())
	assert.Equal(t, PhaseDirection, res.Stats.LastPhase)
	assert.Equal(t, 1, res.Stats.DirectionPasses)
	assert.Zero(t, res.Stats.ForcePasses)

	// a moves right by the missing 30.5, b moves down: the first candidate
	// to reach the capped score.
	assert.InDelta(t, 48.5, res.Placements[0].X, 1e-9)
	assert.InDelta(t, 18, res.Placements[0].Y, 1e-9)
	assert.InDelta(t, 20, res.Placements[1].X, 1e-9)
	assert.InDelta(t, 48.5, res.Placements[1].Y, 1e-9)
}

func TestResolve_SlackAlone(t *testing.T) {
	markers := []Marker{{Label: "a", X: 30, Y: 100}, {Label: "b", X: 40, Y: 100}}
	o := DefaultOptions()
	o.ForceIterations = 0
	o.DirectionPasses = 0
	o.FallbackIterations = 0

	res, err := Resolve(markers, Bounds{Width: 300, Height: 300}, Params{MinDistance: 32, Padding: 18}, &o)
	require.NoError(t, err)
	assert.Zero(t, res.Unresolved.Len())
	assert.Equal(t, PhaseSlack, res.Stats.LastPhase)
	assert.Equal(t, 1, res.Stats.SlackPasses)
	assert.Less(t, 30-res.Placements[0].X, res.Placements[1].X-40, "a has less room and moves less")
}

func TestPairScore_PenalizesThirdParties(t *testing.T) {
	r := testResolver([]point{{100, 100}, {110, 100}, {200, 200}}, nil)
	free := r.pairScore(0, 1, point{100, 100}, point{150, 100})
	assert.InDelta(t, 32.5, free, 1e-9, "capped at the target")

	// Moving b to 10 units from c costs 32 - 10 = 22.
	crowded := r.pairScore(0, 1, point{100, 100}, point{190, 200})
	assert.InDelta(t, 32.5-22, crowded, 1e-9)
}
