package layout

import "sort"

// Marker is the true projected position of one market on the drawing surface.
// Label must be unique within a single Resolve call.
type Marker struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Placement is the adjusted position the resolver chose for a Marker.
type Placement struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Bounds holds the drawing surface extents.
type Bounds struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Params are the presentation-layer policy values for one resolution.
//
//   - MinDistance is the smallest acceptable center-to-center distance.
//   - Padding is the smallest acceptable distance from a center to the edge.
type Params struct {
	MinDistance float64 `json:"min_distance"`
	Padding     float64 `json:"padding"`
}

// Options tunes the four resolution phases. The zero value is not useful;
// start from DefaultOptions and override individual fields.
//
// The constants were chosen empirically. They are defaults, not contracts:
// the only guarantees are the ones documented on Resolve.
type Options struct {
	// ForceIterations caps the force-push relaxation passes (phase 1).
	ForceIterations int
	// Damping is the share of a pair's overlap corrected per force-push step.
	Damping float64
	// DirectionPasses caps the exhaustive 8x8 direction search passes (phase 2).
	DirectionPasses int
	// SlackPasses caps the slack-based separation passes (phase 3).
	SlackPasses int
	// FallbackIterations caps the direct push passes per padding level (phase 4).
	FallbackIterations int
	// RelaxPadding lets phase 4 shrink the padding below Params.Padding.
	// When false phase 4 runs once at the configured padding, so every
	// placement stays inside the configured padded box.
	RelaxPadding bool
	// PaddingStep is the decrement applied per relaxed padding level.
	PaddingStep float64
	// PaddingFloor is the smallest padding phase 4 will try.
	PaddingFloor float64
	// Epsilon is the distance under which two centers count as coincident.
	Epsilon float64
	// SafetyMargin is added to every required separation.
	SafetyMargin float64
}

// DefaultOptions returns the tuning used by the market maps:
// 50 force passes with damping 0.6, 5 direction passes, 20 slack passes,
// 30 fallback passes per level, padding relaxation off (step 2, floor 4),
// epsilon 0.01 and a 0.5 unit safety margin.
func DefaultOptions() Options {
	return Options{
		ForceIterations:    50,
		Damping:            0.6,
		DirectionPasses:    5,
		SlackPasses:        20,
		FallbackIterations: 30,
		RelaxPadding:       false,
		PaddingStep:        2,
		PaddingFloor:       4,
		Epsilon:            0.01,
		SafetyMargin:       0.5,
	}
}

// Phase identifies the last resolution phase that ran.
type Phase int

const (
	// PhaseNone means the input needed no adjustment.
	PhaseNone Phase = iota
	// PhaseForce is the damped force-push relaxation.
	PhaseForce
	// PhaseDirection is the exhaustive 8x8 direction search.
	PhaseDirection
	// PhaseSlack is the slack-proportional separation with boundary release.
	PhaseSlack
	// PhaseFallback is the relaxed-padding direct push.
	PhaseFallback
)

// String returns the lowercase phase name used in logs and metric labels.
func (p Phase) String() string {
	switch p {
	case PhaseNone:
		return "none"
	case PhaseForce:
		return "force"
	case PhaseDirection:
		return "direction"
	case PhaseSlack:
		return "slack"
	case PhaseFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Stats records how much work a resolution took.
type Stats struct {
	// LastPhase is the deepest phase that had to run.
	LastPhase Phase
	// ForcePasses, DirectionPasses, SlackPasses and FallbackPasses count
	// the passes executed in each phase.
	ForcePasses     int
	DirectionPasses int
	SlackPasses     int
	FallbackPasses  int
	// EffectivePadding is the padding of the box the placements satisfy.
	// It equals Params.Padding unless Options.RelaxPadding let phase 4 shrink it.
	EffectivePadding float64
}

// OverlapSet holds the labels whose minimum separation could not be achieved.
type OverlapSet map[string]struct{}

// Has reports whether label is in the set.
func (s OverlapSet) Has(label string) bool {
	_, ok := s[label]
	return ok
}

// Len returns the number of labels in the set.
func (s OverlapSet) Len() int { return len(s) }

// Labels returns the labels in lexical order.
func (s OverlapSet) Labels() []string {
	out := make([]string, 0, len(s))
	for l := range s {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Result is the outcome of a successful Resolve call.
type Result struct {
	// Placements has one entry per input marker, in input order.
	Placements []Placement
	// Unresolved is empty when every pair is at least MinDistance apart.
	Unresolved OverlapSet
	Stats      Stats
}
