// Package geo projects latitude/longitude onto the flat drawing surface the
// marker layout works in. Two projections are offered, matching the two ways
// the state pages draw maps:
//
//   - Projector fits a padded bounding box of coordinates (or of a state's
//     extent) into a fixed width, deriving the height from the aspect ratio.
//   - ProjectInto maps a state's extent onto an arbitrary surface rectangle.
//
// Both are plain affine transforms with the y axis flipped so north is up.
// Every marker of one layout call must go through the same transform.
package geo

import (
	"fmt"
	"math"
)

// DefaultFitPadding is the share of the coordinate extent added on each side.
const DefaultFitPadding = 0.2

// MinSpan is the smallest extent, in degrees, a Projector will fit. A single
// market (or several on one meridian) would otherwise divide by zero.
const MinSpan = 0.5

// Projector is an affine lat/lng -> surface transform. It is immutable and
// safe for concurrent use.
type Projector struct {
	minLat, minLng     float64
	latRange, lngRange float64
	width, height      float64
}

// FitProjector builds a Projector around coords.
//
// Steps:
//  1. Take the bounding box of coords; widen any span under MinSpan
//     symmetrically to MinSpan.
//  2. Grow the box by pad × span on every side.
//  3. Keep width; height = width × (padded lat span / padded lng span).
//
// Errors: ErrNoCoordinates, ErrInvalidCoordinate, ErrInvalidSurface.
func FitProjector(coords []Coord, width, pad float64) (*Projector, error) {
	if len(coords) == 0 {
		return nil, ErrNoCoordinates
	}
	gb := GeoBounds{MinLat: math.Inf(1), MaxLat: math.Inf(-1), MinLng: math.Inf(1), MaxLng: math.Inf(-1)}
	for i, c := range coords {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("coordinate %d: %w", i, err)
		}
		gb.MinLat = math.Min(gb.MinLat, c.Lat)
		gb.MaxLat = math.Max(gb.MaxLat, c.Lat)
		gb.MinLng = math.Min(gb.MinLng, c.Lng)
		gb.MaxLng = math.Max(gb.MaxLng, c.Lng)
	}
	return FitBounds(gb, width, pad)
}

// FitBounds builds a Projector around a known geographic extent, such as a
// state's bounding box from LookupState.
func FitBounds(gb GeoBounds, width, pad float64) (*Projector, error) {
	if !(width > 0) || math.IsInf(width, 0) {
		return nil, fmt.Errorf("%w: width %g", ErrInvalidSurface, width)
	}
	if !(pad >= 0) {
		return nil, fmt.Errorf("%w: padding %g", ErrInvalidSurface, pad)
	}
	gb = gb.widen(MinSpan)
	latRange := gb.MaxLat - gb.MinLat
	lngRange := gb.MaxLng - gb.MinLng

	p := &Projector{
		minLat:   gb.MinLat - latRange*pad,
		minLng:   gb.MinLng - lngRange*pad,
		latRange: latRange * (1 + 2*pad),
		lngRange: lngRange * (1 + 2*pad),
		width:    width,
	}
	p.height = width * (p.latRange / p.lngRange)
	return p, nil
}

// Project maps a coordinate onto the surface. Coordinates outside the fitted
// box land outside [0,width]x[0,height]; the layout clamps them.
func (p *Projector) Project(lat, lng float64) Point {
	return Point{
		X: (lng - p.minLng) / p.lngRange * p.width,
		Y: p.height - (lat-p.minLat)/p.latRange*p.height,
	}
}

// Size returns the surface width and height.
func (p *Projector) Size() (width, height float64) { return p.width, p.height }

// ViewBox returns the SVG viewBox attribute for the surface.
func (p *Projector) ViewBox() string {
	return fmt.Sprintf("0 0 %g %g", p.width, p.height)
}

// ProjectInto linearly maps lat/lng from the geographic extent gb onto the
// surface rectangle r, north up.
func ProjectInto(gb GeoBounds, r Rect, lat, lng float64) Point {
	gb = gb.widen(MinSpan)
	nx := (lng - gb.MinLng) / (gb.MaxLng - gb.MinLng)
	ny := (lat - gb.MinLat) / (gb.MaxLat - gb.MinLat)
	return Point{
		X: r.MinX + nx*r.Width(),
		Y: r.MaxY - ny*r.Height(),
	}
}

// ProjectState projects lat/lng into r using a state's extent. Unknown
// states put the point at the center of r, so a typo never breaks a page.
func ProjectState(state string, r Rect, lat, lng float64) Point {
	gb, err := LookupState(state)
	if err != nil {
		return r.Center()
	}
	return ProjectInto(gb, r, lat, lng)
}
