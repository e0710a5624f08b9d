package geo

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNoCoordinates indicates a projector fit over an empty set.
	ErrNoCoordinates = errors.New("geo: at least one coordinate is required")
	// ErrInvalidCoordinate indicates a latitude/longitude out of range or not finite.
	ErrInvalidCoordinate = errors.New("geo: coordinate out of range")
	// ErrInvalidSurface indicates a non-positive width or negative padding.
	ErrInvalidSurface = errors.New("geo: invalid surface size")
	// ErrUnknownState indicates an abbreviation or slug with no known extent.
	ErrUnknownState = errors.New("geo: unknown state")
)

// Coord is a WGS84 latitude/longitude pair in degrees.
type Coord struct {
	Lat, Lng float64
}

// Validate reports ErrInvalidCoordinate for NaN, infinite or out-of-range values.
func (c Coord) Validate() error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || c.Lat < -90 || c.Lat > 90 || c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("%w: (%g, %g)", ErrInvalidCoordinate, c.Lat, c.Lng)
	}
	return nil
}

// GeoBounds is a latitude/longitude bounding box.
type GeoBounds struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// widen grows any span narrower than minSpan symmetrically around its center.
func (g GeoBounds) widen(minSpan float64) GeoBounds {
	if span := g.MaxLat - g.MinLat; span < minSpan {
		mid := (g.MinLat + g.MaxLat) / 2
		g.MinLat, g.MaxLat = mid-minSpan/2, mid+minSpan/2
	}
	if span := g.MaxLng - g.MinLng; span < minSpan {
		mid := (g.MinLng + g.MaxLng) / 2
		g.MinLng, g.MaxLng = mid-minSpan/2, mid+minSpan/2
	}
	return g
}

// Center returns the midpoint of the box.
func (g GeoBounds) Center() Coord {
	return Coord{Lat: (g.MinLat + g.MaxLat) / 2, Lng: (g.MinLng + g.MaxLng) / 2}
}

// Point is a position on the drawing surface.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned surface rectangle.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

func (r Rect) Width() float64  { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: (r.MinX + r.MaxX) / 2, Y: (r.MinY + r.MaxY) / 2}
}
