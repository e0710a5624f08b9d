package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"marketmap/internal/config"
)

// num formats a coordinate with at most two decimals and no trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// drawMarker draws one pin shape centered on (x, y) with half-extent size.
func drawMarker(svg *strings.Builder, x, y, size float64, cfg config.Config) {
	fill := cfg.Colors.Marker
	stroke := cfg.Colors.Stroke
	sw := num(cfg.Marker.StrokeWidth)

	switch strings.ToLower(cfg.Marker.Shape) {
	case "square":
		fmt.Fprintf(svg, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="%s" stroke-width="%s"/>`,
			num(x-size), num(y-size), num(size*2), num(size*2), fill, stroke, sw)

	case "diamond":
		fmt.Fprintf(svg, `<polygon points="%s,%s %s,%s %s,%s %s,%s" fill="%s" stroke="%s" stroke-width="%s"/>`,
			num(x), num(y-size), // top
			num(x+size), num(y), // right
			num(x), num(y+size), // bottom
			num(x-size), num(y), // left
			fill, stroke, sw)

	case "triangle":
		// Upward pointing, a bit taller than wide
		h := size * 1.5
		fmt.Fprintf(svg, `<polygon points="%s,%s %s,%s %s,%s" fill="%s" stroke="%s" stroke-width="%s"/>`,
			num(x), num(y-h),
			num(x-size), num(y+h/2),
			num(x+size), num(y+h/2),
			fill, stroke, sw)

	default:
		fmt.Fprintf(svg, `<circle cx="%s" cy="%s" r="%s" fill="%s" stroke="%s" stroke-width="%s"/>`,
			num(x), num(y), num(size), fill, stroke, sw)
	}
}

// drawRing draws the white halo that keeps a pin readable over others.
func drawRing(svg *strings.Builder, x, y, size float64, cfg config.Config) {
	if cfg.Marker.RingWidth <= 0 {
		return
	}
	fmt.Fprintf(svg, `<circle cx="%s" cy="%s" r="%s" fill="%s"/>`,
		num(x), num(y), num(size+cfg.Marker.RingWidth), cfg.Colors.Ring)
}

// drawBadge draws the rank number at the pin's upper right.
func drawBadge(svg *strings.Builder, x, y, size float64, rank int, cfg config.Config) {
	r := math.Max(5, size*0.6)
	bx, by := x+size*0.8, y-size*0.8
	fmt.Fprintf(svg, `<circle class="badge" cx="%s" cy="%s" r="%s" fill="%s"/>`,
		num(bx), num(by), num(r), cfg.Colors.Badge)
	fmt.Fprintf(svg, `<text x="%s" y="%s" text-anchor="middle" dominant-baseline="central" font-family="%s" font-size="%s" font-weight="bold" fill="%s">%d</text>`,
		num(bx), num(by), escapeXML(cfg.Font.Family), num(r*1.2), cfg.Colors.BadgeText, rank)
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
