// Package render draws a resolved market map as a standalone SVG document.
//
// Drawing order, back to front: background, optional frame, cluster halos,
// tethers from displaced pins to their true location, pins with their ring
// and rank badge, and finally labels so that no pin covers text.
package render

import (
	"fmt"
	"math"
	"strings"

	"marketmap/internal/cluster"
	"marketmap/internal/config"
)

// tetherMin is the displacement below which no tether line is drawn.
const tetherMin = 1.0

// Pin is one market ready to draw.
type Pin struct {
	Label        string
	X, Y         float64 // placed position
	TrueX, TrueY float64 // projected position before layout
	Radius       float64
	Rank         int
	Unresolved   bool // still overlapping after layout; drawn smaller
}

// Scene is everything needed to draw one map.
type Scene struct {
	Width, Height float64
	Title         string
	Pins          []Pin
	Clusters      []cluster.Cluster
	// Active labels (hovered or selected markets) highlight their cluster.
	Active []string
}

// SVG renders scene with the styling in cfg.
func SVG(scene Scene, cfg config.Config) string {
	var svg strings.Builder
	fmt.Fprintf(&svg, `<?xml version="1.0" encoding="UTF-8"?>
<svg width="%s" height="%s" viewBox="0 0 %s %s" xmlns="http://www.w3.org/2000/svg">
`, num(scene.Width), num(scene.Height), num(scene.Width), num(scene.Height))
	if scene.Title != "" {
		fmt.Fprintf(&svg, "<title>%s</title>\n", escapeXML(scene.Title))
	}
	fmt.Fprintf(&svg, `<rect width="100%%" height="100%%" fill="%s"/>`+"\n", cfg.Colors.Background)

	if cfg.Canvas.Frame {
		fmt.Fprintf(&svg, `<rect x="0.5" y="0.5" width="%s" height="%s" fill="none" stroke="%s" stroke-width="1"/>`+"\n",
			num(scene.Width-1), num(scene.Height-1), cfg.Colors.Frame)
	}

	radius := make(map[string]float64, len(scene.Pins))
	for _, p := range scene.Pins {
		radius[p.Label] = pinSize(p, cfg)
	}

	for _, c := range scene.Clusters {
		drawCluster(&svg, c, radius, c.Active(scene.Active...), cfg)
	}

	svg.WriteString(`<g class="tethers">`)
	for _, p := range scene.Pins {
		if math.Hypot(p.X-p.TrueX, p.Y-p.TrueY) < tetherMin {
			continue
		}
		fmt.Fprintf(&svg, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="0.75" stroke-opacity="0.6"/>`,
			num(p.TrueX), num(p.TrueY), num(p.X), num(p.Y), cfg.Colors.Stroke)
		fmt.Fprintf(&svg, `<circle cx="%s" cy="%s" r="1.5" fill="%s"/>`, num(p.TrueX), num(p.TrueY), cfg.Colors.Stroke)
	}
	svg.WriteString("</g>\n")

	for _, p := range scene.Pins {
		drawPin(&svg, p, radius[p.Label], cfg)
	}

	if cfg.Marker.ShowLabels {
		svg.WriteString(`<g class="labels">`)
		for _, p := range scene.Pins {
			drawLabel(&svg, p, radius[p.Label], cfg)
		}
		svg.WriteString("</g>\n")
	}

	svg.WriteString("</svg>\n")
	return svg.String()
}

// pinSize is the drawn radius; unresolved pins shrink so overlaps stay legible.
func pinSize(p Pin, cfg config.Config) float64 {
	r := p.Radius
	if r <= 0 {
		r = cfg.Marker.BaseRadius
	}
	if p.Unresolved {
		r *= cfg.Marker.UnresolvedScale
	}
	return r
}

func drawPin(svg *strings.Builder, p Pin, size float64, cfg config.Config) {
	class := "pin"
	if p.Unresolved {
		class += " unresolved"
	}
	fmt.Fprintf(svg, `<g class="%s" data-label="%s">`, class, escapeXML(p.Label))
	drawRing(svg, p.X, p.Y, size, cfg)
	drawMarker(svg, p.X, p.Y, size, cfg)
	if p.Rank > 0 && p.Rank <= cfg.Marker.RankBadgeMax {
		drawBadge(svg, p.X, p.Y, size, p.Rank, cfg)
	}
	svg.WriteString("</g>\n")
}

// drawLabel places the market name centered above its pin.
func drawLabel(svg *strings.Builder, p Pin, size float64, cfg config.Config) {
	y := p.Y - size - cfg.Marker.RingWidth - cfg.Marker.LabelOffset
	fmt.Fprintf(svg, `<text x="%s" y="%s" text-anchor="middle" font-family="%s" font-size="%s" fill="%s">%s</text>`,
		num(p.X), num(y), escapeXML(cfg.Font.Family), num(cfg.Font.Size), cfg.Colors.Text, escapeXML(p.Label))
}

// drawCluster draws a translucent halo around a multi-pin cluster and its
// member count at the mean position.
func drawCluster(svg *strings.Builder, c cluster.Cluster, radius map[string]float64, active bool, cfg config.Config) {
	if c.Size() < 2 {
		return
	}
	var reach float64
	for _, m := range c.Members {
		d := math.Hypot(m.X-c.CenterX, m.Y-c.CenterY) + radius[m.Label]
		reach = math.Max(reach, d)
	}
	opacity := "0.12"
	if active {
		opacity = "0.28"
	}
	fmt.Fprintf(svg, `<g class="cluster"><circle cx="%s" cy="%s" r="%s" fill="%s" fill-opacity="%s"/>`,
		num(c.CenterX), num(c.CenterY), num(reach+4), cfg.Colors.Cluster, opacity)
	fmt.Fprintf(svg, `<text x="%s" y="%s" text-anchor="middle" font-family="%s" font-size="%s" fill="%s">%d</text></g>`+"\n",
		num(c.CenterX), num(c.CenterY+reach+4+cfg.Font.Size), escapeXML(cfg.Font.Family), num(cfg.Font.Size*0.9), cfg.Colors.Cluster, c.Size())
}
