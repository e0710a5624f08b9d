package render

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketmap/internal/cluster"
	"marketmap/internal/config"
	"marketmap/internal/layout"
)

func scene() Scene {
	return Scene{
		Width: 300, Height: 200, Title: "Texas",
		Pins: []Pin{
			{Label: "Houston", X: 100, Y: 50, TrueX: 100, TrueY: 50, Radius: 10, Rank: 1},
			{Label: "Waco", X: 200, Y: 150, TrueX: 190, TrueY: 150, Rank: 9},
		},
	}
}

// TestSVG_WellFormed parses the output as XML.
func TestSVG_WellFormed(t *testing.T) {
	out := SVG(scene(), config.Default())
	dec := xml.NewDecoder(strings.NewReader(out))
	for {
		_, err := dec.Token()
		if err != nil {
			require.Equal(t, "EOF", err.Error())
			break
		}
	}
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `viewBox="0 0 300 200"`)
	assert.Contains(t, out, "<title>Texas</title>")
}

func TestSVG_RankBadges(t *testing.T) {
	out := SVG(scene(), config.Default())
	assert.Equal(t, 1, strings.Count(out, `class="badge"`), "only ranks up to 5 get a badge")
	assert.Contains(t, out, ">1</text>")

	cfg := config.Default()
	cfg.Marker.RankBadgeMax = 0
	assert.NotContains(t, SVG(scene(), cfg), `class="badge"`)
}

func TestSVG_UnresolvedDrawnSmaller(t *testing.T) {
	s := scene()
	s.Pins[1].Unresolved = true
	out := SVG(s, config.Default())
	assert.Contains(t, out, `class="pin unresolved" data-label="Waco"`)
	assert.Contains(t, out, `<circle cx="200" cy="150" r="3.6" fill="#1f6feb"`)
	assert.Contains(t, out, `<circle cx="100" cy="50" r="10" fill="#1f6feb"`)
}

func TestSVG_Tethers(t *testing.T) {
	out := SVG(scene(), config.Default())
	assert.Contains(t, out, `<line x1="190" y1="150" x2="200" y2="150"`)
	assert.Equal(t, 1, strings.Count(out, "<line "), "undisplaced pins get no tether")
}

func TestSVG_EscapesText(t *testing.T) {
	s := Scene{Width: 100, Height: 100, Title: `Q&A <"map">`, Pins: []Pin{{Label: "Winston-Salem & Co", X: 50, Y: 50}}}
	out := SVG(s, config.Default())
	assert.Contains(t, out, "Q&amp;A &lt;&quot;map&quot;&gt;")
	assert.Contains(t, out, ">Winston-Salem &amp; Co</text>")
}

func TestSVG_Shapes(t *testing.T) {
	for shape, want := range map[string]string{
		"circle":   `<circle cx="100" cy="50" r="10" fill=`,
		"square":   `<rect x="90" y="40" width="20" height="20"`,
		"diamond":  `<polygon points="100,40 110,50 100,60 90,50"`,
		"triangle": `<polygon points="100,35 90,57.5 110,57.5"`,
	} {
		cfg := config.Default()
		cfg.Marker.Shape = shape
		assert.Contains(t, SVG(scene(), cfg), want, shape)
	}
}

func TestSVG_Clusters(t *testing.T) {
	s := scene()
	s.Clusters = []cluster.Cluster{
		{CenterX: 150, CenterY: 100, Members: []cluster.Member{{Label: "Houston", X: 100, Y: 50}, {Label: "Waco", X: 200, Y: 150}}},
		{CenterX: 10, CenterY: 10, Members: []cluster.Member{{Label: "Solo", X: 10, Y: 10}}},
	}
	out := SVG(s, config.Default())
	assert.Equal(t, 1, strings.Count(out, `class="cluster"`), "singletons get no halo")
	assert.Contains(t, out, `fill-opacity="0.12"`)

	s.Active = []string{"Waco"}
	assert.Contains(t, SVG(s, config.Default()), `fill-opacity="0.28"`)
}

func TestSVG_FrameAndLabels(t *testing.T) {
	cfg := config.Default()
	cfg.Canvas.Frame = true
	cfg.Marker.ShowLabels = false
	out := SVG(scene(), cfg)
	assert.Contains(t, out, `<rect x="0.5" y="0.5" width="299" height="199"`)
	assert.NotContains(t, out, ">Houston</text>")
}

func TestPositionIndex(t *testing.T) {
	ix := NewPositionIndex([]layout.Placement{{Label: "b", X: 1, Y: 2}, {Label: "a", X: 3, Y: 4}})
	x, y, ok := ix.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, 3.0, x)
	assert.Equal(t, 4.0, y)

	_, _, ok = ix.Lookup("zz")
	assert.False(t, ok)
	assert.Equal(t, 2, ix.Len())
	assert.Equal(t, []string{"a", "b"}, ix.Labels())
}

func TestNum(t *testing.T) {
	assert.Equal(t, "3.6", num(3.6000000001))
	assert.Equal(t, "210", num(210))
	assert.Equal(t, "-0.5", num(-0.5))
	assert.Equal(t, "1.23", num(1.2345))
}
