package layout_test

import (
	"fmt"
	"math/rand"
	"testing"

	"marketmap/internal/layout"
)

// benchMarkers scatters n markers around the center of a w x h surface.
func benchMarkers(n int, w, h float64) []layout.Marker {
	rng := rand.New(rand.NewSource(42))
	out := make([]layout.Marker, n)
	for i := range out {
		out[i] = layout.Marker{
			Label: fmt.Sprintf("m%d", i),
			X:     w/2 + rng.NormFloat64()*w/8,
			Y:     h/2 + rng.NormFloat64()*h/8,
		}
	}
	return out
}

// BenchmarkResolve_TopFive is the typical state page: five metros.
func BenchmarkResolve_TopFive(b *testing.B) {
	bounds := layout.Bounds{Width: 500, Height: 420}
	markers := benchMarkers(5, bounds.Width, bounds.Height)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = layout.Resolve(markers, bounds, mapParams, nil)
	}
}

// BenchmarkResolve_Crowded hits every phase with 40 markers in a small map.
func BenchmarkResolve_Crowded(b *testing.B) {
	bounds := layout.Bounds{Width: 200, Height: 200}
	markers := benchMarkers(40, bounds.Width, bounds.Height)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = layout.Resolve(markers, bounds, mapParams, nil)
	}
}
