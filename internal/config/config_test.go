package config_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketmap/internal/config"
	"marketmap/internal/layout"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, layout.DefaultOptions(), cfg.LayoutOptions())
	assert.Equal(t, layout.Params{MinDistance: 32, Padding: 18}, cfg.LayoutParams())
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

// TestLoad_Overlay keeps defaults for keys the file omits.
func TestLoad_Overlay(t *testing.T) {
	cfg, err := config.Load(filepath.Join("testdata", "partial.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 640.0, cfg.Canvas.Width)
	assert.Equal(t, "texas", cfg.Canvas.State)
	assert.Equal(t, 0.2, cfg.Canvas.GeoPadding)
	assert.Equal(t, 28.0, cfg.Layout.MinDistance)
	assert.Equal(t, 18.0, cfg.Layout.Padding)
	assert.Equal(t, 0.6, cfg.Layout.Damping)
	assert.Equal(t, "diamond", cfg.Marker.Shape)
	assert.False(t, cfg.Cluster.Enabled)
	assert.Equal(t, 25.0, cfg.Cluster.Threshold)
}

func TestLoad_Errors(t *testing.T) {
	_, err := config.Load(filepath.Join("testdata", "nope.yaml"))
	assert.Error(t, err)

	_, err = config.Load(filepath.Join("testdata", "malformed.yaml"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, config.ErrInvalidConfig)

	for _, name := range []string{"invalid.yaml", "bad_shape.yaml"} {
		_, err = config.Load(filepath.Join("testdata", name))
		assert.ErrorIs(t, err, config.ErrInvalidConfig, name)
	}
}

func TestValidate_PaddingFloor(t *testing.T) {
	cfg := config.Default()
	cfg.Layout.PaddingFloor = 30
	assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidConfig)
}
