package coords

import (
	"testing"

	"chartmark/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSystem() *System {
	s := New()
	s.UpdateViewport(100, 300, 50, 150, geometry.NewSize(800, 400))
	return s
}

func TestRoundTrip(t *testing.T) {
	s := newTestSystem()

	cases := []struct{ index, price float64 }{
		{100, 50},
		{300, 150},
		{200, 100},
		{137.25, 93.7},
		{299.999, 50.001},
	}
	for _, c := range cases {
		px := s.DataToPixel(c.index, c.price)
		index, price := s.PixelToData(px.X, px.Y)
		assert.InDelta(t, c.index, index, 1e-9)
		assert.InDelta(t, c.price, price, 1e-9)
	}
}

func TestOrientation(t *testing.T) {
	s := newTestSystem()

	topLeft := s.DataToPixel(100, 150)
	assert.InDelta(t, 0, topLeft.X, 1e-9)
	assert.InDelta(t, 0, topLeft.Y, 1e-9)

	bottomRight := s.DataToPixel(300, 50)
	assert.InDelta(t, 800, bottomRight.X, 1e-9)
	assert.InDelta(t, 400, bottomRight.Y, 1e-9)
}

func TestPixelScales(t *testing.T) {
	s := newTestSystem()
	assert.InDelta(t, 4, s.PixelsPerIndex(), 1e-9)  // 800px / 200 bars
	assert.InDelta(t, 4, s.PixelsPerPrice(), 1e-9)  // 400px / 100 price units
	assert.InDelta(t, 1, s.UnitRatio(), 1e-9)
}

func TestUnitRatioAsymmetric(t *testing.T) {
	s := New()
	s.UpdateViewport(0, 100, 0, 10, geometry.NewSize(1000, 200))
	// 10 px per index, 20 px per price unit: one bar spans half a price unit.
	assert.InDelta(t, 0.5, s.UnitRatio(), 1e-9)
}

func TestDegenerateViewportIgnored(t *testing.T) {
	s := newTestSystem()
	require.True(t, s.Valid())
	before := s.DataToPixel(200, 100)

	s.UpdateViewport(100, 100, 50, 150, geometry.NewSize(800, 400))
	s.UpdateViewport(100, 300, 50, 150, geometry.NewSize(0, 400))

	after := s.DataToPixel(200, 100)
	assert.Equal(t, before, after)
}

func TestInvalidBeforeFirstViewport(t *testing.T) {
	assert.False(t, New().Valid())
}
