// Package coords maps chart data coordinates (bar index, price) to pixel
// coordinates for the current viewport.
package coords

import (
	"chartmark/pkg/geometry"
)

// System is the bidirectional mapping between data space and pixel space.
// It is rebuilt by UpdateViewport on every pan, zoom, or resize, so pixel
// positions derived from it are only valid for the frame they were computed in.
type System struct {
	indexMin, indexMax float64
	priceMin, priceMax float64
	canvas             geometry.Size

	forward geometry.AffineTransform
	inverse geometry.AffineTransform
	valid   bool
}

// New returns a System with an identity mapping. It stays invalid until the
// first UpdateViewport call.
func New() *System {
	return &System{
		forward: geometry.Identity(),
		inverse: geometry.Identity(),
	}
}

// UpdateViewport recomputes the mapping for the visible index range, price
// range, and canvas size. Empty ranges or a degenerate canvas leave the
// previous mapping in place.
func (s *System) UpdateViewport(indexMin, indexMax, priceMin, priceMax float64, canvas geometry.Size) {
	di := indexMax - indexMin
	dp := priceMax - priceMin
	if di <= 0 || dp <= 0 || canvas.Width <= 0 || canvas.Height <= 0 {
		return
	}

	s.indexMin, s.indexMax = indexMin, indexMax
	s.priceMin, s.priceMax = priceMin, priceMax
	s.canvas = canvas

	// x grows with index, y grows downward as price falls.
	sx := canvas.Width / di
	sy := canvas.Height / dp
	s.forward = geometry.AffineTransform{
		A: sx, B: 0, TX: -indexMin * sx,
		C: 0, D: -sy, TY: priceMax * sy,
	}

	inv, ok := s.forward.Inverse()
	if !ok {
		return
	}
	s.inverse = inv
	s.valid = true
}

// Valid reports whether a viewport has been set.
func (s *System) Valid() bool {
	return s.valid
}

// Canvas returns the canvas size of the current viewport.
func (s *System) Canvas() geometry.Size {
	return s.canvas
}

// IndexRange returns the visible bar-index range.
func (s *System) IndexRange() (min, max float64) {
	return s.indexMin, s.indexMax
}

// PriceRange returns the visible price range.
func (s *System) PriceRange() (min, max float64) {
	return s.priceMin, s.priceMax
}

// DataToPixel maps a (bar index, price) pair to a pixel position.
func (s *System) DataToPixel(index, price float64) geometry.Point2D {
	return s.forward.Apply(geometry.Point2D{X: index, Y: price})
}

// PixelToData maps a pixel position back to (bar index, price).
func (s *System) PixelToData(x, y float64) (index, price float64) {
	p := s.inverse.Apply(geometry.Point2D{X: x, Y: y})
	return p.X, p.Y
}

// PixelsPerIndex returns how many pixels one bar index spans.
func (s *System) PixelsPerIndex() float64 {
	return s.forward.A
}

// PixelsPerPrice returns how many pixels one price unit spans.
func (s *System) PixelsPerPrice() float64 {
	return -s.forward.D
}

// UnitRatio returns the price delta that occupies the same number of pixels as
// a delta of one bar index. A line with slope UnitRatio in data space renders
// at 45 degrees on screen; Gann angle geometry depends on this quantity being
// recomputed every frame.
func (s *System) UnitRatio() float64 {
	ppp := s.PixelsPerPrice()
	if ppp == 0 {
		return 0
	}
	return s.PixelsPerIndex() / ppp
}
