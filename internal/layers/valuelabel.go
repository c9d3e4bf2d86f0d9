package layers

import (
	"fmt"
	"image"
	"image/color"

	"chartmark/internal/coords"
	"chartmark/pkg/geometry"
)

// ValueLabelLayer renders a horizontal marker line with a label at the
// instrument's last traded price.
type ValueLabelLayer struct {
	cs    *coords.System
	price func() float64
	col   color.RGBA
}

// NewValueLabelLayer creates the layer; price supplies the value to mark on
// each frame.
func NewValueLabelLayer(cs *coords.System, price func() float64) *ValueLabelLayer {
	return &ValueLabelLayer{
		cs:    cs,
		price: price,
		col:   color.RGBA{R: 0xff, G: 0xb3, B: 0x00, A: 0xff},
	}
}

// Name implements Layer.
func (v *ValueLabelLayer) Name() string { return "value-label" }

// HandlePointer implements Layer; the label is not interactive.
func (v *ValueLabelLayer) HandlePointer(PointerEvent) bool { return false }

// Render implements Layer.
func (v *ValueLabelLayer) Render(dst *image.RGBA) {
	if !v.cs.Valid() {
		return
	}
	price := v.price()
	if price == 0 {
		return
	}
	min, max := v.cs.PriceRange()
	if price < min || price > max {
		return
	}

	canvas := v.cs.Canvas()
	y := v.cs.DataToPixel(0, price).Y
	DrawDashedLine(dst, geometry.Segment{
		From: geometry.Point2D{X: 0, Y: y},
		To:   geometry.Point2D{X: canvas.Width, Y: y},
	}, v.col)

	label := fmt.Sprintf("%.2f", price)
	DrawText(dst, geometry.Point2D{X: canvas.Width - float64(TextWidth(label)) - 4, Y: y - 4}, label, v.col)
}

// Dispose implements Layer.
func (v *ValueLabelLayer) Dispose() {}
