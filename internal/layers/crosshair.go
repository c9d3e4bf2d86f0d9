package layers

import (
	"fmt"
	"image"
	"image/color"

	"chartmark/internal/coords"
	"chartmark/pkg/geometry"
)

// CrosshairLayer tracks the pointer and renders a full-width/full-height
// cross with the price and bar index at the cursor.
type CrosshairLayer struct {
	cs      *coords.System
	pos     geometry.Point2D
	visible bool
	col     color.RGBA
}

// NewCrosshairLayer creates a crosshair bound to the given coordinate system.
func NewCrosshairLayer(cs *coords.System) *CrosshairLayer {
	return &CrosshairLayer{
		cs:  cs,
		col: color.RGBA{R: 0x9e, G: 0x9e, B: 0x9e, A: 0xff},
	}
}

// Name implements Layer.
func (c *CrosshairLayer) Name() string { return "crosshair" }

// HandlePointer follows move events and hides the cross on down events so it
// does not obscure a creation click.
func (c *CrosshairLayer) HandlePointer(ev PointerEvent) bool {
	switch ev.Phase {
	case PhaseMove:
		c.pos = ev.Pos
		c.visible = true
		return true
	case PhaseDown:
		c.visible = false
	}
	return false
}

// Render implements Layer.
func (c *CrosshairLayer) Render(dst *image.RGBA) {
	if !c.visible || !c.cs.Valid() {
		return
	}
	canvas := c.cs.Canvas()
	DrawDashedLine(dst, geometry.Segment{
		From: geometry.Point2D{X: 0, Y: c.pos.Y},
		To:   geometry.Point2D{X: canvas.Width, Y: c.pos.Y},
	}, c.col)
	DrawDashedLine(dst, geometry.Segment{
		From: geometry.Point2D{X: c.pos.X, Y: 0},
		To:   geometry.Point2D{X: c.pos.X, Y: canvas.Height},
	}, c.col)

	index, price := c.cs.PixelToData(c.pos.X, c.pos.Y)
	label := fmt.Sprintf("%.2f @ %d", price, int(index+0.5))
	DrawText(dst, geometry.Point2D{X: c.pos.X + 8, Y: c.pos.Y - 6}, label, c.col)
}

// Dispose implements Layer.
func (c *CrosshairLayer) Dispose() {}
