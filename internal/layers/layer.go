// Package layers defines the shared overlay layer contract, the z-ordered
// layer manager, and the sibling layers (crosshair, value label) that render
// alongside the drawing layer.
package layers

import (
	"image"

	"chartmark/pkg/geometry"
)

// Phase is the pointer event phase.
type Phase int

const (
	PhaseDown Phase = iota
	PhaseMove
	PhaseUp
)

// Source distinguishes mouse from touch input.
type Source int

const (
	SourceMouse Source = iota
	SourceTouch
)

// PointerEvent is the unified input event fed by the host on every relevant
// input callback. Mouse and touch arrive through the same dispatch path.
type PointerEvent struct {
	Pos    geometry.Point2D
	Phase  Phase
	Source Source
}

// Layer is the lifecycle contract every overlay layer implements.
type Layer interface {
	Name() string
	// Render draws the layer onto the frame buffer using the current
	// coordinate mapping.
	Render(dst *image.RGBA)
	// HandlePointer consumes a pointer event; it returns true when the event
	// changed layer state.
	HandlePointer(ev PointerEvent) bool
	// Dispose releases any resources; the layer is not used afterwards.
	Dispose()
}

// Manager composes layers in z-order and fans pointer events out to them.
// The last added layer renders on top.
type Manager struct {
	layers []Layer
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{}
}

// Add appends a layer on top of the stack.
func (m *Manager) Add(l Layer) {
	m.layers = append(m.layers, l)
}

// Layers returns the stack, bottom first.
func (m *Manager) Layers() []Layer {
	return m.layers
}

// Render draws all layers bottom-up onto dst.
func (m *Manager) Render(dst *image.RGBA) {
	for _, l := range m.layers {
		l.Render(dst)
	}
}

// Dispatch fans a pointer event out to every layer, topmost first, and
// reports whether any layer acted on it.
func (m *Manager) Dispatch(ev PointerEvent) bool {
	handled := false
	for i := len(m.layers) - 1; i >= 0; i-- {
		if m.layers[i].HandlePointer(ev) {
			handled = true
		}
	}
	return handled
}

// Dispose disposes all layers and empties the stack.
func (m *Manager) Dispose() {
	for _, l := range m.layers {
		l.Dispose()
	}
	m.layers = nil
}
