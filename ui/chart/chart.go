// Package chart provides the candlestick chart widget hosting the overlay
// layers.
package chart

import (
	"image"

	"chartmark/internal/app"
	"chartmark/internal/coords"
	"chartmark/internal/drawing"
	"chartmark/internal/layers"
	"chartmark/internal/storage"
	"chartmark/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const (
	minBars  = 20
	maxBars  = 500
	zoomStep = 1.25
)

// Widget is the chart surface: it renders candles, composes the overlay
// layers on top, and translates Fyne input into unified pointer events.
type Widget struct {
	widget.BaseWidget

	state   *app.State
	cs      *coords.System
	manager *layers.Manager
	draw    *drawing.Layer

	raster *fynecanvas.Raster

	// Visible window
	firstBar     int
	barCount     int
	panRemainder float64
	followLatest bool
	lastPointer  geometry.Point2D

	// mouseSeen marks a desktop driver: clicks then arrive through Mouseable
	// and the Tappable/Draggable synthetic events must not dispatch again.
	mouseSeen  bool
	dragActive bool
}

var (
	_ desktop.Mouseable = (*Widget)(nil)
	_ desktop.Hoverable = (*Widget)(nil)
	_ fyne.Tappable     = (*Widget)(nil)
	_ fyne.Draggable    = (*Widget)(nil)
	_ fyne.Scrollable   = (*Widget)(nil)
)

// New creates the chart widget and its layer stack. The drawing layer is
// wired to the store and scoped to the state's instrument.
func New(state *app.State, store storage.Store) *Widget {
	w := &Widget{
		state:        state,
		cs:           coords.New(),
		manager:      layers.NewManager(),
		barCount:     120,
		followLatest: true,
	}

	w.draw = drawing.NewLayer(w.cs, store, func() string {
		return app.StrokeColor(state.ThemeName())
	})
	w.draw.SetInstrument(state.Instrument())

	// z-order: value label under drawings, crosshair on top.
	w.manager.Add(layers.NewValueLabelLayer(w.cs, func() float64 {
		return state.Series().LastClose()
	}))
	w.manager.Add(w.draw)
	w.manager.Add(layers.NewCrosshairLayer(w.cs))

	w.raster = fynecanvas.NewRaster(w.render)
	w.raster.ScaleMode = fynecanvas.ImageScalePixels

	state.On(app.EventSeriesUpdated, func(interface{}) {
		w.Refresh()
	})
	state.On(app.EventThemeChanged, func(interface{}) {
		w.draw.RefreshColors()
		w.Refresh()
	})
	state.On(app.EventInstrumentChanged, func(data interface{}) {
		if code, ok := data.(string); ok {
			w.draw.SetInstrument(code)
		}
		w.followLatest = true
		w.Refresh()
	})

	w.ExtendBaseWidget(w)
	return w
}

// Controller returns the drawing layer's host control surface.
func (w *Widget) Controller() *drawing.Layer {
	return w.draw
}

// CreateRenderer implements fyne.Widget.
func (w *Widget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(w.raster)
}

// MinSize implements fyne.Widget.
func (w *Widget) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}

// Refresh redraws the raster.
func (w *Widget) Refresh() {
	w.raster.Refresh()
	w.BaseWidget.Refresh()
}

// Window returns the first visible bar and the visible bar count.
func (w *Widget) Window() (first, count int) {
	return w.firstBar, w.barCount
}

// ZoomIn shows fewer bars.
func (w *Widget) ZoomIn() {
	w.setBarCount(int(float64(w.barCount) / zoomStep))
}

// ZoomOut shows more bars.
func (w *Widget) ZoomOut() {
	w.setBarCount(int(float64(w.barCount) * zoomStep))
}

func (w *Widget) setBarCount(count int) {
	if count < minBars {
		count = minBars
	}
	if count > maxBars {
		count = maxBars
	}
	w.barCount = count
	w.clampWindow()
	w.Refresh()
}

func (w *Widget) clampWindow() {
	maxFirst := w.state.Series().Len() - w.barCount
	if maxFirst < 0 {
		maxFirst = 0
	}
	if w.firstBar > maxFirst {
		w.firstBar = maxFirst
	}
	if w.firstBar < 0 {
		w.firstBar = 0
	}
	w.followLatest = w.firstBar == maxFirst
}

// Scrolled zooms with the wheel.
func (w *Widget) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		w.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		w.ZoomOut()
	}
}

// MouseDown implements desktop.Mouseable.
func (w *Widget) MouseDown(ev *desktop.MouseEvent) {
	w.mouseSeen = true
	w.dispatch(ev.Position, layers.PhaseDown, layers.SourceMouse)
}

// MouseUp implements desktop.Mouseable.
func (w *Widget) MouseUp(ev *desktop.MouseEvent) {
	w.dispatch(ev.Position, layers.PhaseUp, layers.SourceMouse)
}

// MouseIn implements desktop.Hoverable.
func (w *Widget) MouseIn(*desktop.MouseEvent) {}

// MouseOut implements desktop.Hoverable.
func (w *Widget) MouseOut() {}

// MouseMoved implements desktop.Hoverable.
func (w *Widget) MouseMoved(ev *desktop.MouseEvent) {
	w.mouseSeen = true
	w.dispatch(ev.Position, layers.PhaseMove, layers.SourceMouse)
}

// Tapped maps a touch tap to a down/up pair on the same dispatch path. On the
// desktop driver the click already arrived as MouseDown/MouseUp and Tapped
// fires for the same release, so the pair is suppressed there.
func (w *Widget) Tapped(ev *fyne.PointEvent) {
	if w.mouseSeen {
		return
	}
	w.dispatch(ev.Position, layers.PhaseDown, layers.SourceTouch)
	w.dispatch(ev.Position, layers.PhaseUp, layers.SourceTouch)
}

// Dragged pans the window when drawing mode is off. With drawing mode on, a
// touch drag opens with a down at the gesture origin so control point grabs
// work, then feeds the layers as move events. Mouse drags already delivered
// the down through Mouseable.
func (w *Widget) Dragged(ev *fyne.DragEvent) {
	if w.draw.DrawingMode() {
		if !w.dragActive && !w.mouseSeen {
			start := fyne.NewPos(ev.Position.X-ev.Dragged.DX, ev.Position.Y-ev.Dragged.DY)
			w.dispatch(start, layers.PhaseDown, layers.SourceTouch)
		}
		w.dragActive = true
		w.dispatch(ev.Position, layers.PhaseMove, layers.SourceTouch)
		return
	}
	ppi := w.cs.PixelsPerIndex()
	if ppi <= 0 {
		return
	}
	w.panRemainder += float64(-ev.Dragged.DX) / ppi
	shift := int(w.panRemainder)
	if shift != 0 {
		w.panRemainder -= float64(shift)
		w.firstBar += shift
		w.clampWindow()
		w.Refresh()
	}
}

// DragEnd implements fyne.Draggable.
func (w *Widget) DragEnd() {
	if w.dragActive && !w.mouseSeen {
		w.dispatchAt(w.lastPointer, layers.PhaseUp, layers.SourceTouch)
	}
	w.dragActive = false
	w.panRemainder = 0
}

func (w *Widget) dispatch(pos fyne.Position, phase layers.Phase, source layers.Source) {
	w.dispatchAt(geometry.NewPoint2D(float64(pos.X), float64(pos.Y)), phase, source)
}

func (w *Widget) dispatchAt(pos geometry.Point2D, phase layers.Phase, source layers.Source) {
	w.lastPointer = pos
	if w.manager.Dispatch(layers.PointerEvent{
		Pos:    pos,
		Phase:  phase,
		Source: source,
	}) {
		w.Refresh()
	}
}

// render is the raster drawing function; it rebuilds the coordinate mapping
// for the current window and size before any layer draws.
func (w *Widget) render(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	series := w.state.Series()

	if w.followLatest {
		w.firstBar = series.Len() - w.barCount
		if w.firstBar < 0 {
			w.firstBar = 0
		}
	}

	win := series.VisibleWindow(w.firstBar, w.barCount)
	w.cs.UpdateViewport(win.IndexMin, win.IndexMax, win.PriceMin, win.PriceMax,
		geometry.NewSize(float64(width), float64(height)))

	themeName := w.state.ThemeName()
	fillBackground(img, app.Background(themeName))
	renderCandles(img, w.cs, series, w.firstBar, w.barCount, themeName)
	renderPriceAxis(img, w.cs, themeName)

	w.manager.Render(img)
	return img
}
