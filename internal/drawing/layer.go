package drawing

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"

	"chartmark/internal/coords"
	"chartmark/internal/layers"
	"chartmark/internal/storage"
	"chartmark/pkg/geometry"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Layer is the annotation controller: it consumes unified pointer events,
// drives the creation/selection/edit state machine, owns the undo stack, and
// persists the committed set per instrument.
type Layer struct {
	state  *State
	cs     *coords.System
	store  storage.Store
	stroke func() string

	instrument  string
	drawingMode bool
	undo        [][]*Drawing

	log *log.Entry
}

// NewLayer creates a drawing layer. stroke resolves the active theme to the
// color applied at creation and load time.
func NewLayer(cs *coords.System, store storage.Store, stroke func() string) *Layer {
	return &Layer{
		state:  NewState(),
		cs:     cs,
		store:  store,
		stroke: stroke,
		log:    log.WithField("layer", "drawing"),
	}
}

// State exposes the in-memory model for rendering and observation.
func (l *Layer) State() *State {
	return l.state
}

// Name implements layers.Layer.
func (l *Layer) Name() string { return "drawing" }

// Dispose implements layers.Layer.
func (l *Layer) Dispose() {}

// SetDrawingMode is the master gate. Disabling it stops pointer handling but
// deliberately keeps a mid-creation sequence so re-enabling resumes it.
func (l *Layer) SetDrawingMode(enabled bool) {
	l.drawingMode = enabled
}

// DrawingMode returns the master gate state.
func (l *Layer) DrawingMode() bool {
	return l.drawingMode
}

// SetActiveTool arms a tool for the next creation sequence. Switching to a
// different tool discards points collected under the previous one, so a stale
// point can never leak into the next commit.
func (l *Layer) SetActiveTool(tool Type) {
	if cur, armed := l.state.ActiveTool(); !armed || cur != tool {
		l.state.ClearCurrent()
	}
	l.state.SetActiveTool(tool, true)
}

// ClearActiveTool exits tool mode; selection and hover are cleared with it.
func (l *Layer) ClearActiveTool() {
	l.state.ClearCurrent()
	l.state.SetActiveTool("", false)
}

// GetSelectedDrawingID returns the selected drawing id, or "".
func (l *Layer) GetSelectedDrawingID() string {
	return l.state.SelectedID()
}

// CanUndo reports whether the undo stack is non-empty.
func (l *Layer) CanUndo() bool {
	return len(l.undo) > 0
}

// Undo restores the committed set to the most recent snapshot. No-op on an
// empty stack.
func (l *Layer) Undo() {
	if len(l.undo) == 0 {
		return
	}
	snapshot := l.undo[len(l.undo)-1]
	l.undo = l.undo[:len(l.undo)-1]
	l.state.SetDrawings(snapshot)
	l.state.SetSelectedID("")
	l.state.SetHoveredID("")
	l.save()
	l.state.Emit(EventUndoChanged, len(l.undo))
}

// RemoveSelectedDrawing deletes the selected drawing. No-op without a
// selection.
func (l *Layer) RemoveSelectedDrawing() {
	id := l.state.SelectedID()
	if id == "" || l.state.FindDrawing(id) == nil {
		return
	}
	l.snapshot()
	kept := make([]*Drawing, 0, len(l.state.Drawings()))
	for _, d := range l.state.Drawings() {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	l.state.SetDrawings(kept)
	l.state.SetSelectedID("")
	l.save()
}

// ClearAll removes every drawing. No-op when the set is already empty.
func (l *Layer) ClearAll() {
	if len(l.state.Drawings()) == 0 {
		return
	}
	l.snapshot()
	l.state.SetDrawings(nil)
	l.state.SetSelectedID("")
	l.state.SetHoveredID("")
	l.save()
}

// SwitchSelectedDrawingType cycles the selected drawing to the next type in
// its point-count group, reusing its points and resetting to the new type's
// default config.
func (l *Layer) SwitchSelectedDrawingType() {
	d := l.state.FindDrawing(l.state.SelectedID())
	if d == nil {
		return
	}
	next := NextType(d.Type)
	if next == d.Type || !SameGroup(next, d.Type) {
		return
	}
	l.snapshot()
	d.Type = next
	d.Config = DefaultConfig(next)
	if len(d.Points) > MaxPoints(next) {
		d.Points = d.Points[:MaxPoints(next)]
	}
	l.state.Emit(EventDrawingsChanged, l.state.Drawings())
	l.save()
}

// LoadDrawings replaces the committed set wholesale, remapping every color to
// the current theme. The new slice is swapped in atomically.
func (l *Layer) LoadDrawings(drawings []*Drawing) {
	loaded := CloneAll(drawings)
	col := l.stroke()
	for _, d := range loaded {
		d.Color = col
	}
	l.state.SetDrawings(loaded)
}

// Instrument returns the instrument code drawings are scoped to.
func (l *Layer) Instrument() string {
	return l.instrument
}

// SetInstrument switches the layer to another instrument: transient state and
// the undo stack are discarded and the committed set is reloaded from storage.
func (l *Layer) SetInstrument(code string) {
	l.instrument = code
	l.state.ClearTransient()
	l.undo = nil
	l.state.Emit(EventUndoChanged, 0)
	l.LoadDrawings(l.loadStored(code))
}

// Reload re-reads the current instrument's drawings from storage. The host
// calls this on its out-of-band refresh notification.
func (l *Layer) Reload() {
	l.LoadDrawings(l.loadStored(l.instrument))
}

// RefreshColors re-resolves every drawing's color from the theme function.
func (l *Layer) RefreshColors() {
	col := l.stroke()
	for _, d := range l.state.Drawings() {
		d.Color = col
	}
	l.state.Emit(EventDrawingsChanged, l.state.Drawings())
}

// HandlePointer implements layers.Layer. All handling happens here; the
// phases map onto the creation/selection/edit state machine.
func (l *Layer) HandlePointer(ev layers.PointerEvent) bool {
	if !l.drawingMode {
		return false
	}
	switch ev.Phase {
	case layers.PhaseDown:
		return l.pointerDown(ev.Pos)
	case layers.PhaseMove:
		return l.pointerMove(ev.Pos)
	case layers.PhaseUp:
		return l.pointerUp()
	}
	return false
}

func (l *Layer) pointerDown(pos geometry.Point2D) bool {
	if tool, armed := l.state.ActiveTool(); armed {
		l.appendCreationPoint(tool, pos)
		return true
	}

	// Grabbing a handle of the already-selected drawing enters edit mode
	// instead of re-running selection.
	if sel := l.state.FindDrawing(l.state.SelectedID()); sel != nil {
		if idx := HitControlPoint(sel, l.cs, pos, HitTolerance); idx >= 0 {
			l.state.EnterEditMode(sel.ID, idx)
			return true
		}
	}

	// Reverse z-order: most recent drawing wins.
	drawings := l.state.Drawings()
	for i := len(drawings) - 1; i >= 0; i-- {
		if HitTest(drawings[i], l.cs, pos, HitTolerance) {
			l.state.SetSelectedID(drawings[i].ID)
			return true
		}
	}
	l.state.SetSelectedID("")
	return true
}

func (l *Layer) appendCreationPoint(tool Type, pos geometry.Point2D) {
	index, price := l.cs.PixelToData(pos.X, pos.Y)
	p := Point{Index: index, Price: price}

	// A Gann anchor pair with zero index delta has no defined fan direction;
	// the click is rejected and creation stays pending.
	if tool == TypeGannAngle {
		if cur := l.state.CurrentPoints(); len(cur) == 1 && cur[0].Index == p.Index {
			return
		}
	}

	l.state.AppendCurrentPoint(p)
	l.state.SetPreviewPoint(nil)
	if len(l.state.CurrentPoints()) >= RequiredPoints(tool) {
		l.commit(tool)
	}
}

func (l *Layer) commit(tool Type) {
	points := make([]Point, len(l.state.CurrentPoints()))
	copy(points, l.state.CurrentPoints())

	d := &Drawing{
		ID:     uuid.NewString(),
		Type:   tool,
		Points: points,
		Config: DefaultConfig(tool),
		Color:  l.stroke(),
	}

	l.snapshot()
	l.state.SetDrawings(append(l.state.Drawings(), d))
	l.state.ClearCurrent()
	l.save()
	// The tool stays armed for repeated drawing until explicitly deselected.
}

func (l *Layer) pointerMove(pos geometry.Point2D) bool {
	if l.state.IsEditing() {
		id, idx := l.state.Editing()
		d := l.state.FindDrawing(id)
		if d == nil || idx >= len(d.Points) {
			l.state.ExitEditMode()
			return false
		}
		index, price := l.cs.PixelToData(pos.X, pos.Y)
		d.Points[idx] = Point{Index: index, Price: price}
		l.state.Emit(EventDrawingsChanged, l.state.Drawings())
		return true
	}

	if l.state.IsDrawing() {
		index, price := l.cs.PixelToData(pos.X, pos.Y)
		l.state.SetPreviewPoint(&Point{Index: index, Price: price})
		return true
	}

	if _, armed := l.state.ActiveTool(); armed {
		return false
	}

	drawings := l.state.Drawings()
	for i := len(drawings) - 1; i >= 0; i-- {
		if HitTest(drawings[i], l.cs, pos, HitTolerance) {
			l.state.SetHoveredID(drawings[i].ID)
			return true
		}
	}
	l.state.SetHoveredID("")
	return false
}

// pointerUp commits an edit drag; the last pointer-move value stands.
func (l *Layer) pointerUp() bool {
	if !l.state.IsEditing() {
		return false
	}
	l.state.ExitEditMode()
	l.save()
	return true
}

// snapshot pushes a deep copy of the committed set onto the undo stack. Every
// structural mutation pushes exactly one; control point drags do not.
func (l *Layer) snapshot() {
	l.undo = append(l.undo, CloneAll(l.state.Drawings()))
	l.state.Emit(EventUndoChanged, len(l.undo))
}

func storageKey(instrument string) string {
	return fmt.Sprintf("drawings_%s", instrument)
}

// save writes the committed set through the store. Failures are logged and
// swallowed.
func (l *Layer) save() {
	if l.store == nil || l.instrument == "" {
		return
	}
	data, err := json.Marshal(l.state.Drawings())
	if err != nil {
		l.log.WithError(err).Warn("marshal drawings")
		return
	}
	if err := l.store.Set(storageKey(l.instrument), data); err != nil {
		l.log.WithError(err).WithField("instrument", l.instrument).Warn("persist drawings")
	}
}

// loadStored parses an instrument's persisted drawings. Missing or corrupt
// data is an empty set.
func (l *Layer) loadStored(instrument string) []*Drawing {
	if l.store == nil || instrument == "" {
		return nil
	}
	data, ok := l.store.Get(storageKey(instrument))
	if !ok {
		return nil
	}
	var drawings []*Drawing
	if err := json.Unmarshal(data, &drawings); err != nil {
		l.log.WithError(err).WithField("instrument", instrument).Warn("corrupt drawings, starting empty")
		return nil
	}
	return drawings
}

// Render implements layers.Layer: committed drawings first, then the
// in-progress preview, then control point handles for the selection.
func (l *Layer) Render(dst *image.RGBA) {
	if !l.cs.Valid() {
		return
	}

	selectedID := l.state.SelectedID()
	hoveredID := l.state.HoveredID()

	for _, d := range l.state.Drawings() {
		col := layers.ParseHexColor(d.Color)
		thickness := 1
		if d.ID == selectedID || d.ID == hoveredID {
			thickness = 2
		}
		l.renderShape(dst, BuildShape(d, l.cs), col, thickness)

		if d.ID == selectedID {
			handle := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
			for _, p := range d.Points {
				layers.DrawHandle(dst, l.cs.DataToPixel(p.Index, p.Price), handle, 3)
			}
		}
	}

	l.renderPreview(dst)
}

func (l *Layer) renderShape(dst *image.RGBA, shape Shape, col color.RGBA, thickness int) {
	for _, seg := range shape.Segments {
		layers.DrawLine(dst, seg, col, thickness)
	}
	for _, label := range shape.Labels {
		layers.DrawText(dst, geometry.Point2D{X: label.Pos.X + 2, Y: label.Pos.Y - 3}, label.Text, col)
	}
}

// renderPreview draws the creation sequence with the cursor as a provisional
// final point.
func (l *Layer) renderPreview(dst *image.RGBA) {
	tool, armed := l.state.ActiveTool()
	if !armed || !l.state.IsDrawing() {
		return
	}

	points := make([]Point, len(l.state.CurrentPoints()))
	copy(points, l.state.CurrentPoints())
	if pp := l.state.PreviewPoint(); pp != nil && len(points) < RequiredPoints(tool) {
		points = append(points, *pp)
	}
	if len(points) < RequiredPoints(tool) {
		col := layers.ParseHexColor(l.stroke())
		for _, p := range points {
			layers.DrawHandle(dst, l.cs.DataToPixel(p.Index, p.Price), col, 2)
		}
		return
	}

	preview := &Drawing{
		Type:   tool,
		Points: points,
		Config: DefaultConfig(tool),
	}
	l.renderShape(dst, BuildShape(preview, l.cs), layers.ParseHexColor(l.stroke()), 1)
}
