package drawing

// EventType identifies state change notifications.
type EventType int

const (
	EventDrawingsChanged EventType = iota
	EventSelectionChanged
	EventHoverChanged
	EventToolChanged
	EventUndoChanged
)

// EventListener is called synchronously when an event occurs.
type EventListener func(data interface{})

// State is the in-memory model of the annotation layer: the committed
// drawings, the armed tool, and all transient creation/edit bookkeeping. It
// performs no I/O; hosts observe mutations through On. All access is expected
// from the UI event loop.
type State struct {
	drawings []*Drawing

	activeTool     Type
	toolArmed      bool
	isDrawing      bool
	currentPoints  []Point
	previewPoint   *Point
	hoveredID      string
	selectedID     string
	isEditing      bool
	editingID      string
	editingPointIx int

	listeners map[EventType][]EventListener
}

// NewState creates an empty state.
func NewState() *State {
	return &State{
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers a listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	for _, listener := range s.listeners[event] {
		listener(data)
	}
}

// Drawings returns the committed drawing set. Callers must not mutate it.
func (s *State) Drawings() []*Drawing {
	return s.drawings
}

// SetDrawings replaces the committed set wholesale. The slice is assigned in a
// single step so a renderer never observes a half-built array.
func (s *State) SetDrawings(drawings []*Drawing) {
	s.drawings = drawings
	s.Emit(EventDrawingsChanged, drawings)
}

// FindDrawing returns the drawing with the given id, or nil.
func (s *State) FindDrawing(id string) *Drawing {
	for _, d := range s.drawings {
		if d.ID == id {
			return d
		}
	}
	return nil
}

// ActiveTool returns the armed tool type and whether one is armed.
func (s *State) ActiveTool() (Type, bool) {
	return s.activeTool, s.toolArmed
}

// SetActiveTool arms a tool. Passing armed=false exits tool mode and also
// clears selection and hover.
func (s *State) SetActiveTool(tool Type, armed bool) {
	s.activeTool = tool
	s.toolArmed = armed
	if !armed {
		s.SetSelectedID("")
		s.SetHoveredID("")
	}
	s.Emit(EventToolChanged, tool)
}

// IsDrawing reports whether a creation sequence is collecting points.
func (s *State) IsDrawing() bool {
	return s.isDrawing
}

// CurrentPoints returns the in-progress creation points.
func (s *State) CurrentPoints() []Point {
	return s.currentPoints
}

// AppendCurrentPoint adds a point to the in-progress creation sequence.
func (s *State) AppendCurrentPoint(p Point) {
	s.currentPoints = append(s.currentPoints, p)
	s.isDrawing = true
}

// ClearCurrent discards the in-progress creation sequence.
func (s *State) ClearCurrent() {
	s.currentPoints = nil
	s.previewPoint = nil
	s.isDrawing = false
}

// PreviewPoint returns the cursor-following point rendered during creation,
// or nil.
func (s *State) PreviewPoint() *Point {
	return s.previewPoint
}

// SetPreviewPoint updates the rendering-only preview point.
func (s *State) SetPreviewPoint(p *Point) {
	s.previewPoint = p
}

// HoveredID returns the id of the hovered drawing, or "".
func (s *State) HoveredID() string {
	return s.hoveredID
}

// SetHoveredID updates hover highlight state.
func (s *State) SetHoveredID(id string) {
	if s.hoveredID == id {
		return
	}
	s.hoveredID = id
	s.Emit(EventHoverChanged, id)
}

// SelectedID returns the id of the selected drawing, or "".
func (s *State) SelectedID() string {
	return s.selectedID
}

// SetSelectedID updates the selection.
func (s *State) SetSelectedID(id string) {
	if s.selectedID == id {
		return
	}
	s.selectedID = id
	s.Emit(EventSelectionChanged, id)
}

// IsEditing reports whether a control point drag is in progress.
func (s *State) IsEditing() bool {
	return s.isEditing
}

// Editing returns the drawing id and control point index being dragged.
func (s *State) Editing() (id string, pointIndex int) {
	return s.editingID, s.editingPointIx
}

// EnterEditMode begins dragging a control point of a committed drawing.
func (s *State) EnterEditMode(id string, pointIndex int) {
	s.isEditing = true
	s.editingID = id
	s.editingPointIx = pointIndex
}

// ExitEditMode ends the control point drag.
func (s *State) ExitEditMode() {
	s.isEditing = false
	s.editingID = ""
	s.editingPointIx = 0
}

// ClearTransient drops every non-persisted field: creation progress, edit
// mode, selection, and hover. Used on instrument switch.
func (s *State) ClearTransient() {
	s.ClearCurrent()
	s.ExitEditMode()
	s.SetSelectedID("")
	s.SetHoveredID("")
}
