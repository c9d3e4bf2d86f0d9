// Package toolbar provides the drawing tool controls above the chart.
package toolbar

import (
	"chartmark/internal/drawing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// tools in display order; labels double as tooltips for the compact buttons.
var tools = []struct {
	label string
	typ   drawing.Type
}{
	{"Seg", drawing.TypeSegment},
	{"Ray", drawing.TypeRay},
	{"HRay", drawing.TypeHorizontalRay},
	{"Chan", drawing.TypePriceChannel},
	{"Fib", drawing.TypeFibonacci},
	{"Gann", drawing.TypeGannAngle},
}

// Toolbar binds the drawing controller's host control surface to buttons.
// Button states react to state change events rather than polling.
type Toolbar struct {
	controller *drawing.Layer
	onChange   func()

	modeCheck   *widget.Check
	toolButtons map[drawing.Type]*widget.Button
	undoBtn     *widget.Button
	deleteBtn   *widget.Button
	switchBtn   *widget.Button
	clearBtn    *widget.Button

	container *fyne.Container
}

// New builds the toolbar for a drawing controller. onChange is invoked after
// any toolbar-driven mutation so the host can redraw.
func New(controller *drawing.Layer, onChange func()) *Toolbar {
	t := &Toolbar{
		controller:  controller,
		onChange:    onChange,
		toolButtons: make(map[drawing.Type]*widget.Button),
	}

	t.modeCheck = widget.NewCheck("Draw", func(enabled bool) {
		controller.SetDrawingMode(enabled)
		t.syncToolButtons()
	})

	items := []fyne.CanvasObject{t.modeCheck, widget.NewSeparator()}
	for _, tool := range tools {
		tool := tool
		btn := widget.NewButton(tool.label, func() {
			t.selectTool(tool.typ)
		})
		t.toolButtons[tool.typ] = btn
		items = append(items, btn)
	}

	t.undoBtn = widget.NewButton("Undo", func() {
		controller.Undo()
		t.notify()
	})
	t.deleteBtn = widget.NewButton("Delete", func() {
		controller.RemoveSelectedDrawing()
		t.notify()
	})
	t.switchBtn = widget.NewButton("Switch", func() {
		controller.SwitchSelectedDrawingType()
		t.notify()
	})
	t.clearBtn = widget.NewButton("Clear", func() {
		controller.ClearAll()
		t.notify()
	})

	items = append(items, widget.NewSeparator(), t.undoBtn, t.deleteBtn, t.switchBtn, t.clearBtn)
	t.container = container.NewHBox(items...)

	state := controller.State()
	state.On(drawing.EventSelectionChanged, func(interface{}) {
		t.syncActionButtons()
	})
	state.On(drawing.EventUndoChanged, func(interface{}) {
		t.syncActionButtons()
	})
	state.On(drawing.EventToolChanged, func(interface{}) {
		t.syncToolButtons()
	})

	t.syncToolButtons()
	t.syncActionButtons()
	return t
}

// Container returns the toolbar for embedding in layouts.
func (t *Toolbar) Container() fyne.CanvasObject {
	return t.container
}

// selectTool toggles a tool: tapping the armed tool disarms it.
func (t *Toolbar) selectTool(typ drawing.Type) {
	if cur, armed := t.controller.State().ActiveTool(); armed && cur == typ {
		t.controller.ClearActiveTool()
	} else {
		t.controller.SetActiveTool(typ)
	}
	t.notify()
}

func (t *Toolbar) syncToolButtons() {
	mode := t.controller.DrawingMode()
	cur, armed := t.controller.State().ActiveTool()
	for typ, btn := range t.toolButtons {
		if !mode {
			btn.Disable()
			continue
		}
		btn.Enable()
		if armed && typ == cur {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.MediumImportance
		}
		btn.Refresh()
	}
}

func (t *Toolbar) syncActionButtons() {
	if t.controller.GetSelectedDrawingID() != "" {
		t.deleteBtn.Enable()
		t.switchBtn.Enable()
	} else {
		t.deleteBtn.Disable()
		t.switchBtn.Disable()
	}
	if t.controller.CanUndo() {
		t.undoBtn.Enable()
	} else {
		t.undoBtn.Disable()
	}
}

func (t *Toolbar) notify() {
	t.syncActionButtons()
	if t.onChange != nil {
		t.onChange()
	}
}
