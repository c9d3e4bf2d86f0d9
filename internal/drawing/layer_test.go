package drawing

import (
	"testing"

	"chartmark/internal/coords"
	"chartmark/internal/layers"
	"chartmark/internal/storage"
	"chartmark/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLayer(store storage.Store) (*Layer, *coords.System) {
	cs := coords.New()
	cs.UpdateViewport(0, 100, 0, 200, geometry.NewSize(1000, 500))
	l := NewLayer(cs, store, func() string { return "#ffb300" })
	l.SetInstrument("TEST")
	l.SetDrawingMode(true)
	return l, cs
}

func click(l *Layer, cs *coords.System, index, price float64) {
	pos := cs.DataToPixel(index, price)
	l.HandlePointer(layers.PointerEvent{Pos: pos, Phase: layers.PhaseDown, Source: layers.SourceMouse})
	l.HandlePointer(layers.PointerEvent{Pos: pos, Phase: layers.PhaseUp, Source: layers.SourceMouse})
}

func moveTo(l *Layer, cs *coords.System, index, price float64) {
	l.HandlePointer(layers.PointerEvent{Pos: cs.DataToPixel(index, price), Phase: layers.PhaseMove, Source: layers.SourceMouse})
}

func TestSegmentCreation(t *testing.T) {
	store := storage.NewMemStore()
	l, cs := newTestLayer(store)
	l.SetActiveTool(TypeSegment)

	click(l, cs, 10, 100)
	assert.True(t, l.State().IsDrawing())
	assert.Len(t, l.State().Drawings(), 0)

	click(l, cs, 20, 110)
	require.Len(t, l.State().Drawings(), 1)

	d := l.State().Drawings()[0]
	assert.NotEmpty(t, d.ID)
	assert.Equal(t, TypeSegment, d.Type)
	require.Len(t, d.Points, 2)
	assert.InDelta(t, 10, d.Points[0].Index, 1e-9)
	assert.InDelta(t, 100, d.Points[0].Price, 1e-9)
	assert.InDelta(t, 20, d.Points[1].Index, 1e-9)
	assert.InDelta(t, 110, d.Points[1].Price, 1e-9)
	assert.Equal(t, "#ffb300", d.Color)

	// The tool stays armed for repeated drawing.
	_, armed := l.State().ActiveTool()
	assert.True(t, armed)
	assert.False(t, l.State().IsDrawing())

	// The commit was persisted immediately.
	_, ok := store.Get("drawings_TEST")
	assert.True(t, ok)
	assert.True(t, l.CanUndo())
}

func TestHorizontalRaySingleClickCommit(t *testing.T) {
	l, cs := newTestLayer(storage.NewMemStore())
	l.SetActiveTool(TypeHorizontalRay)

	click(l, cs, 30, 150)

	require.Len(t, l.State().Drawings(), 1)
	d := l.State().Drawings()[0]
	assert.Equal(t, TypeHorizontalRay, d.Type)
	assert.Len(t, d.Points, 1)
}

func TestGannSecondClickWithZeroIndexDeltaIsRejected(t *testing.T) {
	l, cs := newTestLayer(storage.NewMemStore())
	l.SetActiveTool(TypeGannAngle)

	click(l, cs, 40, 100)
	click(l, cs, 40, 150) // same index, vertical anchor pair

	assert.Len(t, l.State().Drawings(), 0)
	assert.Len(t, l.State().CurrentPoints(), 1)

	click(l, cs, 50, 150)
	require.Len(t, l.State().Drawings(), 1)
	assert.Equal(t, TypeGannAngle, l.State().Drawings()[0].Type)
}

func TestSwitchingToolDiscardsPendingPoints(t *testing.T) {
	l, cs := newTestLayer(storage.NewMemStore())
	l.SetActiveTool(TypeSegment)
	click(l, cs, 10, 100)
	require.True(t, l.State().IsDrawing())

	l.SetActiveTool(TypeHorizontalRay)
	assert.Empty(t, l.State().CurrentPoints())

	click(l, cs, 20, 110)
	require.Len(t, l.State().Drawings(), 1)
	d := l.State().Drawings()[0]
	assert.Equal(t, TypeHorizontalRay, d.Type)
	assert.Len(t, d.Points, RequiredPoints(d.Type))
}

func TestReArmingSameToolKeepsPendingPoints(t *testing.T) {
	l, cs := newTestLayer(storage.NewMemStore())
	l.SetActiveTool(TypeSegment)
	click(l, cs, 10, 100)

	l.SetActiveTool(TypeSegment)
	assert.Len(t, l.State().CurrentPoints(), 1)
}

func TestDrawingModeGatePreservesMidCreation(t *testing.T) {
	l, cs := newTestLayer(storage.NewMemStore())
	l.SetActiveTool(TypeSegment)
	click(l, cs, 10, 100)
	require.True(t, l.State().IsDrawing())

	l.SetDrawingMode(false)
	handled := l.HandlePointer(layers.PointerEvent{
		Pos: cs.DataToPixel(20, 110), Phase: layers.PhaseDown, Source: layers.SourceMouse,
	})
	assert.False(t, handled)
	assert.Len(t, l.State().Drawings(), 0)
	assert.Len(t, l.State().CurrentPoints(), 1)

	l.SetDrawingMode(true)
	click(l, cs, 20, 110)
	assert.Len(t, l.State().Drawings(), 1)
}

func TestSelectionAndHover(t *testing.T) {
	l, cs := newTestLayer(storage.NewMemStore())
	l.SetActiveTool(TypeSegment)
	click(l, cs, 10, 100)
	click(l, cs, 20, 110)
	l.ClearActiveTool()

	id := l.State().Drawings()[0].ID

	moveTo(l, cs, 15, 105)
	assert.Equal(t, id, l.State().HoveredID())

	click(l, cs, 15, 105)
	assert.Equal(t, id, l.GetSelectedDrawingID())

	// A click far from the drawing deselects.
	click(l, cs, 80, 20)
	assert.Empty(t, l.GetSelectedDrawingID())

	moveTo(l, cs, 80, 20)
	assert.Empty(t, l.State().HoveredID())
}

func TestReverseZOrderSelection(t *testing.T) {
	l, cs := newTestLayer(storage.NewMemStore())
	l.SetActiveTool(TypeSegment)
	click(l, cs, 10, 100)
	click(l, cs, 20, 110)
	click(l, cs, 10, 100)
	click(l, cs, 20, 110)
	l.ClearActiveTool()

	require.Len(t, l.State().Drawings(), 2)
	newest := l.State().Drawings()[1].ID

	click(l, cs, 15, 105)
	assert.Equal(t, newest, l.GetSelectedDrawingID())
}

func TestControlPointDragEditsWithoutSnapshot(t *testing.T) {
	store := storage.NewMemStore()
	l, cs := newTestLayer(store)
	l.SetActiveTool(TypeSegment)
	click(l, cs, 10, 100)
	click(l, cs, 20, 110)
	l.ClearActiveTool()
	click(l, cs, 15, 105) // select

	undoDepth := len(l.undo)

	// Grab the second endpoint and drag it.
	l.HandlePointer(layers.PointerEvent{Pos: cs.DataToPixel(20, 110), Phase: layers.PhaseDown, Source: layers.SourceMouse})
	assert.True(t, l.State().IsEditing())
	moveTo(l, cs, 25, 120)
	moveTo(l, cs, 30, 130)
	l.HandlePointer(layers.PointerEvent{Phase: layers.PhaseUp, Source: layers.SourceMouse})
	assert.False(t, l.State().IsEditing())

	d := l.State().Drawings()[0]
	assert.InDelta(t, 30, d.Points[1].Index, 1e-9)
	assert.InDelta(t, 130, d.Points[1].Price, 1e-9)

	// Drags do not grow the undo stack.
	assert.Equal(t, undoDepth, len(l.undo))
}

func TestDeleteThenUndoRestoresSameID(t *testing.T) {
	l, cs := newTestLayer(storage.NewMemStore())
	l.SetActiveTool(TypeSegment)
	click(l, cs, 10, 100)
	click(l, cs, 20, 110)
	l.ClearActiveTool()

	id := l.State().Drawings()[0].ID
	click(l, cs, 15, 105)
	l.RemoveSelectedDrawing()
	assert.Len(t, l.State().Drawings(), 0)
	assert.Empty(t, l.GetSelectedDrawingID())

	l.Undo()
	require.Len(t, l.State().Drawings(), 1)
	assert.Equal(t, id, l.State().Drawings()[0].ID)
}

func TestUndoUnwindsToEmpty(t *testing.T) {
	l, cs := newTestLayer(storage.NewMemStore())
	l.SetActiveTool(TypeSegment)
	click(l, cs, 10, 100)
	click(l, cs, 20, 110)
	click(l, cs, 30, 120)
	click(l, cs, 40, 130)

	assert.Len(t, l.State().Drawings(), 2)
	l.Undo()
	assert.Len(t, l.State().Drawings(), 1)
	l.Undo()
	assert.Len(t, l.State().Drawings(), 0)
	assert.False(t, l.CanUndo())
	l.Undo() // no-op on an empty stack
	assert.Len(t, l.State().Drawings(), 0)
}

func TestClearAllIsNoOpWhenEmpty(t *testing.T) {
	l, cs := newTestLayer(storage.NewMemStore())
	l.ClearAll()
	assert.False(t, l.CanUndo())

	l.SetActiveTool(TypeSegment)
	click(l, cs, 10, 100)
	click(l, cs, 20, 110)
	l.ClearAll()
	assert.Len(t, l.State().Drawings(), 0)

	l.Undo()
	assert.Len(t, l.State().Drawings(), 1)
}

func TestSwitchSelectedDrawingType(t *testing.T) {
	l, cs := newTestLayer(storage.NewMemStore())
	l.SetActiveTool(TypeRay)
	click(l, cs, 10, 100)
	click(l, cs, 20, 110)
	l.ClearActiveTool()
	click(l, cs, 15, 105)

	points := append([]Point(nil), l.State().Drawings()[0].Points...)

	l.SwitchSelectedDrawingType()
	d := l.State().Drawings()[0]
	assert.Equal(t, TypeSegment, d.Type)
	assert.Equal(t, points, d.Points)

	l.SwitchSelectedDrawingType()
	d = l.State().Drawings()[0]
	assert.Equal(t, TypePriceChannel, d.Type)
	require.NotNil(t, d.Config.Channel)
	assert.Equal(t, DefaultChannelWidth, d.Config.Channel.Width)

	l.SwitchSelectedDrawingType()
	d = l.State().Drawings()[0]
	assert.Equal(t, TypeFibonacci, d.Type)
	require.NotNil(t, d.Config.Fibonacci)
	assert.Nil(t, d.Config.Channel)
}

func TestSwitchIsNoOpForSingleMemberGroup(t *testing.T) {
	l, cs := newTestLayer(storage.NewMemStore())
	l.SetActiveTool(TypeHorizontalRay)
	click(l, cs, 30, 150)
	l.ClearActiveTool()
	click(l, cs, 40, 150) // anywhere on the ray to the right

	require.Equal(t, l.State().Drawings()[0].ID, l.GetSelectedDrawingID())
	undoDepth := len(l.undo)
	l.SwitchSelectedDrawingType()
	assert.Equal(t, TypeHorizontalRay, l.State().Drawings()[0].Type)
	assert.Equal(t, undoDepth, len(l.undo))
}

func TestPersistenceRoundTrip(t *testing.T) {
	store := storage.NewMemStore()
	l, cs := newTestLayer(store)
	l.SetActiveTool(TypeFibonacci)
	click(l, cs, 10, 50)
	click(l, cs, 40, 70)

	// A fresh layer against the same store sees the committed drawing.
	l2, _ := newTestLayer(store)
	require.Len(t, l2.State().Drawings(), 1)
	d := l2.State().Drawings()[0]
	assert.Equal(t, TypeFibonacci, d.Type)
	require.NotNil(t, d.Config.Fibonacci)
	assert.Equal(t, DefaultFibonacciLevels, d.Config.Fibonacci.Levels)
	// Colors are remapped to the loading theme, not trusted from disk.
	assert.Equal(t, "#ffb300", d.Color)
}

func TestCorruptStoredDataLoadsEmpty(t *testing.T) {
	store := storage.NewMemStore()
	require.NoError(t, store.Set("drawings_TEST", []byte("{not json")))

	l, _ := newTestLayer(store)
	assert.Len(t, l.State().Drawings(), 0)
}

func TestInstrumentSwitchIsolatesDrawings(t *testing.T) {
	store := storage.NewMemStore()
	l, cs := newTestLayer(store)
	l.SetActiveTool(TypeSegment)
	click(l, cs, 10, 100)
	click(l, cs, 20, 110)

	l.SetInstrument("OTHER")
	assert.Len(t, l.State().Drawings(), 0)
	assert.False(t, l.CanUndo())

	l.SetInstrument("TEST")
	assert.Len(t, l.State().Drawings(), 1)
}

func TestRefreshColors(t *testing.T) {
	col := "#ffb300"
	cs := coords.New()
	cs.UpdateViewport(0, 100, 0, 200, geometry.NewSize(1000, 500))
	l := NewLayer(cs, storage.NewMemStore(), func() string { return col })
	l.SetInstrument("TEST")
	l.SetDrawingMode(true)
	l.SetActiveTool(TypeSegment)
	click(l, cs, 10, 100)
	click(l, cs, 20, 110)

	col = "#1565c0"
	l.RefreshColors()
	assert.Equal(t, "#1565c0", l.State().Drawings()[0].Color)
}
