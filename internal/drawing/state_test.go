package drawing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisarmingToolClearsSelectionAndHover(t *testing.T) {
	s := NewState()
	s.SetSelectedID("a")
	s.SetHoveredID("b")

	s.SetActiveTool("", false)

	assert.Empty(t, s.SelectedID())
	assert.Empty(t, s.HoveredID())
	_, armed := s.ActiveTool()
	assert.False(t, armed)
}

func TestArmingToolKeepsSelection(t *testing.T) {
	s := NewState()
	s.SetSelectedID("a")
	s.SetActiveTool(TypeSegment, true)
	assert.Equal(t, "a", s.SelectedID())
}

func TestSelectionEvents(t *testing.T) {
	s := NewState()
	var got []string
	s.On(EventSelectionChanged, func(data interface{}) {
		got = append(got, data.(string))
	})

	s.SetSelectedID("a")
	s.SetSelectedID("a") // unchanged, no event
	s.SetSelectedID("")

	assert.Equal(t, []string{"a", ""}, got)
}

func TestEditModeLifecycle(t *testing.T) {
	s := NewState()
	s.EnterEditMode("d1", 1)
	assert.True(t, s.IsEditing())
	id, idx := s.Editing()
	assert.Equal(t, "d1", id)
	assert.Equal(t, 1, idx)

	s.ExitEditMode()
	assert.False(t, s.IsEditing())
}

func TestClearTransient(t *testing.T) {
	s := NewState()
	s.AppendCurrentPoint(Point{Index: 1, Price: 2})
	s.SetPreviewPoint(&Point{Index: 3, Price: 4})
	s.EnterEditMode("d1", 0)
	s.SetSelectedID("d1")
	s.SetHoveredID("d2")

	s.ClearTransient()

	assert.False(t, s.IsDrawing())
	assert.Empty(t, s.CurrentPoints())
	assert.Nil(t, s.PreviewPoint())
	assert.False(t, s.IsEditing())
	assert.Empty(t, s.SelectedID())
	assert.Empty(t, s.HoveredID())
}

func TestCloneIsDeep(t *testing.T) {
	d := &Drawing{
		ID:     "x",
		Type:   TypeFibonacci,
		Points: []Point{{Index: 1, Price: 2}},
		Config: DefaultConfig(TypeFibonacci),
	}
	c := d.Clone()
	c.Points[0].Price = 99
	c.Config.Fibonacci.Levels[0] = 0.42

	assert.Equal(t, 2.0, d.Points[0].Price)
	assert.Equal(t, 0.0, d.Config.Fibonacci.Levels[0])
}
