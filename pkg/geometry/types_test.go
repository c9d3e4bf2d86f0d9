package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentDistanceToPoint(t *testing.T) {
	seg := Segment{From: Point2D{X: 0, Y: 0}, To: Point2D{X: 10, Y: 0}}

	assert.InDelta(t, 3, seg.DistanceToPoint(Point2D{X: 5, Y: 3}), 1e-9)
	// Beyond the endpoints the distance is to the nearest endpoint.
	assert.InDelta(t, 5, seg.DistanceToPoint(Point2D{X: 14, Y: 3}), 1e-9)
	assert.InDelta(t, 2, seg.DistanceToPoint(Point2D{X: -2, Y: 0}), 1e-9)
}

func TestSegmentDistanceDegenerate(t *testing.T) {
	seg := Segment{From: Point2D{X: 1, Y: 1}, To: Point2D{X: 1, Y: 1}}
	assert.InDelta(t, 5, seg.DistanceToPoint(Point2D{X: 4, Y: 5}), 1e-9)
}

func TestSegmentUnitNormal(t *testing.T) {
	seg := Segment{From: Point2D{X: 0, Y: 0}, To: Point2D{X: 10, Y: 0}}
	n := seg.UnitNormal()
	assert.InDelta(t, 0, n.X, 1e-9)
	assert.InDelta(t, 1, n.Y, 1e-9)

	zero := Segment{}
	assert.Equal(t, Point2D{}, zero.UnitNormal())
}

func TestSignedDistanceToLine(t *testing.T) {
	seg := Segment{From: Point2D{X: 0, Y: 0}, To: Point2D{X: 10, Y: 0}}
	assert.InDelta(t, 4, seg.SignedDistanceToLine(Point2D{X: 3, Y: 4}), 1e-9)
	assert.InDelta(t, -4, seg.SignedDistanceToLine(Point2D{X: 3, Y: -4}), 1e-9)
}

func TestAffineInverseRoundTrip(t *testing.T) {
	tr := Translation(5, -3).Compose(ScaleTransform(2, -4))
	inv, ok := tr.Inverse()
	require.True(t, ok)

	p := Point2D{X: 7.5, Y: -2.25}
	back := inv.Apply(tr.Apply(p))
	assert.InDelta(t, p.X, back.X, 1e-9)
	assert.InDelta(t, p.Y, back.Y, 1e-9)
}

func TestAffineInverseSingular(t *testing.T) {
	_, ok := ScaleTransform(0, 1).Inverse()
	assert.False(t, ok)
}

func TestBoundingBox(t *testing.T) {
	box := BoundingBox([]Point2D{{X: 2, Y: 5}, {X: -1, Y: 3}, {X: 4, Y: 4}})
	assert.Equal(t, Rect{X: -1, Y: 3, Width: 5, Height: 2}, box)
}
