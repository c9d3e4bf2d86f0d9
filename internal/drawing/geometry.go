package drawing

import (
	"fmt"
	"math"

	"chartmark/internal/coords"
	"chartmark/pkg/geometry"
)

// HitTolerance is the pixel distance within which a pointer position counts as
// touching a drawing or a control point handle.
const HitTolerance = 6.0

// DefaultFibonacciLevels are the retracement fractions applied at creation.
var DefaultFibonacciLevels = []float64{0, 0.236, 0.382, 0.5, 0.618, 0.786, 1}

// DefaultChannelWidth is the parallel-line offset in pixels applied at
// creation until a third point redefines it.
const DefaultChannelWidth = 50.0

// gannRatios are the fan slopes drawn from the anchor; 1 is the 45-degree
// reference line.
var gannRatios = []float64{8, 4, 3, 2, 1, 1.0 / 2, 1.0 / 3, 1.0 / 4, 1.0 / 8}

// typeCycles groups types by required point count; switching type walks the
// group the current type belongs to.
var typeCycles = [][]Type{
	{TypeRay, TypeSegment, TypePriceChannel, TypeFibonacci, TypeGannAngle},
	{TypeHorizontalRay},
}

// RequiredPoints returns how many control points a type needs to commit.
func RequiredPoints(t Type) int {
	if t == TypeHorizontalRay {
		return 1
	}
	return 2
}

// MaxPoints returns the largest point count a committed drawing of this type
// may carry. Only the price channel accepts an optional third point.
func MaxPoints(t Type) int {
	if t == TypePriceChannel {
		return 3
	}
	return RequiredPoints(t)
}

// DefaultConfig returns the config variant a freshly created drawing of this
// type starts with.
func DefaultConfig(t Type) Config {
	switch t {
	case TypeFibonacci:
		levels := make([]float64, len(DefaultFibonacciLevels))
		copy(levels, DefaultFibonacciLevels)
		return Config{Fibonacci: &FibonacciConfig{Levels: levels}}
	case TypePriceChannel:
		return Config{Channel: &ChannelConfig{Width: DefaultChannelWidth}}
	default:
		return Config{}
	}
}

// NextType returns the next type in the same point-count group, or the input
// unchanged if the type is unknown.
func NextType(t Type) Type {
	for _, cycle := range typeCycles {
		for i, ct := range cycle {
			if ct == t {
				return cycle[(i+1)%len(cycle)]
			}
		}
	}
	return t
}

// SameGroup reports whether two types share a required point count.
func SameGroup(a, b Type) bool {
	return RequiredPoints(a) == RequiredPoints(b)
}

// Label is a text annotation positioned in pixel space.
type Label struct {
	Pos  geometry.Point2D
	Text string
}

// Shape is the rendered form of a drawing for the current viewport: pixel
// segments plus optional labels. The same segments back hit-testing.
type Shape struct {
	Segments []geometry.Segment
	Labels   []Label
}

// BuildShape computes the pixel-space shape of a drawing under the current
// coordinate system. Unknown types and drawings with too few points yield an
// empty shape.
func BuildShape(d *Drawing, cs *coords.System) Shape {
	switch d.Type {
	case TypeSegment:
		return segmentShape(d, cs)
	case TypeRay:
		return rayShape(d, cs)
	case TypeHorizontalRay:
		return horizontalRayShape(d, cs)
	case TypePriceChannel:
		return channelShape(d, cs)
	case TypeFibonacci:
		return fibonacciShape(d, cs)
	case TypeGannAngle:
		return gannShape(d, cs)
	}
	return Shape{}
}

// HitTest reports whether the pixel position lands within tolerance of the
// drawing's shape.
func HitTest(d *Drawing, cs *coords.System, pos geometry.Point2D, tolerance float64) bool {
	for _, seg := range BuildShape(d, cs).Segments {
		if seg.DistanceToPoint(pos) <= tolerance {
			return true
		}
	}
	return false
}

// HitControlPoint returns the index of the control point handle within
// tolerance of the pixel position, or -1.
func HitControlPoint(d *Drawing, cs *coords.System, pos geometry.Point2D, tolerance float64) int {
	for i, p := range d.Points {
		if cs.DataToPixel(p.Index, p.Price).Distance(pos) <= tolerance {
			return i
		}
	}
	return -1
}

func pixelPoints(d *Drawing, cs *coords.System) []geometry.Point2D {
	out := make([]geometry.Point2D, len(d.Points))
	for i, p := range d.Points {
		out[i] = cs.DataToPixel(p.Index, p.Price)
	}
	return out
}

func segmentShape(d *Drawing, cs *coords.System) Shape {
	if len(d.Points) < 2 {
		return Shape{}
	}
	px := pixelPoints(d, cs)
	return Shape{Segments: []geometry.Segment{{From: px[0], To: px[1]}}}
}

func rayShape(d *Drawing, cs *coords.System) Shape {
	if len(d.Points) < 2 {
		return Shape{}
	}
	px := pixelPoints(d, cs)
	far := extendPast(px[0], px[1], cs.Canvas())
	return Shape{Segments: []geometry.Segment{{From: px[0], To: far}}}
}

func horizontalRayShape(d *Drawing, cs *coords.System) Shape {
	if len(d.Points) < 1 {
		return Shape{}
	}
	start := cs.DataToPixel(d.Points[0].Index, d.Points[0].Price)
	end := geometry.Point2D{X: cs.Canvas().Width, Y: start.Y}
	if end.X < start.X {
		end.X = start.X
	}
	return Shape{Segments: []geometry.Segment{{From: start, To: end}}}
}

func channelShape(d *Drawing, cs *coords.System) Shape {
	if len(d.Points) < 2 {
		return Shape{}
	}
	px := pixelPoints(d, cs)
	base := geometry.Segment{From: px[0], To: px[1]}

	offset := DefaultChannelWidth
	if d.Config.Channel != nil {
		offset = d.Config.Channel.Width
	}
	// A third control point redefines the offset instead of the stored pixel
	// constant.
	if len(d.Points) >= 3 {
		offset = base.SignedDistanceToLine(px[2])
	}

	normal := base.UnitNormal().Scale(offset)
	return Shape{Segments: []geometry.Segment{base, base.Translate(normal)}}
}

func fibonacciShape(d *Drawing, cs *coords.System) Shape {
	if len(d.Points) < 2 {
		return Shape{}
	}
	levels := DefaultFibonacciLevels
	if d.Config.Fibonacci != nil && len(d.Config.Fibonacci.Levels) > 0 {
		levels = d.Config.Fibonacci.Levels
	}

	p1, p2 := d.Points[0], d.Points[1]
	x1 := cs.DataToPixel(p1.Index, p1.Price).X
	x2 := cs.DataToPixel(p2.Index, p2.Price).X
	if x1 > x2 {
		x1, x2 = x2, x1
	}

	var shape Shape
	for _, level := range levels {
		price := p1.Price + level*(p2.Price-p1.Price)
		y := cs.DataToPixel(p1.Index, price).Y
		shape.Segments = append(shape.Segments, geometry.Segment{
			From: geometry.Point2D{X: x1, Y: y},
			To:   geometry.Point2D{X: x2, Y: y},
		})
		shape.Labels = append(shape.Labels, Label{
			Pos:  geometry.Point2D{X: x1, Y: y},
			Text: formatLevel(level),
		})
	}
	return shape
}

// gannShape draws the angle fan anchored at point 1. Index deltas are
// normalized into price-equivalent units via the viewport's unit ratio so the
// 1:1 line renders at a true 45 degrees regardless of the chart's independent
// index/price pixel scales. Point 2 only supplies the quadrant.
func gannShape(d *Drawing, cs *coords.System) Shape {
	if len(d.Points) < 2 {
		return Shape{}
	}
	unit := cs.UnitRatio()
	if unit == 0 {
		return Shape{}
	}

	p1, p2 := d.Points[0], d.Points[1]
	dirX := 1.0
	if p2.Index < p1.Index {
		dirX = -1
	}
	dirY := 1.0
	if p2.Price < p1.Price {
		dirY = -1
	}

	anchor := cs.DataToPixel(p1.Index, p1.Price)
	var shape Shape
	for _, ratio := range gannRatios {
		through := cs.DataToPixel(p1.Index+dirX, p1.Price+dirY*ratio*unit)
		far := extendPast(anchor, through, cs.Canvas())
		shape.Segments = append(shape.Segments, geometry.Segment{From: anchor, To: far})
	}
	return shape
}

// extendPast returns the point where the ray from 'from' through 'through'
// leaves the canvas. The ray is extended past 'through' only.
func extendPast(from, through geometry.Point2D, canvas geometry.Size) geometry.Point2D {
	dx := through.X - from.X
	dy := through.Y - from.Y
	if dx == 0 && dy == 0 {
		return through
	}

	t := math.Inf(1)
	if dx > 0 {
		t = (canvas.Width - from.X) / dx
	} else if dx < 0 {
		t = -from.X / dx
	}
	if dy > 0 {
		if ty := (canvas.Height - from.Y) / dy; ty < t {
			t = ty
		}
	} else if dy < 0 {
		if ty := -from.Y / dy; ty < t {
			t = ty
		}
	}
	if math.IsInf(t, 1) || t < 1 {
		return through
	}
	return geometry.Point2D{X: from.X + t*dx, Y: from.Y + t*dy}
}

func formatLevel(level float64) string {
	pct := level * 100
	if pct == math.Trunc(pct) {
		return fmt.Sprintf("%.0f%%", pct)
	}
	return fmt.Sprintf("%.1f%%", pct)
}
