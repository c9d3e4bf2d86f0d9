// Package drawing implements the chart annotation subsystem: the drawing
// model, per-type geometry, the interaction state machine, undo, and
// persistence.
package drawing

// Type identifies one of the supported annotation shapes.
type Type string

const (
	TypeRay           Type = "ray"
	TypeHorizontalRay Type = "horizontal-ray"
	TypeSegment       Type = "segment"
	TypePriceChannel  Type = "price-channel"
	TypeFibonacci     Type = "fibonacci"
	TypeGannAngle     Type = "gann-angle"
)

// Point is a control point in data space.
type Point struct {
	Index float64 `json:"index"`
	Price float64 `json:"price"`
}

// FibonacciConfig carries the retracement levels, each in 0..1.
type FibonacciConfig struct {
	Levels []float64 `json:"levels"`
}

// ChannelConfig carries the parallel-line offset in pixels, captured at
// creation time. A third control point supersedes it.
type ChannelConfig struct {
	Width float64 `json:"channelWidth"`
}

// Config is the per-type variant; only the field matching the drawing's type
// is set.
type Config struct {
	Fibonacci *FibonacciConfig `json:"fibonacci,omitempty"`
	Channel   *ChannelConfig   `json:"channel,omitempty"`
}

// Drawing is one persisted annotation.
type Drawing struct {
	ID     string  `json:"id"`
	Type   Type    `json:"type"`
	Points []Point `json:"points"`
	Config Config  `json:"config"`
	// Color is resolved from the active theme at creation and load time. It is
	// persisted for readability but never trusted across a theme change.
	Color string `json:"color"`
}

// Clone returns a deep copy of the drawing.
func (d *Drawing) Clone() *Drawing {
	c := *d
	c.Points = make([]Point, len(d.Points))
	copy(c.Points, d.Points)
	if d.Config.Fibonacci != nil {
		levels := make([]float64, len(d.Config.Fibonacci.Levels))
		copy(levels, d.Config.Fibonacci.Levels)
		c.Config.Fibonacci = &FibonacciConfig{Levels: levels}
	}
	if d.Config.Channel != nil {
		ch := *d.Config.Channel
		c.Config.Channel = &ch
	}
	return &c
}

// CloneAll deep-copies a drawing slice. Used for undo snapshots and atomic
// replacement of the committed set.
func CloneAll(drawings []*Drawing) []*Drawing {
	out := make([]*Drawing, len(drawings))
	for i, d := range drawings {
		out[i] = d.Clone()
	}
	return out
}
