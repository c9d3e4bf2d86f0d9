package layers

import (
	"image"
	"image/color"

	"chartmark/pkg/geometry"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DrawLine draws a segment using Bresenham's algorithm with the given
// thickness in pixels.
func DrawLine(dst *image.RGBA, seg geometry.Segment, col color.RGBA, thickness int) {
	bounds := dst.Bounds()

	x1, y1 := int(seg.From.X), int(seg.From.Y)
	x2, y2 := int(seg.To.X), int(seg.To.Y)

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				px, py := x1+s, y1+t
				if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
					dst.Set(px, py, col)
				}
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// DrawDashedLine draws a segment with a 4-on/4-off dash pattern.
func DrawDashedLine(dst *image.RGBA, seg geometry.Segment, col color.RGBA) {
	length := seg.Length()
	if length == 0 {
		return
	}
	steps := int(length)
	dx := (seg.To.X - seg.From.X) / length
	dy := (seg.To.Y - seg.From.Y) / length
	bounds := dst.Bounds()
	for i := 0; i <= steps; i++ {
		if i%8 >= 4 {
			continue
		}
		px := int(seg.From.X + float64(i)*dx)
		py := int(seg.From.Y + float64(i)*dy)
		if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
			dst.Set(px, py, col)
		}
	}
}

// DrawHandle draws a filled square control point handle centered at pos.
func DrawHandle(dst *image.RGBA, pos geometry.Point2D, col color.RGBA, halfSize int) {
	bounds := dst.Bounds()
	cx, cy := int(pos.X), int(pos.Y)
	for y := cy - halfSize; y <= cy+halfSize; y++ {
		for x := cx - halfSize; x <= cx+halfSize; x++ {
			if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
				dst.Set(x, y, col)
			}
		}
	}
}

// DrawText draws a text label with its baseline at pos using the bitmap face.
func DrawText(dst *image.RGBA, pos geometry.Point2D, text string, col color.RGBA) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(int(pos.X), int(pos.Y)),
	}
	d.DrawString(text)
}

// TextWidth returns the pixel width of text in the bitmap face.
func TextWidth(text string) int {
	return font.MeasureString(basicfont.Face7x13, text).Ceil()
}

// ParseHexColor parses "#rrggbb" or "#rrggbbaa" into an RGBA color. Malformed
// input yields opaque white.
func ParseHexColor(s string) color.RGBA {
	c := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	hex := s
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) != 6 && len(hex) != 8 {
		return c
	}
	nibble := func(b byte) (uint8, bool) {
		switch {
		case b >= '0' && b <= '9':
			return b - '0', true
		case b >= 'a' && b <= 'f':
			return b - 'a' + 10, true
		case b >= 'A' && b <= 'F':
			return b - 'A' + 10, true
		}
		return 0, false
	}
	out := make([]uint8, len(hex)/2)
	for i := 0; i < len(out); i++ {
		hi, ok1 := nibble(hex[2*i])
		lo, ok2 := nibble(hex[2*i+1])
		if !ok1 || !ok2 {
			return c
		}
		out[i] = hi<<4 | lo
	}
	c.R, c.G, c.B = out[0], out[1], out[2]
	if len(out) == 4 {
		c.A = out[3]
	}
	return c
}
