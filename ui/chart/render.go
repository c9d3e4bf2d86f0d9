package chart

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"chartmark/internal/app"
	"chartmark/internal/coords"
	"chartmark/internal/kline"
	"chartmark/internal/layers"
	"chartmark/pkg/geometry"
)

func fillBackground(img *image.RGBA, col color.RGBA) {
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = col.R
		img.Pix[i+1] = col.G
		img.Pix[i+2] = col.B
		img.Pix[i+3] = 0xff
	}
}

func renderCandles(img *image.RGBA, cs *coords.System, series *kline.Series, first, count int, themeName string) {
	if !cs.Valid() {
		return
	}
	up, down := app.CandleColors(themeName)

	last := first + count
	if last > series.Len() {
		last = series.Len()
	}

	bodyHalf := int(cs.PixelsPerIndex() * 0.35)
	if bodyHalf < 1 {
		bodyHalf = 1
	}

	for i := first; i < last; i++ {
		c := series.Candles[i]
		col := up
		if !c.Bullish() {
			col = down
		}

		x := cs.DataToPixel(float64(i), 0).X
		wick := geometry.Segment{
			From: cs.DataToPixel(float64(i), c.High),
			To:   cs.DataToPixel(float64(i), c.Low),
		}
		wick.From.X, wick.To.X = x, x
		layers.DrawLine(img, wick, col, 1)

		openY := cs.DataToPixel(float64(i), c.Open).Y
		closeY := cs.DataToPixel(float64(i), c.Close).Y
		top := int(math.Min(openY, closeY))
		bot := int(math.Max(openY, closeY))
		if bot == top {
			bot = top + 1
		}
		fillRect(img, int(x)-bodyHalf, top, int(x)+bodyHalf, bot, col)
	}
}

func fillRect(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	bounds := img.Bounds()
	for y := y1; y <= y2; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := x1; x <= x2; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			img.Set(x, y, col)
		}
	}
}

// renderPriceAxis draws horizontal gridlines at rounded price steps with
// labels on the right edge.
func renderPriceAxis(img *image.RGBA, cs *coords.System, themeName string) {
	if !cs.Valid() {
		return
	}
	grid := color.RGBA{R: 0x3a, G: 0x3a, B: 0x3a, A: 0xff}
	text := color.RGBA{R: 0x8a, G: 0x8a, B: 0x8a, A: 0xff}
	if themeName == app.ThemeLight {
		grid = color.RGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}
		text = color.RGBA{R: 0x61, G: 0x61, B: 0x61, A: 0xff}
	}

	lo, hi := cs.PriceRange()
	step := niceStep((hi - lo) / 6)
	if step <= 0 {
		return
	}
	canvas := cs.Canvas()

	for price := math.Ceil(lo/step) * step; price <= hi; price += step {
		y := cs.DataToPixel(0, price).Y
		layers.DrawDashedLine(img, geometry.Segment{
			From: geometry.Point2D{X: 0, Y: y},
			To:   geometry.Point2D{X: canvas.Width, Y: y},
		}, grid)
		label := fmt.Sprintf("%g", price)
		layers.DrawText(img, geometry.Point2D{
			X: canvas.Width - float64(layers.TextWidth(label)) - 4,
			Y: y - 2,
		}, label, text)
	}
}

// niceStep rounds a raw step to 1, 2, or 5 times a power of ten.
func niceStep(raw float64) float64 {
	if raw <= 0 {
		return 0
	}
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch {
	case raw/mag < 1.5:
		return mag
	case raw/mag < 3.5:
		return 2 * mag
	case raw/mag < 7.5:
		return 5 * mag
	default:
		return 10 * mag
	}
}
