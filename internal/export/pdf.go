// Package export renders a chart snapshot, candles plus annotations, to PDF.
package export

import (
	"chartmark/internal/coords"
	"chartmark/internal/drawing"
	"chartmark/internal/kline"
	"chartmark/pkg/geometry"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageMargin = 10.0
	pageWidth  = 297.0 // A4 landscape, mm
	pageHeight = 210.0
)

// PDF writes the visible window of the series and the drawings to path. The
// page gets its own coordinate system sized in millimeters, so annotation
// geometry reuses the exact pixel-space algorithms the screen uses.
func PDF(path string, series *kline.Series, drawings []*drawing.Drawing, first, count int) error {
	w := series.VisibleWindow(first, count)

	cs := coords.New()
	plotW := pageWidth - 2*pageMargin
	plotH := pageHeight - 2*pageMargin
	cs.UpdateViewport(w.IndexMin, w.IndexMax, w.PriceMin, w.PriceMax, geometry.NewSize(plotW, plotH))

	p := gofpdf.New("L", "mm", "A4", "")
	p.AddPage()
	p.SetFont("Helvetica", "", 8)

	p.SetDrawColor(120, 120, 120)
	p.SetLineWidth(0.2)
	p.Rect(pageMargin, pageMargin, plotW, plotH, "D")
	p.Text(pageMargin, pageMargin-2, series.Instrument)

	drawCandles(p, cs, series, first, count)
	drawAnnotations(p, cs, drawings)

	return p.OutputFileAndClose(path)
}

func drawCandles(p *gofpdf.Fpdf, cs *coords.System, series *kline.Series, first, count int) {
	last := first + count
	if last > series.Len() {
		last = series.Len()
	}
	bodyW := cs.PixelsPerIndex() * 0.6

	for i := first; i < last; i++ {
		c := series.Candles[i]
		if c.Bullish() {
			p.SetDrawColor(46, 125, 50)
			p.SetFillColor(46, 125, 50)
		} else {
			p.SetDrawColor(198, 40, 40)
			p.SetFillColor(198, 40, 40)
		}

		x := cs.DataToPixel(float64(i), 0).X
		wickTop := cs.DataToPixel(float64(i), c.High)
		wickBot := cs.DataToPixel(float64(i), c.Low)
		p.SetLineWidth(0.2)
		p.Line(pageMargin+x, pageMargin+wickTop.Y, pageMargin+x, pageMargin+wickBot.Y)

		openY := cs.DataToPixel(float64(i), c.Open).Y
		closeY := cs.DataToPixel(float64(i), c.Close).Y
		top, bot := openY, closeY
		if closeY < openY {
			top, bot = closeY, openY
		}
		height := bot - top
		if height < 0.3 {
			height = 0.3
		}
		p.Rect(pageMargin+x-bodyW/2, pageMargin+top, bodyW, height, "F")
	}
}

func drawAnnotations(p *gofpdf.Fpdf, cs *coords.System, drawings []*drawing.Drawing) {
	p.SetDrawColor(21, 101, 192)
	p.SetTextColor(21, 101, 192)
	p.SetLineWidth(0.35)

	for _, d := range drawings {
		shape := drawing.BuildShape(d, cs)
		for _, seg := range shape.Segments {
			p.Line(pageMargin+seg.From.X, pageMargin+seg.From.Y, pageMargin+seg.To.X, pageMargin+seg.To.Y)
		}
		for _, label := range shape.Labels {
			p.Text(pageMargin+label.Pos.X+1, pageMargin+label.Pos.Y-0.5, label.Text)
		}
	}
	p.SetTextColor(0, 0, 0)
}
