// Command snapshot renders a chart with sample annotations to PDF without
// starting the GUI. Useful for checking export output and geometry changes.
package main

import (
	"flag"
	"time"

	"chartmark/internal/drawing"
	"chartmark/internal/export"
	"chartmark/internal/feed"
	"chartmark/internal/kline"

	log "github.com/sirupsen/logrus"
)

var (
	flagOut  = flag.String("out", "snapshot.pdf", "Output PDF path")
	flagBars = flag.Int("bars", 120, "Number of candles to render")
	flagSeed = flag.Uint64("seed", 42, "Synthetic feed seed")
)

func main() {
	flag.Parse()

	gen := feed.NewSynthetic(100, 0.01, time.Minute, *flagSeed)
	series := kline.NewSeries("DEMO")
	series.Candles = gen.History(*flagBars)

	n := float64(series.Len())
	drawings := []*drawing.Drawing{
		{
			ID:   "sample-segment",
			Type: drawing.TypeSegment,
			Points: []drawing.Point{
				{Index: n * 0.1, Price: series.Candles[int(n*0.1)].Low},
				{Index: n * 0.6, Price: series.Candles[int(n*0.6)].High},
			},
			Color: "#1565c0",
		},
		{
			ID:   "sample-fib",
			Type: drawing.TypeFibonacci,
			Points: []drawing.Point{
				{Index: n * 0.3, Price: series.Candles[int(n*0.3)].Low},
				{Index: n * 0.9, Price: series.Candles[int(n*0.9)].High},
			},
			Config: drawing.DefaultConfig(drawing.TypeFibonacci),
			Color:  "#1565c0",
		},
		{
			ID:     "sample-hray",
			Type:   drawing.TypeHorizontalRay,
			Points: []drawing.Point{{Index: n * 0.2, Price: series.LastClose()}},
			Color:  "#1565c0",
		},
	}

	if err := export.PDF(*flagOut, series, drawings, 0, series.Len()); err != nil {
		log.WithError(err).Fatal("export snapshot")
	}
	log.WithField("path", *flagOut).Info("snapshot written")
}
