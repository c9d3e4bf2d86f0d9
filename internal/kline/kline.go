// Package kline holds the candlestick domain types the chart renders and the
// visible-window math the coordinate system is fed from.
package kline

import (
	"time"
)

// Candle represents one OHLCV bar.
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Bullish reports whether the candle closed at or above its open.
func (c Candle) Bullish() bool {
	return c.Close >= c.Open
}

// Series is the candle history for one instrument. Bar index 0 is the oldest
// candle; the annotation layer addresses candles by this index.
type Series struct {
	Instrument string
	Candles    []Candle
}

// NewSeries creates an empty series for the given instrument code.
func NewSeries(instrument string) *Series {
	return &Series{Instrument: instrument}
}

// Len returns the number of candles.
func (s *Series) Len() int {
	return len(s.Candles)
}

// Append adds a candle to the end of the series.
func (s *Series) Append(c Candle) {
	s.Candles = append(s.Candles, c)
}

// Upsert replaces the last candle when the timestamp matches it, otherwise
// appends. Live feeds re-send the forming candle until it closes.
func (s *Series) Upsert(c Candle) {
	n := len(s.Candles)
	if n > 0 && s.Candles[n-1].Time.Equal(c.Time) {
		s.Candles[n-1] = c
		return
	}
	s.Candles = append(s.Candles, c)
}

// Window describes the visible slice of a series: a bar-index range and the
// price range those bars cover, padded so wicks do not touch the canvas edge.
type Window struct {
	IndexMin, IndexMax float64
	PriceMin, PriceMax float64
}

// VisibleWindow computes the window for count bars starting at first. The
// price range is padded by 5% on each side; a flat range is widened so the
// mapping never degenerates.
func (s *Series) VisibleWindow(first, count int) Window {
	if count < 1 {
		count = 1
	}
	if first < 0 {
		first = 0
	}
	last := first + count
	if last > len(s.Candles) {
		last = len(s.Candles)
	}

	w := Window{
		IndexMin: float64(first) - 0.5,
		IndexMax: float64(first+count) - 0.5,
	}
	if first >= last {
		w.PriceMin, w.PriceMax = 0, 1
		return w
	}

	lo, hi := s.Candles[first].Low, s.Candles[first].High
	for _, c := range s.Candles[first:last] {
		if c.Low < lo {
			lo = c.Low
		}
		if c.High > hi {
			hi = c.High
		}
	}

	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = lo * 0.01
		if pad == 0 {
			pad = 1
		}
	}
	w.PriceMin = lo - pad
	w.PriceMax = hi + pad
	return w
}

// LastClose returns the close of the most recent candle, or 0 for an empty
// series.
func (s *Series) LastClose() float64 {
	if len(s.Candles) == 0 {
		return 0
	}
	return s.Candles[len(s.Candles)-1].Close
}
