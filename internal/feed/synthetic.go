// Package feed supplies candle data to the chart: a seeded synthetic
// generator for offline use and a live Binance kline stream.
package feed

import (
	"math"
	"time"

	"chartmark/internal/kline"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Synthetic generates a geometric random walk of candles. The same seed
// always produces the same series.
type Synthetic struct {
	price    float64
	interval time.Duration
	noise    distuv.Normal
	uniform  distuv.Uniform
}

// NewSynthetic creates a generator starting at startPrice with per-candle
// log returns drawn from N(0, volatility).
func NewSynthetic(startPrice, volatility float64, interval time.Duration, seed uint64) *Synthetic {
	src := rand.NewSource(seed)
	return &Synthetic{
		price:    startPrice,
		interval: interval,
		noise:    distuv.Normal{Mu: 0, Sigma: volatility, Src: src},
		uniform:  distuv.Uniform{Min: 0, Max: 1, Src: src},
	}
}

// Next produces the candle for the given open time.
func (s *Synthetic) Next(openTime time.Time) kline.Candle {
	open := s.price
	close := open * math.Exp(s.noise.Rand())

	hi := math.Max(open, close)
	lo := math.Min(open, close)
	high := hi * (1 + 0.3*math.Abs(s.noise.Rand()))
	low := lo * (1 - 0.3*math.Abs(s.noise.Rand()))

	s.price = close
	return kline.Candle{
		Time:   openTime,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  close,
		Volume: 100 + 900*s.uniform.Rand(),
	}
}

// History produces count consecutive candles ending at the current time.
func (s *Synthetic) History(count int) []kline.Candle {
	out := make([]kline.Candle, 0, count)
	start := time.Now().Add(-time.Duration(count) * s.interval).Truncate(s.interval)
	for i := 0; i < count; i++ {
		out = append(out, s.Next(start.Add(time.Duration(i)*s.interval)))
	}
	return out
}
