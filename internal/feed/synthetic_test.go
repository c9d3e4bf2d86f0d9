package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntheticIsDeterministicForSeed(t *testing.T) {
	open := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	a := NewSynthetic(100, 0.01, time.Minute, 42)
	b := NewSynthetic(100, 0.01, time.Minute, 42)

	for i := 0; i < 50; i++ {
		ts := open.Add(time.Duration(i) * time.Minute)
		assert.Equal(t, a.Next(ts), b.Next(ts))
	}
}

func TestSyntheticCandleInvariants(t *testing.T) {
	open := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	s := NewSynthetic(100, 0.02, time.Minute, 7)

	prevClose := 100.0
	for i := 0; i < 200; i++ {
		c := s.Next(open.Add(time.Duration(i) * time.Minute))
		assert.Equal(t, prevClose, c.Open, "candles chain open to previous close")
		assert.GreaterOrEqual(t, c.High, c.Open)
		assert.GreaterOrEqual(t, c.High, c.Close)
		assert.LessOrEqual(t, c.Low, c.Open)
		assert.LessOrEqual(t, c.Low, c.Close)
		assert.Greater(t, c.Low, 0.0)
		assert.GreaterOrEqual(t, c.Volume, 100.0)
		assert.LessOrEqual(t, c.Volume, 1000.0)
		prevClose = c.Close
	}
}

func TestHistoryProducesConsecutiveCandles(t *testing.T) {
	s := NewSynthetic(100, 0.01, time.Minute, 1)
	candles := s.History(30)
	require.Len(t, candles, 30)
	for i := 1; i < len(candles); i++ {
		assert.Equal(t, time.Minute, candles[i].Time.Sub(candles[i-1].Time))
	}
}
