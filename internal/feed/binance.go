package feed

import (
	"context"
	"strconv"
	"time"

	"chartmark/internal/kline"

	"github.com/adshao/go-binance/v2"
	log "github.com/sirupsen/logrus"
)

// BinanceFeed streams spot klines for one symbol and interval.
type BinanceFeed struct {
	client   *binance.Client
	symbol   string
	interval string
}

// NewBinanceFeed creates an unauthenticated feed; public kline endpoints need
// no credentials.
func NewBinanceFeed(symbol, interval string) *BinanceFeed {
	return &BinanceFeed{
		client:   binance.NewClient("", ""),
		symbol:   symbol,
		interval: interval,
	}
}

// History fetches the most recent count closed candles.
func (f *BinanceFeed) History(ctx context.Context, count int) ([]kline.Candle, error) {
	raw, err := f.client.NewKlinesService().
		Symbol(f.symbol).
		Interval(f.interval).
		Limit(count).
		Do(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]kline.Candle, 0, len(raw))
	for _, k := range raw {
		out = append(out, kline.Candle{
			Time:   msToTime(k.OpenTime),
			Open:   parseFloat(k.Open),
			High:   parseFloat(k.High),
			Low:    parseFloat(k.Low),
			Close:  parseFloat(k.Close),
			Volume: parseFloat(k.Volume),
		})
	}
	return out, nil
}

// Stream subscribes to the kline websocket and invokes onCandle for every
// update, including re-sends of the forming candle. It blocks until the
// context is done or the stream closes.
func (f *BinanceFeed) Stream(ctx context.Context, onCandle func(kline.Candle)) error {
	handler := func(e *binance.WsKlineEvent) {
		onCandle(kline.Candle{
			Time:   msToTime(e.Kline.StartTime),
			Open:   parseFloat(e.Kline.Open),
			High:   parseFloat(e.Kline.High),
			Low:    parseFloat(e.Kline.Low),
			Close:  parseFloat(e.Kline.Close),
			Volume: parseFloat(e.Kline.Volume),
		})
	}
	errHandler := func(err error) {
		log.Errorf("kline WS error: %v", err)
	}

	doneC, stopC, err := binance.WsKlineServe(f.symbol, f.interval, handler, errHandler)
	if err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		close(stopC)
		return ctx.Err()
	case <-doneC:
		return nil
	}
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func msToTime(ms int64) time.Time {
	return time.UnixMilli(ms)
}
