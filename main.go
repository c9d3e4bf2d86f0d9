// Package main provides the entry point for the Chartmark application.
package main

import (
	"context"
	"flag"
	"time"

	"chartmark/internal/app"
	"chartmark/internal/feed"
	"chartmark/internal/kline"
	"chartmark/internal/storage"
	"chartmark/ui/chart"
	"chartmark/ui/prefs"
	"chartmark/ui/toolbar"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	log "github.com/sirupsen/logrus"
)

const (
	appTitle   = "Chartmark"
	appVersion = "0.1.0"

	historyBars = 500
)

var (
	flagLive     = flag.Bool("live", false, "Stream live candles from Binance instead of the synthetic feed")
	flagSymbol   = flag.String("symbol", "", "Instrument code (overrides the saved preference)")
	flagInterval = flag.String("interval", "1m", "Candle interval for the live feed")
)

func main() {
	flag.Parse()
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.Infof("Starting %s v%s", appTitle, appVersion)

	appPrefs := prefs.Load()
	instrument := appPrefs.StringWithFallback("instrument", "BTCUSDT")
	if *flagSymbol != "" {
		instrument = *flagSymbol
	}
	themeName := appPrefs.StringWithFallback("theme", app.ThemeDark)

	store, err := storage.OpenDefault()
	if err != nil {
		log.WithError(err).Fatal("open drawing store")
	}

	state := app.NewState(instrument, themeName)

	fa := fyneapp.New()
	fa.Settings().SetTheme(&app.ChartmarkTheme{})
	win := fa.NewWindow(appTitle)

	chartWidget := chart.New(state, store)
	bar := toolbar.New(chartWidget.Controller(), chartWidget.Refresh)

	win.SetContent(container.NewBorder(bar.Container(), nil, nil, nil, chartWidget))
	win.Resize(fyne.NewSize(1100, 650))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	startFeed(ctx, state, instrument)

	win.SetOnClosed(func() {
		appPrefs.Set("instrument", state.Instrument())
		appPrefs.Set("theme", state.ThemeName())
		if err := appPrefs.Save(); err != nil {
			log.WithError(err).Warn("save preferences")
		}
	})

	win.ShowAndRun()
}

// startFeed backfills history and keeps the series updated. The synthetic
// feed is the default so the app works offline.
func startFeed(ctx context.Context, state *app.State, instrument string) {
	if *flagLive {
		bf := feed.NewBinanceFeed(instrument, *flagInterval)
		go func() {
			history, err := bf.History(ctx, historyBars)
			if err != nil {
				log.WithError(err).Error("fetch candle history")
			} else {
				series := kline.NewSeries(instrument)
				series.Candles = history
				state.SetSeries(series)
			}
			if err := bf.Stream(ctx, state.UpsertCandle); err != nil && ctx.Err() == nil {
				log.WithError(err).Error("kline stream closed")
			}
		}()
		return
	}

	gen := feed.NewSynthetic(100, 0.01, time.Minute, uint64(time.Now().UnixNano()))
	series := kline.NewSeries(instrument)
	series.Candles = gen.History(historyBars)
	state.SetSeries(series)

	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case t := <-ticker.C:
				state.UpsertCandle(gen.Next(t.Truncate(time.Minute)))
			}
		}
	}()
}
