// Package app provides application-level state, events, and theming.
package app

import (
	"sync"

	"chartmark/internal/kline"
)

// EventType identifies application events.
type EventType int

const (
	EventInstrumentChanged EventType = iota
	EventSeriesUpdated
	EventThemeChanged
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// State holds the application state: the active instrument's candle series
// and the visual theme. The candle feed appends from its own goroutine, so
// series access is guarded; everything else runs on the UI loop.
type State struct {
	mu sync.RWMutex

	instrument string
	series     *kline.Series
	themeName  string

	listeners map[EventType][]EventListener
}

// NewState creates application state for the given instrument and theme.
func NewState(instrument, themeName string) *State {
	return &State{
		instrument: instrument,
		series:     kline.NewSeries(instrument),
		themeName:  themeName,
		listeners:  make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Instrument returns the active instrument code.
func (s *State) Instrument() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.instrument
}

// SetInstrument switches the active instrument and resets the series.
func (s *State) SetInstrument(code string) {
	s.mu.Lock()
	s.instrument = code
	s.series = kline.NewSeries(code)
	s.mu.Unlock()
	s.Emit(EventInstrumentChanged, code)
}

// Series returns the active candle series.
func (s *State) Series() *kline.Series {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.series
}

// SetSeries replaces the candle series wholesale.
func (s *State) SetSeries(series *kline.Series) {
	s.mu.Lock()
	s.series = series
	s.mu.Unlock()
	s.Emit(EventSeriesUpdated, series)
}

// UpsertCandle merges a candle into the series (feed goroutine entry point).
func (s *State) UpsertCandle(c kline.Candle) {
	s.mu.Lock()
	s.series.Upsert(c)
	s.mu.Unlock()
	s.Emit(EventSeriesUpdated, nil)
}

// ThemeName returns the active theme name.
func (s *State) ThemeName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.themeName
}

// SetThemeName switches the visual theme.
func (s *State) SetThemeName(name string) {
	s.mu.Lock()
	s.themeName = name
	s.mu.Unlock()
	s.Emit(EventThemeChanged, name)
}
