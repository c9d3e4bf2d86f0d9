package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Theme names supported by the chart.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// StrokeColor maps a theme name to the annotation stroke color. It is applied
// at drawing creation and load time; persisted colors are never trusted
// across a theme change.
func StrokeColor(themeName string) string {
	switch themeName {
	case ThemeLight:
		return "#1565c0"
	default:
		return "#ffb300"
	}
}

// CandleColors returns the up/down body colors for a theme.
func CandleColors(themeName string) (up, down color.RGBA) {
	if themeName == ThemeLight {
		return color.RGBA{R: 0x2e, G: 0x7d, B: 0x32, A: 0xff},
			color.RGBA{R: 0xc6, G: 0x28, B: 0x28, A: 0xff}
	}
	return color.RGBA{R: 0x26, G: 0xa6, B: 0x9a, A: 0xff},
		color.RGBA{R: 0xef, G: 0x53, B: 0x50, A: 0xff}
}

// Background returns the chart background color for a theme.
func Background(themeName string) color.RGBA {
	if themeName == ThemeLight {
		return color.RGBA{R: 0xfa, G: 0xfa, B: 0xfa, A: 0xff}
	}
	return color.RGBA{R: 0x12, G: 0x12, B: 0x12, A: 0xff}
}

// ChartmarkTheme provides a custom Fyne theme for the application.
type ChartmarkTheme struct{}

var _ fyne.Theme = (*ChartmarkTheme)(nil)

func (t *ChartmarkTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0xFF, G: 0xB3, B: 0x00, A: 0xFF} // Amber for price markers
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0x26, G: 0xA6, B: 0x9A, A: 0x80} // Teal for selections
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *ChartmarkTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *ChartmarkTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *ChartmarkTheme) Size(name fyne.ThemeSizeName) float32 {
	return theme.DefaultTheme().Size(name)
}
