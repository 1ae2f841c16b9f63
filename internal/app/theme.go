package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// CompanionTheme provides a custom theme for the application.
type CompanionTheme struct{}

var _ fyne.Theme = (*CompanionTheme)(nil)

func (t *CompanionTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0x1E, G: 0x88, B: 0xE5, A: 0xFF} // Kiosk blue
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0x1E, G: 0x88, B: 0xE5, A: 0x60}
	case theme.ColorNameSuccess:
		return color.NRGBA{R: 0x43, G: 0xA0, B: 0x47, A: 0xFF} // Accepted submission
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *CompanionTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *CompanionTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *CompanionTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 13
	default:
		return theme.DefaultTheme().Size(name)
	}
}
