package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// themeSystem follows the variant the OS asks for.
const themeSystem fyne.ThemeVariant = 99

// Theme wraps the default fyne theme with compact sizing for the dense
// parts and stock tables.
type Theme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
}

func NewTheme() *Theme {
	return &Theme{base: theme.DefaultTheme(), variant: themeSystem}
}

// SetVariant forces light or dark; themeSystem restores the OS choice.
func (t *Theme) SetVariant(variant fyne.ThemeVariant) {
	t.variant = variant
}

func (t *Theme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.variant != themeSystem {
		variant = t.variant
	}
	return t.base.Color(name, variant)
}

func (t *Theme) Font(style fyne.TextStyle) fyne.Resource { return t.base.Font(style) }

func (t *Theme) Icon(name fyne.ThemeIconName) fyne.Resource { return t.base.Icon(name) }

func (t *Theme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 20
	case theme.SizeNameSubHeadingText:
		return 15
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	default:
		return t.base.Size(name)
	}
}
