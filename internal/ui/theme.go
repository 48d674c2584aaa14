package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// PalletCutTheme is the default Fyne theme with compact sizes and a
// variant that follows the configured theme rather than the system.
type PalletCutTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
	system  bool
}

// NewPalletCutTheme returns the theme for a configured name: "light",
// "dark" or anything else for the system variant.
func NewPalletCutTheme(name string) *PalletCutTheme {
	t := &PalletCutTheme{base: theme.DefaultTheme()}
	t.SetVariantName(name)
	return t
}

// SetVariantName switches between "light", "dark" and "system".
func (t *PalletCutTheme) SetVariantName(name string) {
	switch name {
	case "light":
		t.variant, t.system = theme.VariantLight, false
	case "dark":
		t.variant, t.system = theme.VariantDark, false
	default:
		t.system = true
	}
}

func (t *PalletCutTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if !t.system {
		variant = t.variant
	}
	return t.base.Color(name, variant)
}

func (t *PalletCutTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *PalletCutTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizing overrides for a dense layout.
func (t *PalletCutTheme) Size(name fyne.ThemeSizeName) float32 {
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
	case theme.SizeNameInlineIcon:
		return 16
	default:
		return t.base.Size(name)
	}
}
