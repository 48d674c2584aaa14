package ui

import (
	"fyne.io/fyne/v2"

	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
)

// newIconButtonWithTooltip creates an icon-only button with a tooltip that appears on hover.
func newIconButtonWithTooltip(icon fyne.Resource, tooltip string, tapped func()) *ttwidget.Button {
	btn := ttwidget.NewButtonWithIcon("", icon, tapped)
	btn.SetToolTip(tooltip)
	return btn
}

// withToolTips wraps a window's content so its tooltips can be shown.
func withToolTips(content fyne.CanvasObject, w fyne.Window) fyne.CanvasObject {
	return fynetooltip.AddWindowToolTipLayer(content, w.Canvas())
}
