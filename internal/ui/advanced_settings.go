package ui

import (
	"fmt"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/PalletCut/internal/gcode"
	"github.com/piwi3910/PalletCut/internal/model"
	"github.com/piwi3910/PalletCut/internal/ui/widgets"
)

// showAdvancedSettingsDialog opens the CNC settings that are not shown on
// the settings tab.
func (a *App) showAdvancedSettingsDialog() {
	s := &a.project.Settings

	profileSelect := widget.NewSelect(model.GetProfileNames(), func(selected string) {
		s.GCodeProfile = selected
		if a.profileSelect != nil && a.profileSelect.Selected != selected {
			a.profileSelect.SetSelected(selected)
		}
	})
	profileSelect.SetSelected(s.GCodeProfile)

	manageProfileBtn := newIconButtonWithTooltip(theme.SettingsIcon(), "Manage profiles", a.showProfileManager)

	profileSection := widget.NewCard("GCode Profile", "",
		container.NewGridWithColumns(2,
			widget.NewLabel("Active Profile"), container.NewBorder(nil, nil, nil, manageProfileBtn, profileSelect),
		))

	climbCheck := widget.NewCheck("", func(b bool) { s.UseClimb = b })
	climbCheck.Checked = s.UseClimb

	toolpathSection := widget.NewCard("Toolpath",
		"Each box opening is cut inside its outline",
		container.NewGridWithColumns(2,
			widget.NewLabel("Climb Milling"), climbCheck,
			widget.NewLabel("Scale (mm per unit)"), floatEntry(&s.Scale),
		))

	tabSection := widget.NewCard("Box Holding Tabs",
		"Tabs keep the cut-out openings attached to the sheet (0 per side disables them)",
		container.NewGridWithColumns(2,
			widget.NewLabel("Tab Width (mm)"), floatEntry(&s.TabWidth),
			widget.NewLabel("Tab Height (mm)"), floatEntry(&s.TabHeight),
			widget.NewLabel("Tabs per Side"), intEntry(&s.TabsPerSide),
		))

	previewBtn := widget.NewButtonWithIcon("Preview GCode...", theme.VisibilityIcon(), a.showGCodePreview)

	content := container.NewVScroll(container.NewVBox(
		profileSection,
		toolpathSection,
		tabSection,
		previewBtn,
	))

	d := dialog.NewCustom("Advanced Settings", "Close", content, a.window)
	d.SetOnClosed(a.rebuildSettings)
	d.Resize(fyne.NewSize(560, 520))
	d.Show()
}

// chooseResult asks which solved pallet to use. With a single result the
// question is skipped.
func (a *App) chooseResult(title string, use func(model.Result)) {
	results, ok := a.solvedResults()
	if !ok {
		return
	}
	if len(results) == 1 {
		use(results[0])
		return
	}

	names := make([]string, len(results))
	for i, r := range results {
		names[i] = widgets.ResultHeader(i, r)
	}
	sel := widget.NewSelect(names, nil)
	sel.SetSelectedIndex(0)
	dialog.ShowForm(title, "Show", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Pallet", sel)},
		func(ok bool) {
			if ok && sel.SelectedIndex() >= 0 {
				use(results[sel.SelectedIndex()])
			}
		}, a.window)
}

// showGCodePreview draws the program of one pallet over its box openings
// and lists any place where the tool leaves its opening.
func (a *App) showGCodePreview() {
	a.chooseResult("Preview GCode", func(r model.Result) {
		code := gcode.New(a.project.Settings).Generate(r)
		preview := widgets.RenderGCodePreview(r, a.project.Settings, code)
		stats := gcode.Stats(gcode.ParseGCode(code))

		summary := widget.NewLabel(fmt.Sprintf(
			"%d moves, %d plunges, %.0f mm cutting, %.0f mm rapid, about %s",
			stats.Moves, stats.Plunges, stats.CutLength, stats.RapidLength, stats.CutTime.Round(time.Second)))

		warnings := widget.NewLabel("No collisions: every cut stays inside its box opening.")
		if c := preview.Collisions(); len(c) > 0 {
			warnings.SetText(strings.Join(gcode.FormatCollisionWarnings(c), "\n"))
			warnings.Importance = widget.DangerImportance
		}

		w := a.app.NewWindow("GCode Preview: " + r.Problem.String())
		w.SetContent(container.NewBorder(
			container.NewVBox(summary, warnings),
			nil, nil, nil,
			container.NewScroll(preview),
		))
		w.Resize(fyne.NewSize(760, 600))
		w.Show()
	})
}
