package ui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"

	"github.com/piwi3910/PalletCut/internal/engine"
	"github.com/piwi3910/PalletCut/internal/layout"
	"github.com/piwi3910/PalletCut/internal/model"
)

// comparisonRow formats one scenario for the comparison grid.
func comparisonRow(r engine.ComparisonResult) []string {
	depth := "unbounded"
	if d := r.Scenario.Params.Depth; d > 0 {
		depth = strconv.Itoa(d)
	}
	if r.Err != nil {
		return []string{r.Scenario.Name, depth, "-", "failed: " + r.Err.Error(), "-", "-"}
	}
	status := "best found"
	if r.Optimal {
		status = "optimal"
	}
	return []string{
		r.Scenario.Name,
		depth,
		strconv.Itoa(r.Count),
		status,
		string(r.Method),
		r.Elapsed.Round(time.Millisecond).String(),
	}
}

// showCompareDialog solves one pallet at several Five-Block depths and
// shows what a deeper search buys.
func (a *App) showCompareDialog() {
	if len(a.project.Problems) == 0 {
		dialog.ShowInformation("Nothing to compare", "Add at least one pallet first.", a.window)
		return
	}

	names := make([]string, len(a.project.Problems))
	for i, p := range a.project.Problems {
		names[i] = fmt.Sprintf("%s (%s)", p.Label, p.String())
	}
	sel := widget.NewSelect(names, nil)
	sel.SetSelectedIndex(0)

	dialog.ShowForm("Compare Depths", "Compare", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Pallet", sel)},
		func(ok bool) {
			if !ok || sel.SelectedIndex() < 0 {
				return
			}
			p := a.project.Problems[sel.SelectedIndex()]
			p.Depth = a.project.Settings.Depth
			a.runComparison(p)
		}, a.window)
}

func (a *App) runComparison(p model.Problem) {
	ctx, cancel := context.WithCancel(log.WithContext(context.Background(), a.logger))
	bar := widget.NewProgressBarInfinite()
	progress := dialog.NewCustom("Comparing "+p.String(), "Cancel", bar, a.window)
	progress.SetOnClosed(cancel)
	progress.Show()

	scenarios := engine.BuildDefaultScenarios(layout.Params(p, a.project.Settings.MemoryBudget()))
	go func() {
		results, err := engine.CompareScenarios(ctx, scenarios)
		cancelled := ctx.Err() != nil
		fyne.Do(func() {
			progress.Hide()
			cancel()
			if cancelled {
				return
			}
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.showComparison(p, results)
		})
	}()
}

func (a *App) showComparison(p model.Problem, results []engine.ComparisonResult) {
	headers := []string{"Scenario", "Depth", "Boxes", "Status", "Method", "Time"}
	grid := container.NewGridWithColumns(len(headers))
	for _, h := range headers {
		grid.Add(widget.NewLabelWithStyle(h, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
	}
	for _, r := range results {
		for _, cell := range comparisonRow(r) {
			grid.Add(widget.NewLabel(cell))
		}
	}

	d := dialog.NewCustom("Depth Comparison: "+p.String(), "Close", grid, a.window)
	d.Resize(fyne.NewSize(720, 260))
	d.Show()
}
