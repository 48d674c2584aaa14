// Package ui provides the PalletCut desktop application.
package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"

	"github.com/piwi3910/PalletCut/internal/cache"
	"github.com/piwi3910/PalletCut/internal/engine"
	"github.com/piwi3910/PalletCut/internal/importer"
	"github.com/piwi3910/PalletCut/internal/model"
	"github.com/piwi3910/PalletCut/internal/project"
	"github.com/piwi3910/PalletCut/internal/ui/widgets"
)

const (
	recentLimit = 10

	tabPallets  = 0
	tabSettings = 1
	tabResults  = 2
)

// App holds all application state and UI references.
type App struct {
	app     fyne.App
	window  fyne.Window
	project model.Project
	config  model.AppConfig
	history *History
	theme   *PalletCutTheme
	cache   cache.Cache
	logger  *log.Logger

	projectPath string
	solveCancel context.CancelFunc

	// UI references for dynamic updates
	tabs             *container.AppTabs
	problemContainer *fyne.Container
	resultContainer  *fyne.Container
	profileSelect    *widget.Select
	status           *widget.Label
}

func NewApp(application fyne.App, window fyne.Window) *App {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Prefix:          "palletview",
	})

	cfg, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		logger.Warn("using default settings", "err", err)
		cfg = model.DefaultAppConfig()
	}
	if err := project.LoadCustomProfilesInto(project.DefaultProfilesPath()); err != nil {
		logger.Warn("custom profiles not loaded", "err", err)
	}

	a := &App{
		app:     application,
		window:  window,
		config:  cfg,
		history: NewHistory(),
		theme:   NewPalletCutTheme(cfg.Theme),
		logger:  logger,
	}
	a.project = a.newProject()
	a.cache = a.openCache()
	application.Settings().SetTheme(a.theme)

	window.SetOnClosed(func() {
		a.cancelSolve()
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("closing cache", "err", err)
		}
	})
	return a
}

// newProject starts an empty project from the configured defaults.
func (a *App) newProject() model.Project {
	p := model.NewProject()
	a.config.ApplyToSettings(&p.Settings)
	return p
}

// openCache opens the configured result cache. Any failure falls back to
// solving without a cache.
func (a *App) openCache() cache.Cache {
	dir := a.config.CacheDir
	if dir == "" {
		if base, err := os.UserCacheDir(); err == nil {
			dir = filepath.Join(base, "palletcut")
		}
	}
	c, err := cache.New(context.Background(), a.config.CacheBackend, dir, a.config.RedisAddr)
	if err != nil {
		a.logger.Warn("cache disabled", "backend", a.config.CacheBackend, "err", err)
		return cache.NewNullCache()
	}
	return c
}

// SetupMenus creates the native menu bar. It is called again whenever the
// recent project list changes.
func (a *App) SetupMenus() {
	recent := fyne.NewMenuItem("Open Recent", nil)
	var recentItems []*fyne.MenuItem
	for _, path := range a.config.RecentProjects {
		recentItems = append(recentItems, fyne.NewMenuItem(path, func() {
			a.openProject(path)
		}))
	}
	if len(recentItems) == 0 {
		none := fyne.NewMenuItem("No recent projects", nil)
		none.Disabled = true
		recentItems = append(recentItems, none)
	}
	recent.ChildMenu = fyne.NewMenu("", recentItems...)

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Project", a.resetProject),
		fyne.NewMenuItem("Open Project...", a.loadProjectDialog),
		recent,
		fyne.NewMenuItem("Save Project", a.saveProject),
		fyne.NewMenuItem("Save Project As...", a.saveProjectAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Pallets (CSV, Excel, DXF)...", a.importPallets),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PDF Report...", a.exportPDF),
		fyne.NewMenuItem("Export Excel Summary...", a.exportExcel),
		fyne.NewMenuItem("Export Placards...", a.exportPlacards),
		fyne.NewMenuItem("Export Drawings (DXF)...", a.exportDXF),
		fyne.NewMenuItem("Export Images (PNG)...", a.exportPNG),
		fyne.NewMenuItem("Export GCode...", a.exportGCode),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { a.window.Close() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", a.undo),
		fyne.NewMenuItem("Redo", a.redo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Clear All Pallets", func() {
			a.history.Push(MakeSnapshot(a.project.Problems, "Clear Pallets"))
			a.project.Problems = []model.Problem{}
			a.refreshProblemList()
			a.refreshResults()
		}),
		fyne.NewMenuItem("Clear Results", func() {
			a.project.Results = nil
			a.refreshProblemList()
			a.refreshResults()
		}),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Solve All", a.runSolve),
		fyne.NewMenuItem("Compare Depths...", a.showCompareDialog),
		fyne.NewMenuItem("Preview GCode...", a.showGCodePreview),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Advanced Settings...", a.showAdvancedSettingsDialog),
		fyne.NewMenuItem("GCode Profiles...", a.showProfileManager),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences...", a.showSettingsDialog),
		fyne.NewMenuItem("Import / Export Data...", a.showImportExportDialog),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", a.showAboutDialog),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, toolsMenu, helpMenu))
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About PalletCut",
		"PalletCut: Pallet Loading Optimizer\n\n"+
			"Finds the largest number of identical boxes that fit\n"+
			"on a pallet, proves optimality against an upper bound,\n"+
			"and exports drawings, reports and CNC programs.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	a.status = widget.NewLabel("Ready")
	a.tabs = container.NewAppTabs(
		container.NewTabItem("Pallets", a.buildProblemPanel()),
		container.NewTabItem("Settings", a.buildSettingsPanel()),
		container.NewTabItem("Results", a.buildResultsPanel()),
	)
	a.tabs.SetTabLocation(container.TabLocationTop)

	content := container.NewBorder(nil, container.NewHBox(a.status), nil, nil, a.tabs)
	return withToolTips(content, a.window)
}

func (a *App) setStatus(format string, args ...any) {
	a.status.SetText(fmt.Sprintf(format, args...))
}

// ─── Pallets Panel ─────────────────────────────────────────

func (a *App) buildProblemPanel() fyne.CanvasObject {
	a.problemContainer = container.NewVBox()
	a.refreshProblemList()

	addBtn := widget.NewButtonWithIcon("Add Pallet", theme.ContentAddIcon(), func() {
		a.showProblemDialog(-1)
	})
	solveBtn := widget.NewButtonWithIcon("Solve", theme.MediaPlayIcon(), a.runSolve)
	solveBtn.Importance = widget.HighImportance

	return container.NewBorder(
		container.NewHBox(
			widget.NewLabelWithStyle("Pallets to Load", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			layout.NewSpacer(),
			addBtn,
			solveBtn,
		),
		nil, nil, nil,
		container.NewVScroll(a.problemContainer),
	)
}

// resultOf returns the stored result for p when it still matches the
// pallet and box sizes.
func (a *App) resultOf(p model.Problem) (model.Result, bool) {
	r, ok := a.project.ResultFor(p.ID)
	if !ok || r.Problem.Length != p.Length || r.Problem.Width != p.Width ||
		r.Problem.BoxLength != p.BoxLength || r.Problem.BoxWidth != p.BoxWidth {
		return model.Result{}, false
	}
	r.Problem.Label = p.Label
	return r, true
}

// currentResults lists the valid results in pallet order.
func (a *App) currentResults() []model.Result {
	var results []model.Result
	for _, p := range a.project.Problems {
		if r, ok := a.resultOf(p); ok {
			results = append(results, r)
		}
	}
	return results
}

func (a *App) refreshProblemList() {
	a.problemContainer.RemoveAll()

	if len(a.project.Problems) == 0 {
		a.problemContainer.Add(widget.NewLabel("No pallets added yet. Click 'Add Pallet' or import a file to begin."))
		a.problemContainer.Refresh()
		return
	}

	bold := fyne.TextStyle{Bold: true}
	a.problemContainer.Add(container.NewGridWithColumns(6,
		widget.NewLabelWithStyle("Label", fyne.TextAlignLeading, bold),
		widget.NewLabelWithStyle("Pallet", fyne.TextAlignLeading, bold),
		widget.NewLabelWithStyle("Box", fyne.TextAlignLeading, bold),
		widget.NewLabelWithStyle("Boxes", fyne.TextAlignLeading, bold),
		widget.NewLabel(""),
		widget.NewLabel(""),
	))
	a.problemContainer.Add(widget.NewSeparator())

	for i, p := range a.project.Problems {
		count := "-"
		if r, ok := a.resultOf(p); ok {
			count = strconv.Itoa(r.Count)
			if r.Optimal {
				count += " (optimal)"
			} else {
				count += fmt.Sprintf(" (bound %d)", r.UpperBound)
			}
		}
		a.problemContainer.Add(container.NewGridWithColumns(6,
			widget.NewLabel(p.Label),
			widget.NewLabel(fmt.Sprintf("%d x %d", p.Length, p.Width)),
			widget.NewLabel(fmt.Sprintf("%d x %d", p.BoxLength, p.BoxWidth)),
			widget.NewLabel(count),
			newIconButtonWithTooltip(theme.DocumentCreateIcon(), "Edit pallet", func() {
				a.showProblemDialog(i)
			}),
			newIconButtonWithTooltip(theme.DeleteIcon(), "Remove pallet", func() {
				a.history.Push(MakeSnapshot(a.project.Problems, "Remove Pallet"))
				a.project.Problems = append(a.project.Problems[:i:i], a.project.Problems[i+1:]...)
				a.refreshProblemList()
				a.refreshResults()
			}),
		))
	}
	a.problemContainer.Refresh()
}

// palletPreset is a common pallet footprint for quick selection.
type palletPreset struct {
	Label  string
	Length int
	Width  int
}

// Standard pallet footprints in millimetres.
var palletPresets = []palletPreset{
	{Label: "Custom"},
	{Label: "EUR 1 (1200 x 800)", Length: 1200, Width: 800},
	{Label: "EUR 2 / ISO (1200 x 1000)", Length: 1200, Width: 1000},
	{Label: "EUR 6 half (800 x 600)", Length: 800, Width: 600},
	{Label: "GMA (1219 x 1016)", Length: 1219, Width: 1016},
	{Label: "Asia (1100 x 1100)", Length: 1100, Width: 1100},
	{Label: "Square (1140 x 1140)", Length: 1140, Width: 1140},
	{Label: "Australia (1165 x 1165)", Length: 1165, Width: 1165},
}

// parseSide reads one positive dimension that the solver can handle.
func parseSide(name, text string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s must be a positive whole number", name)
	}
	if v > engine.MaxDimension {
		return 0, fmt.Errorf("%s must be at most %d", name, engine.MaxDimension)
	}
	return v, nil
}

// showProblemDialog adds a pallet when idx is negative and edits pallet idx
// otherwise.
func (a *App) showProblemDialog(idx int) {
	p := model.Problem{Label: fmt.Sprintf("Pallet %d", len(a.project.Problems)+1)}
	title, confirm := "Add Pallet", "Add"
	if idx >= 0 {
		p = a.project.Problems[idx]
		title, confirm = "Edit Pallet", "Save"
	}

	labelEntry := widget.NewEntry()
	labelEntry.SetText(p.Label)
	side := func(v int, hint string) *widget.Entry {
		e := widget.NewEntry()
		e.SetPlaceHolder(hint)
		if v > 0 {
			e.SetText(strconv.Itoa(v))
		}
		return e
	}
	lengthEntry := side(p.Length, "Pallet length")
	widthEntry := side(p.Width, "Pallet width")
	boxLengthEntry := side(p.BoxLength, "Box length")
	boxWidthEntry := side(p.BoxWidth, "Box width")

	presetNames := make([]string, len(palletPresets))
	for i, pp := range palletPresets {
		presetNames[i] = pp.Label
	}
	presetSelect := widget.NewSelect(presetNames, func(selected string) {
		for _, pp := range palletPresets {
			if pp.Label == selected && pp.Length > 0 {
				lengthEntry.SetText(strconv.Itoa(pp.Length))
				widthEntry.SetText(strconv.Itoa(pp.Width))
				break
			}
		}
	})
	presetSelect.PlaceHolder = "Select a pallet size..."

	form := dialog.NewForm(title, confirm, "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Preset", presetSelect),
			widget.NewFormItem("Label", labelEntry),
			widget.NewFormItem("Pallet Length", lengthEntry),
			widget.NewFormItem("Pallet Width", widthEntry),
			widget.NewFormItem("Box Length", boxLengthEntry),
			widget.NewFormItem("Box Width", boxWidthEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			var sides [4]int
			for i, f := range []struct{ name, text string }{
				{"pallet length", lengthEntry.Text},
				{"pallet width", widthEntry.Text},
				{"box length", boxLengthEntry.Text},
				{"box width", boxWidthEntry.Text},
			} {
				v, err := parseSide(f.name, f.text)
				if err != nil {
					dialog.ShowError(err, a.window)
					return
				}
				sides[i] = v
			}

			a.history.Push(MakeSnapshot(a.project.Problems, title))
			if idx < 0 {
				a.project.Problems = append(a.project.Problems,
					model.NewProblem(labelEntry.Text, sides[0], sides[1], sides[2], sides[3]))
			} else {
				edited := &a.project.Problems[idx]
				edited.Label = labelEntry.Text
				edited.Length, edited.Width = sides[0], sides[1]
				edited.BoxLength, edited.BoxWidth = sides[2], sides[3]
			}
			a.refreshProblemList()
			a.refreshResults()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(420, 380))
	form.Show()
}

func (a *App) undo() {
	s, ok := a.history.Undo(MakeSnapshot(a.project.Problems, ""))
	if !ok {
		a.setStatus("Nothing to undo")
		return
	}
	a.restore(s)
	a.setStatus("Undid %s", s.Label)
}

func (a *App) redo() {
	s, ok := a.history.Redo(MakeSnapshot(a.project.Problems, ""))
	if !ok {
		a.setStatus("Nothing to redo")
		return
	}
	a.restore(s)
	a.setStatus("Redid %s", s.Label)
}

func (a *App) restore(s Snapshot) {
	a.project.Problems = copyProblems(s.Problems)
	if a.project.Problems == nil {
		a.project.Problems = []model.Problem{}
	}
	a.refreshProblemList()
	a.refreshResults()
}

// ─── Settings Panel ────────────────────────────────────────

func floatEntry(val *float64) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(strconv.FormatFloat(*val, 'f', -1, 64))
	e.OnChanged = func(text string) {
		if v, err := strconv.ParseFloat(text, 64); err == nil {
			*val = v
		}
	}
	return e
}

func intEntry(val *int) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(strconv.Itoa(*val))
	e.OnChanged = func(text string) {
		if v, err := strconv.Atoi(text); err == nil {
			*val = v
		}
	}
	return e
}

func (a *App) buildSettingsPanel() fyne.CanvasObject {
	s := &a.project.Settings

	solverSection := widget.NewCard("Solver", "Depth 0 searches without a recursion limit",
		container.NewGridWithColumns(2,
			widget.NewLabel("Five-Block Depth"), intEntry(&s.Depth),
			widget.NewLabel("L-Block Memory (MB)"), intEntry(&s.MemoryBudgetMB),
		))

	cncSection := widget.NewCard("CNC / GCode", "Cuts one opening per box out of a slip sheet",
		container.NewGridWithColumns(2,
			widget.NewLabel("GCode Profile"), a.buildProfileSelector(),
			widget.NewLabel("Scale (mm per unit)"), floatEntry(&s.Scale),
			widget.NewLabel("Tool Diameter (mm)"), floatEntry(&s.ToolDiameter),
			widget.NewLabel("Feed Rate (mm/min)"), floatEntry(&s.FeedRate),
			widget.NewLabel("Plunge Rate (mm/min)"), floatEntry(&s.PlungeRate),
			widget.NewLabel("Spindle Speed (RPM)"), intEntry(&s.SpindleSpeed),
			widget.NewLabel("Safe Z Height (mm)"), floatEntry(&s.SafeZ),
			widget.NewLabel("Sheet Thickness (mm)"), floatEntry(&s.CutDepth),
			widget.NewLabel("Pass Depth (mm)"), floatEntry(&s.PassDepth),
		))

	advancedBtn := widget.NewButtonWithIcon("Advanced Settings...", theme.SettingsIcon(), a.showAdvancedSettingsDialog)

	return container.NewVScroll(container.NewVBox(
		solverSection,
		cncSection,
		container.NewHBox(layout.NewSpacer(), advancedBtn),
	))
}

func (a *App) buildProfileSelector() *widget.Select {
	a.profileSelect = widget.NewSelect(model.GetProfileNames(), func(selected string) {
		a.project.Settings.GCodeProfile = selected
	})
	a.profileSelect.SetSelected(a.project.Settings.GCodeProfile)
	return a.profileSelect
}

// refreshProfileSelector reloads the profile names after the registry
// changed. A removed profile falls back to the default.
func (a *App) refreshProfileSelector() {
	if a.profileSelect == nil {
		return
	}
	names := model.GetProfileNames()
	a.profileSelect.Options = names
	selected := a.project.Settings.GCodeProfile
	found := false
	for _, n := range names {
		if n == selected {
			found = true
			break
		}
	}
	if !found {
		selected = model.DefaultSettings().GCodeProfile
	}
	a.profileSelect.SetSelected(selected)
	a.profileSelect.Refresh()
}

// rebuildSettings redraws the settings tab after the project was replaced.
func (a *App) rebuildSettings() {
	a.tabs.Items[tabSettings].Content = a.buildSettingsPanel()
	a.tabs.Refresh()
}

// ─── Results Panel ─────────────────────────────────────────

func (a *App) buildResultsPanel() fyne.CanvasObject {
	a.resultContainer = container.NewStack()
	a.refreshResults()
	return a.resultContainer
}

func (a *App) refreshResults() {
	a.resultContainer.RemoveAll()
	a.resultContainer.Add(widgets.RenderResults(a.currentResults()))
	a.resultContainer.Refresh()
}

// ─── Solving ───────────────────────────────────────────────

func (a *App) cancelSolve() {
	if a.solveCancel != nil {
		a.solveCancel()
	}
}

// runSolve solves every pallet without a current result in the
// background. Results are applied on the UI goroutine as they arrive.
func (a *App) runSolve() {
	if a.solveCancel != nil {
		dialog.ShowInformation("Solving", "A solve is already running.", a.window)
		return
	}
	var pending []model.Problem
	for _, p := range a.project.Problems {
		if _, ok := a.resultOf(p); !ok {
			pending = append(pending, p)
		}
	}
	if len(a.project.Problems) == 0 {
		dialog.ShowInformation("Nothing to solve", "Add at least one pallet first.", a.window)
		return
	}
	if len(pending) == 0 {
		a.tabs.SelectIndex(tabResults)
		a.setStatus("All %d pallets are solved", len(a.project.Problems))
		return
	}

	settings := a.project.Settings
	ctx, cancel := context.WithCancel(log.WithContext(context.Background(), a.logger))
	a.solveCancel = cancel

	current := widget.NewLabel("")
	bar := widget.NewProgressBar()
	bar.Max = float64(len(pending))
	progress := dialog.NewCustom("Solving", "Cancel", container.NewVBox(current, bar), a.window)
	progress.SetOnClosed(cancel)
	progress.Resize(fyne.NewSize(380, 140))
	progress.Show()

	go func() {
		var solved, hits int
		var failures []string
		for i, p := range pending {
			if ctx.Err() != nil {
				break
			}
			fyne.Do(func() {
				current.SetText(fmt.Sprintf("%s (%d of %d)", p.String(), i+1, len(pending)))
			})

			p.Depth = settings.Depth
			res, cached, err := cache.Solve(ctx, a.cache, p, settings.MemoryBudget())
			if err != nil {
				if ctx.Err() != nil {
					break
				}
				a.logger.Error("solve failed", "problem", p.String(), "err", err)
				failures = append(failures, fmt.Sprintf("%s: %v", p.String(), err))
				continue
			}
			solved++
			if cached {
				hits++
			}
			fyne.Do(func() {
				a.project.SetResult(res)
				bar.SetValue(float64(i + 1))
			})
		}

		cancelled := ctx.Err() != nil
		fyne.Do(func() {
			a.solveCancel = nil
			progress.Hide()
			cancel()
			a.refreshProblemList()
			a.refreshResults()
			a.tabs.SelectIndex(tabResults)
			switch {
			case cancelled:
				a.setStatus("Solve cancelled after %d of %d pallets", solved, len(pending))
			default:
				a.setStatus("Solved %d pallets (%d from cache)", solved, hits)
			}
			if len(failures) > 0 {
				dialog.ShowError(errors.New(strings.Join(failures, "\n")), a.window)
			}
		})
	}()
}

// ─── Project Files ─────────────────────────────────────────

func (a *App) resetProject() {
	a.project = a.newProject()
	a.projectPath = ""
	a.history.Clear()
	a.refreshAll()
}

func (a *App) refreshAll() {
	a.refreshProblemList()
	a.rebuildSettings()
	a.refreshResults()
	a.window.SetTitle(a.title())
}

func (a *App) title() string {
	if a.projectPath == "" {
		return "PalletCut"
	}
	return "PalletCut - " + filepath.Base(a.projectPath)
}

func (a *App) saveProject() {
	if a.projectPath == "" {
		a.saveProjectAs()
		return
	}
	a.writeProject(a.projectPath)
}

func (a *App) saveProjectAs() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if filepath.Ext(path) == "" {
			path += project.FileExtension
		}
		a.writeProject(path)
	}, a.window)
	d.SetFileName(a.project.Name + project.FileExtension)
	d.Show()
}

func (a *App) writeProject(path string) {
	if err := project.Save(path, a.project); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.projectPath = path
	a.window.SetTitle(a.title())
	a.rememberProject(path)
	a.setStatus("Saved %s", path)
}

func (a *App) loadProjectDialog() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		a.openProject(path)
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{project.FileExtension}))
	d.Show()
}

func (a *App) openProject(path string) {
	proj, err := project.Load(path)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.project = proj
	a.projectPath = path
	a.history.Clear()
	a.refreshAll()
	a.rememberProject(path)
	a.setStatus("Opened %s", path)
}

// rememberProject records path in the recent project list.
func (a *App) rememberProject(path string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	a.config.AddRecentProject(path, recentLimit)
	if err := a.saveConfig(); err != nil {
		a.logger.Warn("recent projects not saved", "err", err)
	}
	a.SetupMenus()
}

// ─── Import ────────────────────────────────────────────────

func (a *App) importPallets() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		a.handleImportResult(importer.ImportFile(path))
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".csv", ".xlsx", ".dxf"}))
	d.Show()
}

func (a *App) handleImportResult(result importer.ImportResult) {
	if len(result.Errors) > 0 {
		dialog.ShowError(fmt.Errorf("errors encountered during import:\n\n%s", strings.Join(result.Errors, "\n")), a.window)
	}
	for _, w := range result.Warnings {
		a.logger.Warn("import", "warning", w)
	}
	if len(result.Problems) == 0 {
		return
	}

	a.history.Push(MakeSnapshot(a.project.Problems, "Import Pallets"))
	a.project.Problems = append(a.project.Problems, result.Problems...)
	a.refreshProblemList()

	msg := fmt.Sprintf("Successfully imported %d pallets.", len(result.Problems))
	if len(result.Errors) > 0 {
		msg += fmt.Sprintf("\n\nHowever, %d rows had errors and were skipped.", len(result.Errors))
	}
	if len(result.Warnings) > 0 {
		msg += "\n\n" + strings.Join(result.Warnings, "\n")
	}
	dialog.ShowInformation("Import Complete", msg, a.window)
}
