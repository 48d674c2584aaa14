package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"

	"github.com/piwi3910/PalletCut/internal/export"
	"github.com/piwi3910/PalletCut/internal/gcode"
	"github.com/piwi3910/PalletCut/internal/model"
	"github.com/piwi3910/PalletCut/internal/project"
)

// solvedResults returns the current results or tells the user to solve first.
func (a *App) solvedResults() ([]model.Result, bool) {
	results := a.currentResults()
	if len(results) == 0 {
		dialog.ShowInformation("No results", "Solve the pallets before exporting.", a.window)
		return nil, false
	}
	return results, true
}

// exportAll writes one file covering every result.
func (a *App) exportAll(defaultName string, write func(path string, results []model.Result) error) {
	results, ok := a.solvedResults()
	if !ok {
		return
	}
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if err := write(path, results); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.setStatus("Exported %d pallets to %s", len(results), path)
	}, a.window)
	d.SetFileName(defaultName)
	d.Show()
}

func (a *App) exportPDF() {
	a.exportAll(a.project.Name+".pdf", export.ExportPDF)
}

func (a *App) exportExcel() {
	a.exportAll(a.project.Name+".xlsx", export.ExportExcel)
}

func (a *App) exportPlacards() {
	a.exportAll(a.project.Name+"-placards.pdf", export.ExportPlacards)
}

// exportEach writes one file per result. A single result is saved through
// a file dialog, several into a chosen folder. done, if set, runs after
// every file was written.
func (a *App) exportEach(ext string, write func(path string, r model.Result) error, done func()) {
	results, ok := a.solvedResults()
	if !ok {
		return
	}

	if len(results) == 1 {
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			path := writer.URI().Path()
			writer.Close()
			if err := write(path, results[0]); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.setStatus("Exported %s", path)
			if done != nil {
				done()
			}
		}, a.window)
		d.SetFileName(export.FileName(0, results[0]) + ext)
		d.Show()
		return
	}

	dialog.ShowFolderOpen(func(dir fyne.ListableURI, err error) {
		if err != nil || dir == nil {
			return
		}
		for i, r := range results {
			path := filepath.Join(dir.Path(), export.FileName(i, r)+ext)
			if err := write(path, r); err != nil {
				dialog.ShowError(fmt.Errorf("%s: %w", path, err), a.window)
				return
			}
		}
		a.setStatus("Exported %d files to %s", len(results), dir.Path())
		if done != nil {
			done()
		}
	}, a.window)
}

func (a *App) exportDXF() {
	a.exportEach(".dxf", export.ExportDXF, nil)
}

func (a *App) exportPNG() {
	a.exportEach(".png", func(path string, r model.Result) error {
		return export.ExportPNG(path, r, export.DefaultPNGSize)
	}, nil)
}

// exportGCode writes one program per pallet. Programs whose toolpath leaves
// a box opening are still written; the collisions are reported afterwards.
func (a *App) exportGCode() {
	settings := a.project.Settings
	gen := gcode.New(settings)
	var warnings []string

	a.exportEach(".gcode", func(path string, r model.Result) error {
		code := gen.Generate(r)
		if collisions := gcode.CheckCollisions(gcode.ParseGCode(code), r, gen.Settings); len(collisions) > 0 {
			a.logger.Warn("toolpath leaves box openings", "file", path, "collisions", len(collisions))
			warnings = append(warnings, filepath.Base(path)+":")
			warnings = append(warnings, gcode.FormatCollisionWarnings(collisions)...)
		}
		return project.ExportGCode(path, code)
	}, func() {
		if len(warnings) > 0 {
			dialog.ShowInformation("Toolpath Warnings", strings.Join(warnings, "\n"), a.window)
		}
	})
}
