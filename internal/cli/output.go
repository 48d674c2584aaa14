package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PalletCut/internal/export"
	"github.com/piwi3910/PalletCut/internal/gcode"
	"github.com/piwi3910/PalletCut/internal/model"
	"github.com/piwi3910/PalletCut/internal/project"
)

// outputs collects the export flags shared by solve and batch.
type outputs struct {
	pdf     string
	xlsx    string
	placard string
	json    string

	// Single-layout formats. For batch runs these name a directory.
	png   string
	dxf   string
	gcode string

	size    int
	profile string
	scale   float64
}

func (o *outputs) register(cmd *cobra.Command, perLayout string) {
	f := cmd.Flags()
	f.StringVar(&o.pdf, "pdf", "", "write a PDF report")
	f.StringVar(&o.xlsx, "xlsx", "", "write an Excel workbook")
	f.StringVar(&o.placard, "placard", "", "write printable pallet placards (PDF)")
	f.StringVar(&o.json, "json", "", "write results as JSON (- for stdout)")
	f.StringVar(&o.png, "png", "", "write a PNG drawing"+perLayout)
	f.StringVar(&o.dxf, "dxf", "", "write a DXF drawing"+perLayout)
	f.StringVar(&o.gcode, "gcode", "", "write a CNC program"+perLayout)
	f.IntVar(&o.size, "size", export.DefaultPNGSize, "PNG size in pixels along the longer side")
	f.StringVar(&o.profile, "profile", "", "G-code post-processor profile")
	f.Float64Var(&o.scale, "scale", 0, "mm per pallet unit for G-code")
}

// write exports results to every requested format. With perDir set the
// single-layout formats treat their flag as a directory and write one file
// per result.
func (o *outputs) write(results []model.Result, settings model.CutSettings, perDir bool) error {
	if o.pdf != "" {
		if err := export.ExportPDF(o.pdf, results); err != nil {
			return fmt.Errorf("pdf: %w", err)
		}
		printSuccess("PDF written to %s", o.pdf)
	}
	if o.xlsx != "" {
		if err := export.ExportExcel(o.xlsx, results); err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
		printSuccess("Workbook written to %s", o.xlsx)
	}
	if o.placard != "" {
		if err := export.ExportPlacards(o.placard, results); err != nil {
			return fmt.Errorf("placard: %w", err)
		}
		printSuccess("Placards written to %s", o.placard)
	}
	if o.json != "" {
		if err := writeJSON(o.json, results, perDir); err != nil {
			return fmt.Errorf("json: %w", err)
		}
	}

	if o.profile != "" {
		settings.GCodeProfile = o.profile
	}
	if o.scale > 0 {
		settings.Scale = o.scale
	}

	if perDir {
		for _, dir := range []string{o.png, o.dxf, o.gcode} {
			if dir == "" {
				continue
			}
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
		}
	}

	for i, r := range results {
		if o.png != "" {
			path := o.target(o.png, i, r, ".png", perDir)
			if err := export.ExportPNG(path, r, o.size); err != nil {
				return fmt.Errorf("png: %w", err)
			}
			printSuccess("PNG written to %s", path)
		}
		if o.dxf != "" {
			path := o.target(o.dxf, i, r, ".dxf", perDir)
			if err := export.ExportDXF(path, r); err != nil {
				return fmt.Errorf("dxf: %w", err)
			}
			printSuccess("DXF written to %s", path)
		}
		if o.gcode != "" {
			path := o.target(o.gcode, i, r, ".nc", perDir)
			if err := writeGCode(path, r, settings); err != nil {
				return fmt.Errorf("gcode: %w", err)
			}
		}
	}
	return nil
}

func (o *outputs) target(flag string, i int, r model.Result, ext string, perDir bool) string {
	if !perDir {
		return flag
	}
	return filepath.Join(flag, export.FileName(i, r)+ext)
}

func writeJSON(path string, results []model.Result, list bool) error {
	var v any = results
	if !list && len(results) == 1 {
		v = results[0]
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if path == "-" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	printSuccess("JSON written to %s", path)
	return nil
}

// writeGCode generates the program for r, replays it against the layout
// and writes it. Collisions are reported but do not stop the export.
func writeGCode(path string, r model.Result, settings model.CutSettings) error {
	code := gcode.New(settings).Generate(r)
	moves := gcode.ParseGCode(code)
	for _, msg := range gcode.FormatCollisionWarnings(gcode.CheckCollisions(moves, r, settings)) {
		printWarning("%s", msg)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := project.ExportGCode(path, code); err != nil {
		return err
	}
	stats := gcode.Stats(moves)
	printSuccess("G-code written to %s", path)
	printDetail("%d moves, %d plunges, %.0f mm cut, about %s at feed",
		stats.Moves, stats.Plunges, stats.CutLength, stats.CutTime.Round(time.Second))
	return nil
}
