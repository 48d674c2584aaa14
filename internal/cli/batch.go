package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/PalletCut/internal/cache"
	"github.com/piwi3910/PalletCut/internal/importer"
	"github.com/piwi3910/PalletCut/internal/model"
)

type batchOptions struct {
	depth    int
	memoryMB int
	noCache  bool
	strict   bool
	outputs
}

// batchCommand solves every instance of a CSV, Excel or DXF file.
func (c *CLI) batchCommand() *cobra.Command {
	opts := batchOptions{depth: -1}

	cmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "Solve every pallet listed in a CSV, Excel or DXF file",
		Long: `Batch imports pallet and box sizes from a file and solves them in order.

Spreadsheets need columns for pallet length, pallet width, box length and
box width; a label and depth column are optional. A DXF file holds one
instance: the largest outline is the pallet and the smallest the box.

Per-layout formats (--png, --dxf, --gcode) name a directory that receives
one file per instance.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBatch(cmd, args[0], opts)
		},
	}

	cmd.Flags().IntVarP(&opts.depth, "depth", "d", -1, "override the depth limit of every row")
	cmd.Flags().IntVar(&opts.memoryMB, "memory", 0, "L-Block memo budget in MiB (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail on the first unsolvable row")
	opts.outputs.register(cmd, " per instance into this directory")

	return cmd
}

func (c *CLI) runBatch(cmd *cobra.Command, path string, opts batchOptions) error {
	ctx := cmd.Context()
	logger := log.FromContext(ctx)

	imported := importer.ImportFile(path)
	for _, w := range imported.Warnings {
		printWarning("%s", w)
	}
	for _, e := range imported.Errors {
		printError("%s", e)
	}
	if len(imported.Problems) == 0 {
		return fmt.Errorf("no instances imported from %s", path)
	}
	printInfo("Imported %d instances from %s", len(imported.Problems), path)

	settings, err := c.settings()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.memoryMB > 0 {
		settings.MemoryBudgetMB = opts.memoryMB
	}

	cc := c.newCache(ctx, opts.noCache)
	defer cc.Close()

	results, failed, err := solveAll(cmd, cc, imported.Problems, opts.depth, settings, opts.strict)
	if err != nil {
		return err
	}
	logger.Debug("batch done", "solved", len(results), "failed", failed)

	if len(results) == 0 {
		return errors.New("no instance could be solved")
	}
	if err := opts.outputs.write(results, settings, true); err != nil {
		return err
	}
	if failed > 0 {
		printWarning("%d of %d instances failed", failed, len(imported.Problems))
	}
	return nil
}

// solveAll solves problems in order. A depth of zero or more overrides
// each problem's own limit. Failures are counted unless strict is set; a
// cancelled context always stops the run.
func solveAll(cmd *cobra.Command, cc cache.Cache, problems []model.Problem, depth int, settings model.CutSettings, strict bool) ([]model.Result, int, error) {
	ctx := cmd.Context()
	quiet := false
	if f := cmd.Flags().Lookup("json"); f != nil && f.Value.String() == "-" {
		quiet = true
	}

	var results []model.Result
	failed := 0
	for _, p := range problems {
		if depth >= 0 {
			p.Depth = depth
		}
		res, cached, err := cache.Solve(ctx, cc, p, settings.MemoryBudget())
		if err != nil {
			if ctx.Err() != nil || strict {
				return nil, failed, err
			}
			failed++
			printError("%s: %v", labelOf(p), err)
			continue
		}
		if !quiet {
			printResult(res, cached)
		}
		results = append(results, res)
	}
	return results, failed, nil
}

func labelOf(p model.Problem) string {
	if p.Label != "" {
		return p.Label
	}
	return p.String()
}
