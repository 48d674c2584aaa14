package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/PalletCut/internal/cache"
	"github.com/piwi3910/PalletCut/internal/model"
)

// solveOptions holds flags for the solve command.
type solveOptions struct {
	label    string
	depth    int
	memoryMB int
	noCache  bool
	draw     bool
	outputs
}

// solveCommand creates the solve command for a single instance.
func (c *CLI) solveCommand() *cobra.Command {
	opts := solveOptions{depth: -1}

	cmd := &cobra.Command{
		Use:   "solve L W l w | solve LxW lxw",
		Short: "Solve one pallet loading instance",
		Long: `Solve finds the most l x w boxes that fit on an L x W pallet.

The layout can be written to several formats at once, for example:

  palletcut solve 1200x800 300x200 --pdf plan.pdf --gcode sheet.nc`,
		Args: func(cmd *cobra.Command, args []string) error {
			_, err := parseDims(args)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			dims, _ := parseDims(args)
			return c.runSolve(cmd, dims, opts)
		},
	}

	cmd.Flags().StringVar(&opts.label, "label", "", "label shown in reports")
	cmd.Flags().IntVarP(&opts.depth, "depth", "d", -1, "Five-Block depth limit, 0 for unbounded (default from config)")
	cmd.Flags().IntVar(&opts.memoryMB, "memory", 0, "L-Block memo budget in MiB (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.draw, "draw", false, "draw small layouts in the terminal")
	opts.outputs.register(cmd, "")

	return cmd
}

func (c *CLI) runSolve(cmd *cobra.Command, dims [4]int, opts solveOptions) error {
	ctx := cmd.Context()
	logger := log.FromContext(ctx)

	settings, err := c.settings()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	opts.apply(&settings)

	prob := model.NewProblem(opts.label, dims[0], dims[1], dims[2], dims[3])
	prob.Depth = settings.Depth

	cc := c.newCache(ctx, opts.noCache)
	defer cc.Close()

	logger.Debug("solving", "problem", prob.String(), "depth", prob.Depth, "budget_mb", settings.MemoryBudgetMB)
	res, cached, err := cache.Solve(ctx, cc, prob, settings.MemoryBudget())
	if err != nil {
		return err
	}

	if opts.json != "-" {
		printResult(res, cached)
		if opts.draw {
			if res.Problem.Length <= maxDrawSide && res.Problem.Width <= maxDrawSide {
				fmt.Print(drawLayout(res))
			} else {
				printInfo("Pallet too large to draw")
			}
		}
	}
	return opts.outputs.write([]model.Result{res}, settings, false)
}

// apply copies explicitly set flags over the config defaults.
func (o solveOptions) apply(s *model.CutSettings) {
	if o.depth >= 0 {
		s.Depth = o.depth
	}
	if o.memoryMB > 0 {
		s.MemoryBudgetMB = o.memoryMB
	}
}

// parseDims reads the four instance dimensions, either as four integers or
// as two "AxB" pairs.
func parseDims(args []string) ([4]int, error) {
	var dims [4]int
	var parts []string
	switch len(args) {
	case 4:
		parts = args
	case 2:
		for _, a := range args {
			pair := strings.Split(strings.ToLower(a), "x")
			if len(pair) != 2 {
				return dims, fmt.Errorf("expected AxB, got %q", a)
			}
			parts = append(parts, pair...)
		}
	default:
		return dims, fmt.Errorf("expected L W l w or LxW lxw, got %d arguments", len(args))
	}

	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return dims, fmt.Errorf("%q is not a whole number", p)
		}
		if v <= 0 {
			return dims, fmt.Errorf("dimensions must be positive, got %d", v)
		}
		dims[i] = v
	}
	return dims, nil
}
