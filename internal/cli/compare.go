package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/piwi3910/PalletCut/internal/engine"
	"github.com/piwi3910/PalletCut/internal/layout"
	"github.com/piwi3910/PalletCut/internal/model"
)

// compareCommand solves one instance at several depth limits.
func (c *CLI) compareCommand() *cobra.Command {
	var depth, memoryMB int

	cmd := &cobra.Command{
		Use:   "compare L W l w | compare LxW lxw",
		Short: "Compare the box count at different search depths",
		Args: func(cmd *cobra.Command, args []string) error {
			_, err := parseDims(args)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			dims, _ := parseDims(args)
			settings, err := c.settings()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if depth >= 0 {
				settings.Depth = depth
			}
			if memoryMB > 0 {
				settings.MemoryBudgetMB = memoryMB
			}

			prob := model.NewProblem("", dims[0], dims[1], dims[2], dims[3])
			prob.Depth = settings.Depth
			base := layout.Params(prob, settings.MemoryBudget())

			results, err := engine.CompareScenarios(cmd.Context(), engine.BuildDefaultScenarios(base))
			if err != nil {
				return err
			}
			fmt.Println(StyleTitle.Render(prob.String()))
			fmt.Print(comparisonTable(results))
			return nil
		},
	}

	cmd.Flags().IntVarP(&depth, "depth", "d", -1, "depth limit of the current settings (default from config)")
	cmd.Flags().IntVar(&memoryMB, "memory", 0, "L-Block memo budget in MiB (default from config)")
	return cmd
}

var (
	styleHeader = lipgloss.NewStyle().Bold(true)
	styleCell   = lipgloss.NewStyle().PaddingRight(2)
)

// comparisonTable formats one row per scenario with aligned columns.
func comparisonTable(results []engine.ComparisonResult) string {
	rows := [][]string{{"Scenario", "Depth", "Boxes", "Status", "Method", "Time"}}
	for _, r := range results {
		depth := "unbounded"
		if d := r.Scenario.Params.Depth; d > 0 {
			depth = fmt.Sprint(d)
		}
		if r.Err != nil {
			rows = append(rows, []string{r.Scenario.Name, depth, "-", "error: " + r.Err.Error(), "", ""})
			continue
		}
		status := "best found"
		if r.Optimal {
			status = "optimal"
		}
		rows = append(rows, []string{
			r.Scenario.Name, depth, fmt.Sprint(r.Count), status,
			string(r.Method), r.Elapsed.Round(time.Millisecond).String(),
		})
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var sb strings.Builder
	for n, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = styleCell.Width(widths[i] + 2).Render(cell)
		}
		line := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
		if n == 0 {
			line = styleHeader.Render(line)
		}
		sb.WriteString(strings.TrimRight(line, " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}
