package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PalletCut/internal/importer"
	"github.com/piwi3910/PalletCut/internal/model"
	"github.com/piwi3910/PalletCut/internal/project"
)

// recentLimit is how many recent projects the config remembers.
const recentLimit = 10

// projectCommand groups project file management.
func (c *CLI) projectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Create, solve and inspect project files",
	}

	cmd.AddCommand(c.projectNewCommand())
	cmd.AddCommand(c.projectSolveCommand())
	cmd.AddCommand(c.projectShowCommand())

	return cmd
}

func (c *CLI) projectNewCommand() *cobra.Command {
	var from, name string

	cmd := &cobra.Command{
		Use:   "new [path]",
		Short: "Create a project, optionally importing instances from a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := withProjectExt(args[0])

			settings, err := c.settings()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			p := model.NewProject()
			p.Settings = settings
			p.Name = name
			if p.Name == "" {
				p.Name = strings.TrimSuffix(filepath.Base(path), project.FileExtension)
			}

			if from != "" {
				imported := importer.ImportFile(from)
				for _, w := range imported.Warnings {
					printWarning("%s", w)
				}
				for _, e := range imported.Errors {
					printError("%s", e)
				}
				p.Problems = append(p.Problems, imported.Problems...)
			}

			if err := project.Save(path, p); err != nil {
				return err
			}
			c.rememberProject(path)
			printSuccess("Created %s with %d instances", path, len(p.Problems))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "import instances from a CSV, Excel or DXF file")
	cmd.Flags().StringVar(&name, "name", "", "project name (default from the file name)")
	return cmd
}

func (c *CLI) projectSolveCommand() *cobra.Command {
	var noCache, force bool

	cmd := &cobra.Command{
		Use:   "solve [path]",
		Short: "Solve every instance of a project and store the results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			p, err := project.Load(path)
			if err != nil {
				return err
			}

			var pending []model.Problem
			for _, prob := range p.Problems {
				if _, ok := p.ResultFor(prob.ID); ok && !force {
					continue
				}
				pending = append(pending, prob)
			}
			if len(pending) == 0 {
				printInfo("All %d instances already solved", len(p.Problems))
				return nil
			}

			cc := c.newCache(cmd.Context(), noCache)
			defer cc.Close()

			results, failed, err := solveAll(cmd, cc, pending, -1, p.Settings, false)
			if err != nil {
				return err
			}
			for _, r := range results {
				p.SetResult(r)
			}
			if err := project.Save(path, p); err != nil {
				return err
			}
			c.rememberProject(path)
			printSuccess("Solved %d instances, saved to %s", len(results), path)
			if failed > 0 {
				printWarning("%d instances failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&force, "force", false, "solve instances that already have a result")
	return cmd
}

func (c *CLI) projectShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [path]",
		Short: "List the instances and results of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := project.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Println(StyleTitle.Render(p.Name))
			printDetail("id %s, %d instances, depth %d, memo %d MiB",
				p.ID, len(p.Problems), p.Settings.Depth, p.Settings.MemoryBudgetMB)
			for _, prob := range p.Problems {
				if r, ok := p.ResultFor(prob.ID); ok {
					printResult(r, false)
					continue
				}
				printInfo("%s: not solved", labelOf(prob))
			}
			return nil
		},
	}
}

// rememberProject adds path to the recent projects of the app config.
// Failures only cost the history entry.
func (c *CLI) rememberProject(path string) {
	cfg, err := c.loadConfig()
	if err != nil {
		return
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	cfg.AddRecentProject(path, recentLimit)
	if err := project.SaveAppConfig(c.configPath(), cfg); err != nil {
		c.Logger.Debug("recent projects not saved", "err", err)
	}
}

func withProjectExt(path string) string {
	if filepath.Ext(path) == "" {
		return path + project.FileExtension
	}
	return path
}
