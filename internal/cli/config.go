package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/piwi3910/PalletCut/internal/model"
	"github.com/piwi3910/PalletCut/internal/project"
)

// configCommand manages the app config and G-code profiles.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and manage the application config",
	}

	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configPathCommand())
	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configExportCommand())
	cmd.AddCommand(c.configImportCommand())
	cmd.AddCommand(c.profilesCommand())

	return cmd
}

func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective config as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
		},
	}
}

func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), c.configPath())
			return nil
		},
	}
}

func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default values",
		Long: `Init writes the default config. A path ending in .toml is written as
TOML, any other as JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s exists, use --force to overwrite", path)
			}
			if err := project.SaveAppConfig(path, model.DefaultAppConfig()); err != nil {
				return err
			}
			printSuccess("Config written to %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")
	return cmd
}

func (c *CLI) configExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Back up the config and custom G-code profiles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			profiles, err := project.LoadCustomProfiles(c.profilesPath())
			if err != nil {
				return err
			}
			if err := project.ExportAllData(args[0], cfg, profiles); err != nil {
				return err
			}
			printSuccess("Backup written to %s", args[0])
			printDetail("%d custom profiles", len(profiles))
			return nil
		},
	}
}

func (c *CLI) configImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Restore a backup made by config export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			if err := project.SaveAppConfig(c.configPath(), backup.Config); err != nil {
				return err
			}
			if err := project.SaveCustomProfiles(c.profilesPath(), backup.Profiles); err != nil {
				return err
			}
			printSuccess("Restored config and %d profiles from %s", len(backup.Profiles), args[0])
			return nil
		},
	}
}

// profilesPath keeps custom profiles next to the config file in use.
func (c *CLI) profilesPath() string {
	return filepath.Join(filepath.Dir(c.configPath()), filepath.Base(project.DefaultProfilesPath()))
}

func (c *CLI) profilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List G-code post-processor profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := project.LoadCustomProfilesInto(c.profilesPath()); err != nil {
				return err
			}
			for _, p := range model.AllProfiles() {
				kind := "custom"
				if p.IsBuiltIn {
					kind = "built-in"
				}
				printInfo("%s %s", StyleTitle.Render(p.Name), StyleDim.Render(kind))
				if p.Description != "" {
					printDetail("%s", p.Description)
				}
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "import [file]",
		Short: "Add a custom profile from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := project.ImportProfile(args[0])
			if err != nil {
				return err
			}
			path := c.profilesPath()
			profiles, err := project.LoadCustomProfiles(path)
			if err != nil {
				return err
			}
			for _, existing := range profiles {
				if existing.Name == p.Name {
					return fmt.Errorf("profile %q already exists", p.Name)
				}
			}
			if err := model.AddCustomProfile(p); err != nil {
				return err
			}
			if err := project.SaveCustomProfiles(path, append(profiles, p)); err != nil {
				return err
			}
			printSuccess("Added profile %s", p.Name)
			return nil
		},
	})

	return cmd
}
