// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gmksplit/gmksplit/internal/config"
)

// newConfigCommand creates the `gmksplit config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage gmksplit configuration",
		Long: `Manage gmksplit configuration.

Configuration is stored in:
  - Linux: ~/.config/gmksplit/config.cue
  - macOS: ~/Library/Application Support/gmksplit/config.cue
  - Windows: %APPDATA%\gmksplit\config.cue

GMKSPLIT_* environment variables and convert flags override file values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the active configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath(app)
			if err != nil {
				return app.fail(cmd, "locate configuration", "", err)
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create a configuration file with the defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd, app)
		},
	})

	return cfgCmd
}

func configPath(app *App) (string, error) {
	if app.configFile != "" {
		return app.configFile, nil
	}
	return config.FilePath("")
}

func showConfig(cmd *cobra.Command, app *App) error {
	cfg, path, err := app.Config.Load(cmd.Context(), app.loadOptions())
	if err != nil {
		return app.fail(cmd, "load configuration", app.configFile, err)
	}

	fmt.Fprintln(app.stdout, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(app.stdout)
	if path == "" {
		fmt.Fprintf(app.stdout, "%s: %s\n", CmdStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	} else {
		fmt.Fprintf(app.stdout, "%s: %s\n", CmdStyle.Render("Config file"), path)
	}
	fmt.Fprintln(app.stdout)

	for _, kv := range []struct {
		key   string
		value any
	}{
		{"convert_line_endings", cfg.ConvertLineEndings},
		{"omit_disabled_fields", cfg.OmitDisabledFields},
		{"preserve_ids", cfg.PreserveIDs},
		{"compression", cfg.Compression},
		{"log_level", cfg.LogLevel},
	} {
		fmt.Fprintf(app.stdout, "%s: %s\n", CmdStyle.Render(kv.key), SuccessStyle.Render(fmt.Sprint(kv.value)))
	}
	return nil
}

func initConfig(cmd *cobra.Command, app *App) error {
	path, err := configPath(app)
	if err != nil {
		return app.fail(cmd, "locate configuration", "", err)
	}
	created, err := config.CreateDefaultConfig(path)
	if err != nil {
		return app.fail(cmd, "create configuration", path, err)
	}
	if !created {
		fmt.Fprintf(app.stdout, "%s %s\n", WarningStyle.Render("Config file already exists:"), path)
		return nil
	}
	fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("Created config file:"), path)
	return nil
}
