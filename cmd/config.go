package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/marcus/partman/internal/config"
	"github.com/marcus/partman/internal/input"
	"github.com/marcus/partman/internal/output"
	"github.com/marcus/partman/internal/settings"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Inspect settings and preferences",
	GroupID: "system",
}

var configCheckCmd = &cobra.Command{
	Use:   "check [file|-]",
	Short: "Validate a settings file",
	Long: `Parses a settings file and reports the first error with its line.
With no argument the file partman would load is checked. Use - to read stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, text, err := settingsSource(cmd, args)
		if err != nil {
			return err
		}
		return checkSettings(cmd.OutOrStdout(), cmd.ErrOrStderr(), name, text)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show [file|-]",
	Short: "Print the normalized settings",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, text, err := settingsSource(cmd, args)
		if err != nil {
			return err
		}
		cfg, err := settings.Parse(text)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), output.FormatSettingsError(name, err))
			return errReported
		}
		if table, _ := cmd.Flags().GetBool("table"); table {
			fmt.Fprintln(cmd.OutOrStdout(), output.BindingsTable(cfg))
			fmt.Fprintln(cmd.OutOrStdout(), output.SettingsSummary(cfg))
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), settings.Format(cfg))
		return nil
	},
}

var configDefaultCmd = &cobra.Command{
	Use:   "default",
	Short: "Print the built-in settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(cmd.OutOrStdout(), settings.DefaultText())
		return nil
	},
}

var configServerCmd = &cobra.Command{
	Use:   "server <Production|Development> [url]",
	Short: "Show or set the URL for a server kind",
	Long: `Shows the base URL used for a server kind, or records a new one in
config.json. An empty url ("") restores the default.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := settings.ParseServerKind(args[0])
		if err != nil {
			return err
		}
		if len(args) == 1 {
			fmt.Fprintln(cmd.OutOrStdout(), prefs.ServerURL(kind))
			return nil
		}
		url := args[1]
		err = config.Update(configDir, func(c *config.Config) error {
			return c.SetServerURL(kind, url)
		})
		if err != nil {
			return err
		}
		if url == "" {
			output.Success("%s server reset to %s", kind, config.DefaultServerURL)
		} else {
			output.Success("%s server set to %s", kind, strings.TrimRight(url, "/"))
		}
		return nil
	},
}

var configPathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show where partman reads and writes files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flagPath, _ := cmd.Flags().GetString("config")
		settingsPath := prefs.ResolveSettingsPath(configDir, flagPath)
		if settingsPath == "" {
			settingsPath = "(embedded defaults)"
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "config dir: %s\n", configDir)
		fmt.Fprintf(w, "settings:   %s\n", settingsPath)
		fmt.Fprintf(w, "session:    %s\n", config.SessionPath(configDir))
		fmt.Fprintf(w, "log:        %s\n", prefs.LogPath(configDir))
		return nil
	},
}

// settingsSource returns the settings text named by args, or the file
// partman would load when args is empty.
func settingsSource(cmd *cobra.Command, args []string) (name, text string, err error) {
	if len(args) == 1 {
		return input.ReadSource(args[0], os.Stdin)
	}
	flagPath, _ := cmd.Flags().GetString("config")
	path := prefs.ResolveSettingsPath(configDir, flagPath)
	if path == "" {
		return "embedded defaults", settings.DefaultText(), nil
	}
	return input.ReadSource(path, os.Stdin)
}

// checkSettings parses text and reports the result. Parse failures are
// written to errw with the offending line.
func checkSettings(w, errw io.Writer, name, text string) error {
	cfg, err := settings.Parse(text)
	if err != nil {
		fmt.Fprintln(errw, output.FormatSettingsError(name, err))
		return errReported
	}
	fmt.Fprintf(w, "%s: ok\n", name)
	fmt.Fprintln(w, output.SettingsSummary(cfg))
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configCheckCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configDefaultCmd)
	configCmd.AddCommand(configServerCmd)
	configCmd.AddCommand(configPathsCmd)

	configShowCmd.Flags().Bool("table", false, "show bindings as a table")
}
