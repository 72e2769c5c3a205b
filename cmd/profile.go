package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/marcus/partman/internal/output"
	"github.com/marcus/partman/internal/partsclient"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:     "profile",
	Aliases: []string{"profiles"},
	Short:   "List and create inventory profiles",
	GroupID: "account",
}

var profileListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List your profiles",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOut, _ := cmd.Flags().GetBool("json")
		return withClient(cmd, func(c *partsclient.Client) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()
			profiles, err := c.ListProfiles(ctx)
			if err != nil {
				return explain(err)
			}
			if jsonOut {
				return output.JSON(cmd.OutOrStdout(), profiles)
			}
			if len(profiles) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No profiles. Create one with \"partman profile new <name>\".")
				return nil
			}
			rows := make([][]string, 0, len(profiles))
			for _, p := range profiles {
				rows = append(rows, []string{fmt.Sprint(p.ID), p.Name})
			}
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				Headers("ID", "NAME").
				Rows(rows...)
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		})
	},
}

var profileNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(c *partsclient.Client) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()
			if err := c.NewProfile(ctx, args[0]); err != nil {
				return explain(err)
			}
			output.Success("Created profile %s", args[0])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileNewCmd)

	profileListCmd.Flags().Bool("json", false, "output as JSON")
}
