package cmd

import (
	"fmt"

	"github.com/marcus/partman/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Show version",
	GroupID: "system",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if short, _ := cmd.Flags().GetBool("short"); short {
			fmt.Fprint(cmd.OutOrStdout(), versionStr)
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), version.Describe(versionStr))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("short", false, "print only the version")
}
