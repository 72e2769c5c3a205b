package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/marcus/partman/internal/output"
	"github.com/marcus/partman/internal/partsclient"
	"github.com/marcus/partman/internal/planner"
	"github.com/spf13/cobra"
)

var bomCmd = &cobra.Command{
	Use:     "bom",
	Aliases: []string{"boms"},
	Short:   "List BOMs and plan purchases for building them",
	GroupID: "inventory",
}

var bomListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the BOMs of a profile",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		jsonOut, _ := cmd.Flags().GetBool("json")

		return withProfile(cmd, func(ctx context.Context, c *partsclient.Client) error {
			boms, err := c.ListBoms(ctx, name)
			if err != nil {
				return explain(err)
			}
			if jsonOut {
				return output.JSON(cmd.OutOrStdout(), boms)
			}
			if len(boms) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No BOMs.")
				return nil
			}
			rows := make([][]string, 0, len(boms))
			for _, b := range boms {
				rows = append(rows, []string{fmt.Sprint(b.ID), b.Name, b.Description})
			}
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				Headers("ID", "NAME", "DESCRIPTION").
				Rows(rows...)
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		})
	},
}

var bomPlanCmd = &cobra.Command{
	Use:   "plan",
	Short: "Work out which parts to buy to build BOMs",
	Long: `Adds up the parts of every --bom, each multiplied by its build count,
and compares the totals with the profile's stock. A BOM is named by id or
name, optionally followed by "=<builds>".`,
	Example: `  partman bom plan --profile 2 --bom synth=3 --bom 14
  partman bom plan --profile 2 --bom synth --missing --csv plan.csv`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		specs, _ := cmd.Flags().GetStringArray("bom")
		csvPath, _ := cmd.Flags().GetString("csv")
		missingOnly, _ := cmd.Flags().GetBool("missing")
		jsonOut, _ := cmd.Flags().GetBool("json")
		if len(specs) == 0 {
			return fmt.Errorf("pass at least one --bom")
		}

		return withProfile(cmd, func(ctx context.Context, c *partsclient.Client) error {
			boms, err := c.ListBoms(ctx, "")
			if err != nil {
				return explain(err)
			}
			sels := make([]planner.Selection, 0, len(specs))
			for _, spec := range specs {
				ref, builds, err := planner.ParseSelection(spec)
				if err != nil {
					return err
				}
				bom, err := planner.Resolve(boms, ref)
				if err != nil {
					return err
				}
				sels = append(sels, planner.Selection{Bom: bom, Builds: builds})
			}

			reqs, err := planner.Calculate(ctx, c, sels)
			if err != nil {
				return explain(err)
			}
			if missingOnly {
				reqs = planner.Missing(reqs)
			}

			if csvPath != "" {
				return exportPlan(cmd.OutOrStdout(), csvPath, reqs)
			}
			if jsonOut {
				return output.JSON(cmd.OutOrStdout(), reqs)
			}
			if len(reqs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to buy.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), output.PlanTable(reqs))
			return nil
		})
	},
}

// exportPlan writes the plan as CSV to path, or to stdout for "-".
func exportPlan(stdout io.Writer, path string, reqs []planner.Requirement) error {
	if path == "-" {
		return planner.WriteCSV(stdout, reqs)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := planner.WriteCSV(f, reqs); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	output.Success("Wrote %d parts to %s", len(reqs), path)
	return nil
}

// withProfile runs fn with a client whose profile is set from --profile.
func withProfile(cmd *cobra.Command, fn func(context.Context, *partsclient.Client) error) error {
	profileID, _ := cmd.Flags().GetInt64("profile")
	return withClient(cmd, func(c *partsclient.Client) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
		defer cancel()
		c.SelectProfile(partsclient.Profile{ID: profileID})
		return fn(ctx, c)
	})
}

func init() {
	rootCmd.AddCommand(bomCmd)
	bomCmd.AddCommand(bomListCmd)
	bomCmd.AddCommand(bomPlanCmd)

	for _, c := range []*cobra.Command{bomListCmd, bomPlanCmd} {
		c.Flags().Int64("profile", 0, "profile id (see \"partman profile list\")")
		c.Flags().Bool("json", false, "output as JSON")
		_ = c.MarkFlagRequired("profile")
	}
	bomListCmd.Flags().StringP("name", "n", "", "filter by name")
	bomPlanCmd.Flags().StringArrayP("bom", "b", nil, "BOM to build, as <id|name>[=builds] (repeatable)")
	bomPlanCmd.Flags().String("csv", "", "export the plan as CSV to a file, or - for stdout")
	bomPlanCmd.Flags().Bool("missing", false, "only list parts that need buying")
}
