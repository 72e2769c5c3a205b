package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/marcus/partman/internal/output"
	"github.com/marcus/partman/internal/partsclient"
	"github.com/spf13/cobra"
)

const commandTimeout = 30 * time.Second

var partsCmd = &cobra.Command{
	Use:     "parts",
	Aliases: []string{"part", "p"},
	Short:   "Search and add parts",
	GroupID: "inventory",
}

var partsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "search"},
	Short:   "List parts, optionally filtered by name or description",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		desc, _ := cmd.Flags().GetString("description")
		jsonOut, _ := cmd.Flags().GetBool("json")

		return withClient(cmd, func(c *partsclient.Client) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()
			parts, err := c.ListParts(ctx, name, desc)
			if err != nil {
				return explain(err)
			}
			if jsonOut {
				return output.JSON(cmd.OutOrStdout(), parts)
			}
			fmt.Fprintln(cmd.OutOrStdout(), output.PartsTable(parts))
			return nil
		})
	},
}

var partsAddCmd = &cobra.Command{
	Use:   "add <name> [description]",
	Short: "Add a part to the catalogue",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		var desc string
		if len(args) == 2 {
			desc = args[1]
		}
		return withClient(cmd, func(c *partsclient.Client) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()
			if err := c.NewPart(ctx, name, desc); err != nil {
				return explain(err)
			}
			output.Success("Added %s", name)
			return nil
		})
	},
}

var partsStockCmd = &cobra.Command{
	Use:   "stock <part-id> <count>",
	Short: "Set the stock and bin of a part for a profile",
	Long: `Records how many of a part a profile holds and where it is stored.
The bin is given with --row, --column and --layer (all 0-based).`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		partID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid part id %q", args[0])
		}
		count, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil || count < 0 {
			return fmt.Errorf("invalid count %q", args[1])
		}
		profileID, _ := cmd.Flags().GetInt64("profile")
		row, _ := cmd.Flags().GetInt("row")
		column, _ := cmd.Flags().GetInt("column")
		layer, _ := cmd.Flags().GetInt("layer")
		if row < 0 || column < 0 || layer < 0 {
			return fmt.Errorf("bin coordinates must not be negative")
		}

		store, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		cfg := store.Current()
		g := cfg.Grid
		if row >= g.Rows || column >= g.Columns || layer >= g.Zs {
			return fmt.Errorf("bin %d,%d,%d is outside the %dx%dx%d grid", row, column, layer, g.Rows, g.Columns, g.Zs)
		}

		client, jar, err := openClient(cfg)
		if err != nil {
			return err
		}
		defer jar.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
		defer cancel()
		client.SelectProfile(partsclient.Profile{ID: profileID})
		if err := client.StockPart(ctx, partID, count, row, column, layer); err != nil {
			return explain(err)
		}
		output.Success("Part %d: %d in bin %d,%d,%d", partID, count, row, column, layer)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(partsCmd)
	partsCmd.AddCommand(partsListCmd)
	partsCmd.AddCommand(partsAddCmd)
	partsCmd.AddCommand(partsStockCmd)

	partsListCmd.Flags().StringP("name", "n", "", "filter by name")
	partsListCmd.Flags().StringP("description", "d", "", "filter by description")
	partsListCmd.Flags().Bool("json", false, "output as JSON")

	partsStockCmd.Flags().Int64("profile", 0, "profile id (see \"partman profile list\")")
	partsStockCmd.Flags().Int("row", 0, "bin row")
	partsStockCmd.Flags().Int("column", 0, "bin column")
	partsStockCmd.Flags().Int("layer", 0, "bin layer")
	_ = partsStockCmd.MarkFlagRequired("profile")
}
