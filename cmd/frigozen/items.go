package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/franckalain/frigozen/internal/app"
	"github.com/franckalain/frigozen/internal/inventory"
	"github.com/franckalain/frigozen/internal/models"
	"github.com/spf13/cobra"
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "Manage the fridge inventory",
}

var itemsListAll bool

var itemsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List items, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			items := a.Store().Items()
			if !itemsListAll {
				items = inventory.Active(items)
			}
			printItems(cmd.OutOrStdout(), items, time.Now())
			return nil
		})
	},
}

var (
	itemAddCategory string
	itemAddExpiry   string
	itemAddQuantity int
)

var itemsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an item by hand",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			item, err := a.AddItem(inventory.ManualEntry{
				Name:     args[0],
				Category: models.FoodCategory(itemAddCategory),
				Expiry:   itemAddExpiry,
				Quantity: itemAddQuantity,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q (%s)\n", item.Name, item.ID)
			return nil
		})
	},
}

var itemUseOne bool

var itemsUseCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Mark an item as consumed; --one consumes a single unit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			item, err := findItem(a, args[0])
			if err != nil {
				return err
			}
			a.MarkUsed(item.ID, !itemUseOne)
			fmt.Fprintf(cmd.OutOrStdout(), "Used %q\n", item.Name)
			return nil
		})
	},
}

var itemsExpiryCmd = &cobra.Command{
	Use:   "expiry <id> <YYYY-MM-DD>",
	Short: "Correct the expiry date of an item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			item, err := findItem(a, args[0])
			if err != nil {
				return err
			}
			if err := a.UpdateExpiry(item.ID, args[1]); err != nil {
				return fmt.Errorf("%w %q (expected YYYY-MM-DD)", err, args[1])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%q now expires on %s\n", item.Name, args[1])
			return nil
		})
	},
}

var itemsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every item",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			a.ClearFridge()
			fmt.Fprintln(cmd.OutOrStdout(), "Fridge cleared")
			return nil
		})
	},
}

var itemsExpiringCmd = &cobra.Command{
	Use:   "expiring",
	Short: fmt.Sprintf("List items expiring within %d days", inventory.ExpiringSoonDays),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			now := time.Now()
			printItems(cmd.OutOrStdout(), inventory.ExpiringSoon(a.Store().Items(), now), now)
			return nil
		})
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show consumption statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app.App) error {
			state := a.Snapshot()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Active items:   %d\n", len(state.Dashboard.Active))
			fmt.Fprintf(out, "Expiring soon:  %d\n", len(state.Dashboard.ExpiringSoon))
			fmt.Fprintf(out, "Consumed:       %d/%d (%d%%)\n",
				state.Dashboard.Consumption.Used, state.Dashboard.Consumption.Total, state.Dashboard.Consumption.Percentage)
			return nil
		})
	},
}

// findItem resolves a full id or an unambiguous id prefix
func findItem(a *app.App, ref string) (*models.FoodItem, error) {
	var found *models.FoodItem
	for _, item := range a.Store().Items() {
		if item.ID == ref {
			return item, nil
		}
		if len(ref) >= 4 && len(item.ID) > len(ref) && item.ID[:len(ref)] == ref {
			if found != nil {
				return nil, fmt.Errorf("item id %q is ambiguous", ref)
			}
			found = item
		}
	}
	if found == nil {
		return nil, fmt.Errorf("item %q not found", ref)
	}
	return found, nil
}

func printItems(w io.Writer, items []*models.FoodItem, now time.Time) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tQTY\tEXPIRES\tSTATUS")
	for _, item := range items {
		status := "used"
		if !item.IsUsed {
			status = statusLabel(inventory.ExpiryStatus(item.ExpiryDate, now))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			item.ID[:min(8, len(item.ID))], item.Name, item.Category, item.CurrentQuantity,
			item.ExpiryDate.Format(time.DateOnly), status)
	}
	tw.Flush()
}

func statusLabel(s inventory.Status) string {
	switch s.Kind {
	case inventory.StatusExpired:
		return "expired"
	case inventory.StatusToday:
		return "today"
	case inventory.StatusTomorrow:
		return "tomorrow"
	}
	return fmt.Sprintf("in %d days", s.Days)
}

func init() {
	itemsListCmd.Flags().BoolVar(&itemsListAll, "all", false, "Include consumed items")

	itemsAddCmd.Flags().StringVar(&itemAddCategory, "category", string(models.CategoryOther), "Food category")
	itemsAddCmd.Flags().StringVar(&itemAddExpiry, "expiry", "", "Expiry date (YYYY-MM-DD)")
	itemsAddCmd.Flags().IntVar(&itemAddQuantity, "qty", 1, "Number of units")
	_ = itemsAddCmd.MarkFlagRequired("expiry")

	itemsUseCmd.Flags().BoolVar(&itemUseOne, "one", false, "Consume a single unit")

	itemsCmd.AddCommand(itemsListCmd, itemsAddCmd, itemsUseCmd, itemsExpiryCmd, itemsClearCmd, itemsExpiringCmd)
	rootCmd.AddCommand(itemsCmd, statsCmd)
}
