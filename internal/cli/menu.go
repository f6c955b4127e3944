package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/openpos/pos-admin/internal/apiclient"
	"github.com/openpos/pos-admin/internal/model"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Menu catalog management",
}

var menuCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List menu categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAccess(); err != nil {
			return err
		}
		cats, err := api.ListCategories(cmd.Context())
		if err != nil {
			return err
		}
		for _, cat := range cats {
			state := "active"
			if !cat.IsActive {
				state = "inactive"
			}
			fmt.Printf("%4d  %-24s %3d items  %s\n", cat.ID, cat.Name, cat.ItemCount, state)
		}
		return nil
	},
}

var itemCategoryFilter uint64

var menuItemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List menu items",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAccess(); err != nil {
			return err
		}
		items, err := api.ListItems(cmd.Context(), apiclient.ItemQuery{CategoryID: itemCategoryFilter})
		if err != nil {
			return err
		}
		for _, it := range items {
			state := "available"
			if !it.IsAvailable {
				state = "86'd"
			}
			fmt.Printf("%4d  %-28s %8s  %s\n", it.ID, it.Name, cents(it.PriceCents), state)
		}
		return nil
	},
}

var menuModifiersCmd = &cobra.Command{
	Use:   "modifiers",
	Short: "List menu modifiers",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAccess(); err != nil {
			return err
		}
		mods, err := api.ListModifiers(cmd.Context())
		if err != nil {
			return err
		}
		for _, m := range mods {
			fmt.Printf("%4d  %-28s %8s\n", m.ID, m.Name, cents(m.PriceCents))
		}
		return nil
	},
}

var menuToggleCmd = &cobra.Command{
	Use:   "toggle <item-id>",
	Short: "Flip a menu item's availability (admin, manager)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAccess(model.RoleAdmin, model.RoleManager); err != nil {
			return err
		}
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}
		it, err := api.ToggleItem(cmd.Context(), id)
		if err != nil {
			return err
		}
		state := "available"
		if !it.IsAvailable {
			state = "unavailable"
		}
		fmt.Printf("%s is now %s\n", it.Name, state)
		return nil
	},
}

var menuAssignCmd = &cobra.Command{
	Use:   "assign <modifier-id> <item-id>",
	Short: "Assign a modifier to a menu item (admin, manager)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAccess(model.RoleAdmin, model.RoleManager); err != nil {
			return err
		}
		modID, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid modifier id %q", args[0])
		}
		itemID, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid item id %q", args[1])
		}
		if err := api.AssignModifier(cmd.Context(), modID, itemID); err != nil {
			return err
		}
		fmt.Println("Modifier assigned")
		return nil
	},
}

func cents(v uint32) string {
	return fmt.Sprintf("%d.%02d", v/100, v%100)
}

func init() {
	menuItemsCmd.Flags().Uint64Var(&itemCategoryFilter, "category", 0, "filter by category id")

	menuCmd.AddCommand(menuCategoriesCmd, menuItemsCmd, menuModifiersCmd, menuToggleCmd, menuAssignCmd)
	rootCmd.AddCommand(menuCmd)
}
