package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/openpos/pos-admin/internal/apiclient"
	"github.com/openpos/pos-admin/internal/model"
)

var staffCmd = &cobra.Command{
	Use:   "staff",
	Short: "Staff account management",
}

var staffListCmd = &cobra.Command{
	Use:   "list",
	Short: "List staff accounts (admin, manager)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAccess(model.RoleAdmin, model.RoleManager); err != nil {
			return err
		}
		users, err := api.ListStaff(cmd.Context())
		if err != nil {
			return err
		}
		for _, u := range users {
			state := "active"
			if !u.IsActive {
				state = "inactive"
			}
			fmt.Printf("%4d  %-24s %-28s %-8s %s\n", u.ID, u.FullName(), u.Email, u.Role, state)
		}
		return nil
	},
}

var staffCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Show staff usage against the tenant cap (admin, manager)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAccess(model.RoleAdmin, model.RoleManager); err != nil {
			return err
		}
		n, err := api.CountStaff(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("%d of %d staff accounts used\n", n.Count, n.Limit)
		return nil
	},
}

var newStaff apiclient.NewStaff

var staffAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a staff account (admin, manager)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAccess(model.RoleAdmin, model.RoleManager); err != nil {
			return err
		}
		if newStaff.Password == "" {
			pw, err := promptSecret("Password: ")
			if err != nil {
				return err
			}
			newStaff.Password = pw
		}
		u, err := api.CreateStaff(cmd.Context(), newStaff)
		if err != nil {
			return err
		}
		fmt.Printf("Added %s (#%d) as %s\n", u.Email, u.ID, u.Role)
		return nil
	},
}

var staffDeactivateCmd = &cobra.Command{
	Use:   "deactivate <id>",
	Short: "Deactivate a staff account (admin, manager)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAccess(model.RoleAdmin, model.RoleManager); err != nil {
			return err
		}
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}
		if err := api.DeactivateStaff(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("Deactivated #%d\n", id)
		return nil
	},
}

func init() {
	staffAddCmd.Flags().StringVar(&newStaff.FirstName, "first-name", "", "first name")
	staffAddCmd.Flags().StringVar(&newStaff.LastName, "last-name", "", "last name")
	staffAddCmd.Flags().StringVar(&newStaff.Email, "email", "", "email")
	staffAddCmd.Flags().StringVar(&newStaff.Password, "password", "", "password (prompted when omitted)")
	staffAddCmd.Flags().StringVar(&newStaff.Role, "role", "waiter", "role (admin, manager, waiter, kitchen)")
	_ = staffAddCmd.MarkFlagRequired("email")

	staffCmd.AddCommand(staffListCmd, staffCountCmd, staffAddCmd, staffDeactivateCmd)
	rootCmd.AddCommand(staffCmd)
}
