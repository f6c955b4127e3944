package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openpos/pos-admin/internal/apiclient"
	"github.com/openpos/pos-admin/internal/model"
)

var tenantCmd = &cobra.Command{
	Use:   "tenant",
	Short: "Restaurant profile and settings",
}

var tenantShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current restaurant profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAccess(); err != nil {
			return err
		}
		t, err := api.CurrentTenant(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("%s (#%d)\nsubdomain: %s\nactive: %v\n", t.Name, t.ID, t.Subdomain, t.IsActive)
		return nil
	},
}

var (
	tenantName      string
	tenantSubdomain string
)

var tenantUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change restaurant settings (admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAccess(model.RoleAdmin); err != nil {
			return err
		}
		var upd apiclient.TenantUpdate
		if cmd.Flags().Changed("name") {
			upd.Name = &tenantName
		}
		if cmd.Flags().Changed("subdomain") {
			upd.Subdomain = &tenantSubdomain
		}
		if upd.Name == nil && upd.Subdomain == nil {
			return fmt.Errorf("nothing to update; pass --name or --subdomain")
		}
		t, err := api.UpdateTenant(cmd.Context(), sess.Snapshot().User.TenantID, upd)
		if err != nil {
			return err
		}
		fmt.Printf("Updated %s (subdomain %s)\n", t.Name, t.Subdomain)
		return nil
	},
}

func init() {
	tenantUpdateCmd.Flags().StringVar(&tenantName, "name", "", "display name")
	tenantUpdateCmd.Flags().StringVar(&tenantSubdomain, "subdomain", "", "subdomain")

	tenantCmd.AddCommand(tenantShowCmd, tenantUpdateCmd)
	rootCmd.AddCommand(tenantCmd)
}
