package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openpos/pos-admin/internal/access"
	"github.com/openpos/pos-admin/internal/session"
)

var loginPassword string

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Sign in to the backend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if access.PublicOnly(sess.Snapshot()) == access.RedirectHome {
			u := sess.Snapshot().User
			return fmt.Errorf("already signed in as %s; run `posadmin logout` first", u.Email)
		}

		pw := loginPassword
		if pw == "" {
			var err error
			pw, err = promptSecret("Password: ")
			if err != nil {
				return err
			}
		}

		if err := sess.Login(cmd.Context(), args[0], pw); err != nil {
			return err
		}
		u := sess.Snapshot().User
		fmt.Printf("Signed in as %s (%s)\n", u.FullName(), u.Role)
		return nil
	},
}

var regReq session.RegisterRequest

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a restaurant and its admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if access.PublicOnly(sess.Snapshot()) == access.RedirectHome {
			return fmt.Errorf("already signed in; run `posadmin logout` first")
		}
		if regReq.Password == "" {
			pw, err := promptSecret("Password: ")
			if err != nil {
				return err
			}
			regReq.Password = pw
		}
		if err := sess.Register(cmd.Context(), regReq); err != nil {
			var ve *session.ValidationError
			if errors.As(err, &ve) {
				for f, msg := range ve.Fields {
					fmt.Fprintf(os.Stderr, "  %s: %s\n", f, msg)
				}
			}
			return err
		}
		u := sess.Snapshot().User
		fmt.Printf("Restaurant %q created; signed in as %s\n", regReq.RestaurantName, u.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Best effort server-side revocation; local clearing always wins.
		_ = api.Logout(cmd.Context())
		sess.Logout()
		fmt.Println("Signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAccess(); err != nil {
			return err
		}
		u := sess.Snapshot().User
		fmt.Printf("%s <%s>\nrole: %s\ntenant: %d\n", u.FullName(), u.Email, u.Role, u.TenantID)
		return nil
	},
}

var navCmd = &cobra.Command{
	Use:   "nav",
	Short: "List dashboard sections visible to your role",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAccess(); err != nil {
			return err
		}
		for _, e := range access.VisibleNav(sess.Snapshot().User.Role) {
			fmt.Printf("%-20s %s\n", e.Title, e.Path)
		}
		return nil
	},
}

func promptSecret(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func init() {
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "password (prompted when omitted)")

	registerCmd.Flags().StringVar(&regReq.FirstName, "first-name", "", "admin first name")
	registerCmd.Flags().StringVar(&regReq.LastName, "last-name", "", "admin last name")
	registerCmd.Flags().StringVar(&regReq.Email, "email", "", "admin email")
	registerCmd.Flags().StringVar(&regReq.Password, "password", "", "admin password (prompted when omitted)")
	registerCmd.Flags().StringVar(&regReq.RestaurantName, "restaurant", "", "restaurant display name")
	registerCmd.Flags().StringVar(&regReq.Subdomain, "subdomain", "", "restaurant subdomain")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("restaurant")
	_ = registerCmd.MarkFlagRequired("subdomain")

	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd, navCmd)
}
