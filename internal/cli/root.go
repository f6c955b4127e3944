// Package cli implements the posadmin terminal client. Every command runs
// against the session store and access gate, so role rules match what the
// dashboard enforces.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openpos/pos-admin/internal/access"
	"github.com/openpos/pos-admin/internal/apiclient"
	"github.com/openpos/pos-admin/internal/model"
	"github.com/openpos/pos-admin/internal/session"
)

var (
	apiURL string

	api  *apiclient.Client
	sess *session.Store
)

var rootCmd = &cobra.Command{
	Use:           "posadmin",
	Short:         "Restaurant POS administration client",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		storage, err := session.NewFileStorage()
		if err != nil {
			return fmt.Errorf("open session storage: %w", err)
		}
		api = apiclient.New(apiURL, nil)
		sess = session.NewStore(api, storage)
		api.Tokens = sess
		// Any 401 on a normal request logs the whole client out, same as a
		// failed bootstrap verification.
		api.OnUnauthorized = sess.Invalidate

		sess.Bootstrap(cmd.Context())
		return nil
	},
}

// ExecuteContext runs the CLI.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	def := os.Getenv("POS_API_URL")
	if def == "" {
		def = "http://localhost:8080"
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", def, "backend base URL")
}

// requireAccess translates a gate decision into a command error. A nil
// return means the command may proceed.
func requireAccess(roles ...model.Role) error {
	switch d := access.Protected(sess.Snapshot(), roles...); d {
	case access.Allow:
		return nil
	case access.RedirectLogin:
		return errors.New("not signed in; run `posadmin login` first")
	case access.Denied:
		return fmt.Errorf("access denied: requires one of %v", roles)
	default:
		return errors.New("session is still initializing")
	}
}
