package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/albin6/authdeck/session"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		a.ctrl.Rehydrate(cmd.Context())
		sess := a.ctrl.Snapshot()
		if !sess.IsAuthenticated() {
			return errors.New("not signed in")
		}

		user := sess.User
		fmt.Printf("User:  %s (%s)\n", user.DisplayName(), user.Email)
		if user.Role != "" {
			fmt.Printf("Role:  %s\n", user.Role)
		}
		if exp, err := session.TokenExpiry(sess.Token); err == nil {
			fmt.Printf("Token: expires %s (%s)\n",
				exp.Format(time.RFC3339), time.Until(exp).Round(time.Second))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
