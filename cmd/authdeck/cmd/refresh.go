package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/albin6/authdeck/session"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Exchange the refresh token for a new access token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		tokens, err := a.client.Refresh(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Println("Session refreshed.")
		if exp, err := session.TokenExpiry(tokens.Access); err == nil {
			fmt.Printf("Token: expires %s (%s)\n",
				exp.Format(time.RFC3339), time.Until(exp).Round(time.Second))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}
