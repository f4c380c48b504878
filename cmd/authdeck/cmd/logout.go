package cmd

import (
	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session and clear stored tokens",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		a.ctrl.Rehydrate(cmd.Context())
		a.ctrl.Logout(cmd.Context())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
