package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/albin6/authdeck/session"
)

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Log in and store the session locally",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		password, err := promptPassword("Password")
		if err != nil {
			return err
		}

		if !a.ctrl.Login(cmd.Context(), session.Credentials{Email: args[0], Password: password}) {
			return errors.New(a.ctrl.Snapshot().Err)
		}

		user := a.ctrl.Snapshot().User
		fmt.Printf("Signed in as %s (%s)\n", user.DisplayName(), user.Email)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
