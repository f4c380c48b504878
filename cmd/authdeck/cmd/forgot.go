package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var forgotCmd = &cobra.Command{
	Use:   "forgot <email>",
	Short: "Request a password reset code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		msg, err := a.client.ForgotPassword(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Println(msg)
		fmt.Println(`Complete the reset with "authdeck reset" once the code arrives.`)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(forgotCmd)
}
