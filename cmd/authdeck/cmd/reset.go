package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCode string

var resetCmd = &cobra.Command{
	Use:   "reset <email>",
	Short: "Set a new password using a reset code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		code := resetCode
		if code == "" {
			code, err = promptLine("Reset code")
			if err != nil {
				return err
			}
		}

		password, err := promptNewPassword()
		if err != nil {
			return err
		}

		msg, err := a.client.ResetPassword(cmd.Context(), args[0], code, password)
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().StringVar(&resetCode, "code", "", "Reset code from the email")
}
