package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/albin6/authdeck/session"
)

var (
	signupFirstName string
	signupLastName  string
)

var signupCmd = &cobra.Command{
	Use:   "signup <email>",
	Short: "Create a new account",
	Long: `Creates an account and triggers a verification email. Complete the
registration with "authdeck verify" once the code arrives.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		password, err := promptNewPassword()
		if err != nil {
			return err
		}

		ok := a.ctrl.Signup(cmd.Context(), session.SignupInput{
			FirstName: signupFirstName,
			LastName:  signupLastName,
			Email:     args[0],
			Password:  password,
		})
		if !ok {
			return errors.New(a.ctrl.Snapshot().Err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(signupCmd)
	signupCmd.Flags().StringVar(&signupFirstName, "first-name", "", "First name")
	signupCmd.Flags().StringVar(&signupLastName, "last-name", "", "Last name")
}
