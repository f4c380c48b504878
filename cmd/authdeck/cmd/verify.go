package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/albin6/authdeck/countdown"
)

// resendWindowSeconds is how long a user must wait between OTP resends.
const resendWindowSeconds = 60

var verifyCode string

var verifyCmd = &cobra.Command{
	Use:   "verify <email>",
	Short: "Verify an email address with the one-time code",
	Long: `Submits the one-time code from the verification email. Without --code
the command prompts interactively; entering an empty line requests a
fresh code, rate-limited to one resend per minute.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		email := args[0]

		if verifyCode != "" {
			msg, err := a.client.VerifyOTP(cmd.Context(), email, verifyCode)
			if err != nil {
				return err
			}
			fmt.Println(msg)
			return nil
		}

		// Interactive mode. The timer gates resends: it starts ticking
		// after each resend and a new code may only be requested once
		// it has run out.
		timer := countdown.New(resendWindowSeconds)
		timer.Start()
		defer timer.Stop()

		reader := bufio.NewReader(os.Stdin)
		for {
			fmt.Fprint(os.Stderr, "Code (empty line to resend): ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return err
			}
			code := strings.TrimSpace(line)

			if code == "" {
				if remaining := timer.Remaining(); remaining > 0 {
					fmt.Fprintf(os.Stderr, "Resend available in %ds\n", remaining)
					continue
				}
				msg, err := a.client.ResendOTP(cmd.Context(), email)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					continue
				}
				fmt.Fprintln(os.Stderr, msg)
				timer.Reset()
				timer.Start()
				continue
			}

			msg, err := a.client.VerifyOTP(cmd.Context(), email, code)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				continue
			}
			fmt.Println(msg)
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVar(&verifyCode, "code", "", "One-time code (skips the interactive prompt)")
}
