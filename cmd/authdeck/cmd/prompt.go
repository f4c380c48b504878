package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/albin6/authdeck/internal/util"
)

func promptLine(label string) (string, error) {
	fmt.Fprintf(os.Stderr, "%s: ", label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echo. The result is NFKD
// normalized so the same passphrase typed on different systems derives
// the same key.
func promptPassword(label string) (string, error) {
	fmt.Fprintf(os.Stderr, "%s: ", label)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return util.Normalize(string(raw)), nil
}

func promptNewPassword() (string, error) {
	pass, err := promptPassword("New password")
	if err != nil {
		return "", err
	}
	confirm, err := promptPassword("Confirm password")
	if err != nil {
		return "", err
	}
	if pass != confirm {
		return "", errors.New("passwords do not match")
	}
	if pass == "" {
		return "", errors.New("password must not be empty")
	}
	return pass, nil
}
