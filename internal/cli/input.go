package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// ReadPassCode prints a prompt to w and reads a passcode from the user's
// terminal without echo. A newline is printed after the read to keep the
// UI tidy.
func ReadPassCode(w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, "Enter passcode: "); err != nil {
		return "", err
	}
	code, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(code)), nil
}
