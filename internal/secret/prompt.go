package secret

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"
)

// TerminalPrompt reads a passphrase from stdin without echo. It fails when stdin is not a terminal.
func TerminalPrompt(label string) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New("stdin is not a terminal, cannot prompt for a passphrase")
	}

	fmt.Fprint(os.Stderr, label)
	passphrase, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, err
	}
	return passphrase, nil
}
