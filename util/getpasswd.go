package util

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"
)

var ErrNoTerminal = errors.New("stdin is not a terminal")

// just a wrapper for term...
func GetPasswd(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNoTerminal
	}
	fmt.Fprint(os.Stderr, prompt)
	bytepw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	return bytepw, err
}
