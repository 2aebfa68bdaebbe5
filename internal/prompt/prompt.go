// Package prompt reads interactive input for the command-line tools.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// ErrEmpty is returned when the user enters nothing.
var ErrEmpty = errors.New("empty input")

// Password prints label to w and reads a password from the terminal without
// echo. A newline is printed after the read to keep the output tidy.
func Password(w io.Writer, label string) (string, error) {
	if _, err := fmt.Fprint(w, label+": "); err != nil {
		return "", err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	if len(pw) == 0 {
		return "", ErrEmpty
	}
	return string(pw), nil
}

// NewPassword asks for a password twice and fails when the entries differ.
func NewPassword(w io.Writer) (string, error) {
	first, err := Password(w, "Enter password")
	if err != nil {
		return "", err
	}
	second, err := Password(w, "Repeat password")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", errors.New("passwords do not match")
	}
	return first, nil
}
