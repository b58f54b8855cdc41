//go:build windows
// +build windows

package flags

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh/terminal"
)

func askPassword() (string, error) {
	fmt.Fprintf(os.Stderr, "API key: ")
	fd := int(os.Stdin.Fd())
	key, err := terminal.ReadPassword(fd)
	if err != nil {
		return "", errors.Wrap(err, "failed to read API key from terminal")
	}
	fmt.Fprintln(os.Stderr)
	return string(key), nil
}
