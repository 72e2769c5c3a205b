// Package input reads settings sources named on the command line: a path,
// @path, or - for stdin.
package input

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// StdinName is how stdin is named in diagnostics.
const StdinName = "<stdin>"

// ReadSource reads the text named by arg. It returns the display name used
// in error messages along with the contents.
func ReadSource(arg string, stdin io.Reader) (name, text string, err error) {
	if arg == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return StdinName, "", fmt.Errorf("read stdin: %w", err)
		}
		return StdinName, string(data), nil
	}

	path := strings.TrimPrefix(arg, "@")
	if path == "" {
		return "", "", fmt.Errorf("empty path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return path, "", err
	}
	return path, string(data), nil
}
