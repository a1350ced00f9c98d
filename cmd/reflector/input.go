package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

var errNoInput = errors.New("no input: pass text as arguments, --file, or pipe it on stdin")

// readInput picks the session input: --file wins, then positional args,
// then piped stdin. An interactive stdin is never waited on.
func readInput(path string, args []string, stdin *os.File) (string, error) {
	var (
		raw []byte
		err error
	)
	switch {
	case path == "-":
		raw, err = io.ReadAll(stdin)
	case path != "":
		raw, err = os.ReadFile(path)
	case len(args) > 0:
		raw = []byte(strings.Join(args, " "))
	case stdin != nil && !isatty.IsTerminal(stdin.Fd()) && !isatty.IsCygwinTerminal(stdin.Fd()):
		raw, err = io.ReadAll(stdin)
	default:
		return "", errNoInput
	}
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}

	input := strings.TrimSpace(string(raw))
	if input == "" {
		return "", errNoInput
	}
	return input, nil
}
