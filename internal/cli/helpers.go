package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Output behavior, set once from the root command's persistent flags.
var (
	quiet       bool
	noColor     bool
	skipConfirm bool
)

// SetGlobalFlags wires --quiet, --no-color and --yes into the printing
// and prompting helpers.
func SetGlobalFlags(q, nc, sc bool) {
	quiet = q
	noColor = nc
	skipConfirm = sc
}

// Confirm asks a yes/no question on stdin. --yes answers every prompt
// without asking.
func Confirm(prompt string, defaultYes bool) (bool, error) {
	if skipConfirm {
		return true, nil
	}

	options := "[y/N]"
	if defaultYes {
		options = "[Y/n]"
	}
	fmt.Printf("%s %s: ", prompt, options)

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("read confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
		return defaultYes, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// The glyphs match the composer's status bar, so scripted and
// interactive runs read the same. --no-color swaps them for plain
// prefixes.

func PrintSuccess(format string, args ...interface{}) {
	if quiet {
		return
	}
	emit(os.Stdout, "✓", "OK", format, args...)
}

func PrintInfo(format string, args ...interface{}) {
	if quiet {
		return
	}
	emit(os.Stdout, "ℹ", "INFO", format, args...)
}

// PrintWarning writes to stderr; --quiet does not suppress it.
func PrintWarning(format string, args ...interface{}) {
	emit(os.Stderr, "⚠", "WARNING", format, args...)
}

func PrintError(format string, args ...interface{}) {
	emit(os.Stderr, "×", "ERROR", format, args...)
}

func emit(w io.Writer, glyph, plain, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if noColor {
		fmt.Fprintf(w, "%s: %s\n", plain, msg)
		return
	}
	fmt.Fprintf(w, "%s %s\n", glyph, msg)
}
