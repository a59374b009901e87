package util

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	osExit             = os.Exit
	stderr   io.Writer = os.Stderr
	errorTag           = color.New(color.FgRed, color.Bold).SprintFunc()
)

// FailPretty prints an error message and exits with status 1.
func FailPretty(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	fmt.Fprintf(stderr, "\n%s %s\n", errorTag("Error:"), msg)
	osExit(1)
}
