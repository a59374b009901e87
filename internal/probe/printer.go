package probe

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

const (
	okMark   = "✓"
	failMark = "✗"
)

// Printer writes the human readable part of a run. Colors follow
// color.NoColor, so piping the output strips them.
type Printer struct {
	w       io.Writer
	ok      func(a ...interface{}) string
	fail    func(a ...interface{}) string
	heading func(a ...interface{}) string
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{
		w:       w,
		ok:      color.New(color.FgGreen).SprintFunc(),
		fail:    color.New(color.FgRed).SprintFunc(),
		heading: color.New(color.FgHiCyan, color.Bold).SprintFunc(),
	}
}

func (p *Printer) Printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) Heading(index int, title string) {
	fmt.Fprintf(p.w, "\n%s\n", p.heading(fmt.Sprintf("=== %d. %s ===", index, title)))
}

func (p *Printer) Success(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s %s\n", p.ok(okMark), fmt.Sprintf(format, args...))
}

func (p *Printer) Failure(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s %s\n", p.fail(failMark), fmt.Sprintf(format, args...))
}

func (p *Printer) Item(line string) {
	fmt.Fprintf(p.w, "  - %s\n", line)
}

func (p *Printer) Rule() {
	fmt.Fprintf(p.w, "\n%s\n", strings.Repeat("=", 50))
}
