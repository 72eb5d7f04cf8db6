package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// IO handles session output.
type IO struct {
	out    io.Writer
	errOut io.Writer
}

// NewIO creates a new IO instance.
func NewIO(out, errOut io.Writer) *IO {
	return &IO{out: out, errOut: errOut}
}

// Println writes to stdout.
func (o *IO) Println(a ...any) {
	_, _ = fmt.Fprintln(o.out, a...)
}

// Printf writes formatted output to stdout.
func (o *IO) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(o.out, format, a...)
}

// Print writes s to stdout as is.
func (o *IO) Print(s string) {
	_, _ = io.WriteString(o.out, s)
}

// ErrPrintln writes to stderr.
func (o *IO) ErrPrintln(a ...any) {
	_, _ = fmt.Fprintln(o.errOut, a...)
}

// Banner prints msg framed above and below by a rule of '=' as wide as msg.
// Leading newlines are printed before the top rule and do not count towards
// the width.
func (o *IO) Banner(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	trimmed := strings.TrimLeft(msg, "\n")
	rule := strings.Repeat("=", runewidth.StringWidth(trimmed))

	o.Print(msg[:len(msg)-len(trimmed)])
	o.Println(rule)
	o.Println(trimmed)
	o.Println(rule)
}
