// Package diag writes user-facing diagnostics and sets up the debug logger.
package diag

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Printer writes "Error: ..." and "Warning: ..." lines, one per call.
type Printer struct {
	w      io.Writer
	errorC *color.Color
	warnC  *color.Color
}

// NewPrinter returns a Printer writing to f, coloured when f is a
// terminal and noColor is false.
func NewPrinter(f *os.File, noColor bool) *Printer {
	return NewPrinterTo(f, useColor(isTerminal(f), noColor))
}

// NewPrinterTo returns a Printer writing to w with colour forced on or off.
func NewPrinterTo(w io.Writer, colored bool) *Printer {
	p := &Printer{
		w:      w,
		errorC: color.New(color.FgRed, color.Bold),
		warnC:  color.New(color.FgYellow),
	}
	if colored {
		p.errorC.EnableColor()
		p.warnC.EnableColor()
	} else {
		p.errorC.DisableColor()
		p.warnC.DisableColor()
	}
	return p
}

// Error prints err as a single diagnostic. Multi-line messages keep their
// line breaks; only the first line carries the prefix.
func (p *Printer) Error(err error) {
	p.print(p.errorC, "Error: ", err.Error())
}

// Warn prints a warning diagnostic.
func (p *Printer) Warn(format string, args ...any) {
	p.print(p.warnC, "Warning: ", fmt.Sprintf(format, args...))
}

func (p *Printer) print(c *color.Color, prefix, msg string) {
	msg = strings.TrimRight(msg, "\n")
	c.Fprint(p.w, prefix)
	fmt.Fprintln(p.w, msg)
}

func useColor(isTTY, noColorSet bool) bool {
	return isTTY && !noColorSet
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// NewLogger returns a console logger on w at the named level. An unknown
// or empty level falls back to warn, which keeps the launcher quiet.
// Output is coloured under the same rule as NewPrinter.
func NewLogger(w io.Writer, level string, noColor bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.WarnLevel
	}
	f, _ := w.(*os.File)
	out := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !useColor(isTerminal(f), noColor),
		TimeFormat: "15:04:05",
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}
