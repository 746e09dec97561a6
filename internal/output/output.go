package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Printer writes human-readable results and errors.
type Printer struct {
	w      io.Writer
	errW   io.Writer
	styles Styles
}

// Styles holds lipgloss styles for terminal output.
type Styles struct {
	Error   lipgloss.Style
	Success lipgloss.Style
	Key     lipgloss.Style
	Dim     lipgloss.Style
}

// NewPrinter creates a Printer. Colors are only used when isTTY is set.
func NewPrinter(w io.Writer, isTTY bool) *Printer {
	styles := Styles{
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Key:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
	if !isTTY {
		plain := lipgloss.NewStyle()
		styles = Styles{Error: plain, Success: plain, Key: plain, Dim: plain}
	}
	return &Printer{w: w, errW: w, styles: styles}
}

// WithStderr sends errors to w.
func (p *Printer) WithStderr(w io.Writer) *Printer {
	p.errW = w
	return p
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Success prints a one-line result.
func (p *Printer) Success(format string, args ...any) {
	mustWrite(fmt.Fprintln(p.w, p.styles.Success.Render(fmt.Sprintf(format, args...))))
}

// KeyValue prints an aligned "key: value" line.
func (p *Printer) KeyValue(key string, value any) {
	mustWrite(fmt.Fprintf(p.w, "%s %v\n", p.styles.Key.Render(fmt.Sprintf("%-10s", key+":")), value))
}

// Line prints s followed by a dimmed annotation, if any.
func (p *Printer) Line(s, note string) {
	if note == "" {
		mustWrite(fmt.Fprintln(p.w, s))
		return
	}
	mustWrite(fmt.Fprintf(p.w, "%s %s\n", s, p.styles.Dim.Render(note)))
}

// Error prints err to the error writer. System errors are labelled as such.
func (p *Printer) Error(err error) {
	label := "Error"
	if GetExitCode(err) == ExitSystemError {
		label = "System error"
	}
	mustWrite(fmt.Fprintf(p.errW, "%s: %s\n", p.styles.Error.Render(label), err.Error()))
}

// mustWrite panics if a write to stdout, stderr or a buffer fails.
func mustWrite(_ int, err error) {
	if err != nil {
		panic(fmt.Sprintf("write failed: %v", err))
	}
}
