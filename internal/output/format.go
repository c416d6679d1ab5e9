// Package output renders user-facing terminal output: step headers,
// separators, key/value blocks and result summaries.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Prefix starts every status line.
const Prefix = "[mpci]"

// SeparatorWidth is the width of separator lines.
const SeparatorWidth = 60

// GetTerminalWidth returns the stdout terminal width, or 80 when unknown.
func GetTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// Field is one line of a key/value block. A slice keeps display order stable.
type Field struct {
	Key   string
	Value any
}

// Printer writes styled status output.
type Printer struct {
	out   io.Writer
	plain bool

	blue   func(...any) string
	green  func(...any) string
	yellow func(...any) string
	red    func(...any) string
	cyan   func(...any) string
	gray   func(...any) string
	bold   func(...any) string
}

// NewPrinter returns a Printer writing to out. With plain set no color codes
// are emitted; otherwise fatih/color decides based on the terminal.
func NewPrinter(out io.Writer, plain bool) *Printer {
	p := &Printer{out: out, plain: plain}
	p.blue = p.style(color.FgBlue)
	p.green = p.style(color.FgGreen)
	p.yellow = p.style(color.FgYellow)
	p.red = p.style(color.FgRed)
	p.cyan = p.style(color.FgCyan)
	p.gray = p.style(color.FgHiBlack)
	p.bold = p.style(color.Bold)
	return p
}

func (p *Printer) style(attr color.Attribute) func(...any) string {
	if p.plain {
		return fmt.Sprint
	}
	return color.New(attr).SprintFunc()
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.out
}

// Info prints a status line.
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintf(p.out, "%s %s\n", p.blue(Prefix), fmt.Sprintf(format, args...))
}

// Success prints a status line with a check mark.
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintf(p.out, "%s %s %s\n", p.green(Prefix), p.green("✓"), fmt.Sprintf(format, args...))
}

// Warn prints a warning line.
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintf(p.out, "%s %s %s\n", p.yellow(Prefix), p.yellow("⚠"), fmt.Sprintf(format, args...))
}

// Error prints an error line.
func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintf(p.out, "%s %s %s\n", p.red(Prefix), p.red("✗"), fmt.Sprintf(format, args...))
}

// Step prints a numbered step header with an optional description.
func (p *Printer) Step(n int, title, description string) {
	fmt.Fprintf(p.out, "%s %s\n", p.blue(fmt.Sprintf("[%d]", n)), p.bold(title))
	if description != "" {
		fmt.Fprintf(p.out, "    %s\n", p.gray(description))
	}
}

// Separator prints a horizontal rule, with title centered when given.
func (p *Printer) Separator(title string) {
	fmt.Fprintln(p.out, p.gray(separatorLine(title, SeparatorWidth)))
}

func separatorLine(title string, width int) string {
	if title == "" {
		return strings.Repeat("─", width)
	}
	n := utf8.RuneCountInString(title)
	left := max(0, (width-n-2)/2)
	right := max(0, width-left-n-2)
	return strings.Repeat("─", left) + " " + title + " " + strings.Repeat("─", right)
}

// Fields prints a titled key/value block.
func (p *Printer) Fields(title string, fields []Field) {
	fmt.Fprintf(p.out, "%s %s\n", p.blue(Prefix), p.bold(title))
	p.fieldLines(fields)
}

// Result prints a success title followed by a key/value block.
func (p *Printer) Result(title string, fields []Field) {
	fmt.Fprintf(p.out, "%s %s %s\n", p.green(Prefix), p.green("✓"), p.bold(title))
	p.fieldLines(fields)
}

func (p *Printer) fieldLines(fields []Field) {
	for _, f := range fields {
		fmt.Fprintf(p.out, "  %s %s: %v\n", p.gray("•"), p.cyan(f.Key), f.Value)
	}
}

// Indented prints text indented under the previous line, dimmed.
func (p *Printer) Indented(text string) {
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintf(p.out, "  %s\n", p.gray(line))
	}
}

// Preview shortens text to limit runes for display, appending "..." when cut.
func Preview(text string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	return string([]rune(text)[:limit]) + "..."
}

// PrintExecutingCommand prints the external command about to run.
func PrintExecutingCommand(out io.Writer, command string) {
	magenta := color.New(color.FgMagenta).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", magenta("→ Executing:"), dim(command))
}
