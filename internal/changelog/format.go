package changelog

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// GroupStyle defines the color and icon for a commit type.
type GroupStyle struct {
	Color *color.Color
	Icon  string
}

// groupStyles maps commit types to their terminal styling.
var groupStyles = map[string]GroupStyle{
	"feat":     {Color: color.New(color.FgGreen), Icon: "+"},
	"fix":      {Color: color.New(color.FgYellow), Icon: "⚡"},
	"docs":     {Color: color.New(color.FgBlue), Icon: "≡"},
	"style":    {Color: color.New(color.FgMagenta), Icon: "~"},
	"refactor": {Color: color.New(color.FgCyan), Icon: "↻"},
	"perf":     {Color: color.New(color.FgGreen, color.Bold), Icon: "»"},
	"test":     {Color: color.New(color.FgBlue), Icon: "✓"},
	"build":    {Color: color.New(color.FgWhite), Icon: "▣"},
	"ci":       {Color: color.New(color.FgWhite), Icon: "⚙"},
	"chore":    {Color: color.New(color.Faint), Icon: "·"},
}

// PrintOptions controls PrintCommits.
type PrintOptions struct {
	Plain    bool // Disable colors and icons
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// PrintCommits writes one line per commit: index, hash, subject, author and date.
// Subjects are colored by their changelog group.
func PrintCommits(w io.Writer, commits []Commit, opts PrintOptions) error {
	width := resolveWidth(opts.MaxWidth)

	for i, c := range commits {
		if err := printCommit(w, i+1, c, opts, width); err != nil {
			return fmt.Errorf("printing commit %s: %w", c.Hash, err)
		}
	}
	return nil
}

func printCommit(w io.Writer, index int, c Commit, opts PrintOptions, width int) error {
	meta := fmt.Sprintf("(%s, %s)", c.Author, c.Date)
	// index, hash and meta take roughly this much of the line
	budget := width - utf8.RuneCountInString(c.Hash) - utf8.RuneCountInString(meta) - 8
	message := Truncate(c.Message, max(budget, 20))

	if opts.Plain {
		_, err := fmt.Fprintf(w, "%d. %s %s %s\n", index, c.Hash, message, meta)
		return err
	}

	style := groupStyles[ParseSubject(c.Message).Group()]
	dim := color.New(color.Faint).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	colored := style.Color.SprintFunc()

	_, err := fmt.Fprintf(w, "%s %s %s %s %s\n",
		dim(fmt.Sprintf("%d.", index)), cyan(c.Hash), colored(style.Icon), colored(message), dim(meta))
	return err
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}
