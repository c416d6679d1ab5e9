package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Prefix starts every formatted error line.
const Prefix = "[mpci]"

var (
	prefixStyle   = color.New(color.FgRed).SprintFunc()
	markStyle     = color.New(color.FgRed, color.Bold).SprintFunc()
	categoryStyle = color.New(color.FgYellow).SprintFunc()
	messageStyle  = color.New(color.FgRed).SprintFunc()
	labelStyle    = color.New(color.FgGreen, color.Bold).SprintFunc()
	usageStyle    = color.New(color.FgCyan).SprintFunc()
	bulletStyle   = color.New(color.FgGreen).SprintFunc()
)

// style returns f when colors are on and an identity function otherwise.
func style(f func(...interface{}) string, useColors bool) func(...interface{}) string {
	if useColors {
		return f
	}
	return fmt.Sprint
}

// FormatError renders err with colors. fatih/color drops the escape codes
// itself when output is not a terminal or NO_COLOR is set.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, true)
}

// FormatErrorPlain renders err without colors.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, false)
}

func formatError(err *CLIError, useColors bool) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s %s [%s] %s\n",
		style(prefixStyle, useColors)(Prefix),
		style(markStyle, useColors)("✗"),
		style(categoryStyle, useColors)(err.Category.String()),
		style(messageStyle, useColors)(err.Message))

	if err.Usage != "" {
		fmt.Fprintf(&sb, "\n%s %s\n",
			style(labelStyle, useColors)("Usage:"),
			style(usageStyle, useColors)(err.Usage))
	}

	if len(err.Remediation) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", style(labelStyle, useColors)("To fix this:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&sb, "  %s %s\n", style(bulletStyle, useColors)("•"), step)
		}
	}

	return sb.String()
}

// PrintError writes err to stderr.
func PrintError(err *CLIError) {
	FprintError(os.Stderr, err)
}

// FprintError writes err to w.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatError(err))
}

// FormatSimpleError formats a plain error under the given category.
func FormatSimpleError(err error, category ErrorCategory) string {
	if err == nil {
		return ""
	}
	return FormatError(&CLIError{Category: category, Message: err.Error()})
}

// PrintSimpleError writes a plain error to stderr under the given category.
func PrintSimpleError(err error, category ErrorCategory) {
	fmt.Fprint(os.Stderr, FormatSimpleError(err, category))
}
