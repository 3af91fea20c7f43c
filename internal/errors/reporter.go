package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Reporter formats PastryError values for the CLI: a Rust-style caret
// diagnostic for Parse errors (when the offending source line is available)
// and a single colored line for everything else.
type Reporter struct {
	// NoColor disables ANSI coloring, e.g. when output is being piped.
	NoColor bool
}

// FormatError renders err for display. source, if non-empty, is the full
// input text and is used to render the caret line for Parse errors.
func (r *Reporter) FormatError(err *PastryError, source string) string {
	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow)
	if r.NoColor {
		red.DisableColor()
		yellow.DisableColor()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", red.Sprint("error:"), err.Message)
	fmt.Fprintf(&b, "  %s %s\n", yellow.Sprintf("[%s]", err.Kind.Code()), err.Kind)

	if err.Kind == Parse && err.Pos.Line > 0 && source != "" {
		lines := strings.Split(source, "\n")
		if err.Pos.Line-1 < len(lines) {
			line := lines[err.Pos.Line-1]
			fmt.Fprintf(&b, "  %d | %s\n", err.Pos.Line, line)
			pad := strings.Repeat(" ", len(fmt.Sprintf("%d | ", err.Pos.Line))+max(err.Pos.Column-1, 0))
			fmt.Fprintf(&b, "  %s%s\n", pad, red.Sprint("^"))
		}
	}
	return b.String()
}
