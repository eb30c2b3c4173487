package errors

import (
	"fmt"
	"strings"

	"github.com/dynobj/dynobj-go/syntax"
)

func formatErrorWithDebug(f fmt.State, err *Error) {
	_, _ = fmt.Fprint(f, err.Error())
	if err.Source == "" {
		return
	}

	title := fmt.Sprintf(" %s ", sourceTitle(err.Name))
	_, _ = fmt.Fprint(f, "\n")
	_, _ = fmt.Fprintln(f, centerLine(title, '-', 79))

	lines := strings.Split(err.Source, "\n")
	lineIdx := 0
	if err.Span != nil && err.Span.StartLine > 0 {
		lineIdx = int(err.Span.StartLine - 1)
	}
	if lineIdx >= len(lines) {
		lineIdx = len(lines) - 1
	}
	if lineIdx < 0 {
		lineIdx = 0
	}

	skip := lineIdx - 3
	if skip < 0 {
		skip = 0
	}
	for idx := skip; idx < lineIdx; idx++ {
		_, _ = fmt.Fprintf(f, "%4d | %s\n", idx+1, lines[idx])
	}
	_, _ = fmt.Fprintf(f, "%4d > %s\n", lineIdx+1, lines[lineIdx])

	if err.Span != nil && err.Span.StartLine == err.Span.EndLine {
		_, _ = fmt.Fprintf(
			f,
			"     i %s%s %s\n",
			strings.Repeat(" ", int(err.Span.StartCol)),
			strings.Repeat("^", caretWidth(err.Span)),
			err.Kind,
		)
	}

	for idx := lineIdx + 1; idx <= lineIdx+3 && idx < len(lines); idx++ {
		_, _ = fmt.Fprintf(f, "%4d | %s\n", idx+1, lines[idx])
	}
	_, _ = fmt.Fprint(f, strings.Repeat("~", 79))
}

func caretWidth(span *syntax.Span) int {
	if span == nil {
		return 0
	}
	if span.EndCol <= span.StartCol {
		return 1
	}
	return int(span.EndCol - span.StartCol)
}

func sourceTitle(name string) string {
	if name == "" {
		return "JSON Source"
	}
	parts := strings.FieldsFunc(name, func(r rune) bool { return r == '/' || r == '\\' })
	if len(parts) == 0 {
		return "JSON Source"
	}
	return parts[len(parts)-1]
}

func centerLine(title string, fill rune, width int) string {
	if len(title) >= width {
		return title
	}
	pad := width - len(title)
	left := pad / 2
	right := pad - left
	return strings.Repeat(string(fill), left) + title + strings.Repeat(string(fill), right)
}
