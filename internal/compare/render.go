package compare

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	headerFmt   = color.New(color.FgBlue, color.Bold).SprintfFunc()
	pathFmt     = color.New(color.Bold).SprintFunc()
	expectedFmt = color.New(color.FgGreen).SprintfFunc()
	actualFmt   = color.New(color.FgRed).SprintfFunc()
	equalFmt    = color.New(color.FgGreen).SprintFunc()
)

// Render writes a human readable report of result. Expected values are
// prefixed with "-" and actual values with "+".
func Render(w io.Writer, result *Result) error {
	if result.Equal {
		_, err := fmt.Fprintln(w, equalFmt("diagrams are equal"))
		return err
	}

	if _, err := fmt.Fprintln(w, headerFmt("%d difference(s) (- expected, + actual)", len(result.Changes))); err != nil {
		return err
	}
	for _, change := range result.Changes {
		if _, err := fmt.Fprintln(w, pathFmt(change.Path)); err != nil {
			return err
		}
		if change.Expected != "" {
			if _, err := fmt.Fprintln(w, expectedFmt("  - %s", change.Expected)); err != nil {
				return err
			}
		}
		if change.Actual != "" {
			if _, err := fmt.Fprintln(w, actualFmt("  + %s", change.Actual)); err != nil {
				return err
			}
		}
	}
	return nil
}
