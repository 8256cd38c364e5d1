package cli

import (
	"errors"
	"fmt"
	"io"
)

// PrintError writes err and every wrapped cause as "ERROR: <msg>" lines,
// outermost first. Joined errors print each branch in order.
func PrintError(w io.Writer, err error) {
	seen := make(map[string]bool)
	printCauses(w, err, seen)
}

func printCauses(w io.Writer, err error, seen map[string]bool) {
	if err == nil {
		return
	}
	msg := err.Error()
	if !seen[msg] {
		seen[msg] = true
		fmt.Fprintf(w, "ERROR: %s\n", msg)
	}

	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, e := range u.Unwrap() {
			printCauses(w, e, seen)
		}
	default:
		printCauses(w, errors.Unwrap(err), seen)
	}
}
