package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the mazerunner banner and the run headline to w.
func PrintBanner(w io.Writer, version, mazeName string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{" _ __ ___   __ _ _______ _ __ _   _ _ __  _ __   ___ _ __", "#34d399"},
		{"| '_ ` _ \\ / _` |_  / _ \\ '__| | | | '_ \\| '_ \\ / _ \\ '__|", "#2dd4bf"},
		{"| | | | | | (_| |/ /  __/ |  | |_| | | | | | | |  __/ |", "#22d3ee"},
		{"|_| |_| |_|\\__,_/___\\___|_|   \\__,_|_| |_|_| |_|\\___|_|", "#38bdf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)

	head := out.String(fmt.Sprintf("  %s · %s", version, mazeName)).Faint()
	fmt.Fprintln(w, head)
	fmt.Fprintln(w)
}
