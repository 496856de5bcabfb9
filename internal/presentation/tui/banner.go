package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the tmtrace ASCII banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct{ text, color string }{
		{" _             _                       ", "#818cf8"},
		{"| |_ _ __ ___ | |_ _ __ __ _  ___ ___  ", "#a78bfa"},
		{"| __| '_ ` _ \\| __| '__/ _` |/ __/ _ \\ ", "#c084fc"},
		{"| |_| | | | | | |_| | | (_| | (_|  __/ ", "#e879f9"},
		{" \\__|_| |_| |_|\\__|_|  \\__,_|\\___\\___| ", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// Verdict returns the verdict line colored green (accepted) or red (rejected).
func Verdict(accepted bool, depth, transitions int) string {
	p := termenv.ColorProfile()
	if accepted {
		return termenv.String(fmt.Sprintf("✔ accepted at depth %d (%d transitions)", depth, transitions)).
			Foreground(p.Color("#22c55e")).Bold().String()
	}
	return termenv.String(fmt.Sprintf("✘ not accepted, proceeded to depth %d (%d transitions)", depth, transitions)).
		Foreground(p.Color("#ef4444")).Bold().String()
}
