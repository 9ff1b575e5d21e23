package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the exitintent banner to w.
func PrintBanner(w io.Writer) {
	o := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{"            _ _   _       _             _   ", "#818cf8"},
		{"   _____  _(_) |_(_)_ __ | |_ ___ _ __ | |_ ", "#a78bfa"},
		{"  / _ \\ \\/ / | __| | '_ \\| __/ _ \\ '_ \\| __|", "#c084fc"},
		{" |  __/>  <| | |_| | | | | ||  __/ | | | |_ ", "#e879f9"},
		{"  \\___/_/\\_\\_|\\__|_|_| |_|\\__\\___|_| |_|\\__|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, o.String(l.text).Foreground(o.Color(l.color)))
	}
	fmt.Fprintln(w)
}
