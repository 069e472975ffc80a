package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the menube banner to out.
func PrintBanner(out io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"                               _          ", "#818cf8"},
		{"  _ __ ___   ___ _ __  _   _| |__   ___ ", "#a78bfa"},
		{" | '_ ` _ \\ / _ \\ '_ \\| | | | '_ \\ / _ \\", "#c084fc"},
		{" | | | | | |  __/ | | | |_| | |_) |  __/", "#e879f9"},
		{" |_| |_| |_|\\___|_| |_|\\__,_|_.__/ \\___|", "#f472b6"},
	}

	fmt.Fprint(out, "\r\n")
	for _, l := range lines {
		fmt.Fprintf(out, "%s\r\n", p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprint(out, "\r\n")
}
