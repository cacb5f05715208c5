package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the textsum banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.EnvColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{" _            _                        ", "#818cf8"},
		{"| |_ _____  _| |_ ___ _   _ _ __ ___   ", "#a78bfa"},
		{"| __/ _ \\ \\/ / __/ __| | | | '_ ` _ \\  ", "#c084fc"},
		{"| ||  __/>  <| |_\\__ \\ |_| | | | | | | ", "#e879f9"},
		{" \\__\\___/_/\\_\\\\__|___/\\__,_|_| |_| |_| ", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
