package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	"                      _          ",
	"  _ __  _ __ ___  | |__   ___ ",
	" | '_ \\| '__/ _ \\ | '_ \\ / _ \\",
	" | |_) | | | (_) || |_) |  __/",
	" | .__/|_|  \\___/ |_.__/ \\___|",
	" |_|                          ",
}

// Indigo to rose, one shade per line.
var bannerColors = []string{"#818cf8", "#a78bfa", "#c084fc", "#e879f9", "#f472b6", "#fb7185"}

// PrintBanner writes the probe banner and version to w. Colors follow the
// terminal capabilities of w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)

	fmt.Fprintln(out)
	for i, line := range bannerLines {
		fmt.Fprintln(out, out.String(line).Foreground(out.Color(bannerColors[i])))
	}
	fmt.Fprintln(out, out.String("  "+strings.TrimSpace(version)).Faint())
	fmt.Fprintln(out)
}
