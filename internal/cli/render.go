package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/probe/internal/presentation/tui"
	"github.com/aretw0/probe/pkg/report"
)

// openOutput returns where reports go: the --output file, or Stdout.
func openOutput(opts RunOptions) (io.Writer, func(), error) {
	if opts.Output == "" {
		return opts.Stdout, func() {}, nil
	}
	f, err := os.Create(opts.Output)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create report file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// writeReport renders s to w. Markdown headed for a terminal goes through
// the terminal renderer.
func writeReport(w io.Writer, format report.Format, s report.Summary) error {
	f, ok := w.(*os.File)
	if format != report.FormatMarkdown || !ok || !tui.IsTerminal(f) {
		return report.Render(w, format, s)
	}

	var buf bytes.Buffer
	if err := report.Markdown(&buf, s); err != nil {
		return err
	}
	out, err := tui.NewRenderer()(buf.String())
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
