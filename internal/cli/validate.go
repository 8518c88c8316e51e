package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/probe/pkg/scenario"
)

// Validate parses every scenario under paths without running anything,
// printing one line per file. All problems are returned joined.
func Validate(paths []string, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}

	files, err := discoverScenarios(paths)
	if err != nil {
		return err
	}

	var errs []error
	for _, path := range files {
		sc, err := scenario.LoadFile(path)
		if err != nil {
			fmt.Fprintf(w, "❌ %s\n", path)
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(w, "✅ %s: %s (%d steps, drivers: %v)\n", path, sc.Name, sc.StepCount(), sc.Drivers)
	}
	return errors.Join(errs...)
}
