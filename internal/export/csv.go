// Package export writes the accumulated result set to disk.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/brittonthompson/serviceaccounts/internal/scan"
)

// csvHeader is the fixed output column set, in order.
var csvHeader = []string{"ComputerName", "Name", "StartName", "StartMode", "State", "TaskPath", "Type"}

// WriteCSV writes one row per record to path, creating parent
// directories as needed. The records themselves are never modified; a
// write failure leaves the in-memory result set intact for the caller.
func WriteCSV(path string, records []scan.AccountRecord) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("export: create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}
	for _, r := range records {
		row := []string{r.HostName, r.Name, r.StartName, r.StartMode, r.State, r.TaskPath, string(r.Kind)}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("export: write record for %s: %w", r.HostName, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("export: flush %s: %w", path, err)
	}
	return nil
}
