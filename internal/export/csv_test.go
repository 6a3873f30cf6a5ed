package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/brittonthompson/serviceaccounts/internal/scan"
)

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "service-accounts.csv")
	records := []scan.AccountRecord{
		{
			HostName:  "WEB01",
			Name:      "SvcBackup",
			StartName: `DOMAIN\svc_backup`,
			StartMode: "Auto",
			State:     "Running",
			TaskPath:  scan.TaskPathNone,
			Kind:      scan.KindService,
		},
		{
			HostName:  "WEB01",
			Name:      "NightlyReport",
			StartName: `DOMAIN\svc_report`,
			StartMode: "Enabled",
			State:     "Ready",
			TaskPath:  `\NightlyReport`,
			Kind:      scan.KindTask,
		},
	}

	if err := WriteCSV(path, records); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}

	wantHeader := []string{"ComputerName", "Name", "StartName", "StartMode", "State", "TaskPath", "Type"}
	for i, col := range wantHeader {
		if rows[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], col)
		}
	}

	if rows[1][5] != `N\A` || rows[1][6] != "Service" {
		t.Errorf("service row = %v", rows[1])
	}
	if rows[2][5] != `\NightlyReport` || rows[2][6] != "Task" {
		t.Errorf("task row = %v", rows[2])
	}
}

func TestWriteCSVEmptyResultSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := WriteCSV(path, nil); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(data) == 0 {
		t.Error("empty result set should still write the header")
	}
}

func TestWriteCSVBadPath(t *testing.T) {
	dir := t.TempDir()
	// The output path is the directory itself, so Create must fail.
	if err := WriteCSV(dir, nil); err == nil {
		t.Error("expected error writing to a directory path")
	}
}
