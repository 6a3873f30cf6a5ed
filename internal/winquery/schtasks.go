package winquery

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/brittonthompson/serviceaccounts/internal/scan"
)

// Column headers of schtasks /Query /FO CSV /V output we project.
const (
	colTaskName  = "taskname"
	colRunAsUser = "run as user"
	colScheduled = "scheduled task state"
	colStatus    = "status"
)

// ParseSchtasksCSV parses the verbose CSV output of schtasks.exe into
// raw task entries. The verbose listing repeats the header line before
// each task block; repeated headers are skipped by their TaskName
// cell.
func ParseSchtasksCSV(output string) ([]scan.RawTask, error) {
	reader := csv.NewReader(strings.NewReader(output))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("winquery: parse schtasks output: %w", err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	header := records[0]
	colIndex := make(map[string]int, len(header))
	for i, col := range header {
		colIndex[strings.ToLower(strings.TrimSpace(col))] = i
	}
	nameIdx, ok := colIndex[colTaskName]
	if !ok {
		return nil, fmt.Errorf("winquery: TaskName column not found in schtasks output")
	}

	var tasks []scan.RawTask
	for _, record := range records[1:] {
		if len(record) <= nameIdx {
			continue
		}
		path := strings.TrimSpace(record[nameIdx])
		if path == "" || strings.EqualFold(path, "TaskName") {
			// Repeated header block from the verbose listing.
			continue
		}

		task := scan.RawTask{Path: path}
		if idx, ok := colIndex[colRunAsUser]; ok && idx < len(record) {
			task.RunAsUser = normalizeSchtasksValue(record[idx])
		}
		if idx, ok := colIndex[colScheduled]; ok && idx < len(record) {
			task.Scheduled = normalizeSchtasksValue(record[idx])
		}
		if idx, ok := colIndex[colStatus]; ok && idx < len(record) {
			task.State = normalizeSchtasksValue(record[idx])
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// normalizeSchtasksValue trims whitespace and maps the schtasks "N/A"
// placeholder to an empty string.
func normalizeSchtasksValue(s string) string {
	s = strings.TrimSpace(s)
	if s == "N/A" {
		return ""
	}
	return s
}
