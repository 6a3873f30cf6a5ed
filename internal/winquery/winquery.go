// Package winquery implements the Windows query backends behind the
// scan package's querier interfaces: WMI for modern service
// enumeration, the Service Control Manager for legacy service
// enumeration, the Task Scheduler COM interface for modern task
// enumeration, and schtasks.exe for legacy task enumeration. On
// non-Windows platforms every backend reports ErrUnsupported.
package winquery

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnsupported is returned by every backend on platforms without the
// Windows management interfaces.
var ErrUnsupported = errors.New("winquery: not supported on this platform")

// ServiceQuery implements scan.ServiceQuerier.
type ServiceQuery struct{}

// TaskQuery implements scan.TaskQuerier.
type TaskQuery struct{}

// VersionQuery implements scan.VersionQuerier.
type VersionQuery struct{}

// ParseOSVersion extracts major.minor from a Windows version string
// such as "6.1.7601" or "10.0.19045".
func ParseOSVersion(version string) (major, minor int, err error) {
	parts := strings.SplitN(strings.TrimSpace(version), ".", 3)
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("winquery: malformed OS version %q", version)
	}
	major, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("winquery: malformed OS version %q", version)
	}
	minor, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("winquery: malformed OS version %q", version)
	}
	return major, minor, nil
}
