//go:build windows

package winquery

import (
	"fmt"

	gopshost "github.com/shirou/gopsutil/v3/host"
	"github.com/yusufpapurcu/wmi"

	"github.com/brittonthompson/serviceaccounts/internal/scan"
)

// Win32_OperatingSystem mirrors the WMI class field we project.
type Win32_OperatingSystem struct {
	Version string
}

// OSVersion reports a host's OS version for capability probing. The
// local host is read directly; remote hosts are asked over WMI, which
// is answerable by every Windows generation this tool targets.
func (VersionQuery) OSVersion(host scan.HostTarget) (int, int, error) {
	if host.IsLocal {
		info, err := gopshost.Info()
		if err != nil {
			return 0, 0, fmt.Errorf("winquery: local host info: %w", err)
		}
		return ParseOSVersion(info.PlatformVersion)
	}

	var dst []Win32_OperatingSystem
	query := wmi.CreateQuery(&dst, "")
	if err := wmi.Query(query, &dst, host.Name, `root\cimv2`); err != nil {
		return 0, 0, fmt.Errorf("winquery: WMI OS query on %s: %w", host.Name, err)
	}
	if len(dst) == 0 {
		return 0, 0, fmt.Errorf("winquery: no OS record returned by %s", host.Name)
	}
	return ParseOSVersion(dst[0].Version)
}
