//go:build windows

package winquery

import (
	"fmt"

	"github.com/yusufpapurcu/wmi"
	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/mgr"

	"github.com/brittonthompson/serviceaccounts/internal/scan"
)

// Win32_Service mirrors the WMI class fields we project. The struct
// name must match the class name for wmi.CreateQuery.
type Win32_Service struct {
	Name      string
	StartName string
	StartMode string
	State     string
}

// QueryModern enumerates services through WMI, locally or against a
// remote host's root\cimv2 namespace.
func (ServiceQuery) QueryModern(host scan.HostTarget, strategy scan.ConnectionStrategy) ([]scan.RawService, error) {
	var dst []Win32_Service
	query := wmi.CreateQuery(&dst, "")

	var err error
	if host.IsLocal {
		err = wmi.Query(query, &dst)
	} else {
		err = wmi.Query(query, &dst, host.Name, `root\cimv2`)
	}
	if err != nil {
		return nil, fmt.Errorf("winquery: WMI service query: %w", err)
	}

	services := make([]scan.RawService, 0, len(dst))
	for _, s := range dst {
		services = append(services, scan.RawService{
			Name:      s.Name,
			StartName: s.StartName,
			StartMode: s.StartMode,
			State:     s.State,
		})
	}
	return services, nil
}

// QueryLegacy enumerates services through the Service Control Manager.
// Services we cannot open or query are skipped, not fatal.
func (ServiceQuery) QueryLegacy(host scan.HostTarget, strategy scan.ConnectionStrategy) ([]scan.RawService, error) {
	var (
		m   *mgr.Mgr
		err error
	)
	if host.IsLocal {
		m, err = mgr.Connect()
	} else {
		m, err = mgr.ConnectRemote(host.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("winquery: connect to SCM on %s: %w", host.Name, err)
	}
	defer m.Disconnect()

	names, err := m.ListServices()
	if err != nil {
		return nil, fmt.Errorf("winquery: list services on %s: %w", host.Name, err)
	}

	services := make([]scan.RawService, 0, len(names))
	for _, name := range names {
		s, err := m.OpenService(name)
		if err != nil {
			continue
		}
		config, err := s.Config()
		if err != nil {
			s.Close()
			continue
		}
		status, err := s.Query()
		s.Close()
		if err != nil {
			continue
		}
		services = append(services, scan.RawService{
			Name:      name,
			StartName: config.ServiceStartName,
			StartMode: startTypeString(config.StartType),
			State:     serviceStateString(status.State),
		})
	}
	return services, nil
}

// startTypeString maps SCM start types onto the WMI StartMode
// vocabulary so both backends produce comparable records.
func startTypeString(startType uint32) string {
	switch startType {
	case mgr.StartAutomatic:
		return "Auto"
	case mgr.StartManual:
		return "Manual"
	case mgr.StartDisabled:
		return "Disabled"
	default:
		return "Unknown"
	}
}

// serviceStateString maps SCM run states onto the WMI State
// vocabulary.
func serviceStateString(state svc.State) string {
	switch state {
	case svc.Running:
		return "Running"
	case svc.Stopped:
		return "Stopped"
	case svc.Paused:
		return "Paused"
	case svc.StartPending, svc.ContinuePending:
		return "Start Pending"
	case svc.StopPending, svc.PausePending:
		return "Stop Pending"
	default:
		return "Unknown"
	}
}
