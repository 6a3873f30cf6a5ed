package scan

import (
	"fmt"

	"go.uber.org/zap"
)

// ServiceQuerier abstracts the two generations of service query
// backends. Implementations live in internal/winquery; tests supply
// fakes.
type ServiceQuerier interface {
	// QueryModern enumerates services through the current management
	// interface (WMI Win32_Service).
	QueryModern(host HostTarget, strategy ConnectionStrategy) ([]RawService, error)

	// QueryLegacy enumerates services through the Service Control
	// Manager, which every supported Windows version exposes.
	QueryLegacy(host HostTarget, strategy ConnectionStrategy) ([]RawService, error)
}

// ServiceSource enumerates services and their run-as identities for
// one host, with automatic fallback from the modern to the legacy
// interface on failure.
type ServiceSource struct {
	querier ServiceQuerier
	logger  *zap.Logger
}

// NewServiceSource creates a ServiceSource backed by the given querier.
func NewServiceSource(querier ServiceQuerier, logger *zap.Logger) *ServiceSource {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &ServiceSource{querier: querier, logger: logger}
}

// Enumerate returns the normalized service-account records for one
// host. A host declared legacy is queried through the legacy interface
// only; a modern host is queried through the modern interface with one
// legacy retry on failure. Terminal failure yields an empty sequence
// and an error describing it; the error never aborts other hosts.
// Fallback warnings are returned for the host's status surface.
func (s *ServiceSource) Enumerate(host HostTarget, strategy ConnectionStrategy) ([]AccountRecord, []string, error) {
	var warnings []string

	if strategy.Capability == CapabilityLegacy {
		raws, err := s.querier.QueryLegacy(host, strategy)
		if err != nil {
			return nil, warnings, fmt.Errorf("legacy service query on %s: %w", host.Name, err)
		}
		return s.project(host, raws), warnings, nil
	}

	raws, err := s.querier.QueryModern(host, strategy)
	if err == nil {
		return s.project(host, raws), warnings, nil
	}

	warn := fmt.Sprintf("modern service query failed on %s, falling back to legacy interface: %v", host.Name, err)
	warnings = append(warnings, warn)
	s.logger.Warn("modern service query failed, trying legacy interface",
		zap.String("host", host.Name), zap.Error(err))

	raws, err = s.querier.QueryLegacy(host, strategy)
	if err != nil {
		return nil, warnings, fmt.Errorf("service fallback on %s: %w", host.Name, err)
	}
	return s.project(host, raws), warnings, nil
}

// project maps raw service entries into AccountRecords, stamping the
// host name and dropping built-in identities.
func (s *ServiceSource) project(host HostTarget, raws []RawService) []AccountRecord {
	records := make([]AccountRecord, 0, len(raws))
	for _, raw := range raws {
		if IsSystemIdentity(raw.StartName) {
			continue
		}
		records = append(records, AccountRecord{
			HostName:  host.Name,
			Name:      raw.Name,
			StartName: raw.StartName,
			StartMode: raw.StartMode,
			State:     raw.State,
			TaskPath:  TaskPathNone,
			Kind:      KindService,
		})
	}
	return records
}
