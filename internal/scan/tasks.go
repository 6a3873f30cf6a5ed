package scan

import (
	"fmt"

	"go.uber.org/zap"
)

// TaskQuerier abstracts the two generations of scheduled-task query
// backends. Implementations live in internal/winquery; tests supply
// fakes.
type TaskQuerier interface {
	// QueryModern enumerates tasks through the Task Scheduler
	// management interface.
	QueryModern(host HostTarget, strategy ConnectionStrategy) ([]RawTask, error)

	// QueryLegacy enumerates tasks by parsing schtasks.exe output,
	// which works back to the oldest supported Windows versions.
	QueryLegacy(host HostTarget, strategy ConnectionStrategy) ([]RawTask, error)
}

// TaskSource enumerates scheduled tasks and their run-as identities
// for one host. Unlike ServiceSource, a failed modern query always
// falls back to the legacy command path regardless of the host's
// declared capability, because schtasks.exe is present everywhere.
type TaskSource struct {
	querier    TaskQuerier
	exclusions ExclusionSet
	logger     *zap.Logger
}

// NewTaskSource creates a TaskSource backed by the given querier.
func NewTaskSource(querier TaskQuerier, exclusions ExclusionSet, logger *zap.Logger) *TaskSource {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &TaskSource{querier: querier, exclusions: exclusions, logger: logger}
}

// Enumerate returns the normalized task-account records for one host.
// Modern hosts try the Task Scheduler interface first and fall back to
// the legacy command on failure; legacy hosts go straight to the
// command. Terminal failure yields an empty sequence and an error.
func (t *TaskSource) Enumerate(host HostTarget, strategy ConnectionStrategy) ([]AccountRecord, []string, error) {
	var warnings []string

	if strategy.Capability == CapabilityModern {
		raws, err := t.querier.QueryModern(host, strategy)
		if err == nil {
			return t.project(host, raws), warnings, nil
		}
		warn := fmt.Sprintf("task scheduler query failed on %s, falling back to schtasks: %v", host.Name, err)
		warnings = append(warnings, warn)
		t.logger.Warn("task scheduler query failed, trying schtasks",
			zap.String("host", host.Name), zap.Error(err))
	}

	raws, err := t.querier.QueryLegacy(host, strategy)
	if err != nil {
		return nil, warnings, fmt.Errorf("legacy task query on %s: %w", host.Name, err)
	}
	return t.project(host, raws), warnings, nil
}

// project maps raw task entries into AccountRecords. Tasks under the
// Microsoft namespace, tasks run as built-in identities, and tasks
// whose name matches any configured exclusion substring are dropped.
func (t *TaskSource) project(host HostTarget, raws []RawTask) []AccountRecord {
	records := make([]AccountRecord, 0, len(raws))
	for _, raw := range raws {
		if IsMicrosoftTaskPath(raw.Path) {
			continue
		}
		if IsSystemIdentity(raw.RunAsUser) {
			continue
		}
		name := TaskLeafName(raw.Path)
		if IsExcludedTaskName(name, t.exclusions) {
			continue
		}
		records = append(records, AccountRecord{
			HostName:  host.Name,
			Name:      name,
			StartName: raw.RunAsUser,
			StartMode: raw.Scheduled,
			State:     raw.State,
			TaskPath:  raw.Path,
			Kind:      KindTask,
		})
	}
	return records
}
