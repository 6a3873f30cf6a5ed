package scan

import (
	"fmt"

	"go.uber.org/zap"
)

// Prober answers whether a host is reachable. The ICMP/TCP
// implementation lives in internal/probe.
type Prober interface {
	Reachable(host HostTarget) bool
}

// VersionQuerier reports a host's OS version (major.minor) for
// capability probing.
type VersionQuerier interface {
	OSVersion(host HostTarget) (major, minor int, err error)
}

// Orchestrator drives the per-host sequence: reachability probe,
// capability probe, strategy resolution, service enumeration, task
// enumeration, aggregation. No failure on one host or one source ever
// stops the run.
type Orchestrator struct {
	prober   Prober
	versions VersionQuerier
	services *ServiceSource
	tasks    *TaskSource
	agg      *Aggregator
	logger   *zap.Logger
}

// NewOrchestrator wires the discovery pipeline together.
func NewOrchestrator(prober Prober, versions VersionQuerier, services *ServiceSource, tasks *TaskSource, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &Orchestrator{
		prober:   prober,
		versions: versions,
		services: services,
		tasks:    tasks,
		agg:      NewAggregator(),
		logger:   logger,
	}
}

// Run processes the hosts sequentially in input order and returns one
// status per host. Unreachable hosts are skipped with a recorded
// status; enumeration failures are absorbed into warnings.
func (o *Orchestrator) Run(hosts []HostTarget) []HostStatus {
	statuses := make([]HostStatus, 0, len(hosts))
	for _, host := range hosts {
		statuses = append(statuses, o.runHost(host))
	}
	return statuses
}

// Results returns the accumulated record set, read-only to callers.
func (o *Orchestrator) Results() []AccountRecord {
	return o.agg.All()
}

func (o *Orchestrator) runHost(host HostTarget) HostStatus {
	status := HostStatus{Host: host.Name}

	if !o.prober.Reachable(host) {
		o.logger.Warn("host unreachable, skipping", zap.String("host", host.Name))
		return status
	}
	status.Reachable = true

	capability, warn := o.probeCapability(host)
	if warn != "" {
		status.Warnings = append(status.Warnings, warn)
	}
	status.Capability = capability

	strategy := ResolveStrategy(host, capability)
	status.Strategy = strategy.Kind
	o.logger.Debug("resolved connection strategy",
		zap.String("host", host.Name),
		zap.Stringer("strategy", strategy.Kind),
		zap.Stringer("capability", capability))

	services, warnings, err := o.services.Enumerate(host, strategy)
	status.Warnings = append(status.Warnings, warnings...)
	if err != nil {
		status.Warnings = append(status.Warnings, err.Error())
		o.logger.Warn("service enumeration failed", zap.String("host", host.Name), zap.Error(err))
	}
	status.Services = len(services)
	o.agg.Append(services...)

	tasks, warnings, err := o.tasks.Enumerate(host, strategy)
	status.Warnings = append(status.Warnings, warnings...)
	if err != nil {
		status.Warnings = append(status.Warnings, err.Error())
		o.logger.Warn("task enumeration failed", zap.String("host", host.Name), zap.Error(err))
	}
	status.Tasks = len(tasks)
	o.agg.Append(tasks...)

	o.logger.Info("host scanned",
		zap.String("host", host.Name),
		zap.Int("serviceAccounts", status.Services),
		zap.Int("taskAccounts", status.Tasks))
	return status
}

// probeCapability resolves the host's capability from its OS version.
// An unanswerable version query degrades to legacy rather than risking
// a call into an interface that may not exist.
func (o *Orchestrator) probeCapability(host HostTarget) (Capability, string) {
	major, minor, err := o.versions.OSVersion(host)
	if err != nil {
		warn := fmt.Sprintf("OS version query failed on %s, assuming legacy host: %v", host.Name, err)
		o.logger.Warn("OS version query failed, assuming legacy host",
			zap.String("host", host.Name), zap.Error(err))
		return CapabilityLegacy, warn
	}
	return ProbeCapability(major, minor), ""
}
