package scan

// HostStatus is the per-host observability record: reachability
// outcome, per-source account counts, and any fallback warnings. It is
// rendered by the caller's logging layer and never drives control
// flow.
type HostStatus struct {
	Host       string
	Reachable  bool
	Capability Capability
	Strategy   StrategyKind
	Services   int
	Tasks      int
	Warnings   []string
}
