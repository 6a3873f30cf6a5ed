package scan

// Capability classifies a host's management interface generation.
type Capability int

// Capability values. Modern hosts (Windows 8 / Server 2012 and later,
// kernel 6.2+) support the current management interfaces; anything
// older is queried through the legacy interfaces only.
const (
	CapabilityLegacy Capability = iota
	CapabilityModern
)

func (c Capability) String() string {
	if c == CapabilityModern {
		return "modern"
	}
	return "legacy"
}

// StrategyKind is the tagged choice of how a host's management
// interface is reached.
type StrategyKind int

// Strategy kinds.
const (
	StrategyLocal StrategyKind = iota
	StrategyModernRemote
	StrategyLegacyRemote
)

func (k StrategyKind) String() string {
	switch k {
	case StrategyLocal:
		return "local"
	case StrategyModernRemote:
		return "modern-remote"
	default:
		return "legacy-remote"
	}
}

// ConnectionStrategy is resolved once per host from reachability and
// capability probing, then consumed by both enumeration sources.
type ConnectionStrategy struct {
	Kind       StrategyKind
	Capability Capability
}

// ProbeCapability classifies an OS version (major.minor) as modern or
// legacy. Pure; the 6.2 boundary is the NT kernel version introduced
// with Windows 8 / Server 2012.
func ProbeCapability(major, minor int) Capability {
	if major > 6 || (major == 6 && minor >= 2) {
		return CapabilityModern
	}
	return CapabilityLegacy
}

// ResolveStrategy derives the connection strategy for a reachable host.
func ResolveStrategy(host HostTarget, capability Capability) ConnectionStrategy {
	if host.IsLocal {
		return ConnectionStrategy{Kind: StrategyLocal, Capability: capability}
	}
	if capability == CapabilityModern {
		return ConnectionStrategy{Kind: StrategyModernRemote, Capability: capability}
	}
	return ConnectionStrategy{Kind: StrategyLegacyRemote, Capability: capability}
}
