package scan

import "strings"

// Built-in identities that never count as service accounts.
var builtinIdentities = []string{
	"LocalSystem",
	"SYSTEM",
	"NETWORK SERVICE",
	"LOCAL SERVICE",
}

// microsoftTaskNamespace marks scheduled tasks that ship with Windows.
const microsoftTaskNamespace = `\Microsoft\`

// IsSystemIdentity reports whether a run-as identity is empty, one of
// the built-in accounts, or in the "NT " namespace (NT AUTHORITY,
// NT SERVICE, ...). Name comparison is case-insensitive, matching how
// Windows treats account names.
func IsSystemIdentity(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return true
	}
	for _, builtin := range builtinIdentities {
		if strings.EqualFold(name, builtin) {
			return true
		}
	}
	return strings.HasPrefix(strings.ToUpper(name), "NT ")
}

// IsMicrosoftTaskPath reports whether a task path sits under the
// Microsoft namespace.
func IsMicrosoftTaskPath(path string) bool {
	return strings.Contains(path, microsoftTaskNamespace) ||
		strings.HasPrefix(path, `\Microsoft`)
}

// ExclusionSet is the read-only list of task-name substrings to drop,
// built once at startup from configuration.
type ExclusionSet []string

// IsExcludedTaskName reports whether a task name contains any of the
// exclusion substrings. A single match excludes the row; matching is
// case-sensitive.
func IsExcludedTaskName(name string, exclusions ExclusionSet) bool {
	for _, substr := range exclusions {
		if substr != "" && strings.Contains(name, substr) {
			return true
		}
	}
	return false
}
