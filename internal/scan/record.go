// Package scan implements the service-account discovery engine. It
// enumerates Windows services and scheduled tasks across a set of hosts,
// normalizes both sources into one record shape, and filters out
// built-in identities so the result set contains only real service
// accounts suitable for credential-rotation planning.
package scan

import (
	"os"
	"strings"
)

// RecordKind distinguishes the two enumeration sources.
type RecordKind string

// Record kinds emitted by the two sources.
const (
	KindService RecordKind = "Service"
	KindTask    RecordKind = "Task"
)

// TaskPathNone is the TaskPath sentinel stamped on service records,
// which have no scheduled-task path.
const TaskPathNone = `N\A`

// HostTarget identifies one host to inspect. Built once per input host
// name and never mutated.
type HostTarget struct {
	Name    string
	IsLocal bool
}

// NewHostTarget builds a HostTarget from a raw host name. Empty names,
// ".", "localhost", and the machine's own hostname all resolve to the
// local host.
func NewHostTarget(name string) HostTarget {
	local, _ := os.Hostname()
	switch {
	case name == "" || name == ".":
		return HostTarget{Name: local, IsLocal: true}
	case strings.EqualFold(name, "localhost"):
		return HostTarget{Name: local, IsLocal: true}
	case strings.EqualFold(name, local):
		return HostTarget{Name: name, IsLocal: true}
	default:
		return HostTarget{Name: name, IsLocal: false}
	}
}

// AccountRecord is the unified record shape both sources project into.
// One row per discovered service-account usage.
type AccountRecord struct {
	HostName  string
	Name      string // service name or task leaf name
	StartName string // run-as identity
	StartMode string // service start type or scheduled-task state
	State     string // current run state
	TaskPath  string // TaskPathNone for services, full path for tasks
	Kind      RecordKind
}

// RawService is the source-native shape returned by a service query.
// Transient; it exists only during one enumeration call.
type RawService struct {
	Name      string
	StartName string
	StartMode string
	State     string
}

// RawTask is the source-native shape returned by a task query.
type RawTask struct {
	Path      string
	RunAsUser string
	Scheduled string // Enabled or Disabled
	State     string // Ready, Running, Disabled, ...
}

// TaskLeafName returns the last path element of a task path.
func TaskLeafName(path string) string {
	if i := strings.LastIndex(path, `\`); i >= 0 {
		return path[i+1:]
	}
	return path
}
