//go:build !windows

package winquery

import "github.com/brittonthompson/serviceaccounts/internal/scan"

// The Windows management interfaces are not available here; every
// backend reports ErrUnsupported so the scan engine records the host
// as failed rather than crashing.

func (ServiceQuery) QueryModern(host scan.HostTarget, strategy scan.ConnectionStrategy) ([]scan.RawService, error) {
	return nil, ErrUnsupported
}

func (ServiceQuery) QueryLegacy(host scan.HostTarget, strategy scan.ConnectionStrategy) ([]scan.RawService, error) {
	return nil, ErrUnsupported
}

func (TaskQuery) QueryModern(host scan.HostTarget, strategy scan.ConnectionStrategy) ([]scan.RawTask, error) {
	return nil, ErrUnsupported
}

func (TaskQuery) QueryLegacy(host scan.HostTarget, strategy scan.ConnectionStrategy) ([]scan.RawTask, error) {
	return nil, ErrUnsupported
}

func (VersionQuery) OSVersion(host scan.HostTarget) (int, int, error) {
	return 0, 0, ErrUnsupported
}
