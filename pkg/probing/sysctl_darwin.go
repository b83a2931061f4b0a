//go:build darwin

package probing

import (
	"golang.org/x/sys/unix"

	"HostFacts/pkg/failure"
)

// Sysctl requests a named string value from the kernel.
func Sysctl(name string) (string, error) {
	v, err := unix.Sysctl(name)
	if err != nil {
		return "", failure.Unavailable("sysctl", name, err)
	}
	return v, nil
}

// SysctlUint64 requests a named 64-bit value.
func SysctlUint64(name string) (uint64, error) {
	v, err := unix.SysctlUint64(name)
	if err != nil {
		return 0, failure.Unavailable("sysctl", name, err)
	}
	return v, nil
}

// SysctlUint32 requests a named 32-bit value.
func SysctlUint32(name string) (uint32, error) {
	v, err := unix.SysctlUint32(name)
	if err != nil {
		return 0, failure.Unavailable("sysctl", name, err)
	}
	return v, nil
}

// SysctlRaw returns the raw bytes of a structured value such as
// kern.boottime.
func SysctlRaw(name string) ([]byte, error) {
	v, err := unix.SysctlRaw(name)
	if err != nil {
		return nil, failure.Unavailable("sysctl", name, err)
	}
	return v, nil
}
