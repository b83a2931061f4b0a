//go:build windows

package probing

import (
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"

	"HostFacts/pkg/failure"
)

// SystemInfo mirrors the SYSTEM_INFO structure filled by
// GetNativeSystemInfo.
type SystemInfo struct {
	ProcessorArchitecture     uint16
	Reserved                  uint16
	PageSize                  uint32
	MinimumApplicationAddress uintptr
	MaximumApplicationAddress uintptr
	ActiveProcessorMask       uintptr
	NumberOfProcessors        uint32
	ProcessorType             uint32
	AllocationGranularity     uint32
	ProcessorLevel            uint16
	ProcessorRevision         uint16
}

var procGetNativeSystemInfo = windows.NewLazySystemDLL("kernel32.dll").NewProc("GetNativeSystemInfo")

// NativeSystemInfo calls GetNativeSystemInfo.
func NativeSystemInfo() (SystemInfo, error) {
	var si SystemInfo
	if err := procGetNativeSystemInfo.Find(); err != nil {
		return si, failure.Unavailable("native", "GetNativeSystemInfo", err)
	}
	procGetNativeSystemInfo.Call(uintptr(unsafe.Pointer(&si)))
	return si, nil
}

// RegistryUint reads an integer value below HKEY_LOCAL_MACHINE.
func RegistryUint(path, name string) (uint64, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.QUERY_VALUE)
	if err != nil {
		return 0, failure.Unavailable("registry", path, err)
	}
	defer k.Close()

	v, _, err := k.GetIntegerValue(name)
	if err != nil {
		return 0, failure.Unavailable("registry", path+`\`+name, err)
	}
	return v, nil
}

// RegistryString reads a string value below HKEY_LOCAL_MACHINE.
func RegistryString(path, name string) (string, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.QUERY_VALUE)
	if err != nil {
		return "", failure.Unavailable("registry", path, err)
	}
	defer k.Close()

	v, _, err := k.GetStringValue(name)
	if err != nil {
		return "", failure.Unavailable("registry", path+`\`+name, err)
	}
	return v, nil
}
