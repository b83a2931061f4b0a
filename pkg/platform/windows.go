//go:build windows

package platform

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shirou/gopsutil/v4/cpu"
	"golang.org/x/sys/windows"

	"HostFacts/pkg/decoding"
	"HostFacts/pkg/failure"
	"HostFacts/pkg/probing"
)

const (
	centralProcessor = `HARDWARE\DESCRIPTION\System\CentralProcessor\0`
	cryptography     = `SOFTWARE\Microsoft\Cryptography`
)

func newPlatform(opts Options) HostFacts {
	return NewWindows(opts.Logger)
}

// Windows answers facts from native calls, the registry and gopsutil.
type Windows struct {
	unsupported
	portable
	logger *slog.Logger
}

// NewWindows builds the windows variant.
func NewWindows(logger *slog.Logger) *Windows {
	if logger == nil {
		logger = slog.Default()
	}
	return &Windows{unsupported: unsupported{goos: "windows"}, logger: logger}
}

func (w *Windows) Name() string { return "windows" }

func (w *Windows) Hostname() (string, error) {
	name, err := windows.ComputerName()
	if err != nil {
		return "", failure.Unavailable("hostname", "GetComputerName", err)
	}
	return name, nil
}

func (w *Windows) Uptime() (time.Duration, error) {
	return windows.DurationSinceBoot(), nil
}

// MachineID reads the MachineGuid written at install time.
func (w *Windows) MachineID() (uuid.UUID, error) {
	guid, err := probing.RegistryString(cryptography, "MachineGuid")
	if err != nil {
		return uuid.Nil, err
	}
	return decoding.DecodeMachineID(guid)
}

func (w *Windows) KernelVersion() (string, error) {
	v := windows.RtlGetVersion()
	return fmt.Sprintf("%d.%d.%d", v.MajorVersion, v.MinorVersion, v.BuildNumber), nil
}

func (w *Windows) Arch() (string, error) {
	si, err := probing.NativeSystemInfo()
	if err != nil {
		return "", err
	}
	return decoding.DecodeArchitecture(si.ProcessorArchitecture).String(), nil
}

func (w *Windows) CPU() (string, error) {
	return probing.RegistryString(centralProcessor, "ProcessorNameString")
}

func (w *Windows) CPUClock() (float64, error) {
	mhz, err := probing.RegistryUint(centralProcessor, "~MHz")
	if err != nil {
		return 0, err
	}
	return float64(mhz), nil
}

func (w *Windows) CPUCores() (int, error) {
	ctx, cancel := queryContext()
	defer cancel()
	n, err := cpu.CountsWithContext(ctx, false)
	if err != nil {
		return 0, failure.Unavailable("cpu cores", "gopsutil/cpu", err)
	}
	return n, nil
}

func (w *Windows) LogicalCores() (int, error) {
	si, err := probing.NativeSystemInfo()
	if err != nil {
		return 0, err
	}
	return int(si.NumberOfProcessors), nil
}

func (w *Windows) Processor() (decoding.Processor, error) {
	model, err := w.CPU()
	if err != nil {
		return decoding.Processor{}, err
	}
	logical, err := w.LogicalCores()
	if err != nil {
		return decoding.Processor{}, err
	}
	p := decoding.Processor{ModelName: model, LogicalCores: logical}
	if p.Vendor, err = probing.RegistryString(centralProcessor, "VendorIdentifier"); err != nil {
		skipOptional(w.logger, "cpu vendor", err)
	}
	if p.MHz, err = w.CPUClock(); err != nil {
		skipOptional(w.logger, "cpu clock", err)
	}
	if p.PhysicalCores, err = w.CPUCores(); err != nil {
		skipOptional(w.logger, "cpu cores", err)
	}
	return p, nil
}

func (w *Windows) Memory() (uint64, error) {
	vm, err := virtualMemory()
	if err != nil {
		return 0, err
	}
	return vm.Total, nil
}

// Swap is the page file size; gopsutil already excludes physical memory
// from the commit limit.
func (w *Windows) Swap() (uint64, error) {
	sw, err := swapMemory()
	if err != nil {
		return 0, err
	}
	return sw.Total, nil
}

func (w *Windows) MemoryInfo() (decoding.Memory, error) {
	vm, err := virtualMemory()
	if err != nil {
		return decoding.Memory{}, err
	}
	sw, err := swapMemory()
	if err != nil {
		skipOptional(w.logger, "swap", err)
	}
	return memoryFromStats(vm, sw), nil
}

func (w *Windows) IPv4(iface string) (string, bool, error) { return address(iface, false) }
func (w *Windows) IPv6(iface string) (string, bool, error) { return address(iface, true) }

// Ambiguous between the embedded types; portable wins.

func (w *Windows) MAC(iface string) (string, bool, error) { return w.portable.MAC(iface) }
func (w *Windows) InterfaceNames() ([]string, error) { return w.portable.InterfaceNames() }

func (w *Windows) Interfaces() (decoding.Interfaces, error) { return w.portable.Interfaces() }

func (w *Windows) Interface(name string) (*decoding.Interface, error) {
	return w.portable.Interface(name)
}

func (w *Windows) Pids() ([]int, error) { return w.portable.Pids() }

func (w *Windows) Mounts() (decoding.MountPoints, error) { return w.portable.Mounts() }
