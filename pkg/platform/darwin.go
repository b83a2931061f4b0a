//go:build darwin

package platform

import (
	"log/slog"
	"strings"
	"time"

	"HostFacts/pkg/decoding"
	"HostFacts/pkg/probing"
)

func newPlatform(opts Options) HostFacts {
	return NewDarwin(probing.ExecRunner{}, opts.Logger)
}

// Darwin answers facts from sysctl, a few commands and gopsutil. Facts
// that only exist in procfs or sysfs stay unsupported.
type Darwin struct {
	unsupported
	portable
	runner probing.Runner
	logger *slog.Logger
}

// NewDarwin builds the darwin variant. runner executes uname, route,
// sysctl and vm_stat.
func NewDarwin(runner probing.Runner, logger *slog.Logger) *Darwin {
	if logger == nil {
		logger = slog.Default()
	}
	return &Darwin{unsupported: unsupported{goos: "darwin"}, runner: runner, logger: logger}
}

func (d *Darwin) Name() string { return "darwin" }

func (d *Darwin) Hostname() (string, error) { return probing.Sysctl("kern.hostname") }

func (d *Darwin) Domainname() (string, error) { return probing.Sysctl("kern.nisdomainname") }

func (d *Darwin) KernelVersion() (string, error) { return probing.Sysctl("kern.osrelease") }

func (d *Darwin) Uptime() (time.Duration, error) {
	raw, err := probing.SysctlRaw("kern.boottime")
	if err != nil {
		return 0, err
	}
	boot, err := decoding.DecodeTimeval(raw)
	if err != nil {
		return 0, err
	}
	return time.Since(boot), nil
}

func (d *Darwin) Arch() (string, error) {
	out, err := run(d.runner, "uname", "-m")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (d *Darwin) CPU() (string, error) { return probing.Sysctl("machdep.cpu.brand_string") }

func (d *Darwin) CPUClock() (float64, error) {
	hz, err := probing.SysctlUint64("hw.cpufrequency")
	if err != nil {
		return 0, err
	}
	return float64(hz) / 1e6, nil
}

func (d *Darwin) CPUCores() (int, error) {
	n, err := probing.SysctlUint32("hw.physicalcpu")
	return int(n), err
}

func (d *Darwin) LogicalCores() (int, error) {
	n, err := probing.SysctlUint32("hw.logicalcpu")
	return int(n), err
}

// Processor assembles the record from sysctl. The clock and vendor are
// absent on Apple silicon and left empty.
func (d *Darwin) Processor() (decoding.Processor, error) {
	model, err := d.CPU()
	if err != nil {
		return decoding.Processor{}, err
	}
	physical, err := d.CPUCores()
	if err != nil {
		return decoding.Processor{}, err
	}
	logical, err := d.LogicalCores()
	if err != nil {
		return decoding.Processor{}, err
	}
	p := decoding.Processor{
		ModelName:     model,
		LogicalCores:  logical,
		PhysicalCores: physical,
	}
	if p.Vendor, err = probing.Sysctl("machdep.cpu.vendor"); err != nil {
		skipOptional(d.logger, "cpu vendor", err)
	}
	if p.MHz, err = d.CPUClock(); err != nil {
		skipOptional(d.logger, "cpu clock", err)
	}
	return p, nil
}

func (d *Darwin) Memory() (uint64, error) { return probing.SysctlUint64("hw.memsize") }

func (d *Darwin) swapUsage() (decoding.SwapUsage, error) {
	out, err := run(d.runner, "sysctl", "-n", "vm.swapusage")
	if err != nil {
		return decoding.SwapUsage{}, err
	}
	return decoding.DecodeSwapUsage(out)
}

func (d *Darwin) Swap() (uint64, error) {
	s, err := d.swapUsage()
	if err != nil {
		return 0, err
	}
	return s.Total, nil
}

func (d *Darwin) MemoryInfo() (decoding.Memory, error) {
	total, err := d.Memory()
	if err != nil {
		return decoding.Memory{}, err
	}
	swap, err := d.swapUsage()
	if err != nil {
		return decoding.Memory{}, err
	}
	out, err := run(d.runner, "vm_stat")
	if err != nil {
		return decoding.Memory{}, err
	}
	vm, err := decoding.DecodeVMStat(out)
	if err != nil {
		return decoding.Memory{}, err
	}
	return vm.Memory(total, swap.Total, swap.Free), nil
}

func (d *Darwin) DefaultInterface() (string, bool, error) {
	out, err := run(d.runner, "route", "-n", "get", "default")
	if err != nil {
		return "", false, err
	}
	name, ok := decoding.DecodeRouteGetDefault(out)
	return name, ok, nil
}

func (d *Darwin) IPv4(iface string) (string, bool, error) { return address(iface, false) }
func (d *Darwin) IPv6(iface string) (string, bool, error) { return address(iface, true) }

// Ambiguous between the embedded types; portable wins.

func (d *Darwin) MAC(iface string) (string, bool, error) { return d.portable.MAC(iface) }
func (d *Darwin) InterfaceNames() ([]string, error) { return d.portable.InterfaceNames() }

func (d *Darwin) Interfaces() (decoding.Interfaces, error) { return d.portable.Interfaces() }

func (d *Darwin) Interface(name string) (*decoding.Interface, error) {
	return d.portable.Interface(name)
}

func (d *Darwin) Pids() ([]int, error) { return d.portable.Pids() }

func (d *Darwin) Mounts() (decoding.MountPoints, error) { return d.portable.Mounts() }
